package archs

import (
	"bytes"
	"strings"
	"testing"
)

func TestList(t *testing.T) {
	var out bytes.Buffer
	if err := List(&out); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if !strings.HasPrefix(lines[0], "NAME") {
		t.Fatalf("header %q", lines[0])
	}
	var mips, ndh string
	for _, line := range lines[1:] {
		switch strings.Fields(line)[0] {
		case "mips":
			mips = line
		case "ndh":
			ndh = line
		}
	}
	if f := strings.Fields(mips); len(f) != 4 || f[1] != "32" || f[2] != "big" || f[3] != "-" {
		t.Errorf("mips row %q", mips)
	}
	if ndh == "" {
		t.Error("ndh missing")
	}
}
