package cmd

import (
	"bytes"
	"flag"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/lunixbochs/redcorn/go/models"
)

func TestUintFlag(t *testing.T) {
	c := NewCmd("test")
	entries := c.Uints("entry", "")
	if err := c.Flags.Parse([]string{"-entry", "0x10,32", "-entry", "0o17"}); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]uint64{0x10, 32, 15}, *entries); diff != "" {
		t.Fatal(diff)
	}
	c = NewCmd("test")
	c.Flags.SetOutput(&bytes.Buffer{})
	c.Uints("entry", "")
	if err := c.Flags.Parse([]string{"-entry", "zz"}); err == nil {
		t.Fatal("bad number accepted")
	}
}

func TestSymbolFlag(t *testing.T) {
	c := NewCmd("test")
	syms := c.Symbols("sym", "")
	if err := c.Flags.Parse([]string{"-sym", "main=0x1000+0x20", "-sym", "start=4096"}); err != nil {
		t.Fatal(err)
	}
	want := []models.Symbol{
		{Name: "main", Start: 0x1000, End: 0x20, Kind: models.SymFunction},
		{Name: "start", Start: 4096, Kind: models.SymFunction},
	}
	if diff := cmp.Diff(want, *syms); diff != "" {
		t.Fatal(diff)
	}
	for _, bad := range []string{"main", "=0x10", "main=x", "main=0x10+y"} {
		var s symflag
		if err := s.Set(bad); err == nil {
			t.Errorf("Set(%q) succeeded", bad)
		}
	}
}

func TestPrintFlags(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.String("arch", "mips", "processor")
	fs.Bool("v", false, strings.Repeat("word ", 30))
	var flags []*flag.Flag
	fs.VisitAll(func(f *flag.Flag) { flags = append(flags, f) })
	var buf bytes.Buffer
	PrintFlags(&buf, flags)
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if !strings.HasPrefix(lines[0], "  -arch (mips)") || !strings.HasSuffix(lines[0], "processor") {
		t.Fatalf("first line %q", lines[0])
	}
	if len(lines) < 3 {
		t.Fatalf("long usage not wrapped: %q", buf.String())
	}
	for _, line := range lines {
		if len(line) > 80 {
			t.Errorf("line too long: %q", line)
		}
	}
}

func TestRunExitStatus(t *testing.T) {
	var stderr bytes.Buffer
	c := NewCmd("test")
	c.Stderr = &stderr
	c.RunCmd = func(args []string) error { return models.ExitStatus(3) }
	if code := c.Run([]string{"test"}); code != 3 {
		t.Fatalf("exit code %d", code)
	}

	c = NewCmd("test")
	c.Stderr = &stderr
	c.MinArgs = 1
	c.RunCmd = func(args []string) error { return nil }
	if code := c.Run([]string{"test"}); code != 2 {
		t.Fatalf("missing argument exit code %d", code)
	}
}
