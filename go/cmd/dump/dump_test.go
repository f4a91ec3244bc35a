package dump

import (
	"bytes"
	"io"
	"testing"

	"github.com/lunixbochs/redcorn/go/models"
	"github.com/lunixbochs/redcorn/go/models/listing"
)

type buffer struct{ bytes.Buffer }

func (b *buffer) Close() error { return nil }

func TestDump(t *testing.T) {
	var buf buffer
	w, err := listing.NewWriter(&buf, "ndh", models.LittleEndian, 0x8000)
	if err != nil {
		t.Fatal(err)
	}
	w.Pack(&listing.Record{Address: 0x8000, Size: 4, Mnemonic: "movb", Operands: "r0, 0x1"})
	w.Pack(&listing.Record{Address: 0x8004, Size: 1, Type: uint32(models.Stop), Mnemonic: "end"})
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	r, err := listing.NewReader(io.NopCloser(&buf.Buffer))
	if err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	if err := Dump(&out, r, true); err != nil {
		t.Fatal(err)
	}
	want := "; ndh (little endian) base 0x8000\n" +
		"0x00008000:  movb r0, 0x1\n" +
		"0x00008004:  end  ; stop\n"
	if out.String() != want {
		t.Fatalf("got:\n%s\nwant:\n%s", out.String(), want)
	}
}
