// Package listing reads and writes disassembly listings: a struc header
// followed by a snappy-compressed stream of instruction records.
package listing

import (
	"io"
	"strings"

	"github.com/golang/snappy"
	"github.com/lunixbochs/struc"
	"github.com/pkg/errors"

	"github.com/lunixbochs/redcorn/go/models"
)

var LISTING_MAGIC = "RDIL"

const Version = 1

type Header struct {
	// MAGIC ("RDIL")
	Magic   string `struc:"[4]byte"`
	Version uint32
	// Processor name, right-null-padded.
	Arch string `struc:"[32]byte"`
	// Byte Order - 0 for little, 1 for big
	OrderNum uint8
	Base     uint64

	Order models.Endianness `struc:"skip"`
}

// Record is one decoded instruction as stored in a listing.
type Record struct {
	Address uint64
	Size    uint16
	Type    uint32
	ID      uint32

	MnemonicLen int `struc:"uint8,sizeof=Mnemonic"`
	Mnemonic    string
	OperandsLen int `struc:"uint16,sizeof=Operands"`
	Operands    string
	BytesLen    int `struc:"uint8,sizeof=Bytes"`
	Bytes       []byte
	TargetCount int `struc:"uint8,sizeof=Targets"`
	Targets     []uint64
}

// NewRecord snapshots ins. Operand text comes from the decoder payload, so
// it must be taken before the record is released.
func NewRecord(ins *models.Instruction) *Record {
	return &Record{
		Address:  ins.Address,
		Size:     uint16(ins.Size),
		Type:     uint32(ins.Type),
		ID:       uint32(ins.ID),
		Mnemonic: ins.Mnemonic,
		Operands: ins.OpStr(),
		Bytes:    append([]byte(nil), ins.Bytes...),
		Targets:  append([]uint64(nil), ins.Targets...),
	}
}

func (r *Record) InsnType() models.InsnType { return models.InsnType(r.Type) }

func (r *Record) String() string {
	if r.Operands == "" {
		return r.Mnemonic
	}
	return r.Mnemonic + " " + r.Operands
}

type Writer struct {
	w  io.WriteCloser
	zw *snappy.Writer
}

func NewWriter(w io.WriteCloser, arch string, order models.Endianness, base uint64) (*Writer, error) {
	if len(arch) > 32 {
		return nil, errors.Errorf("arch name too long: %q", arch)
	}
	header := &Header{
		Magic:    LISTING_MAGIC,
		Version:  Version,
		Arch:     arch,
		OrderNum: uint8(order),
		Base:     base,
	}
	if err := struc.Pack(w, header); err != nil {
		return nil, errors.Wrap(err, "failed to pack header")
	}
	return &Writer{w: w, zw: snappy.NewBufferedWriter(w)}, nil
}

func (l *Writer) Pack(r *Record) error {
	return errors.Wrap(struc.Pack(l.zw, r), "failed to pack record")
}

func (l *Writer) Close() error {
	err := l.zw.Close()
	if cerr := l.w.Close(); err == nil {
		err = cerr
	}
	return err
}

type Reader struct {
	r      io.ReadCloser
	zr     *snappy.Reader
	Header Header
}

func NewReader(r io.ReadCloser) (*Reader, error) {
	l := &Reader{r: r}
	if err := struc.Unpack(r, &l.Header); err != nil {
		return nil, errors.Wrap(err, "failed to unpack header")
	}
	if l.Header.Magic != LISTING_MAGIC {
		return nil, errors.New("invalid listing file magic")
	}
	if l.Header.Version != Version {
		return nil, errors.Errorf("unsupported listing version: %d", l.Header.Version)
	}
	l.Header.Arch = strings.TrimRight(l.Header.Arch, "\x00")
	switch l.Header.OrderNum {
	case 0:
		l.Header.Order = models.LittleEndian
	case 1:
		l.Header.Order = models.BigEndian
	default:
		return nil, errors.Errorf("invalid byte order: %d", l.Header.OrderNum)
	}
	l.zr = snappy.NewReader(r)
	return l, nil
}

// Next returns io.EOF after the last record.
func (l *Reader) Next() (*Record, error) {
	r := &Record{}
	if err := struc.Unpack(l.zr, r); err != nil {
		if errors.Cause(err) == io.EOF {
			return nil, io.EOF
		}
		return nil, errors.Wrap(err, "failed to unpack record")
	}
	return r, nil
}

func (l *Reader) Close() error {
	l.zr.Reset(nil)
	return l.r.Close()
}
