package txn

import (
	"encoding/binary"
	"io"
)

// fingerprinter writes big-endian fields and keeps the first error so that
// callers check it once.
type fingerprinter struct {
	w   io.Writer
	err error
}

func newFingerprinter(w io.Writer) *fingerprinter {
	return &fingerprinter{w: w}
}

func (fp *fingerprinter) bytes(data []byte) {
	if fp.err != nil {
		return
	}

	_, fp.err = fp.w.Write(data)
}

func (fp *fingerprinter) uint8(v uint8) {
	fp.bytes([]byte{v})
}

func (fp *fingerprinter) uint32(v uint32) {
	buffer := make([]byte, 4)
	binary.BigEndian.PutUint32(buffer, v)
	fp.bytes(buffer)
}

func (fp *fingerprinter) uint64(v uint64) {
	buffer := make([]byte, 8)
	binary.BigEndian.PutUint64(buffer, v)
	fp.bytes(buffer)
}

func (fp *fingerprinter) bool(v bool) {
	if v {
		fp.uint8(1)
	} else {
		fp.uint8(0)
	}
}

// varbytes writes the length of the data before the data.
func (fp *fingerprinter) varbytes(data []byte) {
	fp.uint32(uint32(len(data)))
	fp.bytes(data)
}

func (fp *fingerprinter) string(s string) {
	fp.varbytes([]byte(s))
}
