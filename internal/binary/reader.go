// Package binary provides low-level little-endian I/O for the neopdf
// container format. Readers and writers are positioned cursors over an
// io.ReaderAt / io.WriterAt; cursors created with At share the underlying
// source but keep independent positions.
package binary

import (
	"encoding/binary"
	"io"
	"math"
)

// Reader reads little-endian values sequentially from an io.ReaderAt. The
// source size bounds every count-prefixed read, so a corrupt length field
// fails with io.ErrUnexpectedEOF instead of driving an allocation.
type Reader struct {
	r    io.ReaderAt
	pos  int64
	size int64
}

// NewReader creates a reader positioned at offset 0 over a source of the
// given byte size.
func NewReader(r io.ReaderAt, size int64) *Reader {
	return &Reader{r: r, size: size}
}

// At returns a new reader positioned at the given offset.
// The new reader shares the underlying io.ReaderAt but has independent position.
func (r *Reader) At(offset int64) *Reader {
	return &Reader{r: r.r, pos: offset, size: r.size}
}

// Pos returns the current read position.
func (r *Reader) Pos() int64 {
	return r.pos
}

// Skip advances the position by n bytes without reading.
func (r *Reader) Skip(n int64) {
	r.pos += n
}

// ReadBytes reads exactly len(buf) bytes into buf.
func (r *Reader) ReadBytes(buf []byte) error {
	if len(buf) == 0 {
		return nil
	}
	n, err := r.r.ReadAt(buf, r.pos)
	r.pos += int64(n)
	if err == io.EOF && n == len(buf) {
		return nil
	}
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	if err == nil && n < len(buf) {
		return io.ErrUnexpectedEOF
	}
	return err
}

// ReadUint8 reads an unsigned 8-bit integer.
func (r *Reader) ReadUint8() (uint8, error) {
	var buf [1]byte
	if err := r.ReadBytes(buf[:]); err != nil {
		return 0, err
	}
	return buf[0], nil
}

// ReadUint16 reads an unsigned 16-bit integer.
func (r *Reader) ReadUint16() (uint16, error) {
	var buf [2]byte
	if err := r.ReadBytes(buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(buf[:]), nil
}

// ReadUint32 reads an unsigned 32-bit integer.
func (r *Reader) ReadUint32() (uint32, error) {
	var buf [4]byte
	if err := r.ReadBytes(buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf[:]), nil
}

// ReadUint64 reads an unsigned 64-bit integer.
func (r *Reader) ReadUint64() (uint64, error) {
	var buf [8]byte
	if err := r.ReadBytes(buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(buf[:]), nil
}

// ReadInt32 reads a signed 32-bit integer.
func (r *Reader) ReadInt32() (int32, error) {
	v, err := r.ReadUint32()
	return int32(v), err
}

// ReadFloat64 reads an IEEE 754 double.
func (r *Reader) ReadFloat64() (float64, error) {
	v, err := r.ReadUint64()
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(v), nil
}

// readCount reads a count prefix and bounds it against the bytes remaining
// in the source, so a corrupt count cannot drive an oversized allocation.
func (r *Reader) readCount(elemSize int64) (int, error) {
	n, err := r.ReadUint64()
	if err != nil {
		return 0, err
	}
	rem := r.size - r.pos
	if rem < 0 || n > uint64(rem)/uint64(elemSize) {
		return 0, io.ErrUnexpectedEOF
	}
	return int(n), nil
}

// ReadFloat64Slice reads a count-prefixed slice of doubles.
func (r *Reader) ReadFloat64Slice() ([]float64, error) {
	n, err := r.readCount(8)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, 8*n)
	if err := r.ReadBytes(buf); err != nil {
		return nil, err
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = math.Float64frombits(binary.LittleEndian.Uint64(buf[8*i:]))
	}
	return out, nil
}

// ReadInt32Slice reads a count-prefixed slice of signed 32-bit integers.
func (r *Reader) ReadInt32Slice() ([]int32, error) {
	n, err := r.readCount(4)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, 4*n)
	if err := r.ReadBytes(buf); err != nil {
		return nil, err
	}
	out := make([]int32, n)
	for i := range out {
		out[i] = int32(binary.LittleEndian.Uint32(buf[4*i:]))
	}
	return out, nil
}

// ReadString reads a length-prefixed UTF-8 string.
func (r *Reader) ReadString() (string, error) {
	n, err := r.readCount(1)
	if err != nil {
		return "", err
	}
	buf := make([]byte, n)
	if err := r.ReadBytes(buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

// ReadBool reads a single-byte boolean (0 = false, anything else = true).
func (r *Reader) ReadBool() (bool, error) {
	v, err := r.ReadUint8()
	return v != 0, err
}
