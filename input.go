package byteslice

import (
	"fmt"
	"io"
	"math"

	"github.com/rawbytedev/byteslice/internal/common"
)

// EOF is returned by NextByte when no byte is left.
const EOF = -1

// Input is a sequential little-endian reader. BasicInput reads one Slice,
// ChunkedInput reads a stream through a Loader and StreamInput wraps an
// io.Reader.
//
// Typed reads are strict: they either decode the full width or fail. Skip
// is best effort and stops at the end of the data without failing.
type Input interface {
	io.Reader
	io.ByteReader
	io.Closer

	Position() int64
	SetPosition(position int64) error
	IsReadable() bool
	Available() int64

	// NextByte returns the next byte as 0-255, or EOF. Readers backed by
	// I/O also return EOF on a load failure and report the failure from
	// the next read, so EOF is final only when that read says so.
	NextByte() int

	ReadBool() (bool, error)
	ReadUint8() (uint8, error)
	ReadInt16() (int16, error)
	ReadUint16() (uint16, error)
	ReadInt32() (int32, error)
	ReadUint32() (uint32, error)
	ReadInt64() (int64, error)
	ReadUint64() (uint64, error)
	ReadFloat32() (float32, error)
	ReadFloat64() (float64, error)
	ReadUvarint() (uint64, error)

	// ReadSlice returns the next n bytes as a Slice.
	ReadSlice(n int) (*Slice, error)
	// ReadBytes fills dst completely or fails.
	ReadBytes(dst []byte) error
	// ReadToSlice fills [offset, offset+n) of dst or fails.
	ReadToSlice(dst *Slice, offset, n int) error

	Skip(n int64) (int64, error)
}

var (
	_ Input = (*BasicInput)(nil)
	_ Input = (*ChunkedInput)(nil)
	_ Input = (*StreamInput)(nil)
)

// BasicInput reads a single in-memory Slice. A failed read leaves the
// position unchanged.
type BasicInput struct {
	s   *Slice
	pos int
}

// NewBasicInput returns a reader positioned at the start of s.
func NewBasicInput(s *Slice) *BasicInput {
	return &BasicInput{s: s}
}

// Position returns the offset of the next byte to read.
func (in *BasicInput) Position() int64 { return int64(in.pos) }

// SetPosition moves to position, which must lie in [0, Len()].
func (in *BasicInput) SetPosition(position int64) error {
	if position < 0 || position > int64(in.s.Len()) {
		return boundsError(position, 0, int64(in.s.Len()))
	}
	in.pos = int(position)
	return nil
}

// IsReadable reports whether at least one byte is left.
func (in *BasicInput) IsReadable() bool { return in.pos < in.s.Len() }

// Available returns the number of unread bytes.
func (in *BasicInput) Available() int64 { return int64(in.s.Len() - in.pos) }

// Slice returns the whole Slice being read.
func (in *BasicInput) Slice() *Slice { return in.s }

// Remaining returns a view of the unread bytes.
func (in *BasicInput) Remaining() *Slice {
	return in.s.Slice(in.pos, in.s.Len()-in.pos)
}

// take reserves n bytes and returns their start.
func (in *BasicInput) take(n int) (int, error) {
	if n < 0 || n > in.s.Len()-in.pos {
		return 0, boundsError(int64(in.pos), int64(n), int64(in.s.Len()))
	}
	p := in.pos
	in.pos += n
	return p, nil
}

// NextByte returns the next byte, or EOF once the Slice is consumed.
func (in *BasicInput) NextByte() int {
	if in.pos >= in.s.Len() {
		return EOF
	}
	b := in.s.data[in.pos]
	in.pos++
	return int(b)
}

// Read implements io.Reader and returns io.EOF once the Slice is consumed.
func (in *BasicInput) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if in.pos >= in.s.Len() {
		return 0, io.EOF
	}
	n := copy(p, in.s.data[in.pos:])
	in.pos += n
	return n, nil
}

// ReadByte implements io.ByteReader.
func (in *BasicInput) ReadByte() (byte, error) {
	p, err := in.take(1)
	if err != nil {
		return 0, err
	}
	return in.s.data[p], nil
}

// ReadBool reads one byte; any non-zero value is true.
func (in *BasicInput) ReadBool() (bool, error) {
	b, err := in.ReadByte()
	return b != 0, err
}

// ReadUint8 reads one byte.
func (in *BasicInput) ReadUint8() (uint8, error) { return in.ReadByte() }

// ReadInt16 reads a little-endian int16.
func (in *BasicInput) ReadInt16() (int16, error) {
	v, err := in.ReadUint16()
	return int16(v), err
}

// ReadUint16 reads a little-endian uint16.
func (in *BasicInput) ReadUint16() (uint16, error) {
	p, err := in.take(2)
	if err != nil {
		return 0, err
	}
	return in.s.UncheckedUint16At(p), nil
}

// ReadInt32 reads a little-endian int32.
func (in *BasicInput) ReadInt32() (int32, error) {
	v, err := in.ReadUint32()
	return int32(v), err
}

// ReadUint32 reads a little-endian uint32.
func (in *BasicInput) ReadUint32() (uint32, error) {
	p, err := in.take(4)
	if err != nil {
		return 0, err
	}
	return in.s.UncheckedUint32At(p), nil
}

// ReadInt64 reads a little-endian int64.
func (in *BasicInput) ReadInt64() (int64, error) {
	v, err := in.ReadUint64()
	return int64(v), err
}

// ReadUint64 reads a little-endian uint64.
func (in *BasicInput) ReadUint64() (uint64, error) {
	p, err := in.take(8)
	if err != nil {
		return 0, err
	}
	return in.s.UncheckedUint64At(p), nil
}

// ReadFloat32 reads a little-endian IEEE 754 float32.
func (in *BasicInput) ReadFloat32() (float32, error) {
	v, err := in.ReadUint32()
	return math.Float32frombits(v), err
}

// ReadFloat64 reads a little-endian IEEE 754 float64.
func (in *BasicInput) ReadFloat64() (float64, error) {
	v, err := in.ReadUint64()
	return math.Float64frombits(v), err
}

// ReadUvarint reads an unsigned LEB128 varint. A truncated or overflowing
// encoding fails without moving the position.
func (in *BasicInput) ReadUvarint() (uint64, error) {
	x, n := common.Uvarint(in.s.data[in.pos:])
	if n < 0 {
		return 0, fmt.Errorf("uvarint at %d: %w", in.pos, ErrVarintOverflow)
	}
	if n == 0 {
		return 0, boundsError(int64(in.pos), int64(common.MaxVarintLen64), int64(in.s.Len()))
	}
	in.pos += n
	return x, nil
}

// ReadSlice returns a view of the next n bytes that shares storage with the
// underlying Slice.
func (in *BasicInput) ReadSlice(n int) (*Slice, error) {
	if n == 0 {
		return Empty, nil
	}
	p, err := in.take(n)
	if err != nil {
		return nil, err
	}
	return in.s.Slice(p, n), nil
}

// ReadBytes copies the next len(dst) bytes into dst.
func (in *BasicInput) ReadBytes(dst []byte) error {
	p, err := in.take(len(dst))
	if err != nil {
		return err
	}
	copy(dst, in.s.data[p:])
	return nil
}

// ReadToSlice copies the next n bytes into dst at offset.
func (in *BasicInput) ReadToSlice(dst *Slice, offset, n int) error {
	checkRange(offset, n, dst.Len())
	return in.ReadBytes(dst.data[offset : offset+n])
}

// Skip advances by min(n, Available()) and returns the distance moved.
func (in *BasicInput) Skip(n int64) (int64, error) {
	if n <= 0 {
		return 0, nil
	}
	n = min(n, in.Available())
	in.pos += int(n)
	return n, nil
}

// Close is a no-op; a BasicInput holds no resources.
func (in *BasicInput) Close() error { return nil }
