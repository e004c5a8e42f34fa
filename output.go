package byteslice

import (
	"io"
	"math"

	"github.com/rawbytedev/byteslice/internal/common"
)

// Output is a sequential little-endian writer. Every write lands at Size()
// and moves it forward.
type Output interface {
	io.Writer
	io.ByteWriter

	Size() int
	Writable() int
	IsWritable() bool
	// Reset rewinds to size zero. Content is left in place.
	Reset()
	ResetTo(size int) error

	WriteBool(v bool) error
	WriteUint8(v uint8) error
	WriteInt16(v int16) error
	WriteUint16(v uint16) error
	WriteInt32(v int32) error
	WriteUint32(v uint32) error
	WriteInt64(v int64) error
	WriteUint64(v uint64) error
	WriteFloat32(v float32) error
	WriteFloat64(v float64) error
	WriteUvarint(v uint64) error
	WriteBytes(b []byte) error
	WriteSlice(s *Slice) error
	WriteSliceRange(s *Slice, offset, length int) error
	WriteZero(n int) error

	// Slice returns a view of the written bytes [0, Size()).
	Slice() *Slice
	RetainedSize() int64
}

var (
	_ Output = (*BasicOutput)(nil)
	_ Output = (*DynamicOutput)(nil)
)

// BasicOutput writes into a fixed Slice. It never grows: a write that does
// not fit fails with ErrOutOfBounds and writes nothing.
type BasicOutput struct {
	s    *Slice
	size int
}

// NewBasicOutput returns a writer over s starting at size zero.
func NewBasicOutput(s *Slice) *BasicOutput {
	return &BasicOutput{s: s}
}

// Size returns the number of bytes written.
func (out *BasicOutput) Size() int { return out.size }

// Writable returns the room left before the end of the Slice.
func (out *BasicOutput) Writable() int { return out.s.Len() - out.size }

// IsWritable reports whether another byte fits.
func (out *BasicOutput) IsWritable() bool { return out.Writable() > 0 }

// Reset rewinds to size zero without clearing the content.
func (out *BasicOutput) Reset() { out.size = 0 }

// ResetTo sets the size to a value in [0, Len()].
func (out *BasicOutput) ResetTo(size int) error {
	if size < 0 || size > out.s.Len() {
		return boundsError(int64(size), 0, int64(out.s.Len()))
	}
	out.size = size
	return nil
}

// Underlying returns the whole backing Slice, written or not.
func (out *BasicOutput) Underlying() *Slice { return out.s }

// Slice returns a view of the written bytes.
func (out *BasicOutput) Slice() *Slice { return out.s.Slice(0, out.size) }

// RetainedSize returns the retained size of the backing Slice.
func (out *BasicOutput) RetainedSize() int64 { return out.s.RetainedSize() }

// reserve claims n bytes and returns their start.
func (out *BasicOutput) reserve(n int) (int, error) {
	if n < 0 || n > out.s.Len()-out.size {
		return 0, boundsError(int64(out.size), int64(n), int64(out.s.Len()))
	}
	p := out.size
	out.size += n
	return p, nil
}

// Write implements io.Writer. A p that does not fit is not written at all.
func (out *BasicOutput) Write(p []byte) (int, error) {
	if err := out.WriteBytes(p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// WriteByte implements io.ByteWriter.
func (out *BasicOutput) WriteByte(c byte) error {
	p, err := out.reserve(1)
	if err != nil {
		return err
	}
	out.s.data[p] = c
	return nil
}

// WriteBool writes 1 for true and 0 for false.
func (out *BasicOutput) WriteBool(v bool) error {
	if v {
		return out.WriteByte(1)
	}
	return out.WriteByte(0)
}

// WriteUint8 writes one byte.
func (out *BasicOutput) WriteUint8(v uint8) error { return out.WriteByte(v) }

// WriteInt16 writes v little-endian.
func (out *BasicOutput) WriteInt16(v int16) error { return out.WriteUint16(uint16(v)) }

// WriteUint16 writes v little-endian.
func (out *BasicOutput) WriteUint16(v uint16) error {
	p, err := out.reserve(2)
	if err != nil {
		return err
	}
	out.s.UncheckedSetUint16At(p, v)
	return nil
}

// WriteInt32 writes v little-endian.
func (out *BasicOutput) WriteInt32(v int32) error { return out.WriteUint32(uint32(v)) }

// WriteUint32 writes v little-endian.
func (out *BasicOutput) WriteUint32(v uint32) error {
	p, err := out.reserve(4)
	if err != nil {
		return err
	}
	out.s.UncheckedSetUint32At(p, v)
	return nil
}

// WriteInt64 writes v little-endian.
func (out *BasicOutput) WriteInt64(v int64) error { return out.WriteUint64(uint64(v)) }

// WriteUint64 writes v little-endian.
func (out *BasicOutput) WriteUint64(v uint64) error {
	p, err := out.reserve(8)
	if err != nil {
		return err
	}
	out.s.UncheckedSetUint64At(p, v)
	return nil
}

// WriteFloat32 writes the IEEE 754 bits of v little-endian.
func (out *BasicOutput) WriteFloat32(v float32) error {
	return out.WriteUint32(math.Float32bits(v))
}

// WriteFloat64 writes the IEEE 754 bits of v little-endian.
func (out *BasicOutput) WriteFloat64(v float64) error {
	return out.WriteUint64(math.Float64bits(v))
}

// WriteUvarint writes v as an unsigned LEB128 varint.
func (out *BasicOutput) WriteUvarint(v uint64) error {
	p, err := out.reserve(common.UvarintLen(v))
	if err != nil {
		return err
	}
	common.PutUvarint(out.s.data[p:], v)
	return nil
}

// WriteBytes copies b.
func (out *BasicOutput) WriteBytes(b []byte) error {
	p, err := out.reserve(len(b))
	if err != nil {
		return err
	}
	copy(out.s.data[p:], b)
	return nil
}

// WriteSlice copies the content of s.
func (out *BasicOutput) WriteSlice(s *Slice) error { return out.WriteBytes(s.data) }

// WriteSliceRange copies [offset, offset+length) of s.
func (out *BasicOutput) WriteSliceRange(s *Slice, offset, length int) error {
	checkRange(offset, length, s.Len())
	return out.WriteBytes(s.data[offset : offset+length])
}

// WriteZero writes n zero bytes.
func (out *BasicOutput) WriteZero(n int) error {
	p, err := out.reserve(n)
	if err != nil {
		return err
	}
	clear(out.s.data[p : p+n])
	return nil
}

// DynamicOutput is an Output whose backing Slice is replaced by a larger
// one, through EnsureSize, whenever a write does not fit. Slices returned
// by Slice before a growth keep pointing at the old storage.
type DynamicOutput struct {
	s    *Slice
	size int
}

// NewDynamicOutput returns a DynamicOutput with room for initialSize bytes.
func NewDynamicOutput(initialSize int) *DynamicOutput {
	return &DynamicOutput{s: Allocate(initialSize)}
}

// Size returns the number of bytes written.
func (out *DynamicOutput) Size() int { return out.size }

// Writable returns the room left before the next growth.
func (out *DynamicOutput) Writable() int { return out.s.Len() - out.size }

// IsWritable is always true; a DynamicOutput grows on demand.
func (out *DynamicOutput) IsWritable() bool { return true }

// Reset rewinds to size zero without clearing or shrinking.
func (out *DynamicOutput) Reset() { out.size = 0 }

// ResetTo sets the size to a value within the current capacity.
func (out *DynamicOutput) ResetTo(size int) error {
	if size < 0 || size > out.s.Len() {
		return boundsError(int64(size), 0, int64(out.s.Len()))
	}
	out.size = size
	return nil
}

// Underlying returns the current backing Slice.
func (out *DynamicOutput) Underlying() *Slice { return out.s }

// Slice returns a view of the written bytes.
func (out *DynamicOutput) Slice() *Slice { return out.s.Slice(0, out.size) }

// Bytes returns the written bytes without copying.
func (out *DynamicOutput) Bytes() []byte { return out.s.data[:out.size] }

func (out *DynamicOutput) RetainedSize() int64 { return out.s.RetainedSize() }

func (out *DynamicOutput) reserve(n int) (int, error) {
	if n < 0 || out.size > maxSliceSize-n {
		return 0, boundsError(int64(out.size), int64(n), maxSliceSize)
	}
	out.s = EnsureSize(out.s, out.size+n)
	p := out.size
	out.size += n
	return p, nil
}

func (out *DynamicOutput) Write(p []byte) (int, error) {
	if err := out.WriteBytes(p); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (out *DynamicOutput) WriteByte(c byte) error {
	p, err := out.reserve(1)
	if err != nil {
		return err
	}
	out.s.data[p] = c
	return nil
}

func (out *DynamicOutput) WriteBool(v bool) error {
	if v {
		return out.WriteByte(1)
	}
	return out.WriteByte(0)
}

func (out *DynamicOutput) WriteUint8(v uint8) error { return out.WriteByte(v) }

func (out *DynamicOutput) WriteInt16(v int16) error { return out.WriteUint16(uint16(v)) }

func (out *DynamicOutput) WriteUint16(v uint16) error {
	p, err := out.reserve(2)
	if err != nil {
		return err
	}
	out.s.UncheckedSetUint16At(p, v)
	return nil
}

func (out *DynamicOutput) WriteInt32(v int32) error { return out.WriteUint32(uint32(v)) }

func (out *DynamicOutput) WriteUint32(v uint32) error {
	p, err := out.reserve(4)
	if err != nil {
		return err
	}
	out.s.UncheckedSetUint32At(p, v)
	return nil
}

func (out *DynamicOutput) WriteInt64(v int64) error { return out.WriteUint64(uint64(v)) }

func (out *DynamicOutput) WriteUint64(v uint64) error {
	p, err := out.reserve(8)
	if err != nil {
		return err
	}
	out.s.UncheckedSetUint64At(p, v)
	return nil
}

func (out *DynamicOutput) WriteFloat32(v float32) error {
	return out.WriteUint32(math.Float32bits(v))
}

func (out *DynamicOutput) WriteFloat64(v float64) error {
	return out.WriteUint64(math.Float64bits(v))
}

func (out *DynamicOutput) WriteUvarint(v uint64) error {
	p, err := out.reserve(common.UvarintLen(v))
	if err != nil {
		return err
	}
	common.PutUvarint(out.s.data[p:], v)
	return nil
}

func (out *DynamicOutput) WriteBytes(b []byte) error {
	p, err := out.reserve(len(b))
	if err != nil {
		return err
	}
	copy(out.s.data[p:], b)
	return nil
}

func (out *DynamicOutput) WriteSlice(s *Slice) error { return out.WriteBytes(s.data) }

func (out *DynamicOutput) WriteSliceRange(s *Slice, offset, length int) error {
	checkRange(offset, length, s.Len())
	return out.WriteBytes(s.data[offset : offset+length])
}

func (out *DynamicOutput) WriteZero(n int) error {
	p, err := out.reserve(n)
	if err != nil {
		return err
	}
	clear(out.s.data[p : p+n])
	return nil
}
