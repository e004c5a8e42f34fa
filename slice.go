// Package byteslice provides Slice, a fixed-length little-endian view over
// contiguous memory, together with cursor readers and writers over it.
//
// A Slice never grows and never copies on sub-slicing: views returned by
// Slice share the backing store with their parent, so a write through one
// view is visible through every overlapping view. Use Copy when an
// independent buffer is needed.
//
// Checked accessors panic with a *BoundsError when the requested range is
// outside the view, the same way Go indexing does. Cursors (Input, Output)
// report the same conditions as returned errors.
package byteslice

import (
	"encoding/binary"
	"math"
	"runtime"
	"sync/atomic"
	"unsafe"
)

// sliceInstanceSize is the accounted size of the Slice header itself.
var sliceInstanceSize = int64(unsafe.Sizeof(Slice{}))

// Slice is a fixed-length view over a byte region. The zero value is not
// usable; build one with Allocate, Wrap or one of the other constructors.
//
// A Slice is not safe for concurrent mutation. Concurrent readers of
// content that nobody writes are safe.
type Slice struct {
	base      []byte // backing array; nil for external and raw views
	data      []byte // visible window, len == cap
	offset    int    // start of data within base
	retained  int64  // backing bytes accounted to this view
	keepAlive any    // keeps external memory alive while views exist
	hash      atomic.Uint64
}

// Empty is the canonical zero-length Slice.
var Empty = &Slice{data: []byte{}}

func init() {
	Empty.HashCode()
}

// Allocate returns a zeroed, owned Slice of n bytes.
func Allocate(n int) *Slice {
	if n < 0 {
		panic(&BoundsError{Length: int64(n)})
	}
	if n == 0 {
		return Empty
	}
	return Wrap(make([]byte, n))
}

// Wrap returns a Slice over b. The Slice takes ownership of b; the caller
// must not keep writing to b unless it wants the writes to show through.
func Wrap(b []byte) *Slice {
	if len(b) == 0 {
		return Empty
	}
	return &Slice{
		base:     b,
		data:     b[:len(b):len(b)],
		retained: int64(cap(b)),
	}
}

// WrapRange returns a Slice over b[offset:offset+length]. Nothing is copied.
func WrapRange(b []byte, offset, length int) *Slice {
	checkRange(offset, length, len(b))
	if length == 0 {
		return Empty
	}
	return &Slice{
		base:     b,
		data:     b[offset : offset+length : offset+length],
		offset:   offset,
		retained: int64(cap(b)),
	}
}

// WrapExternal returns a Slice over memory owned by someone else. keepAlive
// is referenced by the returned Slice and every view derived from it, so
// whatever releases the memory when keepAlive becomes unreachable cannot
// run while a view is still in use.
func WrapExternal(b []byte, keepAlive any) *Slice {
	if len(b) == 0 {
		return Empty
	}
	return &Slice{
		data:      b[:len(b):len(b)],
		keepAlive: keepAlive,
	}
}

// Len returns the number of bytes visible through s.
func (s *Slice) Len() int { return len(s.data) }

// Offset returns the start of s within its backing array.
func (s *Slice) Offset() int { return s.offset }

// Bytes returns the bytes of s without copying. Writes to the returned
// slice are writes to s.
//
// For external or mapped memory the result must not outlive s: only s and
// its views keep that memory alive.
func (s *Slice) Bytes() []byte { return s.data }

// String returns the content of s as a string. The bytes are copied.
func (s *Slice) String() string {
	str := string(s.data)
	runtime.KeepAlive(s)
	return str
}

// RetainedSize returns the approximate memory kept reachable by s. Views
// that alias another Slice's storage report only their own header.
func (s *Slice) RetainedSize() int64 { return sliceInstanceSize + s.retained }

// IsCompact reports whether s covers its whole backing array.
func (s *Slice) IsCompact() bool {
	return s.base != nil && s.offset == 0 && len(s.data) == cap(s.base)
}

// Input returns a reader positioned at the start of s.
func (s *Slice) Input() *BasicInput { return NewBasicInput(s) }

// Output returns a writer over s starting at size zero.
func (s *Slice) Output() *BasicOutput { return NewBasicOutput(s) }

// Slice returns a view of s over [index, index+length). The view shares
// storage with s. Asking for the full range returns s itself and asking
// for zero bytes returns Empty.
func (s *Slice) Slice(index, length int) *Slice {
	if index == 0 && length == len(s.data) {
		return s
	}
	checkRange(index, length, len(s.data))
	if length == 0 {
		return Empty
	}
	return &Slice{
		base:      s.base,
		data:      s.data[index : index+length : index+length],
		offset:    s.offset + index,
		keepAlive: s.keepAlive,
	}
}

// Copy returns an owned copy of [index, index+length).
func (s *Slice) Copy(index, length int) *Slice {
	checkRange(index, length, len(s.data))
	if length == 0 {
		return Empty
	}
	b := make([]byte, length)
	copy(b, s.data[index:])
	runtime.KeepAlive(s)
	return Wrap(b)
}

// BytesAt returns a copy of [index, index+length).
func (s *Slice) BytesAt(index, length int) []byte {
	checkRange(index, length, len(s.data))
	b := make([]byte, length)
	copy(b, s.data[index:])
	runtime.KeepAlive(s)
	return b
}

// CopyTo copies len(dst) bytes starting at index into dst.
func (s *Slice) CopyTo(index int, dst []byte) {
	checkRange(index, len(dst), len(s.data))
	copy(dst, s.data[index:])
	runtime.KeepAlive(s)
}

// SetBytesAt copies src into s starting at index.
func (s *Slice) SetBytesAt(index int, src []byte) {
	checkRange(index, len(src), len(s.data))
	copy(s.data[index:], src)
	runtime.KeepAlive(s)
}

// SetSliceAt copies length bytes of src starting at srcIndex into s at
// index. Overlapping ranges of the same storage are handled.
func (s *Slice) SetSliceAt(index int, src *Slice, srcIndex, length int) {
	checkRange(index, length, len(s.data))
	checkRange(srcIndex, length, len(src.data))
	copy(s.data[index:index+length], src.data[srcIndex:srcIndex+length])
	runtime.KeepAlive(s)
	runtime.KeepAlive(src)
}

// Fill sets every byte of s to v.
func (s *Slice) Fill(v byte) {
	for i := range s.data {
		s.data[i] = v
	}
	runtime.KeepAlive(s)
}

// Clear zeroes s.
func (s *Slice) Clear() {
	clear(s.data)
	runtime.KeepAlive(s)
}

// ClearRange zeroes [index, index+length).
func (s *Slice) ClearRange(index, length int) {
	checkRange(index, length, len(s.data))
	clear(s.data[index : index+length])
	runtime.KeepAlive(s)
}

// ByteAt returns the byte at index.
func (s *Slice) ByteAt(index int) byte {
	checkRange(index, 1, len(s.data))
	return s.data[index]
}

// Int8At returns the byte at index as a signed value.
func (s *Slice) Int8At(index int) int8 {
	checkRange(index, 1, len(s.data))
	return int8(s.data[index])
}

// Uint8At returns the byte at index as an unsigned value.
func (s *Slice) Uint8At(index int) uint8 {
	checkRange(index, 1, len(s.data))
	return s.data[index]
}

// BoolAt reports whether the byte at index is non-zero.
func (s *Slice) BoolAt(index int) bool {
	return s.ByteAt(index) != 0
}

// Int16At decodes a little-endian int16 at index.
func (s *Slice) Int16At(index int) int16 {
	return int16(s.Uint16At(index))
}

// Uint16At decodes a little-endian uint16 at index.
func (s *Slice) Uint16At(index int) uint16 {
	checkRange(index, 2, len(s.data))
	return binary.LittleEndian.Uint16(s.data[index:])
}

// Int32At decodes a little-endian int32 at index.
func (s *Slice) Int32At(index int) int32 {
	return int32(s.Uint32At(index))
}

// Uint32At decodes a little-endian uint32 at index.
func (s *Slice) Uint32At(index int) uint32 {
	checkRange(index, 4, len(s.data))
	return binary.LittleEndian.Uint32(s.data[index:])
}

// Int64At decodes a little-endian int64 at index.
func (s *Slice) Int64At(index int) int64 {
	return int64(s.Uint64At(index))
}

// Uint64At decodes a little-endian uint64 at index.
func (s *Slice) Uint64At(index int) uint64 {
	checkRange(index, 8, len(s.data))
	return binary.LittleEndian.Uint64(s.data[index:])
}

// Float32At decodes a little-endian IEEE 754 float32 at index.
func (s *Slice) Float32At(index int) float32 {
	return math.Float32frombits(s.Uint32At(index))
}

// Float64At decodes a little-endian IEEE 754 float64 at index.
func (s *Slice) Float64At(index int) float64 {
	return math.Float64frombits(s.Uint64At(index))
}

// SetByteAt stores v at index.
func (s *Slice) SetByteAt(index int, v byte) {
	checkRange(index, 1, len(s.data))
	s.data[index] = v
}

// SetInt8At stores v at index.
func (s *Slice) SetInt8At(index int, v int8) {
	s.SetByteAt(index, byte(v))
}

// SetBoolAt stores 1 for true and 0 for false at index.
func (s *Slice) SetBoolAt(index int, v bool) {
	if v {
		s.SetByteAt(index, 1)
	} else {
		s.SetByteAt(index, 0)
	}
}

// SetInt16At encodes v little-endian at index.
func (s *Slice) SetInt16At(index int, v int16) {
	s.SetUint16At(index, uint16(v))
}

// SetUint16At encodes v little-endian at index.
func (s *Slice) SetUint16At(index int, v uint16) {
	checkRange(index, 2, len(s.data))
	binary.LittleEndian.PutUint16(s.data[index:], v)
}

// SetInt32At encodes v little-endian at index.
func (s *Slice) SetInt32At(index int, v int32) {
	s.SetUint32At(index, uint32(v))
}

// SetUint32At encodes v little-endian at index.
func (s *Slice) SetUint32At(index int, v uint32) {
	checkRange(index, 4, len(s.data))
	binary.LittleEndian.PutUint32(s.data[index:], v)
}

// SetInt64At encodes v little-endian at index.
func (s *Slice) SetInt64At(index int, v int64) {
	s.SetUint64At(index, uint64(v))
}

// SetUint64At encodes v little-endian at index.
func (s *Slice) SetUint64At(index int, v uint64) {
	checkRange(index, 8, len(s.data))
	binary.LittleEndian.PutUint64(s.data[index:], v)
}

// SetFloat32At encodes the IEEE 754 bits of v little-endian at index.
func (s *Slice) SetFloat32At(index int, v float32) {
	s.SetUint32At(index, math.Float32bits(v))
}

// SetFloat64At encodes the IEEE 754 bits of v little-endian at index.
func (s *Slice) SetFloat64At(index int, v float64) {
	s.SetUint64At(index, math.Float64bits(v))
}
