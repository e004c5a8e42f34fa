package byteslice

import (
	"encoding/binary"
	"math"
	"unsafe"
)

// WrapPointer returns a Slice over length bytes starting at p.
//
// The caller guarantees that [p, p+length) stays valid for as long as any
// view of the returned Slice is reachable. keepAlive, when non-nil, is held
// by every derived view; pass the object whose release frees the memory.
func WrapPointer(p unsafe.Pointer, length int, keepAlive any) *Slice {
	if length < 0 {
		panic(&BoundsError{Length: int64(length)})
	}
	if length == 0 {
		return Empty
	}
	return WrapExternal(unsafe.Slice((*byte)(p), length), keepAlive)
}

// The Unchecked accessors skip the range validation done by their checked
// counterparts. The caller must have validated the range already. An
// out-of-range index still stops the program through the Go runtime bound
// check; it is never turned into a read or write of unrelated memory.

// UncheckedByteAt returns the byte at index.
func (s *Slice) UncheckedByteAt(index int) byte {
	return s.data[index]
}

// UncheckedUint16At decodes a little-endian uint16 at index.
func (s *Slice) UncheckedUint16At(index int) uint16 {
	return binary.LittleEndian.Uint16(s.data[index:])
}

// UncheckedInt16At decodes a little-endian int16 at index.
func (s *Slice) UncheckedInt16At(index int) int16 {
	return int16(binary.LittleEndian.Uint16(s.data[index:]))
}

// UncheckedUint32At decodes a little-endian uint32 at index.
func (s *Slice) UncheckedUint32At(index int) uint32 {
	return binary.LittleEndian.Uint32(s.data[index:])
}

// UncheckedInt32At decodes a little-endian int32 at index.
func (s *Slice) UncheckedInt32At(index int) int32 {
	return int32(binary.LittleEndian.Uint32(s.data[index:]))
}

// UncheckedUint64At decodes a little-endian uint64 at index.
func (s *Slice) UncheckedUint64At(index int) uint64 {
	return binary.LittleEndian.Uint64(s.data[index:])
}

// UncheckedInt64At decodes a little-endian int64 at index.
func (s *Slice) UncheckedInt64At(index int) int64 {
	return int64(binary.LittleEndian.Uint64(s.data[index:]))
}

// UncheckedFloat32At decodes a little-endian float32 at index.
func (s *Slice) UncheckedFloat32At(index int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(s.data[index:]))
}

// UncheckedFloat64At decodes a little-endian float64 at index.
func (s *Slice) UncheckedFloat64At(index int) float64 {
	return math.Float64frombits(binary.LittleEndian.Uint64(s.data[index:]))
}

// UncheckedSetByteAt stores v at index.
func (s *Slice) UncheckedSetByteAt(index int, v byte) {
	s.data[index] = v
}

// UncheckedSetUint16At encodes v little-endian at index.
func (s *Slice) UncheckedSetUint16At(index int, v uint16) {
	binary.LittleEndian.PutUint16(s.data[index:], v)
}

// UncheckedSetUint32At encodes v little-endian at index.
func (s *Slice) UncheckedSetUint32At(index int, v uint32) {
	binary.LittleEndian.PutUint32(s.data[index:], v)
}

// UncheckedSetUint64At encodes v little-endian at index.
func (s *Slice) UncheckedSetUint64At(index int, v uint64) {
	binary.LittleEndian.PutUint64(s.data[index:], v)
}
