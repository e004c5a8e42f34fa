package byteslice

import (
	"errors"
	"fmt"

	"github.com/rawbytedev/byteslice/internal/common"
)

var (
	ErrOutOfBounds    = errors.New("byteslice: index out of bounds")
	ErrEndOfStream    = errors.New("byteslice: end of stream")
	ErrBufferTooSmall = errors.New("byteslice: buffer too small")
	ErrClosed         = errors.New("byteslice: input closed")
	// ErrVarintOverflow is returned by ReadUvarint for an encoding that
	// does not fit 64 bits.
	ErrVarintOverflow = common.ErrVarintOverflow
)

// BoundsError reports an access of Length bytes at Index into a region of
// Size bytes.
type BoundsError struct {
	Index  int64
	Length int64
	Size   int64
}

func (e *BoundsError) Error() string {
	return fmt.Sprintf("byteslice: range [%d, %d) out of bounds for size %d", e.Index, e.Index+e.Length, e.Size)
}

func (e *BoundsError) Unwrap() error { return ErrOutOfBounds }

// LoadError wraps an I/O failure from a Loader or an underlying reader.
type LoadError struct {
	Offset int64
	Length int
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("byteslice: load %d bytes at offset %d: %v", e.Length, e.Offset, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

func checkRange(index, length, size int) {
	if index < 0 || length < 0 || index > size-length {
		panic(&BoundsError{Index: int64(index), Length: int64(length), Size: int64(size)})
	}
}

func boundsError(index, length, size int64) error {
	return &BoundsError{Index: index, Length: length, Size: size}
}
