package common

import (
	"errors"
	"io"
)

// MaxVarintLen64 is the longest encoding of a 64-bit varint.
const MaxVarintLen64 = 10

var ErrVarintOverflow = errors.New("varint overflows 64 bits")

// UvarintLen returns the number of bytes PutUvarint writes for x.
func UvarintLen(x uint64) int {
	n := 1
	for x >= 0x80 {
		x >>= 7
		n++
	}
	return n
}

// PutUvarint writes x into dst and returns the bytes written. dst must hold
// UvarintLen(x) bytes.
func PutUvarint(dst []byte, x uint64) int {
	i := 0
	for x >= 0x80 {
		dst[i] = byte(x) | 0x80
		x >>= 7
		i++
	}
	dst[i] = byte(x)
	return i + 1
}

// Uvarint decodes a varint from b returning value and bytes consumed. A
// truncated input returns (0, 0); a value overflowing 64 bits returns
// (0, -n) where n is the number of bytes read.
func Uvarint(b []byte) (uint64, int) {
	var x uint64
	var s uint
	for i, c := range b {
		if i == MaxVarintLen64-1 && c > 1 {
			return 0, -(i + 1)
		}
		x |= uint64(c&0x7F) << s
		if c&0x80 == 0 {
			return x, i + 1
		}
		s += 7
	}
	return 0, 0
}

// ReadUvarint decodes a varint one byte at a time from r. Errors from r are
// returned unchanged.
func ReadUvarint(r io.ByteReader) (uint64, error) {
	var x uint64
	var s uint
	for i := 0; i < MaxVarintLen64; i++ {
		c, err := r.ReadByte()
		if err != nil {
			return 0, err
		}
		if i == MaxVarintLen64-1 && c > 1 {
			return 0, ErrVarintOverflow
		}
		x |= uint64(c&0x7F) << s
		if c&0x80 == 0 {
			return x, nil
		}
		s += 7
	}
	return 0, ErrVarintOverflow
}
