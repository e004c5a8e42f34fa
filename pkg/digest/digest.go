// Package digest computes fixed-seed hashes over byteslice Slices.
//
// All functions hash the visible bytes of the Slice only; two Slices with
// equal content hash the same regardless of their backing storage. The
// Slice is kept reachable until hashing finishes, so mapped or external
// memory stays valid for the whole call.
package digest

import (
	"runtime"

	"github.com/cespare/xxhash/v2"
	"github.com/rawbytedev/byteslice"
	"github.com/spaolacci/murmur3"
)

// DefaultSeed is the seed used by the functions without a seed argument.
const DefaultSeed = 0

// XxHash64 returns the 64-bit xxHash of s.
func XxHash64(s *byteslice.Slice) uint64 {
	h := xxhash.Sum64(s.Bytes())
	runtime.KeepAlive(s)
	return h
}

// XxHash64Range hashes [offset, offset+length) of s.
func XxHash64Range(s *byteslice.Slice, offset, length int) uint64 {
	return XxHash64(s.Slice(offset, length))
}

// XxHash64Slices hashes the concatenation of parts without joining them.
func XxHash64Slices(parts ...*byteslice.Slice) uint64 {
	d := xxhash.New()
	for _, p := range parts {
		_, _ = d.Write(p.Bytes())
	}
	runtime.KeepAlive(parts)
	return d.Sum64()
}

// Murmur3Hash32 returns the 32-bit Murmur3 digest of s with DefaultSeed.
func Murmur3Hash32(s *byteslice.Slice) uint32 {
	return Murmur3Hash32Seed(s, DefaultSeed)
}

// Murmur3Hash32Seed returns the 32-bit Murmur3 digest of s with seed.
func Murmur3Hash32Seed(s *byteslice.Slice, seed uint32) uint32 {
	h := murmur3.Sum32WithSeed(s.Bytes(), seed)
	runtime.KeepAlive(s)
	return h
}

// Murmur3Hash64 returns the first half of the 128-bit Murmur3 digest.
func Murmur3Hash64(s *byteslice.Slice) uint64 {
	h := murmur3.Sum64WithSeed(s.Bytes(), DefaultSeed)
	runtime.KeepAlive(s)
	return h
}

// Murmur3Hash128 returns the 128-bit Murmur3 digest as a 16-byte Slice,
// both halves little-endian.
func Murmur3Hash128(s *byteslice.Slice) *byteslice.Slice {
	h1, h2 := murmur3.Sum128WithSeed(s.Bytes(), DefaultSeed)
	runtime.KeepAlive(s)
	out := byteslice.Allocate(16)
	out.SetUint64At(0, h1)
	out.SetUint64At(8, h2)
	return out
}
