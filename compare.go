package byteslice

import (
	"bytes"
	"runtime"

	"github.com/cespare/xxhash/v2"
)

const hashComputed = 1 << 32

// Equal reports whether s and o have the same length and content. The
// backing stores do not matter.
func (s *Slice) Equal(o *Slice) bool {
	if s == o {
		return true
	}
	if o == nil {
		return false
	}
	eq := bytes.Equal(s.data, o.data)
	runtime.KeepAlive(s)
	runtime.KeepAlive(o)
	return eq
}

// EqualRange compares [index, index+length) of s with [otherIndex,
// otherIndex+length) of o.
func (s *Slice) EqualRange(index int, o *Slice, otherIndex, length int) bool {
	checkRange(index, length, len(s.data))
	checkRange(otherIndex, length, len(o.data))
	eq := bytes.Equal(s.data[index:index+length], o.data[otherIndex:otherIndex+length])
	runtime.KeepAlive(s)
	runtime.KeepAlive(o)
	return eq
}

// Compare orders s and o byte by byte as unsigned values. On a common
// prefix the shorter one sorts first. The result is -1, 0 or +1.
func (s *Slice) Compare(o *Slice) int {
	if s == o {
		return 0
	}
	c := bytes.Compare(s.data, o.data)
	runtime.KeepAlive(s)
	runtime.KeepAlive(o)
	return c
}

// CompareRange is Compare over [index, index+length) of s and [otherIndex,
// otherIndex+otherLength) of o.
func (s *Slice) CompareRange(index, length int, o *Slice, otherIndex, otherLength int) int {
	checkRange(index, length, len(s.data))
	checkRange(otherIndex, otherLength, len(o.data))
	c := bytes.Compare(s.data[index:index+length], o.data[otherIndex:otherIndex+otherLength])
	runtime.KeepAlive(s)
	runtime.KeepAlive(o)
	return c
}

// HashCode returns the low 32 bits of the xxHash64 of the content.
//
// The value is cached on first use. Mutating s afterwards leaves a stale
// cached value; do not hash a Slice whose content still changes.
func (s *Slice) HashCode() uint32 {
	if h := s.hash.Load(); h&hashComputed != 0 {
		return uint32(h)
	}
	h := uint32(xxhash.Sum64(s.data))
	s.hash.Store(hashComputed | uint64(h))
	return h
}

// XxHash64 returns the 64-bit xxHash (seed 0) of the content. It is not
// cached.
func (s *Slice) XxHash64() uint64 {
	h := xxhash.Sum64(s.data)
	runtime.KeepAlive(s)
	return h
}

// XxHash64Range hashes [index, index+length).
func (s *Slice) XxHash64Range(index, length int) uint64 {
	checkRange(index, length, len(s.data))
	h := xxhash.Sum64(s.data[index : index+length])
	runtime.KeepAlive(s)
	return h
}
