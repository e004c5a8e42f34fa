package byteslice

import (
	"bytes"
	"math/bits"
	"runtime"
)

const (
	lowBits  = 0x0101010101010101
	highBits = 0x8080808080808080
)

// IndexOf returns the index of the first occurrence of pattern in s at or
// after from, or -1. from is clamped to [0, Len()]; an empty pattern
// matches at the clamped from.
func (s *Slice) IndexOf(pattern *Slice, from int) int {
	from = max(0, min(from, len(s.data)))
	if pattern.Len() == 0 {
		return from
	}
	defer runtime.KeepAlive(pattern)
	defer runtime.KeepAlive(s)
	if from >= len(s.data) || pattern.Len() > len(s.data)-from {
		return -1
	}
	if pattern.Len() < 4 || len(s.data)-from < 8 {
		return s.indexOfBruteForce(pattern, from)
	}

	head := pattern.UncheckedUint32At(0)
	first := byte(head)
	broadcast := uint64(first) * lowBits
	last := len(s.data) - pattern.Len()

	index := from
	for index <= last {
		if index+8 <= len(s.data) {
			// find the first byte in the next 8 bytes
			x := s.UncheckedUint64At(index) ^ broadcast
			m := (x - lowBits) &^ x & highBits
			if m == 0 {
				index += 8
				continue
			}
			index += bits.TrailingZeros64(m) >> 3
			if index > last {
				break
			}
		} else if s.data[index] != first {
			index++
			continue
		}
		if s.UncheckedUint32At(index) == head &&
			bytes.Equal(s.data[index+4:index+pattern.Len()], pattern.data[4:]) {
			return index
		}
		index++
	}
	return -1
}

func (s *Slice) indexOfBruteForce(pattern *Slice, from int) int {
	last := len(s.data) - pattern.Len()
	first := pattern.data[0]
	for i := from; i <= last; i++ {
		if s.data[i] != first {
			continue
		}
		if bytes.Equal(s.data[i:i+pattern.Len()], pattern.data) {
			return i
		}
	}
	return -1
}

// IndexByte returns the index of the first b at or after from, or -1.
func (s *Slice) IndexByte(b byte, from int) int {
	if from < 0 {
		from = 0
	}
	if from >= len(s.data) {
		return -1
	}
	i := bytes.IndexByte(s.data[from:], b)
	runtime.KeepAlive(s)
	if i < 0 {
		return -1
	}
	return from + i
}
