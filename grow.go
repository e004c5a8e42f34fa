package byteslice

import "math"

const (
	// below this size capacity doubles on growth
	slowGrowthThreshold = 512 * 1024
	maxSliceSize        = math.MaxInt32 - 8
)

// EnsureSize returns existing if it already holds at least minSize bytes.
// Otherwise it allocates a larger Slice, copies the content of existing to
// its start and returns it. Capacity doubles while small and grows by a
// quarter once past 512KiB. A nil existing allocates exactly minSize.
func EnsureSize(existing *Slice, minSize int) *Slice {
	if minSize < 0 || minSize > maxSliceSize {
		panic(&BoundsError{Length: int64(minSize), Size: maxSliceSize})
	}
	if existing == nil {
		return Allocate(minSize)
	}
	if existing.Len() >= minSize {
		return existing
	}

	newCap := existing.Len()
	if newCap == 0 {
		newCap = 1
	}
	for newCap < minSize {
		if newCap < slowGrowthThreshold {
			newCap <<= 1
		} else {
			newCap += newCap >> 2
		}
		if newCap > maxSliceSize {
			newCap = maxSliceSize
		}
	}

	grown := Allocate(newCap)
	copy(grown.data, existing.data)
	return grown
}
