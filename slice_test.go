package byteslice

import (
	"bytes"
	"math"
	"testing"
	"testing/quick"
	"unsafe"

	"github.com/cespare/xxhash/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllocateAndWrap(t *testing.T) {
	s := Allocate(16)
	require.Equal(t, 16, s.Len())
	require.Equal(t, make([]byte, 16), s.Bytes())

	require.Same(t, Empty, Allocate(0))
	require.Same(t, Empty, Wrap(nil))
	require.Same(t, Empty, Wrap([]byte{}))

	b := []byte{1, 2, 3}
	w := Wrap(b)
	b[0] = 9
	require.Equal(t, byte(9), w.ByteAt(0), "Wrap must not copy")

	r := WrapRange([]byte{0, 1, 2, 3, 4, 5}, 2, 3)
	require.Equal(t, []byte{2, 3, 4}, r.Bytes())
	require.Equal(t, 2, r.Offset())
	require.Panics(t, func() { WrapRange([]byte{1, 2}, 1, 2) })
}

func TestLittleEndianAccessors(t *testing.T) {
	s := Allocate(32)
	s.SetUint16At(0, 0x0102)
	require.Equal(t, []byte{0x02, 0x01}, s.BytesAt(0, 2))

	s.SetInt32At(2, -2)
	require.Equal(t, int32(-2), s.Int32At(2))
	require.Equal(t, []byte{0xFE, 0xFF, 0xFF, 0xFF}, s.BytesAt(2, 4))

	s.SetUint64At(6, 0x0807060504030201)
	require.Equal(t, []byte{1, 2, 3, 4, 5, 6, 7, 8}, s.BytesAt(6, 8))
	require.Equal(t, int64(0x0807060504030201), s.Int64At(6))

	s.SetFloat32At(14, 3.5)
	require.Equal(t, float32(3.5), s.Float32At(14))
	s.SetFloat64At(18, math.Pi)
	require.Equal(t, math.Pi, s.Float64At(18))

	s.SetInt16At(26, -300)
	require.Equal(t, int16(-300), s.Int16At(26))
	require.Equal(t, int16(-300), s.UncheckedInt16At(26))

	s.SetInt8At(28, -1)
	require.Equal(t, int8(-1), s.Int8At(28))
	require.Equal(t, uint8(0xFF), s.Uint8At(28))

	s.SetBoolAt(29, true)
	require.True(t, s.BoolAt(29))
	s.SetBoolAt(29, false)
	require.False(t, s.BoolAt(29))
}

func TestBounds(t *testing.T) {
	const n = 10
	s := Allocate(n)
	require.NotPanics(t, func() { s.Int32At(n - 4) })
	require.Panics(t, func() { s.Int32At(n - 3) })
	require.Panics(t, func() { s.Int64At(n - 7) })
	require.Panics(t, func() { s.ByteAt(-1) })
	require.Panics(t, func() { s.SetUint16At(n-1, 1) })
	require.Panics(t, func() { s.Slice(5, 6) })
	require.Panics(t, func() { s.Copy(-1, 2) })

	defer func() {
		r := recover()
		err, ok := r.(error)
		require.True(t, ok)
		require.ErrorIs(t, err, ErrOutOfBounds)
		var be *BoundsError
		require.ErrorAs(t, err, &be)
		require.Equal(t, int64(n-3), be.Index)
		require.Equal(t, int64(4), be.Length)
		require.Equal(t, int64(n), be.Size)
	}()
	s.Uint32At(n - 3)
}

func TestFailedWriteLeavesContent(t *testing.T) {
	s := Wrap([]byte{1, 2, 3})
	require.Panics(t, func() { s.SetUint32At(0, 0xFFFFFFFF) })
	require.Equal(t, []byte{1, 2, 3}, s.Bytes())
}

func TestSliceAliasing(t *testing.T) {
	parent := Allocate(16)
	a := parent.Slice(4, 8)
	b := parent.Slice(8, 8)

	a.SetUint32At(4, 0xAABBCCDD)
	require.Equal(t, uint32(0xAABBCCDD), parent.Uint32At(8))
	require.Equal(t, uint32(0xAABBCCDD), b.Uint32At(0))

	c := parent.Copy(8, 4)
	c.SetUint32At(0, 0)
	require.Equal(t, uint32(0xAABBCCDD), parent.Uint32At(8), "Copy must not alias")

	require.Same(t, parent, parent.Slice(0, parent.Len()))
	require.Same(t, Empty, parent.Slice(3, 0))
	require.Equal(t, 8, b.Offset())
}

func TestSubSliceOfExternalKeepsReference(t *testing.T) {
	owner := &struct{ name string }{"owner"}
	s := WrapExternal([]byte{1, 2, 3, 4}, owner)
	sub := s.Slice(1, 2)
	require.Same(t, owner, sub.keepAlive)
	require.Equal(t, sliceInstanceSize, sub.RetainedSize())
}

func TestRetainedSize(t *testing.T) {
	s := Allocate(100)
	require.Equal(t, sliceInstanceSize+100, s.RetainedSize())
	require.Equal(t, sliceInstanceSize, s.Slice(10, 10).RetainedSize())
	require.True(t, s.IsCompact())
	require.False(t, s.Slice(10, 10).IsCompact())
}

func TestCopyHelpers(t *testing.T) {
	s := Wrap([]byte("hello world"))
	dst := make([]byte, 5)
	s.CopyTo(6, dst)
	require.Equal(t, []byte("world"), dst)

	s.SetBytesAt(0, []byte("HELLO"))
	require.Equal(t, "HELLO world", s.String())

	// overlapping move within the same storage
	s.SetSliceAt(1, s, 0, 5)
	require.Equal(t, "HHELLOworld", s.String())
	require.Panics(t, func() { s.CopyTo(8, dst) })
}

func TestFillAndClear(t *testing.T) {
	s := Allocate(8)
	s.Fill(0xAB)
	require.Equal(t, bytes.Repeat([]byte{0xAB}, 8), s.Bytes())
	s.ClearRange(2, 3)
	require.Equal(t, []byte{0xAB, 0xAB, 0, 0, 0, 0xAB, 0xAB, 0xAB}, s.Bytes())
	s.Clear()
	require.Equal(t, make([]byte, 8), s.Bytes())
	require.Panics(t, func() { s.ClearRange(6, 3) })
}

func TestEqualAndCompare(t *testing.T) {
	require.True(t, Wrap([]byte{1, 2, 3}).Equal(Wrap([]byte{1, 2, 3})))
	require.False(t, Wrap([]byte{1, 2, 3}).Equal(Wrap([]byte{1, 2, 4})))
	require.False(t, Wrap([]byte{1, 2}).Equal(Wrap([]byte{1, 2, 3})))
	require.False(t, Wrap([]byte{1}).Equal(nil))

	require.Negative(t, Wrap([]byte{1, 2}).Compare(Wrap([]byte{1, 2, 3})))
	require.Positive(t, Wrap([]byte{1, 2, 3}).Compare(Wrap([]byte{1, 2})))
	require.Zero(t, Wrap([]byte{1, 2}).Compare(Wrap([]byte{1, 2})))

	// unsigned byte order
	require.Positive(t, Wrap([]byte{0xFF}).Compare(Wrap([]byte{0x01})))
	require.Negative(t, Wrap([]byte{0x7F}).Compare(Wrap([]byte{0x80})))

	a := Wrap([]byte("xxabcxx"))
	b := Wrap([]byte("abc"))
	require.True(t, a.EqualRange(2, b, 0, 3))
	require.Zero(t, a.CompareRange(2, 3, b, 0, 3))
	require.Negative(t, a.CompareRange(2, 2, b, 0, 3))
}

func TestCompareMatchesBytes(t *testing.T) {
	condition := func(a, b []byte) bool {
		return Wrap(a).Compare(Wrap(b)) == bytes.Compare(a, b) &&
			Wrap(a).Equal(Wrap(b)) == bytes.Equal(a, b)
	}
	require.NoError(t, quick.Check(condition, &quick.Config{MaxCount: 500}))
}

func TestHashCode(t *testing.T) {
	a := Wrap([]byte("some content"))
	b := Wrap([]byte("some content"))
	require.Equal(t, a.HashCode(), b.HashCode())
	require.Equal(t, uint32(xxhash.Sum64([]byte("some content"))), a.HashCode())
	require.Equal(t, xxhash.Sum64([]byte("content")), a.XxHash64Range(5, 7))
	require.Equal(t, uint32(xxhash.Sum64(nil)), Empty.HashCode())

	// the cached value survives mutation
	h := a.HashCode()
	a.SetByteAt(0, 'S')
	require.Equal(t, h, a.HashCode())
	require.NotEqual(t, uint64(h), a.XxHash64()&0xFFFFFFFF)
}

func TestEnsureSize(t *testing.T) {
	orig := Wrap([]byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10})
	grown := EnsureSize(orig, 100)
	require.GreaterOrEqual(t, grown.Len(), 100)
	require.Equal(t, orig.Bytes(), grown.BytesAt(0, 10))
	require.Equal(t, 160, grown.Len())

	require.Same(t, orig, EnsureSize(orig, 10))
	require.Same(t, orig, EnsureSize(orig, 3))
	require.Equal(t, 7, EnsureSize(nil, 7).Len())
	require.Equal(t, 1, EnsureSize(Empty, 1).Len())

	big := Allocate(slowGrowthThreshold)
	require.Equal(t, slowGrowthThreshold+slowGrowthThreshold/4, EnsureSize(big, slowGrowthThreshold+1).Len())
	require.Panics(t, func() { EnsureSize(orig, -1) })
}

func TestUncheckedAccessors(t *testing.T) {
	s := Allocate(16)
	s.UncheckedSetUint64At(0, math.MaxUint64)
	s.UncheckedSetUint32At(8, 7)
	s.UncheckedSetUint16At(12, 9)
	s.UncheckedSetByteAt(14, 3)
	require.Equal(t, uint64(math.MaxUint64), s.UncheckedUint64At(0))
	require.Equal(t, int64(-1), s.UncheckedInt64At(0))
	require.Equal(t, int32(7), s.UncheckedInt32At(8))
	require.Equal(t, uint16(9), s.UncheckedUint16At(12))
	require.Equal(t, byte(3), s.UncheckedByteAt(14))
	require.Equal(t, s.Float32At(8), s.UncheckedFloat32At(8))
	require.Equal(t, s.Float64At(8), s.UncheckedFloat64At(8))

	// a sub-view cannot reach past its own end
	sub := s.Slice(0, 4)
	assert.Panics(t, func() { sub.UncheckedUint64At(0) })
}

func TestWrapPointer(t *testing.T) {
	b := []byte{1, 2, 3, 4}
	s := WrapPointer(unsafe.Pointer(&b[0]), len(b), b)
	require.Equal(t, uint32(0x04030201), s.Uint32At(0))
	require.Same(t, Empty, WrapPointer(nil, 0, nil))
}
