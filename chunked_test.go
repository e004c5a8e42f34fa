package byteslice

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingLoader serves a byte sequence and records every Load call.
type countingLoader struct {
	data   []byte
	calls  []int64
	fail   error
	closed bool
}

func newPatternLoader(n int) *countingLoader {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(i * 7)
	}
	return &countingLoader{data: b}
}

func (l *countingLoader) Size() int64 { return int64(len(l.data)) }

func (l *countingLoader) Load(offset int64, dst *Slice) error {
	l.calls = append(l.calls, offset)
	if l.fail != nil {
		return l.fail
	}
	dst.SetBytesAt(0, l.data[offset:offset+int64(dst.Len())])
	return nil
}

func (l *countingLoader) Close() error {
	l.closed = true
	return nil
}

func newChunked(t *testing.T, l Loader, size int) *ChunkedInput {
	t.Helper()
	in, err := NewChunkedInput(l, Options{BufferSize: size})
	require.NoError(t, err)
	return in
}

func TestChunkedReadsWholeStream(t *testing.T) {
	l := newPatternLoader(1000)
	in := newChunked(t, l, 128)
	require.Equal(t, 128, in.BufferSize())
	require.Equal(t, int64(1000), in.Length())

	for i := range 999 {
		b, err := in.ReadByte()
		require.NoError(t, err)
		require.Equal(t, l.data[i], b)
	}
	b, err := in.ReadByte()
	require.NoError(t, err, "the last byte is readable")
	require.Equal(t, l.data[999], b)

	_, err = in.ReadByte()
	require.ErrorIs(t, err, ErrEndOfStream)
	require.Equal(t, EOF, in.NextByte())
	require.False(t, in.IsReadable())
	// 1000 bytes in windows of 128
	require.Equal(t, 8, in.Loads())
}

func TestChunkedSeekWithinWindowDoesNotReload(t *testing.T) {
	l := newPatternLoader(1000)
	in := newChunked(t, l, 128)

	require.NoError(t, in.SetPosition(500))
	b, err := in.ReadByte()
	require.NoError(t, err)
	require.Equal(t, l.data[500], b)
	require.Equal(t, 1, in.Loads())

	require.NoError(t, in.SetPosition(510))
	b, err = in.ReadByte()
	require.NoError(t, err)
	require.Equal(t, l.data[510], b)
	require.Equal(t, 1, in.Loads())

	require.NoError(t, in.SetPosition(0))
	b, err = in.ReadByte()
	require.NoError(t, err)
	require.Equal(t, l.data[0], b)
	require.Equal(t, 2, in.Loads())
	require.Equal(t, []int64{500, 0}, l.calls)
}

func TestChunkedSetPositionBounds(t *testing.T) {
	in := newChunked(t, newPatternLoader(300), 128)
	require.ErrorIs(t, in.SetPosition(-1), ErrOutOfBounds)
	require.ErrorIs(t, in.SetPosition(301), ErrOutOfBounds)
	require.NoError(t, in.SetPosition(300))
	require.Zero(t, in.Available())
	require.Zero(t, in.Loads(), "SetPosition never loads")
}

func TestChunkedTypedReadSpansWindows(t *testing.T) {
	out := NewDynamicOutput(256)
	for i := range 64 {
		require.NoError(t, out.WriteUint64(uint64(i)*0x0101010101010101))
	}
	// odd leading byte so every uint64 after it straddles a window edge
	data := append([]byte{0xAA}, out.Bytes()...)
	in := newChunked(t, &countingLoader{data: data}, 128)

	b, err := in.ReadByte()
	require.NoError(t, err)
	require.Equal(t, byte(0xAA), b)
	for i := range 64 {
		v, err := in.ReadUint64()
		require.NoError(t, err)
		require.Equal(t, uint64(i)*0x0101010101010101, v)
	}
	require.False(t, in.IsReadable())
}

func TestChunkedBulkReads(t *testing.T) {
	l := newPatternLoader(1000)
	in := newChunked(t, l, 128)
	require.NoError(t, in.SetPosition(10))

	s, err := in.ReadSlice(500)
	require.NoError(t, err)
	require.Equal(t, l.data[10:510], s.Bytes())
	require.Equal(t, int64(510), in.Position())

	dst := Allocate(20)
	require.NoError(t, in.ReadToSlice(dst, 5, 10))
	require.Equal(t, l.data[510:520], dst.BytesAt(5, 10))

	_, err = in.ReadSlice(481)
	require.ErrorIs(t, err, ErrEndOfStream)
	require.Equal(t, int64(520), in.Position())

	rest, err := io.ReadAll(in)
	require.NoError(t, err)
	require.Equal(t, l.data[520:], rest)
}

func TestChunkedEnsureAvailableOrder(t *testing.T) {
	in := newChunked(t, newPatternLoader(1000), 128)
	require.ErrorIs(t, in.EnsureAvailable(200), ErrBufferTooSmall)

	require.NoError(t, in.SetPosition(990))
	require.ErrorIs(t, in.EnsureAvailable(200), ErrEndOfStream, "end of stream is reported before capacity")
	require.ErrorIs(t, in.EnsureAvailable(11), ErrEndOfStream)
	require.NoError(t, in.EnsureAvailable(10))
	require.Equal(t, int64(990), in.Position())
}

func TestChunkedSkip(t *testing.T) {
	l := newPatternLoader(1000)
	in := newChunked(t, l, 128)
	_, err := in.ReadByte()
	require.NoError(t, err)

	n, err := in.Skip(9)
	require.NoError(t, err)
	require.Equal(t, int64(9), n)
	require.Equal(t, 1, in.Loads())

	n, err = in.Skip(500)
	require.NoError(t, err)
	require.Equal(t, int64(500), n)
	require.Equal(t, int64(510), in.Position())
	require.Equal(t, 1, in.Loads(), "skip does not load")

	n, err = in.Skip(10_000)
	require.NoError(t, err)
	require.Equal(t, int64(490), n)
	require.False(t, in.IsReadable())
}

func TestChunkedSmallStreamShrinksBuffer(t *testing.T) {
	in := newChunked(t, newPatternLoader(40), 4096)
	require.Equal(t, 40, in.BufferSize())
	s, err := in.ReadSlice(40)
	require.NoError(t, err)
	require.Equal(t, 40, s.Len())

	in = newChunked(t, &countingLoader{}, 128)
	_, err = in.ReadByte()
	require.ErrorIs(t, err, ErrEndOfStream)
}

func TestChunkedConfigErrors(t *testing.T) {
	_, err := NewChunkedInput(newPatternLoader(1000), Options{BufferSize: 64})
	require.ErrorIs(t, err, ErrBufferTooSmall)
}

func TestChunkedLoadError(t *testing.T) {
	boom := errors.New("disk on fire")
	l := newPatternLoader(1000)
	l.fail = boom
	in := newChunked(t, l, 128)
	require.NoError(t, in.SetPosition(256))

	_, err := in.ReadUint32()
	require.ErrorIs(t, err, boom)
	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, int64(256), le.Offset)
	assert.Equal(t, 128, le.Length)
	assert.Equal(t, int64(256), in.Position())
}

func TestChunkedClose(t *testing.T) {
	l := newPatternLoader(1000)
	in := newChunked(t, l, 128)
	require.NoError(t, in.Close())
	require.True(t, l.closed)
	require.Equal(t, int64(1000), in.Position())
	require.False(t, in.IsReadable())
	_, err := in.ReadByte()
	require.ErrorIs(t, err, ErrClosed)
	require.NoError(t, in.Close())
}

func TestChunkedLogsLoads(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	in, err := NewChunkedInput(newPatternLoader(300), Options{BufferSize: 128, Logger: logger})
	require.NoError(t, err)

	_, err = io.Copy(io.Discard, in)
	require.NoError(t, err)
	require.Len(t, hook.AllEntries(), 3)
	last := hook.LastEntry()
	require.Equal(t, "chunk loaded", last.Message)
	require.Equal(t, int64(256), last.Data["offset"])
	require.Equal(t, 44, last.Data["length"])
}

func TestChunkedUvarint(t *testing.T) {
	out := NewDynamicOutput(0)
	require.NoError(t, out.WriteZero(126))
	require.NoError(t, out.WriteUvarint(1<<40))
	in := newChunked(t, &countingLoader{data: bytes.Clone(out.Bytes())}, 128)
	_, err := in.Skip(126)
	require.NoError(t, err)
	v, err := in.ReadUvarint()
	require.NoError(t, err)
	require.Equal(t, uint64(1<<40), v)
}

func TestChunkedNextByteReportsLoadFailure(t *testing.T) {
	boom := errors.New("disk on fire")
	l := newPatternLoader(1000)
	l.fail = boom
	in := newChunked(t, l, 128)

	require.Equal(t, EOF, in.NextByte())
	require.Equal(t, int64(1000), in.Available())
	require.True(t, in.IsReadable())

	_, err := in.ReadByte()
	require.ErrorIs(t, err, boom, "the failure behind EOF is reported once")
	var le *LoadError
	require.ErrorAs(t, err, &le)

	l.fail = nil
	require.Equal(t, int(l.data[0]), in.NextByte())
	require.NoError(t, in.SetPosition(1000))
	require.Equal(t, EOF, in.NextByte())
	_, err = in.ReadByte()
	require.ErrorIs(t, err, ErrEndOfStream)
}
