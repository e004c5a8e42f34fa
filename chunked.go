package byteslice

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/rawbytedev/byteslice/internal/common"
	"github.com/sirupsen/logrus"
)

// Loader supplies the bytes of a logical stream to a ChunkedInput.
type Loader interface {
	// Size returns the total stream length. It does not change.
	Size() int64
	// Load fills all of dst with the stream bytes starting at offset.
	Load(offset int64, dst *Slice) error
	Close() error
}

// ChunkedInput reads a stream that may be larger than memory through a
// fixed buffer that a Loader refills on demand.
//
// The buffer holds the window [globalPos, globalPos+bufLen) of the stream
// and the visible position is globalPos+bufPos. Moving the position outside
// the window drops it; the next read loads a new one.
type ChunkedInput struct {
	loader    Loader
	buf       *Slice
	globalLen int64
	globalPos int64
	bufPos    int
	bufLen    int
	closed    bool
	log       *logWrapper
	loads     int
	pending   error // load failure seen by NextByte
}

// NewChunkedInput returns a reader over loader. opts.BufferSize below
// MinChunkSize is rejected; a buffer larger than the stream is shrunk to
// the stream length.
func NewChunkedInput(loader Loader, opts Options) (*ChunkedInput, error) {
	opts = opts.withDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	size := loader.Size()
	if size < 0 {
		return nil, fmt.Errorf("loader size %d: %w", size, ErrOutOfBounds)
	}
	bufSize := int(min(int64(opts.BufferSize), size))
	return &ChunkedInput{
		loader:    loader,
		buf:       Allocate(bufSize),
		globalLen: size,
		log:       &logWrapper{logger: opts.Logger},
	}, nil
}

// Position returns the stream offset of the next byte.
func (in *ChunkedInput) Position() int64 { return in.globalPos + int64(in.bufPos) }

// Length returns the total stream length.
func (in *ChunkedInput) Length() int64 { return in.globalLen }

// BufferSize returns the capacity of the read buffer.
func (in *ChunkedInput) BufferSize() int { return in.buf.Len() }

// Loads returns how many times the Loader has been asked for a window.
func (in *ChunkedInput) Loads() int { return in.loads }

// Available returns the bytes left in the stream, loaded or not.
func (in *ChunkedInput) Available() int64 { return in.globalLen - in.Position() }

// IsReadable reports whether the stream has bytes left. It never loads.
func (in *ChunkedInput) IsReadable() bool { return in.Available() > 0 }

func (in *ChunkedInput) buffered() int { return in.bufLen - in.bufPos }

// SetPosition moves to position. A position inside the loaded window only
// moves within the buffer; anything else drops the window without loading.
func (in *ChunkedInput) SetPosition(position int64) error {
	if position < 0 || position > in.globalLen {
		return boundsError(position, 0, in.globalLen)
	}
	if rel := position - in.globalPos; rel >= 0 && rel <= int64(in.bufLen) {
		in.bufPos = int(rel)
		return nil
	}
	in.globalPos = position
	in.bufPos = 0
	in.bufLen = 0
	return nil
}

// EnsureAvailable makes at least n bytes readable from the buffer,
// loading a new window that starts at the current position if needed.
func (in *ChunkedInput) EnsureAvailable(n int) error {
	if err := in.pending; err != nil {
		in.pending = nil
		return err
	}
	if in.closed {
		return ErrClosed
	}
	if in.buffered() >= n {
		return nil
	}
	if int64(n) > in.Available() {
		return fmt.Errorf("read %d bytes at %d of %d: %w", n, in.Position(), in.globalLen, ErrEndOfStream)
	}
	if n > in.buf.Len() {
		return fmt.Errorf("read of %d bytes exceeds buffer of %d: %w", n, in.buf.Len(), ErrBufferTooSmall)
	}

	in.globalPos += int64(in.bufPos)
	in.bufPos = 0
	in.bufLen = 0
	readSize := int(min(int64(in.buf.Len()), in.globalLen-in.globalPos))
	if err := in.loader.Load(in.globalPos, in.buf.Slice(0, readSize)); err != nil {
		return &LoadError{Offset: in.globalPos, Length: readSize, Err: err}
	}
	in.bufLen = readSize
	in.loads++
	in.log.debug("chunk loaded", logrus.Fields{
		"offset": in.globalPos,
		"length": readSize,
		"total":  in.globalLen,
	})
	return nil
}

// next reserves n bytes of the buffer and returns their start.
func (in *ChunkedInput) next(n int) (int, error) {
	if err := in.EnsureAvailable(n); err != nil {
		return 0, err
	}
	p := in.bufPos
	in.bufPos += n
	return p, nil
}

// NextByte returns the next byte or EOF. A load failure also yields EOF;
// the error is kept and returned by the next read.
func (in *ChunkedInput) NextByte() int {
	b, err := in.ReadByte()
	if err != nil {
		if !errors.Is(err, ErrEndOfStream) && !errors.Is(err, ErrClosed) {
			in.pending = err
		}
		return EOF
	}
	return int(b)
}

// Read implements io.Reader. It returns at most one window per call.
func (in *ChunkedInput) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if in.Available() <= 0 {
		return 0, io.EOF
	}
	if in.buffered() == 0 {
		if err := in.EnsureAvailable(1); err != nil {
			return 0, err
		}
	}
	n := copy(p, in.buf.data[in.bufPos:in.bufLen])
	in.bufPos += n
	return n, nil
}

// ReadByte implements io.ByteReader.
func (in *ChunkedInput) ReadByte() (byte, error) {
	p, err := in.next(1)
	if err != nil {
		return 0, err
	}
	return in.buf.data[p], nil
}

func (in *ChunkedInput) ReadBool() (bool, error) {
	b, err := in.ReadByte()
	return b != 0, err
}

func (in *ChunkedInput) ReadUint8() (uint8, error) { return in.ReadByte() }

func (in *ChunkedInput) ReadInt16() (int16, error) {
	v, err := in.ReadUint16()
	return int16(v), err
}

func (in *ChunkedInput) ReadUint16() (uint16, error) {
	p, err := in.next(2)
	if err != nil {
		return 0, err
	}
	return in.buf.UncheckedUint16At(p), nil
}

func (in *ChunkedInput) ReadInt32() (int32, error) {
	v, err := in.ReadUint32()
	return int32(v), err
}

func (in *ChunkedInput) ReadUint32() (uint32, error) {
	p, err := in.next(4)
	if err != nil {
		return 0, err
	}
	return in.buf.UncheckedUint32At(p), nil
}

func (in *ChunkedInput) ReadInt64() (int64, error) {
	v, err := in.ReadUint64()
	return int64(v), err
}

func (in *ChunkedInput) ReadUint64() (uint64, error) {
	p, err := in.next(8)
	if err != nil {
		return 0, err
	}
	return in.buf.UncheckedUint64At(p), nil
}

func (in *ChunkedInput) ReadFloat32() (float32, error) {
	v, err := in.ReadUint32()
	return math.Float32frombits(v), err
}

func (in *ChunkedInput) ReadFloat64() (float64, error) {
	v, err := in.ReadUint64()
	return math.Float64frombits(v), err
}

// ReadUvarint reads an unsigned LEB128 varint one byte at a time.
func (in *ChunkedInput) ReadUvarint() (uint64, error) {
	return common.ReadUvarint(in)
}

// ReadSlice returns the next n bytes as an owned Slice. The buffer is
// reused by later reads, so the bytes are copied.
func (in *ChunkedInput) ReadSlice(n int) (*Slice, error) {
	if n == 0 {
		return Empty, nil
	}
	if n < 0 || int64(n) > in.Available() {
		return nil, fmt.Errorf("read %d bytes at %d of %d: %w", n, in.Position(), in.globalLen, ErrEndOfStream)
	}
	s := Allocate(n)
	if err := in.ReadBytes(s.data); err != nil {
		return nil, err
	}
	return s, nil
}

// ReadBytes fills dst, loading as many windows as it takes.
func (in *ChunkedInput) ReadBytes(dst []byte) error {
	if int64(len(dst)) > in.Available() {
		return fmt.Errorf("read %d bytes at %d of %d: %w", len(dst), in.Position(), in.globalLen, ErrEndOfStream)
	}
	for len(dst) > 0 {
		if err := in.EnsureAvailable(min(len(dst), in.buf.Len())); err != nil {
			return err
		}
		n := copy(dst, in.buf.data[in.bufPos:in.bufLen])
		in.bufPos += n
		dst = dst[n:]
	}
	return nil
}

// ReadToSlice fills [offset, offset+n) of dst.
func (in *ChunkedInput) ReadToSlice(dst *Slice, offset, n int) error {
	checkRange(offset, n, dst.Len())
	return in.ReadBytes(dst.data[offset : offset+n])
}

// Skip advances by min(n, Available()). Skipping inside the window keeps
// it; skipping past it drops it.
func (in *ChunkedInput) Skip(n int64) (int64, error) {
	if n <= 0 {
		return 0, nil
	}
	if int64(in.buffered()) >= n {
		in.bufPos += int(n)
		return n, nil
	}
	n = min(n, in.Available())
	in.globalPos += int64(in.bufPos) + n
	in.bufPos = 0
	in.bufLen = 0
	return n, nil
}

// Close moves to the end of the stream and closes the loader.
func (in *ChunkedInput) Close() error {
	if in.closed {
		return nil
	}
	in.closed = true
	in.globalPos = in.globalLen
	in.bufPos = 0
	in.bufLen = 0
	return in.loader.Close()
}
