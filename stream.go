package byteslice

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/rawbytedev/byteslice/internal/common"
	"github.com/sirupsen/logrus"
)

// StreamInput adapts an io.Reader to Input for data that cannot be held
// as one Slice. Bytes are read through a fixed buffer.
//
// The total length is unknown, so Available only counts buffered bytes.
// Moving backwards past the buffered window needs an io.Seeker source.
type StreamInput struct {
	r      io.Reader
	buf    *Slice
	base   int64 // stream offset of buf[0]
	bufPos int
	bufLen int
	eof     bool
	closed  bool
	log     *logWrapper
	pending error // read failure seen by NextByte or IsReadable
}

// NewStreamInput returns a reader over r buffering opts.BufferSize bytes at a
// time. The buffer size is validated like ChunkedInput's.
func NewStreamInput(r io.Reader, opts Options) (*StreamInput, error) {
	opts = opts.withDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &StreamInput{
		r:   r,
		buf: Allocate(opts.BufferSize),
		log: &logWrapper{logger: opts.Logger},
	}, nil
}

// Position returns the number of bytes consumed from the start of r.
func (in *StreamInput) Position() int64 { return in.base + int64(in.bufPos) }

func (in *StreamInput) buffered() int { return in.bufLen - in.bufPos }

// Available returns the bytes readable without touching the source.
func (in *StreamInput) Available() int64 { return int64(in.buffered()) }

// IsReadable reports whether another byte exists. It may block on the
// source to find out; a read failure reports false and is returned by the
// next read.
func (in *StreamInput) IsReadable() bool {
	return in.keep(in.fill(1)) == nil
}

// keep stores err for the next read unless it only marks the end of data.
func (in *StreamInput) keep(err error) error {
	if err != nil && !errors.Is(err, ErrEndOfStream) && !errors.Is(err, ErrClosed) {
		in.pending = err
	}
	return err
}

// fill makes n bytes buffered, compacting the window to the buffer start
// first. A source that ends early yields ErrEndOfStream.
func (in *StreamInput) fill(n int) error {
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
	if n > in.buf.Len() {
		return fmt.Errorf("read of %d bytes exceeds buffer of %d: %w", n, in.buf.Len(), ErrBufferTooSmall)
	}
	if in.eof {
		return fmt.Errorf("read %d bytes at %d: %w", n, in.Position(), ErrEndOfStream)
	}

	kept := copy(in.buf.data, in.buf.data[in.bufPos:in.bufLen])
	in.base += int64(in.bufPos)
	in.bufPos = 0
	in.bufLen = kept

	read, err := io.ReadAtLeast(in.r, in.buf.data[kept:], n-kept)
	in.bufLen += read
	in.log.debug("stream refilled", logrus.Fields{
		"offset": in.base + int64(kept),
		"length": read,
	})
	switch {
	case err == nil:
		return nil
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		in.eof = true
		return fmt.Errorf("read %d bytes at %d: %w", n, in.Position(), ErrEndOfStream)
	default:
		return &LoadError{Offset: in.base + int64(kept), Length: n - kept, Err: err}
	}
}

func (in *StreamInput) next(n int) (int, error) {
	if err := in.fill(n); err != nil {
		return 0, err
	}
	p := in.bufPos
	in.bufPos += n
	return p, nil
}

// SetPosition moves inside the buffered window, skips forward on the
// source, or seeks when the source is an io.Seeker.
func (in *StreamInput) SetPosition(position int64) error {
	if position < 0 {
		return boundsError(position, 0, math.MaxInt64)
	}
	if rel := position - in.base; rel >= 0 && rel <= int64(in.bufLen) {
		in.bufPos = int(rel)
		return nil
	}
	if position > in.Position() {
		want := position - in.Position()
		skipped, err := in.Skip(want)
		if err != nil {
			return err
		}
		if skipped < want {
			return fmt.Errorf("seek to %d: %w", position, ErrEndOfStream)
		}
		return nil
	}
	seeker, ok := in.r.(io.Seeker)
	if !ok {
		return fmt.Errorf("seek back to %d: %w", position, errors.ErrUnsupported)
	}
	if _, err := seeker.Seek(position, io.SeekStart); err != nil {
		return &LoadError{Offset: position, Err: err}
	}
	in.base = position
	in.bufPos = 0
	in.bufLen = 0
	in.eof = false
	return nil
}

// NextByte returns the next byte or EOF. A read failure also yields EOF;
// the error is kept and returned by the next read.
func (in *StreamInput) NextByte() int {
	b, err := in.ReadByte()
	if in.keep(err) != nil {
		return EOF
	}
	return int(b)
}

// Read implements io.Reader. Buffered bytes are returned first; an empty
// buffer is refilled once.
func (in *StreamInput) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if in.buffered() == 0 {
		if err := in.fill(1); err != nil {
			if errors.Is(err, ErrEndOfStream) {
				return 0, io.EOF
			}
			return 0, err
		}
	}
	n := copy(p, in.buf.data[in.bufPos:in.bufLen])
	in.bufPos += n
	return n, nil
}

// ReadByte implements io.ByteReader.
func (in *StreamInput) ReadByte() (byte, error) {
	p, err := in.next(1)
	if err != nil {
		return 0, err
	}
	return in.buf.data[p], nil
}

func (in *StreamInput) ReadBool() (bool, error) {
	b, err := in.ReadByte()
	return b != 0, err
}

func (in *StreamInput) ReadUint8() (uint8, error) { return in.ReadByte() }

func (in *StreamInput) ReadInt16() (int16, error) {
	v, err := in.ReadUint16()
	return int16(v), err
}

func (in *StreamInput) ReadUint16() (uint16, error) {
	p, err := in.next(2)
	if err != nil {
		return 0, err
	}
	return in.buf.UncheckedUint16At(p), nil
}

func (in *StreamInput) ReadInt32() (int32, error) {
	v, err := in.ReadUint32()
	return int32(v), err
}

func (in *StreamInput) ReadUint32() (uint32, error) {
	p, err := in.next(4)
	if err != nil {
		return 0, err
	}
	return in.buf.UncheckedUint32At(p), nil
}

func (in *StreamInput) ReadInt64() (int64, error) {
	v, err := in.ReadUint64()
	return int64(v), err
}

func (in *StreamInput) ReadUint64() (uint64, error) {
	p, err := in.next(8)
	if err != nil {
		return 0, err
	}
	return in.buf.UncheckedUint64At(p), nil
}

func (in *StreamInput) ReadFloat32() (float32, error) {
	v, err := in.ReadUint32()
	return math.Float32frombits(v), err
}

func (in *StreamInput) ReadFloat64() (float64, error) {
	v, err := in.ReadUint64()
	return math.Float64frombits(v), err
}

// ReadUvarint reads an unsigned LEB128 varint one byte at a time.
func (in *StreamInput) ReadUvarint() (uint64, error) {
	return common.ReadUvarint(in)
}

// ReadSlice returns the next n bytes as an owned Slice.
func (in *StreamInput) ReadSlice(n int) (*Slice, error) {
	if n == 0 {
		return Empty, nil
	}
	if n < 0 {
		return nil, boundsError(in.Position(), int64(n), math.MaxInt64)
	}
	s := Allocate(n)
	if err := in.ReadBytes(s.data); err != nil {
		return nil, err
	}
	return s, nil
}

// ReadBytes fills dst. If the source ends first the bytes consumed so far
// are lost and ErrEndOfStream is returned.
func (in *StreamInput) ReadBytes(dst []byte) error {
	for len(dst) > 0 {
		if err := in.fill(min(len(dst), in.buf.Len())); err != nil {
			return err
		}
		n := copy(dst, in.buf.data[in.bufPos:in.bufLen])
		in.bufPos += n
		dst = dst[n:]
	}
	return nil
}

// ReadToSlice fills [offset, offset+n) of dst.
func (in *StreamInput) ReadToSlice(dst *Slice, offset, n int) error {
	checkRange(offset, n, dst.Len())
	return in.ReadBytes(dst.data[offset : offset+n])
}

// Skip discards up to n bytes and returns how many were discarded. The end
// of the source stops it without an error.
func (in *StreamInput) Skip(n int64) (int64, error) {
	if n <= 0 || in.closed {
		return 0, nil
	}
	if int64(in.buffered()) >= n {
		in.bufPos += int(n)
		return n, nil
	}
	skipped := int64(in.buffered())
	in.base += int64(in.bufLen)
	in.bufPos = 0
	in.bufLen = 0
	if in.eof {
		return skipped, nil
	}
	discarded, err := io.CopyN(io.Discard, in.r, n-skipped)
	in.base += discarded
	skipped += discarded
	if errors.Is(err, io.EOF) {
		in.eof = true
		return skipped, nil
	}
	if err != nil {
		return skipped, &LoadError{Offset: in.base, Length: int(n - skipped), Err: err}
	}
	return skipped, nil
}

// Close closes the source when it is an io.Closer.
func (in *StreamInput) Close() error {
	if in.closed {
		return nil
	}
	in.closed = true
	in.bufPos = 0
	in.bufLen = 0
	if c, ok := in.r.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
