package loader

import (
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/rawbytedev/byteslice"
)

// ZstdLoader serves windows of the decompressed form of a zstd stream.
//
// Forward loads decompress and discard up to the requested offset. A load
// behind the decoder position rewinds the source and starts over, so
// readers should move mostly forward.
type ZstdLoader struct {
	src  io.ReadSeeker
	dec  *zstd.Decoder
	size int64
	pos  int64 // decompressed offset of the decoder
}

// NewZstdLoader returns a loader over the compressed stream src whose
// decompressed length is size.
func NewZstdLoader(src io.ReadSeeker, size int64) (*ZstdLoader, error) {
	dec, err := zstd.NewReader(src, zstd.WithDecoderConcurrency(1))
	if err != nil {
		return nil, err
	}
	return &ZstdLoader{src: src, dec: dec, size: size}, nil
}

func (l *ZstdLoader) Size() int64 { return l.size }

func (l *ZstdLoader) rewind() error {
	if _, err := l.src.Seek(0, io.SeekStart); err != nil {
		return err
	}
	if err := l.dec.Reset(l.src); err != nil {
		return err
	}
	l.pos = 0
	return nil
}

func (l *ZstdLoader) Load(offset int64, dst *byteslice.Slice) error {
	if offset < l.pos {
		if err := l.rewind(); err != nil {
			return fmt.Errorf("rewind zstd stream: %w", err)
		}
	}
	if offset > l.pos {
		n, err := io.CopyN(io.Discard, l.dec, offset-l.pos)
		l.pos += n
		if err != nil {
			return fmt.Errorf("skip to %d: %w", offset, err)
		}
	}
	n, err := io.ReadFull(l.dec, dst.Bytes())
	l.pos += int64(n)
	if err != nil {
		return fmt.Errorf("decompress %d bytes at %d: %w", dst.Len(), offset, err)
	}
	return nil
}

// Close releases the decoder and closes src when it is an io.Closer.
func (l *ZstdLoader) Close() error {
	l.dec.Close()
	if c, ok := l.src.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
