// Package loader provides byteslice.Loader implementations for common
// sources: an in-memory Slice, an io.ReaderAt such as an *os.File, and a
// zstd-compressed stream.
package loader

import (
	"fmt"
	"io"
	"os"

	"github.com/rawbytedev/byteslice"
)

var (
	_ byteslice.Loader = (*SliceLoader)(nil)
	_ byteslice.Loader = (*ReaderAtLoader)(nil)
	_ byteslice.Loader = (*ZstdLoader)(nil)
)

// SliceLoader serves windows of an in-memory Slice.
type SliceLoader struct {
	src *byteslice.Slice
}

func NewSliceLoader(src *byteslice.Slice) *SliceLoader {
	return &SliceLoader{src: src}
}

func (l *SliceLoader) Size() int64 { return int64(l.src.Len()) }

func (l *SliceLoader) Load(offset int64, dst *byteslice.Slice) error {
	if offset < 0 || offset > int64(l.src.Len()-dst.Len()) {
		return &byteslice.BoundsError{Index: offset, Length: int64(dst.Len()), Size: int64(l.src.Len())}
	}
	dst.SetSliceAt(0, l.src, int(offset), dst.Len())
	return nil
}

func (l *SliceLoader) Close() error { return nil }

// ReaderAtLoader serves windows with ReadAt calls.
type ReaderAtLoader struct {
	r    io.ReaderAt
	size int64
}

func NewReaderAtLoader(r io.ReaderAt, size int64) *ReaderAtLoader {
	return &ReaderAtLoader{r: r, size: size}
}

// OpenFile returns a loader over the file at path. Closing the loader
// closes the file.
func OpenFile(path string) (*ReaderAtLoader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	return NewReaderAtLoader(f, fi.Size()), nil
}

func (l *ReaderAtLoader) Size() int64 { return l.size }

func (l *ReaderAtLoader) Load(offset int64, dst *byteslice.Slice) error {
	n, err := l.r.ReadAt(dst.Bytes(), offset)
	if n == dst.Len() {
		// ReadAt may report io.EOF together with the final bytes
		return nil
	}
	if err == nil || err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return fmt.Errorf("read at %d: got %d of %d bytes: %w", offset, n, dst.Len(), err)
}

func (l *ReaderAtLoader) Close() error {
	if c, ok := l.r.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
