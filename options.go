package byteslice

import (
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const (
	// MinChunkSize is the smallest buffer a ChunkedInput accepts.
	MinChunkSize = 128
	// DefaultBufferSize is used when Options.BufferSize is zero.
	DefaultBufferSize = 4096
)

// Options configures the buffered readers, ChunkedInput and StreamInput.
type Options struct {
	// BufferSize is the capacity of the fixed read buffer. No single typed
	// read may be wider than it.
	BufferSize int `yaml:"buffer_size"`

	// Logger receives Debug entries for buffer refills. Nil disables
	// logging.
	Logger *logrus.Logger `yaml:"-"`
}

func DefaultOptions() Options {
	return Options{BufferSize: DefaultBufferSize}
}

func (o Options) withDefaults() Options {
	if o.BufferSize == 0 {
		o.BufferSize = DefaultBufferSize
	}
	return o
}

// Validate reports configuration errors.
func (o Options) Validate() error {
	if o.BufferSize < MinChunkSize {
		return fmt.Errorf("buffer size %d below minimum %d: %w", o.BufferSize, MinChunkSize, ErrBufferTooSmall)
	}
	return nil
}

// LoadOptions decodes YAML options from r. Unset fields keep their
// defaults.
//
//	buffer_size: 65536
func LoadOptions(r io.Reader) (Options, error) {
	opts := DefaultOptions()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&opts); err != nil && !errors.Is(err, io.EOF) {
		return Options{}, fmt.Errorf("decode options: %w", err)
	}
	opts = opts.withDefaults()
	if err := opts.Validate(); err != nil {
		return Options{}, err
	}
	return opts, nil
}
