package frame

import (
	"fmt"

	"github.com/arloliu/intpack/codec"
	"github.com/arloliu/intpack/errs"
	"github.com/arloliu/intpack/format"
	"github.com/arloliu/intpack/internal/options"
)

type config struct {
	codecType        format.CodecType
	compression      format.CompressionType
	blockSize        int
	exceptionPercent int
	bigEndian        bool
	delta            bool
	zigzag           bool
}

func newConfig() *config {
	return &config{
		codecType:        format.TypeOptPFOR,
		compression:      format.CompressionNone,
		blockSize:        codec.DefaultBlockSize,
		exceptionPercent: codec.DefaultExceptionPercent,
	}
}

func (c *config) Validate() error {
	if c.blockSize < codec.MinBlockSize || c.blockSize > codec.MaxBlockSize || c.blockSize%8 != 0 {
		return fmt.Errorf("%w: %d", errs.ErrInvalidBlockSize, c.blockSize)
	}
	if c.exceptionPercent < 0 || c.exceptionPercent > 100 {
		return fmt.Errorf("%w: exception percent %d out of [0, 100]", errs.ErrInvalidArgument, c.exceptionPercent)
	}

	return nil
}

func (c *config) flags() uint8 {
	var f uint8
	if c.bigEndian {
		f |= FlagBigEndian
	}
	if c.delta {
		f |= FlagDelta
	}
	if c.zigzag {
		f |= FlagZigZag
	}

	return f
}

// codecOptions translates the frame settings into codec options.
func (c *config) codecOptions() []codec.Option {
	opts := []codec.Option{
		codec.WithBlockSize(c.blockSize),
		codec.WithExceptionPercent(c.exceptionPercent),
	}
	if c.bigEndian {
		opts = append(opts, codec.WithBigEndian())
	}

	return opts
}

// Option configures an Encoder or EncodeParallel.
type Option = options.Option[*config]

// WithCodec selects the integer codec. Composition is not accepted: block
// codecs are always paired with a VariableByte fallback.
func WithCodec(typ format.CodecType) Option {
	return options.New(func(c *config) error {
		if !typ.Valid() || typ == format.TypeComposition {
			return fmt.Errorf("%w: %s", errs.ErrInvalidCodecType, typ)
		}
		c.codecType = typ

		return nil
	})
}

// WithCompression selects the secondary compression applied to each payload.
func WithCompression(comp format.CompressionType) Option {
	return options.New(func(c *config) error {
		if !comp.Valid() {
			return fmt.Errorf("%w: %s", errs.ErrInvalidCompression, comp)
		}
		c.compression = comp

		return nil
	})
}

// WithBlockSize sets the PFOR block size.
func WithBlockSize(n int) Option {
	return options.NoError(func(c *config) {
		c.blockSize = n
	})
}

// WithExceptionPercent sets the exception budget of the fixed PFOR policy.
func WithExceptionPercent(p int) Option {
	return options.NoError(func(c *config) {
		c.exceptionPercent = p
	})
}

// WithLittleEndian stores header fields and words little-endian (default).
func WithLittleEndian() Option {
	return options.NoError(func(c *config) {
		c.bigEndian = false
	})
}

// WithBigEndian stores header fields and words big-endian.
func WithBigEndian() Option {
	return options.NoError(func(c *config) {
		c.bigEndian = true
	})
}

// WithDelta stores the differences between consecutive values. Each frame
// starts from a base of zero.
func WithDelta() Option {
	return options.NoError(func(c *config) {
		c.delta = true
	})
}

// WithZigZagDelta is WithDelta with zigzag encoded differences, for sequences
// that are not monotonically increasing.
func WithZigZagDelta() Option {
	return options.NoError(func(c *config) {
		c.delta = true
		c.zigzag = true
	})
}
