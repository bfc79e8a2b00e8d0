package codec

import (
	"fmt"

	"github.com/arloliu/intpack/endian"
	"github.com/arloliu/intpack/errs"
	"github.com/arloliu/intpack/internal/options"
)

const (
	// DefaultBlockSize is the block size of PFOR codecs unless overridden.
	DefaultBlockSize = 128

	// MinBlockSize and MaxBlockSize bound WithBlockSize.
	MinBlockSize = 8
	MaxBlockSize = 1 << 16

	// DefaultExceptionPercent is the share of a block the fixed PFOR policy
	// allows to be stored as exceptions.
	DefaultExceptionPercent = 10

	// DefaultPageSize is the number of values FastPFOR groups into one page.
	DefaultPageSize = 1 << 16

	// MaxPageSize bounds WithPageSize.
	MaxPageSize = 1 << 20
)

type config struct {
	blockSize        int
	exceptionPercent int
	pageSize         int
	engine           endian.EndianEngine
}

func newConfig() *config {
	return &config{
		blockSize:        DefaultBlockSize,
		exceptionPercent: DefaultExceptionPercent,
		pageSize:         DefaultPageSize,
		engine:           endian.GetLittleEndianEngine(),
	}
}

func (c *config) Validate() error {
	if c.blockSize < MinBlockSize || c.blockSize > MaxBlockSize || c.blockSize%8 != 0 {
		return fmt.Errorf("%w: %d (must be a multiple of 8 in [%d, %d])",
			errs.ErrInvalidBlockSize, c.blockSize, MinBlockSize, MaxBlockSize)
	}
	if c.exceptionPercent < 0 || c.exceptionPercent > 100 {
		return fmt.Errorf("%w: exception percent %d out of [0, 100]", errs.ErrInvalidArgument, c.exceptionPercent)
	}
	if c.pageSize <= 0 || c.pageSize > MaxPageSize {
		return fmt.Errorf("%w: page size %d out of [1, %d]", errs.ErrInvalidArgument, c.pageSize, MaxPageSize)
	}

	return nil
}

// Option configures codecs built by New, NewPFOR and NewOptPFOR.
type Option = options.Option[*config]

// WithBlockSize sets the PFOR block size. It must be a multiple of 8 between
// MinBlockSize and MaxBlockSize.
func WithBlockSize(n int) Option {
	return options.NoError(func(c *config) {
		c.blockSize = n
	})
}

// WithExceptionPercent sets the share of a block, in percent, the fixed PFOR
// policy may store as exceptions.
func WithExceptionPercent(p int) Option {
	return options.NoError(func(c *config) {
		c.exceptionPercent = p
	})
}

// WithPageSize sets the number of values FastPFOR encodes per page. It must be
// a multiple of the block size.
func WithPageSize(n int) Option {
	return options.NoError(func(c *config) {
		c.pageSize = n
	})
}

// WithLittleEndian assembles VariableByte bytes into words least significant byte first (default).
func WithLittleEndian() Option {
	return options.NoError(func(c *config) {
		c.engine = endian.GetLittleEndianEngine()
	})
}

// WithBigEndian assembles VariableByte bytes into words most significant byte first.
func WithBigEndian() Option {
	return options.NoError(func(c *config) {
		c.engine = endian.GetBigEndianEngine()
	})
}

func buildConfig(opts []Option) (*config, error) {
	cfg := newConfig()
	if err := options.Build(cfg, opts...); err != nil {
		return nil, err
	}

	return cfg, nil
}
