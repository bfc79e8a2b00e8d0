package codec

import (
	"testing"

	"github.com/arloliu/intpack/endian"
	"github.com/arloliu/intpack/errs"
	"github.com/stretchr/testify/require"
)

func TestBuildConfig_Defaults(t *testing.T) {
	cfg, err := buildConfig(nil)
	require.NoError(t, err)
	require.Equal(t, DefaultBlockSize, cfg.blockSize)
	require.Equal(t, DefaultExceptionPercent, cfg.exceptionPercent)
	require.Equal(t, DefaultPageSize, cfg.pageSize)
	require.Equal(t, endian.GetLittleEndianEngine(), cfg.engine)
}

func TestBuildConfig_Options(t *testing.T) {
	cfg, err := buildConfig([]Option{WithBlockSize(512), WithExceptionPercent(25), WithBigEndian()})
	require.NoError(t, err)
	require.Equal(t, 512, cfg.blockSize)
	require.Equal(t, 25, cfg.exceptionPercent)
	require.Equal(t, endian.GetBigEndianEngine(), cfg.engine)

	cfg, err = buildConfig([]Option{WithBigEndian(), WithLittleEndian()})
	require.NoError(t, err)
	require.Equal(t, endian.GetLittleEndianEngine(), cfg.engine)
}

func TestBuildConfig_Validation(t *testing.T) {
	tests := []struct {
		name    string
		opts    []Option
		wantErr error
	}{
		{"block size too small", []Option{WithBlockSize(MinBlockSize - 8)}, errs.ErrInvalidBlockSize},
		{"block size not multiple of 8", []Option{WithBlockSize(130)}, errs.ErrInvalidBlockSize},
		{"block size too large", []Option{WithBlockSize(MaxBlockSize * 2)}, errs.ErrInvalidBlockSize},
		{"negative percent", []Option{WithExceptionPercent(-1)}, errs.ErrInvalidArgument},
		{"percent over 100", []Option{WithExceptionPercent(150)}, errs.ErrInvalidArgument},
		{"zero page size", []Option{WithPageSize(0)}, errs.ErrInvalidArgument},
		{"page size too large", []Option{WithPageSize(MaxPageSize + 1)}, errs.ErrInvalidArgument},
		{"small page", []Option{WithPageSize(256)}, nil},
		{"min block size", []Option{WithBlockSize(MinBlockSize)}, nil},
		{"max block size", []Option{WithBlockSize(MaxBlockSize)}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := buildConfig(tt.opts)
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}
