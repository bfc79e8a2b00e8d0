package codec

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/arloliu/intpack/errs"
	"github.com/arloliu/intpack/format"
	"github.com/stretchr/testify/require"
)

func TestFixedPolicy_SelectWidth(t *testing.T) {
	tests := []struct {
		name    string
		percent int
		fill    map[int]int
		n       int
		want    int
	}{
		{name: "all zero", percent: 10, fill: map[int]int{0: 128}, n: 128, want: 0},
		{name: "exceptions within budget", percent: 10, fill: map[int]int{5: 90, 20: 10}, n: 100, want: 5},
		{name: "exceptions over budget", percent: 10, fill: map[int]int{5: 89, 20: 11}, n: 100, want: 20},
		{name: "zero budget", percent: 0, fill: map[int]int{3: 99, 9: 1}, n: 100, want: 9},
		{name: "full budget", percent: 100, fill: map[int]int{7: 100}, n: 100, want: 0},
		{name: "full width", percent: 10, fill: map[int]int{64: 128}, n: 128, want: 64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var hist [65]int
			maxBits := 0
			for k, c := range tt.fill {
				hist[k] = c
				maxBits = max(maxBits, k)
			}
			got := fixedPolicy{percent: tt.percent}.selectWidth(&hist, tt.n, maxBits, 7)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestOptimalPolicy_SelectWidth(t *testing.T) {
	t.Run("single outlier", func(t *testing.T) {
		var hist [65]int
		hist[0] = 127
		hist[31] = 1
		require.Equal(t, 0, optimalPolicy{}.selectWidth(&hist, 128, 31, 7))
	})

	t.Run("dense wide values", func(t *testing.T) {
		var hist [65]int
		hist[30] = 100
		hist[31] = 28
		require.Equal(t, 31, optimalPolicy{}.selectWidth(&hist, 128, 31, 7))
	})

	t.Run("tie goes to smaller width", func(t *testing.T) {
		// n=4, posBits=2: width 3 costs 12 and width 1 costs 4+2*(2+2)=12.
		var hist [65]int
		hist[1] = 2
		hist[3] = 2
		require.Equal(t, 1, optimalPolicy{}.selectWidth(&hist, 4, 3, 2))
	})

	t.Run("all zero", func(t *testing.T) {
		var hist [65]int
		hist[0] = 64
		require.Equal(t, 0, optimalPolicy{}.selectWidth(&hist, 64, 0, 6))
	})
}

func TestPFOR_AllZeroBlockIsHeaderOnly(t *testing.T) {
	for _, newCodec := range []func(...Option) (*PFOR[int32], error){NewPFOR[int32], NewOptPFOR[int32]} {
		c, err := newCodec()
		require.NoError(t, err)

		in := make([]int32, 128)
		out := []int32{-7, -7, -7}
		pos, err := c.Compress(in, len(in), out, Cursor{})
		require.NoError(t, err)
		require.Equal(t, Cursor{In: 128, Out: 1}, pos)
		require.Equal(t, int32(0), out[0])

		decoded := make([]int32, 128)
		for i := range decoded {
			decoded[i] = 99
		}
		dpos, err := c.Uncompress(out, 1, decoded, 128, Cursor{})
		require.NoError(t, err)
		require.Equal(t, Cursor{In: 1, Out: 128}, dpos)
		require.Equal(t, in, decoded)
	}
}

func TestPFOR_SingleOutlier(t *testing.T) {
	for _, newCodec := range []func(...Option) (*PFOR[int32], error){NewPFOR[int32], NewOptPFOR[int32]} {
		c, err := newCodec()
		require.NoError(t, err)

		in := make([]int32, 128)
		in[77] = math.MaxInt32
		out := make([]int32, c.MaxCompressedLength(128))
		pos, err := c.Compress(in, len(in), out, Cursor{})
		require.NoError(t, err)

		p := parseHeader(uint64(out[0])) //nolint:gosec
		require.Equal(t, blockPlan{bitWidth: 0, exceptionWidth: 31, exceptionCount: 1}, p)
		// One record of 7 position bits and 31 excess bits.
		require.Equal(t, 3, pos.Out)

		decoded := make([]int32, 128)
		_, err = c.Uncompress(out, pos.Out, decoded, 128, Cursor{})
		require.NoError(t, err)
		require.Equal(t, in, decoded)
	}
}

func TestPFOR_FullWidthHasNoExceptions(t *testing.T) {
	c, err := NewPFOR[int64]()
	require.NoError(t, err)

	in := make([]int64, 128)
	for i := range in {
		in[i] = -int64(i) - 1
	}
	out := make([]int64, c.MaxCompressedLength(128))
	pos, err := c.Compress(in, len(in), out, Cursor{})
	require.NoError(t, err)
	require.Equal(t, 129, pos.Out)
	require.Equal(t, blockPlan{bitWidth: 64}, parseHeader(uint64(out[0]))) //nolint:gosec
}

func TestPFOR_NegativeExceptionsRestoreSign(t *testing.T) {
	c, err := NewOptPFOR[int32]()
	require.NoError(t, err)

	in := make([]int32, 256)
	for i := range in {
		in[i] = int32(i % 16)
	}
	in[3] = -1
	in[200] = math.MinInt32

	out := make([]int32, c.MaxCompressedLength(len(in)))
	pos, err := c.Compress(in, len(in), out, Cursor{})
	require.NoError(t, err)

	decoded := make([]int32, len(in))
	_, err = c.Uncompress(out, pos.Out, decoded, len(in), Cursor{})
	require.NoError(t, err)
	require.Equal(t, in, decoded)
}

func TestOptPFOR_NeverLargerThanPFOR(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2)) //nolint:gosec

	fixed, err := NewPFOR[int32]()
	require.NoError(t, err)
	optimal, err := NewOptPFOR[int32]()
	require.NoError(t, err)

	for round := range 50 {
		in := make([]int32, 128*8)
		for i := range in {
			in[i] = rng.Int32N(1 << (round%12 + 1))
			if rng.IntN(100) < round%30 {
				in[i] = rng.Int32()
			}
		}

		fixedOut := make([]int32, fixed.MaxCompressedLength(len(in)))
		optOut := make([]int32, optimal.MaxCompressedLength(len(in)))
		fpos, err := fixed.Compress(in, len(in), fixedOut, Cursor{})
		require.NoError(t, err)
		opos, err := optimal.Compress(in, len(in), optOut, Cursor{})
		require.NoError(t, err)
		require.LessOrEqual(t, opos.Out, fpos.Out, "round %d", round)
	}
}

func TestPFOR_HeaderOverflow(t *testing.T) {
	_, err := blockPlan{exceptionCount: maxExceptionCount + 1}.header()
	require.ErrorIs(t, err, errs.ErrEncodingOverflow)

	h, err := blockPlan{bitWidth: 3, exceptionWidth: 29, exceptionCount: maxExceptionCount}.header()
	require.NoError(t, err)
	require.Equal(t, uint64(3|29<<8|0xFFFF<<16), h)

	c, err := NewPFOR[int32](WithBlockSize(MaxBlockSize), WithExceptionPercent(100))
	require.NoError(t, err)

	in := make([]int32, MaxBlockSize)
	for i := range in {
		in[i] = 1
	}
	out := make([]int32, c.MaxCompressedLength(len(in)))
	pos, err := c.Compress(in, len(in), out, Cursor{})
	require.ErrorIs(t, err, errs.ErrEncodingOverflow)
	require.Equal(t, Cursor{}, pos)
}

func TestPFOR_CorruptHeader(t *testing.T) {
	c32, err := NewPFOR[int32]()
	require.NoError(t, err)
	c64, err := NewPFOR[int64]()
	require.NoError(t, err)

	out32 := make([]int32, 128)
	out64 := make([]int64, 128)

	// Bit width wider than the word.
	_, err = c32.Uncompress([]int32{40, 0, 0}, 3, out32, 128, Cursor{})
	require.ErrorIs(t, err, errs.ErrDecodingConsistency)

	// Bits above the low 32 set.
	_, err = c64.Uncompress([]int64{1 << 40, 0}, 2, out64, 128, Cursor{})
	require.ErrorIs(t, err, errs.ErrDecodingConsistency)

	// More exceptions than the block holds.
	_, err = c32.Uncompress([]int32{1<<8 | 200<<16, 0}, 2, out32, 128, Cursor{})
	require.ErrorIs(t, err, errs.ErrDecodingConsistency)

	// Exceptions with zero excess width.
	_, err = c32.Uncompress([]int32{1 << 16, 0}, 2, out32, 128, Cursor{})
	require.ErrorIs(t, err, errs.ErrDecodingConsistency)

	// Packed area shorter than the header claims.
	_, err = c32.Uncompress([]int32{5, 0, 0}, 3, out32, 128, Cursor{})
	require.ErrorIs(t, err, errs.ErrDecodingConsistency)
}

func TestPFOR_ExceptionPositionOutsideBlock(t *testing.T) {
	c, err := NewPFOR[int32](WithBlockSize(24))
	require.NoError(t, err)
	require.Equal(t, 5, c.posBits)

	// bitWidth 0, one exception of width 1 at position 31.
	in := []int32{1<<8 | 1<<16, 31 | 1<<5}
	out := make([]int32, 24)
	_, err = c.Uncompress(in, len(in), out, 24, Cursor{})
	require.ErrorIs(t, err, errs.ErrDecodingConsistency)
}

func TestPFOR_MaxCompressedLength(t *testing.T) {
	fixed, err := NewPFOR[int32]()
	require.NoError(t, err)
	optimal, err := NewOptPFOR[int32]()
	require.NoError(t, err)

	require.Equal(t, 0, fixed.MaxCompressedLength(127))
	// 12 exceptions with 7 position bits add 3 words to full-width packing.
	require.Equal(t, 2*(1+128+3), fixed.MaxCompressedLength(256))
	require.Equal(t, 2*(1+128), optimal.MaxCompressedLength(300))
}

func TestPFOR_Identity(t *testing.T) {
	c, err := NewOptPFOR[int64](WithBlockSize(256))
	require.NoError(t, err)
	require.Equal(t, 256, c.BlockSize())
	require.Equal(t, format.TypeOptPFOR, c.Type())
	require.Equal(t, 64, c.MaxValueBits())
	require.Equal(t, "OptPFOR(256)", c.String())
}
