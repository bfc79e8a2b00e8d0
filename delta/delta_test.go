package delta

import (
	"fmt"
	"math"
	"slices"
	"testing"

	"github.com/arloliu/intpack/codec"
	"github.com/arloliu/intpack/errs"
	"github.com/arloliu/intpack/format"
	"github.com/stretchr/testify/require"
)

func newDelta[T codec.Word](t *testing.T, typ format.CodecType, opts ...Option) *Codec[T] {
	t.Helper()

	inner, err := codec.New[T](typ)
	require.NoError(t, err)
	c, err := New(inner, opts...)
	require.NoError(t, err)

	return c
}

func TestRoundTrip(t *testing.T) {
	inputs := map[string][]int64{
		"empty":      {},
		"ascending":  {10, 11, 13, 16, 20, 25, 31, 38, 46, 55},
		"negative":   {100, 90, 95, -3, -1000, 7, 7, 7, math.MinInt64, math.MaxInt64},
		"single":     {42},
		"wraparound": {math.MaxInt64, math.MinInt64, math.MaxInt64},
	}

	long := make([]int64, 1000)
	for i := range long {
		long[i] = int64(i*i) - 5000
	}
	inputs["long"] = long

	for _, typ := range []format.CodecType{format.TypeVariableByte, format.TypeBinaryPacking, format.TypePFOR, format.TypeOptPFOR} {
		for _, zz := range []bool{false, true} {
			var opts []Option
			if zz {
				opts = append(opts, WithZigZag())
			}
			c := newDelta[int64](t, typ, opts...)

			for name, in := range inputs {
				t.Run(c.String()+"/"+name, func(t *testing.T) {
					snapshot := slices.Clone(in)
					out := make([]int64, c.MaxCompressedLength(len(in)))
					pos, lastIn, err := c.Compress(in, len(in), out, codec.Cursor{}, 0)
					require.NoError(t, err)
					require.Equal(t, len(in), pos.In)
					require.Equal(t, snapshot, in)

					decoded := make([]int64, len(in))
					dpos, lastOut, err := c.Uncompress(out, pos.Out, decoded, len(in), codec.Cursor{}, 0)
					require.NoError(t, err)
					require.Equal(t, codec.Cursor{In: pos.Out, Out: len(in)}, dpos)
					require.Equal(t, in, decoded)
					require.Equal(t, lastIn, lastOut)
				})
			}
		}
	}
}

func TestBaseThreading(t *testing.T) {
	c := newDelta[int32](t, format.TypeOptPFOR, WithZigZag())

	in := make([]int32, 700)
	for i := range in {
		in[i] = int32(1_000_000 + i*3 - (i%5)*7)
	}

	out := make([]int32, c.MaxCompressedLength(300)+c.MaxCompressedLength(400))
	pos, base, err := c.Compress(in, 300, out, codec.Cursor{}, 0)
	require.NoError(t, err)
	require.Equal(t, in[299], base)
	pos, base, err = c.Compress(in, 400, out, pos, base)
	require.NoError(t, err)
	require.Equal(t, in[699], base)
	require.Equal(t, 700, pos.In)

	decoded := make([]int32, 700)
	dpos, dbase, err := c.Uncompress(out, pos.Out, decoded, 300, codec.Cursor{}, 0)
	require.NoError(t, err)
	require.Equal(t, in[299], dbase)
	_, dbase, err = c.Uncompress(out, pos.Out-dpos.In, decoded, 400, dpos, dbase)
	require.NoError(t, err)
	require.Equal(t, in[699], dbase)
	require.Equal(t, in, decoded)
}

func testUncompressOutputOffset[T codec.Word](t *testing.T) {
	long := make([]T, 300)
	for i := range long {
		long[i] = T(i*i - 7*i)
	}
	inputs := map[string][]T{
		"short":  {2, 3, 4, 5},
		"blocks": long,
	}

	for _, typ := range []format.CodecType{format.TypeBinaryPacking, format.TypeOptPFOR} {
		c := newDelta[T](t, typ)
		for name, in := range inputs {
			for _, offset := range []int{0, 1, 6} {
				t.Run(fmt.Sprintf("%s/%s/offset_%d", c, name, offset), func(t *testing.T) {
					compressed := make([]T, c.MaxCompressedLength(len(in)))
					pos, _, err := c.Compress(in, len(in), compressed, codec.Cursor{}, 0)
					require.NoError(t, err)

					uncompressed := make([]T, offset+len(in))
					for i := range offset {
						uncompressed[i] = 99
					}
					dpos, base, err := c.Uncompress(compressed, pos.Out, uncompressed, len(in), codec.Cursor{Out: offset}, 0)
					require.NoError(t, err)
					require.Equal(t, codec.Cursor{In: pos.Out, Out: offset + len(in)}, dpos)
					require.Equal(t, in[len(in)-1], base)
					require.Equal(t, in, uncompressed[offset:])
					for i := range offset {
						require.Equal(t, T(99), uncompressed[i], "value before the output offset changed")
					}
				})
			}
		}
	}
}

func TestUncompressOutputOffset32(t *testing.T) { testUncompressOutputOffset[int32](t) }
func TestUncompressOutputOffset64(t *testing.T) { testUncompressOutputOffset[int64](t) }

// Every value and every difference is negative, so no codec can pack below
// full width and the bound must be met within the one word reserved for a
// composition header.
func testMaxCompressedLengthNegativeDeltas[T codec.Word](t *testing.T) {
	limits := map[format.CodecType]int{
		format.TypeVariableByte:  128,
		format.TypeBinaryPacking: 16*codec.BinaryPackingBlockSize + 10,
		format.TypeOptPFOR:       4*codec.DefaultBlockSize + 10,
	}
	if testing.Short() {
		limits[format.TypeBinaryPacking] = 2*codec.BinaryPackingBlockSize + 10
	}

	for typ, limit := range limits {
		c := newDelta[T](t, typ)
		t.Run(c.String(), func(t *testing.T) {
			for length := range limit {
				in := make([]T, length)
				for i := range in {
					in[i] = T(-(i + 1))
				}

				bound := c.MaxCompressedLength(length)
				out := make([]T, bound)
				pos, _, err := c.Compress(in, length, out, codec.Cursor{}, 0)
				require.NoError(t, err, "length %d", length)
				require.LessOrEqual(t, bound, pos.Out+1, "length %d", length)
			}
		})
	}
}

func TestMaxCompressedLength_NegativeDeltas32(t *testing.T) {
	testMaxCompressedLengthNegativeDeltas[int32](t)
}

func TestMaxCompressedLength_NegativeDeltas64(t *testing.T) {
	testMaxCompressedLengthNegativeDeltas[int64](t)
}

func TestZigZagShrinksNegativeDeltas(t *testing.T) {
	in := make([]int32, 1024)
	for i := range in {
		in[i] = int32(-i)
	}

	plain := newDelta[int32](t, format.TypeOptPFOR)
	zz := newDelta[int32](t, format.TypeOptPFOR, WithZigZag())

	plainOut := make([]int32, plain.MaxCompressedLength(len(in)))
	zzOut := make([]int32, zz.MaxCompressedLength(len(in)))
	ppos, _, err := plain.Compress(in, len(in), plainOut, codec.Cursor{}, 0)
	require.NoError(t, err)
	zpos, _, err := zz.Compress(in, len(in), zzOut, codec.Cursor{}, 0)
	require.NoError(t, err)

	require.Less(t, zpos.Out*4, ppos.Out)
}

func TestZigZag(t *testing.T) {
	tests := []struct {
		in   int32
		want int32
	}{
		{0, 0}, {-1, 1}, {1, 2}, {-2, 3}, {2, 4},
		{math.MaxInt32, -2}, {math.MinInt32, -1},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, zigzag(tt.in), "zigzag(%d)", tt.in)
		require.Equal(t, tt.in, unzigzag(tt.want), "unzigzag(%d)", tt.want)
	}

	for _, v := range []int64{0, -1, 1, math.MinInt64, math.MaxInt64, -123456789} {
		require.Equal(t, v, unzigzag(zigzag(v)))
	}
}

func TestBlockCodecWithoutFallback(t *testing.T) {
	pfor, err := codec.NewPFOR[int64]()
	require.NoError(t, err)
	c, err := New[int64](pfor)
	require.NoError(t, err)

	in := make([]int64, 200)
	for i := range in {
		in[i] = int64(i * 10)
	}
	out := make([]int64, c.MaxCompressedLength(len(in)))
	pos, base, err := c.Compress(in, len(in), out, codec.Cursor{}, 0)
	require.NoError(t, err)
	require.Equal(t, 128, pos.In)
	require.Equal(t, in[127], base)
}

func TestErrors(t *testing.T) {
	_, err := New[int32](nil)
	require.ErrorIs(t, err, errs.ErrInvalidArgument)

	c := newDelta[int32](t, format.TypePFOR)

	pos, base, err := c.Compress(make([]int32, 4), 5, make([]int32, 10), codec.Cursor{}, 9)
	require.ErrorIs(t, err, errs.ErrInvalidArgument)
	require.Equal(t, codec.Cursor{}, pos)
	require.Equal(t, int32(9), base)

	in := make([]int32, 300)
	for i := range in {
		in[i] = int32(i * 1000)
	}
	_, _, err = c.Compress(in, len(in), make([]int32, 4), codec.Cursor{}, 0)
	require.ErrorIs(t, err, errs.ErrCapacity)

	_, base, err = c.Uncompress([]int32{1}, 1, make([]int32, 300), 300, codec.Cursor{}, 5)
	require.ErrorIs(t, err, errs.ErrDecodingConsistency)
	require.Equal(t, int32(5), base)
}

func BenchmarkCompress(b *testing.B) {
	inner, err := codec.New[int64](format.TypeOptPFOR)
	require.NoError(b, err)
	c, err := New(inner, WithZigZag())
	require.NoError(b, err)

	in := make([]int64, 1<<14)
	for i := range in {
		in[i] = 1_700_000_000_000 + int64(i)*1000 + int64(i%7)
	}
	out := make([]int64, c.MaxCompressedLength(len(in)))

	for b.Loop() {
		_, _, _ = c.Compress(in, len(in), out, codec.Cursor{}, 0)
	}
}
