package intpack

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/intpack/codec"
	"github.com/arloliu/intpack/errs"
	"github.com/arloliu/intpack/format"
	"github.com/arloliu/intpack/frame"
)

func TestNewDefaultCodec(t *testing.T) {
	c, err := NewDefaultCodec[int32]()
	require.NoError(t, err)
	require.Equal(t, format.TypeComposition, c.Type())

	comp, ok := c.(*codec.Composition[int32])
	require.True(t, ok)
	require.Equal(t, format.TypeOptPFOR, comp.Primary().Type())
	require.Equal(t, codec.DefaultBlockSize, comp.Primary().BlockSize())
}

func TestNewCodec_Invalid(t *testing.T) {
	_, err := NewCodec[int64](format.CodecType(0x33))
	require.ErrorIs(t, err, errs.ErrInvalidCodecType)

	_, err = NewDeltaCodec[int64](format.TypePFOR, codec.WithBlockSize(7))
	require.ErrorIs(t, err, errs.ErrInvalidBlockSize)
}

func TestCompressUncompress(t *testing.T) {
	values := make([]int32, 1000)
	for i := range values {
		values[i] = int32(i % 300)
		if i%50 == 0 {
			values[i] = -int32(i)
		}
	}

	for _, typ := range []format.CodecType{format.TypeJustCopy, format.TypeVariableByte, format.TypeBinaryPacking, format.TypePFOR, format.TypeOptPFOR} {
		t.Run(typ.String(), func(t *testing.T) {
			compressed, err := Compress(values, typ)
			require.NoError(t, err)
			require.Equal(t, len(compressed), cap(compressed))

			restored, err := Uncompress(compressed, len(values), typ)
			require.NoError(t, err)
			require.Equal(t, values, restored)
		})
	}

	compressed, err := Compress(values, format.TypePFOR, codec.WithBlockSize(256))
	require.NoError(t, err)
	restored, err := Uncompress(compressed, len(values), format.TypePFOR, codec.WithBlockSize(256))
	require.NoError(t, err)
	require.Equal(t, values, restored)
}

func TestNewDeltaCodec(t *testing.T) {
	c, err := NewDeltaCodec[int64](format.TypeOptPFOR)
	require.NoError(t, err)

	values := []int64{1000, 1010, 1005, 1030, 990}
	out := make([]int64, c.MaxCompressedLength(len(values)))
	pos, last, err := c.Compress(values, len(values), out, codec.Cursor{}, 0)
	require.NoError(t, err)
	require.Equal(t, int64(990), last)

	restored := make([]int64, len(values))
	_, _, err = c.Uncompress(out, pos.Out, restored, len(values), codec.Cursor{}, 0)
	require.NoError(t, err)
	require.Equal(t, values, restored)
}

func TestDefaultFrameRoundTrip(t *testing.T) {
	values := make([]int64, 5000)
	for i := range values {
		values[i] = 1_700_000_000_000 + int64(i)*1000 + int64(i%3)
	}

	enc, err := NewDefaultFrameEncoder[int64]()
	require.NoError(t, err)
	require.NoError(t, enc.WriteSlice(values))
	data, err := enc.Finish()
	require.NoError(t, err)
	require.Less(t, len(data), len(values)*2)

	h, err := frame.ParseHeader(data)
	require.NoError(t, err)
	require.Equal(t, format.TypeOptPFOR, h.Codec)
	require.Equal(t, uint8(frame.FlagDelta|frame.FlagZigZag), h.Flags)

	restored, err := NewFrameDecoder[int64]().DecodeAll(data)
	require.NoError(t, err)
	require.Equal(t, values, restored)

	parallel, err := EncodeFrames(context.Background(), values, 1000)
	require.NoError(t, err)
	restored, err = NewFrameDecoder[int64]().DecodeAll(parallel)
	require.NoError(t, err)
	require.Equal(t, values, restored)
}

func TestNewFrameEncoder_Options(t *testing.T) {
	enc, err := NewFrameEncoder[int32](frame.WithCodec(format.TypeBinaryPacking), frame.WithCompression(format.CompressionLZ4))
	require.NoError(t, err)
	require.NoError(t, enc.WriteSlice([]int32{1, 2, 3}))
	data, err := enc.Finish()
	require.NoError(t, err)

	h, err := frame.ParseHeader(data)
	require.NoError(t, err)
	require.Equal(t, format.TypeBinaryPacking, h.Codec)
	require.Equal(t, format.CompressionLZ4, h.Compression)
}

func TestCompressBytes(t *testing.T) {
	values := []int64{0, 1, 127, 128, 300, -1, 1 << 40}

	data, err := CompressBytes(values)
	require.NoError(t, err)
	// 1+1+1+2+2+10+6 bytes, no padding.
	require.Len(t, data, 23)
	require.Equal(t, cap(data), len(data))

	restored, err := UncompressBytes[int64](data, len(values))
	require.NoError(t, err)
	require.Equal(t, values, restored)

	_, err = UncompressBytes[int64](data[:len(data)-1], len(values))
	require.ErrorIs(t, err, errs.ErrDecodingConsistency)

	empty, err := CompressBytes[int32](nil)
	require.NoError(t, err)
	require.Empty(t, empty)
}
