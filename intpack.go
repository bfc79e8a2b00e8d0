// Package intpack compresses sequences of 32-bit and 64-bit integers.
//
// The core is a family of patched frame-of-reference (PFOR) block codecs: each
// block of values is bit-packed at one width, and the few values wider than it
// are stored separately as exceptions. Block codecs are paired with a
// VariableByte fallback so any input length can be compressed.
//
// # Core Features
//
//   - PFOR with a fixed exception budget and OptPFOR with cost-optimal widths
//   - FastPFOR pages that store exceptions grouped by width
//   - BinaryPacking, VariableByte and JustCopy codecs behind the same interface
//   - Caller-owned buffers sized by MaxCompressedLength, no hidden allocation
//   - Delta and zigzag transforms for sorted or slowly varying sequences
//   - Self-describing frames with xxHash64 checksums and optional Zstd, S2 or
//     LZ4 payload compression
//   - Parallel frame encoding for large inputs
//
// # Basic Usage
//
// Compressing with a codec directly:
//
//	c, _ := intpack.NewDefaultCodec[int32]()
//	out := make([]int32, c.MaxCompressedLength(len(values)))
//	pos, err := c.Compress(values, len(values), out, codec.Cursor{})
//	compressed := out[:pos.Out]
//
//	restored := make([]int32, len(values))
//	_, err = c.Uncompress(compressed, len(compressed), restored, len(values), codec.Cursor{})
//
// The one-shot helpers do the buffer bookkeeping:
//
//	compressed, err := intpack.Compress(values, format.TypeOptPFOR)
//	restored, err := intpack.Uncompress(compressed, len(values), format.TypeOptPFOR)
//
// CompressBytes and UncompressBytes produce an unpadded VariableByte byte stream.
//
// Storing values in frames that remember their own length and settings:
//
//	enc, _ := intpack.NewDefaultFrameEncoder[int64]()
//	enc.WriteSlice(timestamps)
//	data, _ := enc.Finish()
//
//	timestamps, err := intpack.NewFrameDecoder[int64]().DecodeAll(data)
//
// # Package Structure
//
// This package provides convenient top-level wrappers. The codec, delta, frame
// and compress packages expose the full API.
package intpack

import (
	"context"

	"github.com/arloliu/intpack/codec"
	"github.com/arloliu/intpack/delta"
	"github.com/arloliu/intpack/format"
	"github.com/arloliu/intpack/frame"
)

var defaultFrameOptions = []frame.Option{
	frame.WithLittleEndian(),
	frame.WithCodec(format.TypeOptPFOR),
	frame.WithZigZagDelta(),
	frame.WithCompression(format.CompressionNone),
}

// NewCodec creates a codec accepting any input length.
//
// Parameters:
//   - typ: Codec variant (JustCopy, VariableByte, BinaryPacking, PFOR, OptPFOR)
//   - opts: Block size, exception budget and VariableByte byte order
//
// Returns:
//   - codec.Codec[T]: The codec
//   - error: An error if the type or options are invalid
func NewCodec[T codec.Word](typ format.CodecType, opts ...codec.Option) (codec.Codec[T], error) {
	return codec.New[T](typ, opts...)
}

// NewDefaultCodec creates an OptPFOR codec with 128-value blocks and a
// VariableByte fallback, the best general-purpose choice.
func NewDefaultCodec[T codec.Word]() (codec.Codec[T], error) {
	return codec.New[T](format.TypeOptPFOR)
}

// NewDeltaCodec creates a codec that stores zigzag encoded differences between
// consecutive values with the given codec variant.
//
// Use this for timestamps, sorted identifiers and other sequences whose
// neighbors are close to each other.
func NewDeltaCodec[T codec.Word](typ format.CodecType, opts ...codec.Option) (*delta.Codec[T], error) {
	inner, err := codec.New[T](typ, opts...)
	if err != nil {
		return nil, err
	}

	return delta.New(inner, delta.WithZigZag())
}

// Compress compresses values with a codec of the given type and returns a
// slice trimmed to the words produced.
//
// The value count is not stored; pass it to Uncompress.
func Compress[T codec.Word](values []T, typ format.CodecType, opts ...codec.Option) ([]T, error) {
	c, err := codec.New[T](typ, opts...)
	if err != nil {
		return nil, err
	}

	out := make([]T, c.MaxCompressedLength(len(values)))
	pos, err := c.Compress(values, len(values), out, codec.Cursor{})
	if err != nil {
		return nil, err
	}

	return out[:pos.Out:pos.Out], nil
}

// Uncompress restores n values from words produced by Compress with the same
// type and options.
func Uncompress[T codec.Word](words []T, n int, typ format.CodecType, opts ...codec.Option) ([]T, error) {
	c, err := codec.New[T](typ, opts...)
	if err != nil {
		return nil, err
	}

	out := make([]T, n)
	if _, err := c.Uncompress(words, len(words), out, n, codec.Cursor{}); err != nil {
		return nil, err
	}

	return out, nil
}

// CompressBytes encodes values as a VariableByte byte stream with no word
// padding.
//
// The value count is not stored; pass it to UncompressBytes.
func CompressBytes[T codec.Word](values []T) ([]byte, error) {
	c := codec.NewVariableByte[T](nil)

	out := make([]byte, c.MaxCompressedBytes(len(values)))
	pos, err := c.CompressBytes(values, len(values), out, codec.Cursor{})
	if err != nil {
		return nil, err
	}

	return out[:pos.Out:pos.Out], nil
}

// UncompressBytes restores n values from a stream produced by CompressBytes.
func UncompressBytes[T codec.Word](data []byte, n int) ([]T, error) {
	out := make([]T, n)
	if _, err := codec.NewVariableByte[T](nil).UncompressBytes(data, len(data), out, n, codec.Cursor{}); err != nil {
		return nil, err
	}

	return out, nil
}

// NewFrameEncoder creates a frame encoder with custom options.
//
// Available options:
//   - frame.WithCodec(format.TypeJustCopy|TypeVariableByte|TypeBinaryPacking|TypePFOR|TypeOptPFOR|TypeFastPFOR)
//   - frame.WithCompression(format.CompressionNone|Zstd|S2|LZ4)
//   - frame.WithBlockSize(n) / frame.WithExceptionPercent(p)
//   - frame.WithLittleEndian() / frame.WithBigEndian()
//   - frame.WithDelta() / frame.WithZigZagDelta()
func NewFrameEncoder[T codec.Word](opts ...frame.Option) (*frame.Encoder[T], error) {
	return frame.NewEncoder[T](opts...)
}

// NewDefaultFrameEncoder creates a frame encoder with recommended settings:
//   - Little-endian byte order
//   - OptPFOR codec
//   - Zigzag delta transform
//   - No secondary compression
func NewDefaultFrameEncoder[T codec.Word]() (*frame.Encoder[T], error) {
	return frame.NewEncoder[T](defaultFrameOptions...)
}

// NewFrameDecoder creates a frame decoder. Frames carry their settings, so no
// options are needed.
func NewFrameDecoder[T codec.Word]() *frame.Decoder[T] {
	return frame.NewDecoder[T]()
}

// EncodeFrames encodes values into frames of chunkSize values, using all cores.
// Without options the default frame settings apply.
func EncodeFrames[T codec.Word](ctx context.Context, values []T, chunkSize int, opts ...frame.Option) ([]byte, error) {
	if len(opts) == 0 {
		opts = defaultFrameOptions
	}

	return frame.EncodeParallel(ctx, values, chunkSize, opts...)
}
