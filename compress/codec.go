package compress

import (
	"fmt"

	"github.com/arloliu/intpack/errs"
	"github.com/arloliu/intpack/format"
)

// Compressor compresses a serialized frame payload.
//
// Memory management:
//   - The returned slice is owned by the caller
//   - The input slice is not modified
//   - Internal encoders may be pooled and reused
type Compressor interface {
	Compress(data []byte) ([]byte, error)
}

// Decompressor restores a payload produced by the matching Compressor.
//
// rawSize is the exact decoded size, which frames record in their header. No
// more than rawSize bytes are allocated; a payload decoding to any other size
// returns errs.ErrDecodingConsistency. Corrupted input or input produced by
// another algorithm returns an error. Implementations are safe for concurrent
// use.
type Decompressor interface {
	Decompress(data []byte, rawSize int) ([]byte, error)
}

// Codec combines both directions of one algorithm.
type Codec interface {
	Compressor
	Decompressor
}

// CompressionStats summarizes the effect of secondary compression on the
// payloads of one or more frames.
type CompressionStats struct {
	// Algorithm identifies the compression algorithm used
	Algorithm format.CompressionType

	// OriginalSize is the payload size in bytes before compression
	OriginalSize int64

	// CompressedSize is the payload size in bytes after compression
	CompressedSize int64
}

// Add accumulates one payload's sizes.
func (s *CompressionStats) Add(original, compressed int) {
	s.OriginalSize += int64(original)
	s.CompressedSize += int64(compressed)
}

// CompressionRatio returns compressed size / original size.
//
// Returns:
//   - float64: Compression ratio (0.0 if original size is zero)
func (s CompressionStats) CompressionRatio() float64 {
	if s.OriginalSize == 0 {
		return 0.0
	}

	return float64(s.CompressedSize) / float64(s.OriginalSize)
}

// SpaceSavings returns the space savings as a percentage (0-100%).
func (s CompressionStats) SpaceSavings() float64 {
	return (1.0 - s.CompressionRatio()) * 100.0
}

// checkEmpty handles payloads with no bytes or no decoded bytes, which every
// algorithm treats alike. done reports whether the caller should return.
func checkEmpty(algorithm format.CompressionType, data []byte, rawSize int) (done bool, err error) {
	switch {
	case rawSize < 0:
		return true, fmt.Errorf("%w: negative raw size %d", errs.ErrInvalidArgument, rawSize)
	case len(data) == 0 && rawSize == 0:
		return true, nil
	case len(data) == 0:
		return true, sizeError(algorithm, 0, rawSize)
	}

	return false, nil
}

func sizeError(algorithm format.CompressionType, got, want int) error {
	return fmt.Errorf("%w: %s payload decodes to %d bytes, expected %d",
		errs.ErrDecodingConsistency, algorithm, got, want)
}

// CreateCodec creates a Codec for the specified compression type.
//
// Parameters:
//   - compressionType: Type of compression (None, Zstd, S2, or LZ4)
//
// Returns:
//   - Codec: Codec instance for the specified type
//   - error: errs.ErrInvalidCompression for unknown types
func CreateCodec(compressionType format.CompressionType) (Codec, error) {
	switch compressionType {
	case format.CompressionNone:
		return NewNoOpCompressor(), nil
	case format.CompressionZstd:
		return NewZstdCompressor(), nil
	case format.CompressionS2:
		return NewS2Compressor(), nil
	case format.CompressionLZ4:
		return NewLZ4Compressor(), nil
	default:
		return nil, fmt.Errorf("%w: %s", errs.ErrInvalidCompression, compressionType)
	}
}

var builtinCodecs = map[format.CompressionType]Codec{
	format.CompressionNone: NewNoOpCompressor(),
	format.CompressionZstd: NewZstdCompressor(),
	format.CompressionS2:   NewS2Compressor(),
	format.CompressionLZ4:  NewLZ4Compressor(),
}

// GetCodec retrieves the shared built-in Codec for the specified compression type.
func GetCodec(compressionType format.CompressionType) (Codec, error) {
	if codec, ok := builtinCodecs[compressionType]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("%w: %s", errs.ErrInvalidCompression, compressionType)
}
