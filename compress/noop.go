package compress

import "github.com/arloliu/intpack/format"

// NoOpCompressor leaves payloads uncompressed.
//
// Useful when the integer codec already removed most redundancy, and as a
// baseline when measuring the other algorithms.
type NoOpCompressor struct{}

var _ Codec = (*NoOpCompressor)(nil)

// NewNoOpCompressor creates a new no-operation compressor.
func NewNoOpCompressor() NoOpCompressor {
	return NoOpCompressor{}
}

// Compress returns data itself without copying.
//
// The returned slice shares memory with the input; callers must not modify
// the input while the result is in use.
func (c NoOpCompressor) Compress(data []byte) ([]byte, error) {
	return data, nil
}

// Decompress returns data itself without copying after checking that it
// holds exactly rawSize bytes.
func (c NoOpCompressor) Decompress(data []byte, rawSize int) ([]byte, error) {
	if done, err := checkEmpty(format.CompressionNone, data, rawSize); done {
		return nil, err
	}
	if len(data) != rawSize {
		return nil, sizeError(format.CompressionNone, len(data), rawSize)
	}

	return data, nil
}
