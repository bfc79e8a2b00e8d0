package compress

import (
	"fmt"

	"github.com/klauspost/compress/s2"

	"github.com/arloliu/intpack/format"
)

// S2Compressor compresses frame payloads as single S2 blocks, a faster
// extension of Snappy.
type S2Compressor struct{}

var _ Codec = (*S2Compressor)(nil)

// NewS2Compressor creates a new S2 compressor.
func NewS2Compressor() S2Compressor {
	return S2Compressor{}
}

// Compress encodes data as one S2 block. Empty input yields nil.
func (c S2Compressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return s2.Encode(nil, data), nil
}

// Decompress decodes one S2 block. The length the block declares is checked
// against rawSize before anything is allocated.
func (c S2Compressor) Decompress(data []byte, rawSize int) ([]byte, error) {
	if done, err := checkEmpty(format.CompressionS2, data, rawSize); done {
		return nil, err
	}

	declared, err := s2.DecodedLen(data)
	if err != nil {
		return nil, fmt.Errorf("s2 decompression failed: %w", err)
	}
	if declared != rawSize {
		return nil, sizeError(format.CompressionS2, declared, rawSize)
	}

	decompressed, err := s2.Decode(make([]byte, rawSize), data)
	if err != nil {
		return nil, fmt.Errorf("s2 decompression failed: %w", err)
	}

	return decompressed, nil
}
