package compress

import (
	"errors"
	"fmt"
	"sync"

	"github.com/pierrec/lz4/v4"

	"github.com/arloliu/intpack/errs"
	"github.com/arloliu/intpack/format"
)

// lz4.Compressor keeps a hash table that is expensive to allocate per call.
var lz4CompressorPool = sync.Pool{
	New: func() any {
		return &lz4.Compressor{}
	},
}

// LZ4Compressor compresses frame payloads as single LZ4 blocks.
//
// A block does not record its decoded length; Decompress relies on the raw
// size from the frame header and decodes into a buffer of exactly that size.
type LZ4Compressor struct{}

var _ Codec = (*LZ4Compressor)(nil)

// NewLZ4Compressor creates a new LZ4 compressor.
func NewLZ4Compressor() LZ4Compressor {
	return LZ4Compressor{}
}

// Compress encodes data as one LZ4 block using a pooled lz4.Compressor.
// Empty input yields nil.
func (c LZ4Compressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	dst := make([]byte, lz4.CompressBlockBound(len(data)))

	lc, _ := lz4CompressorPool.Get().(*lz4.Compressor)
	defer lz4CompressorPool.Put(lc)

	n, err := lc.CompressBlock(data, dst)
	if err != nil {
		return nil, fmt.Errorf("lz4 compression failed: %w", err)
	}

	return dst[:n], nil
}

// Decompress decodes one LZ4 block into a buffer of rawSize bytes.
//
// Returns:
//   - []byte: Decompressed data (nil if rawSize is zero)
//   - error: errs.ErrDecodingConsistency if the block decodes to more or fewer
//     than rawSize bytes, or a decoding error
func (c LZ4Compressor) Decompress(data []byte, rawSize int) ([]byte, error) {
	if done, err := checkEmpty(format.CompressionLZ4, data, rawSize); done {
		return nil, err
	}

	buf := make([]byte, rawSize)
	n, err := lz4.UncompressBlock(data, buf)
	if errors.Is(err, lz4.ErrInvalidSourceShortBuffer) {
		// lz4 reports corrupt blocks and blocks longer than buf alike.
		return nil, fmt.Errorf("%w: lz4 block is corrupt or decodes past %d bytes: %w",
			errs.ErrDecodingConsistency, rawSize, err)
	}
	if err != nil {
		return nil, fmt.Errorf("lz4 decompression failed: %w", err)
	}
	if n != rawSize {
		return nil, sizeError(format.CompressionLZ4, n, rawSize)
	}

	return buf, nil
}
