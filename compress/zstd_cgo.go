//go:build gozstd && cgo

package compress

import (
	"fmt"

	"github.com/klauspost/compress/zstd"
	"github.com/valyala/gozstd"

	"github.com/arloliu/intpack/errs"
	"github.com/arloliu/intpack/format"
)

// Compress compresses the input data with libzstd at level 3. Empty input
// yields nil.
func (c ZstdCompressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return gozstd.CompressLevel(nil, data, 3), nil
}

// Decompress decodes a Zstd payload with libzstd.
//
// libzstd has no output limit, so the frame must declare its content size and
// the declared size must equal rawSize before decoding starts. libzstd
// always records the size for single-shot compression.
func (c ZstdCompressor) Decompress(data []byte, rawSize int) ([]byte, error) {
	if done, err := checkEmpty(format.CompressionZstd, data, rawSize); done {
		return nil, err
	}

	var h zstd.Header
	if err := h.Decode(data); err != nil {
		return nil, fmt.Errorf("zstd decompression failed: %w", err)
	}
	if !h.HasFCS {
		return nil, fmt.Errorf("%w: zstd payload does not declare its size", errs.ErrDecodingConsistency)
	}
	if h.FrameContentSize != uint64(rawSize) { //nolint:gosec
		return nil, sizeError(format.CompressionZstd, int(h.FrameContentSize), rawSize) //nolint:gosec
	}

	decompressed, err := gozstd.Decompress(make([]byte, 0, rawSize), data)
	if err != nil {
		return nil, fmt.Errorf("zstd decompression failed: %w", err)
	}
	if len(decompressed) != rawSize {
		return nil, sizeError(format.CompressionZstd, len(decompressed), rawSize)
	}

	return decompressed, nil
}
