package compress

// ZstdCompressor provides Zstandard compression.
//
// Zstd gives the best ratio of the built-in algorithms and suits frames kept
// in cold storage or sent over constrained links. The implementation is
// selected at build time; see the package documentation.
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a new Zstd compressor with default settings.
//
// Example:
//
//	compressor := NewZstdCompressor()
//	compressed, err := compressor.Compress(data)
//	if err != nil {
//		return err
//	}
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}
