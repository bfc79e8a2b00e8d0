// Package compress provides the secondary compression applied to frame payloads.
//
// Integer codecs remove the redundancy of small values; what remains is often
// still repetitive at the byte level (repeated block headers, runs of equal
// words). A frame can pass its serialized payload through one of these
// general-purpose algorithms:
//   - None: No compression (fastest, largest)
//   - Zstd: Best ratio, moderate speed
//   - S2: Balanced compression and speed
//   - LZ4: Fastest decompression, moderate ratio
//
// # Usage
//
//	codec, err := compress.CreateCodec(format.CompressionZstd)
//	if err != nil {
//	    return err
//	}
//	compressed, err := codec.Compress(payload)
//	original, err := codec.Decompress(compressed, len(payload))
//
// Decompress takes the exact decoded size, which frames store in their header,
// and never allocates more than that.
//
// # Zstd Backends
//
// Zstd uses github.com/klauspost/compress/zstd with pooled encoders and
// decoders by default. Building with the gozstd tag (and cgo) switches to
// github.com/valyala/gozstd. Both produce standard zstd frames, so data is
// interchangeable between builds.
//
// # Thread Safety
//
// All codecs are stateless values and safe for concurrent use.
package compress
