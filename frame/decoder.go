package frame

import (
	"fmt"
	"iter"

	"github.com/arloliu/intpack/codec"
	"github.com/arloliu/intpack/endian"
	"github.com/arloliu/intpack/errs"
	"github.com/arloliu/intpack/internal/bitpack"
	"github.com/arloliu/intpack/internal/pool"
)

// Decoder decodes frames produced by Encoder. Every frame carries its own
// settings, so a Decoder needs no configuration and is safe for concurrent use.
type Decoder[T codec.Word] struct{}

// NewDecoder creates a Decoder.
func NewDecoder[T codec.Word]() *Decoder[T] {
	return &Decoder[T]{}
}

// Decode decodes the frame at the start of data.
//
// Parameters:
//   - data: Bytes starting with a frame; trailing bytes are ignored
//
// Returns:
//   - []T: Decoded values
//   - int: Number of bytes the frame occupies
//   - error: errs.ErrInvalidFrame for malformed frames, errs.ErrChecksumMismatch
//     for corrupted ones, errs.ErrDecodingConsistency if the words do not decode
func (d *Decoder[T]) Decode(data []byte) ([]T, int, error) {
	h, err := ParseHeader(data)
	if err != nil {
		return nil, 0, err
	}

	wordBits := bitpack.WordBits[T]()
	if int(h.WordBits) != wordBits {
		return nil, 0, fmt.Errorf("%w: frame holds %d-bit words, decoder expects %d",
			errs.ErrInvalidFrame, h.WordBits, wordBits)
	}

	end := HeaderSize + int(h.PayloadLen)
	if len(data) < end {
		return nil, 0, fmt.Errorf("%w: payload truncated (%d of %d bytes)",
			errs.ErrInvalidFrame, len(data)-HeaderSize, h.PayloadLen)
	}
	payload := data[HeaderSize:end]
	if got := sum(data[:HeaderSize], payload); got != h.Checksum {
		return nil, 0, fmt.Errorf("%w: got 0x%016x, header says 0x%016x", errs.ErrChecksumMismatch, got, h.Checksum)
	}

	pipe, err := newPipeline[T](h.Codec, h.Compression, h.Flags, h.codecOptions())
	if err != nil {
		return nil, 0, err
	}

	raw, err := pipe.comp.Decompress(payload, int(h.WordCount)*wordBits/8)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %w", errs.ErrInvalidFrame, err)
	}

	words, cleanup := pool.GetWords[T](int(h.WordCount))
	defer cleanup()
	endian.ReadWords(pipe.engine, words, raw)

	values := make([]T, h.Count)
	pos, err := pipe.decode(words, values)
	if err != nil {
		return nil, 0, err
	}
	if pos.In != len(words) {
		return nil, 0, fmt.Errorf("%w: %d of %d words unused", errs.ErrInvalidFrame, len(words)-pos.In, len(words))
	}

	return values, end, nil
}

// DecodeAll decodes a sequence of frames and concatenates their values.
func (d *Decoder[T]) DecodeAll(data []byte) ([]T, error) {
	var out []T
	for values, err := range d.All(data) {
		if err != nil {
			return nil, err
		}
		out = append(out, values...)
	}

	return out, nil
}

// All returns an iterator over the frames in data, yielding each frame's
// values. Iteration stops after the first error.
//
// Example:
//
//	for values, err := range dec.All(data) {
//	    if err != nil {
//	        return err
//	    }
//	    process(values)
//	}
func (d *Decoder[T]) All(data []byte) iter.Seq2[[]T, error] {
	return func(yield func([]T, error) bool) {
		for len(data) > 0 {
			values, n, err := d.Decode(data)
			if err != nil {
				yield(nil, err)
				return
			}
			if !yield(values, nil) {
				return
			}
			data = data[n:]
		}
	}
}

// codecOptions rebuilds the codec settings recorded in the header. The
// exception budget only affects encoding and is not stored.
func (h Header) codecOptions() []codec.Option {
	opts := []codec.Option{codec.WithBlockSize(h.BlockSize)}
	if h.IsBigEndian() {
		opts = append(opts, codec.WithBigEndian())
	}

	return opts
}
