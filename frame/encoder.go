package frame

import (
	"fmt"
	"math"

	"github.com/arloliu/intpack/codec"
	"github.com/arloliu/intpack/compress"
	"github.com/arloliu/intpack/endian"
	"github.com/arloliu/intpack/errs"
	"github.com/arloliu/intpack/internal/bitpack"
	"github.com/arloliu/intpack/internal/options"
	"github.com/arloliu/intpack/internal/pool"
)

// Encoder accumulates values and encodes them into self-describing frames.
//
// Values are buffered by Write and WriteSlice and only encoded when Flush or
// Finish is called; each Flush produces exactly one frame holding every value
// buffered since the previous Flush. Frames are appended back to back.
//
// Note: The Encoder is NOT thread-safe. Use one encoder per goroutine, or
// EncodeParallel.
type Encoder[T codec.Word] struct {
	cfg      *config
	pipe     *pipeline[T]
	pending  []T
	buf      *pool.ByteBuffer
	frames   int
	stats    compress.CompressionStats
	finished bool
}

// NewEncoder creates an Encoder.
//
// Parameters:
//   - opts: Codec, compression, block size, byte order and delta settings
//
// Returns:
//   - *Encoder[T]: New encoder instance
//   - error: Configuration error if invalid options are provided
//
// Example:
//
//	enc, err := frame.NewEncoder[int64](
//	    frame.WithCodec(format.TypeOptPFOR),
//	    frame.WithCompression(format.CompressionZstd),
//	    frame.WithZigZagDelta(),
//	)
//	enc.WriteSlice(values)
//	data, err := enc.Finish()
func NewEncoder[T codec.Word](opts ...Option) (*Encoder[T], error) {
	cfg := newConfig()
	if err := options.Build(cfg, opts...); err != nil {
		return nil, err
	}

	pipe, err := newPipeline[T](cfg.codecType, cfg.compression, cfg.flags(), cfg.codecOptions())
	if err != nil {
		return nil, err
	}

	return &Encoder[T]{
		cfg:   cfg,
		pipe:  pipe,
		buf:   pool.GetFrameBuffer(),
		stats: compress.CompressionStats{Algorithm: cfg.compression},
	}, nil
}

// Write buffers a single value.
func (e *Encoder[T]) Write(v T) error {
	if e.finished {
		return errs.ErrEncoderFinished
	}
	e.pending = append(e.pending, v)

	return nil
}

// WriteSlice buffers all values. The slice is copied.
func (e *Encoder[T]) WriteSlice(values []T) error {
	if e.finished {
		return errs.ErrEncoderFinished
	}
	e.pending = append(e.pending, values...)

	return nil
}

// Len returns the number of buffered values not yet flushed.
func (e *Encoder[T]) Len() int {
	return len(e.pending)
}

// Flush encodes the buffered values into one frame. It does nothing when no
// values are buffered.
func (e *Encoder[T]) Flush() error {
	if e.finished {
		return errs.ErrEncoderFinished
	}
	if len(e.pending) == 0 {
		return nil
	}

	if err := e.appendFrame(e.pending); err != nil {
		return err
	}
	e.pending = e.pending[:0]
	e.frames++

	return nil
}

func (e *Encoder[T]) appendFrame(values []T) error {
	if uint64(len(values)) > math.MaxUint32 {
		return fmt.Errorf("%w: %d values exceed frame limit", errs.ErrInvalidArgument, len(values))
	}

	words, cleanup := pool.GetWords[T](e.pipe.codec.MaxCompressedLength(len(values)))
	defer cleanup()

	n, err := e.pipe.encode(values, words)
	if err != nil {
		return fmt.Errorf("failed to encode %d values: %w", len(values), err)
	}

	raw := pool.GetScratchBuffer()
	defer pool.PutScratchBuffer(raw)
	raw.B = endian.AppendWords(e.pipe.engine, raw.B, words[:n])

	payload, err := e.pipe.comp.Compress(raw.Bytes())
	if err != nil {
		return fmt.Errorf("failed to compress payload with %s: %w", e.cfg.compression, err)
	}
	if uint64(len(payload)) > math.MaxUint32 {
		return fmt.Errorf("%w: payload of %d bytes exceeds frame limit", errs.ErrInvalidArgument, len(payload))
	}

	h := Header{
		Codec:       e.cfg.codecType,
		Compression: e.cfg.compression,
		WordBits:    uint8(bitpack.WordBits[T]()), //nolint:gosec
		Flags:       e.cfg.flags(),
		BlockSize:   e.cfg.blockSize,
		Count:       uint32(len(values)),  //nolint:gosec
		WordCount:   uint32(n),            //nolint:gosec
		PayloadLen:  uint32(len(payload)), //nolint:gosec
	}

	var hdr [HeaderSize]byte
	h.put(hdr[:])
	h.Checksum = sum(hdr[:], payload)
	h.put(hdr[:])

	e.buf.Grow(HeaderSize + len(payload))
	_, _ = e.buf.Write(hdr[:])
	_, _ = e.buf.Write(payload)
	e.stats.Add(raw.Len(), len(payload))

	return nil
}

// Bytes returns the frames flushed so far. Buffered values are not included.
// The slice is only valid until the next call on the encoder.
func (e *Encoder[T]) Bytes() []byte {
	if e.buf == nil {
		return nil
	}

	return e.buf.Bytes()
}

// Size returns the number of bytes flushed so far.
func (e *Encoder[T]) Size() int {
	if e.buf == nil {
		return 0
	}

	return e.buf.Len()
}

// Frames returns the number of frames flushed so far.
func (e *Encoder[T]) Frames() int {
	return e.frames
}

// Stats returns the payload sizes before and after secondary compression,
// accumulated over every flushed frame.
func (e *Encoder[T]) Stats() compress.CompressionStats {
	return e.stats
}

// Reset discards buffered values and flushed frames. A finished encoder
// becomes usable again.
func (e *Encoder[T]) Reset() {
	e.pending = e.pending[:0]
	e.frames = 0
	e.stats = compress.CompressionStats{Algorithm: e.cfg.compression}
	if e.buf == nil {
		e.buf = pool.GetFrameBuffer()
	} else {
		e.buf.Reset()
	}
	e.finished = false
}

// Finish flushes the buffered values and returns all frames.
//
// The returned slice is owned by the caller. The encoder's buffer goes back to
// the pool; further writes return errs.ErrEncoderFinished until Reset.
func (e *Encoder[T]) Finish() ([]byte, error) {
	if e.finished {
		return nil, errs.ErrEncoderFinished
	}
	if err := e.Flush(); err != nil {
		return nil, err
	}

	data := make([]byte, e.buf.Len())
	copy(data, e.buf.Bytes())

	pool.PutFrameBuffer(e.buf)
	e.buf = nil
	e.pending = nil
	e.finished = true

	return data, nil
}
