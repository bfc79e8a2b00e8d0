// Package delta layers differential coding on top of any integer codec.
//
// Sorted or slowly varying sequences turn into small differences, which the
// underlying codec then packs into few bits. The caller threads a base value
// through successive calls, so a long sequence can be processed in pieces.
package delta

import (
	"fmt"

	"github.com/arloliu/intpack/codec"
	"github.com/arloliu/intpack/errs"
	"github.com/arloliu/intpack/internal/bitpack"
	"github.com/arloliu/intpack/internal/options"
	"github.com/arloliu/intpack/internal/pool"
)

type config struct {
	zigzag bool
}

func (c *config) Validate() error {
	return nil
}

// Option configures a delta codec.
type Option = options.Option[*config]

// WithZigZag stores each difference zigzag encoded: 0, -1, 1, -2 become 0, 1,
// 2, 3. Use it when differences can be negative; without it a negative
// difference needs the full word width.
func WithZigZag() Option {
	return options.NoError(func(c *config) {
		c.zigzag = true
	})
}

// Codec compresses the differences between consecutive values with an inner codec.
//
// Differences wrap on overflow, so every input round-trips exactly. Like the
// inner codec, Codec is immutable and safe for concurrent use with disjoint
// buffers.
type Codec[T codec.Word] struct {
	inner  codec.Codec[T]
	zigzag bool
}

// New wraps inner with differential coding.
//
// Parameters:
//   - inner: Codec that stores the differences
//   - opts: Optional settings such as WithZigZag
//
// Returns:
//   - *Codec[T]: The delta codec
//   - error: errs.ErrInvalidArgument if inner is nil
func New[T codec.Word](inner codec.Codec[T], opts ...Option) (*Codec[T], error) {
	if inner == nil {
		return nil, fmt.Errorf("%w: nil inner codec", errs.ErrInvalidArgument)
	}

	cfg := &config{}
	if err := options.Build(cfg, opts...); err != nil {
		return nil, err
	}

	return &Codec[T]{inner: inner, zigzag: cfg.zigzag}, nil
}

// Inner returns the codec storing the differences.
func (c *Codec[T]) Inner() codec.Codec[T] {
	return c.inner
}

// Compress encodes in[pos.In : pos.In+length] as differences from base.
//
// The differences are computed into a pooled scratch slice; in is not modified.
//
// Returns:
//   - codec.Cursor: pos advanced by the values consumed and words produced
//   - T: The last consumed value, the base for the next call
//   - error: Any error from the inner codec; pos and base are returned unchanged
func (c *Codec[T]) Compress(in []T, length int, out []T, pos codec.Cursor, base T) (codec.Cursor, T, error) {
	if length < 0 || pos.In < 0 || pos.In+length > len(in) {
		return pos, base, fmt.Errorf("%w: input window [%d, %d) outside input of length %d",
			errs.ErrInvalidArgument, pos.In, pos.In+length, len(in))
	}

	diffs, cleanup := pool.GetWords[T](length)
	defer cleanup()

	prev := base
	for i, v := range in[pos.In : pos.In+length] {
		d := v - prev
		if c.zigzag {
			d = zigzag(d)
		}
		diffs[i] = d
		prev = v
	}

	next, err := c.inner.Compress(diffs, length, out, codec.Cursor{Out: pos.Out})
	if err != nil {
		return pos, base, err
	}

	consumed := next.In
	if consumed > 0 {
		base = in[pos.In+consumed-1]
	}

	return codec.Cursor{In: pos.In + consumed, Out: next.Out}, base, nil
}

// Uncompress decodes num values and restores them by prefix summing from base.
//
// Returns:
//   - codec.Cursor: pos advanced by the words consumed and values produced
//   - T: The last produced value, the base for the next call
//   - error: Any error from the inner codec; pos and base are returned unchanged
func (c *Codec[T]) Uncompress(in []T, length int, out []T, num int, pos codec.Cursor, base T) (codec.Cursor, T, error) {
	next, err := c.inner.Uncompress(in, length, out, num, pos)
	if err != nil {
		return pos, base, err
	}

	acc := base
	values := out[pos.Out:next.Out]
	for i, d := range values {
		if c.zigzag {
			d = unzigzag(d)
		}
		acc += d
		values[i] = acc
	}

	return next, acc, nil
}

// MaxCompressedLength returns the inner codec's bound.
func (c *Codec[T]) MaxCompressedLength(length int) int {
	return c.inner.MaxCompressedLength(length)
}

// MaxValueBits returns the inner codec's range.
func (c *Codec[T]) MaxValueBits() int {
	return c.inner.MaxValueBits()
}

func (c *Codec[T]) String() string {
	if c.zigzag {
		return fmt.Sprintf("Delta(ZigZag, %v)", c.inner)
	}

	return fmt.Sprintf("Delta(%v)", c.inner)
}

func zigzag[T codec.Word](v T) T {
	return (v << 1) ^ (v >> (bitpack.WordBits[T]() - 1))
}

func unzigzag[T codec.Word](v T) T {
	return T(bitpack.Uint(v)>>1) ^ -(v & 1) //nolint:gosec
}
