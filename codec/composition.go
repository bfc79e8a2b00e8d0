package codec

import (
	"fmt"

	"github.com/arloliu/intpack/errs"
	"github.com/arloliu/intpack/format"
)

// Composition makes a block codec usable for any input length.
//
// The block-aligned prefix of the input goes to the primary codec and the
// remaining length%BlockSize values to the fallback. Both outputs are written
// back to back with no separator: Uncompress recomputes the same split from the
// number of values requested, so the caller must supply the original length.
type Composition[T Word] struct {
	primary  BlockCodec[T]
	fallback Codec[T]
}

var _ Codec[int32] = (*Composition[int32])(nil)

// NewComposition pairs a block codec with a fallback for unaligned tails.
func NewComposition[T Word](primary BlockCodec[T], fallback Codec[T]) *Composition[T] {
	return &Composition[T]{primary: primary, fallback: fallback}
}

// Primary returns the block codec.
func (c *Composition[T]) Primary() BlockCodec[T] {
	return c.primary
}

// Fallback returns the codec handling unaligned tails.
func (c *Composition[T]) Fallback() Codec[T] {
	return c.fallback
}

// Compress encodes length values: whole blocks with the primary codec, the
// tail with the fallback, starting exactly where the primary stopped.
func (c *Composition[T]) Compress(in []T, length int, out []T, pos Cursor) (Cursor, error) {
	if err := checkCompressArgs(in, length, out, pos); err != nil {
		return pos, err
	}

	aligned := length - length%c.primary.BlockSize()

	next, err := c.primary.Compress(in, aligned, out, pos)
	if err != nil {
		return pos, fmt.Errorf("failed to compress %d block values with %s: %w", aligned, c.primary.Type(), err)
	}
	if next.In-pos.In != aligned {
		return pos, fmt.Errorf("%w: %s consumed %d of %d block values",
			errs.ErrInvalidArgument, c.primary.Type(), next.In-pos.In, aligned)
	}

	next, err = c.fallback.Compress(in, length-aligned, out, next)
	if err != nil {
		return pos, fmt.Errorf("failed to compress %d tail values with %s: %w", length-aligned, c.fallback.Type(), err)
	}

	return next, nil
}

// Uncompress decodes num values. The primary codec decodes the block-aligned
// part of num and the fallback continues from the primary's input cursor.
func (c *Composition[T]) Uncompress(in []T, length int, out []T, num int, pos Cursor) (Cursor, error) {
	if err := checkUncompressArgs(in, length, out, num, pos); err != nil {
		return pos, err
	}

	aligned := num - num%c.primary.BlockSize()

	next, err := c.primary.Uncompress(in, length, out, aligned, pos)
	if err != nil {
		return pos, fmt.Errorf("failed to decompress %d block values with %s: %w", aligned, c.primary.Type(), err)
	}
	if next.Out-pos.Out != aligned {
		return pos, fmt.Errorf("%w: %s produced %d of %d block values",
			errs.ErrDecodingConsistency, c.primary.Type(), next.Out-pos.Out, aligned)
	}

	next, err = c.fallback.Uncompress(in, length-(next.In-pos.In), out, num-aligned, next)
	if err != nil {
		return pos, fmt.Errorf("failed to decompress %d tail values with %s: %w", num-aligned, c.fallback.Type(), err)
	}

	return next, nil
}

// MaxCompressedLength adds both stages' bounds plus one word of slack for
// primary codecs that emit a header even for zero blocks.
func (c *Composition[T]) MaxCompressedLength(length int) int {
	aligned := length - length%c.primary.BlockSize()
	return c.primary.MaxCompressedLength(aligned) + c.fallback.MaxCompressedLength(length-aligned) + 1
}

// MaxValueBits returns the narrower of the two stages' ranges.
func (c *Composition[T]) MaxValueBits() int {
	return min(c.primary.MaxValueBits(), c.fallback.MaxValueBits())
}

func (c *Composition[T]) Type() format.CodecType {
	return format.TypeComposition
}

func (c *Composition[T]) String() string {
	return fmt.Sprintf("%s(%v+%v)", format.TypeComposition, c.primary, c.fallback)
}
