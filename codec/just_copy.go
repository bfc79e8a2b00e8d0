package codec

import (
	"github.com/arloliu/intpack/format"
	"github.com/arloliu/intpack/internal/bitpack"
)

// JustCopy stores values verbatim. It is mostly useful as a baseline and as a
// fallback whose output size is exactly its input size.
type JustCopy[T Word] struct{}

var _ Codec[int32] = JustCopy[int32]{}

// NewJustCopy creates a JustCopy codec.
func NewJustCopy[T Word]() JustCopy[T] {
	return JustCopy[T]{}
}

// Compress copies length values to out.
func (JustCopy[T]) Compress(in []T, length int, out []T, pos Cursor) (Cursor, error) {
	if err := checkCompressArgs(in, length, out, pos); err != nil {
		return pos, err
	}
	if err := checkCapacity(len(out), pos.Out, length); err != nil {
		return pos, err
	}

	copy(out[pos.Out:], in[pos.In:pos.In+length])

	return pos.Advance(length, length), nil
}

// Uncompress copies num values to out. length must be at least num.
func (JustCopy[T]) Uncompress(in []T, length int, out []T, num int, pos Cursor) (Cursor, error) {
	if err := checkUncompressArgs(in, length, out, num, pos); err != nil {
		return pos, err
	}
	if num > length {
		return pos, truncatedError(num, length)
	}

	copy(out[pos.Out:], in[pos.In:pos.In+num])

	return pos.Advance(num, num), nil
}

// MaxCompressedLength returns length.
func (JustCopy[T]) MaxCompressedLength(length int) int {
	return length
}

func (JustCopy[T]) MaxValueBits() int {
	return bitpack.WordBits[T]()
}

func (JustCopy[T]) Type() format.CodecType {
	return format.TypeJustCopy
}

func (JustCopy[T]) String() string {
	return format.TypeJustCopy.String()
}
