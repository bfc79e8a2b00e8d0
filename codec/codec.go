package codec

import (
	"fmt"

	"github.com/arloliu/intpack/errs"
	"github.com/arloliu/intpack/format"
	"github.com/arloliu/intpack/internal/bitpack"
)

// Word is the set of integer types the codecs operate on. Values and
// compressed words share the same type.
type Word = bitpack.Word

// Cursor holds the two positions threaded through every codec call: the next
// input index to read and the next output index to write.
//
// Cursors are values. A codec receives the caller's cursor and returns an
// advanced copy; it never mutates shared state. On error the returned cursor is
// the one passed in.
type Cursor struct {
	In  int
	Out int
}

// Advance returns c moved forward by consumed input elements and produced output elements.
func (c Cursor) Advance(consumed, produced int) Cursor {
	return Cursor{In: c.In + consumed, Out: c.Out + produced}
}

// Codec compresses integer sequences into words of the same type.
//
// Output buffers are allocated by the caller, sized with MaxCompressedLength.
// Codec implementations are immutable and safe for concurrent use as long as
// each call works on its own buffers.
type Codec[T Word] interface {
	// Compress encodes in[pos.In : pos.In+length] into out starting at pos.Out.
	//
	// The returned cursor advances In by the number of values consumed and Out
	// by the number of words produced. Block codecs consume only the largest
	// block-aligned prefix of length. The input slice is never modified.
	//
	// Returns an error wrapping errs.ErrCapacity if out cannot hold the result,
	// or errs.ErrInvalidArgument if the input window is out of range.
	Compress(in []T, length int, out []T, pos Cursor) (Cursor, error)

	// Uncompress decodes num values from at most length words of in starting at
	// pos.In, writing them to out starting at pos.Out.
	//
	// Block codecs decode only the block-aligned part of num. The returned cursor
	// advances In by the number of words consumed and Out by the number of values
	// produced.
	//
	// Returns an error wrapping errs.ErrDecodingConsistency if the compressed
	// data does not hold num values, or errs.ErrCapacity if out is too short.
	Uncompress(in []T, length int, out []T, num int, pos Cursor) (Cursor, error)

	// MaxCompressedLength returns an upper bound on the number of words Compress
	// produces for length input values, valid for every possible input.
	MaxCompressedLength(length int) int

	// MaxValueBits returns the widest value, in bits, the codec represents
	// exactly. Callers query this instead of checking concrete codec types.
	MaxValueBits() int

	// Type identifies the codec variant.
	Type() format.CodecType
}

// BlockCodec is a codec that only processes whole blocks of BlockSize values.
type BlockCodec[T Word] interface {
	Codec[T]

	// BlockSize returns the number of values per block.
	BlockSize() int
}

// ByteCodec is implemented by codecs that can also encode into a plain byte
// slice. Cursor positions on the byte side count bytes.
type ByteCodec[T Word] interface {
	// CompressBytes encodes in[pos.In : pos.In+length] into out starting at byte pos.Out.
	CompressBytes(in []T, length int, out []byte, pos Cursor) (Cursor, error)

	// UncompressBytes decodes num values from at most length bytes of in.
	UncompressBytes(in []byte, length int, out []T, num int, pos Cursor) (Cursor, error)

	// MaxCompressedBytes returns an upper bound on the bytes CompressBytes
	// produces for length input values.
	MaxCompressedBytes(length int) int
}

func checkCompressArgs[I, O any](in []I, length int, out []O, pos Cursor) error {
	if length < 0 || pos.In < 0 || pos.Out < 0 {
		return fmt.Errorf("%w: negative length or cursor (length=%d, in=%d, out=%d)",
			errs.ErrInvalidArgument, length, pos.In, pos.Out)
	}
	if pos.In+length > len(in) {
		return fmt.Errorf("%w: input window [%d, %d) exceeds input length %d",
			errs.ErrInvalidArgument, pos.In, pos.In+length, len(in))
	}
	if pos.Out > len(out) {
		return fmt.Errorf("%w: output cursor %d beyond output length %d", errs.ErrCapacity, pos.Out, len(out))
	}

	return nil
}

func checkUncompressArgs[I, O any](in []I, length int, out []O, num int, pos Cursor) error {
	if length < 0 || num < 0 || pos.In < 0 || pos.Out < 0 {
		return fmt.Errorf("%w: negative length or cursor (length=%d, num=%d, in=%d, out=%d)",
			errs.ErrInvalidArgument, length, num, pos.In, pos.Out)
	}
	if pos.In+length > len(in) {
		return fmt.Errorf("%w: compressed window [%d, %d) exceeds input length %d",
			errs.ErrDecodingConsistency, pos.In, pos.In+length, len(in))
	}

	return checkCapacity(len(out), pos.Out, num)
}

// checkCapacity verifies that need elements fit in an output of length outLen
// starting at outPos.
func checkCapacity(outLen, outPos, need int) error {
	if outLen-outPos < need {
		return fmt.Errorf("%w: need %d elements at offset %d, output length %d",
			errs.ErrCapacity, need, outPos, outLen)
	}

	return nil
}
