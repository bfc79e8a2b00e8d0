// Package codec implements integer sequence codecs built around patched
// frame-of-reference (PFOR) block compression.
//
// # Codecs
//
//   - JustCopy: values stored verbatim
//   - VariableByte: 7 bits per byte, any length; the usual fallback
//   - BinaryPacking: 128-value blocks, four 32-value mini blocks, no exceptions
//   - PFOR: blocks packed at a width chosen so that at most a fixed share of
//     values become exceptions
//   - OptPFOR: blocks packed at the width minimizing the encoded size
//   - FastPFOR: OptPFOR-style blocks grouped into pages whose exceptions are
//     stored together, one packed stream per exception width
//   - Composition: a block codec for the aligned prefix plus a fallback for the tail
//
// All codecs are generic over int32 and int64. Compressed output uses the same
// word type as the input.
//
// # Cursors
//
// Every call takes a Cursor holding the input and output positions and returns
// the advanced cursor. Codecs can therefore be chained over one buffer without
// copying:
//
//	c, _ := codec.New[int32](format.TypePFOR)
//	out := make([]int32, c.MaxCompressedLength(len(values)))
//	pos, err := c.Compress(values, len(values), out, codec.Cursor{})
//	if err != nil {
//	    return err
//	}
//
//	decoded := make([]int32, len(values))
//	_, err = c.Uncompress(out, pos.Out, decoded, len(values), codec.Cursor{})
//
// Compressed data carries no length, codec identifier or version. The caller
// keeps the value count and codec configuration alongside it, or uses the frame
// package which stores them.
//
// # Output capacity
//
// MaxCompressedLength is an upper bound valid for any input. Codecs check
// capacity before writing and return errs.ErrCapacity rather than overrunning.
// Output left behind by a failed call is unspecified and must be discarded.
package codec
