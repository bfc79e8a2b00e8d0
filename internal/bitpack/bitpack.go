// Package bitpack packs fixed-width unsigned fields into 32-bit or 64-bit words.
//
// Fields are written least-significant bit first: the low bit of a value lands
// in the lowest free bit of the current word, and a field that does not fit in
// the remaining bits continues in the low bits of the next word. Words are
// manipulated arithmetically, so the layout does not depend on host byte order.
//
// Values are masked to their field width before packing. Sign and overflow bits
// above the width are discarded; restoring them is the caller's business.
package bitpack

import (
	"fmt"
	"math/bits"
	"unsafe"

	"github.com/arloliu/intpack/errs"
)

// Word is the set of storage word types.
type Word interface {
	~int32 | ~int64
}

// WordBits returns the width in bits of the word type T.
func WordBits[T Word]() int {
	var zero T
	return int(unsafe.Sizeof(zero)) * 8
}

// Mask returns a mask covering the low width bits. Width 64 or more yields all ones.
func Mask(width int) uint64 {
	if width >= 64 {
		return ^uint64(0)
	}

	return uint64(1)<<uint(width) - 1
}

// Uint returns the two's-complement bit pattern of v zero-extended to 64 bits.
func Uint[T Word](v T) uint64 {
	return uint64(v) & Mask(WordBits[T]()) //nolint:gosec
}

// Bits returns the number of significant bits in the bit pattern of v.
// Negative values always need the full word width.
func Bits[T Word](v T) int {
	return bits.Len64(Uint(v))
}

// PackedWords returns the number of words needed to hold count fields of the given width.
func PackedWords(count, width, wordBits int) int {
	return (count*width + wordBits - 1) / wordBits
}

// Writer appends fixed-width fields to a word slice.
//
// Words are overwritten, not OR-ed, so the destination may contain stale data.
// Bits below the starting offset of the first word are preserved.
type Writer[T Word] struct {
	out      []T
	pos      int
	acc      uint64
	n        int
	wordBits int
}

// NewWriter creates a Writer that starts bitOffset bits into out.
func NewWriter[T Word](out []T, bitOffset int) Writer[T] {
	w := Writer[T]{out: out, wordBits: WordBits[T]()}
	w.pos = bitOffset / w.wordBits
	w.n = bitOffset % w.wordBits
	if w.n > 0 {
		w.acc = Uint(out[w.pos]) & Mask(w.n)
	}

	return w
}

// Write appends the low width bits of v. Width must be in [0, word bits].
func (w *Writer[T]) Write(v uint64, width int) {
	if width == 0 {
		return
	}

	v &= Mask(width)
	w.acc |= v << uint(w.n)
	w.n += width
	if w.n >= w.wordBits {
		w.out[w.pos] = T(w.acc) //nolint:gosec
		w.pos++
		w.n -= w.wordBits
		// Bits of v that did not fit in the flushed word.
		w.acc = v >> uint(width-w.n)
	}
}

// Flush writes any partially filled word and returns the index just past the
// last word touched.
func (w *Writer[T]) Flush() int {
	if w.n > 0 {
		w.out[w.pos] = T(w.acc) //nolint:gosec
		w.pos++
		w.n = 0
		w.acc = 0
	}

	return w.pos
}

// Reader extracts fixed-width fields from a word slice.
type Reader[T Word] struct {
	in       []T
	pos      int
	acc      uint64
	n        int
	wordBits int
}

// NewReader creates a Reader that starts bitOffset bits into in.
func NewReader[T Word](in []T, bitOffset int) Reader[T] {
	r := Reader[T]{in: in, wordBits: WordBits[T]()}
	r.pos = bitOffset / r.wordBits
	skip := bitOffset % r.wordBits
	if skip > 0 && r.pos < len(in) {
		r.acc = Uint(in[r.pos]) >> uint(skip)
		r.n = r.wordBits - skip
		r.pos++
	}

	return r
}

// Read returns the next width-bit field. Reading past the end of the input
// returns an error wrapping errs.ErrDecodingConsistency.
func (r *Reader[T]) Read(width int) (uint64, error) {
	if width == 0 {
		return 0, nil
	}

	if r.n >= width {
		v := r.acc & Mask(width)
		r.acc >>= uint(width)
		r.n -= width

		return v, nil
	}

	if r.pos >= len(r.in) {
		return 0, fmt.Errorf("%w: bit stream ends at word %d", errs.ErrDecodingConsistency, r.pos)
	}

	next := Uint(r.in[r.pos])
	r.pos++

	v := (r.acc | next<<uint(r.n)) & Mask(width)
	used := width - r.n
	r.acc = next >> uint(used)
	r.n = r.wordBits - used

	return v, nil
}

// Words returns the number of words fetched so far, i.e. the index just past
// the last word touched.
func (r *Reader[T]) Words() int {
	return r.pos
}

// WriteAll writes each value of values at the given width.
func (w *Writer[T]) WriteAll(values []T, width int) {
	for _, v := range values {
		w.Write(Uint(v), width)
	}
}

// ReadAll fills dst with fields of the given width. The fields are
// zero-extended; no sign is restored.
func (r *Reader[T]) ReadAll(dst []T, width int) error {
	for i := range dst {
		v, err := r.Read(width)
		if err != nil {
			return err
		}
		dst[i] = T(v) //nolint:gosec
	}

	return nil
}
