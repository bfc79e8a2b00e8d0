package codec

import (
	"fmt"
	"math/bits"

	"github.com/arloliu/intpack/errs"
	"github.com/arloliu/intpack/format"
	"github.com/arloliu/intpack/internal/bitpack"
)

const (
	// BinaryPackingBlockSize is the number of values per BinaryPacking block.
	BinaryPackingBlockSize = 128

	miniBlockSize   = 32
	miniBlocksPerBP = BinaryPackingBlockSize / miniBlockSize
)

// BinaryPacking bit-packs blocks of 128 values as four mini blocks of 32, each
// at the width of its widest value. A single header word carries the four
// widths, 8 bits each. There are no exceptions, so one large value widens its
// whole mini block.
type BinaryPacking[T Word] struct{}

var _ BlockCodec[int32] = BinaryPacking[int32]{}

// NewBinaryPacking creates a BinaryPacking codec.
func NewBinaryPacking[T Word]() BinaryPacking[T] {
	return BinaryPacking[T]{}
}

func (BinaryPacking[T]) BlockSize() int {
	return BinaryPackingBlockSize
}

// Compress packs the block-aligned prefix of length.
func (BinaryPacking[T]) Compress(in []T, length int, out []T, pos Cursor) (Cursor, error) {
	if err := checkCompressArgs(in, length, out, pos); err != nil {
		return pos, err
	}

	wordBits := bitpack.WordBits[T]()
	aligned := length - length%BinaryPackingBlockSize
	ip, op := pos.In, pos.Out

	for ; ip < pos.In+aligned; ip += BinaryPackingBlockSize {
		block := in[ip : ip+BinaryPackingBlockSize]

		var widths [miniBlocksPerBP]int
		var header uint64
		sum := 0
		for m := range widths {
			var acc uint64
			for _, v := range block[m*miniBlockSize : (m+1)*miniBlockSize] {
				acc |= bitpack.Uint(v)
			}
			widths[m] = bits.Len64(acc)
			header |= uint64(widths[m]) << uint(8*m) //nolint:gosec
			sum += widths[m]
		}

		words := 1 + bitpack.PackedWords(miniBlockSize, sum, wordBits)
		if err := checkCapacity(len(out), op, words); err != nil {
			return pos, err
		}

		out[op] = T(header) //nolint:gosec
		w := bitpack.NewWriter(out[op+1:op+words], 0)
		for m, width := range widths {
			w.WriteAll(block[m*miniBlockSize:(m+1)*miniBlockSize], width)
		}
		w.Flush()
		op += words
	}

	return Cursor{In: ip, Out: op}, nil
}

// Uncompress decodes the block-aligned part of num.
func (BinaryPacking[T]) Uncompress(in []T, length int, out []T, num int, pos Cursor) (Cursor, error) {
	aligned := num - num%BinaryPackingBlockSize
	if err := checkUncompressArgs(in, length, out, aligned, pos); err != nil {
		return pos, err
	}

	wordBits := bitpack.WordBits[T]()
	end := pos.In + length
	ip, op := pos.In, pos.Out

	for ; op < pos.Out+aligned; op += BinaryPackingBlockSize {
		if ip >= end {
			return pos, truncatedError(aligned, length)
		}
		header := bitpack.Uint(in[ip])
		ip++
		if header>>32 != 0 {
			return pos, fmt.Errorf("%w: corrupt binary packing header 0x%x", errs.ErrDecodingConsistency, header)
		}

		r := bitpack.NewReader(in[ip:end], 0)
		dst := out[op : op+BinaryPackingBlockSize]
		for m := range miniBlocksPerBP {
			width := int((header >> uint(8*m)) & 0xFF)
			if width > wordBits {
				return pos, fmt.Errorf("%w: mini block width %d exceeds %d bits",
					errs.ErrDecodingConsistency, width, wordBits)
			}
			if err := r.ReadAll(dst[m*miniBlockSize:(m+1)*miniBlockSize], width); err != nil {
				return pos, err
			}
		}
		ip += r.Words()
	}

	return Cursor{In: ip, Out: op}, nil
}

// MaxCompressedLength returns one header word plus full-width packing per block.
func (BinaryPacking[T]) MaxCompressedLength(length int) int {
	return (length / BinaryPackingBlockSize) * (1 + BinaryPackingBlockSize)
}

func (BinaryPacking[T]) MaxValueBits() int {
	return bitpack.WordBits[T]()
}

func (BinaryPacking[T]) Type() format.CodecType {
	return format.TypeBinaryPacking
}

func (BinaryPacking[T]) String() string {
	return format.TypeBinaryPacking.String()
}
