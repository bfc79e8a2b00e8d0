package codec

import (
	"fmt"
	"math/bits"

	"github.com/arloliu/intpack/errs"
	"github.com/arloliu/intpack/format"
	"github.com/arloliu/intpack/internal/bitpack"
)

// maxExceptionCount is the largest exception count a block header can store.
const maxExceptionCount = 0xFFFF

// PFOR is a patched frame-of-reference block codec.
//
// Each block of BlockSize values is packed at a single bit width chosen by the
// codec's policy. Values wider than that width are exceptions: their low bits
// stay in the packed region and their excess high bits are stored, together
// with their position, after it.
//
// Block layout, one header word followed by a bit stream rounded up to whole words:
//
//	header (low 32 bits): bitWidth[0:8] | exceptionWidth[8:16] | exceptionCount[16:32]
//	BlockSize values      @ bitWidth bits
//	exceptionCount records: position @ bits.Len(BlockSize-1), excess @ exceptionWidth
//
// An all-zero block is a single header word. A block whose values all need the
// full word width is packed at full width with no exceptions.
type PFOR[T Word] struct {
	blockSize int
	posBits   int
	policy    widthPolicy
	typ       format.CodecType
}

var (
	_ BlockCodec[int32] = (*PFOR[int32])(nil)
	_ BlockCodec[int64] = (*PFOR[int64])(nil)
)

// NewPFOR creates a PFOR codec with the fixed width policy: the smallest width
// leaving at most WithExceptionPercent (default 10%) of a block as exceptions.
func NewPFOR[T Word](opts ...Option) (*PFOR[T], error) {
	cfg, err := buildConfig(opts)
	if err != nil {
		return nil, err
	}

	return newPFOR[T](cfg.blockSize, fixedPolicy{percent: cfg.exceptionPercent}, format.TypePFOR), nil
}

// NewOptPFOR creates a PFOR codec that picks, per block, the width minimizing
// the encoded size. It is slower to encode than NewPFOR and never larger.
func NewOptPFOR[T Word](opts ...Option) (*PFOR[T], error) {
	cfg, err := buildConfig(opts)
	if err != nil {
		return nil, err
	}

	return newPFOR[T](cfg.blockSize, optimalPolicy{}, format.TypeOptPFOR), nil
}

func newPFOR[T Word](blockSize int, policy widthPolicy, typ format.CodecType) *PFOR[T] {
	return &PFOR[T]{
		blockSize: blockSize,
		posBits:   bits.Len(uint(blockSize - 1)),
		policy:    policy,
		typ:       typ,
	}
}

func (c *PFOR[T]) BlockSize() int {
	return c.blockSize
}

// blockPlan describes how one block is laid out.
type blockPlan struct {
	bitWidth       int
	exceptionWidth int
	exceptionCount int
}

func (p blockPlan) words(n, posBits, wordBits int) int {
	total := n*p.bitWidth + p.exceptionCount*(posBits+p.exceptionWidth)
	return 1 + (total+wordBits-1)/wordBits
}

func (p blockPlan) header() (uint64, error) {
	if p.exceptionCount > maxExceptionCount {
		return 0, fmt.Errorf("%w: %d exceptions exceed header limit %d",
			errs.ErrEncodingOverflow, p.exceptionCount, maxExceptionCount)
	}
	if p.bitWidth > 0xFF || p.exceptionWidth > 0xFF {
		return 0, fmt.Errorf("%w: bit widths %d/%d exceed header limit 255",
			errs.ErrEncodingOverflow, p.bitWidth, p.exceptionWidth)
	}

	return uint64(p.bitWidth) | uint64(p.exceptionWidth)<<8 | uint64(p.exceptionCount)<<16, nil //nolint:gosec
}

func parseHeader(h uint64) blockPlan {
	return blockPlan{
		bitWidth:       int(h & 0xFF),
		exceptionWidth: int((h >> 8) & 0xFF),
		exceptionCount: int((h >> 16) & 0xFFFF),
	}
}

func (c *PFOR[T]) plan(block []T) blockPlan {
	var hist [65]int
	for _, v := range block {
		hist[bitpack.Bits(v)]++
	}

	maxBits := 0
	for k := 64; k > 0; k-- {
		if hist[k] > 0 {
			maxBits = k
			break
		}
	}

	b := c.policy.selectWidth(&hist, len(block), maxBits, c.posBits)
	p := blockPlan{bitWidth: b}
	for k := b + 1; k <= maxBits; k++ {
		p.exceptionCount += hist[k]
	}
	if p.exceptionCount > 0 {
		p.exceptionWidth = maxBits - b
	}

	return p
}

// Compress encodes the block-aligned prefix of length.
func (c *PFOR[T]) Compress(in []T, length int, out []T, pos Cursor) (Cursor, error) {
	if err := checkCompressArgs(in, length, out, pos); err != nil {
		return pos, err
	}

	wordBits := bitpack.WordBits[T]()
	aligned := length - length%c.blockSize
	ip, op := pos.In, pos.Out

	for ; ip < pos.In+aligned; ip += c.blockSize {
		block := in[ip : ip+c.blockSize]
		p := c.plan(block)

		header, err := p.header()
		if err != nil {
			return pos, err
		}
		words := p.words(c.blockSize, c.posBits, wordBits)
		if err := checkCapacity(len(out), op, words); err != nil {
			return pos, err
		}

		out[op] = T(header) //nolint:gosec
		w := bitpack.NewWriter(out[op+1:op+words], 0)
		w.WriteAll(block, p.bitWidth)
		if p.exceptionCount > 0 {
			for i, v := range block {
				if bitpack.Bits(v) > p.bitWidth {
					w.Write(uint64(i), c.posBits) //nolint:gosec
					w.Write(bitpack.Uint(v)>>uint(p.bitWidth), p.exceptionWidth)
				}
			}
		}
		w.Flush()
		op += words
	}

	return Cursor{In: ip, Out: op}, nil
}

// Uncompress decodes the block-aligned part of num.
func (c *PFOR[T]) Uncompress(in []T, length int, out []T, num int, pos Cursor) (Cursor, error) {
	aligned := num - num%c.blockSize
	if err := checkUncompressArgs(in, length, out, aligned, pos); err != nil {
		return pos, err
	}

	wordBits := bitpack.WordBits[T]()
	end := pos.In + length
	ip, op := pos.In, pos.Out

	for ; op < pos.Out+aligned; op += c.blockSize {
		if ip >= end {
			return pos, truncatedError(aligned, length)
		}
		h := bitpack.Uint(in[ip])
		ip++

		p := parseHeader(h)
		if err := c.validate(h, p, wordBits); err != nil {
			return pos, err
		}

		r := bitpack.NewReader(in[ip:end], 0)
		dst := out[op : op+c.blockSize]
		if err := r.ReadAll(dst, p.bitWidth); err != nil {
			return pos, err
		}

		for range p.exceptionCount {
			at, err := r.Read(c.posBits)
			if err != nil {
				return pos, err
			}
			if at >= uint64(c.blockSize) { //nolint:gosec
				return pos, fmt.Errorf("%w: exception position %d outside block of %d",
					errs.ErrDecodingConsistency, at, c.blockSize)
			}
			excess, err := r.Read(p.exceptionWidth)
			if err != nil {
				return pos, err
			}
			dst[at] = T(bitpack.Uint(dst[at]) | excess<<uint(p.bitWidth)) //nolint:gosec
		}
		ip += r.Words()
	}

	return Cursor{In: ip, Out: op}, nil
}

func (c *PFOR[T]) validate(h uint64, p blockPlan, wordBits int) error {
	switch {
	case h>>32 != 0:
		return fmt.Errorf("%w: corrupt block header 0x%x", errs.ErrDecodingConsistency, h)
	case p.bitWidth > wordBits:
		return fmt.Errorf("%w: bit width %d exceeds %d", errs.ErrDecodingConsistency, p.bitWidth, wordBits)
	case p.exceptionCount > c.blockSize:
		return fmt.Errorf("%w: %d exceptions in block of %d", errs.ErrDecodingConsistency, p.exceptionCount, c.blockSize)
	case p.exceptionCount > 0 && (p.exceptionWidth == 0 || p.bitWidth+p.exceptionWidth > wordBits):
		return fmt.Errorf("%w: exception width %d invalid for bit width %d",
			errs.ErrDecodingConsistency, p.exceptionWidth, p.bitWidth)
	default:
		return nil
	}
}

// MaxCompressedLength bounds each block by a header word, full-width packing and
// the largest exception area the policy allows.
func (c *PFOR[T]) MaxCompressedLength(length int) int {
	wordBits := bitpack.WordBits[T]()
	blocks := length / c.blockSize
	perBlock := 1 + (c.blockSize*wordBits+c.policy.maxExceptions(c.blockSize)*c.posBits+wordBits-1)/wordBits

	return blocks * perBlock
}

func (c *PFOR[T]) MaxValueBits() int {
	return bitpack.WordBits[T]()
}

func (c *PFOR[T]) Type() format.CodecType {
	return c.typ
}

func (c *PFOR[T]) String() string {
	return fmt.Sprintf("%s(%d)", c.typ, c.blockSize)
}
