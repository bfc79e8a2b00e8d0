package codec

import (
	"fmt"

	"github.com/arloliu/intpack/errs"
	"github.com/arloliu/intpack/format"
	"github.com/arloliu/intpack/internal/bitpack"
	"github.com/arloliu/intpack/internal/pool"
)

// FastPFORMaxBlockSize is the largest block size FastPFOR accepts. Exception
// positions and counts are stored as single bytes.
const FastPFORMaxBlockSize = 256

// fastMetaBits is the width of every field in a page's metadata stream.
const fastMetaBits = 8

// FastPFOR is a page-level patched FOR codec.
//
// Values are cut into pages of up to PageSize values, and each page into blocks
// of BlockSize values. Blocks are packed at a per-block width as in OptPFOR,
// but exceptions are not stored inline: the high bits of every exception in a
// page are grouped by their excess width and packed once per width after the
// page metadata.
//
// Page layout, in words:
//
//	metadata byte count
//	metadata bytes, 8 bits each: per block the width, the exception count and,
//	  when there are exceptions, the full width and one position per exception
//	width bitmap: bit w-1 set when exceptions with excess width w follow
//	per present width: a count word, then the excess values packed at that width
//	per block: the low bits of every value at the block width
//
// Exceptions whose excess width is one carry no stored bits; the position
// alone restores them.
type FastPFOR[T Word] struct {
	blockSize int
	pageSize  int
}

var (
	_ BlockCodec[int32] = (*FastPFOR[int32])(nil)
	_ BlockCodec[int64] = (*FastPFOR[int64])(nil)
)

// NewFastPFOR creates a FastPFOR codec.
//
// Parameters:
//   - opts: WithBlockSize (at most FastPFORMaxBlockSize) and WithPageSize (a
//     multiple of the block size)
//
// Returns:
//   - *FastPFOR[T]: The codec
//   - error: errs.ErrInvalidBlockSize or errs.ErrInvalidArgument for invalid options
func NewFastPFOR[T Word](opts ...Option) (*FastPFOR[T], error) {
	cfg, err := buildConfig(opts)
	if err != nil {
		return nil, err
	}

	return newFastPFOR[T](cfg)
}

func newFastPFOR[T Word](cfg *config) (*FastPFOR[T], error) {
	if cfg.blockSize > FastPFORMaxBlockSize {
		return nil, fmt.Errorf("%w: %d exceeds FastPFOR limit %d",
			errs.ErrInvalidBlockSize, cfg.blockSize, FastPFORMaxBlockSize)
	}
	if cfg.pageSize%cfg.blockSize != 0 {
		return nil, fmt.Errorf("%w: page size %d is not a multiple of block size %d",
			errs.ErrInvalidArgument, cfg.pageSize, cfg.blockSize)
	}

	return &FastPFOR[T]{blockSize: cfg.blockSize, pageSize: cfg.pageSize}, nil
}

func (c *FastPFOR[T]) BlockSize() int {
	return c.blockSize
}

func (c *FastPFOR[T]) PageSize() int {
	return c.pageSize
}

// fastPlan describes one block of a page.
type fastPlan struct {
	bitWidth       int
	maxBits        int
	exceptionCount int
	positions      int // offset of the block's exception positions in the metadata
}

func (p fastPlan) excessWidth() int {
	return p.maxBits - p.bitWidth
}

// plan picks the block width minimizing the estimated size in bits: the packed
// values, one metadata byte per exception and the excess bits. Widths are
// scanned from the widest down and only a strictly smaller cost replaces, so
// ties keep the wider width.
func (c *FastPFOR[T]) plan(block []T) fastPlan {
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

	p := fastPlan{bitWidth: maxBits, maxBits: maxBits}
	best := maxBits * len(block)
	exceptions := 0
	for b := maxBits - 1; b >= 0; b-- {
		exceptions += hist[b+1]
		if exceptions == len(block) {
			break
		}

		cost := exceptions*fastMetaBits + exceptions*(maxBits-b) + b*len(block) + fastMetaBits
		if maxBits-b == 1 {
			cost -= exceptions
		}
		if cost < best {
			best = cost
			p.bitWidth = b
			p.exceptionCount = exceptions
		}
	}

	return p
}

// Compress encodes the block-aligned prefix of length, page by page.
func (c *FastPFOR[T]) Compress(in []T, length int, out []T, pos Cursor) (Cursor, error) {
	if err := checkCompressArgs(in, length, out, pos); err != nil {
		return pos, err
	}

	aligned := length - length%c.blockSize
	end := pos.In + aligned
	ip, op := pos.In, pos.Out
	plans := make([]fastPlan, min(c.pageSize, aligned)/c.blockSize)

	for ip < end {
		n := min(c.pageSize, end-ip)
		next, err := c.encodePage(in[ip:ip+n], out, op, plans[:n/c.blockSize])
		if err != nil {
			return pos, err
		}
		ip += n
		op = next
	}

	return Cursor{In: ip, Out: op}, nil
}

func (c *FastPFOR[T]) encodePage(page []T, out []T, op int, plans []fastPlan) (int, error) {
	wordBits := bitpack.WordBits[T]()

	var counts [65]int
	metaBytes := 0
	for i := range plans {
		p := c.plan(page[i*c.blockSize : (i+1)*c.blockSize])
		metaBytes += 2
		if p.exceptionCount > 0 {
			metaBytes++
			p.positions = metaBytes
			metaBytes += p.exceptionCount
			counts[p.excessWidth()] += p.exceptionCount
		}
		plans[i] = p
	}

	metaWords := bitpack.PackedWords(metaBytes, fastMetaBits, wordBits)
	words := 2 + metaWords
	var bitmap uint64
	var offsets [65]int
	stored := 0
	for w := 2; w <= wordBits; w++ {
		if counts[w] == 0 {
			continue
		}
		bitmap |= 1 << uint(w-1)
		offsets[w] = stored
		stored += counts[w]
		words += 1 + bitpack.PackedWords(counts[w], w, wordBits)
	}
	for _, p := range plans {
		words += bitpack.PackedWords(c.blockSize, p.bitWidth, wordBits)
	}
	if err := checkCapacity(len(out), op, words); err != nil {
		return 0, err
	}

	excess, release := pool.GetWords[T](stored)
	defer release()

	out[op] = T(metaBytes) //nolint:gosec
	op++
	meta := bitpack.NewWriter(out[op:op+metaWords], 0)
	var fill [65]int
	for i, p := range plans {
		meta.Write(uint64(p.bitWidth), fastMetaBits)      //nolint:gosec
		meta.Write(uint64(p.exceptionCount), fastMetaBits) //nolint:gosec
		if p.exceptionCount == 0 {
			continue
		}
		meta.Write(uint64(p.maxBits), fastMetaBits) //nolint:gosec

		w := p.excessWidth()
		for j, v := range page[i*c.blockSize : (i+1)*c.blockSize] {
			if bitpack.Bits(v) <= p.bitWidth {
				continue
			}
			meta.Write(uint64(j), fastMetaBits) //nolint:gosec
			if w > 1 {
				excess[offsets[w]+fill[w]] = T(bitpack.Uint(v) >> uint(p.bitWidth)) //nolint:gosec
				fill[w]++
			}
		}
	}
	meta.Flush()
	op += metaWords

	out[op] = T(bitmap) //nolint:gosec
	op++
	for w := 2; w <= wordBits; w++ {
		if counts[w] == 0 {
			continue
		}
		out[op] = T(counts[w]) //nolint:gosec
		op++
		n := bitpack.PackedWords(counts[w], w, wordBits)
		bw := bitpack.NewWriter(out[op:op+n], 0)
		bw.WriteAll(excess[offsets[w]:offsets[w]+counts[w]], w)
		bw.Flush()
		op += n
	}

	for i, p := range plans {
		n := bitpack.PackedWords(c.blockSize, p.bitWidth, wordBits)
		bw := bitpack.NewWriter(out[op:op+n], 0)
		bw.WriteAll(page[i*c.blockSize:(i+1)*c.blockSize], p.bitWidth)
		bw.Flush()
		op += n
	}

	return op, nil
}

// Uncompress decodes the block-aligned part of num, page by page.
func (c *FastPFOR[T]) Uncompress(in []T, length int, out []T, num int, pos Cursor) (Cursor, error) {
	aligned := num - num%c.blockSize
	if err := checkUncompressArgs(in, length, out, aligned, pos); err != nil {
		return pos, err
	}

	end := pos.In + length
	ip, op := pos.In, pos.Out
	plans := make([]fastPlan, min(c.pageSize, aligned)/c.blockSize)

	for op < pos.Out+aligned {
		n := min(c.pageSize, pos.Out+aligned-op)
		next, err := c.decodePage(in[:end], ip, out[op:op+n], plans[:n/c.blockSize])
		if err != nil {
			return pos, err
		}
		ip = next
		op += n
	}

	return Cursor{In: ip, Out: op}, nil
}

// decodePage decodes one page starting at in[ip] and returns the index past it.
func (c *FastPFOR[T]) decodePage(in []T, ip int, page []T, plans []fastPlan) (int, error) {
	wordBits := bitpack.WordBits[T]()
	if ip >= len(in) {
		return 0, fmt.Errorf("%w: missing page header", errs.ErrDecodingConsistency)
	}

	metaBytes := bitpack.Uint(in[ip])
	ip++
	if metaBytes < uint64(2*len(plans)) || metaBytes > uint64(len(plans)*(c.blockSize+2)) { //nolint:gosec
		return 0, fmt.Errorf("%w: %d metadata bytes for %d blocks", errs.ErrDecodingConsistency, metaBytes, len(plans))
	}
	metaWords := bitpack.PackedWords(int(metaBytes), fastMetaBits, wordBits) //nolint:gosec
	if ip+metaWords > len(in) {
		return 0, fmt.Errorf("%w: page metadata", errs.ErrDecodingConsistency)
	}

	buf := pool.GetScratchBuffer()
	defer pool.PutScratchBuffer(buf)
	mr := bitpack.NewReader(in[ip:ip+metaWords], 0)
	for range metaBytes {
		b, err := mr.Read(fastMetaBits)
		if err != nil {
			return 0, err
		}
		buf.AppendByte(byte(b))
	}
	ip += metaWords

	var counts [65]int
	if err := c.parseMeta(buf.Bytes(), plans, &counts, wordBits); err != nil {
		return 0, err
	}

	if ip >= len(in) {
		return 0, fmt.Errorf("%w: missing width bitmap", errs.ErrDecodingConsistency)
	}
	bitmap := bitpack.Uint(in[ip])
	ip++

	var want uint64
	var offsets [65]int
	stored := 0
	for w := 2; w <= wordBits; w++ {
		if counts[w] > 0 {
			want |= 1 << uint(w-1)
			offsets[w] = stored
			stored += counts[w]
		}
	}
	if bitmap != want {
		return 0, fmt.Errorf("%w: width bitmap 0x%x, metadata implies 0x%x", errs.ErrDecodingConsistency, bitmap, want)
	}

	excess, release := pool.GetWords[T](stored)
	defer release()

	for w := 2; w <= wordBits; w++ {
		if counts[w] == 0 {
			continue
		}
		if ip >= len(in) {
			return 0, fmt.Errorf("%w: missing count for width %d", errs.ErrDecodingConsistency, w)
		}
		if n := bitpack.Uint(in[ip]); n != uint64(counts[w]) { //nolint:gosec
			return 0, fmt.Errorf("%w: %d exceptions of width %d, metadata implies %d",
				errs.ErrDecodingConsistency, n, w, counts[w])
		}
		ip++

		r := bitpack.NewReader(in[ip:], 0)
		if err := r.ReadAll(excess[offsets[w]:offsets[w]+counts[w]], w); err != nil {
			return 0, err
		}
		ip += r.Words()
	}

	meta := buf.Bytes()
	var fill [65]int
	for i, p := range plans {
		dst := page[i*c.blockSize : (i+1)*c.blockSize]
		r := bitpack.NewReader(in[ip:], 0)
		if err := r.ReadAll(dst, p.bitWidth); err != nil {
			return 0, err
		}
		ip += r.Words()

		w := p.excessWidth()
		for _, at := range meta[p.positions : p.positions+p.exceptionCount] {
			high := uint64(1)
			if w > 1 {
				high = bitpack.Uint(excess[offsets[w]+fill[w]])
				fill[w]++
			}
			dst[at] = T(bitpack.Uint(dst[at]) | high<<uint(p.bitWidth)) //nolint:gosec
		}
	}

	return ip, nil
}

// parseMeta fills plans from the metadata bytes and counts the exceptions per
// excess width.
func (c *FastPFOR[T]) parseMeta(meta []byte, plans []fastPlan, counts *[65]int, wordBits int) error {
	at := 0
	next := func() (int, error) {
		if at >= len(meta) {
			return 0, fmt.Errorf("%w: page metadata ends at byte %d", errs.ErrDecodingConsistency, at)
		}
		v := int(meta[at])
		at++

		return v, nil
	}

	for i := range plans {
		b, err := next()
		if err != nil {
			return err
		}
		k, err := next()
		if err != nil {
			return err
		}
		if b > wordBits || k >= c.blockSize {
			return fmt.Errorf("%w: block %d has width %d and %d exceptions", errs.ErrDecodingConsistency, i, b, k)
		}

		p := fastPlan{bitWidth: b, maxBits: b, exceptionCount: k}
		if k > 0 {
			if p.maxBits, err = next(); err != nil {
				return err
			}
			if p.maxBits <= b || p.maxBits > wordBits {
				return fmt.Errorf("%w: block %d full width %d invalid for width %d",
					errs.ErrDecodingConsistency, i, p.maxBits, b)
			}
			if at+k > len(meta) {
				return fmt.Errorf("%w: block %d exception positions cut short", errs.ErrDecodingConsistency, i)
			}
			for _, position := range meta[at : at+k] {
				if int(position) >= c.blockSize {
					return fmt.Errorf("%w: exception position %d outside block of %d",
						errs.ErrDecodingConsistency, position, c.blockSize)
				}
			}
			p.positions = at
			at += k
			counts[p.excessWidth()] += k
		}
		plans[i] = p
	}

	if at != len(meta) {
		return fmt.Errorf("%w: %d trailing metadata bytes", errs.ErrDecodingConsistency, len(meta)-at)
	}

	return nil
}

// MaxCompressedLength bounds each page by its header words, the metadata for
// every block holding blockSize-1 exceptions, one count word and one rounding
// word per exception width, and one word of rounding per block on top of
// full-width packing.
func (c *FastPFOR[T]) MaxCompressedLength(length int) int {
	aligned := length - length%c.blockSize
	bound := (aligned / c.pageSize) * c.pageBound(c.pageSize/c.blockSize)
	if rest := aligned % c.pageSize; rest > 0 {
		bound += c.pageBound(rest / c.blockSize)
	}

	return bound
}

func (c *FastPFOR[T]) pageBound(blocks int) int {
	wordBits := bitpack.WordBits[T]()
	meta := bitpack.PackedWords(blocks*(c.blockSize+2), fastMetaBits, wordBits)

	return 2 + meta + 2*wordBits + blocks*(c.blockSize+1)
}

func (c *FastPFOR[T]) MaxValueBits() int {
	return bitpack.WordBits[T]()
}

func (c *FastPFOR[T]) Type() format.CodecType {
	return format.TypeFastPFOR
}

func (c *FastPFOR[T]) String() string {
	return fmt.Sprintf("%s(%d/%d)", format.TypeFastPFOR, c.blockSize, c.pageSize)
}
