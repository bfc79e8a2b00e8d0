package codec

import (
	"fmt"

	"github.com/arloliu/intpack/endian"
	"github.com/arloliu/intpack/errs"
	"github.com/arloliu/intpack/format"
	"github.com/arloliu/intpack/internal/bitpack"
	"github.com/arloliu/intpack/internal/pool"
)

// VariableByte stores each value in as few bytes as possible, 7 data bits per
// byte, least significant group first. The last byte of a value has its high
// bit set.
//
// The byte stream is assembled into words through the configured endian engine
// and padded with zero bytes to a whole word. Negative values use their full
// two's-complement bit pattern: 5 bytes for int32, 10 bytes for int64.
//
// VariableByte handles any input length, which makes it the usual fallback of a
// Composition. CompressBytes and UncompressBytes work on the raw byte stream
// without word padding.
type VariableByte[T Word] struct {
	engine endian.EndianEngine
}

var (
	_ Codec[int64]     = VariableByte[int64]{}
	_ ByteCodec[int32] = VariableByte[int32]{}
	_ ByteCodec[int64] = VariableByte[int64]{}
)

// NewVariableByte creates a VariableByte codec using engine to assemble bytes
// into words. A nil engine selects little-endian.
func NewVariableByte[T Word](engine endian.EndianEngine) VariableByte[T] {
	if engine == nil {
		engine = endian.GetLittleEndianEngine()
	}

	return VariableByte[T]{engine: engine}
}

func (c VariableByte[T]) byteOrder() endian.EndianEngine {
	if c.engine == nil {
		return endian.GetLittleEndianEngine()
	}

	return c.engine
}

// maxVarBytes returns the longest encoding of a single value.
func maxVarBytes[T Word]() int {
	return (bitpack.WordBits[T]() + 6) / 7
}

// putVarByte writes the encoding of u to dst, which must hold 10 bytes, and
// returns its length.
func putVarByte(dst []byte, u uint64) int {
	n := 0
	for u >= 0x80 {
		dst[n] = byte(u & 0x7F)
		u >>= 7
		n++
	}
	dst[n] = byte(u) | 0x80

	return n + 1
}

// varByteReader reassembles values from a byte stream fed one byte at a time.
type varByteReader struct {
	v        uint64
	shift    int
	wordBits int
}

func newVarByteReader[T Word]() varByteReader {
	return varByteReader{wordBits: bitpack.WordBits[T]()}
}

// feed consumes b and reports whether it completed a value.
func (r *varByteReader) feed(b byte) (uint64, bool, error) {
	if r.shift >= r.wordBits {
		return 0, false, fmt.Errorf("%w: variable byte value longer than %d bytes",
			errs.ErrDecodingConsistency, (r.wordBits+6)/7)
	}

	r.v |= uint64(b&0x7F) << uint(r.shift)
	if b&0x80 == 0 {
		r.shift += 7
		return 0, false, nil
	}

	v := r.v
	r.v, r.shift = 0, 0

	return v, true, nil
}

// Compress encodes length values. The words produced are ceil(bytes/wordBytes).
func (c VariableByte[T]) Compress(in []T, length int, out []T, pos Cursor) (Cursor, error) {
	if err := checkCompressArgs(in, length, out, pos); err != nil {
		return pos, err
	}
	if length == 0 {
		return pos, nil
	}

	buf := pool.GetScratchBuffer()
	defer pool.PutScratchBuffer(buf)
	buf.Grow(length*maxVarBytes[T]() + 8)

	var enc [10]byte
	for _, v := range in[pos.In : pos.In+length] {
		n := putVarByte(enc[:], bitpack.Uint(v))
		_, _ = buf.Write(enc[:n])
	}

	wordBytes := endian.WordBytes[T]()
	words := (buf.Len() + wordBytes - 1) / wordBytes
	if err := checkCapacity(len(out), pos.Out, words); err != nil {
		return pos, err
	}

	for buf.Len()%wordBytes != 0 {
		buf.AppendByte(0)
	}
	endian.ReadWords(c.byteOrder(), out[pos.Out:pos.Out+words], buf.Bytes())

	return pos.Advance(length, words), nil
}

// Uncompress decodes num values and consumes every word it touched.
func (c VariableByte[T]) Uncompress(in []T, length int, out []T, num int, pos Cursor) (Cursor, error) {
	if err := checkUncompressArgs(in, length, out, num, pos); err != nil {
		return pos, err
	}

	engine := c.byteOrder()
	wordBytes := endian.WordBytes[T]()
	end := pos.In + length

	var scratch [8]byte
	ip := pos.In
	byteIdx := wordBytes
	r := newVarByteReader[T]()

	for i := 0; i < num; {
		if byteIdx == wordBytes {
			if ip >= end {
				return pos, fmt.Errorf("%w: variable byte stream ends after %d of %d values",
					errs.ErrDecodingConsistency, i, num)
			}
			endian.PutWord(engine, scratch[:], in[ip])
			ip++
			byteIdx = 0
		}

		v, done, err := r.feed(scratch[byteIdx])
		if err != nil {
			return pos, fmt.Errorf("value %d: %w", i, err)
		}
		byteIdx++
		if done {
			out[pos.Out+i] = T(v) //nolint:gosec
			i++
		}
	}

	return pos.Advance(ip-pos.In, num), nil
}

// MaxCompressedLength assumes every value takes the longest encoding.
func (VariableByte[T]) MaxCompressedLength(length int) int {
	wordBytes := endian.WordBytes[T]()
	return (length*maxVarBytes[T]() + wordBytes - 1) / wordBytes
}

// CompressBytes encodes length values into out starting at byte pos.Out. The
// returned cursor advances Out by the exact number of bytes written.
func (VariableByte[T]) CompressBytes(in []T, length int, out []byte, pos Cursor) (Cursor, error) {
	if err := checkCompressArgs(in, length, out, pos); err != nil {
		return pos, err
	}

	var enc [10]byte
	op := pos.Out
	for _, v := range in[pos.In : pos.In+length] {
		n := putVarByte(enc[:], bitpack.Uint(v))
		if err := checkCapacity(len(out), op, n); err != nil {
			return pos, err
		}
		op += copy(out[op:], enc[:n])
	}

	return Cursor{In: pos.In + length, Out: op}, nil
}

// UncompressBytes decodes num values from at most length bytes of in starting
// at pos.In. The returned cursor advances In by the bytes consumed.
func (VariableByte[T]) UncompressBytes(in []byte, length int, out []T, num int, pos Cursor) (Cursor, error) {
	if err := checkUncompressArgs(in, length, out, num, pos); err != nil {
		return pos, err
	}

	end := pos.In + length
	ip := pos.In
	r := newVarByteReader[T]()

	for i := 0; i < num; {
		if ip >= end {
			return pos, fmt.Errorf("%w: variable byte stream ends after %d of %d values",
				errs.ErrDecodingConsistency, i, num)
		}

		v, done, err := r.feed(in[ip])
		if err != nil {
			return pos, fmt.Errorf("value %d: %w", i, err)
		}
		ip++
		if done {
			out[pos.Out+i] = T(v) //nolint:gosec
			i++
		}
	}

	return pos.Advance(ip-pos.In, num), nil
}

// MaxCompressedBytes assumes every value takes the longest encoding.
func (VariableByte[T]) MaxCompressedBytes(length int) int {
	return length * maxVarBytes[T]()
}

func (VariableByte[T]) MaxValueBits() int {
	return bitpack.WordBits[T]()
}

func (VariableByte[T]) Type() format.CodecType {
	return format.TypeVariableByte
}

func (VariableByte[T]) String() string {
	return format.TypeVariableByte.String()
}

func truncatedError(num, available int) error {
	return fmt.Errorf("%w: %d values requested, %d words available", errs.ErrDecodingConsistency, num, available)
}
