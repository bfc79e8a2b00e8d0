package frame

import (
	"encoding/binary"
	"fmt"

	"github.com/arloliu/intpack/codec"
	"github.com/arloliu/intpack/endian"
	"github.com/arloliu/intpack/errs"
	"github.com/arloliu/intpack/format"
	"github.com/arloliu/intpack/internal/hash"
)

const (
	// HeaderSize is the fixed size in bytes of a frame header.
	HeaderSize = 32

	// Magic identifies a frame. It is always stored little-endian.
	Magic = 0x1F50

	checksumOffset = 20
)

// Flag bits.
const (
	FlagBigEndian = 0x01 // words and header fields are big-endian
	FlagDelta     = 0x02 // values are stored as differences from their predecessor
	FlagZigZag    = 0x04 // differences are zigzag encoded, requires FlagDelta
	flagsMask     = FlagBigEndian | FlagDelta | FlagZigZag
)

// Header is the fixed-size header preceding every frame payload.
type Header struct {
	Codec       format.CodecType       // byte offset 2
	Compression format.CompressionType // byte offset 3
	WordBits    uint8                  // byte offset 4, 32 or 64
	Flags       uint8                  // byte offset 5
	BlockSize   int                    // byte offset 6-7, stored divided by 8
	Count       uint32                 // byte offset 8-11, number of values
	WordCount   uint32                 // byte offset 12-15, number of compressed words
	PayloadLen  uint32                 // byte offset 16-19, stored payload bytes
	Checksum    uint64                 // byte offset 20-27
}

// IsBigEndian reports whether the frame uses big-endian byte order.
func (h Header) IsBigEndian() bool {
	return h.Flags&FlagBigEndian != 0
}

// Engine returns the byte order of the frame.
func (h Header) Engine() endian.EndianEngine {
	if h.IsBigEndian() {
		return endian.GetBigEndianEngine()
	}

	return endian.GetLittleEndianEngine()
}

// Bytes serializes the header. The checksum field is written as is.
func (h Header) Bytes() []byte {
	b := make([]byte, HeaderSize)
	h.put(b)

	return b
}

func (h Header) put(b []byte) {
	engine := h.Engine()

	binary.LittleEndian.PutUint16(b[0:2], Magic)
	b[2] = byte(h.Codec)
	b[3] = byte(h.Compression)
	b[4] = h.WordBits
	b[5] = h.Flags
	engine.PutUint16(b[6:8], uint16(h.BlockSize/8)) //nolint:gosec
	engine.PutUint32(b[8:12], h.Count)
	engine.PutUint32(b[12:16], h.WordCount)
	engine.PutUint32(b[16:20], h.PayloadLen)
	engine.PutUint64(b[20:28], h.Checksum)
	clear(b[28:32])
}

// sum computes the checksum covering the header fields before the checksum
// and the stored payload.
func sum(headerPrefix, payload []byte) uint64 {
	d := hash.NewDigest()
	d.Write(headerPrefix[:checksumOffset])
	d.Write(payload)

	return d.Sum64()
}

// ParseHeader parses and validates a frame header.
//
// Parameters:
//   - data: Byte slice starting with a frame (at least HeaderSize bytes)
//
// Returns:
//   - Header: Parsed header
//   - error: errs.ErrInvalidFrame for short input, a bad magic number or
//     inconsistent fields
func ParseHeader(data []byte) (Header, error) {
	if len(data) < HeaderSize {
		return Header{}, fmt.Errorf("%w: %d bytes, header needs %d", errs.ErrInvalidFrame, len(data), HeaderSize)
	}
	if magic := binary.LittleEndian.Uint16(data[0:2]); magic != Magic {
		return Header{}, fmt.Errorf("%w: bad magic 0x%04x", errs.ErrInvalidFrame, magic)
	}

	h := Header{
		Codec:       format.CodecType(data[2]),
		Compression: format.CompressionType(data[3]),
		WordBits:    data[4],
		Flags:       data[5],
	}
	engine := h.Engine()
	h.BlockSize = int(engine.Uint16(data[6:8])) * 8
	h.Count = engine.Uint32(data[8:12])
	h.WordCount = engine.Uint32(data[12:16])
	h.PayloadLen = engine.Uint32(data[16:20])
	h.Checksum = engine.Uint64(data[20:28])

	if err := h.Validate(); err != nil {
		return Header{}, err
	}

	return h, nil
}

// Validate checks that the header describes a frame this package can decode.
func (h Header) Validate() error {
	switch {
	case !h.Codec.Valid() || h.Codec == format.TypeComposition:
		return fmt.Errorf("%w: codec %s", errs.ErrInvalidFrame, h.Codec)
	case !h.Compression.Valid():
		return fmt.Errorf("%w: compression %s", errs.ErrInvalidFrame, h.Compression)
	case h.WordBits != 32 && h.WordBits != 64:
		return fmt.Errorf("%w: word size %d", errs.ErrInvalidFrame, h.WordBits)
	case h.Flags&^flagsMask != 0:
		return fmt.Errorf("%w: unknown flags 0x%02x", errs.ErrInvalidFrame, h.Flags)
	case h.Flags&FlagZigZag != 0 && h.Flags&FlagDelta == 0:
		return fmt.Errorf("%w: zigzag flag without delta flag", errs.ErrInvalidFrame)
	case h.BlockSize < codec.MinBlockSize || h.BlockSize > codec.MaxBlockSize:
		return fmt.Errorf("%w: block size %d", errs.ErrInvalidFrame, h.BlockSize)
	case uint64(h.Count) > h.maxCount():
		return fmt.Errorf("%w: %d values cannot fit in %d words", errs.ErrInvalidFrame, h.Count, h.WordCount)
	default:
		return nil
	}
}

// maxCount bounds the number of values WordCount words can hold: an all-zero
// PFOR block packs BlockSize values into its header word, an all-zero FastPFOR
// block costs two metadata bytes, and a VariableByte word holds one value per
// byte.
func (h Header) maxCount() uint64 {
	perWord := max(h.BlockSize, codec.BinaryPackingBlockSize) * int(h.WordBits) / 16
	perWord = max(perWord, h.BlockSize, int(h.WordBits)/8)
	return uint64(h.WordCount) * uint64(perWord) //nolint:gosec
}
