// Package format defines the enumerations shared across intpack packages.
package format

type (
	CodecType       uint8
	CompressionType uint8
)

const (
	TypeJustCopy      CodecType = 0x1 // TypeJustCopy stores values verbatim.
	TypeVariableByte  CodecType = 0x2 // TypeVariableByte stores 7 bits per byte.
	TypeBinaryPacking CodecType = 0x3 // TypeBinaryPacking bit-packs 32-value mini blocks.
	TypePFOR          CodecType = 0x4 // TypePFOR is patched FOR with a fixed exception budget.
	TypeOptPFOR       CodecType = 0x5 // TypeOptPFOR is patched FOR with cost-optimal bit widths.
	TypeComposition   CodecType = 0x6 // TypeComposition marks a block codec paired with a fallback.
	TypeFastPFOR      CodecType = 0x7 // TypeFastPFOR is page-level patched FOR with exceptions grouped by width.

	CompressionNone CompressionType = 0x1 // CompressionNone represents no compression.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2   CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents LZ4 compression.
)

// IsBlock reports whether codecs of this type only process whole blocks and
// therefore need a fallback for unaligned tails.
func (c CodecType) IsBlock() bool {
	switch c { //nolint: exhaustive
	case TypeBinaryPacking, TypePFOR, TypeOptPFOR, TypeFastPFOR:
		return true
	default:
		return false
	}
}

// Valid reports whether c is a known codec type.
func (c CodecType) Valid() bool {
	return c >= TypeJustCopy && c <= TypeFastPFOR
}

func (c CodecType) String() string {
	switch c {
	case TypeJustCopy:
		return "JustCopy"
	case TypeVariableByte:
		return "VariableByte"
	case TypeBinaryPacking:
		return "BinaryPacking"
	case TypePFOR:
		return "PFOR"
	case TypeOptPFOR:
		return "OptPFOR"
	case TypeComposition:
		return "Composition"
	case TypeFastPFOR:
		return "FastPFOR"
	default:
		return "Unknown"
	}
}

// Valid reports whether c is a known compression type.
func (c CompressionType) Valid() bool {
	return c >= CompressionNone && c <= CompressionLZ4
}

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}
