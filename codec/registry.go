package codec

import (
	"fmt"

	"github.com/arloliu/intpack/errs"
	"github.com/arloliu/intpack/format"
)

// New creates a codec that accepts any input length.
//
// JustCopy and VariableByte are returned as is. Block codecs (BinaryPacking,
// PFOR, OptPFOR, FastPFOR) are wrapped in a Composition with a VariableByte
// fallback.
//
// Parameters:
//   - typ: Codec variant to build
//   - opts: Block size, exception budget, FastPFOR page size and VariableByte byte order
//
// Returns:
//   - Codec[T]: The codec
//   - error: errs.ErrInvalidCodecType for unknown types, or an invalid option
//
// Example:
//
//	c, err := codec.New[int32](format.TypeOptPFOR)
//	out := make([]int32, c.MaxCompressedLength(len(values)))
//	pos, err := c.Compress(values, len(values), out, codec.Cursor{})
//	compressed := out[:pos.Out]
func New[T Word](typ format.CodecType, opts ...Option) (Codec[T], error) {
	cfg, err := buildConfig(opts)
	if err != nil {
		return nil, err
	}

	fallback := NewVariableByte[T](cfg.engine)

	switch typ { //nolint:exhaustive
	case format.TypeJustCopy:
		return NewJustCopy[T](), nil
	case format.TypeVariableByte:
		return fallback, nil
	case format.TypeBinaryPacking:
		return NewComposition[T](NewBinaryPacking[T](), fallback), nil
	case format.TypePFOR:
		return NewComposition[T](newPFOR[T](cfg.blockSize, fixedPolicy{percent: cfg.exceptionPercent}, format.TypePFOR), fallback), nil
	case format.TypeOptPFOR:
		return NewComposition[T](newPFOR[T](cfg.blockSize, optimalPolicy{}, format.TypeOptPFOR), fallback), nil
	case format.TypeFastPFOR:
		fast, err := newFastPFOR[T](cfg)
		if err != nil {
			return nil, err
		}

		return NewComposition[T](fast, fallback), nil
	default:
		return nil, fmt.Errorf("%w: %s", errs.ErrInvalidCodecType, typ)
	}
}
