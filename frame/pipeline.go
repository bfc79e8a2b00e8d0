package frame

import (
	"github.com/arloliu/intpack/codec"
	"github.com/arloliu/intpack/compress"
	"github.com/arloliu/intpack/delta"
	"github.com/arloliu/intpack/endian"
	"github.com/arloliu/intpack/format"
)

// pipeline is the chain values go through on their way into a payload:
// optional delta transform, integer codec, word serialization, secondary
// compression. Encoder and Decoder build the same pipeline from options and
// from a parsed header respectively.
type pipeline[T codec.Word] struct {
	codec  codec.Codec[T]
	delta  *delta.Codec[T]
	comp   compress.Codec
	engine endian.EndianEngine
}

func newPipeline[T codec.Word](
	typ format.CodecType,
	comp format.CompressionType,
	flags uint8,
	opts []codec.Option,
) (*pipeline[T], error) {
	c, err := codec.New[T](typ, opts...)
	if err != nil {
		return nil, err
	}

	cc, err := compress.GetCodec(comp)
	if err != nil {
		return nil, err
	}

	p := &pipeline[T]{codec: c, comp: cc, engine: endian.GetLittleEndianEngine()}
	if flags&FlagBigEndian != 0 {
		p.engine = endian.GetBigEndianEngine()
	}

	if flags&FlagDelta != 0 {
		var dopts []delta.Option
		if flags&FlagZigZag != 0 {
			dopts = append(dopts, delta.WithZigZag())
		}
		if p.delta, err = delta.New(c, dopts...); err != nil {
			return nil, err
		}
	}

	return p, nil
}

// encode compresses values into words and returns the number of words produced.
func (p *pipeline[T]) encode(values []T, words []T) (int, error) {
	if p.delta != nil {
		pos, _, err := p.delta.Compress(values, len(values), words, codec.Cursor{}, 0)
		return pos.Out, err
	}

	pos, err := p.codec.Compress(values, len(values), words, codec.Cursor{})

	return pos.Out, err
}

// decode fills values from words.
func (p *pipeline[T]) decode(words []T, values []T) (codec.Cursor, error) {
	if p.delta != nil {
		pos, _, err := p.delta.Uncompress(words, len(words), values, len(values), codec.Cursor{}, 0)
		return pos, err
	}

	return p.codec.Uncompress(words, len(words), values, len(values), codec.Cursor{})
}
