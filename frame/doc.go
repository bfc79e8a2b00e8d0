// Package frame stores integer sequences as self-describing byte frames.
//
// The codecs in package codec produce headless word streams: the caller must
// remember the value count and the codec to decode them. A frame records both,
// together with the byte order, an optional delta transform, an optional
// secondary compression of the payload and an xxHash64 checksum.
//
// # Frame Layout
//
//	offset size field
//	0      2    magic 0x1F50 (always little-endian)
//	2      1    codec type
//	3      1    compression type
//	4      1    word size in bits (32 or 64)
//	5      1    flags: bit 0 big-endian, bit 1 delta, bit 2 zigzag
//	6      2    block size / 8
//	8      4    value count
//	12     4    compressed word count
//	16     4    stored payload length in bytes
//	20     8    checksum over bytes [0,20) and the stored payload
//	28     4    reserved, zero
//	32     ...  payload
//
// # Usage
//
//	enc, err := frame.NewEncoder[int32](frame.WithCompression(format.CompressionS2))
//	if err != nil {
//	    return err
//	}
//	enc.WriteSlice(values)
//	data, err := enc.Finish()
//
//	values, err := frame.NewDecoder[int32]().DecodeAll(data)
//
// Large inputs can be split into frames and encoded on all cores with
// EncodeParallel.
package frame
