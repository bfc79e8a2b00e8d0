// Package endian provides byte order utilities for moving integer words in and
// out of byte slices.
//
// Codecs in intpack operate on word slices ([]int32 or []int64) and never depend
// on host byte order. Byte order only matters at the two places where words meet
// bytes: the VariableByte codec, which assembles its byte stream into words, and
// the frame container, which serializes words for storage.
//
// # Basic Usage
//
//	engine := endian.GetLittleEndianEngine()
//	buf := endian.AppendWords(engine, nil, []int32{1, 2, 3})
//	words := make([]int32, 3)
//	endian.ReadWords(engine, words, buf)
//
// # Thread Safety
//
// All functions and methods in this package are safe for concurrent use.
// The returned EndianEngine instances are immutable and stateless.
package endian

import (
	"encoding/binary"
	"unsafe"
)

// EndianEngine combines ByteOrder and AppendByteOrder interfaces from encoding/binary
// into a single interface for convenient byte order operations.
//
// This interface is satisfied by binary.LittleEndian and binary.BigEndian.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// Word is the set of integer word types supported by the helpers in this package.
type Word interface {
	~int32 | ~int64
}

// CheckEndianness uses a fixed integer value to determine the host's byte order.
func CheckEndianness() binary.ByteOrder {
	var i uint16 = 0x0100

	b := (*[2]byte)(unsafe.Pointer(&i))
	if b[0] == 0x01 {
		return binary.BigEndian
	}

	return binary.LittleEndian
}

func IsNativeLittleEndian() bool {
	return CheckEndianness() == binary.LittleEndian
}

// GetLittleEndianEngine returns the little-endian engine.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}

// GetBigEndianEngine returns the big-endian engine.
func GetBigEndianEngine() EndianEngine {
	return binary.BigEndian
}

// WordBytes returns the size in bytes of the word type T.
func WordBytes[T Word]() int {
	var zero T
	return int(unsafe.Sizeof(zero))
}

// PutWord stores w into b using the engine's byte order.
// b must hold at least WordBytes[T]() bytes.
func PutWord[T Word](engine EndianEngine, b []byte, w T) {
	if WordBytes[T]() == 4 {
		engine.PutUint32(b, uint32(w)) //nolint:gosec
		return
	}
	engine.PutUint64(b, uint64(w)) //nolint:gosec
}

// WordAt loads a word from b using the engine's byte order.
func WordAt[T Word](engine EndianEngine, b []byte) T {
	if WordBytes[T]() == 4 {
		return T(int32(engine.Uint32(b))) //nolint:gosec
	}

	return T(int64(engine.Uint64(b))) //nolint:gosec
}

// AppendWords appends the byte representation of words to dst.
func AppendWords[T Word](engine EndianEngine, dst []byte, words []T) []byte {
	if WordBytes[T]() == 4 {
		for _, w := range words {
			dst = engine.AppendUint32(dst, uint32(w)) //nolint:gosec
		}

		return dst
	}

	for _, w := range words {
		dst = engine.AppendUint64(dst, uint64(w)) //nolint:gosec
	}

	return dst
}

// ReadWords decodes up to len(dst) words from src and returns the number decoded.
// Trailing bytes that do not form a whole word are ignored.
func ReadWords[T Word](engine EndianEngine, dst []T, src []byte) int {
	size := WordBytes[T]()
	n := min(len(dst), len(src)/size)
	for i := range n {
		dst[i] = WordAt[T](engine, src[i*size:])
	}

	return n
}
