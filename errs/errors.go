// Package errs defines the sentinel errors returned by intpack.
//
// Errors are wrapped with additional context using fmt.Errorf and the %w verb,
// so callers should match them with errors.Is:
//
//	if errors.Is(err, errs.ErrCapacity) {
//	    // re-size the output buffer using MaxCompressedLength
//	}
package errs

import "errors"

// Codec errors.
var (
	// ErrCapacity is returned when the output buffer cannot hold the words or
	// values a codec needs to write. It is detected before anything is written.
	ErrCapacity = errors.New("output capacity exceeded")

	// ErrEncodingOverflow is returned when a block header field cannot represent
	// the value required by the input.
	ErrEncodingOverflow = errors.New("header field overflow")

	// ErrDecodingConsistency is returned when compressed data is inconsistent with
	// the requested output length, e.g. a truncated buffer or a corrupt header.
	ErrDecodingConsistency = errors.New("inconsistent compressed data")

	// ErrInvalidArgument is returned for negative lengths or input windows that
	// fall outside the supplied slice.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvalidBlockSize is returned when a block size option is out of range.
	ErrInvalidBlockSize = errors.New("invalid block size")

	// ErrInvalidCodecType is returned for an unknown codec type.
	ErrInvalidCodecType = errors.New("invalid codec type")
)

// Frame errors.
var (
	ErrInvalidCompression = errors.New("invalid compression type")
	ErrInvalidFrame       = errors.New("invalid frame")
	ErrChecksumMismatch   = errors.New("frame checksum mismatch")
	ErrEncoderFinished    = errors.New("encoder already finished")
)
