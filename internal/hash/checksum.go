// Package hash provides the checksum used by the frame container.
package hash

import "github.com/cespare/xxhash/v2"

// Digest accumulates an xxHash64 checksum over several byte slices without
// concatenating them.
type Digest struct {
	d *xxhash.Digest
}

// NewDigest creates an empty Digest.
func NewDigest() Digest {
	return Digest{d: xxhash.New()}
}

// Write adds p to the running checksum.
func (d Digest) Write(p []byte) {
	_, _ = d.d.Write(p)
}

// Sum64 returns the current checksum.
func (d Digest) Sum64() uint64 {
	return d.d.Sum64()
}
