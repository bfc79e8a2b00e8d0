package hash

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDigest(t *testing.T) {
	tests := []struct {
		name  string
		parts []string
		sum   uint64
	}{
		{"empty", nil, 0xef46db3751d8e999},
		{"short", []string{"test"}, 0x4fdcca5ddb678139},
		{"long", []string{"this is a longer test string to hash"}, 0x69275f7f7ee59dbd},
		{"split", []string{"this is a longer ", "test string to hash"}, 0x69275f7f7ee59dbd},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDigest()
			for _, p := range tt.parts {
				d.Write([]byte(p))
			}
			assert.Equal(t, tt.sum, d.Sum64())
		})
	}
}

func BenchmarkDigest(b *testing.B) {
	data := make([]byte, 4096)
	for i := range data {
		data[i] = byte(i)
	}
	b.SetBytes(int64(len(data)))
	for b.Loop() {
		d := NewDigest()
		d.Write(data)
		_ = d.Sum64()
	}
}
