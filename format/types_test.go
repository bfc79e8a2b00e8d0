package format

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCodecType_String(t *testing.T) {
	tests := []struct {
		typ  CodecType
		want string
	}{
		{TypeJustCopy, "JustCopy"},
		{TypeVariableByte, "VariableByte"},
		{TypeBinaryPacking, "BinaryPacking"},
		{TypePFOR, "PFOR"},
		{TypeOptPFOR, "OptPFOR"},
		{TypeComposition, "Composition"},
		{TypeFastPFOR, "FastPFOR"},
		{CodecType(0), "Unknown"},
		{CodecType(0xFF), "Unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			require.Equal(t, tt.want, tt.typ.String())
		})
	}
}

func TestCodecType_IsBlock(t *testing.T) {
	require.False(t, TypeJustCopy.IsBlock())
	require.False(t, TypeVariableByte.IsBlock())
	require.True(t, TypeBinaryPacking.IsBlock())
	require.True(t, TypePFOR.IsBlock())
	require.True(t, TypeOptPFOR.IsBlock())
	require.True(t, TypeFastPFOR.IsBlock())
	require.False(t, TypeComposition.IsBlock())
}

func TestValid(t *testing.T) {
	require.False(t, CodecType(0).Valid())
	require.True(t, TypeOptPFOR.Valid())
	require.True(t, TypeFastPFOR.Valid())
	require.False(t, CodecType(8).Valid())

	require.False(t, CompressionType(0).Valid())
	require.True(t, CompressionLZ4.Valid())
	require.False(t, CompressionType(5).Valid())
	require.Equal(t, "S2", CompressionS2.String())
	require.Equal(t, "Unknown", CompressionType(9).String())
}
