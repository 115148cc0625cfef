package bitio_test

import (
	"testing"

	"github.com/arloliu/asn1codec/bitio"
	"github.com/stretchr/testify/require"
)

func TestSignExtend_AllBitWidths(t *testing.T) {
	for bits := 1; bits <= 64; bits++ {
		mask := uint64(1)<<uint(bits) - 1
		if bits == 64 {
			mask = ^uint64(0)
		}

		// Zero stays zero regardless of width.
		require.Equal(t, int64(0), bitio.SignExtend(0, bits), "bits=%d", bits)

		// The all-ones pattern for this width is always -1.
		require.Equal(t, int64(-1), bitio.SignExtend(mask, bits), "bits=%d", bits)

		if bits > 1 {
			// The maximal positive value (top bit clear) stays positive.
			maxPositive := mask >> 1
			require.Equal(t, int64(maxPositive), bitio.SignExtend(maxPositive, bits), "bits=%d", bits)
		}
	}
}

func TestSignExtend_KnownValues(t *testing.T) {
	require.Equal(t, int64(-1), bitio.SignExtend(0xFF, 8))
	require.Equal(t, int64(127), bitio.SignExtend(0x7F, 8))
	require.Equal(t, int64(-128), bitio.SignExtend(0x80, 8))
	require.Equal(t, int64(-2), bitio.SignExtend(0x3FE, 10))
}

func TestSignExtend_ZeroOrNegativeBits(t *testing.T) {
	require.Equal(t, int64(0), bitio.SignExtend(0xFF, 0))
	require.Equal(t, int64(0), bitio.SignExtend(0xFF, -1))
}

func TestSignExtend_FullWidthIsVerbatim(t *testing.T) {
	require.Equal(t, int64(-1), bitio.SignExtend(^uint64(0), 64))
	require.Equal(t, int64(1), bitio.SignExtend(1, 64))
}
