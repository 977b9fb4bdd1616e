package heapcore

import "testing"

import "github.com/stretchr/testify/require"

func TestHeaderEncoding(t *testing.T) {
	cases := []struct {
		size int
		used bool
	}{
		{0, false},
		{8, false},
		{8, true},
		{120, false},
		{1 << 20, true},
	}
	for _, c := range cases {
		h := encodeHeader(c.size, c.used)
		require.Equal(t, c.size, h.trueSize())
		require.Equal(t, c.used, h.isUsed())
	}
}

func TestHeaderRoundTrip(t *testing.T) {
	region := make([]byte, 64)
	setHeaderAt(region, 0, encodeHeader(56, true))
	h := headerAt(region, 0)
	require.Equal(t, 56, h.trueSize())
	require.True(t, h.isUsed())

	h = h.clearUsed()
	setHeaderAt(region, 0, h)
	require.False(t, headerAt(region, 0).isUsed())
}

func TestRoundUp(t *testing.T) {
	require.Equal(t, 8, roundUp(1, 8))
	require.Equal(t, 8, roundUp(8, 8))
	require.Equal(t, 16, roundUp(9, 8))
	require.Equal(t, 0, roundUp(0, 8))
}
