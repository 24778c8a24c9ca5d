package matching

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func mustPrice(t testing.TB, s string) Uint {
	t.Helper()
	v, err := NewUintFromFloatString(s)
	require.NoError(t, err, s)
	return v
}

func TestDefaultLimits(t *testing.T) {
	limits := DefaultLimits()
	require.True(t, limits.Valid())
	require.Equal(t, 501, limits.Levels())
	require.Equal(t, "50", limits.Min.ToFloatString())
	require.Equal(t, "100", limits.Max.ToFloatString())
	require.Equal(t, "0.1", limits.Step.ToFloatString())
}

func TestLimitsIndex(t *testing.T) {
	limits := NewLimits(mustPrice(t, "50"), mustPrice(t, "0.1"), 501)

	testCases := []struct {
		price string
		index int
		ok    bool
	}{
		{price: "50", index: 0, ok: true},
		{price: "50.1", index: 1, ok: true},
		{price: "99", index: 490, ok: true},
		{price: "100", index: 500, ok: true},
		// rounding to the nearest level
		{price: "50.04", index: 0, ok: true},
		{price: "50.05", index: 1, ok: true},
		{price: "99.96", index: 500, ok: true},
		// out of range
		{price: "49.99", ok: false},
		{price: "100.01", ok: false},
		{price: "0", ok: false},
	}

	for _, tc := range testCases {
		index, ok := limits.Index(mustPrice(t, tc.price))
		require.Equal(t, tc.ok, ok, tc.price)
		if tc.ok {
			require.Equal(t, tc.index, index, tc.price)
		}
	}
}

func TestLimitsPrice(t *testing.T) {
	limits := NewLimits(mustPrice(t, "50"), mustPrice(t, "0.1"), 501)
	for _, index := range []int{0, 1, 250, 490, 500} {
		p := limits.Price(index)
		back, ok := limits.Index(p)
		require.True(t, ok)
		require.Equal(t, index, back)
	}
	require.Equal(t, "99", limits.Price(490).ToFloatString())

	aligned, ok := limits.Align(mustPrice(t, "75.06"))
	require.True(t, ok)
	require.Equal(t, "75.1", aligned.ToFloatString())
	_, ok = limits.Align(mustPrice(t, "120"))
	require.False(t, ok)
}

func TestLimitsUnalignedMax(t *testing.T) {
	limits := Limits{Min: NewUint(0), Max: NewUint(10), Step: NewUint(4)}
	require.True(t, limits.Valid())
	require.Equal(t, 3, limits.Levels())

	// 10 rounds to 12 which is beyond the last level
	index, ok := limits.Index(NewUint(10))
	require.True(t, ok)
	require.Equal(t, 2, index)
}
