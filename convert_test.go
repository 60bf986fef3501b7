package hptimer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFloatSecondsRoundTrip(t *testing.T) {
	original := 123.456
	ts, err := FromFloatSeconds(original)
	require.NoError(t, err)

	back := ts.ToFloatSeconds()
	require.InDelta(t, original, back, 1e-3)
}

func TestNanosecondsRoundTrip(t *testing.T) {
	ts, err := FromNanoseconds(1_500_000_000)
	require.NoError(t, err)

	ns, err := ts.ToNanoseconds()
	require.NoError(t, err)
	require.InDelta(t, int64(1_500_000_000), ns, float64(NanosecondsPerTick())+1)
}

func TestToTimevalDiscardsSign(t *testing.T) {
	pos, err := NewFromSeconds(2, 500_000_000, false)
	require.NoError(t, err)
	neg, err := NewFromSeconds(2, 500_000_000, true)
	require.NoError(t, err)

	posSec, posUsec := pos.ToTimeval()
	negSec, negUsec := neg.ToTimeval()

	require.Equal(t, posSec, negSec)
	require.Equal(t, posUsec, negUsec)
}

func TestToTimespecMatchesSecondsAndNanoseconds(t *testing.T) {
	ts, err := NewFromSeconds(9, 250, false)
	require.NoError(t, err)

	sec, nsec := ts.ToTimespec()
	require.Equal(t, ts.Seconds(), sec)
	require.Equal(t, ts.Nanoseconds(), nsec)
}
