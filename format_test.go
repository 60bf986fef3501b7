package hptimer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPrintTimeRawTicsMode(t *testing.T) {
	ts := Timestamp{tics: 123456789}
	require.Equal(t, "123456789", ts.PrintTime(true, false))
}

func TestPrintTimeUnixModeSmallValue(t *testing.T) {
	// The nanosecond component is carried through float64 arithmetic
	// with the biased nanoseconds-per-tick factor, so the last digit or
	// two can differ from the literal on any source, the 1ns-per-tick OS
	// source included; tolerate that instead of asserting the literal
	// string.
	ts, err := NewFromSeconds(100, 500_000_000, false)
	require.NoError(t, err)

	require.Equal(t, int64(100), ts.Seconds())
	require.InDelta(t, 500_000_000, ts.Nanoseconds(), 100)
	require.Regexp(t, `^100\.\d{9}$`, ts.PrintTime(false, true))
}

func TestPrintTimeUnixModeNegativeHasLeadingSign(t *testing.T) {
	ts, err := NewFromSeconds(100, 500_000_000, true)
	require.NoError(t, err)

	require.True(t, len(ts.PrintTime(false, true)) > 0 && ts.PrintTime(false, true)[0] == '-')
}

func TestPrintTimeAtRealisticEpochIsCloseToExpected(t *testing.T) {
	// A realistic 2023-era Unix time exercises the same decomposition as
	// small values; the nanosecond component may drift by a few hundred
	// nanoseconds at this magnitude because the tick count is carried
	// through float64 arithmetic (adjacent float64 values near 1.7e18 are
	// 256 apart), so this checks proximity rather than an exact string.
	ts, err := NewFromSeconds(1_700_000_000, 500_000_000, false)
	require.NoError(t, err)

	require.Equal(t, int64(1_700_000_000), ts.Seconds())
	require.InDelta(t, 500_000_000, ts.Nanoseconds(), 1e6)
}

func TestStringMatchesPrintTimeUnixMode(t *testing.T) {
	ts, err := NewFromSeconds(42, 0, false)
	require.NoError(t, err)

	require.Equal(t, ts.PrintTime(false, true), ts.String())
}

func TestGoStringMatchesRawTicsMode(t *testing.T) {
	ts := Timestamp{tics: 123456789}
	require.Equal(t, ts.PrintTime(true, false), "123456789")
	require.Contains(t, ts.GoString(), "123456789")
}

func TestNewFromSecondsCarriesOverflowingNanoseconds(t *testing.T) {
	ts, err := NewFromSeconds(0, 1_500_000_000, false)
	require.NoError(t, err)

	require.Equal(t, int64(1), ts.Seconds())
	require.InDelta(t, 500_000_000, ts.Nanoseconds(), 100)
}
