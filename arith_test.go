package hptimer

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAddAndSubRoundTrip(t *testing.T) {
	a := Timestamp{tics: 1000}
	b := Timestamp{tics: 250}

	sum, err := a.Add(b)
	require.NoError(t, err)
	require.Equal(t, int64(1250), sum.Tics())

	diff, err := sum.Sub(b)
	require.NoError(t, err)
	require.Equal(t, a.Tics(), diff.Tics())
}

func TestAddReportsOutOfRange(t *testing.T) {
	a := Timestamp{tics: math.MaxInt64}
	b := Timestamp{tics: 1}

	_, err := a.Add(b)
	require.ErrorIs(t, err, ErrOutOfRange)
}

func TestInvertSignRejectsMinInt64(t *testing.T) {
	t0 := Timestamp{tics: math.MinInt64}
	_, err := t0.InvertSign()
	require.ErrorIs(t, err, ErrOutOfRange)
}

func TestInvertSignFlipsTics(t *testing.T) {
	t0 := Timestamp{tics: 42}
	inv, err := t0.InvertSign()
	require.NoError(t, err)
	require.Equal(t, int64(-42), inv.Tics())
}

func TestCompareOrdersByTics(t *testing.T) {
	lo := Timestamp{tics: -5}
	hi := Timestamp{tics: 5}

	require.Equal(t, -1, lo.Compare(hi))
	require.Equal(t, 1, hi.Compare(lo))
	require.Equal(t, 0, lo.Compare(lo))
}

func TestEqualComparesTicsNotCache(t *testing.T) {
	a := Timestamp{tics: 7}
	b := Timestamp{tics: 7}
	require.True(t, a.Equal(b))

	neg := Timestamp{tics: -7}
	require.False(t, a.Equal(neg))
}

func TestAddMicrosecondsMatchesAddNanoseconds(t *testing.T) {
	base := Timestamp{tics: 0}

	viaMicros, err := base.AddMicroseconds(5)
	require.NoError(t, err)
	viaNanos, err := base.AddNanoseconds(5000)
	require.NoError(t, err)

	require.Equal(t, viaNanos.Tics(), viaMicros.Tics())
}
