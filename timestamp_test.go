package hptimer

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNilIsZero(t *testing.T) {
	n := Nil()
	require.True(t, n.IsNil())
	require.Equal(t, int64(0), n.Tics())
}

func TestNewIsNil(t *testing.T) {
	require.True(t, New().IsNil())
}

func TestNowIsNotNil(t *testing.T) {
	now := Now()
	require.False(t, now.IsNil())
}

func TestNewFromSecondsFoldsNegativeComponentIntoSign(t *testing.T) {
	// Timestamp(-1, 0, false) == Timestamp(1, 0, true), both representing
	// negative one second. A negative seconds or nanoseconds magnitude
	// folds into the sign rather than erroring, unless it contradicts an
	// explicit sign or a nonzero seconds.
	folded, err := NewFromSeconds(-1, 0, false)
	require.NoError(t, err)
	explicit, err := NewFromSeconds(1, 0, true)
	require.NoError(t, err)
	require.True(t, folded.Equal(explicit))

	foldedNanos, err := NewFromSeconds(0, -1, false)
	require.NoError(t, err)
	explicitNanos, err := NewFromSeconds(0, 1, true)
	require.NoError(t, err)
	require.True(t, foldedNanos.Equal(explicitNanos))
}

func TestNewFromSecondsRejectsContradictorySign(t *testing.T) {
	_, err := NewFromSeconds(-1, 0, true)
	require.ErrorIs(t, err, ErrIllegalArgs)

	_, err = NewFromSeconds(0, -1, true)
	require.ErrorIs(t, err, ErrIllegalArgs)
}

func TestNewFromSecondsRejectsNegativeNanosecondsWithNonzeroSeconds(t *testing.T) {
	_, err := NewFromSeconds(5, -1, false)
	require.ErrorIs(t, err, ErrIllegalArgs)
}

func TestNewFromSecondsAppliesSign(t *testing.T) {
	pos, err := NewFromSeconds(5, 0, false)
	require.NoError(t, err)
	neg, err := NewFromSeconds(5, 0, true)
	require.NoError(t, err)
	require.Equal(t, pos.Tics(), -neg.Tics())
}

func TestNewFromTimevalAndTimespecRejectNegative(t *testing.T) {
	_, err := NewFromTimeval(-1, 0)
	require.ErrorIs(t, err, ErrIllegalArgs)

	_, err = NewFromTimespec(0, -1)
	require.ErrorIs(t, err, ErrIllegalArgs)
}

func TestNewFromTicsAppliesUnixShift(t *testing.T) {
	withShift, err := NewFromTics(0, true)
	require.NoError(t, err)
	withoutShift, err := NewFromTics(0, false)
	require.NoError(t, err)

	require.Equal(t, UnixZeroShift(), withShift.Tics()-withoutShift.Tics())
}

func TestAddOverflowCheckedDetectsOverflow(t *testing.T) {
	_, overflowed := addOverflowChecked(math.MaxInt64, 1)
	require.True(t, overflowed)

	_, overflowed = addOverflowChecked(math.MinInt64, -1)
	require.True(t, overflowed)

	sum, overflowed := addOverflowChecked(10, 20)
	require.False(t, overflowed)
	require.Equal(t, int64(30), sum)
}

func TestNowIntoMatchesNow(t *testing.T) {
	var t1 Timestamp
	NowInto(&t1)
	require.False(t, t1.IsNil())
}
