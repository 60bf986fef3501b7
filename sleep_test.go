package hptimer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestUsecSleepReturnsAfterApproximatelyTheRequestedDelay(t *testing.T) {
	var ts Timestamp
	start := time.Now()
	err := ts.UsecSleep(5000)
	elapsed := time.Since(start)
	require.NoError(t, err)
	require.GreaterOrEqual(t, elapsed, 4*time.Millisecond)
	require.Less(t, elapsed, 200*time.Millisecond)
}

func TestTicsSleepOfZeroReturnsImmediately(t *testing.T) {
	var ts Timestamp
	err := ts.TicsSleep(0)
	require.NoError(t, err)
}

func TestInterruptWakesALongSleepPromptly(t *testing.T) {
	var ts Timestamp
	done := make(chan struct{})

	go func() {
		defer close(done)
		_ = ts.UsecSleep(5_000_000)
	}()

	time.Sleep(50 * time.Millisecond)
	start := time.Now()
	ts.Interrupt()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("sleep did not return after Interrupt")
	}
	require.Less(t, time.Since(start), 2*time.Second)
}

func TestSleepToThisSleepsUntilOwnTicks(t *testing.T) {
	// SleepToThis's deadline is Unix-epoch-anchored, the same domain as
	// Now(), not the raw from-boot counter domain SleepTo/TicsSleep use.
	c := snapshot()
	deltaTics := int64(1000 / c.NanosecondsPerTick)
	ts := Timestamp{tics: Now().tics + deltaTics}

	err := ts.SleepToThis()
	require.NoError(t, err)
	require.GreaterOrEqual(t, Now().tics, ts.tics)
}

func TestSleepToTimestampHonorsDeadline(t *testing.T) {
	deadline := Now()
	var ts Timestamp
	err := ts.SleepToTimestamp(deadline)
	require.NoError(t, err)
}

func TestSleepResetsInterruptedFlagOnEachCall(t *testing.T) {
	var ts Timestamp
	ts.setInterrupted(true)
	err := ts.TicsSleep(0)
	require.NoError(t, err)
	require.False(t, ts.loadInterrupted())
}
