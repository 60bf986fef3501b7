package hptimer

import (
	"sync"
	"time"

	"github.com/gregorsmith/hptimer/internal/calibrate"
)

// sleepMu/sleepCond are the single process-wide mutex/condition-variable
// pair shared by every sleeping Timestamp. One pair per process is a
// deliberate simplification: it avoids a per-sleep heap allocation at
// the cost of an occasional spurious wake, which the busy-wait tail
// absorbs by re-checking the instance's own interrupted flag.
var (
	sleepMu   sync.Mutex
	sleepCond = sync.NewCond(&sleepMu)
)

const spinCheckInterval = 16

// UsecSleep sleeps for usec microseconds from now.
func (t *Timestamp) UsecSleep(usec int64) error {
	c := snapshot()
	delta := int64(float64(usec)*1000/c.NanosecondsPerTick + 0.5)
	return t.sleepUntilTics(currentTics(c)+delta, c)
}

// NsecSleep sleeps for nsec nanoseconds from now.
func (t *Timestamp) NsecSleep(nsec int64) error {
	c := snapshot()
	delta := int64(float64(nsec)/c.NanosecondsPerTick + 0.5)
	return t.sleepUntilTics(currentTics(c)+delta, c)
}

// TicsSleep sleeps for tics raw ticks from now, using its tics argument
// directly rather than any stale field on the receiver.
func (t *Timestamp) TicsSleep(tics int64) error {
	c := snapshot()
	return t.sleepUntilTics(currentTics(c)+tics, c)
}

// SleepTo sleeps until the absolute raw tick count tics.
func (t *Timestamp) SleepTo(tics int64) error {
	return t.sleepUntilTics(tics, snapshot())
}

// SleepToTimestamp sleeps until deadline's tick count. deadline is
// interpreted in the same Unix-epoch-anchored domain as
// Now() (e.g. a deadline built from Now() plus an offset), unlike
// SleepTo's raw-counter domain, so it is converted back to raw ticks by
// subtracting UnixZeroShift before comparing against the counter.
func (t *Timestamp) SleepToTimestamp(deadline Timestamp) error {
	c := snapshot()
	return t.sleepUntilTics(deadline.tics-c.UnixZeroShift, c)
}

// SleepToThis sleeps until t's own tick count, treated as a
// Unix-epoch-anchored deadline in the same domain as Now(), matching
// SleepToTimestamp's convention: t is both the deadline and the
// instance whose interrupted/cancelled flags are consulted.
func (t *Timestamp) SleepToThis() error {
	c := snapshot()
	return t.sleepUntilTics(t.tics-c.UnixZeroShift, c)
}

// Sleep sleeps for the standard library duration d.
func (t *Timestamp) Sleep(d time.Duration) error {
	c := snapshot()
	delta := int64(float64(d.Nanoseconds())/c.NanosecondsPerTick + 0.5)
	return t.sleepUntilTics(currentTics(c)+delta, c)
}

// sleepUntilTics is the funnel every entry point above resolves to: it
// precomputes the target tick count, runs the guarded coarse wait, then
// the busy-wait tail.
func (t *Timestamp) sleepUntilTics(target int64, c calibrate.Calibration) error {
	t.setInterrupted(false)
	t.setCancelled(false)

	read := rawReader(c)
	jiffyTics := int64(c.JiffySeconds * 1e9 / c.NanosecondsPerTick)

	remaining := target - read()
	if remaining >= jiffyTics {
		if t.loadInterrupted() {
			t.setCancelled(true)
		} else {
			coarse := ticsToDuration(remaining-jiffyTics, c)
			t.waitCoarse(coarse)
		}
	}

	t.spinUntil(target, read)
	return nil
}

// waitCoarse blocks the calling goroutine on the shared condition
// variable for at most dur, waking early if interrupted is set. The
// wait predicate is re-checked on every wake, including spurious ones.
func (t *Timestamp) waitCoarse(dur time.Duration) {
	if dur <= 0 {
		return
	}
	deadline := time.Now().Add(dur)

	timer := time.AfterFunc(dur, func() {
		sleepMu.Lock()
		sleepCond.Broadcast()
		sleepMu.Unlock()
	})
	defer timer.Stop()

	sleepMu.Lock()
	defer sleepMu.Unlock()
	for !t.loadInterrupted() && time.Now().Before(deadline) {
		sleepCond.Wait()
	}
}

// spinUntil busy-polls read until it reaches target, pausing between
// reads with a CPU hint and checking the interrupted flag every
// spinCheckInterval iterations.
func (t *Timestamp) spinUntil(target int64, read func() int64) {
	for i := 0; read() < target; i++ {
		cpuPause()
		if i%spinCheckInterval == spinCheckInterval-1 && t.loadInterrupted() {
			return
		}
	}
}

// Interrupt requests early wakeup of a Timestamp that may currently be
// sleeping on another goroutine. It is best-effort: the shared
// condition variable may instead wake an unrelated sleeper, in which
// case t's own busy-wait tail is what actually observes interrupted.
func (t *Timestamp) Interrupt() {
	t.setCancelled(true)
	for {
		t.setInterrupted(true)
		if t.loadCancelled() {
			break
		}
	}

	sleepMu.Lock()
	sleepCond.Signal()
	sleepMu.Unlock()
}

// ticsToDuration converts a tick delta to a time.Duration, for sizing
// the coarse wait.
func ticsToDuration(tics int64, c calibrate.Calibration) time.Duration {
	return time.Duration(float64(tics) * c.NanosecondsPerTick)
}
