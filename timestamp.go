// Package hptimer is a high-precision timer library for x86/x86_64 and
// ARM Linux systems. It auto-selects the best available hardware time
// source (TSC, HPET, or the OS monotonic clock), presents a
// nanosecond-granular signed Timestamp value, and offers hybrid
// interruptible sleep primitives that combine a coarse kernel wait with
// a fine-grained busy-wait tail.
//
// A process-wide Calibration is derived once, on first use, in the
// fixed order: hardware probe, source selection, frequency calibration,
// Unix-epoch offset, bounds, kernel-HZ discovery. Every Timestamp value
// is interpreted through that calibration.
package hptimer

import (
	"sync/atomic"

	"github.com/gregorsmith/hptimer/internal/calibrate"
)

// Timestamp is a signed 64-bit tick count interpreted through the
// process-wide calibration. Negative ticks represent times before the
// Unix epoch, or negative durations. The zero value is Nil(): zero
// ticks, not yet normalized.
//
// Timestamp is safe to copy by value; the only state that should not be
// shared across copies made while the original is mid-sleep is the
// interrupted/cancelled pair, which is why they are plain ints read and
// written only through sync/atomic rather than the atomic.Bool type
// (whose built-in copy-protection would make Timestamp un-copyable).
type Timestamp struct {
	tics int64

	// lazy cache; valid only when normalized is true. Normalization is
	// not itself safe for concurrent use from multiple goroutines on the
	// same Timestamp (only the sleep flags below are): it is a pure
	// function of tics computed on demand.
	seconds     int64
	nanoseconds int64
	sign        bool
	normalized  bool

	// cross-thread sleep flags.
	interrupted int32
	cancelled   int32
}

// New returns the zero Timestamp (zero ticks).
func New() Timestamp {
	return Timestamp{}
}

// Nil returns the zero Timestamp. Nil().IsNil() is always true and
// Nil().Tics() is always 0.
func Nil() Timestamp {
	return Timestamp{}
}

// IsNil reports whether t is the zero Timestamp.
func (t Timestamp) IsNil() bool {
	return t.tics == 0
}

// Tics returns the authoritative tick count.
func (t Timestamp) Tics() int64 {
	return t.tics
}

// NewFromTics constructs a Timestamp directly from a tick count. If
// shift is true, the process-wide Unix-epoch shift is added before the
// range check.
func NewFromTics(tics int64, shift bool) (Timestamp, error) {
	c := snapshot()
	if shift {
		var overflowed bool
		tics, overflowed = addOverflowChecked(tics, c.UnixZeroShift)
		if overflowed {
			return Timestamp{}, ErrOutOfRange
		}
	}
	if !inBounds(tics, c) {
		return Timestamp{}, ErrOutOfRange
	}
	return Timestamp{tics: tics}, nil
}

// NewFromSeconds constructs a Timestamp from seconds and nanoseconds
// plus an explicit sign. A negative seconds or nanoseconds combined
// with an explicit negative sign is illegal, and so is a negative
// nanoseconds paired with a nonzero seconds; otherwise a negative
// component is folded into the sign rather than rejected:
// NewFromSeconds(-1,0,false) == NewFromSeconds(1,0,true).
func NewFromSeconds(seconds, nanoseconds int64, negative bool) (Timestamp, error) {
	if (seconds < 0 || nanoseconds < 0) && negative {
		return Timestamp{}, ErrIllegalArgs
	}
	if nanoseconds < 0 && seconds != 0 {
		return Timestamp{}, ErrIllegalArgs
	}

	if seconds < 0 {
		seconds = -seconds
		negative = true
	}
	if nanoseconds < 0 {
		nanoseconds = -nanoseconds
		negative = true
	}

	c := snapshot()
	tics, err := ticsFromSecondsNanos(seconds, nanoseconds, c.NanosecondsPerTick)
	if err != nil {
		return Timestamp{}, err
	}
	if negative {
		tics = -tics
	}
	if !inBounds(tics, c) {
		return Timestamp{}, ErrOutOfRange
	}
	return Timestamp{tics: tics}, nil
}

// NewFromTimeval constructs a non-negative Timestamp from an OS
// timeval-equivalent carrier (seconds, microseconds).
func NewFromTimeval(sec, usec int64) (Timestamp, error) {
	if sec < 0 || usec < 0 {
		return Timestamp{}, ErrIllegalArgs
	}
	return NewFromSeconds(sec, usec*1000, false)
}

// NewFromTimespec constructs a non-negative Timestamp from an OS
// timespec-equivalent carrier (seconds, nanoseconds).
func NewFromTimespec(sec, nsec int64) (Timestamp, error) {
	if sec < 0 || nsec < 0 {
		return Timestamp{}, ErrIllegalArgs
	}
	return NewFromSeconds(sec, nsec, false)
}

// Now returns the current time as a Timestamp: the raw counter reading
// plus the calibrated Unix-epoch shift. For the TSC and HPET sources
// this is in the same epoch as the OS realtime clock. For the OS source
// the shift is zero, so the value is the CLOCK_MONOTONIC reading, not
// Unix time.
func Now() Timestamp {
	c := snapshot()
	tics, overflowed := addOverflowChecked(currentTics(c), c.UnixZeroShift)
	if overflowed || !inBounds(tics, c) {
		return Timestamp{}
	}
	return Timestamp{tics: tics}
}

// NowInto is the in-place form of Now, avoiding an extra copy on the
// caller's side for tight polling loops.
func NowInto(t *Timestamp) {
	*t = Now()
}

// ticsFromSecondsNanos converts a non-negative (seconds, nanoseconds)
// pair to a tick magnitude. It divides by (nsPerTick + normalizationBias)
// rather than nsPerTick directly, the same biased factor normalize.go's
// inverse path multiplies by, so construction at the bounds
// round-trips rather than landing one tick high.
func ticsFromSecondsNanos(seconds, nanoseconds int64, nsPerTick float64) (int64, error) {
	totalNs := seconds*1_000_000_000 + nanoseconds
	if seconds != 0 && (totalNs-nanoseconds)/seconds != 1_000_000_000 {
		return 0, ErrOutOfRange // seconds*1e9 overflowed int64
	}
	return int64(float64(totalNs) / (nsPerTick + normalizationBias)), nil
}

func addOverflowChecked(a, b int64) (sum int64, overflowed bool) {
	sum = a + b
	if (b > 0 && sum < a) || (b < 0 && sum > a) {
		return 0, true
	}
	return sum, false
}

func inBounds(tics int64, c calibrate.Calibration) bool {
	return tics >= c.Bounds.Min && tics <= c.Bounds.Max
}

// atomic helpers for the cross-thread sleep flags.

func (t *Timestamp) setInterrupted(v bool) {
	atomic.StoreInt32(&t.interrupted, boolToInt32(v))
}

func (t *Timestamp) loadInterrupted() bool {
	return atomic.LoadInt32(&t.interrupted) != 0
}

func (t *Timestamp) setCancelled(v bool) {
	atomic.StoreInt32(&t.cancelled, boolToInt32(v))
}

func (t *Timestamp) loadCancelled() bool {
	return atomic.LoadInt32(&t.cancelled) != 0
}

func boolToInt32(v bool) int32 {
	if v {
		return 1
	}
	return 0
}
