package hptimer

import "math"

// ToFloatSeconds converts t to floating-point seconds, interpreted as an
// absolute Unix time when t was constructed with the Unix-epoch shift
// applied (e.g. by Now()).
func (t Timestamp) ToFloatSeconds() float64 {
	c := snapshot()
	return float64(t.tics) * c.NanosecondsPerTick / 1e9
}

// FromFloatSeconds constructs a Timestamp from floating-point seconds,
// range-checked against the calibrated bounds.
func FromFloatSeconds(seconds float64) (Timestamp, error) {
	c := snapshot()
	tics := int64(math.Round(seconds * 1e9 / c.NanosecondsPerTick))
	if !inBounds(tics, c) {
		return Timestamp{}, ErrOutOfRange
	}
	return Timestamp{tics: tics}, nil
}

// ToNanoseconds converts t to an integer nanosecond count, failing if
// the magnitude cannot be represented in an int64.
func (t Timestamp) ToNanoseconds() (int64, error) {
	c := snapshot()
	ns := float64(t.tics) * c.NanosecondsPerTick
	if ns > math.MaxInt64 || ns < math.MinInt64 {
		return 0, ErrOutOfRange
	}
	return int64(math.Round(ns)), nil
}

// FromNanoseconds constructs a Timestamp from an integer nanosecond
// count, range-checked against the calibrated bounds.
func FromNanoseconds(nanoseconds int64) (Timestamp, error) {
	c := snapshot()
	tics := int64(math.Round(float64(nanoseconds) / c.NanosecondsPerTick))
	if !inBounds(tics, c) {
		return Timestamp{}, ErrOutOfRange
	}
	return Timestamp{tics: tics}, nil
}

// ToTimeval converts t to an OS timeval-equivalent (seconds,
// microseconds). The carrier is semantically unsigned, so a negative t
// has its sign discarded.
func (t *Timestamp) ToTimeval() (sec, usec int64) {
	t.ensureNormalized()
	return t.seconds, t.nanoseconds / 1000
}

// ToTimespec converts t to an OS timespec-equivalent (seconds,
// nanoseconds), with the same sign-discarding behavior as ToTimeval.
func (t *Timestamp) ToTimespec() (sec, nsec int64) {
	t.ensureNormalized()
	return t.seconds, t.nanoseconds
}
