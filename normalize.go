package hptimer

import "math"

// normalizationBias is added to nanoseconds_per_tick before the
// seconds/nanoseconds split, to avoid an integer overflow when computing
// max/min: tics is multiplied by (nanoseconds_per_tick + 10^-15) rather
// than nanoseconds_per_tick alone, and ticsFromSecondsNanos divides by
// the same biased factor, so construction and normalization use one
// scale.
const normalizationBias = 1e-15

// ensureNormalized derives (seconds, nanoseconds, sign) from t.tics and
// the process-wide calibration, once. The decomposition is a pure
// function of tics and the calibration, so mutating tics must always go
// through a constructor or arithmetic helper that resets normalized to
// false.
func (t *Timestamp) ensureNormalized() {
	if t.normalized {
		return
	}
	c := snapshot()

	t.sign = t.tics < 0
	magnitude := t.tics
	if t.sign {
		magnitude = -magnitude
	}

	totalNs := float64(magnitude) * (c.NanosecondsPerTick + normalizationBias)
	seconds := int64(totalNs / 1e9)
	nanos := int64(math.Trunc(totalNs - float64(seconds)*1e9))

	t.seconds = seconds
	t.nanoseconds = nanos
	t.normalized = true
}

// Seconds returns the normalized seconds component (always >= 0; see
// Sign for the direction), triggering normalization if needed.
func (t *Timestamp) Seconds() int64 {
	t.ensureNormalized()
	return t.seconds
}

// Nanoseconds returns the normalized sub-second nanoseconds component
// (always in [0, 1e9)), triggering normalization if needed.
func (t *Timestamp) Nanoseconds() int64 {
	t.ensureNormalized()
	return t.nanoseconds
}

// Microseconds returns the normalized sub-second component in
// microseconds, truncated.
func (t *Timestamp) Microseconds() int64 {
	t.ensureNormalized()
	return t.nanoseconds / 1000
}

// Sign reports whether t represents a time/duration before the epoch
// (or a negative duration): the most-significant bit of tics.
func (t *Timestamp) Sign() bool {
	t.ensureNormalized()
	return t.sign
}
