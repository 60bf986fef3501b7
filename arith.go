package hptimer

import "math"

// Add returns t+o in tics. It fails with ErrOutOfRange if the result
// would fall outside the calibrated bounds; on failure the receiver is
// unchanged (Add returns by value, so there is nothing to partially
// mutate).
func (t Timestamp) Add(o Timestamp) (Timestamp, error) {
	sum, overflowed := addOverflowChecked(t.tics, o.tics)
	if overflowed {
		return Timestamp{}, ErrOutOfRange
	}
	if !inBounds(sum, snapshot()) {
		return Timestamp{}, ErrOutOfRange
	}
	return Timestamp{tics: sum}, nil
}

// Sub returns t-o in tics, with the same range-check contract as Add.
func (t Timestamp) Sub(o Timestamp) (Timestamp, error) {
	neg, err := o.InvertSign()
	if err != nil {
		return Timestamp{}, err
	}
	return t.Add(neg)
}

// AddSeconds returns t plus a floating-point seconds offset, converting
// the offset to ticks via the process-wide nanoseconds-per-tick first.
func (t Timestamp) AddSeconds(seconds float64) (Timestamp, error) {
	c := snapshot()
	offsetTics := int64(math.Round(seconds * 1e9 / c.NanosecondsPerTick))
	return t.Add(Timestamp{tics: offsetTics})
}

// AddNanoseconds returns t plus an integer nanosecond offset, converted
// to ticks via nanoseconds-per-tick.
func (t Timestamp) AddNanoseconds(nanoseconds int64) (Timestamp, error) {
	c := snapshot()
	offsetTics := int64(math.Round(float64(nanoseconds) / c.NanosecondsPerTick))
	return t.Add(Timestamp{tics: offsetTics})
}

// AddMicroseconds returns t plus an integer microsecond offset.
func (t Timestamp) AddMicroseconds(microseconds int64) (Timestamp, error) {
	return t.AddNanoseconds(microseconds * 1000)
}

// Compare returns -1, 0, or 1 as t is less than, equal to, or greater
// than o, comparing tics directly.
func (t Timestamp) Compare(o Timestamp) int {
	switch {
	case t.tics < o.tics:
		return -1
	case t.tics > o.tics:
		return 1
	default:
		return 0
	}
}

// Equal reports whether t and o represent the same tick count.
func (t Timestamp) Equal(o Timestamp) bool {
	return t.tics == o.tics
}

// InvertSign returns -t. It fails if t.tics == math.MinInt64, which has
// no representable positive counterpart.
func (t Timestamp) InvertSign() (Timestamp, error) {
	if t.tics == math.MinInt64 {
		return Timestamp{}, ErrOutOfRange
	}
	return Timestamp{tics: -t.tics}, nil
}
