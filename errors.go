package hptimer

import "errors"

// Initialization failure is fatal and surfaces as a panic from the
// package initializer (see state.go), while out-of-range and
// illegal-argument errors are ordinary recoverable errors returned to
// the caller with the receiver left unchanged.
var (
	// ErrOutOfRange is returned by any constructor or arithmetic
	// operation whose result would fall outside [Bounds.Min, Bounds.Max].
	ErrOutOfRange = errors.New("hptimer: value out of range")

	// ErrIllegalArgs is returned when constructor arguments contradict
	// each other: a negative seconds/nanoseconds component combined with
	// an explicit negative sign, or a nonzero seconds paired with a
	// negative nanoseconds. NewFromTimeval and NewFromTimespec also
	// return it for any negative component.
	ErrIllegalArgs = errors.New("hptimer: illegal construction arguments")

	// ErrCalibrationDivergent means TSC frequency calibration found two
	// or more Grubbs'-test outliers on all three attempts. It is only
	// ever seen wrapped inside the panic raised by package
	// initialization; exported so tests can match it with errors.Is
	// against the recovered panic value.
	ErrCalibrationDivergent = errors.New("hptimer: tsc calibration did not converge")
)
