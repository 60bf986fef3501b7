package hptimer

import (
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/gregorsmith/hptimer/internal/calibrate"
)

// process-wide state, written once by init (or, before any concurrent
// Timestamp use, by SetSource/SetClockSkew) and read freely thereafter.
var (
	initOnce sync.Once

	stateMu sync.RWMutex
	env     calibrate.Environment
	calib   calibrate.Calibration
	skew    = calibrate.DefaultClockSkewSeconds
)

// ensureInit runs the fixed initialization order exactly once: hardware
// probe -> source selection -> frequency calibration -> Unix-epoch
// offset -> bounds -> kernel-HZ discovery. A calibration failure is
// fatal and is raised as a panic, since package initialization cannot
// otherwise report an error to its caller.
func ensureInit() {
	initOnce.Do(func() {
		e := calibrate.ProbeEnvironment()
		logrus.WithFields(logrus.Fields{
			"cpu_vendor":     e.CPU.VendorID,
			"cpu_brand":      e.CPU.BrandString,
			"cpu_invariant":  e.CPU.InvariantTSC,
			"hpet_fail":      e.HPETFail.String(),
			"hpet_available": e.HPETDevice != nil,
		}).Info("hptimer: hardware probe complete")

		c, err := calibrate.Init(&e, skew)
		if err != nil {
			logrus.WithError(err).Error("hptimer: calibration failed, process cannot continue")
			if errors.Is(err, calibrate.ErrCalibrationDivergent) {
				err = fmt.Errorf("%w: %v", ErrCalibrationDivergent, err)
			}
			panic(err)
		}

		logrus.WithFields(logrus.Fields{
			"source":                c.Source.String(),
			"ticks_per_microsecond": c.TicksPerMicrosecond,
			"nanoseconds_per_tick":  c.NanosecondsPerTick,
			"unix_zero_shift":       c.UnixZeroShift,
			"jiffy_seconds":         c.JiffySeconds,
		}).Info("hptimer: calibration complete")

		env, calib = e, c
	})
}

// snapshot returns a copy of the current calibration under the read
// lock; reconfiguration (SetSource/SetClockSkew) is the only writer and
// must only be called before any Timestamp is observed by concurrent
// code.
func snapshot() calibrate.Calibration {
	ensureInit()
	stateMu.RLock()
	defer stateMu.RUnlock()
	return calib
}

// currentTics reads the raw tick count for c.Source from the
// process-wide Environment.
func currentTics(c calibrate.Calibration) int64 {
	stateMu.RLock()
	defer stateMu.RUnlock()
	return calibrate.ReadTics(c.Source, &env)
}

// rawReader resolves a read closure for c.Source once, so a hot loop
// (the sleep busy-wait tail) can call it repeatedly without re-taking
// stateMu or re-dispatching on the source every iteration.
func rawReader(c calibrate.Calibration) func() int64 {
	stateMu.RLock()
	defer stateMu.RUnlock()
	return calibrate.Reader(c.Source, &env)
}

// SetSource requests a different active time source. If the request
// cannot be satisfied (the source is unavailable, or recalibration
// fails), the current source is left unchanged and returned; otherwise
// the new source is committed and its label returned.
func SetSource(requested TimeSource) TimeSource {
	ensureInit()
	stateMu.Lock()
	defer stateMu.Unlock()

	c, ok := calibrate.TrySource(calibrate.TimeSource(requested), &env, skew)
	if !ok {
		return TimeSource(calib.Source)
	}
	calib = c
	logrus.WithField("source", c.Source.String()).Info("hptimer: source reconfigured")
	return TimeSource(calib.Source)
}

// SetClockSkew sets the wall-clock calibration window used by TSC
// frequency calibration. It accepts only {0.02, 0.1, 1.0, 10.0} seconds;
// any other value fails with false and leaves state unchanged.
// Like SetSource, this must only be called before any Timestamp is
// observed by concurrent code; it does not itself recalibrate.
func SetClockSkew(seconds float64) bool {
	if !calibrate.IsAllowedClockSkew(seconds) {
		return false
	}
	stateMu.Lock()
	defer stateMu.Unlock()
	skew = seconds
	return true
}
