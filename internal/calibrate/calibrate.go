// Package calibrate implements the source selector and calibrator: it
// probes the available hardware time sources (TSC, HPET, OS monotonic
// clock), picks the best one, and derives the frequency, Unix-epoch
// offset, valid tick range, and kernel-HZ estimate the root package needs
// to interpret raw tick counts.
//
// Apart from the retained report of the last TSC calibration
// (LastTSCReport), this package holds no process-wide state; the
// probing and calibration functions work on the Environment they are
// given, and the process-wide singleton and its lifetime belong to the
// root package, mirroring how the teacher's internal/tick and internal/cancel
// packages stay state-free besides the small receiver types they hand
// back to callers.
package calibrate

import (
	"errors"
	"math"

	"github.com/gregorsmith/hptimer/internal/cpufeatures"
	"github.com/gregorsmith/hptimer/internal/hpet"
	"github.com/gregorsmith/hptimer/internal/osclock"
)

// TimeSource is the tagged choice of active hardware counter.
type TimeSource int

const (
	OS TimeSource = iota
	TSC
	HPET
)

func (s TimeSource) String() string {
	switch s {
	case TSC:
		return "tsc"
	case HPET:
		return "hpet"
	case OS:
		return "os"
	default:
		return "unknown"
	}
}

// Bounds is the valid [Min, Max] tick range for the active source.
type Bounds struct {
	Min int64
	Max int64
}

// Calibration is the process-wide, populate-once set of constants the
// Timestamp type and the sleep primitives are interpreted through.
type Calibration struct {
	Source              TimeSource
	TicksPerMicrosecond int64
	NanosecondsPerTick  float64
	UnixZeroShift       int64
	JiffySeconds        float64
	Bounds              Bounds
}

// Environment holds the probed, possibly resource-owning hardware state:
// CPU features and (if usable) an open HPET mapping. Callers must Close
// it at process exit.
type Environment struct {
	CPU        cpufeatures.Features
	HPETDevice *hpet.Device
	HPETFail   hpet.FailReason
}

// Close releases the HPET mapping, if one is held.
func (e *Environment) Close() error {
	if e.HPETDevice == nil {
		return nil
	}
	return e.HPETDevice.Close()
}

// ErrNoUsableSource names the case where no time source can be read.
// Init never returns it: Select always falls back to the OS clock.
var ErrNoUsableSource = errors.New("calibrate: no usable time source")

// ErrCalibrationDivergent is returned when TSC frequency calibration
// found two or more outliers on all three attempts.
var ErrCalibrationDivergent = errors.New("calibrate: tsc calibration did not converge")

// DefaultClockSkewSeconds is the default wall-clock window used by TSC
// frequency calibration trials.
const DefaultClockSkewSeconds = 0.1

// AllowedClockSkews are the only values SetClockSkew accepts.
var AllowedClockSkews = [...]float64{0.02, 0.1, 1.0, 10.0}

// IsAllowedClockSkew reports whether seconds is one of AllowedClockSkews.
func IsAllowedClockSkew(seconds float64) bool {
	for _, v := range AllowedClockSkews {
		if v == seconds {
			return true
		}
	}
	return false
}

// ProbeEnvironment runs the hardware probe: CPU features and an HPET
// open/mmap attempt. It never fails; a failed HPET probe is recorded in
// Environment.HPETFail rather than returned as an error.
func ProbeEnvironment() Environment {
	env := Environment{CPU: cpufeatures.Probe()}
	dev, reason := hpet.Open()
	env.HPETDevice = dev
	env.HPETFail = reason
	return env
}

// Reader returns a closure reading source's raw tick count, so a
// hot loop (the sleep busy-wait tail) can avoid re-resolving which
// source to read on every iteration.
func Reader(source TimeSource, env *Environment) func() int64 {
	return reader(source, env)
}

// ReadTics reads the current raw tick count for source, given the
// probed Environment. This is what Now() uses to turn the active
// Calibration into a concrete Timestamp tick value.
func ReadTics(source TimeSource, env *Environment) int64 {
	return reader(source, env)()
}

// reader returns the tick-reading function for a given source, given an
// already-probed Environment. OS ticks are defined as nanoseconds, so
// reading it directly yields both the tick value and (with
// nanosecondsPerTick==1) the correct scale.
func reader(source TimeSource, env *Environment) func() int64 {
	switch source {
	case TSC:
		return func() int64 { return int64(cpufeatures.ReadCounter()) }
	case HPET:
		return func() int64 { return int64(env.HPETDevice.ReadCounter()) }
	default:
		return func() int64 { return osclock.MonotonicNanos() }
	}
}

// Select runs the selection algorithm: try TSC, then HPET, else OS; when
// both HPET and OS are viable, benchmark 1000 reads of each and prefer
// the faster, or (within 25%) the more predictable.
func Select(env *Environment) TimeSource {
	if env.CPU.ConstantTSC && cpufeatures.Available() {
		return TSC
	}
	if env.HPETDevice != nil {
		hpetMean, hpetStdev := benchmarkReads(reader(HPET, env), 1000)
		osMean, osStdev := benchmarkReads(reader(OS, env), 1000)
		return pickBySpeed(hpetMean, hpetStdev, osMean, osStdev)
	}
	return OS
}

// pickBySpeed implements the tie-break rule: prefer the faster mean if
// the means differ by at least 25%; otherwise prefer the lower stdev;
// an exact stdev tie falls back to OS as the more conservative default
// (open question, see DESIGN.md).
func pickBySpeed(hpetMean, hpetStdev, osMean, osStdev float64) TimeSource {
	faster := HPET
	fasterMean, slowerMean := hpetMean, osMean
	if osMean < hpetMean {
		faster = OS
		fasterMean, slowerMean = osMean, hpetMean
	}
	if slowerMean == 0 {
		return OS
	}
	if (slowerMean-fasterMean)/slowerMean >= 0.25 {
		return faster
	}
	if hpetStdev < osStdev {
		return HPET
	}
	return OS
}

// benchmarkReads performs n back-to-back reads of read and returns the
// per-read mean and (Bessel-corrected) standard deviation, in
// nanoseconds, of wall-clock cost.
func benchmarkReads(read func() int64, n int) (meanNs, stdevNs float64) {
	samples := make([]float64, n)
	for i := 0; i < n; i++ {
		start := osclock.MonotonicNanos()
		read()
		samples[i] = float64(osclock.MonotonicNanos() - start)
	}
	return mean(samples), stdev(samples)
}

func mean(xs []float64) float64 {
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func stdev(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	m := mean(xs)
	var sumSq float64
	for _, x := range xs {
		d := x - m
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(xs)-1))
}

// frequency derives TicksPerMicrosecond and NanosecondsPerTick for a
// source, given an Environment and the calibration's TSC measurement (if
// the source is TSC; ignored otherwise).
func frequency(source TimeSource, env *Environment, tscNsPerTick float64) (ticksPerUs int64, nsPerTick float64) {
	switch source {
	case TSC:
		return int64(math.Round(1000 / tscNsPerTick)), tscNsPerTick
	case HPET:
		return int64(math.Round(env.HPETDevice.TicksPerMicrosecond())), 1000.0 / env.HPETDevice.TicksPerMicrosecond()
	default:
		return osclock.NominalTicksPerMicrosecond, 1.0
	}
}

// unixZeroShift computes the tick offset between the active source's
// zero and the Unix epoch. For OS, the shift is defined to be zero: in
// practice CLOCK_MONOTONIC is not epoch-relative, but a zero offset is
// the contract OS-sourced Timestamps are built on.
func unixZeroShift(source TimeSource, env *Environment, nsPerTick float64) int64 {
	if source == OS {
		return 0
	}
	realtimeNs := osclock.RealtimeNanos()
	tics := reader(source, env)()
	return int64(float64(realtimeNs)/nsPerTick) - tics
}

// computeBounds derives Bounds: HPET's ~100ns/tick regime is cushioned
// by a factor of 120 so seconds*1e9+nanoseconds computations stay
// within int64 range; every other source gets the full int64 span.
func computeBounds(source TimeSource) Bounds {
	if source == HPET {
		return Bounds{Min: math.MinInt64 / 120, Max: math.MaxInt64 / 120}
	}
	return Bounds{Min: math.MinInt64, Max: math.MaxInt64}
}

// Init runs the full fixed initialization order: hardware probe
// (already done by the caller, passed in as env) -> source selection ->
// frequency calibration -> Unix-epoch offset -> bounds -> kernel-HZ
// discovery.
func Init(env *Environment, clockSkewSeconds float64) (Calibration, error) {
	source := Select(env)
	return calibrateFor(source, env, clockSkewSeconds)
}

// calibrateFor runs calibration for an already-chosen source; used both
// by Init and by SetSource's reconfiguration path.
func calibrateFor(source TimeSource, env *Environment, clockSkewSeconds float64) (Calibration, error) {
	var tscNsPerTick float64
	if source == TSC {
		var err error
		tscNsPerTick, err = calibrateTSCFrequency(clockSkewSeconds, 0)
		if err != nil {
			return Calibration{}, err
		}
	}

	ticksPerUs, nsPerTick := frequency(source, env, tscNsPerTick)
	shift := unixZeroShift(source, env, nsPerTick)
	bounds := computeBounds(source)
	jiffy := discoverJiffySeconds(source, env, nsPerTick)

	return Calibration{
		Source:              source,
		TicksPerMicrosecond: ticksPerUs,
		NanosecondsPerTick:  nsPerTick,
		UnixZeroShift:       shift,
		JiffySeconds:        jiffy,
		Bounds:              bounds,
	}, nil
}

// TrySource attempts to calibrate for the requested source. It is the
// engine behind the root package's SetSource: on failure it returns
// (Calibration{}, false) and the caller must leave its current state
// untouched.
func TrySource(requested TimeSource, env *Environment, clockSkewSeconds float64) (Calibration, bool) {
	switch requested {
	case TSC:
		if !(env.CPU.ConstantTSC && cpufeatures.Available()) {
			return Calibration{}, false
		}
	case HPET:
		if env.HPETDevice == nil {
			return Calibration{}, false
		}
	case OS:
		// always available
	default:
		return Calibration{}, false
	}
	c, err := calibrateFor(requested, env, clockSkewSeconds)
	if err != nil {
		return Calibration{}, false
	}
	return c, true
}
