package hptimer

// Frequency returns the active source's ticks-per-microsecond.
func Frequency() int64 {
	return snapshot().TicksPerMicrosecond
}

// NanosecondsPerTick returns the active source's calibrated
// nanoseconds-per-tick.
func NanosecondsPerTick() float64 {
	return snapshot().NanosecondsPerTick
}

// SourceLabel returns the currently active time source.
func SourceLabel() TimeSource {
	return TimeSource(snapshot().Source)
}

// UnixZeroShift returns the tick offset between the active source's
// zero and the Unix epoch.
func UnixZeroShift() int64 {
	return snapshot().UnixZeroShift
}

// Bounds returns the valid [min, max] raw tick range for the active
// source.
func Bounds() (min, max int64) {
	b := snapshot().Bounds
	return b.Min, b.Max
}

// CPUBrand returns the probed CPU brand string.
func CPUBrand() string {
	ensureInit()
	stateMu.RLock()
	defer stateMu.RUnlock()
	return env.CPU.BrandString
}

// CPUVendor returns the probed CPU vendor ID string.
func CPUVendor() string {
	ensureInit()
	stateMu.RLock()
	defer stateMu.RUnlock()
	return env.CPU.VendorID
}

// CPUFeatures returns the full probed CPU feature snapshot.
func CPUFeatures() CpuFeatures {
	ensureInit()
	stateMu.RLock()
	defer stateMu.RUnlock()
	return cpuFeaturesFrom(env.CPU)
}

// HPETFailReason reports why HPET initialization did not succeed, or
// HPETNone if it succeeded. The HPET probe runs at initialization
// whichever source ends up selected.
func HPETFailReason() HPETFailReasonKind {
	ensureInit()
	stateMu.RLock()
	defer stateMu.RUnlock()
	return HPETFailReasonKind(env.HPETFail)
}

// Diagnostics returns a point-in-time copy of the full process
// calibration and CPU probe, for the demo CLIs and tests to print
// without re-deriving internals.
func Diagnostics() DiagnosticsSnapshot {
	ensureInit()
	stateMu.RLock()
	defer stateMu.RUnlock()
	return DiagnosticsSnapshot{
		Source:              TimeSource(calib.Source),
		TicksPerMicrosecond: calib.TicksPerMicrosecond,
		NanosecondsPerTick:  calib.NanosecondsPerTick,
		UnixZeroShift:       calib.UnixZeroShift,
		JiffySeconds:        calib.JiffySeconds,
		BoundsMin:           calib.Bounds.Min,
		BoundsMax:           calib.Bounds.Max,
		CPU:                 cpuFeaturesFrom(env.CPU),
		HPETFailReason:      HPETFailReasonKind(env.HPETFail),
	}
}
