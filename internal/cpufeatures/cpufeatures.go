// Package cpufeatures probes the CPU for the Time Stamp Counter properties
// the calibrator needs: whether the TSC is usable as a monotonic source at
// all, and whether RDTSC or RDTSCP is the right instruction to read it with.
//
// The probe itself is isolated behind a tiny platform split, the same way
// the teacher benchmark package isolates its TSC read behind
// tick_amd64.go/tick_stub.go: real CPUID/RDTSC on amd64, a false/unsupported
// stub everywhere else (arm64 included, per spec).
package cpufeatures

import "sync"

// Features is the process-wide, populate-once snapshot of what the CPU
// reports about its timestamp counter.
type Features struct {
	VendorID     string // 12 bytes, e.g. "GenuineIntel"
	BrandString  string // up to 48 bytes, trimmed
	Family       uint32
	Model        uint32
	Stepping     uint32
	RDTSCP       bool
	InvariantTSC bool
	// ConstantTSC is the probe's final verdict: is the TSC usable as a
	// steady, comparable-across-reads clock source at all.
	ConstantTSC bool
}

var (
	once    sync.Once
	cached  Features
)

// Probe returns the process-wide CPU feature snapshot, computing it once.
func Probe() Features {
	once.Do(func() {
		cached = probe()
	})
	return cached
}
