//go:build amd64

package cpufeatures

// rdtsc reads the Time Stamp Counter. Implemented in tsc_amd64.s.
func rdtsc() uint64

// rdtscp reads the Time Stamp Counter using RDTSCP, which additionally
// waits for prior instructions to retire, giving a more precise read
// boundary than RDTSC. Implemented in tsc_amd64.s.
func rdtscp() uint64

// ReadCounter returns the current TSC value, using RDTSCP when the CPU
// supports it and falling back to RDTSC otherwise.
func ReadCounter() uint64 {
	if Probe().RDTSCP {
		return rdtscp()
	}
	return rdtsc()
}

// Available reports whether the TSC is usable as a calibrated time
// source on this CPU.
func Available() bool {
	return Probe().ConstantTSC
}
