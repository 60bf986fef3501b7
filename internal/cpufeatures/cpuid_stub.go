//go:build !amd64

package cpufeatures

// probe returns an empty Features on non-amd64 architectures: it returns
// false without executing any CPUID on ARM.
func probe() Features {
	return Features{}
}
