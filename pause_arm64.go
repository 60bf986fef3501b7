//go:build arm64

package hptimer

// cpuPause issues a plain "nop" spin-wait hint on ARM. Implemented in
// pause_arm64.s.
func cpuPause()
