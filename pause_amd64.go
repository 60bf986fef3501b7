//go:build amd64

package hptimer

// cpuPause issues the x86 PAUSE instruction ("rep;nop"), a hint to the
// core that this is a spin-wait loop, improving SMT sibling throughput
// and reducing memory-order mis-speculation cost. Implemented in
// pause_amd64.s.
func cpuPause()
