//go:build !amd64 && !arm64

package hptimer

// cpuPause is a no-op spin-wait hint on architectures without a known
// pause instruction; this module's supported scope is x86/x86_64/ARM
// Linux.
func cpuPause() {}
