//go:build !linux

package hpet

// Device is unused outside Linux; this module targets Linux only.
type Device struct{}

// Open always fails on non-Linux systems: there is no /dev/hpet.
func Open() (*Device, FailReason) {
	return nil, NotFound
}

func (d *Device) Close() error                 { return nil }
func (d *Device) ReadCounter() uint64          { return 0 }
func (d *Device) TicksPerMicrosecond() float64 { return 0 }
