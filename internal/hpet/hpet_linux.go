//go:build linux

package hpet

import (
	"encoding/binary"
	"os"

	"golang.org/x/sys/unix"
)

// Device is an open, mapped HPET. The zero value is not usable; construct
// one with Open.
type Device struct {
	file *os.File // kept alive only to pin the fd; never read from directly
	mmap []byte
	// periodFs is COUNTER_CLK_PERIOD from the capabilities register, in
	// femtoseconds per tick.
	periodFs uint32
}

// Open opens /dev/hpet read-only and maps its first 1024 bytes. On any
// failure it returns a classified FailReason and a nil Device; this is
// not logged as an error since HPET absence is a routine
// source-selection input.
func Open() (*Device, FailReason) {
	f, err := os.OpenFile(devicePath, os.O_RDONLY, 0)
	if err != nil {
		return nil, classifyOpenErrno(err)
	}

	data, err := unix.Mmap(int(f.Fd()), 0, mmapLen, unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, classifyMmapErrno(err)
	}

	caps := binary.LittleEndian.Uint64(data[offsetCapabilities:])
	if caps&(1<<countSizeCapBit) == 0 {
		unix.Munmap(data)
		f.Close()
		return nil, ThirtyTwoBitCounter
	}

	return &Device{
		file:     f,
		mmap:     data,
		periodFs: uint32(caps >> 32),
	}, None
}

// Close unmaps the device and closes its file descriptor. Safe to call
// once; the Device must not be used afterward.
func (d *Device) Close() error {
	if d == nil {
		return nil
	}
	err := unix.Munmap(d.mmap)
	if cerr := d.file.Close(); err == nil {
		err = cerr
	}
	return err
}

// ReadCounter reads the 64-bit main counter register. On 64-bit
// targets a single aligned load is sufficient and atomic with respect to
// wraparound; the split-read retry loop below is kept for documentation
// parity with 32-bit targets even though GOARCH here is always 64-bit
// (amd64/arm64), matching the architecture scope of this module.
func (d *Device) ReadCounter() uint64 {
	if uintSize == 64 {
		return binary.LittleEndian.Uint64(d.mmap[offsetCounterLow:])
	}
	for {
		hi1 := binary.LittleEndian.Uint32(d.mmap[offsetCounterHigh:])
		lo := binary.LittleEndian.Uint32(d.mmap[offsetCounterLow:])
		hi2 := binary.LittleEndian.Uint32(d.mmap[offsetCounterHigh:])
		if hi1 == hi2 {
			return uint64(hi1)<<32 | uint64(lo)
		}
	}
}

// TicksPerMicrosecond derives the HPET tick rate from the period register
// read at Open time: frequency in ticks/µs = 10^9 / period_fs.
func (d *Device) TicksPerMicrosecond() float64 {
	return 1e9 / float64(d.periodFs)
}

const uintSize = 32 << (^uint(0) >> 63) // 32 on 32-bit targets, 64 on 64-bit

func classifyOpenErrno(err error) FailReason {
	switch {
	case os.IsPermission(err):
		return Access
	case os.IsNotExist(err):
		return NotFound
	case unix.EMFILE == errno(err):
		return TooManyOpenFiles
	case unix.EBUSY == errno(err):
		return Busy
	case unix.EFAULT == errno(err):
		return Fault
	default:
		return Unknown
	}
}

func classifyMmapErrno(err error) FailReason {
	switch errno(err) {
	case unix.EACCES:
		return Access
	case unix.EFAULT:
		return Fault
	case unix.EAGAIN, unix.EBADF, unix.ENODEV, unix.ENOMEM:
		return Unknown
	default:
		return Unknown
	}
}

func errno(err error) unix.Errno {
	var e unix.Errno
	if pe, ok := err.(*os.PathError); ok {
		err = pe.Err
	}
	if v, ok := err.(unix.Errno); ok {
		e = v
	}
	return e
}
