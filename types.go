package hptimer

import (
	"github.com/gregorsmith/hptimer/internal/calibrate"
	"github.com/gregorsmith/hptimer/internal/cpufeatures"
	"github.com/gregorsmith/hptimer/internal/hpet"
)

// TimeSource is the tagged choice of active hardware time source.
type TimeSource calibrate.TimeSource

const (
	SourceOS   = TimeSource(calibrate.OS)
	SourceTSC  = TimeSource(calibrate.TSC)
	SourceHPET = TimeSource(calibrate.HPET)
)

func (s TimeSource) String() string {
	return calibrate.TimeSource(s).String()
}

// HPETFailReasonKind diagnoses why HPET initialization did not succeed.
// The zero value means HPET initialized fine (or was never attempted).
type HPETFailReasonKind hpet.FailReason

const (
	HPETNone                HPETFailReasonKind = HPETFailReasonKind(hpet.None)
	HPETAccess              HPETFailReasonKind = HPETFailReasonKind(hpet.Access)
	HPETNotFound            HPETFailReasonKind = HPETFailReasonKind(hpet.NotFound)
	HPETTooManyOpenFiles    HPETFailReasonKind = HPETFailReasonKind(hpet.TooManyOpenFiles)
	HPETBusy                HPETFailReasonKind = HPETFailReasonKind(hpet.Busy)
	HPETFault               HPETFailReasonKind = HPETFailReasonKind(hpet.Fault)
	HPETThirtyTwoBitCounter HPETFailReasonKind = HPETFailReasonKind(hpet.ThirtyTwoBitCounter)
	HPETUnknown             HPETFailReasonKind = HPETFailReasonKind(hpet.Unknown)
)

func (r HPETFailReasonKind) String() string {
	return hpet.FailReason(r).String()
}

// CpuFeatures is the process-wide, populated-once CPU feature snapshot.
type CpuFeatures struct {
	VendorID     string
	BrandString  string
	Family       uint32
	Model        uint32
	Stepping     uint32
	RDTSCP       bool
	InvariantTSC bool
	ConstantTSC  bool
}

func cpuFeaturesFrom(f cpufeatures.Features) CpuFeatures {
	return CpuFeatures{
		VendorID:     f.VendorID,
		BrandString:  f.BrandString,
		Family:       f.Family,
		Model:        f.Model,
		Stepping:     f.Stepping,
		RDTSCP:       f.RDTSCP,
		InvariantTSC: f.InvariantTSC,
		ConstantTSC:  f.ConstantTSC,
	}
}

// DiagnosticsSnapshot is a read-only, point-in-time copy of the process
// calibration, for tests and the demo CLIs to print without re-deriving
// internals.
type DiagnosticsSnapshot struct {
	Source              TimeSource
	TicksPerMicrosecond int64
	NanosecondsPerTick  float64
	UnixZeroShift       int64
	JiffySeconds        float64
	BoundsMin           int64
	BoundsMax           int64
	CPU                 CpuFeatures
	HPETFailReason      HPETFailReasonKind
}
