package hpet

import "testing"

func TestFailReasonString(t *testing.T) {
	cases := map[FailReason]string{
		None:                 "none",
		Access:               "access",
		NotFound:             "not-found",
		TooManyOpenFiles:     "too-many-open-files",
		Busy:                 "busy",
		Fault:                "fault",
		ThirtyTwoBitCounter:  "32-bit-counter-rejected",
		Unknown:              "unknown",
		FailReason(99):       "unknown",
	}
	for reason, want := range cases {
		if got := reason.String(); got != want {
			t.Errorf("FailReason(%d).String() = %q, want %q", reason, got, want)
		}
	}
}

func TestOpenOnMissingDeviceDoesNotPanic(t *testing.T) {
	// Exercises the real Open() path. On a machine without /dev/hpet (or
	// without permission) this must return a non-None FailReason and a
	// nil *Device, never panic - this is a routine source-selection
	// input, not an error.
	dev, reason := Open()
	if dev == nil && reason == None {
		t.Fatalf("Open() returned nil Device but FailReason None")
	}
	if dev != nil {
		defer dev.Close()
	}
}
