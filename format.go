package hptimer

import (
	"fmt"
	"strconv"
	"time"
)

// PrintTime renders t in one of two display modes:
//
//   - rawTics == true: the raw 64-bit tick count, ignoring unixTime.
//   - rawTics == false, unixTime == true: "seconds.nnnnnnnnn" Unix time,
//     with a leading '-' for negative values.
//   - rawTics == false, unixTime == false: "YYYY-MM-DD HH:MM:SS.nnnnnnnnn"
//     via local-time decomposition (positive values only).
func (t *Timestamp) PrintTime(rawTics, unixTime bool) string {
	if rawTics {
		return strconv.FormatInt(t.tics, 10)
	}

	t.ensureNormalized()

	if unixTime {
		sign := ""
		if t.sign {
			sign = "-"
		}
		return fmt.Sprintf("%s%d.%09d", sign, t.seconds, t.nanoseconds)
	}

	local := time.Unix(t.seconds, 0).Local()
	return fmt.Sprintf("%04d-%02d-%02d %02d:%02d:%02d.%09d",
		local.Year(), int(local.Month()), local.Day(),
		local.Hour(), local.Minute(), local.Second(), t.nanoseconds)
}

// String renders t in Unix-time mode ("seconds.nnnnnnnnn"), satisfying
// fmt.Stringer.
func (t Timestamp) String() string {
	return t.PrintTime(false, true)
}

// GoString renders t in raw-ticks mode, for %#v in tests and debug
// printing; it introduces no formatting beyond PrintTime's two required
// modes.
func (t Timestamp) GoString() string {
	return t.PrintTime(true, false)
}
