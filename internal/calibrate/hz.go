package calibrate

import "github.com/gregorsmith/hptimer/internal/osclock"

// busyWaitMicros is the fixed busy-poll window used during kernel-HZ
// discovery.
const busyWaitMicros = 14500

// hzClassCentihundredths are the empirical sentinel values (observed
// user-time delta in units of 100 microseconds) that correspond to
// kernels configured at HZ = 100, 250, 300, 1000 respectively. The magic
// numbers are empirical and would need recalibration on a different OS.
var hzClassCentihundredths = [4]struct {
	centihundredths float64
	hz              float64
}{
	{100, 100},
	{120, 250},
	{133, 300},
	{140, 1000},
}

// classTolerance is how close an observed sample must be to a sentinel
// to count as a vote for that HZ class.
const classTolerance = 4

// defaultHZ is used when no class reaches two votes within the trial
// budget.
const defaultHZ = 250

const maxHZTrials = 10

// discoverJiffySeconds empirically detects the kernel clock-interrupt
// rate and returns 1/HZ. It busy-polls the chosen source's counter (not
// necessarily the OS clock) so the timing matches what the sleep
// busy-wait tail will actually experience.
func discoverJiffySeconds(source TimeSource, env *Environment, nsPerTick float64) float64 {
	read := reader(source, env)

	votes := map[float64]int{}
	for trial := 0; trial < maxHZTrials; trial++ {
		before := osclock.ThreadCPUUserMicros()
		busyPollFor(read, busyWaitMicros, nsPerTick)
		after := osclock.ThreadCPUUserMicros()

		delta := float64(after - before)
		centihundredths := delta / 100

		for _, class := range hzClassCentihundredths {
			if abs(centihundredths-class.centihundredths) <= classTolerance {
				votes[class.hz]++
				if votes[class.hz] >= 2 {
					return 1.0 / class.hz
				}
				break
			}
		}
	}
	return 1.0 / defaultHZ
}

// busyPollFor spins on read() until approximately micros microseconds
// have elapsed, estimated from nsPerTick (the source's own tick rate,
// not the OS clock).
func busyPollFor(read func() int64, micros int64, nsPerTick float64) {
	if nsPerTick <= 0 {
		nsPerTick = 1
	}
	start := read()
	targetTicks := int64(float64(micros*1000) / nsPerTick)
	for read()-start < targetTicks {
	}
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
