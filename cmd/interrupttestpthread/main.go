// Command interrupttestpthread measures cross-goroutine wake latency of
// Timestamp.Interrupt against a long Timestamp.UsecSleep, mirroring the
// original InterruptTestPthread harness.
//
// Usage:
//
//	go run ./cmd/interrupttestpthread --delay 500ms --sleep-usec 5000000
package main

import (
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/gregorsmith/hptimer"
)

type interruptTestOptions struct {
	delay     time.Duration
	sleepUsec int64
}

func newRootCommand() *cobra.Command {
	var opts interruptTestOptions

	cmd := &cobra.Command{
		Use:   "interrupttestpthread",
		Short: "Measure Interrupt() wake latency against UsecSleep",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInterruptTest(&opts)
		},
	}

	flags := cmd.Flags()
	flags.DurationVar(&opts.delay, "delay", 500*time.Millisecond, "delay before calling Interrupt()")
	flags.Int64Var(&opts.sleepUsec, "sleep-usec", 5_000_000, "microseconds the sleeper requests")
	return cmd
}

func runInterruptTest(opts *interruptTestOptions) error {
	var ts hptimer.Timestamp
	done := make(chan time.Duration, 1)

	start := make(chan struct{})
	go func() {
		<-start
		sleepStart := time.Now()
		_ = ts.UsecSleep(opts.sleepUsec)
		done <- time.Since(sleepStart)
	}()

	close(start)
	time.Sleep(opts.delay)

	interruptedAt := time.Now()
	ts.Interrupt()

	elapsedSleep := <-done
	wakeLatency := time.Since(interruptedAt)

	logrus.WithFields(logrus.Fields{
		"requested_delay": opts.delay,
		"requested_sleep": time.Duration(opts.sleepUsec) * time.Microsecond,
		"actual_sleep":    elapsedSleep,
		"wake_latency":    wakeLatency,
	}).Info("interrupttestpthread: done")
	return nil
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		logrus.WithError(err).Error("interrupttestpthread: failed")
		os.Exit(1)
	}
}
