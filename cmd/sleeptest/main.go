// Command sleeptest measures the observed delay of repeated
// Timestamp.UsecSleep calls.
//
// Usage:
//
//	go run ./cmd/sleeptest --usec 10 --iterations 100000
package main

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/gregorsmith/hptimer"
	"github.com/gregorsmith/hptimer/internal/calibrate"
)

type sleeptestOptions struct {
	usec       int64
	iterations int
	verbose    bool
}

func newRootCommand() *cobra.Command {
	var opts sleeptestOptions

	cmd := &cobra.Command{
		Use:   "sleeptest",
		Short: "Benchmark observed delay of UsecSleep",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSleeptest(&opts)
		},
	}

	flags := cmd.Flags()
	flags.Int64Var(&opts.usec, "usec", 10, "microseconds to sleep per iteration")
	flags.IntVar(&opts.iterations, "iterations", 100_000, "number of sleep iterations")
	flags.BoolVar(&opts.verbose, "verbose", false, "print the last TSC calibration report, if the active source is TSC")
	return cmd
}

func runSleeptest(opts *sleeptestOptions) error {
	diag := hptimer.Diagnostics()
	logrus.WithFields(logrus.Fields{
		"source":                diag.Source.String(),
		"nanoseconds_per_tick":  diag.NanosecondsPerTick,
		"ticks_per_microsecond": diag.TicksPerMicrosecond,
	}).Info("sleeptest: starting")

	if opts.verbose {
		printTSCReport()
	}

	observed := make([]time.Duration, 0, opts.iterations)
	var ts hptimer.Timestamp
	for i := 0; i < opts.iterations; i++ {
		start := time.Now()
		if err := ts.UsecSleep(opts.usec); err != nil {
			return fmt.Errorf("sleeptest: iteration %d: %w", i, err)
		}
		observed = append(observed, time.Since(start))
	}

	sort.Slice(observed, func(i, j int) bool { return observed[i] < observed[j] })
	min := observed[0]
	median := observed[len(observed)/2]
	p99 := observed[int(float64(len(observed))*0.99)]

	fmt.Printf("requested: %d us, iterations: %d\n", opts.usec, opts.iterations)
	fmt.Printf("min:    %s\n", min)
	fmt.Printf("median: %s\n", median)
	fmt.Printf("p99:    %s\n", p99)
	return nil
}

// printTSCReport prints the retained detail of the most recent TSC
// frequency calibration trial set, for diagnosing an unexpected
// nanoseconds-per-tick choice. It is a no-op when the active source
// never ran TSC calibration.
func printTSCReport() {
	r := calibrate.LastTSCReport()
	if r == nil {
		fmt.Println("tsc report: unavailable (active source did not calibrate TSC)")
		return
	}
	fmt.Printf("tsc report: attempts=%d mean=%.6f stdev=%.6f\n", r.Attempts, r.Mean, r.Stdev)
	for i, s := range r.Samples {
		marker := ""
		if s.Outlier {
			marker = " (outlier, dropped)"
		}
		fmt.Printf("  sample %d: %.6f ns/tick%s\n", i, s.NanosecondsPerTick, marker)
	}
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		logrus.WithError(err).Error("sleeptest: failed")
		os.Exit(1)
	}
}
