package ficha

import (
	"context"
	"time"
)

// Stabilization is the outcome of a stabilization wait.
type Stabilization int

// Stabilization outcomes. A timeout is an expected outcome, not an
// error: callers proceed with best-effort content.
const (
	StabilizeSettled Stabilization = iota
	StabilizeTimedOut
)

// String returns a human-readable name for logs.
func (s Stabilization) String() string {
	switch s {
	case StabilizeSettled:
		return "settled"
	case StabilizeTimedOut:
		return "timed_out"
	}
	return "unknown"
}

// MeasureFunc samples a proxy for rendered content size, such as an
// element's scroll height in pixels.
type MeasureFunc func(ctx context.Context) (int, error)

// StabilizeOptions configures WaitStable.
type StabilizeOptions struct {
	// Interval between samples.
	Interval time.Duration
	// StableSamples is the number of consecutive unchanged samples
	// required before the region counts as settled.
	StableSamples int
	// Timeout bounds the whole wait.
	Timeout time.Duration
}

// DefaultStabilizeOptions matches the source system's modal rendering
// behavior: sample every 300ms, settle after 3 equal samples, give up
// after 15s.
func DefaultStabilizeOptions() StabilizeOptions {
	return StabilizeOptions{
		Interval:      300 * time.Millisecond,
		StableSamples: 3,
		Timeout:       15 * time.Second,
	}
}

// WaitStable polls measure until the sampled value has been unchanged
// for opts.StableSamples consecutive samples, or until opts.Timeout
// elapses, whichever comes first. The counter resets on any change. A
// measure error also resets the counter; it is treated as a changed
// sample, not a failure. A region that never renders (measure always
// zero) settles at zero, so callers that care must distinguish
// "settled" from "settled and non-empty" themselves.
//
// Context cancellation is reported as a timeout: the wait has no error
// outcome at all.
func WaitStable(ctx context.Context, measure MeasureFunc, opts StabilizeOptions) Stabilization {
	if opts.Interval <= 0 {
		opts.Interval = DefaultStabilizeOptions().Interval
	}
	if opts.StableSamples <= 0 {
		opts.StableSamples = DefaultStabilizeOptions().StableSamples
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultStabilizeOptions().Timeout
	}

	deadline := time.NewTimer(opts.Timeout)
	defer deadline.Stop()
	tick := time.NewTicker(opts.Interval)
	defer tick.Stop()

	var last int
	var haveLast bool
	stable := 0

	for {
		value, err := measure(ctx)
		switch {
		case err != nil:
			stable = 0
			haveLast = false
		case !haveLast:
			// First observation primes the comparison only; it says
			// nothing about stability yet.
			last = value
			haveLast = true
			stable = 0
		case value == last:
			stable++
			if stable >= opts.StableSamples {
				return StabilizeSettled
			}
		default:
			// A new value starts its own streak of one.
			last = value
			stable = 1
			if stable >= opts.StableSamples {
				return StabilizeSettled
			}
		}

		select {
		case <-ctx.Done():
			return StabilizeTimedOut
		case <-deadline.C:
			return StabilizeTimedOut
		case <-tick.C:
		}
	}
}
