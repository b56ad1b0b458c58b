package sealer

import (
	"time"

	"github.com/labautomata/go-sealer/logger"
)

// condition reports whether an awaited device state has been reached. The
// reason string describes why the condition is still failing and is carried
// into the timeout error; it may be empty. A non-nil error aborts the wait
// immediately.
type condition func() (ok bool, reason string, err error)

// waitSpec parameterizes one polling wait: its name (used in log lines and
// timeout errors), cadence, budget, and whether reason changes are logged.
type waitSpec struct {
	name       string
	interval   time.Duration
	timeout    time.Duration
	logReasons bool
}

// waitUntil polls cond until it succeeds or the timeout budget is exhausted.
//
// The condition is checked immediately, so an already-satisfied wait returns
// with no delay. Elapsed time is wall clock measured from this call's start;
// nested waits do not inherit or compose budgets. On timeout the returned
// *TimeoutError carries the last observed failure reason.
func waitUntil(clk Clock, log logger.Logger, spec waitSpec, cond condition) error {
	start := clk.Now()
	lastReason := ""

	for {
		ok, reason, err := cond()
		if err != nil {
			return err
		}
		if ok {
			return nil
		}

		if spec.logReasons && reason != "" && reason != lastReason {
			log.Info("waiting on device", "wait", spec.name, "state", reason)
		}
		if reason != "" {
			lastReason = reason
		}

		elapsed := clk.Now().Sub(start)
		if elapsed >= spec.timeout {
			return &TimeoutError{Wait: spec.name, Elapsed: elapsed, LastReason: lastReason}
		}

		clk.Sleep(spec.interval)
	}
}
