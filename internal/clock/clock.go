// Package clock provides a minimal wall-clock abstraction so polling loops
// can be driven by a fake time source in tests.
package clock

import "time"

// Clock supplies the current time and a blocking sleep.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

type systemClock struct{}

func (systemClock) Now() time.Time        { return time.Now() }
func (systemClock) Sleep(d time.Duration) { time.Sleep(d) }

// System returns a Clock backed by the runtime clock.
func System() Clock {
	return systemClock{}
}

// Fake is a deterministic Clock for tests. Sleep advances the fake time
// instantly, so polling loops run without real delays.
type Fake struct {
	now time.Time
}

// NewFake creates a Fake clock starting at the given time.
func NewFake(start time.Time) *Fake {
	return &Fake{now: start}
}

func (f *Fake) Now() time.Time { return f.now }

func (f *Fake) Sleep(d time.Duration) {
	if d > 0 {
		f.now = f.now.Add(d)
	}
}

// Advance moves the fake time forward without a Sleep call.
func (f *Fake) Advance(d time.Duration) {
	f.now = f.now.Add(d)
}
