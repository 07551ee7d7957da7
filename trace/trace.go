// Package trace defines the observer hook the Scheduler notifies
// after each completed time-step (spec §6), decoupling the kernel
// from any particular waveform or logging format.
package trace

// Change describes one signal's value at the end of a time-step.
type Change struct {
	Path  string
	Value uint64
	Width int
	IsReg bool
}

// Sink is notified after every settled time-step with only the
// signals whose committed value changed since the previous
// notification (an empty slice when nothing changed). The Scheduler
// allocates a fresh slice for every call.
type Sink interface {
	OnStep(tick uint64, changes []Change)
}

// Discard is a Sink that does nothing, the default when a caller has
// no waveform or logging consumer wired up.
type Discard struct{}

func (Discard) OnStep(tick uint64, changes []Change) {}

var _ Sink = Discard{}
