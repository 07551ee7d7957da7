// Package scheduler drives one time step at a time: clock toggling,
// the bounded combinational/sequential stabilization loop, and the
// end-of-tick housekeeping (spec §4.8).
package scheduler

import (
	"github.com/golang/glog"

	"github.com/shntn/hdlproto/hierarchy"
	"github.com/shntn/hdlproto/region"
	"github.com/shntn/hdlproto/signal"
	"github.com/shntn/hdlproto/simerror"
	"github.com/shntn/hdlproto/trace"
)

// Scheduler is the sole driver of simulation time over a built
// Design (spec §5: "the scheduler is the sole driver of time").
type Scheduler struct {
	design        *hierarchy.Design
	clock         *signal.Signal
	maxIterations int
	sink          trace.Sink
	tick          uint64

	// last holds each signal's committed value as of the previous
	// notify call, so notify can report only what changed since that
	// boundary. Seeded from the design's initial values in New so the
	// first step's "previous boundary" is the design's reset state,
	// not an empty map that would make every signal look changed.
	last map[*signal.Signal]uint64
}

// New constructs a Scheduler over d, toggling clk on each half-clock
// call. maxIterations <= 0 uses region.DefaultMaxIterations. A nil
// sink is replaced with trace.Discard{}, following console.New's
// plain-struct-literal construction style.
func New(d *hierarchy.Design, clk *signal.Signal, maxIterations int, sink trace.Sink) *Scheduler {
	if sink == nil {
		sink = trace.Discard{}
	}
	s := &Scheduler{design: d, clock: clk, maxIterations: maxIterations, sink: sink, last: map[*signal.Signal]uint64{}}
	for _, sig := range s.allSignals() {
		v, _ := sig.ReadBits(sig.Width()-1, 0)
		s.last[sig] = v
	}
	return s
}

// StepHalfClock advances the design by one clock edge: the full
// sequence of spec §4.8 steps 1-6.
func (s *Scheduler) StepHalfClock() error {
	all := s.allSignals()

	for _, sig := range all {
		sig.SnapshotCycle()
	}

	next := int64(0)
	if s.clock.Read() == 0 {
		next = 1
	}
	if err := s.clock.Write(next); err != nil {
		return err
	}
	s.clock.Commit()

	for _, p := range s.design.Sequential {
		p.ResetLatch()
	}

	iter := 0
	for {
		if iter >= s.effectiveMaxIterations() {
			return simerror.New(simerror.DidNotConverge, "", "", "scheduler stabilization loop did not converge after %d iteration(s)", iter)
		}
		for _, sig := range all {
			sig.SnapshotDelta()
		}
		if err := region.Active(s.design, s.maxIterations); err != nil {
			return err
		}
		region.NBA(s.design)

		changed := false
		for _, sig := range all {
			if sig.IsDeltaChanged() {
				changed = true
				break
			}
		}
		iter++
		if !changed {
			break
		}
	}
	glog.V(2).Infof("scheduler: tick %d settled after %d iteration(s)", s.tick, iter)

	s.design.Ctx.Clear()
	s.tick++
	s.notify()
	return nil
}

// StepClock advances the design by one full clock cycle: two edges,
// each running the complete scheduling sequence (spec §4.8: "A 'full
// clock' call performs step (2) twice ... with the full scheduling
// sequence each time").
func (s *Scheduler) StepClock() error {
	if err := s.StepHalfClock(); err != nil {
		return err
	}
	return s.StepHalfClock()
}

func (s *Scheduler) effectiveMaxIterations() int {
	if s.maxIterations <= 0 {
		return region.DefaultMaxIterations
	}
	return s.maxIterations
}

func (s *Scheduler) allSignals() []*signal.Signal {
	all := make([]*signal.Signal, 0, len(s.design.Wires)+len(s.design.Regs))
	all = append(all, s.design.Wires...)
	all = append(all, s.design.Regs...)
	return all
}

// notify reports only the signals whose committed value changed since
// the last call (spec §6: "signals whose committed value changed
// since the previous boundary"), not the full signal set.
func (s *Scheduler) notify() {
	all := s.allSignals()
	changes := make([]trace.Change, 0, len(all))
	for _, sig := range all {
		v, _ := sig.ReadBits(sig.Width()-1, 0)
		if v == s.last[sig] {
			continue
		}
		s.last[sig] = v
		changes = append(changes, trace.Change{Path: sig.Path(), Value: v, Width: sig.Width(), IsReg: sig.IsReg()})
	}
	s.sink.OnStep(s.tick, changes)
}
