// Package arbiter implements the Write Arbiter (spec §4.5): the
// per-tick gate that every signal write attempt passes through,
// enforcing phase legality and the single-driver invariant.
package arbiter

import (
	"strings"

	"github.com/golang/glog"
	"github.com/shntn/hdlproto/signal"
	"github.com/shntn/hdlproto/simerror"
)

// Phase identifies which region is currently executing a process.
type Phase int

const (
	PhaseActive Phase = iota
	PhaseNBA
)

func (p Phase) String() string {
	if p == PhaseNBA {
		return "nba"
	}
	return "active"
}

// ProcessRef identifies the process currently executing, for
// arbitration error messages and driver-set bookkeeping. hierarchy.Process
// implements this.
type ProcessRef interface {
	Path() string
}

// Context is the "current process" slot (Design Notes §9: "pass a
// reference-to-current-process into each process invocation, or
// maintain a shallow stack; either is fine. Processes never nest, so
// a single slot suffices") plus the per-tick write log. A *Context is
// attached to every Signal the Hierarchy Builder collects, via
// signal.Signal.SetGate.
type Context struct {
	current    ProcessRef
	hasCurrent bool
	phase      Phase

	log map[*signal.Signal]map[ProcessRef]bool
}

// NewContext returns an empty arbitration context.
func NewContext() *Context {
	return &Context{log: map[*signal.Signal]map[ProcessRef]bool{}}
}

// Enter marks the start of a process invocation under the given
// phase. Exit must be called before the next Enter; processes never
// nest, so there's exactly one slot.
func (c *Context) Enter(p ProcessRef, phase Phase) {
	c.current = p
	c.hasCurrent = true
	c.phase = phase
}

// Exit clears the current process, leaving subsequent writes to be
// treated as no-process (external) writes until the next Enter.
func (c *Context) Exit() {
	c.current = nil
	c.hasCurrent = false
}

func processPath(p ProcessRef) string {
	if p == nil {
		return ""
	}
	return p.Path()
}

// RecordWrite implements signal.WriteGate. It is invoked by a Signal
// on every write attempt, before the value is staged.
func (c *Context) RecordWrite(s *signal.Signal) error {
	// Rule 1: no-process writes permitted only on external signals.
	if !c.hasCurrent {
		if !s.External() {
			err := simerror.New(simerror.WriteOutsideProcess, s.Path(), "", "write to %q occurred outside any process and the signal is not external", s.Path())
			glog.V(1).Infof("arbiter: rejected %v", err)
			return err
		}
		return nil
	}

	// Rule 2: phase/kind legality.
	if s.IsReg() && c.phase == PhaseActive {
		err := simerror.New(simerror.IllegalCombWriteToReg, s.Path(), processPath(c.current), "register %q written from a combinational (active-phase) process", s.Path())
		glog.V(1).Infof("arbiter: rejected %v", err)
		return err
	}
	if !s.IsReg() && c.phase == PhaseNBA {
		err := simerror.New(simerror.IllegalSeqWriteToWire, s.Path(), processPath(c.current), "wire %q written from a sequential (nba-phase) process", s.Path())
		glog.V(1).Infof("arbiter: rejected %v", err)
		return err
	}

	// Rule 3: driver uniqueness.
	drivers, ok := c.log[s]
	if !ok {
		drivers = map[ProcessRef]bool{}
		c.log[s] = drivers
	}
	if drivers[c.current] {
		return nil // same process writing the same signal again: not a conflict
	}
	drivers[c.current] = true
	if len(drivers) > 1 {
		names := make([]string, 0, len(drivers))
		for p := range drivers {
			names = append(names, processPath(p))
		}
		err := simerror.New(simerror.MultipleDrivers, s.Path(), processPath(c.current), "multiple drivers for %q: %s", s.Path(), strings.Join(names, ", "))
		glog.V(1).Infof("arbiter: rejected %v", err)
		return err
	}
	return nil
}

// Clear resets the write log. Called by the Scheduler at the end of
// each user-visible tick (spec §4.5: "cleared at the end of each
// user-visible tick").
func (c *Context) Clear() {
	for k := range c.log {
		delete(c.log, k)
	}
}

// Empty reports whether the write log is empty — used by invariant
// checks in tests (spec §8: "Write Log is empty at step boundaries").
func (c *Context) Empty() bool { return len(c.log) == 0 }
