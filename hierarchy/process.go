package hierarchy

import (
	"fmt"

	"github.com/shntn/hdlproto/signal"
)

// Kind distinguishes the two disjoint process variants (spec §3
// Process; Design Notes §9 "sum-typed process records").
type Kind int

const (
	Combinational Kind = iota
	Sequential
)

// TriggerSpec names an edge trigger by signal name, as written by the
// declarative surface; Build resolves Signal against the owning
// module's attributes (spec §4.3 step 4, dotted names supported).
type TriggerSpec struct {
	Edge   signal.Edge
	Signal string
}

// ResolvedTrigger is a TriggerSpec after name resolution.
type ResolvedTrigger struct {
	Edge   signal.Edge
	Target signal.Signaler
}

// Process is a combinational or sequential block bound to a module
// instance (spec §3 Process).
type Process struct {
	name   string
	module *Module
	kind   Kind
	fn     func()

	specs    []TriggerSpec
	triggers []ResolvedTrigger

	// latched marks that this process's triggered body has already run
	// for the current half-clock step. A half-clock's stabilization
	// loop re-snapshots and re-checks Fires every iteration so the
	// surrounding combinational net can keep settling, but the cycle
	// snapshot Fires tests against does not change across those
	// iterations — without this latch the same always_ff body would
	// re-run, and its register would re-commit, on every iteration
	// instead of once per edge.
	latched bool
}

// Path implements arbiter.ProcessRef: "<module_path>.<process_name>".
func (p *Process) Path() string { return fmt.Sprintf("%s.%s", p.module.path, p.name) }

// Name returns the process's declared name.
func (p *Process) Name() string { return p.name }

// Kind returns Combinational or Sequential.
func (p *Process) Kind() Kind { return p.kind }

// Fn returns the process body.
func (p *Process) Fn() func() { return p.fn }

// Triggers returns the resolved trigger list (populated after Build;
// empty before).
func (p *Process) Triggers() []ResolvedTrigger { return p.triggers }

// Fires reports whether this process's trigger list is satisfied in
// the current delta cycle (spec §4.4: the disjunction of its
// (edge, signal) pairs, each tested against the cycle snapshot).
func (p *Process) Fires() bool {
	for _, t := range p.triggers {
		if t.Target.IsCycleChanged() && t.Target.EdgeMatches(t.Edge) {
			return true
		}
	}
	return false
}

// ConsumeFire reports whether the process should run on this
// iteration of the NBA region: it fires and has not already fired
// this half-clock step. A true result latches the process so a later
// iteration of the same step's stabilization loop won't run it again.
func (p *Process) ConsumeFire() bool {
	if p.latched || !p.Fires() {
		return false
	}
	p.latched = true
	return true
}

// ResetLatch clears the once-per-half-clock fire latch. Called by the
// scheduler at the start of every half-clock step.
func (p *Process) ResetLatch() { p.latched = false }

// Comb registers a combinational (always_comb) process on m, run to a
// fixed point every delta cycle of the Active Region.
func (m *Module) Comb(name string, fn func()) *Process {
	p := &Process{name: name, module: m, kind: Combinational, fn: fn}
	m.processes = append(m.processes, p)
	return p
}

// Seq registers a sequential (always_ff) process on m with the given
// trigger specs. An empty trigger list is a declaration-time
// programmer error (spec §4.4: "Processes without triggers are
// rejected at declaration"), reported the same way
// mappers.RegisterMapper panics on a duplicate id: this is a mistake
// in the design's own source, not a runtime simulation failure.
func (m *Module) Seq(name string, triggers []TriggerSpec, fn func()) *Process {
	if len(triggers) == 0 {
		panic(fmt.Sprintf("hierarchy: always_ff %q on module %q declared with no triggers", name, m.name))
	}
	p := &Process{name: name, module: m, kind: Sequential, fn: fn, specs: triggers}
	m.processes = append(m.processes, p)
	return p
}
