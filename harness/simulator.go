// Package harness implements the Test-Harness Adapter (spec §4.9):
// the synchronous Go API a test calls into — clock stepping, named
// testcase dispatch, and signal inspection/drive — that sits in front
// of the scheduler, hierarchy and arbiter packages.
package harness

import (
	"fmt"

	"github.com/shntn/hdlproto/hierarchy"
	"github.com/shntn/hdlproto/scheduler"
	"github.com/shntn/hdlproto/simerror"
	"github.com/shntn/hdlproto/trace"
)

// Testcase is a user test method: it receives the Simulator as its
// handle, so its own clocking calls route through the same Scheduler
// as everything else.
type Testcase func(*Simulator) error

// Simulator is the handle a test program drives: one built Design
// plus the Scheduler wired to its designated clock.
type Simulator struct {
	design *hierarchy.Design
	sched  *scheduler.Scheduler

	names     []string
	testcases map[string]Testcase
}

// NewSimulator builds testbench via hierarchy.Build and wires a
// Scheduler to clockPath. maxIterations <= 0 uses the scheduler
// package's default; a nil sink discards trace output.
func NewSimulator(testbench *hierarchy.Module, clockPath string, maxIterations int, sink trace.Sink) (*Simulator, error) {
	d, err := hierarchy.Build(testbench)
	if err != nil {
		return nil, err
	}
	clockSignaler, err := hierarchy.Resolve(d.Root, clockPath)
	if err != nil {
		return nil, err
	}
	sched := scheduler.New(d, clockSignaler.Terminal(), maxIterations, sink)
	return &Simulator{design: d, sched: sched, testcases: map[string]Testcase{}}, nil
}

// RegisterTestcase attaches a named testcase, callable later via
// RunTestcase(name) or RunTestcase("all"). Registering the same name
// twice is a programmer error, caught the same way
// mappers.RegisterMapper panics on a duplicate id.
func (s *Simulator) RegisterTestcase(name string, tc Testcase) {
	if _, exists := s.testcases[name]; exists {
		panic(fmt.Sprintf("harness: testcase %q already registered", name))
	}
	s.testcases[name] = tc
	s.names = append(s.names, name)
}

// RunTestcase invokes the named testcase, or every registered
// testcase in registration order when name is "all".
func (s *Simulator) RunTestcase(name string) error {
	if name == "all" {
		for _, n := range s.names {
			if err := s.testcases[n](s); err != nil {
				return fmt.Errorf("testcase %q: %w", n, err)
			}
		}
		return nil
	}
	tc, ok := s.testcases[name]
	if !ok {
		return fmt.Errorf("harness: no testcase registered with name %q", name)
	}
	return tc(s)
}

// StepClock advances the design by one full clock cycle (two edges).
func (s *Simulator) StepClock() error { return s.sched.StepClock() }

// StepHalfClock advances the design by a single clock edge.
func (s *Simulator) StepHalfClock() error { return s.sched.StepHalfClock() }

// Inspect reads the committed value of the signal named by path,
// sign-extended if the signal is declared signed.
func (s *Simulator) Inspect(path string) (int64, error) {
	sig, err := hierarchy.Resolve(s.design.Root, path)
	if err != nil {
		return 0, err
	}
	return sig.Read(), nil
}

// Drive writes value to the external signal named by path, bypassing
// process-phase checks but still subject to arbiter rule 1 (spec
// §4.9: only signals classified external accept drives from outside a
// process), then commits it immediately so the next step observes it.
func (s *Simulator) Drive(path string, value int64) error {
	sig, err := hierarchy.Resolve(s.design.Root, path)
	if err != nil {
		return err
	}
	terminal := sig.Terminal()
	if !terminal.External() {
		return simerror.New(simerror.WriteOutsideProcess, terminal.Path(), "", "drive target %q is not declared external", terminal.Path())
	}
	if err := terminal.Write(value); err != nil {
		return err
	}
	terminal.Commit()
	return nil
}
