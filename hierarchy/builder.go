package hierarchy

import (
	"fmt"

	"github.com/shntn/hdlproto/arbiter"
	"github.com/shntn/hdlproto/signal"
)

// Design is the frozen, flattened result of Build: every signal and
// process in the tree, ready for the Active/NBA regions and the
// Scheduler to iterate over in declaration order.
type Design struct {
	Root *Module
	Ctx  *arbiter.Context

	Wires []*signal.Signal
	Regs  []*signal.Signal

	Combinational []*Process
	Sequential    []*Process
}

// Build performs the single hierarchy pass (spec §4.3): assigns
// module paths, renames every owned signal/alias to its final
// hierarchical name, resolves sequential triggers, attaches the write
// gate to every signal, and freezes the tree against further
// declarations.
func Build(tb *Module) (*Design, error) {
	if !tb.testbench {
		return nil, fmt.Errorf("hierarchy: Build requires a TestBench root, got module %q", tb.name)
	}
	tb.path = "TestBench"

	d := &Design{Root: tb, Ctx: arbiter.NewContext()}
	seen := map[*signal.Signal]bool{}
	var modportInstances []*ModportInstance

	var walk func(m *Module) error
	walk = func(m *Module) error {
		renamePaths(m)
		modportInstances = append(modportInstances, m.modports...)

		for _, s := range m.signals {
			if seen[s] {
				continue
			}
			seen[s] = true
			s.SetGate(d.Ctx)
			if s.IsReg() {
				d.Regs = append(d.Regs, s)
			} else {
				d.Wires = append(d.Wires, s)
			}
		}
		for _, arr := range m.arrays {
			for _, sig := range arr.Signals() {
				if seen[sig] {
					continue
				}
				seen[sig] = true
				sig.SetGate(d.Ctx)
				if sig.IsReg() {
					d.Regs = append(d.Regs, sig)
				} else {
					d.Wires = append(d.Wires, sig)
				}
			}
		}

		for _, p := range m.processes {
			if p.kind == Sequential {
				resolved := make([]ResolvedTrigger, 0, len(p.specs))
				for _, spec := range p.specs {
					target, err := m.resolve(spec.Signal)
					if err != nil {
						return err
					}
					resolved = append(resolved, ResolvedTrigger{Edge: spec.Edge, Target: target})
				}
				p.triggers = resolved
				d.Sequential = append(d.Sequential, p)
			} else {
				d.Combinational = append(d.Combinational, p)
			}
		}

		m.built = true
		for _, child := range m.children {
			if err := walk(child); err != nil {
				return err
			}
		}
		return nil
	}

	if err := walk(tb); err != nil {
		return nil, err
	}

	for _, mi := range modportInstances {
		if !mi.iface.built {
			return nil, fmt.Errorf("hierarchy: modport instance %q copies interface %q, which is not attached anywhere in the design tree (use AddChild to instantiate it, same as any other module)", mi.name, mi.iface.name)
		}
	}

	return d, nil
}

// renamePaths rewrites every signal/array/alias/modport-alias m owns
// from its declaration-time local name to "<m.path>.<local name>".
func renamePaths(m *Module) {
	for _, s := range m.signals {
		s.SetPath(fmt.Sprintf("%s.%s", m.path, m.localNames[s]))
	}
	for _, arr := range m.arrays {
		arr.Rebase(fmt.Sprintf("%s.%s", m.path, m.localNames[arr]))
	}
	for _, al := range m.aliases {
		al.SetPath(fmt.Sprintf("%s.%s", m.path, m.localNames[al]))
	}
	for _, mi := range m.modports {
		for _, port := range mi.ports {
			if al, ok := port.(*signal.Alias); ok {
				al.SetPath(fmt.Sprintf("%s.%s", m.path, m.localNames[al]))
			}
		}
	}
	for _, child := range m.children {
		child.path = fmt.Sprintf("%s.%s", m.path, child.name)
	}
}
