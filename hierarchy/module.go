// Package hierarchy implements the Hierarchy Builder (spec §4.3): the
// single-pass walk that assigns names/paths to a declared module tree,
// collects its signals and processes, and binds sequential processes'
// trigger lists to the signals they name.
//
// Unlike the dropped Python prototype's attribute-scanning, modules
// here are built with explicit declaration calls (Design Notes §9),
// the same way bdwalton-gintendo's console.New wires up its cpu/ppu
// submodules by hand rather than via reflection.
package hierarchy

import (
	"fmt"

	"github.com/shntn/hdlproto/signal"
	"github.com/shntn/hdlproto/simerror"
)

// SignalSpec is the declarative surface's signal-construction request
// (spec §6: "Construction of signals with (kind ∈ {wire, reg}, width,
// signed?, init)").
type SignalSpec struct {
	Width    int
	Signed   bool
	Init     int64
	External bool // only meaningful on a TestBench module
}

// attrHolder lets trigger-name resolution walk through both *Module
// and *ModportInstance containers uniformly.
type attrHolder interface {
	getAttr(name string) (any, bool)
}

// Module is a node in the design tree (spec §3 Module).
type Module struct {
	name      string
	path      string
	parent    *Module
	testbench bool
	iface     bool

	children []*Module
	signals  []*signal.Signal
	arrays   []*signal.Array
	aliases  []*signal.Alias
	modports []*ModportInstance
	processes []*Process

	attrs      map[string]any
	localNames map[any]string
	built      bool
}

// NewModule constructs a fresh, unbuilt module named name. It has no
// parent until a call to (*Module).AddChild attaches it.
func NewModule(name string) *Module {
	return &Module{name: name, attrs: map[string]any{}, localNames: map[any]string{}}
}

// NewTestBench constructs the distinguished root module. Its path is
// fixed to "TestBench" by Build regardless of the name passed here
// (spec §4.3 step 1).
func NewTestBench(name string) *Module {
	m := NewModule(name)
	m.testbench = true
	return m
}

// NewInterface constructs a module whose sole role is to own signals
// for later Modport views (spec §3 Interface & Modport).
func NewInterface(name string) *Module {
	m := NewModule(name)
	m.iface = true
	return m
}

func (m *Module) getAttr(name string) (any, bool) {
	v, ok := m.attrs[name]
	return v, ok
}

func (m *Module) setAttr(name string, v any) error {
	if m.built {
		return fmt.Errorf("hierarchy: module %q is frozen; cannot declare %q after Build", m.path, name)
	}
	if _, exists := m.attrs[name]; exists {
		panic(fmt.Sprintf("hierarchy: %q already declared on module %q", name, m.name))
	}
	m.attrs[name] = v
	return nil
}

// Path returns the module's hierarchical path, valid after Build.
func (m *Module) Path() string { return m.path }

// Name returns the module's instance name (its attribute name in its
// parent, or its constructor name for the root).
func (m *Module) Name() string { return m.name }

// IsTestBench reports whether this is the distinguished root module.
func (m *Module) IsTestBench() bool { return m.testbench }

// AddChild attaches child as a named submodule of m, setting up the
// parent link the Builder will use to compute module_path.
func (m *Module) AddChild(name string, child *Module) (*Module, error) {
	if err := m.setAttr(name, child); err != nil {
		return nil, err
	}
	child.name = name
	child.parent = m
	m.children = append(m.children, child)
	return child, nil
}

func (m *Module) declareSignal(name string, kind signal.Kind, spec SignalSpec) (*signal.Signal, error) {
	// Path is a placeholder until Build computes this module's
	// module_path and renames every owned signal (signals are
	// declared before the tree around them has been walked).
	s, err := signal.New(name, kind, spec.Width, spec.Signed, spec.Init, spec.External)
	if err != nil {
		return nil, err
	}
	if err := m.setAttr(name, s); err != nil {
		return nil, err
	}
	m.signals = append(m.signals, s)
	m.localNames[s] = name
	return s, nil
}

// DeclareWire declares a combinational signal owned by m.
func (m *Module) DeclareWire(name string, spec SignalSpec) (*signal.Signal, error) {
	return m.declareSignal(name, signal.Wire, spec)
}

// DeclareReg declares a sequential signal owned by m.
func (m *Module) DeclareReg(name string, spec SignalSpec) (*signal.Signal, error) {
	return m.declareSignal(name, signal.Reg, spec)
}

// Wire is DeclareWire with just a width, the common case.
func (m *Module) Wire(name string, width int) (*signal.Signal, error) {
	return m.DeclareWire(name, SignalSpec{Width: width})
}

// Reg is DeclareReg with just a width, the common case.
func (m *Module) Reg(name string, width int) (*signal.Signal, error) {
	return m.DeclareReg(name, SignalSpec{Width: width})
}

// ExternalWire declares a testbench-driven wire writable from outside
// any process (spec §3 TestBench).
func (m *Module) ExternalWire(name string, width int) (*signal.Signal, error) {
	return m.DeclareWire(name, SignalSpec{Width: width, External: true})
}

func (m *Module) declareArray(name string, kind signal.Kind, count, width int, spec SignalSpec) (*signal.Array, error) {
	var arr *signal.Array
	var err error
	if kind == signal.Reg {
		arr, err = signal.NewRegArray(name, count, width, spec.Signed, spec.Init)
	} else {
		arr, err = signal.NewWireArray(name, count, width, spec.Signed, spec.Init)
	}
	if err != nil {
		return nil, err
	}
	if err := m.setAttr(name, arr); err != nil {
		return nil, err
	}
	m.arrays = append(m.arrays, arr)
	m.localNames[arr] = name
	return arr, nil
}

// WireArray declares an array of wires (spec §3 Signal Array).
func (m *Module) WireArray(name string, count, width int) (*signal.Array, error) {
	return m.declareArray(name, signal.Wire, count, width, SignalSpec{})
}

// RegArray declares an array of registers.
func (m *Module) RegArray(name string, count, width int) (*signal.Array, error) {
	return m.declareArray(name, signal.Reg, count, width, SignalSpec{})
}

func (m *Module) declareAlias(name string, dir signal.Direction, target signal.Signaler) (*signal.Alias, error) {
	al, err := signal.NewAlias(name, dir, target)
	if err != nil {
		return nil, err
	}
	if err := m.setAttr(name, al); err != nil {
		return nil, err
	}
	m.aliases = append(m.aliases, al)
	m.localNames[al] = name
	return al, nil
}

// Input declares a read-only alias over target.
func (m *Module) Input(name string, target signal.Signaler) (*signal.Alias, error) {
	return m.declareAlias(name, signal.DirInput, target)
}

// OutputWire declares a writable-as-wire alias over a Wire target.
func (m *Module) OutputWire(name string, target signal.Signaler) (*signal.Alias, error) {
	return m.declareAlias(name, signal.DirOutputWire, target)
}

// OutputReg declares a writable-as-register alias over a Reg target.
func (m *Module) OutputReg(name string, target signal.Signaler) (*signal.Alias, error) {
	return m.declareAlias(name, signal.DirOutputReg, target)
}

func (m *Module) declareAliasArray(name string, dir signal.Direction, target *signal.Array) (*signal.Array, error) {
	arr, err := signal.NewAliasArray(name, dir, target)
	if err != nil {
		return nil, err
	}
	if err := m.setAttr(name, arr); err != nil {
		return nil, err
	}
	m.arrays = append(m.arrays, arr)
	m.localNames[arr] = name
	return arr, nil
}

// InputArray, OutputWireArray, OutputRegArray are the array forms of
// Input/OutputWire/OutputReg.
func (m *Module) InputArray(name string, target *signal.Array) (*signal.Array, error) {
	return m.declareAliasArray(name, signal.DirInput, target)
}

func (m *Module) OutputWireArray(name string, target *signal.Array) (*signal.Array, error) {
	return m.declareAliasArray(name, signal.DirOutputWire, target)
}

func (m *Module) OutputRegArray(name string, target *signal.Array) (*signal.Array, error) {
	return m.declareAliasArray(name, signal.DirOutputReg, target)
}

// resolve walks a dotted attribute chain ("foo.bar") starting at m,
// returning the Signaler it names, or simerror.UnknownTriggerSignal.
func (m *Module) resolve(path string) (signal.Signaler, error) {
	sig, ok := resolveAttr(m, path)
	if !ok {
		return nil, simerror.New(simerror.UnknownTriggerSignal, path, "", "trigger signal %q does not resolve against module %q", path, m.path)
	}
	return sig, nil
}

func resolveAttr(root attrHolder, path string) (signal.Signaler, bool) {
	parts := splitDotted(path)
	var cur any = root
	for i, part := range parts {
		holder, ok := cur.(attrHolder)
		if !ok {
			return nil, false
		}
		val, ok := holder.getAttr(part)
		if !ok {
			return nil, false
		}
		if i == len(parts)-1 {
			sig, ok := val.(signal.Signaler)
			return sig, ok
		}
		cur = val
	}
	return nil, false
}

func splitDotted(path string) []string {
	var parts []string
	start := 0
	for i := 0; i < len(path); i++ {
		if path[i] == '.' {
			parts = append(parts, path[start:i])
			start = i + 1
		}
	}
	parts = append(parts, path[start:])
	return parts
}
