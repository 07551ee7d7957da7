package signal

import "github.com/shntn/hdlproto/simerror"

// Direction is the port alias's access discipline over its target
// (spec §3 Port Alias).
type Direction int

const (
	// DirInput is read-only; writes are refused at construction and
	// at every call.
	DirInput Direction = iota
	// DirOutputWire is writable as a wire; the target must be a Wire.
	DirOutputWire
	// DirOutputReg is writable as a register; the target must be a Reg.
	DirOutputReg
)

func (d Direction) String() string {
	switch d {
	case DirInput:
		return "input"
	case DirOutputWire:
		return "output-wire"
	case DirOutputReg:
		return "output-reg"
	default:
		return "unknown"
	}
}

// Alias is a typed, directional view over a target Signaler (which
// may itself be another Alias — chains always resolve to the
// terminal Signal). Spec §4.2.
type Alias struct {
	path      string
	dir       Direction
	target    Signaler
	terminal  *Signal
}

// NewAlias constructs a port alias over target with the given
// direction, enforcing the direction/kind matching rules of spec §4.2
// and §9 (an output-reg alias over a wire, or an output-wire alias
// over a reg, is rejected at construction; OutputReg mandated as the
// only sanctioned way to drive a register from outside its module).
func NewAlias(path string, dir Direction, target Signaler) (*Alias, error) {
	terminal := target.Terminal()
	switch dir {
	case DirOutputWire:
		if terminal.IsReg() {
			return nil, simerror.New(simerror.PortKindMismatch, terminal.Path(), "", "output-wire alias %q cannot wrap a Reg; use an output-reg alias", path)
		}
	case DirOutputReg:
		if !terminal.IsReg() {
			return nil, simerror.New(simerror.PortKindMismatch, terminal.Path(), "", "output-reg alias %q cannot wrap a Wire; use an output-wire alias", path)
		}
	case DirInput:
		// Input aliases may wrap either kind; only writes are refused.
	default:
		return nil, simerror.New(simerror.PortKindMismatch, terminal.Path(), "", "unknown alias direction %v", dir)
	}
	return &Alias{path: path, dir: dir, target: target, terminal: terminal}, nil
}

func (a *Alias) Path() string        { return a.path }

// SetPath rewrites the alias's own name (not its target's). Used by
// hierarchy.Build once the owning module's module_path is known.
func (a *Alias) SetPath(path string) { a.path = path }
func (a *Alias) Width() int          { return a.terminal.Width() }
func (a *Alias) Signed() bool        { return a.terminal.Signed() }
func (a *Alias) IsReg() bool         { return a.terminal.IsReg() }
func (a *Alias) External() bool      { return a.terminal.External() }
func (a *Alias) Terminal() *Signal   { return a.terminal }
func (a *Alias) Direction() Direction { return a.dir }

func (a *Alias) Read() int64 { return a.target.Read() }

func (a *Alias) ReadBits(msb, lsb int) (uint64, error) { return a.target.ReadBits(msb, lsb) }

// Write stages a write through to the terminal signal. An input alias
// always refuses, per spec §4.2 ("Writes on an input alias are
// refused as a type error at attempt time").
func (a *Alias) Write(value int64) error {
	if a.dir == DirInput {
		return simerror.New(simerror.PortKindMismatch, a.terminal.Path(), "", "alias %q is an input and cannot be written", a.path)
	}
	return a.terminal.Write(value)
}

func (a *Alias) WriteBits(msb, lsb int, value int64) error {
	if a.dir == DirInput {
		return simerror.New(simerror.PortKindMismatch, a.terminal.Path(), "", "alias %q is an input and cannot be written", a.path)
	}
	return a.terminal.WriteBits(msb, lsb, value)
}

func (a *Alias) Commit()            { a.target.Commit() }
func (a *Alias) SnapshotCycle()     { a.target.SnapshotCycle() }
func (a *Alias) SnapshotDelta()     { a.target.SnapshotDelta() }
func (a *Alias) SnapshotEpsilon()   { a.target.SnapshotEpsilon() }
func (a *Alias) IsCycleChanged() bool   { return a.target.IsCycleChanged() }
func (a *Alias) IsDeltaChanged() bool   { return a.target.IsDeltaChanged() }
func (a *Alias) IsEpsilonChanged() bool { return a.target.IsEpsilonChanged() }
func (a *Alias) EdgeMatches(e Edge) bool { return a.target.EdgeMatches(e) }
