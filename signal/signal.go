// Package signal implements the simulation kernel's Signal Store: the
// raw bit-level value of one multi-bit scalar, its staged pending
// write, and the three independent snapshot slots used for edge
// detection and fixed-point convergence.
package signal

import (
	"fmt"

	"github.com/shntn/hdlproto/simerror"
)

// Kind distinguishes a wire (combinational, commits in the Active
// Region) from a register (sequential, commits in the NBA Region).
type Kind int

const (
	Wire Kind = iota
	Reg
)

func (k Kind) String() string {
	if k == Reg {
		return "reg"
	}
	return "wire"
}

// Edge is a transition direction an always_ff trigger watches for.
type Edge int

const (
	Pos Edge = iota
	Neg
)

func (e Edge) String() string {
	if e == Neg {
		return "neg"
	}
	return "pos"
}

// WriteGate is consulted on every write attempt before the value is
// staged. hierarchy.Build wires a *arbiter.Context into every Signal
// it collects; Signal itself never imports arbiter, keeping the
// dependency one-directional.
type WriteGate interface {
	RecordWrite(s *Signal) error
}

type edgeSnapshot struct {
	captured uint64
	set      bool
}

func (s *edgeSnapshot) capture(v uint64) {
	s.captured = v
	s.set = true
}

func (s *edgeSnapshot) changed(v uint64) bool {
	return !s.set || v != s.captured
}

func (s *edgeSnapshot) isPosEdge(v uint64) bool {
	return s.set && s.captured == 0 && v != 0
}

func (s *edgeSnapshot) isNegEdge(v uint64) bool {
	return s.set && s.captured != 0 && v == 0
}

// Signal is one multi-bit scalar: the fundamental unit of the Signal
// Store (spec §4.1).
type Signal struct {
	path     string
	kind     Kind
	width    int
	signed   bool
	external bool

	committed  uint64
	pending    uint64
	hasPending bool

	cycle, delta, epsilon edgeSnapshot

	gate WriteGate
}

func mask(width int) uint64 {
	if width >= 64 {
		return ^uint64(0)
	}
	return (uint64(1) << uint(width)) - 1
}

// New constructs a Signal of the given kind, width, signedness and
// initial value. signed && width == 1 is rejected per spec §3.
func New(path string, kind Kind, width int, signed bool, init int64, external bool) (*Signal, error) {
	if width < 1 {
		return nil, simerror.New(simerror.SignalWidthInvalid, path, "", "width must be >= 1, got %d", width)
	}
	if signed && width == 1 {
		return nil, simerror.New(simerror.SignalWidthInvalid, path, "", "signed width-1 signal is not allowed")
	}
	s := &Signal{
		path:     path,
		kind:     kind,
		width:    width,
		signed:   signed,
		external: external,
	}
	v := uint64(init) & mask(width)
	s.committed = v
	s.cycle.capture(v)
	s.delta.capture(v)
	s.epsilon.capture(v)
	return s, nil
}

// SetGate attaches the write gate used to enforce phase legality and
// driver uniqueness. Called once by hierarchy.Build during the single
// hierarchy pass.
func (s *Signal) SetGate(gate WriteGate) { s.gate = gate }

// Path returns the signal's hierarchical name.
func (s *Signal) Path() string { return s.path }

// SetPath rewrites the signal's hierarchical name. Used by
// hierarchy.Build once a module's module_path is known, since signals
// are declared before the tree they live in has been walked.
func (s *Signal) SetPath(path string) { s.path = path }

// Width returns the immutable bit width.
func (s *Signal) Width() int { return s.width }

// Signed reports whether reads sign-extend the committed value.
func (s *Signal) Signed() bool { return s.signed }

// IsReg reports whether this signal commits in the NBA region.
func (s *Signal) IsReg() bool { return s.kind == Reg }

// External reports whether this signal may be written from outside
// any process (e.g. a TestBench-declared externally driven wire).
func (s *Signal) External() bool { return s.external }

// Terminal returns the Signal itself; it exists so Signal satisfies
// the same Signaler interface as Alias, whose Terminal() resolves a
// chain of aliases down to the underlying Signal.
func (s *Signal) Terminal() *Signal { return s }

// Read returns the committed value, sign-extended when Signed().
func (s *Signal) Read() int64 {
	if !s.signed {
		return int64(s.committed)
	}
	signBit := uint64(1) << uint(s.width-1)
	if s.committed&signBit == 0 {
		return int64(s.committed)
	}
	return int64(s.committed | ^mask(s.width))
}

func normalizeRange(msb, lsb, width int) (int, int, error) {
	if msb < lsb {
		msb, lsb = lsb, msb
	}
	if msb >= width || lsb < 0 {
		return 0, 0, simerror.New(simerror.InvalidRange, "", "", "bit range [%d:%d] out of bounds for width %d", msb, lsb, width)
	}
	return msb, lsb, nil
}

// ReadBits returns the unsigned bits [msb:lsb] (msb/lsb may be given
// in either order) of the committed value.
func (s *Signal) ReadBits(msb, lsb int) (uint64, error) {
	msb, lsb, err := normalizeRange(msb, lsb, s.width)
	if err != nil {
		err.(*simerror.Error).SignalPath = s.path
		return 0, err
	}
	return (s.committed >> uint(lsb)) & mask(msb-lsb+1), nil
}

// Write stages value (masked to width, two's-complement for negative
// values) as pending. Per spec §4.1, reads never observe pending.
func (s *Signal) Write(value int64) error {
	if s.gate != nil {
		if err := s.gate.RecordWrite(s); err != nil {
			return err
		}
	}
	s.pending = uint64(value) & mask(s.width)
	s.hasPending = true
	return nil
}

// WriteBits merges value into pending at bits [msb:lsb], preserving
// every other bit of pending (or of committed, if nothing has been
// written to pending yet this tick).
func (s *Signal) WriteBits(msb, lsb int, value int64) error {
	msb, lsb, err := normalizeRange(msb, lsb, s.width)
	if err != nil {
		err.(*simerror.Error).SignalPath = s.path
		return err
	}
	if s.gate != nil {
		if gerr := s.gate.RecordWrite(s); gerr != nil {
			return gerr
		}
	}
	base := s.committed
	if s.hasPending {
		base = s.pending
	}
	width := msb - lsb + 1
	sliceMask := mask(width)
	shifted := (uint64(value) & sliceMask) << uint(lsb)
	s.pending = (base &^ (sliceMask << uint(lsb))) | shifted
	s.hasPending = true
	return nil
}

// Commit replaces committed with pending, if any pending write is
// staged. Idempotent when nothing is pending.
func (s *Signal) Commit() {
	if !s.hasPending {
		return
	}
	s.committed = s.pending
	s.hasPending = false
}

// HasPending reports whether a write is staged but not yet committed.
// Exposed for invariant checks (spec §8: pending is empty at step
// boundaries).
func (s *Signal) HasPending() bool { return s.hasPending }

func (s *Signal) SnapshotCycle()   { s.cycle.capture(s.committed) }
func (s *Signal) SnapshotDelta()   { s.delta.capture(s.committed) }
func (s *Signal) SnapshotEpsilon() { s.epsilon.capture(s.committed) }

func (s *Signal) IsCycleChanged() bool   { return s.cycle.changed(s.committed) }
func (s *Signal) IsDeltaChanged() bool   { return s.delta.changed(s.committed) }
func (s *Signal) IsEpsilonChanged() bool { return s.epsilon.changed(s.committed) }

// EdgeMatches reports whether the signal transitioned in the given
// direction between the last cycle snapshot and the current value.
func (s *Signal) EdgeMatches(edge Edge) bool {
	switch edge {
	case Pos:
		return s.cycle.isPosEdge(s.committed)
	case Neg:
		return s.cycle.isNegEdge(s.committed)
	default:
		return false
	}
}

func (s *Signal) String() string {
	return fmt.Sprintf("%s(%s, width=%d)=%d", s.path, s.kind, s.width, s.committed)
}
