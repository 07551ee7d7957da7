package signal

import (
	"fmt"

	"github.com/shntn/hdlproto/simerror"
)

// Array is an ordered, fixed-length sequence of signals (or aliases)
// with identical width and kind. Element i is itself a first-class
// Signaler named "<base>[i]" with its own snapshots (spec §3 Signal
// Array).
type Array struct {
	items []Signaler
}

// Len returns the number of elements.
func (a *Array) Len() int { return len(a.items) }

// At returns element i as a Signaler. arr[i, bit_range] per spec is
// expressed by the caller as a.At(i).ReadBits(msb, lsb).
func (a *Array) At(i int) (Signaler, error) {
	if i < 0 || i >= len(a.items) {
		return nil, simerror.New(simerror.InvalidRange, "", "", "array index %d out of bounds (len %d)", i, len(a.items))
	}
	return a.items[i], nil
}

// All returns every element in order, for iteration by the Hierarchy
// Builder and the Active/NBA regions.
func (a *Array) All() []Signaler { return a.items }

func expandInit(count int, init []int64) []int64 {
	out := make([]int64, count)
	for i := range out {
		if i < len(init) {
			out[i] = init[i]
		}
	}
	return out
}

// NewWireArray builds count wires of the given width, named
// "<base>[0]".."<base>[count-1]". init supplies per-element initial
// values; a short or empty init pads the remainder with zero.
func NewWireArray(base string, count, width int, signed bool, init ...int64) (*Array, error) {
	vals := expandInit(count, init)
	items := make([]Signaler, count)
	for i := 0; i < count; i++ {
		s, err := New(fmt.Sprintf("%s[%d]", base, i), Wire, width, signed, vals[i], false)
		if err != nil {
			return nil, err
		}
		items[i] = s
	}
	return &Array{items: items}, nil
}

// NewRegArray builds count registers, same shape as NewWireArray.
func NewRegArray(base string, count, width int, signed bool, init ...int64) (*Array, error) {
	vals := expandInit(count, init)
	items := make([]Signaler, count)
	for i := 0; i < count; i++ {
		s, err := New(fmt.Sprintf("%s[%d]", base, i), Reg, width, signed, vals[i], false)
		if err != nil {
			return nil, err
		}
		items[i] = s
	}
	return &Array{items: items}, nil
}

// NewAliasArray builds one alias per element of target with the given
// direction, named "<base>[i]".
func NewAliasArray(base string, dir Direction, target *Array) (*Array, error) {
	items := make([]Signaler, target.Len())
	for i, t := range target.items {
		al, err := NewAlias(fmt.Sprintf("%s[%d]", base, i), dir, t)
		if err != nil {
			return nil, err
		}
		items[i] = al
	}
	return &Array{items: items}, nil
}

// Rebase renames every element to "<newBase>[i]". Used by
// hierarchy.Build once a module's module_path is known, since arrays
// are declared before the tree they live in has been walked.
func (a *Array) Rebase(newBase string) {
	for i, it := range a.items {
		path := fmt.Sprintf("%s[%d]", newBase, i)
		switch v := it.(type) {
		case *Signal:
			v.SetPath(path)
		case *Alias:
			v.SetPath(path)
		}
	}
}

// Signals returns every *Signal terminal reachable from the array
// (one per element, regardless of whether elements are aliases),
// de-duplicated by pointer identity is the caller's responsibility —
// callers collecting into a SignalList should use the terminal's
// pointer as the dedupe key, since two arrays of aliases can share
// target elements.
func (a *Array) Signals() []*Signal {
	out := make([]*Signal, len(a.items))
	for i, it := range a.items {
		out[i] = it.Terminal()
	}
	return out
}
