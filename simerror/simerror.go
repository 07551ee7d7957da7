// Package simerror defines the closed set of failure kinds the
// simulation kernel can raise, along with the context needed for a
// user's test harness to point back at the offending declaration.
package simerror

import "fmt"

// Kind identifies one of the simulator's named failure modes.
type Kind int

const (
	IllegalCombWriteToReg Kind = iota
	IllegalSeqWriteToWire
	WriteOutsideProcess
	MultipleDrivers
	DidNotConverge
	InvalidRange
	UnknownTriggerSignal
	PortKindMismatch
	SignalWidthInvalid
)

var kindNames = map[Kind]string{
	IllegalCombWriteToReg: "IllegalCombWriteToReg",
	IllegalSeqWriteToWire: "IllegalSeqWriteToWire",
	WriteOutsideProcess:   "WriteOutsideProcess",
	MultipleDrivers:       "MultipleDrivers",
	DidNotConverge:        "DidNotConverge",
	InvalidRange:          "InvalidRange",
	UnknownTriggerSignal:  "UnknownTriggerSignal",
	PortKindMismatch:      "PortKindMismatch",
	SignalWidthInvalid:    "SignalWidthInvalid",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "Unknown"
}

// Error is the single error type every failure in the kernel is
// surfaced as. SignalPath and ProcessPath are populated when known;
// ProcessPath is empty for failures that aren't attributable to a
// single running process (e.g. DidNotConverge).
type Error struct {
	Kind        Kind
	SignalPath  string
	ProcessPath string
	Msg         string
}

func (e *Error) Error() string {
	switch {
	case e.SignalPath != "" && e.ProcessPath != "":
		return fmt.Sprintf("%s: %s (signal %q, process %q)", e.Kind, e.Msg, e.SignalPath, e.ProcessPath)
	case e.SignalPath != "":
		return fmt.Sprintf("%s: %s (signal %q)", e.Kind, e.Msg, e.SignalPath)
	default:
		return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
	}
}

// Is lets errors.Is(err, simerror.ErrIllegalCombWriteToReg) style checks
// work by comparing Kind against a target *Error with the same Kind
// and no path context, or by comparing two *Error values directly.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// New constructs an *Error of the given kind carrying signalPath (may
// be empty), processPath (may be empty), and a formatted message.
func New(kind Kind, signalPath, processPath, format string, args ...any) *Error {
	return &Error{
		Kind:        kind,
		SignalPath:  signalPath,
		ProcessPath: processPath,
		Msg:         fmt.Sprintf(format, args...),
	}
}

// Sentinel values usable with errors.Is to test only the Kind,
// ignoring path context, mirroring mos6502.go's package-level
// errors.New() sentinels.
var (
	ErrIllegalCombWriteToReg = &Error{Kind: IllegalCombWriteToReg}
	ErrIllegalSeqWriteToWire = &Error{Kind: IllegalSeqWriteToWire}
	ErrWriteOutsideProcess   = &Error{Kind: WriteOutsideProcess}
	ErrMultipleDrivers       = &Error{Kind: MultipleDrivers}
	ErrDidNotConverge        = &Error{Kind: DidNotConverge}
	ErrInvalidRange          = &Error{Kind: InvalidRange}
	ErrUnknownTriggerSignal  = &Error{Kind: UnknownTriggerSignal}
	ErrPortKindMismatch      = &Error{Kind: PortKindMismatch}
	ErrSignalWidthInvalid    = &Error{Kind: SignalWidthInvalid}
)
