package signal

// Signaler is satisfied by both *Signal and *Alias. Every operation
// an Alias exposes delegates to its terminal Signal; Terminal() is
// what the Write Arbiter and Active/NBA regions use to identify the
// underlying store regardless of how many aliases sit in front of it.
type Signaler interface {
	Path() string
	Width() int
	Signed() bool
	IsReg() bool
	External() bool
	Terminal() *Signal

	Read() int64
	ReadBits(msb, lsb int) (uint64, error)

	Commit()
	SnapshotCycle()
	SnapshotDelta()
	SnapshotEpsilon()
	IsCycleChanged() bool
	IsDeltaChanged() bool
	IsEpsilonChanged() bool
	EdgeMatches(Edge) bool
}

// Writable is the subset of Signaler that may be written. *Signal
// always implements it; *Alias implements it but returns
// simerror.PortKindMismatch-family errors at call time for an input
// direction, per spec §4.2.
type Writable interface {
	Signaler
	Write(value int64) error
	WriteBits(msb, lsb int, value int64) error
}

var (
	_ Signaler = (*Signal)(nil)
	_ Writable = (*Signal)(nil)
	_ Signaler = (*Alias)(nil)
	_ Writable = (*Alias)(nil)
)
