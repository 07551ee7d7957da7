package signal

import "testing"

func TestAliasPortKindMismatch(t *testing.T) {
	w, err := New("w", Wire, 4, false, 0, false)
	if err != nil {
		t.Fatalf("New wire: %v", err)
	}
	r, err := New("r", Reg, 4, false, 0, false)
	if err != nil {
		t.Fatalf("New reg: %v", err)
	}

	cases := []struct {
		name    string
		dir     Direction
		target  *Signal
		wantErr bool
	}{
		{"output-wire over wire", DirOutputWire, w, false},
		{"output-wire over reg", DirOutputWire, r, true},
		{"output-reg over reg", DirOutputReg, r, false},
		{"output-reg over wire", DirOutputReg, w, true},
		{"input over wire", DirInput, w, false},
		{"input over reg", DirInput, r, false},
	}

	for i, tc := range cases {
		_, err := NewAlias("a", tc.dir, tc.target)
		if (err != nil) != tc.wantErr {
			t.Errorf("%d (%s): got err=%v, wantErr=%t", i, tc.name, err, tc.wantErr)
		}
	}
}

func TestAliasDelegatesReadWrite(t *testing.T) {
	w, err := New("w", Wire, 8, false, 0, false)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	al, err := NewAlias("a", DirOutputWire, w)
	if err != nil {
		t.Fatalf("NewAlias: %v", err)
	}
	if err := al.Write(42); err != nil {
		t.Fatalf("Write: %v", err)
	}
	al.Commit()
	if got := w.Read(); got != 42 {
		t.Errorf("got %d, want 42", got)
	}
	if got := al.Read(); got != 42 {
		t.Errorf("alias read got %d, want 42", got)
	}
}

func TestAliasInputRefusesWrite(t *testing.T) {
	w, err := New("w", Wire, 8, false, 0, false)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	al, err := NewAlias("a", DirInput, w)
	if err != nil {
		t.Fatalf("NewAlias: %v", err)
	}
	if err := al.Write(1); err == nil {
		t.Errorf("input alias should refuse Write")
	}
}

func TestChainedAliasPreservesTerminal(t *testing.T) {
	r, err := New("r", Reg, 4, false, 0, false)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	inner, err := NewAlias("inner", DirOutputReg, r)
	if err != nil {
		t.Fatalf("NewAlias inner: %v", err)
	}
	outer, err := NewAlias("outer", DirOutputReg, inner)
	if err != nil {
		t.Fatalf("NewAlias outer: %v", err)
	}
	if outer.Terminal() != r {
		t.Errorf("chained alias terminal should be the underlying Signal")
	}
	if outer.Width() != r.Width() || outer.IsReg() != r.IsReg() {
		t.Errorf("chained alias should preserve width and kind")
	}
	r.SnapshotCycle()
	if err := r.Write(1); err != nil {
		t.Fatalf("Write: %v", err)
	}
	r.Commit()
	if !outer.EdgeMatches(Pos) {
		t.Errorf("chained alias should preserve edge-matching of the terminal")
	}
}
