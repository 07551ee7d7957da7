package region

import (
	"errors"
	"testing"

	"github.com/shntn/hdlproto/hierarchy"
	"github.com/shntn/hdlproto/signal"
	"github.com/shntn/hdlproto/simerror"
)

func buildCombPassthrough(t *testing.T) (*hierarchy.Design, *signalPair) {
	t.Helper()
	tb := hierarchy.NewTestBench("TestBench")
	in, err := tb.ExternalWire("in", 4)
	if err != nil {
		t.Fatalf("ExternalWire: %v", err)
	}
	dut, err := tb.AddChild("dut", hierarchy.NewModule("dut"))
	if err != nil {
		t.Fatalf("AddChild: %v", err)
	}
	inAlias, err := dut.Input("in_in", in)
	if err != nil {
		t.Fatalf("Input: %v", err)
	}
	out, err := dut.Wire("out", 4)
	if err != nil {
		t.Fatalf("Wire: %v", err)
	}
	dut.Comb("passthrough", func() {
		_ = out.Write(inAlias.Read())
	})

	d, err := hierarchy.Build(tb)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return d, &signalPair{in: in, out: out}
}

type signalPair struct {
	in, out interface {
		Read() int64
	}
}

func TestActiveSettlesCombPassthrough(t *testing.T) {
	d, sp := buildCombPassthrough(t)
	if err := Active(d, 10); err != nil {
		t.Fatalf("Active: %v", err)
	}
	if got := sp.out.Read(); got != 0 {
		t.Errorf("got %d, want 0 before any drive", got)
	}
}

func TestActiveDoesNotConverge(t *testing.T) {
	tb := hierarchy.NewTestBench("TestBench")
	dut, err := tb.AddChild("dut", hierarchy.NewModule("dut"))
	if err != nil {
		t.Fatalf("AddChild: %v", err)
	}
	osc, err := dut.Wire("osc", 1)
	if err != nil {
		t.Fatalf("Wire: %v", err)
	}
	dut.Comb("toggle", func() {
		if osc.Read() == 0 {
			_ = osc.Write(1)
		} else {
			_ = osc.Write(0)
		}
	})
	d, err := hierarchy.Build(tb)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	err = Active(d, 4)
	if !errors.Is(err, simerror.ErrDidNotConverge) {
		t.Errorf("got %v, want DidNotConverge", err)
	}
}

func TestNBACommitsRegistersAtomically(t *testing.T) {
	tb := hierarchy.NewTestBench("TestBench")
	clk, err := tb.ExternalWire("clk", 1)
	if err != nil {
		t.Fatalf("ExternalWire: %v", err)
	}
	dut, err := tb.AddChild("dut", hierarchy.NewModule("dut"))
	if err != nil {
		t.Fatalf("AddChild: %v", err)
	}
	if _, err := dut.Input("clk_in", clk); err != nil {
		t.Fatalf("Input: %v", err)
	}
	a, err := dut.Reg("a", 4)
	if err != nil {
		t.Fatalf("Reg a: %v", err)
	}
	b, err := dut.Reg("b", 4)
	if err != nil {
		t.Fatalf("Reg b: %v", err)
	}
	_ = a.Write(3)
	a.Commit()
	_ = b.Write(7)
	b.Commit()

	dut.Seq("swap", []hierarchy.TriggerSpec{{Edge: signal.Pos, Signal: "clk_in"}}, func() {
		oldA, oldB := a.Read(), b.Read()
		_ = a.Write(oldB)
		_ = b.Write(oldA)
	})

	d, err := hierarchy.Build(tb)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	clk.SnapshotCycle()
	if err := clk.Write(1); err != nil {
		t.Fatalf("Write: %v", err)
	}
	clk.Commit()

	NBA(d)

	if got := a.Read(); got != 7 {
		t.Errorf("a: got %d, want 7", got)
	}
	if got := b.Read(); got != 3 {
		t.Errorf("b: got %d, want 3", got)
	}
}
