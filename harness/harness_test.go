package harness

import (
	"errors"
	"testing"

	"github.com/shntn/hdlproto/examples"
	"github.com/shntn/hdlproto/simerror"
)

func TestCounterTrace(t *testing.T) {
	tb, clk, countOut, err := examples.Counter()
	if err != nil {
		t.Fatalf("examples.Counter: %v", err)
	}
	sim, err := NewSimulator(tb, clk, 100, nil)
	if err != nil {
		t.Fatalf("NewSimulator: %v", err)
	}

	if err := sim.Drive("TestBench.reset", 1); err != nil {
		t.Fatalf("Drive reset: %v", err)
	}
	if err := sim.Drive("TestBench.enable", 0); err != nil {
		t.Fatalf("Drive enable: %v", err)
	}
	if err := sim.StepClock(); err != nil {
		t.Fatalf("StepClock (reset): %v", err)
	}

	if err := sim.Drive("TestBench.reset", 0); err != nil {
		t.Fatalf("Drive reset low: %v", err)
	}
	if err := sim.Drive("TestBench.enable", 1); err != nil {
		t.Fatalf("Drive enable high: %v", err)
	}

	// Scenario from spec §8.1: 5 clocks enabled, 2 disabled, 3 enabled.
	// count_out at step k is the number of posedges with enable=1
	// observed through that edge, mod 16.
	enabledPattern := []bool{true, true, true, true, true, false, false, true, true, true}
	want := int64(0)

	for i, en := range enabledPattern {
		v := int64(0)
		if en {
			v = 1
			want = (want + 1) % 16
		}
		if err := sim.Drive("TestBench.enable", v); err != nil {
			t.Fatalf("%d: Drive enable: %v", i, err)
		}
		if err := sim.StepClock(); err != nil {
			t.Fatalf("%d: StepClock: %v", i, err)
		}
		got, err := sim.Inspect(countOut)
		if err != nil {
			t.Fatalf("%d: Inspect: %v", i, err)
		}
		if got != want {
			t.Errorf("%d: got count_out=%d, want %d", i, got, want)
		}
	}
}

func TestIllegalCombWriteToRegRaises(t *testing.T) {
	tb, clk, err := examples.IllegalCombWriteToReg()
	if err != nil {
		t.Fatalf("examples.IllegalCombWriteToReg: %v", err)
	}
	sim, err := NewSimulator(tb, clk, 100, nil)
	if err != nil {
		t.Fatalf("NewSimulator: %v", err)
	}
	err = sim.StepClock()
	if !errors.Is(err, simerror.ErrIllegalCombWriteToReg) {
		t.Errorf("got %v, want IllegalCombWriteToReg", err)
	}
}

func TestIllegalSeqWriteToWireRaises(t *testing.T) {
	tb, clk, err := examples.IllegalSeqWriteToWire()
	if err != nil {
		t.Fatalf("examples.IllegalSeqWriteToWire: %v", err)
	}
	sim, err := NewSimulator(tb, clk, 100, nil)
	if err != nil {
		t.Fatalf("NewSimulator: %v", err)
	}
	err = sim.StepClock()
	if !errors.Is(err, simerror.ErrIllegalSeqWriteToWire) {
		t.Errorf("got %v, want IllegalSeqWriteToWire", err)
	}
}

func TestMultipleDriversRaises(t *testing.T) {
	tb, clk, err := examples.MultipleDrivers()
	if err != nil {
		t.Fatalf("examples.MultipleDrivers: %v", err)
	}
	sim, err := NewSimulator(tb, clk, 100, nil)
	if err != nil {
		t.Fatalf("NewSimulator: %v", err)
	}
	err = sim.StepClock()
	if !errors.Is(err, simerror.ErrMultipleDrivers) {
		t.Errorf("got %v, want MultipleDrivers", err)
	}
}

func TestOscillatorDoesNotConverge(t *testing.T) {
	tb, clk, err := examples.Oscillator()
	if err != nil {
		t.Fatalf("examples.Oscillator: %v", err)
	}
	sim, err := NewSimulator(tb, clk, 4, nil)
	if err != nil {
		t.Fatalf("NewSimulator: %v", err)
	}
	err = sim.StepClock()
	if !errors.Is(err, simerror.ErrDidNotConverge) {
		t.Errorf("got %v, want DidNotConverge", err)
	}
}

func TestShiftRegisterTrace(t *testing.T) {
	tb, clk, din, dout, err := examples.ShiftRegister()
	if err != nil {
		t.Fatalf("examples.ShiftRegister: %v", err)
	}
	sim, err := NewSimulator(tb, clk, 100, nil)
	if err != nil {
		t.Fatalf("NewSimulator: %v", err)
	}

	inputs := []int64{1, 0, 1, 1, 0}
	want := []int64{0, 0, 1, 0, 1}

	for i, in := range inputs {
		if err := sim.Drive(din, in); err != nil {
			t.Fatalf("%d: Drive: %v", i, err)
		}
		if err := sim.StepClock(); err != nil {
			t.Fatalf("%d: StepClock: %v", i, err)
		}
		got, err := sim.Inspect(dout)
		if err != nil {
			t.Fatalf("%d: Inspect: %v", i, err)
		}
		if got != want[i] {
			t.Errorf("%d: got dout=%d, want %d", i, got, want[i])
		}
	}
}

func TestRunTestcaseDispatch(t *testing.T) {
	tb, clk, countOut, err := examples.Counter()
	if err != nil {
		t.Fatalf("examples.Counter: %v", err)
	}
	sim, err := NewSimulator(tb, clk, 100, nil)
	if err != nil {
		t.Fatalf("NewSimulator: %v", err)
	}

	ran := false
	sim.RegisterTestcase("bumps_once", func(s *Simulator) error {
		if err := s.Drive("TestBench.enable", 1); err != nil {
			return err
		}
		if err := s.StepClock(); err != nil {
			return err
		}
		v, err := s.Inspect(countOut)
		if err != nil {
			return err
		}
		if v != 1 {
			t.Errorf("testcase: got count_out=%d, want 1", v)
		}
		ran = true
		return nil
	})

	if err := sim.RunTestcase("all"); err != nil {
		t.Fatalf("RunTestcase(all): %v", err)
	}
	if !ran {
		t.Errorf("registered testcase did not run")
	}
}

func TestDriveRefusesNonExternalSignal(t *testing.T) {
	tb, clk, _, err := examples.Counter()
	if err != nil {
		t.Fatalf("examples.Counter: %v", err)
	}
	sim, err := NewSimulator(tb, clk, 100, nil)
	if err != nil {
		t.Fatalf("NewSimulator: %v", err)
	}
	err = sim.Drive("TestBench.dut.count_out", 1)
	if !errors.Is(err, simerror.ErrWriteOutsideProcess) {
		t.Errorf("got %v, want WriteOutsideProcess", err)
	}
}
