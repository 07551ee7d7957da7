// Package region implements the two commit phases of a simulation
// step (spec §4.6 Active Region, §4.7 NBA Region): the combinational
// fixed-point loop and the clocked register commit.
package region

import (
	"github.com/golang/glog"

	"github.com/shntn/hdlproto/arbiter"
	"github.com/shntn/hdlproto/hierarchy"
	"github.com/shntn/hdlproto/simerror"
)

// DefaultMaxIterations bounds the combinational fixed-point loop when
// the caller doesn't supply one (spec §4.6: "a design that cannot
// reach a fixed point ... must be reported, not looped forever").
const DefaultMaxIterations = 1000

// Active runs the combinational fixed-point loop to quiescence: every
// wire's epsilon snapshot is taken, every combinational process runs
// once in declaration order, and every wire is committed; this
// repeats until no wire's value changed this round. maxIterations <=
// 0 uses DefaultMaxIterations.
func Active(d *hierarchy.Design, maxIterations int) error {
	if maxIterations <= 0 {
		maxIterations = DefaultMaxIterations
	}

	for iter := 0; ; iter++ {
		if iter >= maxIterations {
			return simerror.New(simerror.DidNotConverge, "", "", "active region did not converge after %d iterations", maxIterations)
		}

		for _, w := range d.Wires {
			w.SnapshotEpsilon()
		}

		for _, p := range d.Combinational {
			d.Ctx.Enter(p, arbiter.PhaseActive)
			p.Fn()
			d.Ctx.Exit()
		}

		changed := false
		for _, w := range d.Wires {
			w.Commit()
			if w.IsEpsilonChanged() {
				changed = true
			}
		}

		if !changed {
			glog.V(2).Infof("region: active settled after %d iteration(s)", iter+1)
			return nil
		}
	}
}
