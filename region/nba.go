package region

import (
	"github.com/shntn/hdlproto/arbiter"
	"github.com/shntn/hdlproto/hierarchy"
)

// NBA runs every sequential process whose trigger fired this delta
// cycle and that has not already run this half-clock step
// (Process.ConsumeFire), in declaration order, then commits every
// register at once
// (spec §4.7: "all NBA writes for this delta take effect atomically
// after every triggered process has run").
func NBA(d *hierarchy.Design) {
	for _, p := range d.Sequential {
		if !p.ConsumeFire() {
			continue
		}
		d.Ctx.Enter(p, arbiter.PhaseNBA)
		p.Fn()
		d.Ctx.Exit()
	}

	for _, r := range d.Regs {
		r.Commit()
	}
}
