// Package counter provides a tick counter that follows a clock.
package counter

import (
	"github.com/sarchlab/rtlsim/sim"
)

// Comp counts every transition of a clock line, rising or falling. The count
// wraps to the minimum of its range after the maximum.
type Comp struct {
	name  string
	clk   *sim.BoolSignal
	count *sim.IntSignal

	activations uint64
}

// Name returns the name of the counter.
func (c *Comp) Name() string {
	return c.name
}

// Count returns the count signal.
func (c *Comp) Count() *sim.IntSignal {
	return c.count
}

// Activations returns how many clock transitions the counter has seen.
func (c *Comp) Activations() uint64 {
	return c.activations
}

// Resume stages the next count.
func (c *Comp) Resume(_ sim.VTime) (sim.Suspension, error) {
	c.activations++

	rng := c.count.Range()
	next := c.count.Read() + 1
	if next >= rng.Max {
		next = rng.Min
	}

	if err := c.count.Write(next); err != nil {
		return sim.Finish(), err
	}

	return sim.WaitOn(sim.AnyEdge(c.clk)), nil
}
