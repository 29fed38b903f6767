// Package clock provides a square-wave clock source.
package clock

import (
	"github.com/sarchlab/rtlsim/sim"
)

// Comp drives a boolean signal with a square wave of a fixed period.
//
// The clock alternates between two states. Entering the high state writes
// true and holds it for HighTime, floor(period/2). Entering the low state
// writes false and holds it for LowTime, the rest of the period. A period of 1
// therefore gives a zero-width true phase that a periodic sampler never
// observes, although the rising edge still commits.
type Comp struct {
	name   string
	clk    *sim.BoolSignal
	period sim.VTime

	high   bool
	cycles uint64
}

// Name returns the name of the clock.
func (c *Comp) Name() string {
	return c.name
}

// Signal returns the clock line.
func (c *Comp) Signal() *sim.BoolSignal {
	return c.clk
}

// Period returns the clock period.
func (c *Comp) Period() sim.VTime {
	return c.period
}

// HighTime returns how long the clock line stays true in every cycle.
func (c *Comp) HighTime() sim.VTime {
	return c.period / 2
}

// LowTime returns how long the clock line stays false in every cycle.
func (c *Comp) LowTime() sim.VTime {
	return c.period - c.HighTime()
}

// Cycles returns the number of cycles started so far.
func (c *Comp) Cycles() uint64 {
	return c.cycles
}

// Resume enters the next state of the clock.
func (c *Comp) Resume(_ sim.VTime) (sim.Suspension, error) {
	if c.high {
		c.high = false
		c.cycles++
		c.clk.Write(true)

		return sim.WaitFor(c.HighTime()), nil
	}

	c.high = true
	c.clk.Write(false)

	return sim.WaitFor(c.LowTime()), nil
}
