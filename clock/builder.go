package clock

import (
	"github.com/sarchlab/rtlsim/sim"
)

// A Builder can build clock sources.
type Builder struct {
	engine sim.Engine
	period sim.VTime
	signal *sim.BoolSignal
}

// MakeBuilder returns a Builder with a period of 2.
func MakeBuilder() Builder {
	return Builder{
		period: 2,
	}
}

// WithEngine sets the engine that runs the clock.
func (b Builder) WithEngine(engine sim.Engine) Builder {
	b.engine = engine
	return b
}

// WithPeriod sets the clock period.
func (b Builder) WithPeriod(period sim.VTime) Builder {
	b.period = period
	return b
}

// WithSignal sets the line to drive. If not set, the builder creates a line
// named after the clock, starting low.
func (b Builder) WithSignal(signal *sim.BoolSignal) Builder {
	b.signal = signal
	return b
}

// Build creates the clock and spawns it. The clock enters its high state at
// the current time.
func (b Builder) Build(name string) (*Comp, error) {
	if b.engine == nil {
		return nil, sim.ConfigErrorf("clock %s: engine not set", name)
	}

	if b.period < 1 {
		return nil, sim.ConfigErrorf("clock %s: period must be at least 1",
			name)
	}

	c := &Comp{
		name:   name,
		clk:    b.signal,
		period: b.period,
		high:   true,
	}

	if c.clk == nil {
		c.clk = sim.NewBoolSignal(b.engine, name+".clk", false)
	}

	b.engine.Spawn(c, sim.WaitFor(0))

	return c, nil
}
