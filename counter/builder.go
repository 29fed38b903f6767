package counter

import (
	"github.com/sarchlab/rtlsim/sim"
)

// A Builder can build counters.
type Builder struct {
	engine sim.Engine
	clk    *sim.BoolSignal
	count  *sim.IntSignal
	max    int
}

// MakeBuilder returns a Builder.
func MakeBuilder() Builder {
	return Builder{}
}

// WithEngine sets the engine that runs the counter.
func (b Builder) WithEngine(engine sim.Engine) Builder {
	b.engine = engine
	return b
}

// WithClock sets the clock line the counter follows.
func (b Builder) WithClock(clk *sim.BoolSignal) Builder {
	b.clk = clk
	return b
}

// WithCount sets the signal that holds the count.
func (b Builder) WithCount(count *sim.IntSignal) Builder {
	b.count = count
	return b
}

// WithMax makes the builder create a count signal over [0, max). It is
// ignored if a count signal is set.
func (b Builder) WithMax(max int) Builder {
	b.max = max
	return b
}

// Build creates the counter and spawns it. The counter first wakes on the
// next transition of the clock.
func (b Builder) Build(name string) (*Comp, error) {
	if b.engine == nil {
		return nil, sim.ConfigErrorf("counter %s: engine not set", name)
	}

	if b.clk == nil {
		return nil, sim.ConfigErrorf("counter %s: clock not set", name)
	}

	c := &Comp{
		name:  name,
		clk:   b.clk,
		count: b.count,
	}

	if c.count == nil {
		count, err := sim.NewIntSignal(b.engine, name+".cnt", 0,
			sim.Range{Min: 0, Max: b.max})
		if err != nil {
			return nil, err
		}

		c.count = count
	}

	b.engine.Spawn(c, sim.WaitOn(sim.AnyEdge(c.clk)))

	return c, nil
}
