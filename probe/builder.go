package probe

import (
	"github.com/sarchlab/rtlsim/sim"
)

// A Builder can build probes.
type Builder struct {
	engine    sim.Engine
	period    sim.VTime
	postponed bool
	sources   []source
	sink      Sink
}

// MakeBuilder returns a Builder that samples every time unit in the
// postponed slot.
func MakeBuilder() Builder {
	return Builder{
		period:    1,
		postponed: true,
	}
}

// WithEngine sets the engine that runs the probe.
func (b Builder) WithEngine(engine sim.Engine) Builder {
	b.engine = engine
	return b
}

// WithPeriod sets the time between two samples.
func (b Builder) WithPeriod(period sim.VTime) Builder {
	b.period = period
	return b
}

// WithPostponedSampling selects whether the probe samples after the delta
// rounds of an instant settle or together with the first round.
func (b Builder) WithPostponedSampling(postponed bool) Builder {
	b.postponed = postponed
	return b
}

// WithSource appends a field. A nil formatter uses the default form of the
// sample.
func (b Builder) WithSource(
	field string,
	obs sim.Observable,
	formatter Formatter,
) Builder {
	if formatter == nil {
		formatter = FormatDefault
	}

	sources := make([]source, len(b.sources), len(b.sources)+1)
	copy(sources, b.sources)
	b.sources = append(sources, source{
		field:     field,
		obs:       obs,
		formatter: formatter,
	})

	return b
}

// WithSink sets where the records go.
func (b Builder) WithSink(sink Sink) Builder {
	b.sink = sink
	return b
}

// Build creates the probe and spawns it at the current time.
func (b Builder) Build(name string) (*Comp, error) {
	if err := b.check(name); err != nil {
		return nil, err
	}

	c := &Comp{
		name:      name,
		period:    b.period,
		postponed: b.postponed,
		sources:   b.sources,
		sink:      b.sink,
	}

	first := sim.WaitFor(0)
	if c.postponed {
		first = first.Postponed()
	}

	b.engine.Spawn(c, first)

	return c, nil
}

func (b Builder) check(name string) error {
	if b.engine == nil {
		return sim.ConfigErrorf("probe %s: engine not set", name)
	}

	if b.period < 1 {
		return sim.ConfigErrorf("probe %s: period must be at least 1", name)
	}

	if b.sink == nil {
		return sim.ConfigErrorf("probe %s: sink not set", name)
	}

	if len(b.sources) == 0 {
		return sim.ConfigErrorf("probe %s: no source", name)
	}

	seen := make(map[string]bool)
	for _, s := range b.sources {
		if s.obs == nil {
			return sim.ConfigErrorf("probe %s: field %s has no source",
				name, s.field)
		}

		if seen[s.field] {
			return sim.ConfigErrorf("probe %s: duplicate field %s",
				name, s.field)
		}

		seen[s.field] = true
	}

	return nil
}
