// Package probe provides a periodic sampler that reports the committed
// values of signals and word arrays without ever driving them.
package probe

import (
	"github.com/pkg/errors"
	"github.com/sarchlab/rtlsim/sim"
)

type source struct {
	field     string
	obs       sim.Observable
	formatter Formatter
}

// Comp samples its sources every period and hands the formatted values to a
// sink. By default it samples in the postponed slot, so it sees the state of
// an instant after all its delta rounds have settled.
type Comp struct {
	name      string
	period    sim.VTime
	postponed bool
	sources   []source
	sink      Sink

	headerWritten bool
	records       uint64
}

// Name returns the name of the probe.
func (c *Comp) Name() string {
	return c.name
}

// Fields returns the field names in output order.
func (c *Comp) Fields() []string {
	fields := make([]string, len(c.sources))
	for i, s := range c.sources {
		fields[i] = s.field
	}

	return fields
}

// Records returns the number of records emitted so far.
func (c *Comp) Records() uint64 {
	return c.records
}

// Resume takes one sample of every source.
func (c *Comp) Resume(now sim.VTime) (sim.Suspension, error) {
	if !c.headerWritten {
		if err := c.sink.WriteHeader(c.Fields()); err != nil {
			return sim.Finish(), errors.Wrapf(err, "probe %s", c.name)
		}

		c.headerWritten = true
	}

	r := Record{
		Time:   now,
		Values: make([]string, len(c.sources)),
	}

	for i, s := range c.sources {
		r.Values[i] = s.formatter(s.obs.Sample())
	}

	if err := c.sink.WriteRecord(r); err != nil {
		return sim.Finish(), errors.Wrapf(err, "probe %s", c.name)
	}

	c.records++

	return c.next(), nil
}

func (c *Comp) next() sim.Suspension {
	s := sim.WaitFor(c.period)
	if c.postponed {
		s = s.Postponed()
	}

	return s
}
