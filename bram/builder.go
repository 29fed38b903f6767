package bram

import (
	"fmt"

	"github.com/sarchlab/rtlsim/sim"
)

// A Builder can build memory controllers.
//
// The memory is owned unless WithMemory is called, in which case the range
// and size come from the given array and WithRange and WithSize are ignored.
type Builder struct {
	engine sim.Engine

	clk         *sim.BoolSignal
	address     *sim.IntSignal
	dataIn      *sim.IntSignal
	dataOut     *sim.IntSignal
	writeEnable *sim.BoolSignal
	readPorts   []ReadPort

	rng  sim.Range
	size int
	mem  *sim.WordArray
}

// MakeBuilder returns a Builder for an owned memory of 8 words over [-4, 4).
func MakeBuilder() Builder {
	return Builder{
		rng:  sim.Range{Min: -4, Max: 4},
		size: 8,
	}
}

// WithEngine sets the engine that runs the controller.
func (b Builder) WithEngine(engine sim.Engine) Builder {
	b.engine = engine
	return b
}

// WithClock sets the clock whose rising edges drive the controller.
func (b Builder) WithClock(clk *sim.BoolSignal) Builder {
	b.clk = clk
	return b
}

// WithAddress sets the address input.
func (b Builder) WithAddress(address *sim.IntSignal) Builder {
	b.address = address
	return b
}

// WithDataIn sets the data input.
func (b Builder) WithDataIn(dataIn *sim.IntSignal) Builder {
	b.dataIn = dataIn
	return b
}

// WithDataOut sets the data output.
func (b Builder) WithDataOut(dataOut *sim.IntSignal) Builder {
	b.dataOut = dataOut
	return b
}

// WithWriteEnable sets the write enable input.
func (b Builder) WithWriteEnable(writeEnable *sim.BoolSignal) Builder {
	b.writeEnable = writeEnable
	return b
}

// WithRange sets the value range of an owned memory.
func (b Builder) WithRange(minVal, maxVal int) Builder {
	b.rng = sim.Range{Min: minVal, Max: maxVal}
	return b
}

// WithSize sets the number of words of an owned memory.
func (b Builder) WithSize(size int) Builder {
	b.size = size
	return b
}

// WithMemory makes the controller use a borrowed memory.
func (b Builder) WithMemory(mem *sim.WordArray) Builder {
	b.mem = mem
	return b
}

// WithReadPort adds an extra read-only port.
func (b Builder) WithReadPort(address, dataOut *sim.IntSignal) Builder {
	ports := make([]ReadPort, len(b.readPorts), len(b.readPorts)+1)
	copy(ports, b.readPorts)
	b.readPorts = append(ports, ReadPort{Address: address, DataOut: dataOut})

	return b
}

// Build creates the controller and spawns it on the rising edges of the
// clock.
func (b Builder) Build(name string) (*Comp, error) {
	if err := b.checkPorts(name); err != nil {
		return nil, err
	}

	c := &Comp{
		name:        name,
		clk:         b.clk,
		address:     b.address,
		dataIn:      b.dataIn,
		dataOut:     b.dataOut,
		writeEnable: b.writeEnable,
		readPorts:   b.readPorts,
		mem:         b.mem,
		ownership:   BorrowedMemory,
	}

	if c.mem == nil {
		mem, err := b.buildMemory(name)
		if err != nil {
			return nil, err
		}

		c.mem = mem
		c.ownership = OwnedMemory
	}

	if err := b.checkRanges(name, c.mem.Range()); err != nil {
		return nil, err
	}

	b.engine.Spawn(c, sim.WaitOn(sim.Rising(c.clk)))

	return c, nil
}

func (b Builder) checkPorts(name string) error {
	missing := ""

	switch {
	case b.engine == nil:
		missing = "engine"
	case b.clk == nil:
		missing = "clock"
	case b.address == nil:
		missing = "address"
	case b.dataIn == nil:
		missing = "data_i"
	case b.dataOut == nil:
		missing = "data_o"
	case b.writeEnable == nil:
		missing = "write_enable"
	}

	if missing != "" {
		return sim.ConfigErrorf("memory controller %s: %s not set",
			name, missing)
	}

	for i, p := range b.readPorts {
		if p.Address == nil || p.DataOut == nil {
			return sim.ConfigErrorf(
				"memory controller %s: read port %d incomplete", name, i+1)
		}
	}

	return nil
}

// buildMemory allocates an owned memory. Words start at 0, or at the closest
// value in range when 0 is outside it.
func (b Builder) buildMemory(name string) (*sim.WordArray, error) {
	if err := b.rng.Validate(); err != nil {
		return nil, err
	}

	return sim.NewWordArray(b.engine, name+".mem", b.size, b.rng.Clamp(0),
		b.rng)
}

func (b Builder) checkRanges(name string, rng sim.Range) error {
	outputs := []*sim.IntSignal{b.dataOut}
	for _, p := range b.readPorts {
		outputs = append(outputs, p.DataOut)
	}

	for _, out := range outputs {
		if !out.Range().Covers(rng) {
			r := out.Range()
			return sim.ConfigErrorf(
				"memory controller %s: %s range [%d, %d) narrower than "+
					"memory range [%d, %d)",
				name, out.Name(), r.Min, r.Max, rng.Min, rng.Max)
		}
	}

	return nil
}

func portName(base string, index int) string {
	return fmt.Sprintf("%s_%d", base, index)
}
