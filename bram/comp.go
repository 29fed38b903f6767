// Package bram provides a block-RAM memory controller.
//
// The controller acts only on rising edges of its clock. On each edge it
// republishes the value its address held before the edge on data_o and, if
// write enable is set, stages data_i into that address. Both writes commit
// together, so data_o never shows the value written in the same edge.
package bram

import (
	"github.com/sarchlab/rtlsim/hdl"
	"github.com/sarchlab/rtlsim/sim"
)

// Ownership tells whether a controller allocated its memory.
type Ownership int

// The ownership variants.
const (
	// OwnedMemory is allocated by the controller and named after it.
	OwnedMemory Ownership = iota

	// BorrowedMemory is supplied by the caller, who keeps it alive.
	BorrowedMemory
)

func (o Ownership) String() string {
	if o == BorrowedMemory {
		return "borrowed"
	}

	return "owned"
}

// A ReadPort is an extra read-only port. It publishes the pre-edge value of
// the word at Address on DataOut on every rising edge.
type ReadPort struct {
	Address *sim.IntSignal
	DataOut *sim.IntSignal
}

// Comp is a single-port memory controller with optional extra read ports.
type Comp struct {
	name string

	clk         *sim.BoolSignal
	address     *sim.IntSignal
	dataIn      *sim.IntSignal
	dataOut     *sim.IntSignal
	writeEnable *sim.BoolSignal
	readPorts   []ReadPort

	mem       *sim.WordArray
	ownership Ownership

	edges  uint64
	writes uint64
}

// Name returns the name of the controller.
func (c *Comp) Name() string {
	return c.name
}

// Memory returns the word array behind the controller.
func (c *Comp) Memory() *sim.WordArray {
	return c.mem
}

// Ownership tells whether the controller allocated its memory.
func (c *Comp) Ownership() Ownership {
	return c.ownership
}

// Range returns the value range of the memory words.
func (c *Comp) Range() sim.Range {
	return c.mem.Range()
}

// Size returns the number of words.
func (c *Comp) Size() int {
	return c.mem.Len()
}

// Edges returns the number of rising edges handled so far.
func (c *Comp) Edges() uint64 {
	return c.edges
}

// Writes returns the number of memory writes staged so far.
func (c *Comp) Writes() uint64 {
	return c.writes
}

// Resume handles one rising edge of the clock.
func (c *Comp) Resume(_ sim.VTime) (sim.Suspension, error) {
	c.edges++

	word, err := c.mem.Word(c.address.Read())
	if err != nil {
		return sim.Finish(), err
	}

	old := word.Read()

	if c.writeEnable.Read() {
		if err := word.Write(c.dataIn.Read()); err != nil {
			return sim.Finish(), err
		}

		c.writes++
	}

	if err := c.dataOut.Write(old); err != nil {
		return sim.Finish(), err
	}

	for _, p := range c.readPorts {
		v, err := c.mem.Read(p.Address.Read())
		if err != nil {
			return sim.Finish(), err
		}

		if err := p.DataOut.Write(v); err != nil {
			return sim.Finish(), err
		}
	}

	return sim.WaitOn(sim.Rising(c.clk)), nil
}

// Design describes the controller for HDL emission.
func (c *Comp) Design() hdl.Design {
	rng := c.mem.Range()

	d := hdl.Design{
		Name: c.name,
		Top:  "MemController",
		Parameters: map[string]int{
			"min_val":  rng.Min,
			"max_val":  rng.Max,
			"mem_size": c.mem.Len(),
		},
		Ports: []hdl.Port{
			hdl.BitPort("clk", hdl.In),
			hdl.IntPort("address", hdl.In, sim.Range{Min: 0, Max: c.mem.Len()}),
			hdl.IntPort("data_o", hdl.Out, rng),
			hdl.IntPort("data_i", hdl.In, rng),
			hdl.BitPort("write_enable", hdl.In),
		},
	}

	for i := range c.readPorts {
		d.Ports = append(d.Ports,
			hdl.IntPort(portName("address", i+1), hdl.In,
				sim.Range{Min: 0, Max: c.mem.Len()}),
			hdl.IntPort(portName("data_o", i+1), hdl.Out, rng),
		)
	}

	return d
}

var _ hdl.Designer = (*Comp)(nil)
