package hdl

import (
	"encoding/json"

	"github.com/sarchlab/rtlsim/sim"
)

// Direction tells whether a port drives into or out of a design.
type Direction string

// The port directions.
const (
	In  Direction = "in"
	Out Direction = "out"
)

// PortKind is the value type carried by a port.
type PortKind string

// The port kinds.
const (
	Bit     PortKind = "bit"
	Integer PortKind = "integer"
)

// A Port is a named connection of a design. Integer ports carry the
// half-open range of their values.
type Port struct {
	Name      string    `json:"name"`
	Direction Direction `json:"direction"`
	Kind      PortKind  `json:"kind"`
	Min       int       `json:"min"`
	Max       int       `json:"max"`
}

// MarshalJSON writes the bounds of integer ports only.
func (p Port) MarshalJSON() ([]byte, error) {
	type port Port

	if p.Kind == Integer {
		return json.Marshal(port(p))
	}

	return json.Marshal(struct {
		Name      string    `json:"name"`
		Direction Direction `json:"direction"`
		Kind      PortKind  `json:"kind"`
	}{p.Name, p.Direction, p.Kind})
}

// BitPort creates a single-bit port.
func BitPort(name string, dir Direction) Port {
	return Port{Name: name, Direction: dir, Kind: Bit}
}

// IntPort creates an integer port over rng.
func IntPort(name string, dir Direction, rng sim.Range) Port {
	return Port{
		Name:      name,
		Direction: dir,
		Kind:      Integer,
		Min:       rng.Min,
		Max:       rng.Max,
	}
}

// A Design is the description of an elaborated component, as handed to an
// emitter.
type Design struct {
	Name       string         `json:"name"`
	Top        string         `json:"top"`
	Parameters map[string]int `json:"parameters"`
	Ports      []Port         `json:"ports"`
}

// Port returns the port with the given name.
func (d Design) Port(name string) (Port, bool) {
	for _, p := range d.Ports {
		if p.Name == name {
			return p, true
		}
	}

	return Port{}, false
}

// A Designer can describe itself as a Design.
type Designer interface {
	Design() Design
}
