// Package hdl defines the boundary to hardware description toolchains. The
// simulator hands over an elaborated design and a target dialect; the
// translation itself belongs to the toolchain.
package hdl

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/sarchlab/rtlsim/sim"
)

// Dialect is a hardware description language that designs can be emitted in.
type Dialect int

// The supported dialects.
const (
	VHDL Dialect = iota
	Verilog
)

var dialectNames = map[Dialect]string{
	VHDL:    "VHDL",
	Verilog: "Verilog",
}

var dialectExtensions = map[Dialect]string{
	VHDL:    "vhd",
	Verilog: "v",
}

// String returns the conventional name of the dialect.
func (d Dialect) String() string {
	name, ok := dialectNames[d]
	if !ok {
		return "Dialect(" + strconv.Itoa(int(d)) + ")"
	}

	return name
}

// Extension returns the usual file extension of the dialect, without the dot.
func (d Dialect) Extension() string {
	return dialectExtensions[d]
}

// Valid tells if d is one of the supported dialects.
func (d Dialect) Valid() bool {
	_, ok := dialectNames[d]
	return ok
}

// ParseDialect converts a name such as "VHDL" or "verilog" into a Dialect.
func ParseDialect(s string) (Dialect, error) {
	for d, name := range dialectNames {
		if strings.EqualFold(s, name) {
			return d, nil
		}
	}

	return 0, errors.Wrapf(sim.ErrConfiguration,
		"%q is not a valid HDL, should be VHDL or Verilog", s)
}

// ValidateRequest checks the parameters of an emission request for a memory
// controller before any design is elaborated.
func ValidateRequest(minVal, maxVal, memSize int, dialect Dialect) error {
	if !dialect.Valid() {
		return errors.Wrapf(sim.ErrConfiguration, "unknown dialect %d",
			int(dialect))
	}

	if err := (sim.Range{Min: minVal, Max: maxVal}).Validate(); err != nil {
		return err
	}

	if memSize <= 0 {
		return sim.ConfigErrorf("mem_size %d must be positive", memSize)
	}

	return nil
}
