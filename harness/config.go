package harness

import (
	"os"

	"github.com/pkg/errors"
	"github.com/sarchlab/rtlsim/probe"
	"github.com/sarchlab/rtlsim/sim"
	"gopkg.in/yaml.v3"
)

// Config holds the parameters of a testbench.
type Config struct {
	MinVal      int       `yaml:"min_val"`
	MaxVal      int       `yaml:"max_val"`
	MemSize     int       `yaml:"mem_size"`
	ClockPeriod sim.VTime `yaml:"clock_period"`
	ProbePeriod sim.VTime `yaml:"probe_period"`
	Steps       sim.VTime `yaml:"steps"`
}

// DefaultConfig returns a 3-bit signed memory of 8 words, clocked every 2
// units, sampled every unit and run for 35 units.
func DefaultConfig() Config {
	return Config{
		MinVal:      -4,
		MaxVal:      4,
		MemSize:     8,
		ClockPeriod: 2,
		ProbePeriod: 1,
		Steps:       35,
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if _, err := probe.BinaryWidth(c.Range()); err != nil {
		return err
	}

	if c.MemSize <= 0 {
		return sim.ConfigErrorf("mem_size %d must be positive", c.MemSize)
	}

	if c.ClockPeriod < 1 {
		return sim.ConfigErrorf("clock_period must be at least 1")
	}

	if c.ProbePeriod < 1 {
		return sim.ConfigErrorf("probe_period must be at least 1")
	}

	if c.Steps < 1 {
		return sim.ConfigErrorf("steps must be at least 1")
	}

	return nil
}

// Range returns the value range of the memory.
func (c Config) Range() sim.Range {
	return sim.Range{Min: c.MinVal, Max: c.MaxVal}
}

// NumVectors returns how many addresses the testbench writes and reads back.
func (c Config) NumVectors() int {
	span := uint64(c.MaxVal) - uint64(c.MinVal)
	if span < uint64(c.MemSize) {
		return int(span)
	}

	return c.MemSize
}

// Duration returns the time the testbench needs to check every vector.
func (c Config) Duration() sim.VTime {
	return sim.VTime(2*c.NumVectors())*c.ClockPeriod + 1
}

// LoadConfig reads a YAML file. Keys that are absent keep their default
// values and unknown keys are rejected.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	f, err := os.Open(path)
	if err != nil {
		return cfg, errors.Wrapf(err, "opening config %s", path)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)

	if err := dec.Decode(&cfg); err != nil {
		return cfg, errors.Wrapf(sim.ErrConfiguration, "parsing %s: %v",
			path, err)
	}

	return cfg, nil
}
