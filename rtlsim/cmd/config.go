package cmd

import (
	"github.com/sarchlab/rtlsim/harness"
	"github.com/sarchlab/rtlsim/sim"
	"github.com/spf13/pflag"
)

func addConfigFlags(flags *pflag.FlagSet) {
	def := harness.DefaultConfig()

	flags.String("config", "", "YAML file with the testbench parameters")
	flags.Int("min-val", def.MinVal, "smallest storable value")
	flags.Int("max-val", def.MaxVal, "exclusive upper bound of stored values")
	flags.Int("mem-size", def.MemSize, "number of memory words")
	flags.Uint64("clock-period", uint64(def.ClockPeriod),
		"time units per clock cycle")
	flags.Uint64("probe-period", uint64(def.ProbePeriod),
		"time units between probe samples")
	flags.Uint64("steps", uint64(def.Steps), "time units to simulate")
}

// configFromFlags starts from the config file, or the defaults, and applies
// every flag that was set explicitly.
func configFromFlags(flags *pflag.FlagSet) (harness.Config, error) {
	cfg := harness.DefaultConfig()

	path, _ := flags.GetString("config")
	if path != "" {
		var err error

		cfg, err = harness.LoadConfig(path)
		if err != nil {
			return cfg, err
		}
	}

	if flags.Changed("min-val") {
		cfg.MinVal, _ = flags.GetInt("min-val")
	}

	if flags.Changed("max-val") {
		cfg.MaxVal, _ = flags.GetInt("max-val")
	}

	if flags.Changed("mem-size") {
		cfg.MemSize, _ = flags.GetInt("mem-size")
	}

	if flags.Changed("clock-period") {
		cfg.ClockPeriod = timeFlag(flags, "clock-period")
	}

	if flags.Changed("probe-period") {
		cfg.ProbePeriod = timeFlag(flags, "probe-period")
	}

	if flags.Changed("steps") {
		cfg.Steps = timeFlag(flags, "steps")
	}

	return cfg, cfg.Validate()
}

func timeFlag(flags *pflag.FlagSet, name string) sim.VTime {
	v, _ := flags.GetUint64(name)
	return sim.VTime(v)
}
