package harness

import (
	"github.com/sarchlab/rtlsim/bram"
	"github.com/sarchlab/rtlsim/clock"
	"github.com/sarchlab/rtlsim/counter"
	"github.com/sarchlab/rtlsim/datarecording"
	"github.com/sarchlab/rtlsim/hdl"
	"github.com/sarchlab/rtlsim/probe"
	"github.com/sarchlab/rtlsim/sim"
	"github.com/sarchlab/rtlsim/tracing"
	log "github.com/sirupsen/logrus"
)

// ProbeTable is the table probe samples go to when a recorder is set.
const ProbeTable = "probe_samples"

// A Builder can build testbenches.
type Builder struct {
	cfg       Config
	logger    log.FieldLogger
	probeSink probe.Sink
	hooks     []sim.Hook
	recorder  datarecording.DataRecorder

	emitter hdl.Emitter
	dialect hdl.Dialect
	outDir  string
}

// MakeBuilder returns a Builder with the default configuration.
func MakeBuilder() Builder {
	return Builder{
		cfg:    DefaultConfig(),
		logger: log.StandardLogger(),
	}
}

// WithConfig sets the configuration.
func (b Builder) WithConfig(cfg Config) Builder {
	b.cfg = cfg
	return b
}

// WithLogger sets where progress is logged.
func (b Builder) WithLogger(logger log.FieldLogger) Builder {
	b.logger = logger
	return b
}

// WithProbeSink sets where probe records go. Without a sink the records are
// logged at debug level.
func (b Builder) WithProbeSink(sink probe.Sink) Builder {
	b.probeSink = sink
	return b
}

// WithHook registers a hook with the engine.
func (b Builder) WithHook(hook sim.Hook) Builder {
	hooks := make([]sim.Hook, len(b.hooks), len(b.hooks)+1)
	copy(hooks, b.hooks)
	b.hooks = append(hooks, hook)

	return b
}

// WithRecorder stores probe samples and signal transitions in a recorder.
func (b Builder) WithRecorder(recorder datarecording.DataRecorder) Builder {
	b.recorder = recorder
	return b
}

// WithEmitter makes the testbench emit the memory controller after a
// successful run.
func (b Builder) WithEmitter(
	emitter hdl.Emitter,
	dialect hdl.Dialect,
	dir string,
) Builder {
	b.emitter = emitter
	b.dialect = dialect
	b.outDir = dir

	return b
}

// Build elaborates the testbench. Nothing runs until Run is called.
func (b Builder) Build() (*Testbench, error) {
	cfg := b.cfg
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if b.emitter != nil {
		err := hdl.ValidateRequest(cfg.MinVal, cfg.MaxVal, cfg.MemSize,
			b.dialect)
		if err != nil {
			return nil, err
		}
	}

	b.logger.WithFields(log.Fields{
		"min_val":      cfg.MinVal,
		"max_val":      cfg.MaxVal,
		"mem_size":     cfg.MemSize,
		"clock_period": cfg.ClockPeriod,
		"steps":        cfg.Steps,
	}).Debug("building testbench")

	tb := &Testbench{
		cfg:         cfg,
		logger:      b.logger,
		engine:      sim.NewSerialEngine(),
		activations: tracing.NewActivationCounter(),
		emitter:     b.emitter,
		dialect:     b.dialect,
		outDir:      b.outDir,
		recorder:    b.recorder,
	}

	tb.engine.AcceptHook(tb.activations)
	for _, h := range b.hooks {
		tb.engine.AcceptHook(h)
	}

	if b.recorder != nil {
		tb.tracer = tracing.NewTransitionTracer(
			tracing.NewRecorderWriter(b.recorder, ""), nil)
		tb.engine.AcceptHook(tb.tracer)
		tb.engine.RegisterSimulationEndHandler(tb.tracer)
	}

	if err := b.buildSignals(tb); err != nil {
		return nil, err
	}

	if err := b.buildComponents(tb); err != nil {
		return nil, err
	}

	if err := b.buildProbe(tb); err != nil {
		return nil, err
	}

	b.buildStimulus(tb)

	return tb, nil
}

func (b Builder) buildSignals(tb *Testbench) error {
	var err error

	cfg := tb.cfg
	rng := cfg.Range()

	tb.Address, err = sim.NewModularIntSignal(tb.engine, "address", 0,
		sim.Range{Min: 0, Max: cfg.MemSize})
	if err != nil {
		return err
	}

	tb.DataIn, err = sim.NewIntSignal(tb.engine, "data_i", rng.Clamp(0), rng)
	if err != nil {
		return err
	}

	tb.DataOut, err = sim.NewIntSignal(tb.engine, "data_o", rng.Clamp(0), rng)
	if err != nil {
		return err
	}

	tb.WriteEnable = sim.NewBoolSignal(tb.engine, "write_enable", false)

	return nil
}

func (b Builder) buildComponents(tb *Testbench) error {
	var err error

	cfg := tb.cfg

	tb.Clock, err = clock.MakeBuilder().
		WithEngine(tb.engine).
		WithPeriod(cfg.ClockPeriod).
		Build("ClkDriver")
	if err != nil {
		return err
	}

	tb.Counter, err = counter.MakeBuilder().
		WithEngine(tb.engine).
		WithClock(tb.Clock.Signal()).
		WithMax(counterMax(cfg)).
		Build("Counter")
	if err != nil {
		return err
	}

	tb.RAM, err = bram.MakeBuilder().
		WithEngine(tb.engine).
		WithClock(tb.Clock.Signal()).
		WithAddress(tb.Address).
		WithDataIn(tb.DataIn).
		WithDataOut(tb.DataOut).
		WithWriteEnable(tb.WriteEnable).
		WithRange(cfg.MinVal, cfg.MaxVal).
		WithSize(cfg.MemSize).
		Build("MemController")

	return err
}

// counterMax leaves room for every clock transition of the run, so that the
// count only wraps if the run is extended.
func counterMax(cfg Config) int {
	return int(2*(cfg.Steps/cfg.ClockPeriod+1)) + 1
}

func (b Builder) buildProbe(tb *Testbench) error {
	dataWidth, err := probe.BinaryWidth(tb.cfg.Range())
	if err != nil {
		return err
	}

	addrWidth, err := probe.BinaryWidth(tb.Address.Range())
	if err != nil {
		return err
	}

	dataFmt := probe.FormatBinary(dataWidth)
	addrFmt := probe.FormatBinary(addrWidth)

	sinks := probe.MultiSink{}
	if b.probeSink != nil {
		sinks = append(sinks, b.probeSink)
	} else {
		sinks = append(sinks, probe.NewLogSink(b.logger))
	}

	if b.recorder != nil {
		sinks = append(sinks,
			probe.NewRecorderSink(b.recorder, "Debugger", ProbeTable))
	}

	tb.Probe, err = probe.MakeBuilder().
		WithEngine(tb.engine).
		WithPeriod(tb.cfg.ProbePeriod).
		WithSource("cnt", tb.Counter.Count(), probe.FormatDecimal).
		WithSource("clk", tb.Clock.Signal(), probe.FormatBit).
		WithSource("adr", tb.Address, addrFmt).
		WithSource("d_o", tb.DataOut, dataFmt).
		WithSource("d_i", tb.DataIn, dataFmt).
		WithSource("w_e", tb.WriteEnable, probe.FormatBit).
		WithSource("mem", tb.RAM.Memory(), dataFmt).
		WithSink(sinks).
		Build("Debugger")

	return err
}

func (b Builder) buildStimulus(tb *Testbench) {
	cfg := tb.cfg

	tb.stimulus = &stimulus{
		name:        "Tests",
		period:      cfg.ClockPeriod,
		address:     tb.Address,
		dataIn:      tb.DataIn,
		dataOut:     tb.DataOut,
		writeEnable: tb.WriteEnable,
		mem:         tb.RAM.Memory(),
		vectors:     newVectors(cfg, cfg.Range().Clamp(0)),
	}

	tb.engine.Spawn(tb.stimulus, sim.WaitFor(0))
}
