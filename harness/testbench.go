// Package harness builds and runs the memory controller testbench: a clock,
// a counter, a memory controller, a probe and a stimulus process that writes
// every address and reads it back.
package harness

import (
	"github.com/pkg/errors"
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

// A RunReport summarizes a successful run.
type RunReport struct {
	EndTime     sim.VTime
	Cycles      uint64
	Written     int
	Verified    int
	Records     uint64
	Activations uint64
	Emitted     string
}

// A Testbench is an elaborated testbench, ready to run.
type Testbench struct {
	cfg    Config
	logger log.FieldLogger
	engine *sim.SerialEngine

	Clock   *clock.Comp
	Counter *counter.Comp
	RAM     *bram.Comp
	Probe   *probe.Comp

	Address     *sim.IntSignal
	DataIn      *sim.IntSignal
	DataOut     *sim.IntSignal
	WriteEnable *sim.BoolSignal

	stimulus    *stimulus
	activations *tracing.ActivationCounter
	tracer      *tracing.TransitionTracer
	recorder    datarecording.DataRecorder

	emitter hdl.Emitter
	dialect hdl.Dialect
	outDir  string
}

// Engine returns the engine that runs the testbench.
func (tb *Testbench) Engine() *sim.SerialEngine {
	return tb.engine
}

// Config returns the configuration the testbench was built with.
func (tb *Testbench) Config() Config {
	return tb.cfg
}

// Activations returns the per-process activation counts.
func (tb *Testbench) Activations() *tracing.ActivationCounter {
	return tb.activations
}

// Signals returns the signals of the testbench by name.
func (tb *Testbench) Signals() map[string]sim.Signal {
	signals := map[string]sim.Signal{
		tb.Clock.Signal().Name():   tb.Clock.Signal(),
		tb.Counter.Count().Name(): tb.Counter.Count(),
		tb.Address.Name():         tb.Address,
		tb.DataIn.Name():          tb.DataIn,
		tb.DataOut.Name():         tb.DataOut,
		tb.WriteEnable.Name():     tb.WriteEnable,
	}

	for _, w := range tb.RAM.Memory().Signals() {
		signals[w.Name()] = w
	}

	return signals
}

// Components returns the components of the testbench by name.
func (tb *Testbench) Components() map[string]any {
	return map[string]any{
		tb.Clock.Name():   tb.Clock,
		tb.Counter.Name(): tb.Counter,
		tb.RAM.Name():     tb.RAM,
		tb.Probe.Name():   tb.Probe,
	}
}

// Run runs the testbench for the configured number of steps. A run fails if
// a component fails, if a check fails, or if the steps end before every
// vector is checked. After a successful run, the memory controller is handed
// to the emitter, if any.
func (tb *Testbench) Run() (RunReport, error) {
	tb.logger.WithField("steps", tb.cfg.Steps).Debug("running testbench")

	err := tb.engine.RunFor(tb.cfg.Steps)
	tb.engine.Finished()

	if err == nil && tb.tracer != nil {
		err = tb.tracer.Err()
	}

	if err == nil && tb.recorder != nil {
		err = tb.recorder.Flush()
	}

	if err != nil {
		tb.logger.WithError(err).Error("simulation failed")
		return RunReport{}, err
	}

	if !tb.stimulus.done() {
		err := errors.Wrapf(ErrAssertion,
			"run ended at time %d after %d of %d vectors, needs %d steps",
			tb.engine.CurrentTime(), tb.stimulus.verified,
			len(tb.stimulus.vectors), tb.cfg.Duration())
		tb.logger.WithError(err).Error("simulation incomplete")

		return RunReport{}, err
	}

	report := RunReport{
		EndTime:     tb.engine.CurrentTime(),
		Cycles:      tb.Clock.Cycles(),
		Written:     tb.cfg.NumVectors(),
		Verified:    tb.stimulus.verified,
		Records:     tb.Probe.Records(),
		Activations: tb.activations.Total(),
	}

	tb.logger.WithFields(log.Fields{
		"end_time": report.EndTime,
		"cycles":   report.Cycles,
		"verified": report.Verified,
	}).Info("simulation ran successfully")

	if tb.emitter == nil {
		return report, nil
	}

	if err := tb.emitter.Emit(tb.RAM.Design(), tb.dialect, tb.outDir); err != nil {
		return report, errors.Wrapf(err, "emitting %s", tb.RAM.Name())
	}

	report.Emitted = hdl.OutputName(tb.RAM.Design(), tb.dialect)

	tb.logger.WithFields(log.Fields{
		"dialect": tb.dialect,
		"dir":     tb.outDir,
		"output":  report.Emitted,
	}).Info("design emitted")

	return report, nil
}
