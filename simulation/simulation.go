// Package simulation bundles a testbench with the services around its run:
// the data recorder and the monitoring server.
package simulation

import (
	"github.com/sarchlab/rtlsim/datarecording"
	"github.com/sarchlab/rtlsim/harness"
	"github.com/sarchlab/rtlsim/monitoring"
	"github.com/sarchlab/rtlsim/sim"
)

// A Simulation provides the services required to run a testbench.
type Simulation struct {
	id string
	tb *harness.Testbench

	dataRecorder  datarecording.DataRecorder
	recordingPath string
	monitor       *monitoring.Monitor
	monitorURL    string

	components      []any
	compNameIndex   map[string]int
	signals         []sim.Signal
	signalNameIndex map[string]int
}

// ID returns the unique ID of the simulation.
func (s *Simulation) ID() string {
	return s.id
}

// Testbench returns the testbench the simulation runs.
func (s *Simulation) Testbench() *harness.Testbench {
	return s.tb
}

// GetEngine returns the engine used in the simulation.
func (s *Simulation) GetEngine() *sim.SerialEngine {
	return s.tb.Engine()
}

// GetDataRecorder returns the data recorder used in the simulation, or nil if
// recording is off.
func (s *Simulation) GetDataRecorder() datarecording.DataRecorder {
	return s.dataRecorder
}

// RecordingPath returns the file the data recorder writes, if any.
func (s *Simulation) RecordingPath() string {
	return s.recordingPath
}

// GetMonitor returns the monitor used in the simulation, or nil if
// monitoring is off.
func (s *Simulation) GetMonitor() *monitoring.Monitor {
	return s.monitor
}

// MonitorURL returns where the monitoring server listens, if it runs.
func (s *Simulation) MonitorURL() string {
	return s.monitorURL
}

// RegisterComponent registers a component with the simulation.
func (s *Simulation) RegisterComponent(name string, c any) {
	if _, ok := s.compNameIndex[name]; ok {
		panic("component " + name + " already registered")
	}

	s.components = append(s.components, c)
	s.compNameIndex[name] = len(s.components) - 1

	if s.monitor != nil {
		s.monitor.RegisterComponent(name, c)
	}
}

// RegisterSignal registers a signal with the simulation.
func (s *Simulation) RegisterSignal(sig sim.Signal) {
	name := sig.Name()
	if _, ok := s.signalNameIndex[name]; ok {
		panic("signal " + name + " already registered")
	}

	s.signals = append(s.signals, sig)
	s.signalNameIndex[name] = len(s.signals) - 1

	if s.monitor != nil {
		s.monitor.RegisterSignal(sig)
	}
}

// GetComponentByName returns the component with the given name, or nil.
func (s *Simulation) GetComponentByName(name string) any {
	i, ok := s.compNameIndex[name]
	if !ok {
		return nil
	}

	return s.components[i]
}

// GetSignalByName returns the signal with the given name, or nil.
func (s *Simulation) GetSignalByName(name string) sim.Signal {
	i, ok := s.signalNameIndex[name]
	if !ok {
		return nil
	}

	return s.signals[i]
}

// Components returns all the registered components, in registration order.
func (s *Simulation) Components() []any {
	return s.components
}

// Signals returns all the registered signals, in registration order.
func (s *Simulation) Signals() []sim.Signal {
	return s.signals
}

// Run runs the testbench.
func (s *Simulation) Run() (harness.RunReport, error) {
	return s.tb.Run()
}

// Terminate flushes and closes the data recorder.
func (s *Simulation) Terminate() error {
	if s.dataRecorder == nil {
		return nil
	}

	return s.dataRecorder.Close()
}
