package simulation

import (
	"sort"

	"github.com/rs/xid"
	"github.com/sarchlab/rtlsim/datarecording"
	"github.com/sarchlab/rtlsim/harness"
	"github.com/sarchlab/rtlsim/monitoring"
)

// Builder can be used to build a simulation.
type Builder struct {
	testbench      harness.Builder
	monitorOn      bool
	monitorPort    int
	recordingOn    bool
	outputFileName string
}

// MakeBuilder creates a new builder. By default, the simulation runs the
// default testbench, records it and serves the monitoring API.
func MakeBuilder() Builder {
	return Builder{
		testbench:   harness.MakeBuilder(),
		monitorOn:   true,
		recordingOn: true,
	}
}

// WithTestbench sets how the testbench is built.
func (b Builder) WithTestbench(tb harness.Builder) Builder {
	b.testbench = tb
	return b
}

// WithoutMonitoring sets the simulation to not use monitoring.
func (b Builder) WithoutMonitoring() Builder {
	b.monitorOn = false
	return b
}

// WithoutRecording sets the simulation to not record samples and
// transitions.
func (b Builder) WithoutRecording() Builder {
	b.recordingOn = false
	return b
}

// WithOutputFileName sets the custom output file name for the data recorder.
// The recorder appends the .sqlite3 extension.
func (b Builder) WithOutputFileName(filename string) Builder {
	b.outputFileName = filename
	return b
}

// WithMonitorPort sets the port number for the monitoring server.
func (b Builder) WithMonitorPort(port int) Builder {
	b.monitorPort = port
	return b
}

func (b Builder) parametersMustBeValid() {
	if !b.monitorOn && b.monitorPort != 0 {
		panic("monitor port cannot be set when monitoring is disabled")
	}

	if !b.recordingOn && b.outputFileName != "" {
		panic("output file cannot be set when recording is disabled")
	}
}

// Build elaborates the testbench and sets up recording and monitoring around
// it. The monitoring server, if on, starts listening right away.
func (b Builder) Build() (*Simulation, error) {
	b.parametersMustBeValid()

	s := &Simulation{
		id:              xid.New().String(),
		compNameIndex:   make(map[string]int),
		signalNameIndex: make(map[string]int),
	}

	tbBuilder := b.testbench

	if b.recordingOn {
		outputPath := b.outputFileName
		if outputPath == "" {
			outputPath = "rtlsim_sim_" + s.id
		}

		recorder, err := datarecording.New(outputPath)
		if err != nil {
			return nil, err
		}

		s.dataRecorder = recorder
		s.recordingPath = outputPath + ".sqlite3"
		tbBuilder = tbBuilder.WithRecorder(recorder)
	}

	tb, err := tbBuilder.Build()
	if err != nil {
		_ = s.Terminate()
		return nil, err
	}

	s.tb = tb

	if b.monitorOn {
		s.monitor = monitoring.NewMonitor()
		if b.monitorPort > 0 {
			s.monitor.WithPortNumber(b.monitorPort)
		}

		s.monitor.RegisterEngine(tb.Engine())
	}

	registerTestbench(s)

	if s.monitor != nil {
		bar := s.monitor.CreateProgressBar("Simulation",
			uint64(tb.Config().Steps))
		tb.Engine().AcceptHook(monitoring.NewTimeProgressHook(bar))

		s.monitorURL = s.monitor.StartServer()
	}

	return s, nil
}

func registerTestbench(s *Simulation) {
	comps := s.tb.Components()
	for _, name := range sortedKeys(comps) {
		s.RegisterComponent(name, comps[name])
	}

	signals := s.tb.Signals()
	for _, name := range sortedKeys(signals) {
		s.RegisterSignal(signals[name])
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}
