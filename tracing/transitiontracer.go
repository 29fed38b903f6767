// Package tracing provides engine hooks that observe a simulation: signal
// transitions and process activations.
package tracing

import (
	"sync"

	"github.com/rs/xid"
	"github.com/sarchlab/rtlsim/sim"
)

// A Transition is one committed change of a signal.
type Transition struct {
	ID     string
	Time   uint64
	Delta  uint64
	Signal string
	Value  string
}

// A TransitionWriter stores transitions.
type TransitionWriter interface {
	Write(t Transition) error
	Flush() error
}

// SignalFilter selects the signals to trace.
type SignalFilter func(s sim.Signal) bool

// AllSignals traces every signal.
func AllSignals(sim.Signal) bool {
	return true
}

// SignalNames traces the signals with the given names.
func SignalNames(names ...string) SignalFilter {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}

	return func(s sim.Signal) bool {
		return set[s.Name()]
	}
}

// TransitionTracer is a hook that writes every committed signal change to a
// TransitionWriter. Hooks cannot fail, so the first write error is kept and
// later transitions are dropped.
type TransitionTracer struct {
	lock      sync.Mutex
	writer    TransitionWriter
	filter    SignalFilter
	isTracing bool
	count     uint64
	err       error
}

// NewTransitionTracer creates a TransitionTracer. Tracing starts right away.
func NewTransitionTracer(
	writer TransitionWriter,
	filter SignalFilter,
) *TransitionTracer {
	if filter == nil {
		filter = AllSignals
	}

	return &TransitionTracer{
		writer:    writer,
		filter:    filter,
		isTracing: true,
	}
}

// StartTracing resumes tracing.
func (t *TransitionTracer) StartTracing() {
	t.lock.Lock()
	t.isTracing = true
	t.lock.Unlock()
}

// StopTracing pauses tracing.
func (t *TransitionTracer) StopTracing() {
	t.lock.Lock()
	t.isTracing = false
	t.lock.Unlock()
}

// IsTracing tells if the tracer records transitions.
func (t *TransitionTracer) IsTracing() bool {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.isTracing
}

// Count returns the number of transitions written.
func (t *TransitionTracer) Count() uint64 {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.count
}

// Err returns the first error of the writer.
func (t *TransitionTracer) Err() error {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.err
}

// Func records signal commits.
func (t *TransitionTracer) Func(ctx sim.HookCtx) {
	if ctx.Pos != sim.HookPosSignalCommit {
		return
	}

	s, ok := ctx.Item.(sim.Signal)
	if !ok || !t.filter(s) {
		return
	}

	detail, _ := ctx.Detail.(sim.CommitDetail)

	t.lock.Lock()
	defer t.lock.Unlock()

	if !t.isTracing || t.err != nil {
		return
	}

	err := t.writer.Write(Transition{
		ID:     xid.New().String(),
		Time:   uint64(detail.Time),
		Delta:  detail.Delta,
		Signal: s.Name(),
		Value:  s.String(),
	})
	if err != nil {
		t.err = err
		return
	}

	t.count++
}

// Handle flushes the writer at the end of a simulation.
func (t *TransitionTracer) Handle(sim.VTime) {
	t.lock.Lock()
	defer t.lock.Unlock()

	if err := t.writer.Flush(); err != nil && t.err == nil {
		t.err = err
	}
}

var (
	_ sim.Hook                 = (*TransitionTracer)(nil)
	_ sim.SimulationEndHandler = (*TransitionTracer)(nil)
)
