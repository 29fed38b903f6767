package sim

import log "github.com/sirupsen/logrus"

// VTime is the logical simulation time, counted in abstract time units. Delta
// rounds happen within one VTime and do not advance it.
type VTime uint64

// A Process is a resumable unit of computation driven by the engine.
//
// Resume runs the process until its next suspension point and tells the
// engine when to wake it again. Writes issued during Resume are staged and
// become visible only after the engine commits them. A returned error aborts
// the whole simulation run.
type Process interface {
	Named
	Resume(now VTime) (Suspension, error)
}

type suspensionKind int

const (
	suspendDelay suspensionKind = iota
	suspendEdge
	suspendDone
)

// Suspension tells the engine what a process waits for.
type Suspension struct {
	kind      suspensionKind
	delay     VTime
	edges     []Edge
	postponed bool
}

// WaitFor wakes the process d time units later. WaitFor(0) wakes it in the
// next delta round of the current instant.
func WaitFor(d VTime) Suspension {
	return Suspension{kind: suspendDelay, delay: d}
}

// WaitOn wakes the process on the first committed change that matches any of
// the edges.
func WaitOn(edges ...Edge) Suspension {
	if len(edges) == 0 {
		log.Panic("sim: WaitOn needs at least one edge")
	}

	return Suspension{kind: suspendEdge, edges: edges}
}

// Finish never wakes the process again.
func Finish() Suspension {
	return Suspension{kind: suspendDone}
}

// Postponed moves a delay wake-up into the postponed slot of its instant. The
// process then runs once after all delta rounds of that instant have settled,
// so that it observes their committed results. Postponed processes must not
// write signals.
func (s Suspension) Postponed() Suspension {
	if s.kind != suspendDelay {
		log.Panic("sim: only delay suspensions can be postponed")
	}

	s.postponed = true

	return s
}

// IsPostponed tells if the suspension targets the postponed slot.
func (s Suspension) IsPostponed() bool {
	return s.postponed
}

// Delay returns the delay of a WaitFor suspension.
func (s Suspension) Delay() (VTime, bool) {
	return s.delay, s.kind == suspendDelay
}

// Edges returns the edges of a WaitOn suspension.
func (s Suspension) Edges() []Edge {
	return s.edges
}

// IsDone tells if the process has finished.
func (s Suspension) IsDone() bool {
	return s.kind == suspendDone
}

// EdgeKind selects which committed transitions wake a process.
type EdgeKind int

// The edge kinds.
const (
	AnyChange EdgeKind = iota
	RisingEdge
	FallingEdge
)

// An Edge pairs a signal with the kind of transition a process waits for.
type Edge struct {
	Signal Signal
	Kind   EdgeKind
}

// AnyEdge matches every committed change of s.
func AnyEdge(s Signal) Edge {
	return Edge{Signal: s, Kind: AnyChange}
}

// Rising matches a committed false-to-true transition of b.
func Rising(b *BoolSignal) Edge {
	return Edge{Signal: b, Kind: RisingEdge}
}

// Falling matches a committed true-to-false transition of b.
func Falling(b *BoolSignal) Edge {
	return Edge{Signal: b, Kind: FallingEdge}
}

// matches tells if the change just committed on the signal fits the edge.
func (e Edge) matches() bool {
	switch e.Kind {
	case RisingEdge:
		return e.Signal.(*BoolSignal).rose()
	case FallingEdge:
		return e.Signal.(*BoolSignal).fell()
	default:
		return true
	}
}
