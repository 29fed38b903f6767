package sim

import (
	"strconv"
	"strings"
)

// A Stager collects the signals that have a pending write so that they can be
// committed together at the end of a delta round.
type Stager interface {
	Stage(s Signal)
}

// Signal is a two-phase memory cell. Reads observe the current value; writes
// are staged as a pending value that becomes current only when the engine
// commits it.
type Signal interface {
	Named
	Observable

	// HasPending tells if a write is waiting for the next commit.
	HasPending() bool

	// String returns the current value in its default form.
	String() string

	// commit promotes the pending value, if any, and reports whether the
	// current value changed. Only the engine commits.
	commit() bool
}

// Named is anything that has a name.
type Named interface {
	Name() string
}

// Range is the half-open interval [Min, Max) of legal signal values.
type Range struct {
	Min int
	Max int
}

// Validate reports a configuration error if the range is empty.
func (r Range) Validate() error {
	if r.Min >= r.Max {
		return ConfigErrorf("min %d must be less than max %d", r.Min, r.Max)
	}

	return nil
}

// Contains tells if v lies in [Min, Max).
func (r Range) Contains(v int) bool {
	return v >= r.Min && v < r.Max
}

// Covers tells if every value of o is also a value of r.
func (r Range) Covers(o Range) bool {
	return o.Min >= r.Min && o.Max <= r.Max
}

// Wrap maps v into the range with modular arithmetic.
func (r Range) Wrap(v int) int {
	span := r.Max - r.Min
	off := (v - r.Min) % span
	if off < 0 {
		off += span
	}

	return r.Min + off
}

// Clamp returns the value in the range closest to v.
func (r Range) Clamp(v int) int {
	if v < r.Min {
		return r.Min
	}

	if v >= r.Max {
		return r.Max - 1
	}

	return v
}

type signalBase struct {
	name    string
	stager  Stager
	pending bool
}

func (s *signalBase) Name() string {
	return s.name
}

func (s *signalBase) HasPending() bool {
	return s.pending
}

// stage marks the signal as pending and notifies the stager once per round.
func (s *signalBase) stage(self Signal) {
	if s.pending {
		return
	}

	s.pending = true
	if s.stager != nil {
		s.stager.Stage(self)
	}
}

// BoolSignal is a single-bit signal, typically a clock or a control line.
type BoolSignal struct {
	signalBase

	current bool
	next    bool
	prev    bool
}

// NewBoolSignal creates a BoolSignal whose writes are staged with st.
func NewBoolSignal(st Stager, name string, init bool) *BoolSignal {
	s := &BoolSignal{
		current: init,
		next:    init,
		prev:    init,
	}
	s.name = name
	s.stager = st

	return s
}

// Read returns the current value.
func (s *BoolSignal) Read() bool {
	return s.current
}

// Write stages v as the next value.
func (s *BoolSignal) Write(v bool) {
	s.next = v
	s.stage(s)
}

// Pending returns the staged value and whether there is one.
func (s *BoolSignal) Pending() (bool, bool) {
	return s.next, s.pending
}

func (s *BoolSignal) commit() bool {
	if !s.pending {
		return false
	}

	s.pending = false
	if s.next == s.current {
		return false
	}

	s.prev = s.current
	s.current = s.next

	return true
}

// rose tells if the last committed change was a false-to-true transition.
func (s *BoolSignal) rose() bool {
	return !s.prev && s.current
}

// fell tells if the last committed change was a true-to-false transition.
func (s *BoolSignal) fell() bool {
	return s.prev && !s.current
}

// String returns "true" or "false".
func (s *BoolSignal) String() string {
	return strconv.FormatBool(s.current)
}

// Sample returns a snapshot of the current value.
func (s *BoolSignal) Sample() Sample {
	v := 0
	if s.current {
		v = 1
	}

	return Sample{Kind: BoolSample, Values: []int{v}}
}

// IntSignal is a bounded integer signal.
//
// A plain IntSignal rejects writes outside its range with a RangeError. A
// modular IntSignal wraps them around instead, which suits address-like
// signals driven by free-running arithmetic.
type IntSignal struct {
	signalBase

	rng     Range
	modular bool
	current int
	next    int
}

// NewIntSignal creates an IntSignal that rejects out-of-range writes.
func NewIntSignal(
	st Stager,
	name string,
	init int,
	rng Range,
) (*IntSignal, error) {
	return newIntSignal(st, name, init, rng, false)
}

// NewModularIntSignal creates an IntSignal that wraps out-of-range writes.
// The initial value must still lie in the range.
func NewModularIntSignal(
	st Stager,
	name string,
	init int,
	rng Range,
) (*IntSignal, error) {
	return newIntSignal(st, name, init, rng, true)
}

func newIntSignal(
	st Stager,
	name string,
	init int,
	rng Range,
	modular bool,
) (*IntSignal, error) {
	if err := rng.Validate(); err != nil {
		return nil, err
	}

	if !rng.Contains(init) {
		return nil, ConfigErrorf("%s: initial value %d not in [%d, %d)",
			name, init, rng.Min, rng.Max)
	}

	s := &IntSignal{
		rng:     rng,
		modular: modular,
		current: init,
		next:    init,
	}
	s.name = name
	s.stager = st

	return s, nil
}

// Read returns the current value.
func (s *IntSignal) Read() int {
	return s.current
}

// Write stages v as the next value. It fails with a RangeError if v is out of
// range and the signal is not modular. A failed write leaves any earlier
// staged value in place.
func (s *IntSignal) Write(v int) error {
	if !s.rng.Contains(v) {
		if !s.modular {
			return &RangeError{Signal: s.name, Value: v, Range: s.rng}
		}

		v = s.rng.Wrap(v)
	}

	s.next = v
	s.stage(s)

	return nil
}

// Pending returns the staged value and whether there is one.
func (s *IntSignal) Pending() (int, bool) {
	return s.next, s.pending
}

// Range returns the legal value range.
func (s *IntSignal) Range() Range {
	return s.rng
}

// Modular tells if out-of-range writes wrap around.
func (s *IntSignal) Modular() bool {
	return s.modular
}

func (s *IntSignal) commit() bool {
	if !s.pending {
		return false
	}

	s.pending = false
	if s.next == s.current {
		return false
	}

	s.current = s.next

	return true
}

// String returns the current value in decimal.
func (s *IntSignal) String() string {
	return strconv.Itoa(s.current)
}

// Sample returns a snapshot of the current value.
func (s *IntSignal) Sample() Sample {
	return Sample{Kind: IntSample, Values: []int{s.current}}
}

// SampleKind tells what a Sample was taken from.
type SampleKind int

// The kinds of samples.
const (
	BoolSample SampleKind = iota
	IntSample
	ArraySample
)

// Observable is a read-only view that can be sampled without side effects.
type Observable interface {
	Sample() Sample
}

// A Sample is a snapshot of the committed value of a signal or word array.
// Boolean values are stored as 0 or 1.
type Sample struct {
	Kind   SampleKind
	Values []int
}

// String returns the default form of the sample: true/false for booleans,
// decimal for integers and [a,b,c] for arrays.
func (s Sample) String() string {
	switch s.Kind {
	case BoolSample:
		return strconv.FormatBool(s.Values[0] != 0)
	case IntSample:
		return strconv.Itoa(s.Values[0])
	default:
		parts := make([]string, len(s.Values))
		for i, v := range s.Values {
			parts[i] = strconv.Itoa(v)
		}

		return "[" + strings.Join(parts, ",") + "]"
	}
}
