package harness

import (
	"github.com/sarchlab/rtlsim/sim"
)

type vector struct {
	write     bool
	addr      int
	data      int
	expectOut int
}

// stimulus drives the memory controller through a write phase and a read
// phase. Each vector is presented on a rising edge and checked one clock
// period later.
type stimulus struct {
	name   string
	period sim.VTime

	address     *sim.IntSignal
	dataIn      *sim.IntSignal
	dataOut     *sim.IntSignal
	writeEnable *sim.BoolSignal
	mem         *sim.WordArray

	vectors  []vector
	next     int
	pending  *vector
	verified int
}

func newVectors(cfg Config, initial int) []vector {
	n := cfg.NumVectors()
	vectors := make([]vector, 0, 2*n)

	for i := 0; i < n; i++ {
		vectors = append(vectors, vector{
			write:     true,
			addr:      i,
			data:      cfg.MinVal + i,
			expectOut: initial,
		})
	}

	for i := 0; i < n; i++ {
		vectors = append(vectors, vector{
			addr:      i,
			expectOut: cfg.MinVal + i,
		})
	}

	return vectors
}

func (s *stimulus) Name() string {
	return s.name
}

func (s *stimulus) done() bool {
	return s.next == len(s.vectors) && s.pending == nil
}

func (s *stimulus) Resume(now sim.VTime) (sim.Suspension, error) {
	if s.pending != nil {
		if err := s.check(now, *s.pending); err != nil {
			return sim.Finish(), err
		}

		s.pending = nil
		s.verified++
	}

	if s.next == len(s.vectors) {
		return sim.Finish(), nil
	}

	v := s.vectors[s.next]
	if err := s.present(v); err != nil {
		return sim.Finish(), err
	}

	s.pending = &v
	s.next++

	return sim.WaitFor(s.period), nil
}

func (s *stimulus) present(v vector) error {
	if err := s.address.Write(v.addr); err != nil {
		return err
	}

	s.writeEnable.Write(v.write)

	if v.write {
		return s.dataIn.Write(v.data)
	}

	return nil
}

func (s *stimulus) check(now sim.VTime, v vector) error {
	if !v.write {
		return expect(now, "values do not match", v.expectOut,
			s.dataOut.Read())
	}

	err := expect(now,
		"data_o and previous mem[address] do not match while setting memory values",
		v.expectOut, s.dataOut.Read())
	if err != nil {
		return err
	}

	stored, err := s.mem.Read(v.addr)
	if err != nil {
		return err
	}

	return expect(now,
		"data_i and mem[address] do not match while setting memory values",
		v.data, stored)
}

func expect(now sim.VTime, msg string, expected, actual int) error {
	if expected == actual {
		return nil
	}

	return &AssertionError{
		Time:     now,
		Message:  msg,
		Expected: expected,
		Actual:   actual,
	}
}
