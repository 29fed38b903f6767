package tracing

import (
	"bytes"
	"errors"
	"strings"

	"github.com/sarchlab/rtlsim/clock"
	"github.com/sarchlab/rtlsim/sim"
	"go.uber.org/mock/gomock"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("TransitionTracer", func() {
	var (
		mockCtrl *gomock.Controller
		engine   *sim.SerialEngine
		writer   *MockTransitionWriter
		clk      *clock.Comp
	)

	BeforeEach(func() {
		var err error
		mockCtrl = gomock.NewController(GinkgoT())
		engine = sim.NewSerialEngine()
		writer = NewMockTransitionWriter(mockCtrl)
		clk, err = clock.MakeBuilder().WithEngine(engine).WithPeriod(2).Build("Clk")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should write every committed change", func() {
		tracer := NewTransitionTracer(writer, nil)
		engine.AcceptHook(tracer)

		var got []Transition
		writer.EXPECT().Write(gomock.Any()).DoAndReturn(func(t Transition) error {
			got = append(got, t)
			return nil
		}).Times(3)

		Expect(engine.RunFor(3)).To(Succeed())

		Expect(got).To(HaveLen(3))
		Expect(got[0].Signal).To(Equal(clk.Signal().Name()))
		Expect(got[0].Value).To(Equal("true"))
		Expect(got[0].Time).To(Equal(uint64(0)))
		Expect(got[1].Value).To(Equal("false"))
		Expect(got[1].Time).To(Equal(uint64(1)))
		Expect(got[2].Time).To(Equal(uint64(2)))
		Expect(got[0].ID).NotTo(Equal(got[1].ID))
		Expect(tracer.Count()).To(Equal(uint64(3)))
	})

	It("should only trace the selected signals", func() {
		x, err := sim.NewIntSignal(engine, "x", 0, sim.Range{Min: 0, Max: 4})
		Expect(err).NotTo(HaveOccurred())
		tracer := NewTransitionTracer(writer, SignalNames("x"))
		engine.AcceptHook(tracer)
		Expect(x.Write(2)).To(Succeed())

		writer.EXPECT().Write(gomock.Any()).DoAndReturn(func(t Transition) error {
			Expect(t.Signal).To(Equal("x"))
			Expect(t.Value).To(Equal("2"))
			return nil
		})

		Expect(engine.RunFor(4)).To(Succeed())
	})

	It("should not write while stopped", func() {
		tracer := NewTransitionTracer(writer, nil)
		engine.AcceptHook(tracer)
		tracer.StopTracing()

		Expect(engine.RunFor(2)).To(Succeed())
		Expect(tracer.IsTracing()).To(BeFalse())

		tracer.StartTracing()
		writer.EXPECT().Write(gomock.Any())

		Expect(engine.RunFor(1)).To(Succeed())
	})

	It("should keep the first write error", func() {
		tracer := NewTransitionTracer(writer, nil)
		engine.AcceptHook(tracer)
		writer.EXPECT().Write(gomock.Any()).Return(errors.New("full")).Times(1)

		Expect(engine.RunFor(4)).To(Succeed())

		Expect(tracer.Err()).To(MatchError("full"))
		Expect(tracer.Count()).To(BeZero())
	})

	It("should flush when the simulation ends", func() {
		tracer := NewTransitionTracer(writer, nil)
		engine.RegisterSimulationEndHandler(tracer)
		writer.EXPECT().Flush()

		engine.Finished()

		Expect(tracer.Err()).NotTo(HaveOccurred())
	})
})

var _ = Describe("RecorderWriter", func() {
	var mockCtrl *gomock.Controller

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should create the table once", func() {
		recorder := NewMockDataRecorder(mockCtrl)
		w := NewRecorderWriter(recorder, "")
		t1 := Transition{ID: "a", Signal: "clk", Value: "true"}
		t2 := Transition{ID: "b", Signal: "clk", Value: "false"}

		gomock.InOrder(
			recorder.EXPECT().CreateTable(TransitionTable, Transition{}),
			recorder.EXPECT().InsertData(TransitionTable, t1),
			recorder.EXPECT().InsertData(TransitionTable, t2),
			recorder.EXPECT().Flush(),
		)

		Expect(w.Write(t1)).To(Succeed())
		Expect(w.Write(t2)).To(Succeed())
		Expect(w.Flush()).To(Succeed())
	})
})

var _ = Describe("CSVWriter", func() {
	It("should write a header and buffered rows", func() {
		buf := new(bytes.Buffer)
		w := NewCSVWriter(buf)

		Expect(w.Write(Transition{
			ID: "id", Time: 4, Delta: 9, Signal: "cnt", Value: "3",
		})).To(Succeed())
		Expect(strings.Count(buf.String(), "\n")).To(Equal(1))

		Expect(w.Flush()).To(Succeed())

		Expect(buf.String()).To(Equal(
			"ID, Time, Delta, Signal, Value\nid, 4, 9, cnt, 3\n"))
	})
})

var _ = Describe("ActivationCounter", func() {
	It("should count process resumptions", func() {
		engine := sim.NewSerialEngine()
		counter := NewActivationCounter()
		engine.AcceptHook(counter)
		_, err := clock.MakeBuilder().WithEngine(engine).WithPeriod(2).Build("Clk")
		Expect(err).NotTo(HaveOccurred())

		Expect(engine.RunFor(4)).To(Succeed())

		Expect(counter.Names()).To(Equal([]string{"Clk"}))
		Expect(counter.Count("Clk")).To(Equal(uint64(4)))
		Expect(counter.Total()).To(Equal(uint64(4)))
	})
})
