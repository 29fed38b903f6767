package harness

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"strings"

	"github.com/sarchlab/rtlsim/datarecording"
	"github.com/sarchlab/rtlsim/hdl"
	"github.com/sarchlab/rtlsim/probe"
	"github.com/sarchlab/rtlsim/sim"
	"github.com/sarchlab/rtlsim/tracing"
	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"go.uber.org/mock/gomock"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func smallConfig() Config {
	return Config{
		MinVal:      -4,
		MaxVal:      4,
		MemSize:     3,
		ClockPeriod: 2,
		ProbePeriod: 1,
		Steps:       13,
	}
}

var _ = Describe("Testbench", func() {
	var (
		mockCtrl *gomock.Controller
		logger   *log.Logger
		logHook  *test.Hook
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		logger, logHook = test.NewNullLogger()
		logger.SetLevel(log.DebugLevel)
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should pass with the default configuration", func() {
		buf := new(bytes.Buffer)
		tb, err := MakeBuilder().
			WithLogger(logger).
			WithProbeSink(probe.NewTSVSink(buf)).
			Build()
		Expect(err).NotTo(HaveOccurred())

		report, err := tb.Run()

		Expect(err).NotTo(HaveOccurred())
		Expect(report.EndTime).To(Equal(sim.VTime(35)))
		Expect(report.Cycles).To(Equal(uint64(18)))
		Expect(report.Written).To(Equal(8))
		Expect(report.Verified).To(Equal(16))
		Expect(report.Records).To(Equal(uint64(35)))
		Expect(tb.RAM.Memory().Values()).To(Equal(
			[]int{-4, -3, -2, -1, 0, 1, 2, 3}))

		lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
		Expect(lines).To(HaveLen(36))
		Expect(lines[0]).To(Equal("cnt\tclk\tadr\td_o\td_i\tw_e\tmem"))
		Expect(lines[1]).To(Equal(
			"1\t1\t000\t000\t100\t1\t[100,000,000,000,000,000,000,000]"))
		Expect(lines[2]).To(Equal(
			"2\t0\t000\t000\t100\t1\t[100,000,000,000,000,000,000,000]"))

		Expect(logHook.LastEntry().Message).To(Equal("simulation ran successfully"))
		Expect(logHook.LastEntry().Level).To(Equal(log.InfoLevel))
	})

	It("should read back the written values one cycle after the address", func() {
		sink := &probe.RecordingSink{}
		tb, err := MakeBuilder().
			WithConfig(smallConfig()).
			WithLogger(logger).
			WithProbeSink(sink).
			Build()
		Expect(err).NotTo(HaveOccurred())

		report, err := tb.Run()

		Expect(err).NotTo(HaveOccurred())
		Expect(report.Verified).To(Equal(6))

		// Reads are presented at 6, 8 and 10. The probe samples after each
		// instant settles, so the value checked on the next edge shows on the
		// odd times in between.
		dataOut := map[sim.VTime]string{}
		for _, r := range sink.Records {
			dataOut[r.Time] = r.Values[3]
		}
		Expect(dataOut[5]).To(Equal("000"))
		Expect(dataOut[7]).To(Equal("100"))
		Expect(dataOut[9]).To(Equal("101"))
		Expect(dataOut[11]).To(Equal("110"))
	})

	It("should fail when the run is too short to check every vector", func() {
		cfg := smallConfig()
		cfg.Steps = 12
		emitter := NewMockEmitter(mockCtrl)
		tb, err := MakeBuilder().
			WithConfig(cfg).
			WithLogger(logger).
			WithProbeSink(&probe.RecordingSink{}).
			WithEmitter(emitter, hdl.VHDL, "out").
			Build()
		Expect(err).NotTo(HaveOccurred())

		_, err = tb.Run()

		Expect(errors.Is(err, ErrAssertion)).To(BeTrue())
		Expect(err.Error()).To(ContainSubstring("5 of 6 vectors"))
	})

	It("should report a mismatch as an assertion error", func() {
		var tb *Testbench
		corrupt := sim.HookFunc(func(ctx sim.HookCtx) {
			p, ok := ctx.Item.(sim.Process)
			if ctx.Pos == sim.HookPosAfterProcess && ok &&
				p.Name() == "MemController" {
				Expect(tb.DataOut.Write(3)).To(Succeed())
			}
		})
		emitter := NewMockEmitter(mockCtrl)

		var err error
		tb, err = MakeBuilder().
			WithConfig(smallConfig()).
			WithLogger(logger).
			WithProbeSink(&probe.RecordingSink{}).
			WithHook(corrupt).
			WithEmitter(emitter, hdl.Verilog, "out").
			Build()
		Expect(err).NotTo(HaveOccurred())

		_, err = tb.Run()

		var assertErr *AssertionError
		Expect(errors.As(err, &assertErr)).To(BeTrue())
		Expect(errors.Is(err, ErrAssertion)).To(BeTrue())
		Expect(assertErr.Time).To(Equal(sim.VTime(2)))
		Expect(assertErr.Expected).To(Equal(0))
		Expect(assertErr.Actual).To(Equal(3))
		Expect(logHook.LastEntry().Level).To(Equal(log.ErrorLevel))
	})

	It("should emit the memory controller after a successful run", func() {
		emitter := NewMockEmitter(mockCtrl)
		tb, err := MakeBuilder().
			WithConfig(smallConfig()).
			WithLogger(logger).
			WithProbeSink(&probe.RecordingSink{}).
			WithEmitter(emitter, hdl.VHDL, "vhdl-output").
			Build()
		Expect(err).NotTo(HaveOccurred())

		emitter.EXPECT().
			Emit(tb.RAM.Design(), hdl.VHDL, "vhdl-output").
			Return(nil)

		report, err := tb.Run()

		Expect(err).NotTo(HaveOccurred())
		Expect(report.Emitted).To(Equal("MemController.vhd"))
	})

	It("should report emission failures", func() {
		emitter := NewMockEmitter(mockCtrl)
		tb, err := MakeBuilder().
			WithConfig(smallConfig()).
			WithLogger(logger).
			WithProbeSink(&probe.RecordingSink{}).
			WithEmitter(emitter, hdl.VHDL, "vhdl-output").
			Build()
		Expect(err).NotTo(HaveOccurred())
		emitter.EXPECT().Emit(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("toolchain missing"))

		_, err = tb.Run()

		Expect(err).To(MatchError(ContainSubstring("toolchain missing")))
	})

	It("should reject an invalid configuration", func() {
		cfg := smallConfig()
		cfg.MemSize = 0

		_, err := MakeBuilder().WithConfig(cfg).Build()

		Expect(errors.Is(err, sim.ErrConfiguration)).To(BeTrue())
	})

	It("should run a memory as wide as the probe can print", func() {
		cfg := smallConfig()
		cfg.MinVal = 0
		cfg.MaxVal = 1<<62 + 1

		sink := &probe.RecordingSink{}
		tb, err := MakeBuilder().
			WithConfig(cfg).
			WithLogger(logger).
			WithProbeSink(sink).
			Build()
		Expect(err).NotTo(HaveOccurred())

		report, err := tb.Run()

		Expect(err).NotTo(HaveOccurred())
		Expect(report.Verified).To(Equal(6))
		Expect(sink.Records[0].Values[3]).To(HaveLen(63))
	})

	It("should reject a memory wider than the probe can print", func() {
		cfg := smallConfig()
		cfg.MinVal = -1 << 62
		cfg.MaxVal = 1<<62 + 1

		_, err := MakeBuilder().WithConfig(cfg).Build()

		Expect(errors.Is(err, sim.ErrConfiguration)).To(BeTrue())
	})

	It("should reject an unknown dialect", func() {
		_, err := MakeBuilder().
			WithConfig(smallConfig()).
			WithEmitter(NewMockEmitter(mockCtrl), hdl.Dialect(3), "out").
			Build()

		Expect(errors.Is(err, sim.ErrConfiguration)).To(BeTrue())
	})

	It("should record samples and transitions", func() {
		db, err := sql.Open("sqlite3",
			filepath.Join(GinkgoT().TempDir(), "run.sqlite3"))
		Expect(err).NotTo(HaveOccurred())
		defer db.Close()

		tb, err := MakeBuilder().
			WithConfig(smallConfig()).
			WithLogger(logger).
			WithRecorder(datarecording.NewWithDB(db)).
			Build()
		Expect(err).NotTo(HaveOccurred())

		report, err := tb.Run()
		Expect(err).NotTo(HaveOccurred())

		reader := datarecording.NewReaderWithDB(db)
		reader.MapTable(ProbeTable, probe.SampleEntry{})
		reader.MapTable(tracing.TransitionTable, tracing.Transition{})

		_, total, err := reader.Query(context.Background(), ProbeTable,
			datarecording.QueryParams{})
		Expect(err).NotTo(HaveOccurred())
		Expect(total).To(Equal(int(report.Records) * 7))

		rows, _, err := reader.Query(context.Background(),
			tracing.TransitionTable, datarecording.QueryParams{
				Where:   "Signal = ?",
				Args:    []any{"data_o"},
				OrderBy: "Time",
			})
		Expect(err).NotTo(HaveOccurred())
		Expect(rows).NotTo(BeEmpty())
		Expect(rows[0].(tracing.Transition).Value).To(Equal("-4"))
	})

	It("should expose its signals and components", func() {
		tb, err := MakeBuilder().WithConfig(smallConfig()).Build()
		Expect(err).NotTo(HaveOccurred())

		Expect(tb.Signals()).To(HaveKey("MemController.mem[2]"))
		Expect(tb.Signals()).To(HaveKey("ClkDriver.clk"))
		Expect(tb.Components()).To(HaveKey("MemController"))
		Expect(tb.Config()).To(Equal(smallConfig()))
	})
})
