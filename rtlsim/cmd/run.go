package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/pkg/browser"
	"github.com/pkg/errors"
	"github.com/sarchlab/rtlsim/harness"
	"github.com/sarchlab/rtlsim/hdl"
	"github.com/sarchlab/rtlsim/probe"
	"github.com/sarchlab/rtlsim/simulation"
	"github.com/sarchlab/rtlsim/tracing"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/tebeka/atexit"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the memory controller testbench.",
	Long: "Run the memory controller testbench and print the probe samples. " +
		"The run fails if any read-back check fails.",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := configFromFlags(cmd.Flags())
		if err != nil {
			return err
		}

		return runTestbench(cmd.Flags(), cfg, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	addRunFlags(runCmd.Flags())
}

func addRunFlags(flags *pflag.FlagSet) {
	addConfigFlags(flags)
	flags.String("output", "-", "file for the probe samples, - for stdout")
	flags.String("record", "",
		"record samples and transitions in <record>.sqlite3, "+
			"auto for a generated name")
	flags.String("trace-csv", "",
		"trace signal transitions in <trace-csv>.csv")
	flags.String("dialect", "", "emit the controller in this HDL dialect "+
		"after a successful run")
	flags.String("out-dir", ".", "directory for emitted files")
	flags.Bool("monitor", false, "serve the monitoring API during the run")
	flags.Int("monitor-port", 0, "port of the monitoring API, 0 for random")
	flags.Bool("open-browser", false, "open the monitoring API in a browser")
}

func runTestbench(
	flags *pflag.FlagSet,
	cfg harness.Config,
	stdout io.Writer,
) error {
	tbBuilder := harness.MakeBuilder().
		WithConfig(cfg).
		WithLogger(log.StandardLogger())

	out, err := probeOutput(flags, stdout)
	if err != nil {
		return err
	}
	tbBuilder = tbBuilder.WithProbeSink(probe.NewTSVSink(out))

	tbBuilder, err = withEmitter(flags, tbBuilder)
	if err != nil {
		return err
	}

	tracer, err := csvTracer(flags)
	if err != nil {
		return err
	}

	if tracer != nil {
		tbBuilder = tbBuilder.WithHook(tracer)
	}

	s, err := simulationBuilder(flags).WithTestbench(tbBuilder).Build()
	if err != nil {
		return err
	}
	defer func() {
		if err := s.Terminate(); err != nil {
			log.WithError(err).Error("closing recording")
		}
	}()

	if tracer != nil {
		s.GetEngine().RegisterSimulationEndHandler(tracer)
	}

	if s.RecordingPath() != "" {
		log.WithField("file", s.RecordingPath()).Info("recording run")
	}

	if open, _ := flags.GetBool("open-browser"); open && s.MonitorURL() != "" {
		if err := browser.OpenURL(s.MonitorURL() + "/api/now"); err != nil {
			fmt.Fprintf(os.Stderr, "cannot open browser: %v\n", err)
		}
	}

	report, err := s.Run()
	if err != nil {
		return err
	}

	if tracer != nil {
		if err := tracer.Err(); err != nil {
			return err
		}
	}

	log.WithFields(log.Fields{
		"end_time":    report.EndTime,
		"written":     report.Written,
		"verified":    report.Verified,
		"records":     report.Records,
		"activations": report.Activations,
	}).Info("run finished")

	return nil
}

func simulationBuilder(flags *pflag.FlagSet) simulation.Builder {
	builder := simulation.MakeBuilder()

	if monitorOn, _ := flags.GetBool("monitor"); monitorOn {
		port, _ := flags.GetInt("monitor-port")
		builder = builder.WithMonitorPort(port)
	} else {
		builder = builder.WithoutMonitoring()
	}

	record, _ := flags.GetString("record")
	switch record {
	case "":
		builder = builder.WithoutRecording()
	case "auto":
	default:
		builder = builder.WithOutputFileName(record)
	}

	return builder
}

func probeOutput(flags *pflag.FlagSet, stdout io.Writer) (io.Writer, error) {
	path, _ := flags.GetString("output")
	if path == "" || path == "-" {
		return stdout, nil
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, errors.Wrapf(err, "creating %s", path)
	}

	atexit.Register(func() {
		if err := f.Close(); err != nil {
			log.WithError(err).Error("closing probe output")
		}
	})

	return f, nil
}

func withEmitter(
	flags *pflag.FlagSet,
	builder harness.Builder,
) (harness.Builder, error) {
	name, _ := flags.GetString("dialect")
	if name == "" {
		return builder, nil
	}

	dialect, err := hdl.ParseDialect(name)
	if err != nil {
		return builder, err
	}

	dir, _ := flags.GetString("out-dir")

	return builder.WithEmitter(hdl.NewManifestEmitter(), dialect, dir), nil
}

func csvTracer(flags *pflag.FlagSet) (*tracing.TransitionTracer, error) {
	path, _ := flags.GetString("trace-csv")
	if path == "" {
		return nil, nil
	}

	writer, err := tracing.CreateCSVWriter(path)
	if err != nil {
		return nil, err
	}

	log.WithField("file", writer.Path()).Info("tracing signal transitions")

	return tracing.NewTransitionTracer(writer, tracing.AllSignals), nil
}
