package cmd

import (
	"fmt"

	"github.com/sarchlab/rtlsim/harness"
	"github.com/sarchlab/rtlsim/hdl"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var emitCmd = &cobra.Command{
	Use:   "emit",
	Short: "Emit the memory controller for an HDL back end.",
	Long: "Elaborate the memory controller without running it and write " +
		"the description an HDL back end needs to generate it.",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := configFromFlags(cmd.Flags())
		if err != nil {
			return err
		}

		name, _ := cmd.Flags().GetString("dialect")
		dialect, err := hdl.ParseDialect(name)
		if err != nil {
			return err
		}

		dir, _ := cmd.Flags().GetString("out-dir")

		path, err := emitDesign(cfg, dialect, dir)
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), path)

		return nil
	},
}

func init() {
	rootCmd.AddCommand(emitCmd)

	flags := emitCmd.Flags()
	addConfigFlags(flags)
	flags.String("dialect", hdl.VHDL.String(), "HDL dialect, vhdl or verilog")
	flags.String("out-dir", ".", "directory for emitted files")
}

// emitDesign elaborates the testbench and emits its memory controller. It
// returns the path of the written file.
func emitDesign(cfg harness.Config, dialect hdl.Dialect, dir string) (
	string, error,
) {
	if err := hdl.ValidateRequest(cfg.MinVal, cfg.MaxVal, cfg.MemSize,
		dialect); err != nil {
		return "", err
	}

	tb, err := harness.MakeBuilder().
		WithConfig(cfg).
		WithLogger(log.StandardLogger()).
		Build()
	if err != nil {
		return "", err
	}

	design := tb.RAM.Design()
	if err := hdl.NewManifestEmitter().Emit(design, dialect, dir); err != nil {
		return "", err
	}

	path := hdl.ManifestPath(design, dialect, dir)
	log.WithFields(log.Fields{
		"dialect": dialect,
		"file":    path,
	}).Info("design emitted")

	return path, nil
}
