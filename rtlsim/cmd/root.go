// Package cmd provides the command-line interface for rtlsim.
package cmd

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/tebeka/atexit"
	"golang.org/x/term"
)

// EnvPrefix prefixes the environment variables that set flag defaults. A flag
// named out-dir is read from RTLSIM_OUT_DIR.
const EnvPrefix = "RTLSIM_"

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "rtlsim",
	Short: "rtlsim simulates a block-RAM memory controller testbench.",
	Long: `rtlsim elaborates a clocked memory controller, drives it with a ` +
		`write-then-read-back stimulus and checks every output. It can also ` +
		`record the run and emit the controller for an HDL back end.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		envFile, _ := cmd.Flags().GetString("env-file")
		if err := loadEnv(envFile); err != nil {
			return err
		}

		if err := applyEnv(cmd.Flags()); err != nil {
			return err
		}

		debug, _ := cmd.Flags().GetBool("debug")
		if debug {
			log.SetLevel(log.DebugLevel)
		}

		log.SetFormatter(&log.TextFormatter{
			DisableColors: !term.IsTerminal(int(os.Stderr.Fd())),
		})

		return nil
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		atexit.Exit(1)
	}

	atexit.Exit(0)
}

func init() {
	rootCmd.PersistentFlags().Bool("debug", false, "log at debug level")
	rootCmd.PersistentFlags().String("env-file", ".env",
		"file with RTLSIM_* variables, ignored if missing")
}

// loadEnv loads the variables of an env file, if it exists. Variables that
// are already set are not overwritten.
func loadEnv(path string) error {
	if path == "" {
		return nil
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}

	return errors.Wrapf(godotenv.Load(path), "loading %s", path)
}

// EnvName returns the environment variable that sets the default of a flag.
func EnvName(flag string) string {
	return EnvPrefix + strings.ToUpper(strings.ReplaceAll(flag, "-", "_"))
}

// applyEnv sets every flag that is not given on the command line from its
// environment variable, if set.
func applyEnv(flags *pflag.FlagSet) error {
	var err error

	flags.VisitAll(func(f *pflag.Flag) {
		if err != nil || f.Changed || f.Name == "env-file" {
			return
		}

		value, ok := os.LookupEnv(EnvName(f.Name))
		if !ok {
			return
		}

		if setErr := flags.Set(f.Name, value); setErr != nil {
			err = errors.Wrapf(setErr, "applying %s", EnvName(f.Name))
		}
	})

	return err
}
