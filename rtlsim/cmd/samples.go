package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/structs"
	"github.com/pkg/errors"
	"github.com/sarchlab/rtlsim/datarecording"
	"github.com/sarchlab/rtlsim/harness"
	"github.com/sarchlab/rtlsim/probe"
	"github.com/sarchlab/rtlsim/tracing"
	"github.com/spf13/cobra"
)

var samplesCmd = &cobra.Command{
	Use:   "samples <recording>",
	Short: "Print the rows of a recorded run.",
	Long: "Print the probe samples or the signal transitions stored by " +
		"`run --record`, one tab-separated row per line.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		table, _ := cmd.Flags().GetString("table")
		where, _ := cmd.Flags().GetString("where")
		limit, _ := cmd.Flags().GetInt("limit")
		offset, _ := cmd.Flags().GetInt("offset")

		reader, err := datarecording.NewReader(args[0])
		if err != nil {
			return err
		}
		defer reader.Close()

		params := datarecording.QueryParams{
			Where:   where,
			Limit:   limit,
			Offset:  offset,
			OrderBy: "Time",
		}

		return printRows(cmd.Context(), cmd.OutOrStdout(), reader, table,
			params)
	},
}

func init() {
	rootCmd.AddCommand(samplesCmd)

	flags := samplesCmd.Flags()
	flags.String("table", harness.ProbeTable,
		fmt.Sprintf("table to print, %s or %s",
			harness.ProbeTable, tracing.TransitionTable))
	flags.String("where", "", "SQL condition on the rows, such as \"Time > 10\"")
	flags.Int("limit", 0, "maximum number of rows, 0 for all")
	flags.Int("offset", 0, "number of rows to skip")
}

func printRows(
	ctx context.Context,
	w io.Writer,
	reader datarecording.DataReader,
	table string,
	params datarecording.QueryParams,
) error {
	if ctx == nil {
		ctx = context.Background()
	}

	reader.MapTable(harness.ProbeTable, probe.SampleEntry{})
	reader.MapTable(tracing.TransitionTable, tracing.Transition{})

	rows, total, err := reader.Query(ctx, table, params)
	if err != nil {
		return errors.Wrapf(err, "querying %s", table)
	}

	if len(rows) == 0 {
		return nil
	}

	fmt.Fprintln(w, strings.Join(structs.Names(rows[0]), "\t"))

	for _, row := range rows {
		values := structs.Values(row)

		cells := make([]string, len(values))
		for i, v := range values {
			cells[i] = fmt.Sprint(v)
		}

		fmt.Fprintln(w, strings.Join(cells, "\t"))
	}

	fmt.Fprintf(w, "# %d of %d rows\n", len(rows), total)

	return nil
}
