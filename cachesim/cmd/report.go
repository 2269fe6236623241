package cmd

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/sarchlab/memhier/datarecording"
	"github.com/sarchlab/memhier/tracing"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Summarize a recorded access database.",
	Long: "`report --db FILE` counts the recorded accesses of every " +
		"structure by status.",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		db, _ := cmd.Flags().GetString("db")
		where, _ := cmd.Flags().GetString("location")

		reader, err := datarecording.NewReader(db)
		if err != nil {
			return err
		}
		defer reader.Close()

		return report(cmd.Context(), reader, where, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().String("db", "", "Database written by `run --record`")
	reportCmd.Flags().String("location", "", "Only count this structure")
	_ = reportCmd.MarkFlagRequired("db")
}

func report(
	ctx context.Context,
	reader datarecording.DataReader,
	location string,
	out io.Writer,
) error {
	if ctx == nil {
		ctx = context.Background()
	}

	reader.MapTable(tracing.AccessTableName, tracing.AccessRecord{})

	params := datarecording.QueryParams{OrderBy: "Seq"}
	if location != "" {
		params.Where = "Location = ?"
		params.Args = []any{location}
	}

	rows, total, err := reader.Query(ctx, tracing.AccessTableName, params)
	if err != nil {
		return fmt.Errorf("reading the %s table: %w",
			tracing.AccessTableName, err)
	}

	counts := map[string]map[string]uint64{}

	for _, row := range rows {
		r := row.(*tracing.AccessRecord)
		if r.Status == "" {
			continue
		}

		perStatus, ok := counts[r.Location]
		if !ok {
			perStatus = map[string]uint64{}
			counts[r.Location] = perStatus
		}
		perStatus[r.Status]++
	}

	fmt.Fprintf(out, "%d records\n\n", total)
	printStats(counts, out)

	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}
