package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/reoring/synthdoc/internal/store"
)

var (
	historyLimit int
	historyShow  string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded generation runs",
	Long: `Lists the most recent runs from the history database, newest first.
With --show, prints the document stored for one run.`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum number of runs")
	historyCmd.Flags().StringVar(&historyShow, "show", "", "print the document of this run id")
}

func runHistory(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(cfg.Store.Path); err != nil {
		return fmt.Errorf("history database %s: %w", cfg.Store.Path, err)
	}
	s, err := store.Open(cfg.Store.Path)
	if err != nil {
		return err
	}
	defer s.Close()

	out := cmd.OutOrStdout()
	if historyShow != "" {
		run, err := s.Get(cmd.Context(), historyShow)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(run.Document))
		return nil
	}

	runs, err := s.List(cmd.Context(), historyLimit)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCREATED\tNAME\tSEED\tVALID\tISSUES\tSCHEMA")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%t\t%d\t%s\n",
			r.ID, r.CreatedAt.Format(time.RFC3339), r.Name, r.Seed, r.Valid, r.Issues, r.Schema)
	}
	return tw.Flush()
}
