package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"capsnav/internal/config"
	"capsnav/internal/store"
)

func newStatsCmd(opts *rootOptions) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show recorded filter runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(opts.path())
			if err != nil {
				return err
			}
			s, err := store.Open(cfg.Stats.Path)
			if err != nil {
				return err
			}
			defer s.Close()
			return printStats(cmd.OutOrStdout(), s, limit)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "number of runs to show")
	return cmd
}

func printStats(out io.Writer, s *store.Store, limit int) error {
	runs, err := s.RecentRuns(limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs recorded.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTARTED\tDURATION\tRECORDS\tKEYS\tSYNTH\tSUPPRESSED\tEXIT")
	for _, r := range runs {
		dur, reason := "running", r.ExitReason
		if r.Finished() {
			dur = r.Duration().Round(time.Second).String()
		}
		if reason == "" {
			reason = "-"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%d\t%d\t%d\t%s\n",
			r.ID, r.StartedAt.Local().Format(time.DateTime), dur,
			r.Counters.Records, r.Counters.KeyEvents, r.Counters.Synthesized,
			r.Counters.Suppressed, reason)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	totals, n, err := s.Totals()
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "\n%d runs, %d records, %d key events, %d synthesized\n",
		n, totals.Records, totals.KeyEvents, totals.Synthesized)
	return nil
}
