package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/eringen/inkwell/analytics"
)

func newStatsCmd(flags *globalFlags) *cobra.Command {
	var (
		days  int
		limit int
	)
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print request statistics from the analytics database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := flags.load()
			if err != nil {
				return err
			}
			if days <= 0 {
				return fmt.Errorf("--days must be positive")
			}
			store, err := analytics.NewStore(cfg.Analytics.DatabasePath)
			if err != nil {
				return err
			}
			defer store.Close()

			to := time.Now()
			from := analytics.StartOfDay(to).AddDate(0, 0, 1-days)
			stats, err := store.GetStats(cmd.Context(), from, to, limit)
			if err != nil {
				return err
			}
			return printStats(cmd.OutOrStdout(), stats)
		},
	}
	cmd.Flags().IntVarP(&days, "days", "d", 7, "number of days to report, including today")
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "rows per table")
	return cmd
}

func printStats(w io.Writer, s *analytics.Stats) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Period\t%s\n", s.Period)
	fmt.Fprintf(tw, "Requests\t%d\n", s.TotalRequests)
	fmt.Fprintf(tw, "Bot requests\t%d\n", s.BotRequests)
	fmt.Fprintf(tw, "Not found\t%d\n", s.NotFound)

	fmt.Fprintln(tw, "\nPath\tViews")
	for _, p := range s.TopPages {
		fmt.Fprintf(tw, "%s\t%d\n", p.Path, p.Views)
	}
	for _, section := range []struct {
		title string
		rows  []analytics.DimensionStat
	}{
		{"Outcome", s.Outcomes},
		{"Browser", s.Browsers},
		{"Device", s.Devices},
	} {
		fmt.Fprintf(tw, "\n%s\tCount\n", section.title)
		for _, d := range section.rows {
			fmt.Fprintf(tw, "%s\t%d\n", d.Name, d.Count)
		}
	}

	fmt.Fprintln(tw, "\nDate\tViews")
	for _, d := range s.DailyViews {
		fmt.Fprintf(tw, "%s\t%d\n", d.Date, d.Views)
	}
	return tw.Flush()
}
