package main

import (
	"fmt"
	"strings"

	"portfolio-metrics/internal/analysis"
	"portfolio-metrics/internal/service"

	"github.com/spf13/cobra"
)

func newRankCmd(opts *commonOptions) *cobra.Command {
	var (
		by    string
		limit int
	)
	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Rank positions by cumulative return over the range",
		RunE: func(cmd *cobra.Command, args []string) error {
			rankBy := analysis.RankByTotalReturn
			switch strings.ToLower(by) {
			case "total":
			case "compounded":
				rankBy = analysis.RankByCompoundedReturn
			default:
				return fmt.Errorf("--by must be total or compounded, got %q", by)
			}

			rt, err := opts.resolve()
			if err != nil {
				return err
			}
			src, err := rt.source(opts.snapshotPath)
			if err != nil {
				return err
			}
			report, err := service.New(src, nil, rt.log, nil).Calculate(cmd.Context(), rt.request())
			if err != nil {
				return err
			}

			ranked := rankBy(report)
			if limit > 0 && limit < len(ranked) {
				ranked = ranked[:limit]
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%-4s %-8s %-6s %-12s %-14s %-10s %-14s\n", "rank", "id", "days", "last open", "final value", "compound", "total return")
			for i, s := range ranked {
				fmt.Fprintf(w, "%-4d %-8d %-6d %-12s %-14.2f %-10.4f %-14.2f\n",
					i+1, s.ID, s.DaysOpen, s.LastOpenDate, s.FinalValue, s.CompoundedReturn, s.TotalReturn)
			}
			b := analysis.SummarizeBasket(report)
			fmt.Fprintf(w, "\nbasket (%s): total return %.2f, compounded %.4f, final value %.2f\n",
				rt.currency, b.TotalReturn, b.CompoundedReturn, b.FinalValue)
			return nil
		},
	}
	cmd.Flags().StringVar(&by, "by", "total", "Ranking order: total or compounded")
	cmd.Flags().IntVar(&limit, "limit", 0, "Show only the top N positions (0 = all)")
	return cmd
}
