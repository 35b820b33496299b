package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"portfolio-metrics/internal/metrics"
	"portfolio-metrics/internal/service"

	"github.com/spf13/cobra"
)

func newCalculateCmd(opts *commonOptions) *cobra.Command {
	var (
		outPath string
		csvPath string
		submit  bool
	)
	cmd := &cobra.Command{
		Use:   "calculate",
		Short: "Compute the metrics report and write it as JSON",
		Example: `  cli calculate --positions tech-challenge-2024-positions.json --out results/metrics.json
  cli calculate --snapshot data/snapshot.json --currency EUR --csv results/metrics.csv
  cli calculate --submit`,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := opts.resolve()
			if err != nil {
				return err
			}
			src, err := rt.source(opts.snapshotPath)
			if err != nil {
				return err
			}
			svc := service.New(src, rt.client, rt.log, nil)

			var report *metrics.Report
			if submit {
				out, err := svc.CalculateAndSubmit(cmd.Context(), rt.request())
				if err != nil {
					return err
				}
				report = out.Report
				fmt.Fprintf(cmd.OutOrStdout(), "Submission response: %s\n", string(out.SubmissionResponse))
			} else {
				if report, err = svc.Calculate(cmd.Context(), rt.request()); err != nil {
					return err
				}
			}

			if err := writeJSON(outPath, report); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d positions x %d days to %s\n", len(report.Positions), len(report.Dates), outPath)

			if csvPath != "" {
				if err := metrics.WriteReportCSV(csvPath, report); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote CSV to %s\n", csvPath)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&outPath, "out", "results/metrics.json", "Output JSON path")
	cmd.Flags().StringVar(&csvPath, "csv", "", "Optional long-format CSV export path")
	cmd.Flags().BoolVar(&submit, "submit", false, "Submit the report to the provider after computing it")
	return cmd
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0o644)
}
