package main

import (
	"fmt"

	"portfolio-metrics/internal/data"

	"github.com/spf13/cobra"
)

func newSnapshotCmd(opts *commonOptions) *cobra.Command {
	var outPath string
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Fetch FX rates and prices once and save them for offline runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := opts.resolve()
			if err != nil {
				return err
			}
			snap, err := data.FetchSnapshot(cmd.Context(), rt.client, rt.positions, rt.start, rt.end, rt.currency)
			if err != nil {
				return err
			}
			if err := data.SaveSnapshot(outPath, snap); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %d pairs and %d instruments (%s..%s, %s) to %s\n",
				len(snap.FxRates), len(snap.Prices), snap.StartDate, snap.EndDate, snap.TargetCurrency, outPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&outPath, "out", "data/snapshot.json", "Snapshot output path")
	return cmd
}
