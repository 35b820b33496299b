package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &commonOptions{}
	root := &cobra.Command{
		Use:   "cli",
		Short: "Portfolio metrics: daily position and basket series in a target currency",
		Long: `Computes IsOpen, Price, Value, ReturnPerPeriod and ReturnPerPeriodPercentage
for every position and for the basket, over an inclusive date range.

Market data comes from the provider (PERFORMATIV_API_KEY) or from a snapshot
file written by "cli snapshot".`,
		SilenceUsage: true,
	}
	opts.bind(root)

	root.AddCommand(
		newCalculateCmd(opts),
		newRankCmd(opts),
		newSnapshotCmd(opts),
	)
	return root
}
