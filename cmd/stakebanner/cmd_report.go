package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"StakeBanner/internal/notifier"
)

var cmdReport = &cobra.Command{
	Use:   "report",
	Short: "Fetch accounts once and print the weekly stats",
	Args:  cobra.NoArgs,
	Run:   report,
}

var flagReport struct {
	Format string
}

func init() {
	cmdMain.AddCommand(cmdReport)
	cmdReport.Flags().StringVarP(&flagReport.Format, "format", "f", "table", "Output format: table, text or json")
}

func report(cmd *cobra.Command, _ []string) {
	cfg := loadConfig()
	logger := newLogger(cfg)

	rep, err := newCollector(cfg, logger).Collect(context.Background())
	checkf(err, "collect")

	out := cmd.OutOrStdout()
	switch flagReport.Format {
	case "table":
		notifier.RenderTable(out, rep, displayOf(cfg))
	case "text":
		fmt.Fprintln(out, notifier.FormatReport(rep, displayOf(cfg)))
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		checkf(enc.Encode(rep), "encode report")
	default:
		fatalf("unknown format %q", flagReport.Format)
	}
}
