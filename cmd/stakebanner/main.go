package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"StakeBanner/internal/collector"
	"StakeBanner/internal/config"
	"StakeBanner/internal/notifier"
	"StakeBanner/internal/reward"
)

var cmdMain = &cobra.Command{
	Use:   "stakebanner",
	Short: "Weekly staking cohort stats for a staking contract",
	Run:   printUsageAndExit1,
}

var flagMain struct {
	Config string
}

func init() {
	cmdMain.PersistentFlags().StringVarP(&flagMain.Config, "config", "c", "", "Path to config.yaml (default $CONFIG_PATH or configs/config.yaml)")
}

func main() {
	if err := cmdMain.Execute(); err != nil {
		os.Exit(1)
	}
}

func printUsageAndExit1(cmd *cobra.Command, args []string) {
	_ = cmd.Usage()
	os.Exit(1)
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

func checkf(err error, format string, otherArgs ...interface{}) {
	if err != nil {
		fatalf(format+": %v", append(otherArgs, err)...)
	}
}

func loadConfig() *config.Config {
	path := flagMain.Config
	if path == "" {
		path = "configs/config.yaml"
		if v := os.Getenv("CONFIG_PATH"); v != "" {
			path = v
		}
	}
	cfg, err := config.Load(path)
	checkf(err, "load config")
	checkf(cfg.Validate(), "config validation")
	return cfg
}

func newLogger(cfg *config.Config) *logrus.Logger {
	logger := logrus.New()
	if cfg.Log.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	for _, w := range cfg.Warnings() {
		logger.Warn(w)
	}
	return logger
}

func newCollector(cfg *config.Config, logger *logrus.Logger) *collector.Collector {
	window, err := cfg.Window()
	checkf(err, "campaign window")
	mode, err := cfg.Mode()
	checkf(err, "classification mode")

	fetcher := collector.NewIndexerFetcher(cfg.Indexer.BaseURL, cfg.Indexer.Timeout, cfg.Proxy)
	logger.Infof("data source: %s (%s), contract %d", fetcher.Name(), cfg.Indexer.BaseURL, cfg.Indexer.ContractID)

	engine := reward.NewEngine(cfg.Campaign.ReferencePeriod, logger)
	return collector.NewCollector(fetcher, cfg.Indexer.ContractID, window, mode, engine, logger)
}

func displayOf(cfg *config.Config) notifier.Display {
	return notifier.Display{UnitSymbol: cfg.Display.UnitSymbol, UnitDecimals: *cfg.Display.UnitDecimals}
}
