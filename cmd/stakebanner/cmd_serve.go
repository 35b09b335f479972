package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"StakeBanner/internal/config"
	"StakeBanner/internal/notifier"
	"StakeBanner/internal/recorder"
	"StakeBanner/internal/scheduler"
	"StakeBanner/internal/server"
)

var cmdServe = &cobra.Command{
	Use:   "serve",
	Short: "Refresh stats on a schedule and serve them over HTTP and Telegram",
	Args:  cobra.NoArgs,
	Run:   serve,
}

func init() {
	cmdMain.AddCommand(cmdServe)
}

func serve(_ *cobra.Command, _ []string) {
	cfg := loadConfig()
	logger := newLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := runServe(ctx, cfg, logger); err != nil {
		stop()
		fatalf("%v", err)
	}
}

// openRecorder returns the history sink configured by the database section.
var openRecorder = func(cfg *config.Config, logger *logrus.Logger) recorder.Recorder {
	if cfg.Database.DSN == "" {
		return recorder.NewNoopRecorder()
	}
	sr, err := recorder.NewSQLRecorder(cfg.Database.Driver, cfg.Database.DSN, logger)
	if err != nil {
		logger.Warnf("init %s recorder failed, using noop: %v", cfg.Database.Driver, err)
		return recorder.NewNoopRecorder()
	}
	return sr
}

// runServe blocks until ctx is cancelled. Everything it starts is stopped before it returns.
func runServe(ctx context.Context, cfg *config.Config, logger *logrus.Logger) error {
	logger.Info("StakeBanner starting...")

	col := newCollector(cfg, logger)
	display := displayOf(cfg)

	// Init notifiers
	var notifiers []notifier.Notifier
	var tn *notifier.TelegramNotifier
	if cfg.Telegram.BotToken != "" {
		tn = notifier.NewTelegramNotifier(cfg.Telegram.APIBase, cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy, display, logger)
		notifiers = append(notifiers, tn)
	}
	if cfg.Email.SMTPHost != "" {
		notifiers = append(notifiers, notifier.NewEmailNotifier(
			cfg.Email.SMTPHost, cfg.Email.SMTPPort, cfg.Email.Username, cfg.Email.Password,
			cfg.Email.From, cfg.Email.To, display, logger))
	}

	rec := openRecorder(cfg, logger)
	defer rec.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sched := scheduler.NewScheduler(ctx, col, rec, display, logger, notifiers...)
	if err := sched.RegisterAll(cfg.Schedule.RefreshCron, cfg.Schedule.ReportCron); err != nil {
		return fmt.Errorf("register cron tasks: %w", err)
	}

	if _, err := sched.RefreshNow(); err != nil {
		logger.Errorf("initial refresh: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	srv := server.New(cfg.API.Bind, cfg.API.Port, sched, display, logger)
	if err := srv.Start(); err != nil {
		return fmt.Errorf("start HTTP API: %w", err)
	}
	defer srv.Stop()

	if tn != nil {
		go tn.StartPolling(ctx, sched.HandleCommand)
		logger.Info("telegram polling started")
	}

	logger.Info("StakeBanner is running. Press Ctrl+C to stop.")
	<-ctx.Done()
	logger.Info("shutdown signal received, stopping...")
	return nil
}
