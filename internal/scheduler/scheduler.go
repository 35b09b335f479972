package scheduler

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"StakeBanner/internal/collector"
	"StakeBanner/internal/model"
	"StakeBanner/internal/notifier"
	"StakeBanner/internal/recorder"
)

// Scheduler runs periodic refreshes and report pushes and keeps the latest report.
type Scheduler struct {
	Cron      *cron.Cron
	Collector *collector.Collector
	Notifiers []notifier.Notifier
	Recorder  recorder.Recorder
	Display   notifier.Display
	Log       *logrus.Logger
	Ctx       context.Context

	refreshMu sync.Mutex // one collect-and-store at a time
	mu        sync.RWMutex
	latest    *model.Report
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, col *collector.Collector, rec recorder.Recorder, d notifier.Display, log *logrus.Logger, notifiers ...notifier.Notifier) *Scheduler {
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Collector: col,
		Notifiers: notifiers,
		Recorder:  rec,
		Display:   d,
		Log:       log,
		Ctx:       ctx,
	}
}

// RegisterAll registers the refresh and report tasks.
func (s *Scheduler) RegisterAll(refreshCron, reportCron string) error {
	if _, err := s.Cron.AddFunc(refreshCron, s.refreshTask); err != nil {
		return fmt.Errorf("register refresh task: %w", err)
	}
	if _, err := s.Cron.AddFunc(reportCron, s.reportTask); err != nil {
		return fmt.Errorf("register report task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.Log.Info("scheduler started")
}

// Stop stops the cron scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.Log.Info("scheduler stopped")
}

// RefreshNow fetches and aggregates immediately. On failure the previous report is kept.
func (s *Scheduler) RefreshNow() (*model.Report, error) {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	report, err := s.Collector.Collect(s.Ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.latest = report
	s.mu.Unlock()

	if err := s.Recorder.RecordReport(report); err != nil {
		s.Log.Errorf("record report: %v", err)
	}
	return report, nil
}

// Latest returns the most recent successful report.
func (s *Scheduler) Latest() (*model.Report, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest, s.latest != nil
}

func (s *Scheduler) refreshTask() {
	s.Log.Debug("running refresh task")
	if _, err := s.RefreshNow(); err != nil {
		s.Log.Errorf("refresh: %v", err)
	}
}

func (s *Scheduler) reportTask() {
	s.Log.Info("running report task")
	report, ok := s.Latest()
	if !ok {
		s.Log.Warn("no report available yet, skipping push")
		return
	}
	s.notifyAll(report)
}

func (s *Scheduler) notifyAll(report *model.Report) {
	for _, n := range s.Notifiers {
		if err := n.Notify(s.Ctx, report); err != nil {
			s.Log.Errorf("notify %s: %v", n.Name(), err)
		}
	}
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return helpText
	}

	switch fields[0] {
	case "/stats":
		report, ok := s.Latest()
		if !ok {
			return "No stats yet, the first refresh has not completed."
		}
		return notifier.FormatReport(report, s.Display)
	case "/week":
		if len(fields) < 2 {
			return "Usage: /week N (1-4)"
		}
		week, err := strconv.Atoi(fields[1])
		if err != nil {
			return "Usage: /week N (1-4)"
		}
		report, ok := s.Latest()
		if !ok {
			return "No stats yet, the first refresh has not completed."
		}
		stat, ok := report.Week(week)
		if !ok {
			return fmt.Sprintf("No data for week %d.", week)
		}
		return notifier.FormatWeek(stat, s.Display)
	case "/refresh":
		report, err := s.RefreshNow()
		if err != nil {
			s.Log.Errorf("manual refresh: %v", err)
			return "Refresh failed, showing previous stats if any."
		}
		return notifier.FormatReport(report, s.Display)
	default:
		return helpText
	}
}

const helpText = "Available commands:\n• /stats\n• /week N\n• /refresh"
