package collector

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"StakeBanner/internal/calculator"
	"StakeBanner/internal/model"
	"StakeBanner/internal/reward"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Accounts []model.Account
	Err      error
	Calls    int
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchAccounts(_ context.Context, _ uint64) ([]model.Account, error) {
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Accounts, nil
}

// Collector orchestrates one fetch followed by one aggregation pass.
type Collector struct {
	Fetcher    Fetcher
	ContractID uint64
	Window     calculator.Window
	Mode       calculator.Mode
	Engine     *reward.Engine
	Log        *logrus.Logger
	Now        func() time.Time
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, contractID uint64, window calculator.Window, mode calculator.Mode, engine *reward.Engine, log *logrus.Logger) *Collector {
	return &Collector{
		Fetcher:    fetcher,
		ContractID: contractID,
		Window:     window,
		Mode:       mode,
		Engine:     engine,
		Log:        log,
		Now:        time.Now,
	}
}

// Collect fetches the contract's accounts and derives the weekly stats.
// An empty account list yields a report without stats.
func (c *Collector) Collect(ctx context.Context) (*model.Report, error) {
	accounts, err := c.Fetcher.FetchAccounts(ctx, c.ContractID)
	if err != nil {
		return nil, fmt.Errorf("fetch accounts from %s: %w", c.Fetcher.Name(), err)
	}

	report := &model.Report{
		ContractID:   c.ContractID,
		WindowStart:  c.Window.Start,
		AccountCount: len(accounts),
		FetchedAt:    c.Now(),
	}
	if len(accounts) == 0 {
		c.Log.Warnf("contract %d returned no accounts", c.ContractID)
		return report, nil
	}

	for _, a := range accounts {
		c.Log.WithFields(logrus.Fields{
			"window_start": c.Window.Start.Unix(),
			"deadline":     a.Deadline,
			"initial":      a.Initial.String(),
			"period":       a.Period,
		}).Debug("account")
	}

	agg := calculator.Aggregate(accounts, c.Window, c.Mode)
	if agg.Unclassified > 0 {
		c.Log.Warnf("%d accounts fell outside every weekly bucket", agg.Unclassified)
	}

	report.Stats = c.Engine.Evaluate(agg)
	report.Unclassified = agg.Unclassified
	report.TotalStake = agg.TotalStake
	c.Log.Infof("collected %d accounts for contract %d", len(accounts), c.ContractID)
	return report, nil
}
