package reward

import (
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StakeBanner/internal/calculator"
	"StakeBanner/internal/model"
)

func TestLockupMultiplier_Boundaries(t *testing.T) {
	tests := []struct {
		period float64
		want   float64
	}{
		{12, 0.45 * math.Pow(12.0/18.0, 2)},
		{13, math.Pow(13.0/18.0, 2)},
		{18, 1},
		{6, 0.45 * math.Pow(6.0/18.0, 2)},
		{0, 0},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, LockupMultiplier(tt.period, ReferencePeriod), 1e-12, "period %v", tt.period)
	}
	assert.InDelta(t, 0.2, LockupMultiplier(12, 18), 1e-9)
	assert.InDelta(t, 0.521, LockupMultiplier(13, 18), 1e-3)
}

func TestTimingMultiplier_AllWeeks(t *testing.T) {
	want := map[int]float64{1: 1, 2: 0.8, 3: 0.6, 4: 0.4}
	for week, m := range want {
		assert.Equal(t, m, TimingMultiplier(week), "week %d", week)
	}
	for _, week := range []int{-1, 0, 5, 100} {
		assert.Zero(t, TimingMultiplier(week), "week %d", week)
	}
}

func TestBonusRate(t *testing.T) {
	assert.InDelta(t, 0.8*math.Pow(13.0/18.0, 2), BonusRate(2, 13, ReferencePeriod), 1e-12)
	assert.Zero(t, BonusRate(5, 13, ReferencePeriod))
}

func TestEvaluate_EndToEnd(t *testing.T) {
	log, _ := test.NewNullLogger()
	w, err := calculator.NewWindow(time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), calculator.DefaultBucketWidth)
	require.NoError(t, err)
	t1 := w.Boundaries()[0]

	accounts := []model.Account{
		{Deadline: t1 - 1, Initial: decimal.NewFromInt(1_000_000), Period: 10},
		{Deadline: t1 - 2, Initial: decimal.NewFromInt(2_000_000), Period: 10},
		{Deadline: t1 - 3, Initial: decimal.NewFromInt(3_000_000), Period: 10},
	}
	stats := NewEngine(ReferencePeriod, log).Evaluate(calculator.Aggregate(accounts, w, calculator.ModeStrict))
	require.Len(t, stats, model.WeekCount)

	first := stats[0]
	assert.Equal(t, "Week 1", first.Label)
	assert.True(t, first.HasData)
	assert.Equal(t, 3, first.Accounts)
	assert.True(t, first.TotalStake.Equal(decimal.NewFromInt(6_000_000)))
	assert.Equal(t, int64(10), first.AvgPeriod)
	assert.True(t, first.AvgStake.Equal(decimal.NewFromInt(2_000_000)))

	wantRate := 0.45 * math.Pow(10.0/18.0, 2)
	assert.InDelta(t, wantRate, first.EstBonusRate, 1e-12)
	assert.True(t, first.EstTotal.Equal(decimal.NewFromInt(6_833_333)), "got %s", first.EstTotal)

	for _, s := range stats[1:] {
		assert.False(t, s.HasData, s.Label)
		assert.Zero(t, s.Accounts)
		assert.True(t, s.AvgStake.IsZero())
		assert.Zero(t, s.AvgPeriod)
		assert.Zero(t, s.EstBonusRate)
		assert.False(t, math.IsNaN(s.EstBonusRate))
	}
}

func TestNewEngine_DefaultReference(t *testing.T) {
	log, _ := test.NewNullLogger()
	assert.Equal(t, float64(ReferencePeriod), NewEngine(0, log).Reference)
	assert.Equal(t, 24.0, NewEngine(24, log).Reference)
}

func TestEstimateTotal_Floors(t *testing.T) {
	got := EstimateTotal(decimal.NewFromInt(999), 0.3339)
	assert.True(t, got.Equal(decimal.NewFromInt(1332)), "got %s", got)
}

func TestEvaluate_LateWeeks(t *testing.T) {
	log, _ := test.NewNullLogger()
	w, err := calculator.NewWindow(time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), calculator.DefaultBucketWidth)
	require.NoError(t, err)
	b := w.Boundaries()
	accounts := []model.Account{
		{Deadline: b[1] + 1, Initial: decimal.NewFromInt(1_000_000), Period: 18},
		{Deadline: b[2], Initial: decimal.NewFromInt(2_000_000), Period: 18},
		{Deadline: b[2] + 1000, Initial: decimal.NewFromInt(4_000_000), Period: 18},
	}
	engine := NewEngine(ReferencePeriod, log)

	t.Run("strict", func(t *testing.T) {
		stats := engine.Evaluate(calculator.Aggregate(accounts, w, calculator.ModeStrict))
		require.Len(t, stats, model.WeekCount)

		week3, week4 := stats[2], stats[3]
		assert.Equal(t, 1, week3.Accounts)
		assert.InDelta(t, 0.6, week3.EstBonusRate, 1e-12)
		assert.True(t, week3.EstTotal.Equal(decimal.NewFromInt(1_600_000)), "got %s", week3.EstTotal)

		assert.Equal(t, 2, week4.Accounts)
		assert.True(t, week4.AvgStake.Equal(decimal.NewFromInt(3_000_000)))
		assert.InDelta(t, 0.4, week4.EstBonusRate, 1e-12)
		assert.True(t, week4.EstTotal.Equal(decimal.NewFromInt(8_400_000)), "got %s", week4.EstTotal)
	})

	t.Run("legacy", func(t *testing.T) {
		agg := calculator.Aggregate(accounts, w, calculator.ModeLegacy)
		assert.Equal(t, 1, agg.Unclassified)
		stats := engine.Evaluate(agg)

		week3, week4 := stats[2], stats[3]
		assert.Equal(t, 2, week3.Accounts)
		assert.InDelta(t, 0.6, week3.EstBonusRate, 1e-12)
		assert.True(t, week3.EstTotal.Equal(decimal.NewFromInt(8_000_000)), "got %s", week3.EstTotal)
		assert.False(t, week4.HasData)
	})
}

func TestEvaluate_OverflowingRate(t *testing.T) {
	log, _ := test.NewNullLogger()
	w, err := calculator.NewWindow(time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), calculator.DefaultBucketWidth)
	require.NoError(t, err)
	accounts := []model.Account{{Deadline: w.Start.Unix(), Initial: decimal.NewFromInt(1_000_000), Period: 10}}

	var stats []model.WeeklyStat
	require.NotPanics(t, func() {
		stats = NewEngine(1e-200, log).Evaluate(calculator.Aggregate(accounts, w, calculator.ModeStrict))
	})
	first := stats[0]
	assert.True(t, first.HasData)
	assert.Equal(t, int64(10), first.AvgPeriod)
	assert.Zero(t, first.EstBonusRate)
	assert.True(t, first.EstTotal.IsZero())
}
