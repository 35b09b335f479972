package reward

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"StakeBanner/internal/calculator"
	"StakeBanner/internal/model"
)

// Engine derives weekly stats from aggregated buckets.
type Engine struct {
	Reference float64
	Log       *logrus.Logger
}

// NewEngine creates an Engine. A non-positive reference falls back to ReferencePeriod.
func NewEngine(reference float64, log *logrus.Logger) *Engine {
	if reference <= 0 {
		reference = ReferencePeriod
	}
	return &Engine{Reference: reference, Log: log}
}

// Evaluate computes one WeeklyStat per bucket.
func (e *Engine) Evaluate(agg calculator.Aggregation) []model.WeeklyStat {
	stats := make([]model.WeeklyStat, 0, len(agg.Buckets))
	for _, b := range agg.Buckets {
		stats = append(stats, e.evaluateBucket(b))
	}
	return stats
}

func (e *Engine) evaluateBucket(b model.WeeklyBucket) model.WeeklyStat {
	stat := model.WeeklyStat{
		Label:      fmt.Sprintf("Week %d", b.Week),
		Week:       b.Week,
		Accounts:   b.Count,
		TotalStake: b.StakeSum,
		AvgStake:   decimal.Zero,
		EstTotal:   decimal.Zero,
	}

	avgPeriod, err := calculator.AveragePeriod(b)
	if err != nil {
		e.Log.Debugf("week %d: %v", b.Week, err)
		return stat
	}
	avgStake, err := calculator.AverageStake(b)
	if err != nil {
		e.Log.Debugf("week %d: %v", b.Week, err)
		return stat
	}

	stat.AvgPeriod = avgPeriod
	stat.AvgStake = avgStake
	stat.HasData = true

	rate := BonusRate(b.Week, float64(avgPeriod), e.Reference)
	if math.IsInf(rate, 0) || math.IsNaN(rate) {
		e.Log.Warnf("week %d: bonus rate overflows for period %d against reference %g", b.Week, avgPeriod, e.Reference)
		return stat
	}
	stat.EstBonusRate = rate
	stat.EstTotal = EstimateTotal(b.StakeSum, rate)
	return stat
}

// EstimateTotal projects stake plus bonus, floored to a whole smallest unit.
func EstimateTotal(stake decimal.Decimal, rate float64) decimal.Decimal {
	return stake.Mul(decimal.NewFromFloat(1 + rate)).Floor()
}
