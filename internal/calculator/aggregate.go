package calculator

import (
	"github.com/shopspring/decimal"

	"StakeBanner/internal/model"
)

// Aggregation holds the per-week buckets of one pass over the fetched accounts.
type Aggregation struct {
	Buckets      [model.WeekCount]model.WeeklyBucket
	Unclassified int
	TotalStake   decimal.Decimal // across every fetched account, classified or not
}

// Aggregate sorts accounts into weekly buckets and accumulates count, stake and period.
func Aggregate(accounts []model.Account, w Window, mode Mode) Aggregation {
	var agg Aggregation
	for i := range agg.Buckets {
		agg.Buckets[i] = model.WeeklyBucket{Week: i + 1, StakeSum: decimal.Zero}
	}
	agg.TotalStake = decimal.Zero

	for _, a := range accounts {
		agg.TotalStake = agg.TotalStake.Add(a.Initial)

		week := w.Classify(a.Deadline, mode)
		if week == 0 {
			agg.Unclassified++
			continue
		}
		b := &agg.Buckets[week-1]
		b.Count++
		b.StakeSum = b.StakeSum.Add(a.Initial)
		b.PeriodSum += a.Period
	}
	return agg
}
