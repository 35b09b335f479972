package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Report is the result of one fetch-then-aggregate pass.
type Report struct {
	ContractID   uint64          `json:"contract_id"`
	WindowStart  time.Time       `json:"window_start"`
	Stats        []WeeklyStat    `json:"stats"`
	AccountCount int             `json:"account_count"`
	Unclassified int             `json:"unclassified"`
	TotalStake   decimal.Decimal `json:"total_stake"`
	FetchedAt    time.Time       `json:"fetched_at"`
}

// Week returns the stat for the given 1-based week index.
func (r *Report) Week(week int) (WeeklyStat, bool) {
	for _, s := range r.Stats {
		if s.Week == week {
			return s, true
		}
	}
	return WeeklyStat{}, false
}

// Empty reports whether the fetch returned no accounts.
func (r *Report) Empty() bool {
	return len(r.Stats) == 0
}
