package model

import "github.com/shopspring/decimal"

// WeekCount is the number of weekly cohorts tracked per campaign.
const WeekCount = 4

// WeeklyBucket accumulates the accounts whose deadline falls in one week.
type WeeklyBucket struct {
	Week      int
	Count     int
	StakeSum  decimal.Decimal
	PeriodSum int64
}

// WeeklyStat is the derived, display-ready view of a WeeklyBucket.
type WeeklyStat struct {
	Label        string          `json:"label"`
	Week         int             `json:"week"`
	Accounts     int             `json:"accounts"`
	TotalStake   decimal.Decimal `json:"total_stake"`
	AvgStake     decimal.Decimal `json:"avg_stake"`
	AvgPeriod    int64           `json:"avg_period"`
	EstBonusRate float64         `json:"est_bonus_rate"`
	EstTotal     decimal.Decimal `json:"est_total"`
	HasData      bool            `json:"has_data"`
}
