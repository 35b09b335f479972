package calculator

import (
	"errors"
	"math"

	"github.com/shopspring/decimal"

	"StakeBanner/internal/model"
)

// ErrEmptyBucket is returned when an average is requested for a bucket with no accounts.
var ErrEmptyBucket = errors.New("bucket has no accounts")

// AveragePeriod returns periodSum/count rounded half up.
func AveragePeriod(b model.WeeklyBucket) (int64, error) {
	if b.Count == 0 {
		return 0, ErrEmptyBucket
	}
	return int64(math.Floor(float64(b.PeriodSum)/float64(b.Count) + 0.5)), nil
}

// AverageStake returns stakeSum/count rounded to a whole smallest unit.
func AverageStake(b model.WeeklyBucket) (decimal.Decimal, error) {
	if b.Count == 0 {
		return decimal.Zero, ErrEmptyBucket
	}
	return b.StakeSum.Div(decimal.NewFromInt(int64(b.Count))).Round(0), nil
}

// ToDisplayUnits converts an amount in the smallest on-chain unit to whole tokens.
func ToDisplayUnits(amount decimal.Decimal, decimals int32) decimal.Decimal {
	return amount.Shift(-decimals)
}
