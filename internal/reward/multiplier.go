package reward

import "math"

const (
	// ReferencePeriod is the lockup length a full multiplier is measured against.
	ReferencePeriod = 18
	// ShortLockupLimit is the longest lockup that still receives the short-lockup discount.
	ShortLockupLimit = 12
	// ShortLockupDiscount scales the lockup multiplier of short lockups.
	ShortLockupDiscount = 0.45
)

// timingMultipliers maps a weekly cohort to its reward scaling.
var timingMultipliers = map[int]float64{
	1: 1.0,
	2: 0.8,
	3: 0.6,
	4: 0.4,
}

// LockupMultiplier scales rewards by the square of period/reference,
// discounted for lockups of ShortLockupLimit or less.
func LockupMultiplier(period, reference float64) float64 {
	m := math.Pow(period/reference, 2)
	if period <= ShortLockupLimit {
		return ShortLockupDiscount * m
	}
	return m
}

// TimingMultiplier returns the cohort scaling for a week; unknown weeks earn nothing.
func TimingMultiplier(week int) float64 {
	return timingMultipliers[week]
}

// BonusRate is the estimated bonus as a fraction of stake.
func BonusRate(week int, period, reference float64) float64 {
	return LockupMultiplier(period, reference) * TimingMultiplier(week)
}
