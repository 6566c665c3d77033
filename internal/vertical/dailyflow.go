package vertical

import (
	"math"

	"goalflow/internal/goal"
)

// zeroRateContactMultiplier replaces the contact conversion rate when a
// config leaves it at zero. None of the built-in configs do, so the value
// has never been calibrated against real funnels.
// TODO: calibrate once a vertical ships with contact_to_primary_unit = 0.
const zeroRateContactMultiplier = 5

// DailyFlow converts a breakdown into recommended daily activity counts.
// It is the funnel shared by every vertical.
func DailyFlow(id goal.VerticalID, b goal.Breakdown, cfg goal.DailyFlowConfig) goal.DailyFlowTargets {
	daysPerMonth := float64(cfg.WorkingDaysPerWeek) * WeeksPerMonth
	totalDays := b.TimeframeMonths * daysPerMonth
	primaryPerDay := safeDiv(b.PrimaryUnits, totalDays)

	var contactsPerDay float64
	if cfg.ContactToPrimaryUnit > 0 {
		contactsPerDay = primaryPerDay / cfg.ContactToPrimaryUnit
	} else {
		contactsPerDay = primaryPerDay * zeroRateContactMultiplier
	}
	followupsPerDay := primaryPerDay * cfg.FollowupsPerPrimary
	totalDailyActivity := contactsPerDay + followupsPerDay
	reactivationsPerDay := totalDailyActivity * cfg.ReactivationShare

	return goal.DailyFlowTargets{
		VerticalID:    id,
		NewContacts:   atLeast(roundCount(contactsPerDay), 1),
		Followups:     atLeast(roundCount(followupsPerDay), 1),
		Reactivations: atLeast(roundCount(reactivationsPerDay), 0),
	}
}

// perWeek spreads a timeframe total over the weeks of the timeframe.
func perWeek(total, months float64) float64 {
	return safeDiv(total, months*WeeksPerMonth)
}

func roundCount(v float64) int {
	switch {
	case math.IsNaN(v):
		return 0
	case v >= math.MaxInt:
		return math.MaxInt
	case v <= math.MinInt:
		return math.MinInt
	}
	return int(math.Round(v))
}

func atLeast(v, floor int) int {
	if v < floor {
		return floor
	}
	return v
}
