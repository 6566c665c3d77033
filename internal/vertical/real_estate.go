package vertical

import (
	"fmt"

	"goalflow/internal/goal"
)

const (
	reAvgDealValue         = 350000
	reAvgCommissionPerDeal = 10500
	reViewingToDealRate    = 0.15
)

// RealEstate models agents closing property deals after viewings.
type RealEstate struct {
	base
}

// NewRealEstate returns the real estate strategy.
func NewRealEstate(opts ...Option) *RealEstate {
	o := buildOptions(opts)
	return &RealEstate{base: base{
		id:    goal.VerticalRealEstate,
		label: "Real Estate",
		config: goal.DailyFlowConfig{
			WorkingDaysPerWeek:     6,
			ContactToPrimaryUnit:   0.05,
			ContactToSecondaryUnit: goal.Float(0.3),
			FollowupsPerPrimary:    8,
			FollowupsPerSecondary:  goal.Float(2),
			ReactivationShare:      0.15,
		},
		kpis: []goal.KPIDefinition{
			{ID: "new_contacts", Label: "New contacts", Description: "Buyers and sellers contacted", TimeUnit: "day", Icon: "phone", Color: "blue"},
			{ID: "viewings", Label: "Viewings", Description: "Property viewings held", TimeUnit: "week", Icon: "home", Color: "teal"},
			{ID: "deals_closed", Label: "Deals closed", Description: "Notarised purchase contracts", TimeUnit: "month", Icon: "key", Color: "green"},
			{ID: "commission", Label: "Commission", Description: "Commission earned", TimeUnit: "month", Icon: "euro", Color: "orange"},
		},
		locale:            o.locale,
		volumeDaysPerWeek: 6,
	}}
}

func (s *RealEstate) ComputeGoalBreakdown(in goal.Input) goal.Breakdown {
	switch in.Kind {
	case goal.KindDeals:
		return s.dealsBreakdown(in, in.Target())
	case goal.KindVolume:
		return s.dealsBreakdown(in, in.Target()/reAvgDealValue)
	case goal.KindIncome, goal.KindRank, goal.KindClients:
		return s.incomeBreakdown(in)
	default:
		return s.incomeBreakdown(in)
	}
}

func (s *RealEstate) incomeBreakdown(in goal.Input) goal.Breakdown {
	monthlyDeals := in.Target() / reAvgCommissionPerDeal
	b := s.dealsBreakdown(in, monthlyDeals*in.TimeframeMonths)
	b.Notes = fmt.Sprintf("%.0f monthly income needs %.1f deals per month at %d commission each.",
		in.Target(), monthlyDeals, reAvgCommissionPerDeal)
	return b
}

func (s *RealEstate) dealsBreakdown(in goal.Input, deals float64) goal.Breakdown {
	viewings := deals / reViewingToDealRate
	commission := deals * reAvgCommissionPerDeal

	b := s.newBreakdown(in)
	b.PrimaryUnits = deals
	b.SecondaryUnits = goal.Float(viewings)
	b.Details = goal.RealEstateDetails{
		Deals:               wholeUnits(deals),
		MonthlyDeals:        safeDiv(deals, in.TimeframeMonths),
		Viewings:            wholeUnits(viewings),
		EstimatedCommission: commission,
	}
	s.apportion(&b, deals*reAvgDealValue)
	b.Notes = fmt.Sprintf("%d deals need about %d viewings.", wholeUnits(deals), wholeUnits(viewings))
	return b
}

// ComputeDailyFlowTargets adds the weekly viewing target to the shared funnel.
func (s *RealEstate) ComputeDailyFlowTargets(b goal.Breakdown, cfg *goal.DailyFlowConfig) goal.DailyFlowTargets {
	t := s.base.ComputeDailyFlowTargets(b, cfg)
	if b.SecondaryUnits != nil {
		t.CustomTargets = map[string]float64{
			"viewings_per_week": perWeek(*b.SecondaryUnits, b.TimeframeMonths),
		}
	}
	return t
}
