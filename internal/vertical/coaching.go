package vertical

import (
	"fmt"

	"goalflow/internal/goal"
)

const (
	coachAvgClientValue    = 3000
	coachDiscoveryToClient = 0.25
	coachLeadToDiscovery   = 0.30
)

// Coaching models coaches converting leads via discovery calls.
type Coaching struct {
	base
}

// NewCoaching returns the coaching strategy.
func NewCoaching(opts ...Option) *Coaching {
	o := buildOptions(opts)
	return &Coaching{base: base{
		id:    goal.VerticalCoaching,
		label: "Coaching",
		config: goal.DailyFlowConfig{
			WorkingDaysPerWeek:     5,
			ContactToPrimaryUnit:   coachDiscoveryToClient * coachLeadToDiscovery,
			ContactToSecondaryUnit: goal.Float(coachLeadToDiscovery),
			FollowupsPerPrimary:    5,
			FollowupsPerSecondary:  goal.Float(1),
			ReactivationShare:      0.1,
		},
		kpis: []goal.KPIDefinition{
			{ID: "leads", Label: "Leads", Description: "New leads in the pipeline", TimeUnit: "day", Icon: "magnet", Color: "blue"},
			{ID: "discovery_calls", Label: "Discovery calls", Description: "Free discovery calls held", TimeUnit: "week", Icon: "video", Color: "teal"},
			{ID: "clients", Label: "Clients", Description: "Clients signed for a programme", TimeUnit: "month", Icon: "award", Color: "green"},
			{ID: "revenue", Label: "Revenue", Description: "Programme revenue", TimeUnit: "month", Icon: "euro", Color: "orange"},
		},
		locale:            o.locale,
		volumeDaysPerWeek: 5,
	}}
}

func (s *Coaching) ComputeGoalBreakdown(in goal.Input) goal.Breakdown {
	switch in.Kind {
	case goal.KindClients, goal.KindDeals:
		return s.clientsBreakdown(in, in.Target())
	case goal.KindVolume:
		return s.clientsBreakdown(in, in.Target()/coachAvgClientValue)
	case goal.KindIncome, goal.KindRank:
		return s.incomeBreakdown(in)
	default:
		return s.incomeBreakdown(in)
	}
}

func (s *Coaching) incomeBreakdown(in goal.Input) goal.Breakdown {
	b := s.clientsBreakdown(in, in.Target()/coachAvgClientValue)
	b.Notes = fmt.Sprintf("%.0f income needs %d clients at %d each.",
		in.Target(), wholeUnits(b.PrimaryUnits), coachAvgClientValue)
	return b
}

func (s *Coaching) clientsBreakdown(in goal.Input, clients float64) goal.Breakdown {
	calls := clients / coachDiscoveryToClient
	leads := calls / coachLeadToDiscovery
	revenue := clients * coachAvgClientValue

	b := s.newBreakdown(in)
	b.PrimaryUnits = clients
	b.SecondaryUnits = goal.Float(calls)
	b.Details = goal.CoachingDetails{
		Clients:        wholeUnits(clients),
		DiscoveryCalls: wholeUnits(calls),
		Leads:          wholeUnits(leads),
		Revenue:        revenue,
	}
	s.apportion(&b, revenue)
	b.Notes = fmt.Sprintf("%d clients need %d discovery calls from %d leads.",
		wholeUnits(clients), wholeUnits(calls), wholeUnits(leads))
	return b
}

// ComputeDailyFlowTargets adds the weekly discovery call target.
func (s *Coaching) ComputeDailyFlowTargets(b goal.Breakdown, cfg *goal.DailyFlowConfig) goal.DailyFlowTargets {
	t := s.base.ComputeDailyFlowTargets(b, cfg)
	if b.SecondaryUnits != nil {
		t.CustomTargets = map[string]float64{
			"discovery_calls_per_week": perWeek(*b.SecondaryUnits, b.TimeframeMonths),
		}
	}
	return t
}
