package vertical

import (
	"fmt"
	"math"
	"strings"

	"goalflow/internal/goal"
)

const (
	nmCommissionRate    = 0.08
	nmAvgCustomerVolume = 60
	nmAvgPartnerVolume  = 100
	// nmCustomerShare of the required volume comes from end customers, the
	// rest from partners.
	nmCustomerShare = 0.7
)

// MetaTargetRank selects the rank for rank goals.
const MetaTargetRank = "target_rank"

type rankRequirement struct {
	ID       string
	Label    string
	Volume   float64
	Partners int
}

var nmRanks = []rankRequirement{
	{ID: "distributor", Label: "Distributor", Volume: 1000, Partners: 2},
	{ID: "senior_distributor", Label: "Senior Distributor", Volume: 2500, Partners: 4},
	{ID: "manager", Label: "Manager", Volume: 5000, Partners: 6},
	{ID: "senior_manager", Label: "Senior Manager", Volume: 10000, Partners: 10},
	{ID: "director", Label: "Director", Volume: 25000, Partners: 15},
	{ID: "executive", Label: "Executive", Volume: 50000, Partners: 25},
}

// NetworkMarketing models direct selling with a customer/partner volume split.
type NetworkMarketing struct {
	base
}

// NewNetworkMarketing returns the network marketing strategy.
func NewNetworkMarketing(opts ...Option) *NetworkMarketing {
	o := buildOptions(opts)
	return &NetworkMarketing{base: base{
		id:    goal.VerticalNetworkMarketing,
		label: "Network Marketing",
		config: goal.DailyFlowConfig{
			WorkingDaysPerWeek:   5,
			ContactToPrimaryUnit: 0.2,
			FollowupsPerPrimary:  3,
			ReactivationShare:    0.2,
		},
		kpis: []goal.KPIDefinition{
			{ID: "new_contacts", Label: "New contacts", Description: "First conversations started", TimeUnit: "day", Icon: "user-plus", Color: "blue"},
			{ID: "followups", Label: "Follow-ups", Description: "Prospects contacted again", TimeUnit: "day", Icon: "repeat", Color: "indigo"},
			{ID: "new_customers", Label: "New customers", Description: "Customers placing a first order", TimeUnit: "month", Icon: "shopping-bag", Color: "green"},
			{ID: "new_partners", Label: "New partners", Description: "Partners joining the team", TimeUnit: "month", Icon: "users", Color: "purple"},
			{ID: "group_volume", Label: "Group volume", Description: "Volume credits of the whole team", TimeUnit: "month", Icon: "bar-chart", Color: "orange"},
		},
		locale:            o.locale,
		volumeDaysPerWeek: 5,
	}}
}

// RankIDs lists the known ranks from lowest to highest.
func RankIDs() []string {
	ids := make([]string, 0, len(nmRanks))
	for _, r := range nmRanks {
		ids = append(ids, r.ID)
	}
	return ids
}

func (s *NetworkMarketing) ValidateGoalInput(in goal.Input) []string {
	errs := validateDefaults(in)
	if in.Kind == goal.KindRank {
		if rank := in.MetaValue(MetaTargetRank); rank != "" {
			if _, ok := lookupRank(rank); !ok {
				errs = append(errs, fmt.Sprintf("unknown target_rank %q (expected one of %s)", rank, strings.Join(RankIDs(), ", ")))
			}
		}
	}
	return errs
}

func (s *NetworkMarketing) ComputeGoalBreakdown(in goal.Input) goal.Breakdown {
	switch in.Kind {
	case goal.KindRank:
		return s.rankBreakdown(in)
	case goal.KindClients:
		return s.clientsBreakdown(in)
	case goal.KindVolume:
		return s.volumeBreakdown(in, in.Target())
	case goal.KindIncome, goal.KindDeals:
		return s.incomeBreakdown(in)
	default:
		return s.incomeBreakdown(in)
	}
}

func (s *NetworkMarketing) incomeBreakdown(in goal.Input) goal.Breakdown {
	volume := in.Target() / nmCommissionRate
	b := s.splitVolume(in, volume)
	b.Notes = fmt.Sprintf("%.0f monthly income needs %.0f volume at %.0f%% commission.", in.Target(), volume, nmCommissionRate*100)
	return b
}

func (s *NetworkMarketing) volumeBreakdown(in goal.Input, volume float64) goal.Breakdown {
	b := s.splitVolume(in, volume)
	b.Notes = fmt.Sprintf("%.0f volume split %.0f/%.0f between customers and partners.", volume, nmCustomerShare*100, (1-nmCustomerShare)*100)
	return b
}

func (s *NetworkMarketing) splitVolume(in goal.Input, volume float64) goal.Breakdown {
	customerVolume := volume * nmCustomerShare
	partnerVolume := volume * (1 - nmCustomerShare)
	customers := customerVolume / nmAvgCustomerVolume
	partners := partnerVolume / nmAvgPartnerVolume

	b := s.newBreakdown(in)
	b.PrimaryUnits = customers + partners
	b.Details = goal.NetworkMarketingDetails{
		Customers:      wholeUnits(customers),
		Partners:       wholeUnits(partners),
		CustomerVolume: customerVolume,
		PartnerVolume:  partnerVolume,
	}
	s.apportion(&b, volume)
	return b
}

func (s *NetworkMarketing) rankBreakdown(in goal.Input) goal.Breakdown {
	rank := s.resolveRank(in)
	partnerVolume := float64(rank.Partners) * nmAvgPartnerVolume
	customerVolume := math.Max(rank.Volume-partnerVolume, 0)
	customers := customerVolume / nmAvgCustomerVolume

	b := s.newBreakdown(in)
	b.PrimaryUnits = customers + float64(rank.Partners)
	b.Details = goal.NetworkMarketingDetails{
		Customers:      wholeUnits(customers),
		Partners:       rank.Partners,
		CustomerVolume: customerVolume,
		PartnerVolume:  partnerVolume,
		Rank:           rank.ID,
	}
	s.apportion(&b, rank.Volume)
	b.Notes = fmt.Sprintf("%s requires %.0f volume and %d partners.", rank.Label, rank.Volume, rank.Partners)
	return b
}

// resolveRank picks the rank from meta, then from a 1-based target index,
// then the entry rank.
func (s *NetworkMarketing) resolveRank(in goal.Input) rankRequirement {
	if r, ok := lookupRank(in.MetaValue(MetaTargetRank)); ok {
		return r
	}
	if idx := int(in.Target()); idx >= 1 && idx <= len(nmRanks) {
		return nmRanks[idx-1]
	}
	return nmRanks[0]
}

func lookupRank(id string) (rankRequirement, bool) {
	id = strings.ToLower(strings.TrimSpace(id))
	for _, r := range nmRanks {
		if r.ID == id {
			return r, true
		}
	}
	return rankRequirement{}, false
}

func (s *NetworkMarketing) clientsBreakdown(in goal.Input) goal.Breakdown {
	customers := in.Target()
	volume := customers * nmAvgCustomerVolume

	b := s.newBreakdown(in)
	b.PrimaryUnits = customers
	b.Details = goal.NetworkMarketingDetails{
		Customers:      wholeUnits(customers),
		CustomerVolume: volume,
	}
	s.apportion(&b, volume)
	b.Notes = fmt.Sprintf("%d customers bring about %.0f volume.", wholeUnits(customers), volume)
	return b
}
