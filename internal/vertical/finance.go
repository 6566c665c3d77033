package vertical

import (
	"fmt"

	"goalflow/internal/goal"
)

const (
	finAvgContractValue         = 150
	finAvgCommissionPerContract = 1800
	finConsultationToContract   = 0.40
	finReferralRate             = 0.3
	finPremiumMonthsPerYear     = 12
)

// Finance models advisors selling insurance and investment contracts.
type Finance struct {
	base
}

// NewFinance returns the financial services strategy.
func NewFinance(opts ...Option) *Finance {
	o := buildOptions(opts)
	return &Finance{base: base{
		id:    goal.VerticalFinance,
		label: "Financial Services",
		config: goal.DailyFlowConfig{
			WorkingDaysPerWeek:     5,
			ContactToPrimaryUnit:   0.1,
			ContactToSecondaryUnit: goal.Float(0.25),
			FollowupsPerPrimary:    4,
			FollowupsPerSecondary:  goal.Float(1),
			ReactivationShare:      0.25,
		},
		kpis: []goal.KPIDefinition{
			{ID: "new_contacts", Label: "New contacts", Description: "Prospects approached", TimeUnit: "day", Icon: "user-plus", Color: "blue"},
			{ID: "consultations", Label: "Consultations", Description: "Needs analyses held", TimeUnit: "week", Icon: "clipboard", Color: "teal"},
			{ID: "contracts", Label: "Contracts", Description: "Contracts signed", TimeUnit: "month", Icon: "file-signature", Color: "green"},
			{ID: "referrals", Label: "Referrals", Description: "Recommendations from existing clients", TimeUnit: "month", Icon: "share", Color: "purple"},
			{ID: "annual_premium", Label: "Annual premium", Description: "Premium volume written", TimeUnit: "month", Icon: "euro", Color: "orange"},
		},
		locale:            o.locale,
		volumeDaysPerWeek: 5,
	}}
}

func (s *Finance) ComputeGoalBreakdown(in goal.Input) goal.Breakdown {
	switch in.Kind {
	case goal.KindDeals:
		return s.contractsBreakdown(in, in.Target())
	case goal.KindVolume:
		return s.contractsBreakdown(in, in.Target()/(finAvgContractValue*finPremiumMonthsPerYear))
	case goal.KindIncome, goal.KindRank, goal.KindClients:
		return s.incomeBreakdown(in)
	default:
		return s.incomeBreakdown(in)
	}
}

func (s *Finance) incomeBreakdown(in goal.Input) goal.Breakdown {
	monthlyContracts := in.Target() / finAvgCommissionPerContract
	b := s.contractsBreakdown(in, monthlyContracts*in.TimeframeMonths)
	b.Notes = fmt.Sprintf("%.0f monthly income needs %.1f contracts per month.", in.Target(), monthlyContracts)
	return b
}

func (s *Finance) contractsBreakdown(in goal.Input, contracts float64) goal.Breakdown {
	consultations := contracts / finConsultationToContract
	annualPremium := contracts * finAvgContractValue * finPremiumMonthsPerYear

	b := s.newBreakdown(in)
	b.PrimaryUnits = contracts
	b.SecondaryUnits = goal.Float(consultations)
	b.Details = goal.FinanceDetails{
		Contracts:                wholeUnits(contracts),
		MonthlyContracts:         safeDiv(contracts, in.TimeframeMonths),
		Consultations:            wholeUnits(consultations),
		AvgCommissionPerContract: finAvgCommissionPerContract,
		AnnualPremium:            annualPremium,
		ExpectedReferrals:        wholeUnits(contracts * finReferralRate),
	}
	s.apportion(&b, annualPremium)
	b.Notes = fmt.Sprintf("%d contracts need about %d consultations.", wholeUnits(contracts), wholeUnits(consultations))
	return b
}

// ComputeDailyFlowTargets adds weekly consultations and expected referrals.
func (s *Finance) ComputeDailyFlowTargets(b goal.Breakdown, cfg *goal.DailyFlowConfig) goal.DailyFlowTargets {
	t := s.base.ComputeDailyFlowTargets(b, cfg)
	t.CustomTargets = map[string]float64{
		"referrals_per_month": safeDiv(b.PrimaryUnits*finReferralRate, b.TimeframeMonths),
	}
	if b.SecondaryUnits != nil {
		t.CustomTargets["consultations_per_week"] = perWeek(*b.SecondaryUnits, b.TimeframeMonths)
	}
	return t
}
