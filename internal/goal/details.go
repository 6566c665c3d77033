package goal

import "sort"

// Details carries vertical-specific intermediate figures of a breakdown.
// The set of implementations is closed to this package.
type Details interface {
	// Fields flattens the details for generic rendering.
	Fields() map[string]float64
	isDetails()
}

// NetworkMarketingDetails splits the required volume into customers and partners.
type NetworkMarketingDetails struct {
	Customers      int     `json:"customers"`
	Partners       int     `json:"partners"`
	CustomerVolume float64 `json:"customer_volume"`
	PartnerVolume  float64 `json:"partner_volume"`
	Rank           string  `json:"rank,omitempty"`
}

func (NetworkMarketingDetails) isDetails() {}

func (d NetworkMarketingDetails) Fields() map[string]float64 {
	return map[string]float64{
		"customers":       float64(d.Customers),
		"partners":        float64(d.Partners),
		"customer_volume": d.CustomerVolume,
		"partner_volume":  d.PartnerVolume,
	}
}

// RealEstateDetails tracks deals and the viewings that lead to them.
type RealEstateDetails struct {
	Deals               int     `json:"deals"`
	MonthlyDeals        float64 `json:"monthly_deals"`
	Viewings            int     `json:"viewings"`
	EstimatedCommission float64 `json:"estimated_commission"`
}

func (RealEstateDetails) isDetails() {}

func (d RealEstateDetails) Fields() map[string]float64 {
	return map[string]float64{
		"deals":                float64(d.Deals),
		"monthly_deals":        d.MonthlyDeals,
		"viewings":             float64(d.Viewings),
		"estimated_commission": d.EstimatedCommission,
	}
}

// FinanceDetails tracks contracts and consultations.
type FinanceDetails struct {
	Contracts                int     `json:"contracts"`
	MonthlyContracts         float64 `json:"monthly_contracts"`
	Consultations            int     `json:"consultations"`
	AvgCommissionPerContract float64 `json:"avg_commission_per_contract"`
	AnnualPremium            float64 `json:"annual_premium"`
	ExpectedReferrals        int     `json:"expected_referrals"`
}

func (FinanceDetails) isDetails() {}

func (d FinanceDetails) Fields() map[string]float64 {
	return map[string]float64{
		"contracts":                   float64(d.Contracts),
		"monthly_contracts":           d.MonthlyContracts,
		"consultations":               float64(d.Consultations),
		"avg_commission_per_contract": d.AvgCommissionPerContract,
		"annual_premium":              d.AnnualPremium,
		"expected_referrals":          float64(d.ExpectedReferrals),
	}
}

// CoachingDetails tracks the client-first funnel.
type CoachingDetails struct {
	Clients        int     `json:"clients"`
	DiscoveryCalls int     `json:"discovery_calls"`
	Leads          int     `json:"leads"`
	Revenue        float64 `json:"revenue"`
}

func (CoachingDetails) isDetails() {}

func (d CoachingDetails) Fields() map[string]float64 {
	return map[string]float64{
		"clients":         float64(d.Clients),
		"discovery_calls": float64(d.DiscoveryCalls),
		"leads":           float64(d.Leads),
		"revenue":         d.Revenue,
	}
}

// SortedKeys returns the keys of m in lexical order.
func SortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
