package goal

import (
	"fmt"
	"strings"
)

// VerticalID identifies a business vertical.
type VerticalID string

const (
	VerticalNetworkMarketing VerticalID = "network_marketing"
	VerticalRealEstate       VerticalID = "real_estate"
	VerticalFinance          VerticalID = "finance"
	VerticalCoaching         VerticalID = "coaching"
)

// DefaultVertical is used when a requested vertical is not registered.
const DefaultVertical = VerticalNetworkMarketing

func (v VerticalID) String() string {
	return string(v)
}

// Kind is the unit in which a goal is expressed.
type Kind string

const (
	KindIncome  Kind = "income"
	KindRank    Kind = "rank"
	KindDeals   Kind = "deals"
	KindVolume  Kind = "volume"
	KindClients Kind = "clients"
)

// Kinds returns every known goal kind.
func Kinds() []Kind {
	return []Kind{KindIncome, KindRank, KindDeals, KindVolume, KindClients}
}

// ParseKind normalizes a goal kind string. Unknown values are returned as-is
// together with an error so callers can decide whether to reject or fall back.
func ParseKind(value string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(value)))
	if k.Known() {
		return k, nil
	}
	return k, fmt.Errorf("invalid goal kind %q (expected income, rank, deals, volume, or clients)", value)
}

// Known reports whether k is one of the defined goal kinds.
func (k Kind) Known() bool {
	switch k {
	case KindIncome, KindRank, KindDeals, KindVolume, KindClients:
		return true
	default:
		return false
	}
}

func (k Kind) String() string {
	return string(k)
}

// Input is a caller-supplied goal request. It is never persisted.
type Input struct {
	VerticalID VerticalID `json:"vertical_id" yaml:"vertical"`
	Kind       Kind       `json:"goal_kind" yaml:"goal_kind"`
	// TargetValue is optional; its unit depends on Kind (currency per month,
	// unit count or volume credits).
	TargetValue     *float64          `json:"target_value,omitempty" yaml:"target_value,omitempty"`
	TimeframeMonths float64           `json:"timeframe_months" yaml:"timeframe_months"`
	Meta            map[string]string `json:"vertical_meta,omitempty" yaml:"meta,omitempty"`
}

// Target returns the target value, or zero when absent.
func (in Input) Target() float64 {
	if in.TargetValue == nil {
		return 0
	}
	return *in.TargetValue
}

// MetaValue returns a trimmed meta value.
func (in Input) MetaValue(key string) string {
	if in.Meta == nil {
		return ""
	}
	return strings.TrimSpace(in.Meta[key])
}

// Breakdown describes the business activity required to hit a goal.
type Breakdown struct {
	VerticalID      VerticalID `json:"vertical_id"`
	Kind            Kind       `json:"goal_kind"`
	TimeframeMonths float64    `json:"timeframe_months"`
	PrimaryUnits    float64    `json:"primary_units"`
	SecondaryUnits  *float64   `json:"secondary_units,omitempty"`
	RequiredVolume  *float64   `json:"required_volume,omitempty"`
	PerMonthVolume  *float64   `json:"per_month_volume,omitempty"`
	PerWeekVolume   *float64   `json:"per_week_volume,omitempty"`
	PerDayVolume    *float64   `json:"per_day_volume,omitempty"`
	Details         Details    `json:"vertical_details,omitempty"`
	Notes           string     `json:"notes"`
}

// DailyFlowConfig holds the conversion assumptions that drive the daily funnel.
type DailyFlowConfig struct {
	WorkingDaysPerWeek int `json:"working_days_per_week" yaml:"working_days_per_week"`
	// ContactToPrimaryUnit of zero selects the fallback contact heuristic.
	ContactToPrimaryUnit   float64  `json:"contact_to_primary_unit" yaml:"contact_to_primary_unit"`
	ContactToSecondaryUnit *float64 `json:"contact_to_secondary_unit,omitempty" yaml:"contact_to_secondary_unit,omitempty"`
	FollowupsPerPrimary    float64  `json:"followups_per_primary" yaml:"followups_per_primary"`
	FollowupsPerSecondary  *float64 `json:"followups_per_secondary,omitempty" yaml:"followups_per_secondary,omitempty"`
	ReactivationShare      float64  `json:"reactivation_share" yaml:"reactivation_share"`
}

// Validate checks the config against its documented bounds.
func (c DailyFlowConfig) Validate() error {
	var errs []string
	if c.WorkingDaysPerWeek < 1 || c.WorkingDaysPerWeek > 7 {
		errs = append(errs, "working_days_per_week must be between 1 and 7")
	}
	if c.ContactToPrimaryUnit < 0 || c.ContactToPrimaryUnit > 1 {
		errs = append(errs, "contact_to_primary_unit must be between 0.0 and 1.0")
	}
	if c.ContactToSecondaryUnit != nil && (*c.ContactToSecondaryUnit < 0 || *c.ContactToSecondaryUnit > 1) {
		errs = append(errs, "contact_to_secondary_unit must be between 0.0 and 1.0")
	}
	if c.FollowupsPerPrimary < 0 {
		errs = append(errs, "followups_per_primary must not be negative")
	}
	if c.FollowupsPerSecondary != nil && *c.FollowupsPerSecondary < 0 {
		errs = append(errs, "followups_per_secondary must not be negative")
	}
	if c.ReactivationShare < 0 || c.ReactivationShare > 1 {
		errs = append(errs, "reactivation_share must be between 0.0 and 1.0")
	}
	if len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	return nil
}

// DailyFlowTargets is the recommended daily activity.
type DailyFlowTargets struct {
	VerticalID    VerticalID         `json:"vertical_id"`
	NewContacts   int                `json:"new_contacts"`
	Followups     int                `json:"followups"`
	Reactivations int                `json:"reactivations"`
	CustomTargets map[string]float64 `json:"custom_targets,omitempty"`
}

// KPIDefinition is display metadata for a dashboard metric.
type KPIDefinition struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Description string `json:"description"`
	TimeUnit    string `json:"time_unit"`
	Icon        string `json:"icon,omitempty"`
	Color       string `json:"color,omitempty"`
}

// Float returns a pointer to v.
func Float(v float64) *float64 {
	return &v
}
