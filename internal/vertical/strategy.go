// Package vertical implements the per-industry goal strategies and the
// daily-flow funnel they share.
package vertical

import (
	"math"

	"golang.org/x/text/language"

	"goalflow/internal/goal"
)

// WeeksPerMonth is the average number of weeks in a calendar month.
const WeeksPerMonth = 4.33

const (
	minTimeframeMonths = 1
	maxTimeframeMonths = 60
)

// Strategy turns a goal into a breakdown and a daily plan for one vertical.
type Strategy interface {
	ID() goal.VerticalID
	Label() string
	// ComputeGoalBreakdown is pure and never fails for input that passed
	// ValidateGoalInput.
	ComputeGoalBreakdown(in goal.Input) goal.Breakdown
	DefaultConversionConfig() goal.DailyFlowConfig
	// KPIDefinitions is ordered for dashboard layout.
	KPIDefinitions() []goal.KPIDefinition
	// ComputeDailyFlowTargets uses the vertical defaults when cfg is nil.
	ComputeDailyFlowTargets(b goal.Breakdown, cfg *goal.DailyFlowConfig) goal.DailyFlowTargets
	ValidateGoalInput(in goal.Input) []string
	FormatSummary(b goal.Breakdown, t goal.DailyFlowTargets) string
}

// Option configures a built-in strategy.
type Option func(*options)

type options struct {
	locale language.Tag
}

// WithLocale sets the locale used for number formatting in summaries.
func WithLocale(tag language.Tag) Option {
	return func(o *options) {
		o.locale = tag
	}
}

func buildOptions(opts []Option) options {
	o := options{locale: language.German}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

// base carries the behaviour every vertical shares.
type base struct {
	id     goal.VerticalID
	label  string
	config goal.DailyFlowConfig
	kpis   []goal.KPIDefinition
	locale language.Tag
	// volumeDaysPerWeek is used only to apportion required volume per day.
	volumeDaysPerWeek float64
}

func (b *base) ID() goal.VerticalID { return b.id }

func (b *base) Label() string { return b.label }

func (b *base) DefaultConversionConfig() goal.DailyFlowConfig {
	return copyConfig(b.config)
}

func (b *base) KPIDefinitions() []goal.KPIDefinition {
	return append([]goal.KPIDefinition(nil), b.kpis...)
}

func (b *base) ComputeDailyFlowTargets(bd goal.Breakdown, cfg *goal.DailyFlowConfig) goal.DailyFlowTargets {
	effective := b.config
	if cfg != nil {
		effective = *cfg
	}
	return DailyFlow(b.id, bd, effective)
}

func (b *base) ValidateGoalInput(in goal.Input) []string {
	return validateDefaults(in)
}

func (b *base) FormatSummary(bd goal.Breakdown, t goal.DailyFlowTargets) string {
	return formatSummary(b.locale, b.label, bd, t)
}

// newBreakdown starts a breakdown echoing the input.
func (b *base) newBreakdown(in goal.Input) goal.Breakdown {
	return goal.Breakdown{
		VerticalID:      b.id,
		Kind:            in.Kind,
		TimeframeMonths: in.TimeframeMonths,
	}
}

// apportion sets the required volume and spreads it over months, weeks and days.
func (b *base) apportion(bd *goal.Breakdown, volume float64) {
	months := bd.TimeframeMonths
	weeks := months * WeeksPerMonth
	days := weeks * b.volumeDaysPerWeek

	bd.RequiredVolume = goal.Float(volume)
	bd.PerMonthVolume = goal.Float(safeDiv(volume, months))
	bd.PerWeekVolume = goal.Float(safeDiv(volume, weeks))
	bd.PerDayVolume = goal.Float(safeDiv(volume, days))
}

func validateDefaults(in goal.Input) []string {
	var errs []string
	if math.IsNaN(in.TimeframeMonths) || in.TimeframeMonths < minTimeframeMonths || in.TimeframeMonths > maxTimeframeMonths {
		errs = append(errs, "timeframe_months must be between 1 and 60")
	}
	if in.TargetValue != nil {
		switch v := *in.TargetValue; {
		case math.IsNaN(v) || math.IsInf(v, 0):
			errs = append(errs, "target_value must be a finite number")
		case v <= 0:
			errs = append(errs, "target_value must be greater than 0")
		}
	}
	return errs
}

func copyConfig(c goal.DailyFlowConfig) goal.DailyFlowConfig {
	out := c
	if c.ContactToSecondaryUnit != nil {
		out.ContactToSecondaryUnit = goal.Float(*c.ContactToSecondaryUnit)
	}
	if c.FollowupsPerSecondary != nil {
		out.FollowupsPerSecondary = goal.Float(*c.FollowupsPerSecondary)
	}
	return out
}

func safeDiv(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}

// wholeUnits rounds a fractional count up; half a customer is still one to find.
func wholeUnits(v float64) int {
	if v <= 0 || math.IsNaN(v) {
		return 0
	}
	if v >= math.MaxInt {
		return math.MaxInt
	}
	return int(math.Ceil(v - 1e-9))
}
