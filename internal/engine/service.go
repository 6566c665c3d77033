// Package engine is the single entry point for goal calculations. It resolves
// the vertical, validates the input, and assembles breakdown, daily targets
// and presentation strings.
package engine

import (
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/language"

	"goalflow/internal/goal"
	"goalflow/internal/registry"
	"goalflow/internal/vertical"
)

// Result bundles everything a complete calculation produces.
type Result struct {
	Input         goal.Input            `json:"input"`
	Breakdown     goal.Breakdown        `json:"breakdown"`
	DailyTargets  goal.DailyFlowTargets `json:"daily_targets"`
	Summary       string                `json:"summary"`
	KPIs          []goal.KPIDefinition  `json:"kpis"`
	VerticalLabel string                `json:"vertical_label"`
	Resolution    registry.Resolution   `json:"resolution"`
}

// Service is the goal engine façade. It is safe for concurrent use.
type Service struct {
	registry  *registry.Registry
	logger    *zap.Logger
	locale    language.Tag
	overrides map[goal.VerticalID]goal.DailyFlowConfig
	fallback  goal.VerticalID
	now       func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the diagnostics logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithLocale sets the locale for widget and coaching text.
func WithLocale(tag language.Tag) Option {
	return func(s *Service) {
		s.locale = tag
	}
}

// WithConfigOverrides replaces vertical default configs for complete
// calculations and DefaultConfig lookups.
func WithConfigOverrides(overrides map[goal.VerticalID]goal.DailyFlowConfig) Option {
	return func(s *Service) {
		s.overrides = make(map[goal.VerticalID]goal.DailyFlowConfig, len(overrides))
		for id, cfg := range overrides {
			s.overrides[id] = cfg
		}
	}
}

// WithFallbackVertical sets the vertical used for unknown ids.
func WithFallbackVertical(id goal.VerticalID) Option {
	return func(s *Service) {
		s.fallback = id
	}
}

// WithClock overrides the time source used by TimeRemaining.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New returns a Service backed by reg. A nil registry selects the built-in
// verticals.
func New(reg *registry.Registry, opts ...Option) *Service {
	s := &Service{
		registry: reg,
		logger:   zap.NewNop(),
		locale:   language.German,
		fallback: goal.DefaultVertical,
		now:      time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.registry == nil {
		s.registry = registry.Default(vertical.WithLocale(s.locale))
	}
	return s
}

// Registry returns the registry the service resolves against.
func (s *Service) Registry() *registry.Registry {
	return s.registry
}

// CalculateGoalComplete validates in and returns breakdown, daily targets,
// summary, KPIs and label. Invalid input yields a *goal.ValidationError.
func (s *Service) CalculateGoalComplete(in goal.Input) (*Result, error) {
	strategy, res, err := s.prepare(in)
	if err != nil {
		return nil, err
	}

	breakdown := strategy.ComputeGoalBreakdown(in)
	if err := checkFinite(breakdown); err != nil {
		return nil, err
	}
	targets := strategy.ComputeDailyFlowTargets(breakdown, s.override(strategy.ID()))

	s.logger.Debug("goal calculated",
		zap.String("vertical", string(strategy.ID())),
		zap.String("goal_kind", string(in.Kind)),
		zap.Float64("primary_units", breakdown.PrimaryUnits),
		zap.Int("new_contacts", targets.NewContacts),
		zap.Int("followups", targets.Followups),
		zap.Int("reactivations", targets.Reactivations),
	)

	return &Result{
		Input:         in,
		Breakdown:     breakdown,
		DailyTargets:  targets,
		Summary:       strategy.FormatSummary(breakdown, targets),
		KPIs:          strategy.KPIDefinitions(),
		VerticalLabel: strategy.Label(),
		Resolution:    res,
	}, nil
}

// CalculateBreakdown validates in and returns its breakdown.
func (s *Service) CalculateBreakdown(in goal.Input) (goal.Breakdown, error) {
	strategy, _, err := s.prepare(in)
	if err != nil {
		return goal.Breakdown{}, err
	}
	breakdown := strategy.ComputeGoalBreakdown(in)
	if err := checkFinite(breakdown); err != nil {
		return goal.Breakdown{}, err
	}
	return breakdown, nil
}

// CalculateDailyTargets validates in and returns its daily targets. A nil cfg
// selects the configured override or the vertical default.
func (s *Service) CalculateDailyTargets(in goal.Input, cfg *goal.DailyFlowConfig) (goal.DailyFlowTargets, error) {
	strategy, _, err := s.resolve(in.VerticalID)
	if err != nil {
		return goal.DailyFlowTargets{}, err
	}

	errs := strategy.ValidateGoalInput(in)
	if cfg != nil {
		if cfgErr := cfg.Validate(); cfgErr != nil {
			if ve, ok := cfgErr.(*goal.ValidationError); ok {
				errs = append(errs, ve.Errors...)
			} else {
				errs = append(errs, cfgErr.Error())
			}
		}
	} else {
		cfg = s.override(strategy.ID())
	}
	if len(errs) > 0 {
		return goal.DailyFlowTargets{}, &goal.ValidationError{Errors: errs}
	}

	breakdown := strategy.ComputeGoalBreakdown(in)
	if err := checkFinite(breakdown); err != nil {
		return goal.DailyFlowTargets{}, err
	}
	return strategy.ComputeDailyFlowTargets(breakdown, cfg), nil
}

// KPIsForVertical returns the dashboard KPIs of id, or of the fallback vertical.
func (s *Service) KPIsForVertical(id goal.VerticalID) []goal.KPIDefinition {
	strategy, _, err := s.resolve(id)
	if err != nil {
		return nil
	}
	return strategy.KPIDefinitions()
}

// DefaultConfig returns the effective daily-flow config of id: the configured
// override if any, else the vertical default.
func (s *Service) DefaultConfig(id goal.VerticalID) goal.DailyFlowConfig {
	strategy, _, err := s.resolve(id)
	if err != nil {
		return goal.DailyFlowConfig{}
	}
	if cfg := s.override(strategy.ID()); cfg != nil {
		return *cfg
	}
	return strategy.DefaultConversionConfig()
}

// ListVerticals returns the selectable verticals.
func (s *Service) ListVerticals() []registry.VerticalInfo {
	return s.registry.ListVerticals()
}

func (s *Service) prepare(in goal.Input) (vertical.Strategy, registry.Resolution, error) {
	strategy, res, err := s.resolve(in.VerticalID)
	if err != nil {
		return nil, res, err
	}
	if errs := strategy.ValidateGoalInput(in); len(errs) > 0 {
		return nil, res, &goal.ValidationError{Errors: errs}
	}
	return strategy, res, nil
}

func (s *Service) resolve(id goal.VerticalID) (vertical.Strategy, registry.Resolution, error) {
	strategy, res := s.registry.GetOrDefault(id, s.fallback)
	if strategy == nil {
		return nil, res, fmt.Errorf("resolve vertical %q: no verticals registered", id)
	}
	if res.Fallback {
		s.logger.Warn("unknown vertical, using fallback",
			zap.String("requested", string(res.Requested)),
			zap.String("resolved", string(res.Resolved)),
		)
	}
	return strategy, res, nil
}

func (s *Service) override(id goal.VerticalID) *goal.DailyFlowConfig {
	cfg, ok := s.overrides[id]
	if !ok {
		return nil
	}
	return &cfg
}

// checkFinite rejects breakdowns whose figures overflowed float64.
func checkFinite(b goal.Breakdown) error {
	values := []float64{b.PrimaryUnits}
	for _, v := range []*float64{b.SecondaryUnits, b.RequiredVolume, b.PerMonthVolume, b.PerWeekVolume, b.PerDayVolume} {
		if v != nil {
			values = append(values, *v)
		}
	}
	if b.Details != nil {
		for _, v := range b.Details.Fields() {
			values = append(values, v)
		}
	}
	for _, v := range values {
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return &goal.ValidationError{Errors: []string{"target_value is too large to compute a breakdown"}}
		}
	}
	return nil
}
