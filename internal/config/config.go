// Package config loads goalflow settings and goal files from YAML.
package config

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"goalflow/internal/goal"
	"goalflow/internal/registry"
)

// FileName is the settings file name inside a workspace.
const FileName = "goalflow.yml"

type rawSettings struct {
	Locale           string                  `yaml:"locale"`
	FallbackVertical string                  `yaml:"fallback_vertical"`
	Verticals        map[string]FlowOverride `yaml:"verticals"`
}

// FlowOverride is a partial daily-flow config. Nil fields keep the vertical default.
type FlowOverride struct {
	WorkingDaysPerWeek     *int     `yaml:"working_days_per_week,omitempty"`
	ContactToPrimaryUnit   *float64 `yaml:"contact_to_primary_unit,omitempty"`
	ContactToSecondaryUnit *float64 `yaml:"contact_to_secondary_unit,omitempty"`
	FollowupsPerPrimary    *float64 `yaml:"followups_per_primary,omitempty"`
	FollowupsPerSecondary  *float64 `yaml:"followups_per_secondary,omitempty"`
	ReactivationShare      *float64 `yaml:"reactivation_share,omitempty"`
}

// Apply returns base with the override's set fields replaced.
func (o FlowOverride) Apply(base goal.DailyFlowConfig) goal.DailyFlowConfig {
	out := base
	if o.WorkingDaysPerWeek != nil {
		out.WorkingDaysPerWeek = *o.WorkingDaysPerWeek
	}
	if o.ContactToPrimaryUnit != nil {
		out.ContactToPrimaryUnit = *o.ContactToPrimaryUnit
	}
	if o.ContactToSecondaryUnit != nil {
		out.ContactToSecondaryUnit = goal.Float(*o.ContactToSecondaryUnit)
	}
	if o.FollowupsPerPrimary != nil {
		out.FollowupsPerPrimary = *o.FollowupsPerPrimary
	}
	if o.FollowupsPerSecondary != nil {
		out.FollowupsPerSecondary = goal.Float(*o.FollowupsPerSecondary)
	}
	if o.ReactivationShare != nil {
		out.ReactivationShare = *o.ReactivationShare
	}
	return out
}

// Settings is the normalized content of goalflow.yml.
type Settings struct {
	Locale           language.Tag
	FallbackVertical goal.VerticalID
	Verticals        map[goal.VerticalID]FlowOverride
	Source           string
}

// Defaults returns the settings used when no file exists.
func Defaults() *Settings {
	return &Settings{
		Locale:           language.German,
		FallbackVertical: goal.DefaultVertical,
		Verticals:        map[goal.VerticalID]FlowOverride{},
	}
}

// Load reads settings from path. A missing file yields Defaults.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			s := Defaults()
			s.Source = path
			return s, nil
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return ParseSettings(data, path)
}

// ParseSettings unmarshals and validates a settings document.
func ParseSettings(data []byte, source string) (*Settings, error) {
	var raw rawSettings
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, ValidationErrors{{
			File:    source,
			Field:   "yaml",
			Message: err.Error(),
		}}
	}

	var errs ValidationErrors
	settings := Defaults()
	settings.Source = source

	if strings.TrimSpace(raw.Locale) != "" {
		tag, err := language.Parse(strings.TrimSpace(raw.Locale))
		if err != nil {
			errs = append(errs, ValidationError{
				File:    source,
				Field:   "locale",
				Message: fmt.Sprintf("invalid locale %q", raw.Locale),
			})
		} else {
			settings.Locale = tag
		}
	}
	if id := strings.TrimSpace(raw.FallbackVertical); id != "" {
		settings.FallbackVertical = goal.VerticalID(id)
	}

	ids := make([]string, 0, len(raw.Verticals))
	for id := range raw.Verticals {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		override := raw.Verticals[id]
		errs = append(errs, validateOverride(override, "verticals."+id, source)...)
		settings.Verticals[goal.VerticalID(strings.TrimSpace(id))] = override
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return settings, nil
}

func validateOverride(o FlowOverride, fieldPath string, source string) ValidationErrors {
	var errs ValidationErrors
	ratio := func(name string, v *float64) {
		if v != nil && (*v < 0 || *v > 1) {
			errs = append(errs, ValidationError{
				File:    source,
				Field:   fieldPath + "." + name,
				Message: "must be between 0.0 and 1.0",
			})
		}
	}
	nonNegative := func(name string, v *float64) {
		if v != nil && *v < 0 {
			errs = append(errs, ValidationError{
				File:    source,
				Field:   fieldPath + "." + name,
				Message: "must not be negative",
			})
		}
	}

	if o.WorkingDaysPerWeek != nil && (*o.WorkingDaysPerWeek < 1 || *o.WorkingDaysPerWeek > 7) {
		errs = append(errs, ValidationError{
			File:    source,
			Field:   fieldPath + ".working_days_per_week",
			Message: "must be between 1 and 7",
		})
	}
	ratio("contact_to_primary_unit", o.ContactToPrimaryUnit)
	ratio("contact_to_secondary_unit", o.ContactToSecondaryUnit)
	nonNegative("followups_per_primary", o.FollowupsPerPrimary)
	nonNegative("followups_per_secondary", o.FollowupsPerSecondary)
	ratio("reactivation_share", o.ReactivationShare)
	return errs
}

// Overrides merges the configured overrides onto the defaults of the
// verticals in reg. Overrides for unregistered verticals are rejected.
func (s *Settings) Overrides(reg *registry.Registry) (map[goal.VerticalID]goal.DailyFlowConfig, error) {
	out := make(map[goal.VerticalID]goal.DailyFlowConfig, len(s.Verticals))
	var errs ValidationErrors
	for _, id := range sortedIDs(s.Verticals) {
		strategy, err := reg.Get(id)
		if err != nil {
			errs = append(errs, ValidationError{
				File:    s.Source,
				Field:   "verticals." + string(id),
				Message: err.Error(),
			})
			continue
		}
		out[id] = s.Verticals[id].Apply(strategy.DefaultConversionConfig())
	}
	if !reg.Has(s.FallbackVertical) {
		errs = append(errs, ValidationError{
			File:    s.Source,
			Field:   "fallback_vertical",
			Message: fmt.Sprintf("vertical %q is not registered", s.FallbackVertical),
		})
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return out, nil
}

func sortedIDs(m map[goal.VerticalID]FlowOverride) []goal.VerticalID {
	ids := make([]goal.VerticalID, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// ParseFlowOverride unmarshals and validates a standalone daily-flow override.
func ParseFlowOverride(data []byte, source string) (FlowOverride, error) {
	var o FlowOverride
	if err := yaml.Unmarshal(data, &o); err != nil {
		return FlowOverride{}, ValidationErrors{{
			File:    source,
			Field:   "yaml",
			Message: err.Error(),
		}}
	}
	if errs := validateOverride(o, "flow", source); len(errs) > 0 {
		return FlowOverride{}, errs
	}
	return o, nil
}
