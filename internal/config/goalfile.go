package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"goalflow/internal/goal"
)

type rawGoal struct {
	Vertical        string            `yaml:"vertical"`
	GoalKind        string            `yaml:"goal_kind"`
	TargetValue     *float64          `yaml:"target_value"`
	TimeframeMonths *float64          `yaml:"timeframe_months"`
	Meta            map[string]string `yaml:"meta"`
}

// LoadGoal reads a goal input file.
func LoadGoal(path string) (goal.Input, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return goal.Input{}, fmt.Errorf("read %s: %w", path, err)
	}
	return ParseGoal(data, path)
}

// ParseGoal unmarshals a goal document. Structural problems are reported as
// ValidationErrors; range checks are left to the engine.
func ParseGoal(data []byte, source string) (goal.Input, error) {
	var raw rawGoal
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return goal.Input{}, ValidationErrors{{
			File:    source,
			Field:   "yaml",
			Message: err.Error(),
		}}
	}

	var errs ValidationErrors
	if strings.TrimSpace(raw.Vertical) == "" {
		errs = append(errs, ValidationError{
			File:    source,
			Field:   "vertical",
			Message: "vertical is required",
		})
	}
	kind, kindErr := goal.ParseKind(raw.GoalKind)
	if strings.TrimSpace(raw.GoalKind) == "" {
		errs = append(errs, ValidationError{
			File:    source,
			Field:   "goal_kind",
			Message: "goal_kind is required",
		})
	} else if kindErr != nil {
		errs = append(errs, ValidationError{
			File:    source,
			Field:   "goal_kind",
			Message: kindErr.Error(),
		})
	}
	if raw.TimeframeMonths == nil {
		errs = append(errs, ValidationError{
			File:    source,
			Field:   "timeframe_months",
			Message: "timeframe_months is required",
		})
	}
	for key := range raw.Meta {
		if strings.TrimSpace(key) == "" {
			errs = append(errs, ValidationError{
				File:    source,
				Field:   "meta",
				Message: "meta keys cannot be empty",
			})
			break
		}
	}

	if len(errs) > 0 {
		return goal.Input{}, errs
	}

	in := goal.Input{
		VerticalID:      goal.VerticalID(strings.TrimSpace(raw.Vertical)),
		Kind:            kind,
		TimeframeMonths: *raw.TimeframeMonths,
	}
	if raw.TargetValue != nil {
		in.TargetValue = goal.Float(*raw.TargetValue)
	}
	if len(raw.Meta) > 0 {
		in.Meta = make(map[string]string, len(raw.Meta))
		for k, v := range raw.Meta {
			in.Meta[strings.TrimSpace(k)] = strings.TrimSpace(v)
		}
	}
	return in, nil
}

// ListGoalFiles returns the goal files in dir, sorted.
func ListGoalFiles(dir string) ([]string, error) {
	var files []string
	for _, pattern := range []string{"*.yml", "*.yaml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, fmt.Errorf("scan goals dir: %w", err)
		}
		files = append(files, matches...)
	}
	sort.Strings(files)
	return files, nil
}
