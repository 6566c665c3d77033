package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	"gopkg.in/yaml.v3"

	"goalflow/internal/goal"
)

// RenderFlowConfig renders a daily-flow config as YAML.
func RenderFlowConfig(cfg goal.DailyFlowConfig) (string, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("encode daily flow config: %w", err)
	}
	return string(data), nil
}

// DiffFlowConfig returns a unified diff from the vertical default to the
// effective config, or "" when they match.
func DiffFlowConfig(id goal.VerticalID, defaults, effective goal.DailyFlowConfig) (string, error) {
	oldText, err := RenderFlowConfig(defaults)
	if err != nil {
		return "", err
	}
	newText, err := RenderFlowConfig(effective)
	if err != nil {
		return "", err
	}

	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(oldText),
		B:        difflib.SplitLines(newText),
		FromFile: filepath.Join("defaults", string(id)+".yml"),
		ToFile:   filepath.Join(FileName, string(id)),
		Context:  3,
	}
	diffText, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return "", fmt.Errorf("diff %s: %w", id, err)
	}
	if strings.TrimSpace(diffText) == "" {
		return "", nil
	}
	return diffText, nil
}
