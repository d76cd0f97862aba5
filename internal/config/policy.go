package config

import (
	"errors"
	"fmt"
	"os"

	"tooling-spend-tracker/internal/services/matching"
	"tooling-spend-tracker/internal/services/spend"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

var ErrInvalidPolicy = errors.New("invalid policy")

// Policy holds the tunable matching and variance thresholds.
type Policy struct {
	MatchThreshold   float64 `yaml:"match_threshold"`
	SuggestThreshold float64 `yaml:"suggest_threshold"`
	SuggestionLimit  int     `yaml:"suggestion_limit"`
	MinMatchLength   int     `yaml:"min_match_length"`
	OnTargetBand     float64 `yaml:"on_target_band"`
}

func DefaultPolicy() Policy {
	m := matching.DefaultOptions()
	return Policy{
		MatchThreshold:   m.MatchThreshold,
		SuggestThreshold: m.SuggestThreshold,
		SuggestionLimit:  m.SuggestionLimit,
		MinMatchLength:   m.MinMatchLength,
		OnTargetBand:     0.05,
	}
}

// LoadPolicy reads a YAML policy file. Keys absent from the file keep their defaults.
func LoadPolicy(path string) (*Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read policy %s: %w", path, err)
	}

	p := DefaultPolicy()
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse policy %s: %w", path, err)
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("policy %s: %w", path, err)
	}
	return &p, nil
}

func (p Policy) Validate() error {
	switch {
	case p.MatchThreshold < 0 || p.MatchThreshold > 1:
		return fmt.Errorf("%w: match_threshold %v outside [0,1]", ErrInvalidPolicy, p.MatchThreshold)
	case p.SuggestThreshold < 0 || p.SuggestThreshold > 1:
		return fmt.Errorf("%w: suggest_threshold %v outside [0,1]", ErrInvalidPolicy, p.SuggestThreshold)
	case p.SuggestThreshold > p.MatchThreshold:
		return fmt.Errorf("%w: suggest_threshold %v above match_threshold %v", ErrInvalidPolicy, p.SuggestThreshold, p.MatchThreshold)
	case p.SuggestionLimit < 1:
		return fmt.Errorf("%w: suggestion_limit must be at least 1", ErrInvalidPolicy)
	case p.MinMatchLength < 0:
		return fmt.Errorf("%w: min_match_length must not be negative", ErrInvalidPolicy)
	case p.OnTargetBand < 0:
		return fmt.Errorf("%w: on_target_band must not be negative", ErrInvalidPolicy)
	}
	return nil
}

func (p Policy) MatchOptions() matching.Options {
	return matching.Options{
		MatchThreshold:   p.MatchThreshold,
		SuggestThreshold: p.SuggestThreshold,
		SuggestionLimit:  p.SuggestionLimit,
		MinMatchLength:   p.MinMatchLength,
	}
}

func (p Policy) SpendPolicy() spend.Policy {
	return spend.Policy{OnTargetBand: decimal.NewFromFloat(p.OnTargetBand)}
}
