package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jgoulah/gridtariff/internal/tariff"
)

// Plan types accepted in config files
const (
	PlanTypeFlat   = "flat"
	PlanTypeTOU    = "tou"
	PlanTypeTiered = "tiered"
)

var (
	// ErrUnknownPlan is returned when a requested plan is not configured
	ErrUnknownPlan = errors.New("unknown plan")
	// ErrInvalidPlanConfig is returned for plan entries that cannot be built
	ErrInvalidPlanConfig = errors.New("invalid plan config")
)

// PlanConfig is the file representation of a tariff plan
type PlanConfig struct {
	Name     string         `yaml:"name" toml:"name" json:"name"`
	Type     string         `yaml:"type" toml:"type" json:"type"` // flat, tou or tiered
	Rate     float64        `yaml:"rate,omitempty" toml:"rate,omitempty" json:"rate,omitempty"`
	FixedFee float64        `yaml:"fixed_fee,omitempty" toml:"fixed_fee,omitempty" json:"fixed_fee,omitempty"`
	Windows  []WindowConfig `yaml:"windows,omitempty" toml:"windows,omitempty" json:"windows,omitempty"`
	Tiers    []TierConfig   `yaml:"tiers,omitempty" toml:"tiers,omitempty" json:"tiers,omitempty"`
}

// WindowConfig is a time-of-use window; Start and End are "HH:MM"
type WindowConfig struct {
	Label   string  `yaml:"label" toml:"label" json:"label"`
	Start   string  `yaml:"start,omitempty" toml:"start,omitempty" json:"start,omitempty"`
	End     string  `yaml:"end,omitempty" toml:"end,omitempty" json:"end,omitempty"`
	Rate    float64 `yaml:"rate" toml:"rate" json:"rate"`
	Default bool    `yaml:"default,omitempty" toml:"default,omitempty" json:"default,omitempty"`
}

// TierConfig is one block of a tiered plan; a missing limit means unlimited
type TierConfig struct {
	Label string   `yaml:"label,omitempty" toml:"label,omitempty" json:"label,omitempty"`
	Limit *float64 `yaml:"limit,omitempty" toml:"limit,omitempty" json:"limit,omitempty"`
	Rate  float64  `yaml:"rate" toml:"rate" json:"rate"`
}

// DefaultPlans returns the plans used when none are configured
func DefaultPlans() []PlanConfig {
	return []PlanConfig{
		{Name: "Flat", Type: PlanTypeFlat, Rate: 0.25, FixedFee: 10},
		{
			Name:     "TOU",
			Type:     PlanTypeTOU,
			FixedFee: 10,
			Windows: []WindowConfig{
				{Label: "Peak", Start: "18:00", End: "22:00", Rate: 0.40},
				{Label: "Off-Peak", Start: "22:00", End: "07:00", Rate: 0.15},
				{Label: "Shoulder", Rate: 0.25, Default: true},
			},
		},
		{
			Name:     "Tiered",
			Type:     PlanTypeTiered,
			FixedFee: 10,
			Tiers: []TierConfig{
				{Limit: tariff.Limit(100), Rate: 0.20},
				{Limit: tariff.Limit(300), Rate: 0.30},
				{Rate: 0.40},
			},
		},
	}
}

// Build converts the config into a validated tariff plan
func (p PlanConfig) Build() (tariff.Plan, error) {
	var plan tariff.Plan
	switch strings.ToLower(p.Type) {
	case PlanTypeFlat:
		plan = tariff.FlatPlan{Name: p.Name, Rate: p.Rate, FixedFee: p.FixedFee}
	case PlanTypeTOU, "time_of_use", "time-of-use":
		windows := make([]tariff.RateWindow, len(p.Windows))
		for i, w := range p.Windows {
			rw := tariff.RateWindow{Label: w.Label, Rate: w.Rate, Default: w.Default}
			if !w.Default {
				var err error
				if rw.Start, err = tariff.ParseClock(w.Start); err != nil {
					return nil, fmt.Errorf("%w: plan %q window %q start: %w", ErrInvalidPlanConfig, p.Name, w.Label, err)
				}
				if rw.End, err = tariff.ParseClock(w.End); err != nil {
					return nil, fmt.Errorf("%w: plan %q window %q end: %w", ErrInvalidPlanConfig, p.Name, w.Label, err)
				}
			}
			windows[i] = rw
		}
		plan = tariff.TimeOfUsePlan{Name: p.Name, Windows: windows, FixedFee: p.FixedFee}
	case PlanTypeTiered, "block":
		tiers := make([]tariff.Tier, len(p.Tiers))
		for i, t := range p.Tiers {
			tiers[i] = tariff.Tier{Label: t.Label, UpperLimit: t.Limit, Rate: t.Rate}
		}
		plan = tariff.TieredPlan{Name: p.Name, Tiers: tiers, FixedFee: p.FixedFee}
	default:
		return nil, fmt.Errorf("%w: plan %q: unknown type %q (available: flat, tou, tiered)", ErrInvalidPlanConfig, p.Name, p.Type)
	}

	if err := plan.Validate(); err != nil {
		return nil, err
	}
	return plan, nil
}

// BuildPlans converts every configured plan. Plan names must be unique.
func (c *Config) BuildPlans() ([]tariff.Plan, error) {
	return BuildPlans(c.Plans)
}

// BuildPlans converts plan configs into validated tariff plans
func BuildPlans(configs []PlanConfig) ([]tariff.Plan, error) {
	plans := make([]tariff.Plan, 0, len(configs))
	seen := make(map[string]bool, len(configs))
	for _, pc := range configs {
		plan, err := pc.Build()
		if err != nil {
			return nil, err
		}
		name := plan.DisplayName()
		if seen[name] {
			return nil, fmt.Errorf("%w: duplicate plan name %q", ErrInvalidPlanConfig, name)
		}
		seen[name] = true
		plans = append(plans, plan)
	}
	return plans, nil
}

// SelectPlans returns the configured plans with the given names, in the order
// requested. An empty list selects every plan.
func (c *Config) SelectPlans(names []string) ([]tariff.Plan, error) {
	plans, err := c.BuildPlans()
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return plans, nil
	}

	byName := make(map[string]tariff.Plan, len(plans))
	for _, p := range plans {
		byName[strings.ToLower(p.DisplayName())] = p
	}
	selected := make([]tariff.Plan, 0, len(names))
	for _, name := range names {
		p, ok := byName[strings.ToLower(name)]
		if !ok {
			return nil, fmt.Errorf("%w: no plan named %q in config", ErrUnknownPlan, name)
		}
		selected = append(selected, p)
	}
	return selected, nil
}
