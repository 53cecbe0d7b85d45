package tariff

import "math"

// Plan is a validated-on-use tariff definition that can price a series.
type Plan interface {
	Scheme() Scheme
	// DisplayName is the plan's name, or its scheme when unnamed.
	DisplayName() string
	Validate() error
	Calculate(Series) (Bill, error)
}

// FlatPlan charges a single rate for every kWh.
type FlatPlan struct {
	Name     string
	Rate     float64
	FixedFee float64
}

// TimeOfUsePlan prices each reading by the clock-time window it falls in.
type TimeOfUsePlan struct {
	Name     string
	Windows  []RateWindow
	FixedFee float64
}

// TieredPlan prices total consumption in ascending blocks.
type TieredPlan struct {
	Name     string
	Tiers    []Tier
	FixedFee float64
}

func (FlatPlan) Scheme() Scheme      { return SchemeFlat }
func (TimeOfUsePlan) Scheme() Scheme { return SchemeTimeOfUse }
func (TieredPlan) Scheme() Scheme    { return SchemeTiered }

func (p FlatPlan) DisplayName() string      { return displayName(p.Name, p.Scheme()) }
func (p TimeOfUsePlan) DisplayName() string { return displayName(p.Name, p.Scheme()) }
func (p TieredPlan) DisplayName() string    { return displayName(p.Name, p.Scheme()) }

func displayName(name string, scheme Scheme) string {
	if name != "" {
		return name
	}
	return string(scheme)
}

// Validate checks the rate and fee are non-negative.
func (p FlatPlan) Validate() error {
	name := p.DisplayName()
	if err := checkAmount(name, "rate", p.Rate); err != nil {
		return err
	}
	return checkAmount(name, "fixed fee", p.FixedFee)
}

// Validate checks the window list: at least one window, at most one default,
// unique labels and non-negative rates.
func (p TimeOfUsePlan) Validate() error {
	name := p.DisplayName()
	if err := checkAmount(name, "fixed fee", p.FixedFee); err != nil {
		return err
	}
	if len(p.Windows) == 0 {
		return invalidPlan(name, "no rate windows")
	}
	defaults := 0
	seen := make(map[string]bool, len(p.Windows))
	for _, w := range p.Windows {
		if w.Label == "" {
			return invalidPlan(name, "rate window without a label")
		}
		if w.Label == FixedFeeLabel || seen[w.Label] {
			return invalidPlan(name, "duplicate window label %q", w.Label)
		}
		seen[w.Label] = true
		if err := checkAmount(name, "rate of window "+w.Label, w.Rate); err != nil {
			return err
		}
		if !w.Default && (!w.Start.valid() || !w.End.valid()) {
			return invalidPlan(name, "window %q has an out of range clock time", w.Label)
		}
		if w.Default {
			defaults++
		}
	}
	if defaults > 1 {
		return invalidPlan(name, "%d default windows, at most one allowed", defaults)
	}
	return nil
}

// Validate checks the tier list: at least one tier, strictly ascending
// non-negative limits, an unlimited tier only in last position and
// non-negative rates.
func (p TieredPlan) Validate() error {
	name := p.DisplayName()
	if err := checkAmount(name, "fixed fee", p.FixedFee); err != nil {
		return err
	}
	if len(p.Tiers) == 0 {
		return invalidPlan(name, "no tiers")
	}
	previous := 0.0
	seen := make(map[string]bool, len(p.Tiers))
	for i, t := range p.Tiers {
		label := t.Name(i)
		if label == FixedFeeLabel || label == ExcessLabel || seen[label] {
			return invalidPlan(name, "duplicate tier label %q", label)
		}
		seen[label] = true
		if err := checkAmount(name, "rate of "+label, t.Rate); err != nil {
			return err
		}
		if t.Unlimited() {
			if i != len(p.Tiers)-1 {
				return invalidPlan(name, "unlimited %s must be the last tier", label)
			}
			continue
		}
		limit := *t.UpperLimit
		if err := checkAmount(name, "limit of "+label, limit); err != nil {
			return err
		}
		if limit <= previous {
			return invalidPlan(name, "limit of %s (%v) must be above %v", label, limit, previous)
		}
		previous = limit
	}
	return nil
}

func checkAmount(plan, what string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return invalidPlan(plan, "%s must be a non-negative number, got %v", what, v)
	}
	return nil
}
