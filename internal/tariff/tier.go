package tariff

import "fmt"

// ExcessLabel names the allocation that absorbs usage beyond the last bounded tier.
const ExcessLabel = "Excess"

// Tier is one consumption band of a block tariff. UpperLimit is the cumulative
// kWh at which the band ends; nil means the band is unlimited.
type Tier struct {
	Label      string
	UpperLimit *float64
	Rate       float64
}

// Limit returns a pointer to kwh, for building bounded tiers.
func Limit(kwh float64) *float64 {
	return &kwh
}

// Unlimited reports whether the tier has no upper bound.
func (t Tier) Unlimited() bool {
	return t.UpperLimit == nil
}

// Name returns the tier's label, or "Tier N" for the i-th (zero based) tier
// when it has none.
func (t Tier) Name(i int) string {
	if t.Label != "" {
		return t.Label
	}
	return fmt.Sprintf("Tier %d", i+1)
}

// Allocation is the share of consumption billed in one tier.
type Allocation struct {
	Label string
	KWh   float64
	Rate  float64
	Cost  float64
}

// Allocate cascades totalKWh through tiers in order. Each bounded tier takes at
// most UpperLimit minus the previous tier's limit; an unlimited tier takes
// everything left. Tiers after the one that absorbs the remainder are still
// reported, with zero usage.
//
// If the tiers run out with usage left over, the excess is billed at the last
// tier's rate under ExcessLabel.
func Allocate(totalKWh float64, tiers []Tier) []Allocation {
	out := make([]Allocation, 0, len(tiers)+1)
	remaining := totalKWh
	previousLimit := 0.0
	for i, tier := range tiers {
		var used float64
		switch {
		case remaining <= 0:
			used = 0
		case tier.Unlimited() || remaining <= *tier.UpperLimit-previousLimit:
			used = remaining
		default:
			used = *tier.UpperLimit - previousLimit
		}
		remaining -= used
		if !tier.Unlimited() {
			previousLimit = *tier.UpperLimit
		}
		out = append(out, Allocation{
			Label: tier.Name(i),
			KWh:   used,
			Rate:  tier.Rate,
			Cost:  used * tier.Rate,
		})
	}
	if remaining > 0 && len(tiers) > 0 {
		rate := tiers[len(tiers)-1].Rate
		out = append(out, Allocation{
			Label: ExcessLabel,
			KWh:   remaining,
			Rate:  rate,
			Cost:  remaining * rate,
		})
	}
	return out
}
