// Package tariff prices electricity usage under flat, time-of-use and tiered
// tariffs and compares the resulting bills.
package tariff

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Calculate prices a flat plan: total kWh at one rate plus the fixed fee.
func (p FlatPlan) Calculate(s Series) (Bill, error) {
	if err := p.Validate(); err != nil {
		return Bill{}, err
	}
	if s.Empty() {
		return Bill{}, ErrEmptySeries
	}
	bill := Bill{Name: p.DisplayName(), Scheme: p.Scheme(), TotalKWh: s.TotalKWh()}
	bill.Breakdown.add(EnergyLabel, bill.TotalKWh, bill.TotalKWh*p.Rate)
	bill.finish(p.FixedFee)
	return bill, nil
}

// Calculate prices each reading at the rate of the window its clock time
// falls in. Breakdown lines appear in the order windows were first hit.
// Readings no window covers are counted on the bill but not charged.
func (p TimeOfUsePlan) Calculate(s Series) (Bill, error) {
	if err := p.Validate(); err != nil {
		return Bill{}, err
	}
	if s.Empty() {
		return Bill{}, ErrEmptySeries
	}
	bill := Bill{Name: p.DisplayName(), Scheme: p.Scheme()}
	for _, r := range s.readings {
		bill.TotalKWh += r.KWh
		w, ok := MatchWindow(ClockOf(r.Timestamp), p.Windows)
		if !ok {
			bill.UnbilledKWh += r.KWh
			bill.UnbilledReadings++
			continue
		}
		bill.Breakdown.add(w.Label, r.KWh, r.KWh*w.Rate)
	}
	bill.finish(p.FixedFee)
	return bill, nil
}

// Calculate allocates the series total across the tiers.
func (p TieredPlan) Calculate(s Series) (Bill, error) {
	if err := p.Validate(); err != nil {
		return Bill{}, err
	}
	if s.Empty() {
		return Bill{}, ErrEmptySeries
	}
	bill := Bill{Name: p.DisplayName(), Scheme: p.Scheme(), TotalKWh: s.TotalKWh()}
	for _, a := range Allocate(bill.TotalKWh, p.Tiers) {
		bill.Breakdown.add(a.Label, a.KWh, a.Cost)
	}
	bill.finish(p.FixedFee)
	return bill, nil
}

// CalculateAll prices the series under every plan concurrently. Bills are
// returned in plan order; the first failure cancels the rest.
func CalculateAll(ctx context.Context, s Series, plans []Plan) ([]Bill, error) {
	if s.Empty() {
		return nil, ErrEmptySeries
	}
	bills := make([]Bill, len(plans))
	g, ctx := errgroup.WithContext(ctx)
	for i, plan := range plans {
		i, plan := i, plan
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			bill, err := plan.Calculate(s)
			if err != nil {
				return fmt.Errorf("calculating %s: %w", plan.DisplayName(), err)
			}
			bills[i] = bill
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return bills, nil
}
