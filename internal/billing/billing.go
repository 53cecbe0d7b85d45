// Package billing loads stored usage for a service and period, prices it
// under each requested plan and ranks the bills.
package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/jgoulah/gridtariff/internal/logger"
	"github.com/jgoulah/gridtariff/internal/metrics"
	"github.com/jgoulah/gridtariff/internal/tariff"
	"github.com/jgoulah/gridtariff/pkg/models"
)

// Store is the part of the database the billing run reads from.
type Store interface {
	ListUsageBetween(service string, from, to time.Time) ([]models.UsageData, error)
}

// Request selects the usage and plans to compare.
type Request struct {
	Service string
	Range   tariff.Range
	Plans   []tariff.Plan
}

// Result is a finished comparison run.
type Result struct {
	Service    string            `json:"service"`
	From       time.Time         `json:"from"`
	To         time.Time         `json:"to"`
	Readings   int               `json:"readings"`
	TotalKWh   float64           `json:"total_kwh"`
	Bills      []tariff.Bill     `json:"bills"`
	Comparison tariff.Comparison `json:"comparison"`

	Series tariff.Series `json:"-"`
}

// LoadSeries returns the service's readings inside r. An empty result is
// reported as tariff.ErrEmptySeries.
func LoadSeries(store Store, service string, r tariff.Range) (tariff.Series, error) {
	rows, err := store.ListUsageBetween(service, r.Start, r.End)
	if err != nil {
		return tariff.Series{}, fmt.Errorf("loading usage: %w", err)
	}
	series, err := models.ToSeries(rows)
	if err != nil {
		return tariff.Series{}, fmt.Errorf("loading usage: %w", err)
	}
	// The query compares wall clock strings; Filter applies the exact instants.
	series = series.Filter(r)
	if series.Empty() {
		return tariff.Series{}, fmt.Errorf("%w: no readings for %s between %s and %s", tariff.ErrEmptySeries,
			service, r.Start.Format("2006-01-02"), r.End.Format("2006-01-02"))
	}
	return series, nil
}

// Run calculates a bill per plan and compares them.
func Run(ctx context.Context, store Store, req Request) (*Result, error) {
	series, err := LoadSeries(store, req.Service, req.Range)
	if err != nil {
		return nil, err
	}
	return Compare(ctx, series, req)
}

// Compare prices an already loaded series. req.Service and req.Range only
// label the result.
func Compare(ctx context.Context, series tariff.Series, req Request) (*Result, error) {
	plans := make([]tariff.Plan, len(req.Plans))
	for i, p := range req.Plans {
		plans[i] = observed{p}
	}

	bills, err := tariff.CalculateAll(ctx, series, plans)
	if err != nil {
		metrics.ObserveComparison(err)
		return nil, err
	}
	cmp, err := tariff.Compare(bills)
	metrics.ObserveComparison(err)
	if err != nil {
		return nil, err
	}

	logger.Debug("compared plans", "service", req.Service, "plans", len(bills), "cheapest", cmp.Cheapest)

	return &Result{
		Service:    req.Service,
		From:       req.Range.Start,
		To:         req.Range.End,
		Readings:   series.Len(),
		TotalKWh:   series.TotalKWh(),
		Bills:      bills,
		Comparison: cmp,
		Series:     series,
	}, nil
}

// observed times each calculation for the metrics package.
type observed struct {
	tariff.Plan
}

func (o observed) Calculate(s tariff.Series) (tariff.Bill, error) {
	start := time.Now()
	bill, err := o.Plan.Calculate(s)
	metrics.ObserveCalculation(string(o.Scheme()), err, time.Since(start))
	return bill, err
}
