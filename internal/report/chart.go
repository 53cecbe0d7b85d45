package report

import (
	"fmt"
	"math"

	"github.com/guptarohit/asciigraph"
	"github.com/pterm/pterm"

	"github.com/jgoulah/gridtariff/internal/tariff"
)

// UsageChart plots consumption as an ASCII line chart. Series with readings
// inside the day are plotted per hour, the rest per day.
func UsageChart(s tariff.Series, width, height int) string {
	totals, unit := s.DailyTotals(), "Daily"
	if s.HasTimeOfDay() {
		totals, unit = s.HourlyTotals(), "Hourly"
	}
	if len(totals) == 0 {
		return "No data available"
	}

	// Ensure minimum dimensions
	if width < 20 {
		width = 20
	}
	if height < 3 {
		height = 3
	}

	values := make([]float64, len(totals))
	for i, t := range totals {
		values[i] = t.KWh
	}
	// asciigraph needs two points to draw a line
	if len(values) == 1 {
		values = append(values, values[0])
	}

	caption := fmt.Sprintf("%s usage %s to %s (%s total)",
		unit,
		totals[0].Start.Format("2006-01-02"),
		totals[len(totals)-1].Start.Format("2006-01-02"),
		KWh(s.TotalKWh()))

	return asciigraph.Plot(values,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	)
}

// BreakdownChart renders a bill's line items as a horizontal bar chart of
// cost in cents.
func BreakdownChart(bill tariff.Bill) (string, error) {
	entries := bill.Breakdown.Entries()
	if len(entries) == 0 {
		return "No charges", nil
	}

	bars := make(pterm.Bars, 0, len(entries))
	for _, e := range entries {
		bars = append(bars, pterm.Bar{
			Label: e.Label,
			Value: int(math.Round(e.Cost * 100)),
		})
	}

	out, err := pterm.DefaultBarChart.
		WithHorizontal().
		WithShowValue().
		WithBars(bars).
		Srender()
	if err != nil {
		return "", fmt.Errorf("rendering breakdown chart: %w", err)
	}
	return fmt.Sprintf("%s (cents)\n%s", bill.Name, out), nil
}
