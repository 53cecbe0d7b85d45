// Package report renders bills and comparisons for people: console tables,
// usage charts and PDF/XLSX exports.
package report

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/pterm/pterm"

	"github.com/jgoulah/gridtariff/internal/tariff"
)

var (
	cheapestStyle = color.New(color.FgGreen, color.Bold).SprintFunc()
	warnStyle     = color.New(color.FgYellow).SprintFunc()
)

// Money formats an amount with two decimals and thousands separators.
func Money(v float64) string {
	return "$" + humanize.FormatFloat("#,###.##", v)
}

// KWh formats an energy amount.
func KWh(v float64) string {
	return humanize.FormatFloat("#,###.##", v) + " kWh"
}

// BillTable renders a bill's breakdown lines followed by its total.
func BillTable(bill tariff.Bill) (string, error) {
	data := pterm.TableData{{"Item", "Usage", "Cost"}}
	for _, e := range bill.Breakdown.Entries() {
		usage := ""
		if e.Label != tariff.FixedFeeLabel {
			usage = KWh(e.KWh)
		}
		data = append(data, []string{e.Label, usage, Money(e.Cost)})
	}
	data = append(data, []string{"Total", KWh(bill.TotalKWh), Money(bill.TotalBill)})

	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return "", fmt.Errorf("rendering bill table: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s)\n", bill.Name, bill.Scheme)
	b.WriteString(table)
	b.WriteString("\n")
	if !bill.Covered() {
		b.WriteString(warnStyle(fmt.Sprintf("⚠ %d readings (%s) matched no rate window and were not billed\n",
			bill.UnbilledReadings, KWh(bill.UnbilledKWh))))
	}
	return b.String(), nil
}

// ComparisonTable renders every bill's total and its difference from the cheapest.
func ComparisonTable(c tariff.Comparison) (string, error) {
	data := pterm.TableData{{"Plan", "Scheme", "Total", "Difference"}}
	for _, e := range c.Entries {
		name, diff := e.Name, fmt.Sprintf("+%s", Money(e.Delta))
		if e.Name == c.Cheapest {
			name = cheapestStyle(e.Name)
			diff = cheapestStyle("cheapest")
		}
		data = append(data, []string{name, string(e.Scheme), Money(e.TotalBill), diff})
	}

	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return "", fmt.Errorf("rendering comparison table: %w", err)
	}
	return table + "\n", nil
}
