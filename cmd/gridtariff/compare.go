package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/jgoulah/gridtariff/internal/report"
	"github.com/spf13/cobra"
)

var (
	compareService string
	compareFrom    string
	compareTo      string
	comparePlans   []string
	compareDetails bool
	compareJSON    bool
)

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare configured plans for a period",
	Long: `Prices the stored usage for a period under every configured plan (or those named with
--plan) and reports the cheapest plan and how much more each other plan would cost.`,
	RunE: runCompare,
}

func init() {
	compareCmd.Flags().StringVar(&compareService, "service", "", "Service to compare (default from config)")
	compareCmd.Flags().StringSliceVar(&comparePlans, "plan", nil, "Plan to include (repeatable, default: all configured plans)")
	compareCmd.Flags().BoolVar(&compareDetails, "details", false, "Print each plan's itemized bill")
	compareCmd.Flags().BoolVar(&compareJSON, "json", false, "Print the full result as JSON")
	addPeriodFlags(compareCmd, &compareFrom, &compareTo)
	rootCmd.AddCommand(compareCmd)
}

func runCompare(cmd *cobra.Command, args []string) error {
	res, _, err := comparison(cmd.Context(), compareService, compareFrom, compareTo, comparePlans)
	if err != nil {
		return err
	}

	if compareJSON {
		return printJSON(res)
	}

	fmt.Printf("%s: %s to %s, %d readings, %s\n\n", res.Service,
		res.From.Format("2006-01-02"), res.To.Format("2006-01-02"), res.Readings, report.KWh(res.TotalKWh))

	if compareDetails {
		for _, bill := range res.Bills {
			table, err := report.BillTable(bill)
			if err != nil {
				return err
			}
			fmt.Println(table)
		}
	}

	table, err := report.ComparisonTable(res.Comparison)
	if err != nil {
		return err
	}
	fmt.Print(table)
	fmt.Printf("\n✓ Cheapest plan: %s\n", res.Comparison.Cheapest)
	return nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
