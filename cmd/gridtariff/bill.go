package main

import (
	"fmt"

	"github.com/jgoulah/gridtariff/internal/report"
	"github.com/spf13/cobra"
)

var (
	billService string
	billFrom    string
	billTo      string
	billJSON    bool
	billChart   bool
)

var billCmd = &cobra.Command{
	Use:   "bill PLAN",
	Short: "Calculate the bill for one configured plan",
	Long:  `Prices the stored usage for a period under a single plan from the config file and prints the itemized bill.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runBill,
}

func init() {
	billCmd.Flags().StringVar(&billService, "service", "", "Service to bill (default from config)")
	billCmd.Flags().BoolVar(&billJSON, "json", false, "Print the bill as JSON")
	billCmd.Flags().BoolVar(&billChart, "chart", false, "Also draw the breakdown as a bar chart")
	addPeriodFlags(billCmd, &billFrom, &billTo)
	rootCmd.AddCommand(billCmd)
}

func runBill(cmd *cobra.Command, args []string) error {
	res, _, err := comparison(cmd.Context(), billService, billFrom, billTo, args)
	if err != nil {
		return err
	}
	bill := res.Bills[0]

	if billJSON {
		return printJSON(bill)
	}

	fmt.Printf("%s: %s to %s, %d readings\n\n", res.Service,
		res.From.Format("2006-01-02"), res.To.Format("2006-01-02"), res.Readings)
	table, err := report.BillTable(bill)
	if err != nil {
		return err
	}
	fmt.Print(table)

	if billChart {
		chart, err := report.BreakdownChart(bill)
		if err != nil {
			return err
		}
		fmt.Printf("\n%s\n", chart)
	}
	return nil
}
