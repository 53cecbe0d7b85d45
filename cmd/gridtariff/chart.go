package main

import (
	"fmt"
	"time"

	"github.com/jgoulah/gridtariff/internal/billing"
	"github.com/jgoulah/gridtariff/internal/report"
	"github.com/spf13/cobra"
)

var (
	chartService string
	chartFrom    string
	chartTo      string
	chartWidth   int
	chartHeight  int
)

var chartCmd = &cobra.Command{
	Use:   "chart",
	Short: "Plot daily usage for a period",
	RunE:  runChart,
}

func init() {
	chartCmd.Flags().StringVar(&chartService, "service", "", "Service to chart (default from config)")
	chartCmd.Flags().IntVar(&chartWidth, "width", 60, "Chart width in columns")
	chartCmd.Flags().IntVar(&chartHeight, "height", 12, "Chart height in rows")
	addPeriodFlags(chartCmd, &chartFrom, &chartTo)
	rootCmd.AddCommand(chartCmd)
}

func runChart(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	period, err := billing.ParsePeriod(chartFrom, chartTo, time.Now(), loc)
	if err != nil {
		return err
	}

	db, err := openDB(cfg)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	series, err := billing.LoadSeries(db, serviceOr(chartService, cfg), period)
	if err != nil {
		return err
	}

	fmt.Println(report.UsageChart(series, chartWidth, chartHeight))
	return nil
}
