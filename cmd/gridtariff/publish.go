package main

import (
	"fmt"
	"time"

	"github.com/jgoulah/gridtariff/internal/metrics"
	"github.com/jgoulah/gridtariff/internal/publisher"
	"github.com/jgoulah/gridtariff/internal/tariff"
	"github.com/spf13/cobra"
)

var (
	publishService string
	publishFrom    string
	publishTo      string
	publishPlans   []string
)

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Publish the plan comparison to Home Assistant and MQTT",
	Long: `Runs the comparison for a period and publishes the result. Home Assistant receives the
cheapest plan's total as a sensor state with every plan's total as attributes. MQTT receives
a retained total per plan and a summary on the cheapest topic.`,
	RunE: runPublish,
}

func init() {
	publishCmd.Flags().StringVar(&publishService, "service", "", "Service to compare (default from config)")
	publishCmd.Flags().StringSliceVar(&publishPlans, "plan", nil, "Plan to include (repeatable, default: all configured plans)")
	addPeriodFlags(publishCmd, &publishFrom, &publishTo)
	rootCmd.AddCommand(publishCmd)
}

func runPublish(cmd *cobra.Command, args []string) error {
	fmt.Printf("=== Publish started at %s ===\n", time.Now().Format("2006-01-02 15:04:05 MST"))

	res, cfg, err := comparison(cmd.Context(), publishService, publishFrom, publishTo, publishPlans)
	if err != nil {
		return err
	}

	pub, err := publisher.New(cfg.MQTT, cfg.HomeAssistant)
	if err != nil {
		return fmt.Errorf("creating publisher: %w", err)
	}
	defer pub.Close()

	period := tariff.Range{Start: res.From, End: res.To}
	fmt.Printf("Publishing comparison of %d plans for %s... ", len(res.Bills), res.Service)
	err = pub.Publish(cmd.Context(), res.Service, period, res.Comparison)
	metrics.ObservePublish(err)
	if err != nil {
		fmt.Printf("FAILED\n")
		return err
	}
	fmt.Printf("✓\n")

	fmt.Printf("Cheapest plan: %s\n", res.Comparison.Cheapest)
	return nil
}
