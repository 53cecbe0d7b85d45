package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/jgoulah/gridtariff/internal/config"
	"github.com/jgoulah/gridtariff/internal/tariff"
	"github.com/spf13/cobra"
)

var plansInitForce bool

var plansCmd = &cobra.Command{
	Use:   "plans",
	Short: "Show and validate the configured plans",
	RunE:  runPlans,
}

var plansInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with example plans",
	RunE:  runPlansInit,
}

func init() {
	plansInitCmd.Flags().BoolVar(&plansInitForce, "force", false, "Overwrite an existing config file")
	plansCmd.AddCommand(plansInitCmd)
	rootCmd.AddCommand(plansCmd)
}

func runPlans(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	plans, err := cfg.BuildPlans()
	if err != nil {
		return fmt.Errorf("validating plans: %w", err)
	}

	for _, p := range plans {
		fmt.Printf("✓ %s (%s)\n", p.DisplayName(), p.Scheme())
		switch plan := p.(type) {
		case tariff.FlatPlan:
			fmt.Printf("    %.4f/kWh\n", plan.Rate)
			printFee(plan.FixedFee)
		case tariff.TimeOfUsePlan:
			for _, w := range plan.Windows {
				if w.Default {
					fmt.Printf("    %-12s %-13s %.4f/kWh\n", w.Label, "otherwise", w.Rate)
					continue
				}
				fmt.Printf("    %-12s %-13s %.4f/kWh\n", w.Label, w.Start.String()+"-"+w.End.String(), w.Rate)
			}
			printFee(plan.FixedFee)
		case tariff.TieredPlan:
			var prev float64
			for i, t := range plan.Tiers {
				span := fmt.Sprintf("over %g kWh", prev)
				if !t.Unlimited() {
					span = fmt.Sprintf("%g-%g kWh", prev, *t.UpperLimit)
					prev = *t.UpperLimit
				}
				fmt.Printf("    %-12s %-13s %.4f/kWh\n", t.Name(i), span, t.Rate)
			}
			printFee(plan.FixedFee)
		}
	}
	fmt.Printf("\n%d plans valid (%s)\n", len(plans), getConfigPath())
	return nil
}

func printFee(fee float64) {
	if fee != 0 {
		fmt.Printf("    %s %.2f\n", strings.ToLower(tariff.FixedFeeLabel), fee)
	}
}

func runPlansInit(cmd *cobra.Command, args []string) error {
	path := getConfigPath()
	if _, err := os.Stat(path); err == nil && !plansInitForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	if err := config.Save(path, config.Default()); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	fmt.Printf("✓ Wrote %s with %d example plans\n", path, len(config.DefaultPlans()))
	return nil
}
