package main

import (
	"fmt"

	"github.com/jgoulah/gridtariff/internal/report"
	"github.com/spf13/cobra"
)

var (
	listService string
	listLimit   int
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored usage data",
	Long:  `Displays stored usage readings from the database, grouped by service.`,
	RunE:  runList,
}

func init() {
	listCmd.Flags().StringVar(&listService, "service", "", "Filter by service (default: all services)")
	listCmd.Flags().IntVar(&listLimit, "limit", 0, "Show only the last N readings per service (0 = all)")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	db, err := openDB(cfg)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	// Determine which services to query
	services := []string{}
	if listService != "" {
		services = append(services, listService)
	} else {
		services, err = db.ListServices()
		if err != nil {
			return fmt.Errorf("listing services: %w", err)
		}
	}

	if len(services) == 0 {
		fmt.Println("No data found. Use 'gridtariff import' to load usage.")
		return nil
	}

	for _, service := range services {
		data, err := db.ListUsage(service)
		if err != nil {
			return fmt.Errorf("listing data for %s: %w", service, err)
		}

		if len(data) == 0 {
			fmt.Printf("No data found for %s\n", service)
			continue
		}

		var total float64
		for _, record := range data {
			total += record.KWh
		}

		shown := data
		if listLimit > 0 && len(shown) > listLimit {
			shown = shown[len(shown)-listLimit:]
		}

		fmt.Printf("\n%s Usage Data:\n", service)
		fmt.Println("----------------------------------------")
		fmt.Printf("%-19s  %10s\n", "Start", "kWh")
		fmt.Println("----------------------------------------")

		for _, record := range shown {
			fmt.Printf("%-19s  %10.2f\n", record.Timestamp().Format("2006-01-02 15:04:05"), record.KWh)
		}

		fmt.Println("----------------------------------------")
		fmt.Printf("Total: %s (%d records)\n", report.KWh(total), len(data))
	}

	return nil
}
