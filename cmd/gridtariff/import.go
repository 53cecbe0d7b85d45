package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/jgoulah/gridtariff/internal/ingest"
	"github.com/jgoulah/gridtariff/internal/metrics"
	"github.com/spf13/cobra"
)

var (
	importService  string
	importTimezone string
	importReplace  bool
)

var importCmd = &cobra.Command{
	Use:   "import FILE...",
	Short: "Import usage readings from CSV or XLSX files",
	Long: `Reads interval usage exports into the local database. Files need a header row with
a timestamp column (timestamp, time or datetime) and a usage column (kwh, usage or
usage_kwh). Rows with unreadable timestamps are skipped; missing or negative usage is
stored as 0. Readings already stored for the same service and start time are ignored.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().StringVar(&importService, "service", "", "Service the readings belong to (default from config)")
	importCmd.Flags().StringVar(&importTimezone, "tz", "", "Meter time zone, e.g. America/New_York (default from config, else UTC)")
	importCmd.Flags().BoolVar(&importReplace, "replace", false, "Delete the service's stored readings before importing")
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	service := serviceOr(importService, cfg)

	if importTimezone != "" {
		cfg.Timezone = importTimezone
	}
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	db, err := openDB(cfg)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	if importReplace {
		deleted, err := db.DeleteService(service)
		if err != nil {
			return fmt.Errorf("clearing %s: %w", service, err)
		}
		fmt.Printf("✓ Removed %s existing readings for %s\n", humanize.Comma(deleted), service)
	}

	for _, path := range args {
		fmt.Printf("Importing %s...\n", path)
		res, err := ingest.ReadFile(path, ingest.Options{Service: service, Location: loc})
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}

		inserted, err := db.InsertBatch(res.Records)
		if err != nil {
			return fmt.Errorf("saving %s: %w", path, err)
		}
		metrics.AddImported(service, inserted, res.Skipped)

		fmt.Printf("✓ %s rows read, %s new readings stored for %s\n",
			humanize.Comma(int64(res.Rows)), humanize.Comma(int64(inserted)), service)
		if dup := len(res.Records) - inserted; dup > 0 {
			fmt.Printf("  %s readings were already stored\n", humanize.Comma(int64(dup)))
		}
		if res.Skipped > 0 {
			fmt.Printf("  ⚠ %d rows skipped (unreadable timestamp)\n", res.Skipped)
		}
		if res.Coerced > 0 {
			fmt.Printf("  ⚠ %d usage values were missing or negative and stored as 0\n", res.Coerced)
		}
	}

	return nil
}
