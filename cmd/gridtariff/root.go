package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jgoulah/gridtariff/internal/billing"
	"github.com/jgoulah/gridtariff/internal/config"
	"github.com/jgoulah/gridtariff/internal/database"
	"github.com/jgoulah/gridtariff/internal/logger"
	"github.com/jgoulah/gridtariff/internal/metrics"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	dbPath  string
	verbose bool

	// ranCmd is the subcommand that executed, for the metrics push on exit
	ranCmd *cobra.Command
)

var rootCmd = &cobra.Command{
	Use:   "gridtariff",
	Short: "Compare electricity tariffs against your own usage",
	Long: `GridTariff prices stored electricity usage under flat, time-of-use and tiered plans
and shows which one is cheapest. Usage is imported from CSV or XLSX exports into a
local SQLite database; plans are defined in the config file.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.SetVerbose(verbose)
		metrics.Init()
		ranCmd = cmd
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "database file (default is ./data.db)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// getConfigPath returns the config file path
func getConfigPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	return config.DefaultConfigPath()
}

// loadConfig loads the configuration file
func loadConfig() (*config.Config, error) {
	return config.Load(getConfigPath())
}

// openDB opens the database, preferring --db over the config file
func openDB(cfg *config.Config) (*database.DB, error) {
	path := cfg.GetDBPath()
	if dbPath != "" {
		path = dbPath
	}

	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	return database.New(path)
}

// serviceOr returns the flag value or the configured default service
func serviceOr(flag string, cfg *config.Config) string {
	if flag != "" {
		return flag
	}
	return cfg.GetService()
}

// comparison loads config and usage, then prices the period under the named
// plans (all configured plans when names is empty).
func comparison(ctx context.Context, service, from, to string, names []string) (*billing.Result, *config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, nil, err
	}
	period, err := billing.ParsePeriod(from, to, time.Now(), loc)
	if err != nil {
		return nil, nil, err
	}

	plans, err := cfg.SelectPlans(names)
	if err != nil {
		return nil, nil, fmt.Errorf("selecting plans: %w", err)
	}

	db, err := openDB(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	res, err := billing.Run(ctx, db, billing.Request{
		Service: serviceOr(service, cfg),
		Range:   period,
		Plans:   plans,
	})
	if err != nil {
		return nil, nil, err
	}
	return res, cfg, nil
}

// addPeriodFlags registers --from and --to on a command
func addPeriodFlags(cmd *cobra.Command, from, to *string) {
	cmd.Flags().StringVar(from, "from", billing.DefaultFrom, "Start date (YYYY-MM-DD or relative like 30d)")
	cmd.Flags().StringVar(to, "to", billing.DefaultTo, "End date, inclusive (YYYY-MM-DD or relative like 0d for today)")
}

// pushMetrics sends this run's counters to the configured Pushgateway.
// serve is skipped because it exposes /metrics for scraping.
func pushMetrics(cmd *cobra.Command, cfg *config.Config) {
	if cmd == nil || cmd == serveCmd || cfg.Metrics.PushgatewayURL == "" {
		return
	}
	if err := metrics.Push(cfg.Metrics.PushgatewayURL, cfg.Metrics.GetJob()); err != nil {
		logger.Warn("metrics push failed", "error", err)
		return
	}
	logger.Debug("pushed metrics", "url", cfg.Metrics.PushgatewayURL, "command", cmd.Name())
}
