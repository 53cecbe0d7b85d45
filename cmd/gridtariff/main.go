package main

import (
	"os"
)

func main() {
	err := rootCmd.Execute()

	// Push failed runs too so import and publish errors are counted
	if cfg, cfgErr := loadConfig(); cfgErr == nil {
		pushMetrics(ranCmd, cfg)
	}

	if err != nil {
		os.Exit(1)
	}
}
