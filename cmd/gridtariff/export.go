package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/jgoulah/gridtariff/internal/report"
	"github.com/spf13/cobra"
)

var (
	exportService string
	exportFrom    string
	exportTo      string
	exportPlans   []string
	exportFormat  string
	exportOut     string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write a comparison report as PDF or XLSX",
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportService, "service", "", "Service to compare (default from config)")
	exportCmd.Flags().StringSliceVar(&exportPlans, "plan", nil, "Plan to include (repeatable, default: all configured plans)")
	exportCmd.Flags().StringVar(&exportFormat, "format", "", "Report format: pdf or xlsx (default from --out extension)")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "tariff-comparison.pdf", "Output file")
	addPeriodFlags(exportCmd, &exportFrom, &exportTo)
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	format := strings.ToLower(exportFormat)
	if format == "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(exportOut)), ".")
	}
	if format != "pdf" && format != "xlsx" {
		return fmt.Errorf("unknown format %q (available: pdf, xlsx)", format)
	}

	res, _, err := comparison(cmd.Context(), exportService, exportFrom, exportTo, exportPlans)
	if err != nil {
		return err
	}
	period := report.Period{From: res.From, To: res.To}

	var data []byte
	switch format {
	case "pdf":
		data, err = report.ComparisonPDF(res.Service, period, res.Comparison, res.Bills)
	case "xlsx":
		data, err = report.ComparisonXLSX(res.Service, period, res.Comparison, res.Bills)
	}
	if err != nil {
		return err
	}

	if err := os.WriteFile(exportOut, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", exportOut, err)
	}
	fmt.Printf("✓ Wrote %s (%s)\n", exportOut, humanize.Bytes(uint64(len(data))))
	return nil
}
