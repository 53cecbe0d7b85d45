package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	"github.com/jgoulah/gridtariff/internal/tariff"
)

// Period is the billing range shown in exported reports.
type Period struct {
	From time.Time
	To   time.Time
}

func (p Period) String() string {
	return fmt.Sprintf("%s to %s", p.From.Format("2006-01-02"), p.To.Format("2006-01-02"))
}

// ComparisonPDF renders a one page summary followed by a breakdown section per bill.
func ComparisonPDF(service string, period Period, c tariff.Comparison, bills []tariff.Bill) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, tr("Electricity Tariff Comparison"))
	pdf.Ln(10)

	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, tr(fmt.Sprintf("Service: %s", service)))
	pdf.Ln(6)
	pdf.Cell(0, 6, tr(fmt.Sprintf("Period: %s", period)))
	pdf.Ln(6)
	pdf.Cell(0, 6, tr(fmt.Sprintf("Cheapest plan: %s", c.Cheapest)))
	pdf.Ln(10)

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(60, 7, "Plan", "1", 0, "L", false, 0, "")
	pdf.CellFormat(30, 7, "Scheme", "1", 0, "L", false, 0, "")
	pdf.CellFormat(40, 7, "Total", "1", 0, "R", false, 0, "")
	pdf.CellFormat(40, 7, "Difference", "1", 0, "R", false, 0, "")
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 10)
	for _, e := range c.Entries {
		fill := e.Name == c.Cheapest
		pdf.SetFillColor(220, 245, 220)
		pdf.CellFormat(60, 6, tr(e.Name), "1", 0, "L", fill, 0, "")
		pdf.CellFormat(30, 6, string(e.Scheme), "1", 0, "L", fill, 0, "")
		pdf.CellFormat(40, 6, fmt.Sprintf("%.2f", e.TotalBill), "1", 0, "R", fill, 0, "")
		pdf.CellFormat(40, 6, fmt.Sprintf("%.2f", e.Delta), "1", 0, "R", fill, 0, "")
		pdf.Ln(-1)
	}

	for _, bill := range bills {
		pdf.Ln(8)
		pdf.SetFont("Arial", "B", 12)
		pdf.Cell(0, 8, tr(fmt.Sprintf("%s (%s): %.2f kWh", bill.Name, bill.Scheme, bill.TotalKWh)))
		pdf.Ln(8)

		pdf.SetFont("Arial", "", 10)
		for _, entry := range bill.Breakdown.Entries() {
			pdf.CellFormat(70, 6, tr(entry.Label), "1", 0, "L", false, 0, "")
			pdf.CellFormat(50, 6, fmt.Sprintf("%.3f", entry.KWh), "1", 0, "R", false, 0, "")
			pdf.CellFormat(50, 6, fmt.Sprintf("%.2f", entry.Cost), "1", 0, "R", false, 0, "")
			pdf.Ln(-1)
		}
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(120, 6, "Total", "1", 0, "L", false, 0, "")
		pdf.CellFormat(50, 6, fmt.Sprintf("%.2f", bill.TotalBill), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
		if !bill.Covered() {
			pdf.SetFont("Arial", "I", 9)
			pdf.Cell(0, 6, tr(fmt.Sprintf("%d readings (%.3f kWh) matched no rate window and were not billed",
				bill.UnbilledReadings, bill.UnbilledKWh)))
			pdf.Ln(6)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("rendering PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// ComparisonXLSX renders a summary sheet and one breakdown sheet.
func ComparisonXLSX(service string, period Period, c tariff.Comparison, bills []tariff.Bill) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	summarySheet := "summary"
	breakdownSheet := "breakdown"
	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, fmt.Errorf("naming sheet: %w", err)
	}
	if _, err := f.NewSheet(breakdownSheet); err != nil {
		return nil, fmt.Errorf("adding sheet: %w", err)
	}

	_ = f.SetCellValue(summarySheet, "A1", "Tariff Comparison")
	_ = f.SetCellValue(summarySheet, "A2", "Service")
	_ = f.SetCellValue(summarySheet, "B2", service)
	_ = f.SetCellValue(summarySheet, "A3", "Period")
	_ = f.SetCellValue(summarySheet, "B3", period.String())
	_ = f.SetCellValue(summarySheet, "A4", "Cheapest")
	_ = f.SetCellValue(summarySheet, "B4", c.Cheapest)

	_ = f.SetCellValue(summarySheet, "A6", "Plan")
	_ = f.SetCellValue(summarySheet, "B6", "Scheme")
	_ = f.SetCellValue(summarySheet, "C6", "Total")
	_ = f.SetCellValue(summarySheet, "D6", "Difference")
	for i, e := range c.Entries {
		row := i + 7
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("A%d", row), e.Name)
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("B%d", row), string(e.Scheme))
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("C%d", row), e.TotalBill)
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("D%d", row), e.Delta)
	}

	_ = f.SetCellValue(breakdownSheet, "A1", "Plan")
	_ = f.SetCellValue(breakdownSheet, "B1", "Item")
	_ = f.SetCellValue(breakdownSheet, "C1", "Energy (kWh)")
	_ = f.SetCellValue(breakdownSheet, "D1", "Cost")
	row := 2
	for _, bill := range bills {
		for _, entry := range bill.Breakdown.Entries() {
			_ = f.SetCellValue(breakdownSheet, fmt.Sprintf("A%d", row), bill.Name)
			_ = f.SetCellValue(breakdownSheet, fmt.Sprintf("B%d", row), entry.Label)
			_ = f.SetCellValue(breakdownSheet, fmt.Sprintf("C%d", row), entry.KWh)
			_ = f.SetCellValue(breakdownSheet, fmt.Sprintf("D%d", row), entry.Cost)
			row++
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("rendering XLSX: %w", err)
	}
	return buf.Bytes(), nil
}
