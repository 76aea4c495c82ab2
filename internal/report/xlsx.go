package report

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"

	"feeval/internal/evaluation"
)

const (
	overviewSheet = "Overview"
	outcomesSheet = "Outcomes"
)

// SaveToXLSX saves the evaluation result to an Excel workbook with an
// overview sheet and the per-target outcome table.
func SaveToXLSX(result *evaluation.Result, outputPath string) error {
	if result == nil {
		return fmt.Errorf("no result to save")
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", overviewSheet); err != nil {
		return fmt.Errorf("rename overview sheet: %w", err)
	}

	if err := writeOverviewSheet(f, result); err != nil {
		return err
	}

	if _, err := f.NewSheet(outcomesSheet); err != nil {
		return fmt.Errorf("create outcomes sheet: %w", err)
	}
	if err := writeOutcomesSheet(f, result); err != nil {
		return err
	}

	if err := f.SaveAs(outputPath); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}

	return nil
}

// writeOverviewSheet fills the overview sheet with dataset metadata
func writeOverviewSheet(f *excelize.File, result *evaluation.Result) error {
	rows := [][]interface{}{
		{"Generated", time.Now().Format("2006-01-02 15:04:05")},
		{"Total Estimates", result.TotalEstimates},
		{"Trimmed Estimates", result.TrimmedEstimates},
		{"Start Block", result.StartBlock},
		{"End Block", result.EndBlock},
		{"Tip Height", result.TipHeight},
	}

	for i, row := range rows {
		for j, value := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				return fmt.Errorf("overview cell name: %w", err)
			}
			if err := f.SetCellValue(overviewSheet, cell, value); err != nil {
				return fmt.Errorf("set overview cell %s: %w", cell, err)
			}
		}
	}

	return nil
}

// writeOutcomesSheet fills the outcomes sheet with the same table as the
// CSV report
func writeOutcomesSheet(f *excelize.File, result *evaluation.Result) error {
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	for j, name := range csvHeader {
		cell, err := excelize.CoordinatesToCellName(j+1, 1)
		if err != nil {
			return fmt.Errorf("header cell name: %w", err)
		}
		if err := f.SetCellValue(outcomesSheet, cell, name); err != nil {
			return fmt.Errorf("set header cell %s: %w", cell, err)
		}
	}

	lastHeader, err := excelize.CoordinatesToCellName(len(csvHeader), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(outcomesSheet, "A1", lastHeader, headerStyle); err != nil {
		return fmt.Errorf("style header row: %w", err)
	}

	for i, record := range outcomeRecords(result) {
		for j, value := range record {
			cell, err := excelize.CoordinatesToCellName(j+1, i+2)
			if err != nil {
				return fmt.Errorf("outcome cell name: %w", err)
			}
			if err := f.SetCellValue(outcomesSheet, cell, value); err != nil {
				return fmt.Errorf("set outcome cell %s: %w", cell, err)
			}
		}
	}

	return nil
}
