package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

// BetaHeaders is the header row of the sample betas sheet
var BetaHeaders = []interface{}{"Symbol", "Company Name", "Market", "SMB", "HML"}

// SampleBetaRows returns a small raw betas sheet: one blank cell in Market
// and a constant HML column.
func SampleBetaRows() [][]interface{} {
	return [][]interface{}{
		BetaHeaders,
		{"BBOB", "Bank of Baghdad", 0.82, -0.21, 0.5},
		{"BMNS", "Al-Mansour Bank", 1.14, 0.35, 0.5},
		{"IMAP", "Al-Mamoura Real Estate", nil, 0.08, 0.5},
		{"TASC", "Asiacell", 0.97, -0.44, 0.5},
	}
}

// WriteWorkbook creates an xlsx file at path with one sheet holding rows.
// A nil cell is left empty.
func WriteWorkbook(t *testing.T, path, sheet string, rows [][]interface{}) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		t.Fatalf("Failed to rename sheet: %v", err)
	}
	for r, row := range rows {
		for c, v := range row {
			if v == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				t.Fatalf("Failed to build cell name: %v", err)
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				t.Fatalf("Failed to set %s: %v", cell, err)
			}
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("Failed to save workbook: %v", err)
	}
	return path
}

// WriteFile writes raw bytes to path, creating parent directories
func WriteFile(t *testing.T, path string, content []byte) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
	return path
}

// ReadSheet returns the raw cell values of a sheet
func ReadSheet(t *testing.T, path, sheet string) [][]string {
	t.Helper()

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("Failed to open workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		t.Fatalf("Failed to read sheet %s: %v", sheet, err)
	}
	return rows
}
