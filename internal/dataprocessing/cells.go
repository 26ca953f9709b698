package dataprocessing

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	apperrors "betaxform/internal/errors"
	"betaxform/pkg/contracts/domain"
)

// missingTokens are cell texts read as a blank beta
var missingTokens = map[string]bool{
	"NA":   true,
	"N/A":  true,
	"#N/A": true,
	"NaN":  true,
	"nan":  true,
	"null": true,
	"NULL": true,
	"None": true,
	"-":    true,
}

var numericCleaner = strings.NewReplacer(
	" ", "", // no-break space used as a thousands separator
	",", "",
	"−", "-", // unicode minus sign
)

// ParseNumericCell converts the text of a beta cell into a value. Blank
// cells and the usual missing-value tokens become domain.Missing(). Text
// that is not a finite number is an error.
func ParseNumericCell(raw string) (float64, error) {
	s := strings.TrimSpace(numericCleaner.Replace(raw))
	if s == "" || missingTokens[s] {
		return domain.Missing(), nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number")
	}
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, fmt.Errorf("not a finite number")
	}
	return v, nil
}

// buildTable turns a header row followed by data rows into a beta table.
// Row numbers in errors are 1-based positions in the source sheet.
func buildTable(rows [][]string, metaColumns int) (*domain.BetaTable, error) {
	if len(rows) == 0 {
		return nil, apperrors.NewSchemaError("no header row")
	}

	header := trimTrailingBlanks(rows[0])
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}
	width := len(header)
	if width < metaColumns+1 {
		return nil, apperrors.NewSchemaError(fmt.Sprintf(
			"expected at least %d columns (%d metadata + 1 beta), found %d",
			metaColumns+1, metaColumns, width))
	}

	table := &domain.BetaTable{MetaHeaders: header[:metaColumns]}
	seen := make(map[string]bool, width-metaColumns)
	for c := metaColumns; c < width; c++ {
		name := header[c]
		if name == "" {
			return nil, apperrors.NewSchemaError(fmt.Sprintf("beta column %d has an empty header", c+1))
		}
		if seen[name] {
			return nil, &apperrors.SchemaError{Column: name, Reason: "duplicate column name"}
		}
		seen[name] = true
		table.Columns = append(table.Columns, domain.BetaColumn{Name: name})
	}

	for i, row := range rows[1:] {
		sheetRow := i + 2
		row = trimTrailingBlanks(row)
		if len(row) == 0 {
			continue
		}
		if len(row) > width {
			return nil, &apperrors.SchemaError{
				Row:    sheetRow,
				Value:  row[width],
				Reason: fmt.Sprintf("row has %d cells but the header has %d", len(row), width),
			}
		}

		meta := make([]string, metaColumns)
		for c := 0; c < metaColumns && c < len(row); c++ {
			meta[c] = strings.TrimSpace(row[c])
		}

		values := make([]float64, len(table.Columns))
		for c := range table.Columns {
			cell := ""
			if metaColumns+c < len(row) {
				cell = row[metaColumns+c]
			}
			v, err := ParseNumericCell(cell)
			if err != nil {
				return nil, apperrors.NewCellError(table.Columns[c].Name, sheetRow, cell, err.Error())
			}
			values[c] = v
		}

		table.Meta = append(table.Meta, meta)
		for c := range table.Columns {
			table.Columns[c].Values = append(table.Columns[c].Values, values[c])
		}
	}

	// keep column slices non-nil so derived tables compare cleanly
	for c := range table.Columns {
		if table.Columns[c].Values == nil {
			table.Columns[c].Values = []float64{}
		}
	}
	return table, nil
}

// trimTrailingBlanks drops empty cells from the end of a row
func trimTrailingBlanks(row []string) []string {
	end := len(row)
	for end > 0 && strings.TrimSpace(row[end-1]) == "" {
		end--
	}
	out := make([]string, end)
	copy(out, row[:end])
	return out
}
