package domain

import (
	"fmt"
	"math"
)

// DefaultMetaColumns is the number of leading metadata columns (symbol and
// company name) that precede the numeric beta columns in an input sheet.
const DefaultMetaColumns = 2

// Missing returns the value used to mark a blank cell in a beta column.
// A NaN never compares equal to itself, so always test with IsMissing.
func Missing() float64 {
	return math.NaN()
}

// IsMissing reports whether v marks a blank cell.
func IsMissing(v float64) bool {
	return math.IsNaN(v)
}

// BetaColumn is a named numeric series. Values has exactly one entry per
// table row; blank cells hold Missing().
type BetaColumn struct {
	Name   string    `json:"name" validate:"required"`
	Values []float64 `json:"values"`
}

// MissingCount returns the number of blank cells in the column.
func (c BetaColumn) MissingCount() int {
	n := 0
	for _, v := range c.Values {
		if IsMissing(v) {
			n++
		}
	}
	return n
}

// BetaTable is the in-memory dataset the transformation pipeline works on.
//
// Layout:
//   - MetaHeaders names the metadata prefix (typically "Symbol", "Company Name")
//   - Meta holds one []string per row, len(Meta[r]) == len(MetaHeaders)
//   - Columns holds the numeric beta columns in sheet order
//
// Row r of the table is Meta[r] followed by Columns[c].Values[r] for every c.
// Derived tables (standardized, transformed) share Meta and MetaHeaders with
// their source and keep the same column order and names.
type BetaTable struct {
	MetaHeaders []string     `json:"meta_headers"`
	Meta        [][]string   `json:"meta"`
	Columns     []BetaColumn `json:"columns"`
}

// Rows returns the number of data rows.
func (t *BetaTable) Rows() int {
	if t == nil {
		return 0
	}
	return len(t.Meta)
}

// ColumnNames returns the beta column names in order.
func (t *BetaTable) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// Headers returns the full header row: metadata headers followed by beta
// column names.
func (t *BetaTable) Headers() []string {
	headers := make([]string, 0, len(t.MetaHeaders)+len(t.Columns))
	headers = append(headers, t.MetaHeaders...)
	return append(headers, t.ColumnNames()...)
}

// Cells returns the total number of beta cells (rows x columns).
func (t *BetaTable) Cells() int {
	return t.Rows() * len(t.Columns)
}

// MissingCount returns the number of blank beta cells across all columns.
func (t *BetaTable) MissingCount() int {
	n := 0
	for _, c := range t.Columns {
		n += c.MissingCount()
	}
	return n
}

// WithColumns returns a table that shares the metadata of t with the given
// columns. The metadata slices are shared, not copied.
func (t *BetaTable) WithColumns(columns []BetaColumn) *BetaTable {
	return &BetaTable{
		MetaHeaders: t.MetaHeaders,
		Meta:        t.Meta,
		Columns:     columns,
	}
}

// Check verifies the table is rectangular: every metadata row matches the
// metadata header width and every column has one value per row.
func (t *BetaTable) Check() error {
	rows := len(t.Meta)
	for r, meta := range t.Meta {
		if len(meta) != len(t.MetaHeaders) {
			return fmt.Errorf("row %d has %d metadata fields, expected %d", r, len(meta), len(t.MetaHeaders))
		}
	}
	for _, c := range t.Columns {
		if len(c.Values) != rows {
			return fmt.Errorf("column %q has %d values, expected %d", c.Name, len(c.Values), rows)
		}
	}
	return nil
}
