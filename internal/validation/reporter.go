package validation

import (
	"fmt"
	"io"
	"strings"

	"betaxform/pkg/contracts/domain"
)

// ColumnBlanks lists the blank rows of one derived column. Row numbers are
// 0-based data row indices (the header is not counted).
type ColumnBlanks struct {
	Column string `json:"column"`
	// Inherited rows were already blank in the source table
	Inherited []int `json:"inherited,omitempty"`
	// Introduced rows had a value in the source table
	Introduced []int `json:"introduced,omitempty"`
}

// Rows returns all blank rows of the column in ascending order
func (c ColumnBlanks) Rows() []int {
	rows := make([]int, 0, len(c.Inherited)+len(c.Introduced))
	i, j := 0, 0
	for i < len(c.Inherited) || j < len(c.Introduced) {
		if j >= len(c.Introduced) || (i < len(c.Inherited) && c.Inherited[i] < c.Introduced[j]) {
			rows = append(rows, c.Inherited[i])
			i++
		} else {
			rows = append(rows, c.Introduced[j])
			j++
		}
	}
	return rows
}

// Report counts the blank cells of a table
type Report struct {
	Name        string         `json:"name"`
	Rows        int            `json:"rows"`
	ColumnCount int            `json:"columns"`
	Cells       int            `json:"cells"`
	Blank       int            `json:"blank"`
	Inherited   int            `json:"inherited"`
	Introduced  int            `json:"introduced"`
	Blanks      []ColumnBlanks `json:"blanks,omitempty"`
}

// Count reports the blank total of table without a per-column breakdown
func Count(name string, table *domain.BetaTable) Report {
	return Report{
		Name:        name,
		Rows:        table.Rows(),
		ColumnCount: len(table.Columns),
		Cells:       table.Cells(),
		Blank:       table.MissingCount(),
	}
}

// Compare reports the blanks of derived, split by whether the same cell of
// source was already blank. Both tables must have the same shape.
func Compare(name string, source, derived *domain.BetaTable) (Report, error) {
	if len(source.Columns) != len(derived.Columns) || source.Rows() != derived.Rows() {
		return Report{}, fmt.Errorf("cannot compare %s: shape %dx%d differs from source %dx%d",
			name, derived.Rows(), len(derived.Columns), source.Rows(), len(source.Columns))
	}

	report := Count(name, derived)
	for c, col := range derived.Columns {
		blanks := ColumnBlanks{Column: col.Name}
		for r, v := range col.Values {
			if !domain.IsMissing(v) {
				continue
			}
			if domain.IsMissing(source.Columns[c].Values[r]) {
				blanks.Inherited = append(blanks.Inherited, r)
			} else {
				blanks.Introduced = append(blanks.Introduced, r)
			}
		}
		if len(blanks.Inherited)+len(blanks.Introduced) == 0 {
			continue
		}
		report.Inherited += len(blanks.Inherited)
		report.Introduced += len(blanks.Introduced)
		report.Blanks = append(report.Blanks, blanks)
	}
	return report, nil
}

// DegenerateColumn names a column that could not be standardized
type DegenerateColumn struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// Summary is the console validation report of one run
type Summary struct {
	InputRows    int                `json:"input_rows"`
	InputColumns int                `json:"input_columns"`
	Standardized Report             `json:"standardized"`
	Transformed  Report             `json:"transformed"`
	Degenerate   []DegenerateColumn `json:"degenerate,omitempty"`
}

// Render writes the report in its console form
func (s Summary) Render(w io.Writer) error {
	var b strings.Builder

	b.WriteString("Data validation:\n")
	fmt.Fprintf(&b, "Original betas shape: (%d, %d)\n", s.InputRows, s.InputColumns)
	fmt.Fprintf(&b, "Standardized betas - blank cells: %d\n", s.Standardized.Blank)
	fmt.Fprintf(&b, "Transformed betas - blank cells: %d\n", s.Transformed.Blank)

	for _, d := range s.Degenerate {
		fmt.Fprintf(&b, "Column '%s' could not be standardized: %s\n", d.Name, d.Reason)
	}

	if s.Transformed.Blank > 0 {
		fmt.Fprintf(&b, "WARNING: Found blank cells in transformed data! (%d inherited, %d introduced)\n",
			s.Transformed.Inherited, s.Transformed.Introduced)
		for _, col := range s.Transformed.Blanks {
			fmt.Fprintf(&b, "  Column '%s': rows %v (inherited %d, introduced %d)\n",
				col.Column, col.Rows(), len(col.Inherited), len(col.Introduced))
		}
	} else {
		b.WriteString("✓ All transformed beta cells are filled\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// String returns the rendered report
func (s Summary) String() string {
	var b strings.Builder
	_ = s.Render(&b)
	return b.String()
}
