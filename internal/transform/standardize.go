package transform

import (
	"math"

	"github.com/montanaflynn/stats"

	"betaxform/pkg/contracts/domain"
)

// Reasons a column could not be standardized
const (
	ReasonTooFewValues = "fewer than two non-missing values"
	ReasonZeroVariance = "zero variance"
	ReasonNonFinite    = "non-finite standard deviation"
	ReasonNearZero     = "near-zero variance"
)

// nearZeroTolerance scales the largest absolute value of a column to give the
// smallest standard deviation that is still treated as real spread.
const nearZeroTolerance = 1e-12

// ColumnStats describes how one column was standardized
type ColumnStats struct {
	Name       string  `json:"name"`
	Count      int     `json:"count"`
	Mean       float64 `json:"mean"`
	StdDev     float64 `json:"std_dev"`
	Degenerate bool    `json:"degenerate"`
	Reason     string  `json:"reason,omitempty"`
}

// present returns the non-missing entries of values, in order
func present(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !domain.IsMissing(v) {
			out = append(out, v)
		}
	}
	return out
}

// SampleStdDev returns the sample standard deviation (divisor k-1) of the
// non-missing entries of values. It returns missing when fewer than two
// entries are present.
func SampleStdDev(values []float64) float64 {
	data := present(values)
	if len(data) < 2 {
		return domain.Missing()
	}
	sd, err := stats.StandardDeviationSample(data)
	if err != nil {
		return domain.Missing()
	}
	return sd
}

// StandardizeColumn z-scores a column against its own mean and sample
// standard deviation. Missing entries stay missing. When the column has no
// usable spread every output entry is missing and the returned stats are
// marked degenerate.
func StandardizeColumn(values []float64) ([]float64, ColumnStats) {
	z := make([]float64, len(values))
	data := present(values)
	st := ColumnStats{Count: len(data)}

	fail := func(reason string) ([]float64, ColumnStats) {
		for i := range z {
			z[i] = domain.Missing()
		}
		st.Degenerate = true
		st.Reason = reason
		return z, st
	}

	if len(data) < 2 {
		if len(data) == 1 {
			st.Mean = data[0]
		}
		return fail(ReasonTooFewValues)
	}

	mean, err := stats.Mean(data)
	if err != nil {
		return fail(ReasonTooFewValues)
	}
	st.Mean = mean
	st.StdDev = SampleStdDev(data)

	switch {
	case math.IsNaN(st.StdDev) || math.IsInf(st.StdDev, 0):
		return fail(ReasonNonFinite)
	case st.StdDev == 0:
		return fail(ReasonZeroVariance)
	case st.StdDev <= nearZeroTolerance*math.Max(1, maxAbs(data)):
		return fail(ReasonNearZero)
	}

	for i, v := range values {
		if domain.IsMissing(v) {
			z[i] = domain.Missing()
			continue
		}
		z[i] = (v - mean) / st.StdDev
	}
	return z, st
}

// Standardize applies StandardizeColumn to every column of table. The result
// shares the table's metadata; statistics never mix across columns.
func Standardize(table *domain.BetaTable) (*domain.BetaTable, []ColumnStats) {
	columns := make([]domain.BetaColumn, len(table.Columns))
	all := make([]ColumnStats, len(table.Columns))
	for i, col := range table.Columns {
		columns[i], all[i] = standardizeNamed(col)
	}
	return table.WithColumns(columns), all
}

func standardizeNamed(col domain.BetaColumn) (domain.BetaColumn, ColumnStats) {
	z, st := StandardizeColumn(col.Values)
	st.Name = col.Name
	return domain.BetaColumn{Name: col.Name, Values: z}, st
}

func maxAbs(data []float64) float64 {
	m := 0.0
	for _, v := range data {
		if a := math.Abs(v); a > m {
			m = a
		}
	}
	return m
}
