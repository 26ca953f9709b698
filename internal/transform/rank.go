package transform

import (
	"math"
	"sort"

	"betaxform/pkg/contracts/domain"
)

const (
	DefaultPrecision = 9
	LowPrecision     = 3

	// percentileOffset is subtracted from the raw rank fraction before rounding
	percentileOffset = 0.0005
)

// GlobalPool collects every non-missing value of table into one ascending
// slice.
func GlobalPool(table *domain.BetaTable) []float64 {
	pool := make([]float64, 0, table.Cells())
	for _, col := range table.Columns {
		pool = append(pool, present(col.Values)...)
	}
	sort.Float64s(pool)
	return pool
}

// PercentRankExc returns the exclusive percentile rank rank/(N+1) of x within
// the ascending pool, unrounded. Equal values share the rank of the first
// member of their group. A value between two pool elements interpolates
// linearly between their ranks. ok is false when x is missing, the pool is
// empty, or x lies outside [pool[0], pool[N-1]].
func PercentRankExc(pool []float64, x float64) (raw float64, ok bool) {
	n := len(pool)
	if n == 0 || domain.IsMissing(x) || x < pool[0] || x > pool[n-1] {
		return 0, false
	}

	i := sort.SearchFloat64s(pool, x)
	if pool[i] == x {
		return float64(i+1) / float64(n+1), true
	}

	// pool[i-1] < x < pool[i]; i >= 1 because x >= pool[0]
	lo, hi := pool[i-1], pool[i]
	loRank := float64(sort.SearchFloat64s(pool, lo) + 1)
	hiRank := float64(i + 1)
	rank := loRank + (x-lo)/(hi-lo)*(hiRank-loRank)
	return rank / float64(n+1), true
}

// RoundPercentile shifts raw down by 0.0005 and rounds it half away from zero
// to precision decimals. Results that round to 0 or 1 are pulled back inside
// the open interval by one unit in the last place.
func RoundPercentile(raw float64, precision int) float64 {
	scale := math.Pow(10, float64(precision))
	p := math.Round((raw-percentileOffset)*scale) / scale
	step := 1 / scale
	switch {
	case p <= 0:
		return step
	case p >= 1:
		return 1 - step
	}
	return p
}

// rankColumn maps every value of a column to its rounded percentile in pool
func rankColumn(pool, values []float64, precision int) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		raw, ok := PercentRankExc(pool, v)
		if !ok {
			out[i] = domain.Missing()
			continue
		}
		out[i] = RoundPercentile(raw, precision)
	}
	return out
}

// RankGlobal ranks every value of table against the pool of all its
// non-missing values. Missing positions stay missing; an empty pool yields an
// all-missing table.
func RankGlobal(table *domain.BetaTable, precision int) *domain.BetaTable {
	pool := GlobalPool(table)
	columns := make([]domain.BetaColumn, len(table.Columns))
	for i, col := range table.Columns {
		columns[i] = domain.BetaColumn{Name: col.Name, Values: rankColumn(pool, col.Values, precision)}
	}
	return table.WithColumns(columns)
}

// Rescale maps a percentile onto the transformed beta scale:
// (p*100 - 50.5) / 34. Missing stays missing.
func Rescale(p float64) float64 {
	if domain.IsMissing(p) {
		return p
	}
	return (p*100 - 50.5) / 34
}

func rescaleColumn(values []float64) []float64 {
	out := make([]float64, len(values))
	for i, p := range values {
		out[i] = Rescale(p)
	}
	return out
}

// RescaleTable applies Rescale to every cell of table
func RescaleTable(table *domain.BetaTable) *domain.BetaTable {
	columns := make([]domain.BetaColumn, len(table.Columns))
	for i, col := range table.Columns {
		columns[i] = domain.BetaColumn{Name: col.Name, Values: rescaleColumn(col.Values)}
	}
	return table.WithColumns(columns)
}
