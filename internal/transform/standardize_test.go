package transform

import (
	"math"
	"testing"

	"github.com/montanaflynn/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"betaxform/pkg/contracts/domain"
)

var nan = domain.Missing()

func TestSampleStdDev(t *testing.T) {
	tests := []struct {
		name    string
		values  []float64
		want    float64
		missing bool
	}{
		{name: "textbook", values: []float64{2, 4, 4, 4, 5, 5, 7, 9}, want: math.Sqrt(32.0 / 7.0)},
		{name: "ignores missing", values: []float64{nan, 1, 2, nan, 3}, want: 1},
		{name: "single value", values: []float64{4}, missing: true},
		{name: "only missing", values: []float64{nan, nan}, missing: true},
		{name: "empty", values: nil, missing: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SampleStdDev(tt.values)
			if tt.missing {
				assert.True(t, domain.IsMissing(got))
				return
			}
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}
}

func TestStandardizeColumn_MeanZeroUnitVariance(t *testing.T) {
	values := []float64{1.5, 2.0, -0.3, 4.2, nan, 0.9, 1.1}

	z, st := StandardizeColumn(values)
	require.False(t, st.Degenerate)
	assert.Equal(t, 6, st.Count)

	data := present(z)
	require.Len(t, data, 6)

	mean, err := stats.Mean(data)
	require.NoError(t, err)
	sd, err := stats.StandardDeviationSample(data)
	require.NoError(t, err)

	assert.InDelta(t, 0, mean, 1e-12)
	assert.InDelta(t, 1, sd, 1e-12)
}

func TestStandardizeColumn_PreservesMissingPositions(t *testing.T) {
	values := []float64{nan, 0.8, 1.2, nan, 1.0}

	z, _ := StandardizeColumn(values)
	require.Len(t, z, len(values))
	for i, v := range values {
		assert.Equal(t, domain.IsMissing(v), domain.IsMissing(z[i]), "row %d", i)
	}
}

func TestStandardizeColumn_Degenerate(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		reason string
	}{
		{name: "constant", values: []float64{7, 7, 7}, reason: ReasonZeroVariance},
		{name: "constant with blanks", values: []float64{nan, 0.25, 0.25}, reason: ReasonZeroVariance},
		{name: "single value", values: []float64{nan, 3, nan}, reason: ReasonTooFewValues},
		{name: "all missing", values: []float64{nan, nan}, reason: ReasonTooFewValues},
		{name: "empty", values: []float64{}, reason: ReasonTooFewValues},
		{name: "rounding noise", values: []float64{0.1, 0.1, 0.1, 0.1 + 1e-16}, reason: ReasonNearZero},
		{name: "overflowing spread", values: []float64{-math.MaxFloat64, math.MaxFloat64}, reason: ReasonNonFinite},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			z, st := StandardizeColumn(tt.values)
			assert.True(t, st.Degenerate)
			assert.Equal(t, tt.reason, st.Reason)
			require.Len(t, z, len(tt.values))
			for i := range z {
				assert.True(t, domain.IsMissing(z[i]), "row %d", i)
			}
		})
	}
}

func TestStandardize_ColumnsIndependent(t *testing.T) {
	table := &domain.BetaTable{
		MetaHeaders: []string{"Symbol", "Company Name"},
		Meta:        [][]string{{"AAA", "Alpha"}, {"BBB", "Beta"}, {"CCC", "Gamma"}},
		Columns: []domain.BetaColumn{
			{Name: "Market", Values: []float64{1, 2, 3}},
			{Name: "Size", Values: []float64{100, 200, 300}},
			{Name: "Value", Values: []float64{5, 5, 5}},
		},
	}

	std, all := Standardize(table)
	require.Len(t, all, 3)
	assert.Equal(t, table.ColumnNames(), std.ColumnNames())
	assert.Equal(t, table.Meta, std.Meta)

	// different scales, same shape
	assert.Equal(t, []float64{-1, 0, 1}, std.Columns[0].Values)
	assert.Equal(t, []float64{-1, 0, 1}, std.Columns[1].Values)

	assert.Equal(t, "Value", all[2].Name)
	assert.True(t, all[2].Degenerate)
	assert.Equal(t, 3, std.Columns[2].MissingCount())

	// the input is untouched
	assert.Equal(t, []float64{5, 5, 5}, table.Columns[2].Values)
}
