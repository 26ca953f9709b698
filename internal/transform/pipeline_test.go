package transform

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"betaxform/internal/shared/testutil"
	"betaxform/pkg/contracts/domain"
)

func sampleTable() *domain.BetaTable {
	return &domain.BetaTable{
		MetaHeaders: []string{"Symbol", "Company Name"},
		Meta: [][]string{
			{"BBOB", "Bank of Baghdad"},
			{"BMNS", "Al-Mansour Bank"},
			{"IMAP", "Al-Mamoura Real Estate"},
			{"TASC", "Asiacell"},
		},
		Columns: []domain.BetaColumn{
			{Name: "Market", Values: []float64{0.82, 1.14, nan, 0.97}},
			{Name: "SMB", Values: []float64{-0.21, 0.35, 0.08, -0.44}},
			{Name: "HML", Values: []float64{0.5, 0.5, 0.5, 0.5}},
		},
	}
}

func TestNewPipeline_Precision(t *testing.T) {
	for _, precision := range []int{0, -1, 16} {
		_, err := NewPipeline(Options{Precision: precision}, nil)
		assert.Error(t, err, "precision %d", precision)
	}

	p, err := NewPipeline(DefaultOptions(), nil)
	require.NoError(t, err)
	assert.NotNil(t, p)
}

func TestPipeline_Run(t *testing.T) {
	logger, handler := testutil.NewTestLogger(t)
	p, err := NewPipeline(DefaultOptions(), logger)
	require.NoError(t, err)

	table := sampleTable()
	result, err := p.Run(context.Background(), table)
	require.NoError(t, err)

	for _, derived := range []*domain.BetaTable{result.Standardized, result.Percentiles, result.Transformed} {
		assert.Equal(t, table.ColumnNames(), derived.ColumnNames())
		assert.Equal(t, table.Meta, derived.Meta)
		require.NoError(t, derived.Check())
	}

	// 3 + 4 standardized values; HML is constant
	assert.Equal(t, 7, result.PoolSize)
	degenerate := result.Degenerate()
	require.Len(t, degenerate, 1)
	assert.Equal(t, "HML", degenerate[0].Name)
	assert.Equal(t, ReasonZeroVariance, degenerate[0].Reason)

	for c, col := range result.Percentiles.Columns {
		for r, pct := range col.Values {
			assert.Equal(t, domain.IsMissing(result.Standardized.Columns[c].Values[r]), domain.IsMissing(pct))
			if !domain.IsMissing(pct) {
				assert.Equal(t, Rescale(pct), result.Transformed.Columns[c].Values[r])
			}
		}
	}

	for _, stage := range Stages {
		_, ok := result.Durations[stage]
		assert.True(t, ok, "duration for %s", stage)
	}

	testutil.AssertLogContains(t, handler, slog.LevelWarn, "Column could not be standardized")
	testutil.AssertLogContains(t, handler, slog.LevelInfo, "Transformation complete")
	testutil.AssertLogAttr(t, handler, "column", "HML")

	// input untouched
	assert.True(t, domain.IsMissing(table.Columns[0].Values[2]))
	assert.Equal(t, 0.82, table.Columns[0].Values[0])
}

func TestPipeline_ConstantColumnOnly(t *testing.T) {
	p, err := NewPipeline(DefaultOptions(), nil)
	require.NoError(t, err)

	result, err := p.Run(context.Background(), singleColumn("Market", 7, 7, 7))
	require.NoError(t, err)

	assert.Equal(t, 0, result.PoolSize)
	assert.Equal(t, 3, result.Standardized.MissingCount())
	assert.Equal(t, 3, result.Percentiles.MissingCount())
	assert.Equal(t, 3, result.Transformed.MissingCount())
}

func TestPipeline_EmptyTable(t *testing.T) {
	p, err := NewPipeline(DefaultOptions(), nil)
	require.NoError(t, err)

	table := &domain.BetaTable{MetaHeaders: []string{"Symbol", "Company Name"}}
	result, err := p.Run(context.Background(), table)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Transformed.Rows())
	assert.Empty(t, result.Transformed.Columns)
}

func TestPipeline_Observer(t *testing.T) {
	type call struct {
		stage  Stage
		column string
		done   int
		total  int
	}
	var calls []call

	opts := DefaultOptions()
	opts.Observer = ObserverFunc(func(stage Stage, column string, done, total int) {
		calls = append(calls, call{stage, column, done, total})
	})
	p, err := NewPipeline(opts, nil)
	require.NoError(t, err)

	_, err = p.Run(context.Background(), sampleTable())
	require.NoError(t, err)

	require.Len(t, calls, 9)
	assert.Equal(t, call{StageStandardize, "Market", 1, 3}, calls[0])
	assert.Equal(t, call{StageStandardize, "HML", 3, 3}, calls[2])
	assert.Equal(t, call{StageRank, "Market", 1, 3}, calls[3])
	assert.Equal(t, call{StageRescale, "HML", 3, 3}, calls[8])
}

func TestPipeline_Errors(t *testing.T) {
	p, err := NewPipeline(DefaultOptions(), nil)
	require.NoError(t, err)

	t.Run("nil table", func(t *testing.T) {
		_, err := p.Run(context.Background(), nil)
		assert.Error(t, err)
	})

	t.Run("ragged table", func(t *testing.T) {
		table := sampleTable()
		table.Columns[1].Values = table.Columns[1].Values[:2]
		_, err := p.Run(context.Background(), table)
		require.Error(t, err)
		assert.Contains(t, err.Error(), `column "SMB"`)
	})

	t.Run("canceled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := p.Run(ctx, sampleTable())
		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
