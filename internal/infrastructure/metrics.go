package infrastructure

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// RunMetrics holds the instruments recorded for one transformation run.
// A nil *RunMetrics is valid and records nothing.
type RunMetrics struct {
	cells         metric.Int64Counter
	blankCells    metric.Int64Counter
	degenerate    metric.Int64Counter
	stageDuration metric.Float64Histogram
}

// NewRunMetrics creates the run instruments on the given meter
func NewRunMetrics(meter metric.Meter) (*RunMetrics, error) {
	cells, err := meter.Int64Counter(
		"betas_cells",
		metric.WithDescription("Beta cells written per output table"),
	)
	if err != nil {
		return nil, fmt.Errorf("create cells counter: %w", err)
	}

	blankCells, err := meter.Int64Counter(
		"betas_blank_cells",
		metric.WithDescription("Blank beta cells per output table, by origin"),
	)
	if err != nil {
		return nil, fmt.Errorf("create blank cells counter: %w", err)
	}

	degenerate, err := meter.Int64Counter(
		"betas_degenerate_columns",
		metric.WithDescription("Columns that could not be standardized"),
	)
	if err != nil {
		return nil, fmt.Errorf("create degenerate columns counter: %w", err)
	}

	stageDuration, err := meter.Float64Histogram(
		"betas_stage_duration",
		metric.WithDescription("Duration of each run stage"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("create stage duration histogram: %w", err)
	}

	return &RunMetrics{
		cells:         cells,
		blankCells:    blankCells,
		degenerate:    degenerate,
		stageDuration: stageDuration,
	}, nil
}

// RecordTable records the cell and blank counts of one output table
func (m *RunMetrics) RecordTable(ctx context.Context, table string, cells, inherited, introduced int) {
	if m == nil {
		return
	}
	tableAttr := attribute.String("table", table)
	m.cells.Add(ctx, int64(cells), metric.WithAttributes(tableAttr))
	m.blankCells.Add(ctx, int64(inherited), metric.WithAttributes(tableAttr, attribute.String("origin", "inherited")))
	m.blankCells.Add(ctx, int64(introduced), metric.WithAttributes(tableAttr, attribute.String("origin", "introduced")))
}

// RecordDegenerate records the number of degenerate columns in a run
func (m *RunMetrics) RecordDegenerate(ctx context.Context, n int) {
	if m == nil {
		return
	}
	m.degenerate.Add(ctx, int64(n))
}

// RecordStage records how long a run stage took
func (m *RunMetrics) RecordStage(ctx context.Context, stage string, d time.Duration) {
	if m == nil {
		return
	}
	m.stageDuration.Record(ctx, d.Seconds(), metric.WithAttributes(attribute.String("stage", stage)))
}
