package transform

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"betaxform/pkg/contracts/domain"
)

// Stage identifies a step of the pipeline
type Stage string

const (
	StageStandardize Stage = "standardize"
	StageRank        Stage = "rank"
	StageRescale     Stage = "rescale"
)

// Stages lists the pipeline stages in execution order
var Stages = []Stage{StageStandardize, StageRank, StageRescale}

// Observer is told about every column a stage finishes. It is called on the
// goroutine running the pipeline.
type Observer interface {
	ColumnDone(stage Stage, column string, done, total int)
}

// ObserverFunc adapts a function to the Observer interface
type ObserverFunc func(stage Stage, column string, done, total int)

// ColumnDone calls f
func (f ObserverFunc) ColumnDone(stage Stage, column string, done, total int) {
	f(stage, column, done, total)
}

// Options configures a Pipeline
type Options struct {
	// Precision is the number of decimals percentiles are rounded to
	Precision int
	// Observer is optional
	Observer Observer
}

// DefaultOptions returns the options used when nothing is configured
func DefaultOptions() Options {
	return Options{Precision: DefaultPrecision}
}

// Result holds every table the pipeline derives from its input
type Result struct {
	Standardized *domain.BetaTable
	Percentiles  *domain.BetaTable
	Transformed  *domain.BetaTable
	Stats        []ColumnStats
	PoolSize     int
	Durations    map[Stage]time.Duration
}

// Degenerate returns the stats of columns that could not be standardized
func (r *Result) Degenerate() []ColumnStats {
	var out []ColumnStats
	for _, st := range r.Stats {
		if st.Degenerate {
			out = append(out, st)
		}
	}
	return out
}

// Pipeline runs standardize, rank and rescale over a beta table
type Pipeline struct {
	opts   Options
	logger *slog.Logger
	tracer trace.Tracer
}

// NewPipeline validates opts and returns a pipeline
func NewPipeline(opts Options, logger *slog.Logger) (*Pipeline, error) {
	if opts.Precision < 1 || opts.Precision > 15 {
		return nil, fmt.Errorf("precision must be between 1 and 15, got %d", opts.Precision)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		opts:   opts,
		logger: logger.With(slog.String("component", "transform")),
		tracer: otel.Tracer("betaxform/internal/transform"),
	}, nil
}

// Run transforms table. The input is not modified. Degenerate columns are
// logged and come out all-missing; they are not errors.
func (p *Pipeline) Run(ctx context.Context, table *domain.BetaTable) (*Result, error) {
	if table == nil {
		return nil, fmt.Errorf("nil table")
	}
	if err := table.Check(); err != nil {
		return nil, fmt.Errorf("invalid table: %w", err)
	}

	ctx, span := p.tracer.Start(ctx, "transform.Run", trace.WithAttributes(
		attribute.Int("rows", table.Rows()),
		attribute.Int("columns", len(table.Columns)),
		attribute.Int("precision", p.opts.Precision),
	))
	defer span.End()

	result := &Result{Durations: make(map[Stage]time.Duration, len(Stages))}
	total := len(table.Columns)

	// standardize
	err := p.stage(ctx, StageStandardize, result, func(ctx context.Context) error {
		columns := make([]domain.BetaColumn, total)
		result.Stats = make([]ColumnStats, total)
		for i, col := range table.Columns {
			if err := ctx.Err(); err != nil {
				return err
			}
			columns[i], result.Stats[i] = standardizeNamed(col)
			if st := result.Stats[i]; st.Degenerate {
				p.logger.WarnContext(ctx, "Column could not be standardized",
					slog.String("column", col.Name),
					slog.String("reason", st.Reason),
					slog.Int("values", st.Count))
			}
			p.notify(StageStandardize, col.Name, i+1, total)
		}
		result.Standardized = table.WithColumns(columns)
		return nil
	})
	if err != nil {
		return nil, p.fail(span, err)
	}

	// rank against the global pool
	err = p.stage(ctx, StageRank, result, func(ctx context.Context) error {
		pool := GlobalPool(result.Standardized)
		result.PoolSize = len(pool)
		trace.SpanFromContext(ctx).SetAttributes(attribute.Int("pool_size", len(pool)))
		if len(pool) == 0 {
			p.logger.WarnContext(ctx, "No standardized values to rank; percentiles will be blank")
		}
		columns := make([]domain.BetaColumn, total)
		for i, col := range result.Standardized.Columns {
			if err := ctx.Err(); err != nil {
				return err
			}
			columns[i] = domain.BetaColumn{Name: col.Name, Values: rankColumn(pool, col.Values, p.opts.Precision)}
			p.notify(StageRank, col.Name, i+1, total)
		}
		result.Percentiles = table.WithColumns(columns)
		return nil
	})
	if err != nil {
		return nil, p.fail(span, err)
	}

	err = p.stage(ctx, StageRescale, result, func(ctx context.Context) error {
		columns := make([]domain.BetaColumn, total)
		for i, col := range result.Percentiles.Columns {
			if err := ctx.Err(); err != nil {
				return err
			}
			columns[i] = domain.BetaColumn{Name: col.Name, Values: rescaleColumn(col.Values)}
			p.notify(StageRescale, col.Name, i+1, total)
		}
		result.Transformed = table.WithColumns(columns)
		return nil
	})
	if err != nil {
		return nil, p.fail(span, err)
	}

	span.SetAttributes(attribute.Int("degenerate_columns", len(result.Degenerate())))
	p.logger.InfoContext(ctx, "Transformation complete",
		slog.Int("rows", table.Rows()),
		slog.Int("columns", total),
		slog.Int("pool_size", result.PoolSize),
		slog.Int("degenerate_columns", len(result.Degenerate())))

	return result, nil
}

// stage runs fn inside a child span and records its duration
func (p *Pipeline) stage(ctx context.Context, stage Stage, result *Result, fn func(context.Context) error) error {
	ctx, span := p.tracer.Start(ctx, "transform."+string(stage))
	defer span.End()

	start := time.Now()
	err := fn(ctx)
	result.Durations[stage] = time.Since(start)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("%s stage: %w", stage, err)
	}
	p.logger.DebugContext(ctx, "Stage finished",
		slog.String("stage", string(stage)),
		slog.Duration("duration", result.Durations[stage]))
	return nil
}

func (p *Pipeline) notify(stage Stage, column string, done, total int) {
	if p.opts.Observer != nil {
		p.opts.Observer.ColumnDone(stage, column, done, total)
	}
}

func (p *Pipeline) fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
