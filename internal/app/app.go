package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"betaxform/internal/config"
	"betaxform/internal/dataprocessing"
	"betaxform/internal/exporter"
	"betaxform/internal/files"
	"betaxform/internal/infrastructure"
	"betaxform/internal/transform"
	"betaxform/internal/validation"
	"betaxform/pkg/contracts/domain"
)

// Stage names recorded next to the transform stages
const (
	stageLoad   = "load"
	stageReport = "report"
	stageWrite  = "write"
	stageTotal  = "total"
)

// RunResult describes one completed run
type RunResult struct {
	RunID      string
	InputPath  string
	DateTag    string
	DateSource string
	Files      []string
	Summary    validation.Summary
	Transform  *transform.Result
}

// Runner loads the configured input, transforms it, reports blank cells and
// writes the outputs
type Runner struct {
	cfg       *config.Config
	logger    *slog.Logger
	telemetry *infrastructure.TelemetryProviders
	metrics   *infrastructure.RunMetrics
	console   io.Writer
	now       func() time.Time
}

// NewRunner creates a runner. telemetry may be nil; console receives the
// validation report and defaults to stdout.
func NewRunner(cfg *config.Config, logger *slog.Logger, telemetry *infrastructure.TelemetryProviders, console io.Writer) (*Runner, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil config")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if console == nil {
		console = os.Stdout
	}

	var metrics *infrastructure.RunMetrics
	if telemetry != nil && telemetry.Meter != nil {
		m, err := infrastructure.NewRunMetrics(telemetry.Meter)
		if err != nil {
			return nil, fmt.Errorf("failed to create run metrics: %w", err)
		}
		metrics = m
	}

	return &Runner{
		cfg:       cfg,
		logger:    logger,
		telemetry: telemetry,
		metrics:   metrics,
		console:   console,
		now:       time.Now,
	}, nil
}

// Run executes one transformation. Nothing is written when loading or
// transforming fails.
func (r *Runner) Run(ctx context.Context) (*RunResult, error) {
	runID := uuid.New().String()
	ctx = infrastructure.WithRunID(ctx, runID)
	started := r.now()

	r.logger.InfoContext(ctx, "Run starting",
		slog.String("version", config.AppVersion),
		slog.String("input", r.cfg.Input.Path),
		slog.Int("precision", r.cfg.Transform.Precision))

	inputPath, err := files.NewDiscovery("").ResolveInput(r.cfg.Input.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve input: %w", err)
	}
	fileValidator := validation.NewFileValidator(r.logger)
	if err := fileValidator.ValidateInputFile(inputPath); err != nil {
		return nil, err
	}
	if err := fileValidator.ValidateOutputDirectory(r.cfg.Output.Dir); err != nil {
		return nil, err
	}

	stageStart := r.now()
	loader := dataprocessing.NewLoader(dataprocessing.LoadOptions{
		Sheet:       r.cfg.Input.Sheet,
		MetaColumns: r.cfg.Input.MetaColumns,
	}, r.logger)
	raw, err := loader.ParseFile(ctx, inputPath)
	if err != nil {
		return nil, err
	}
	r.metrics.RecordStage(ctx, stageLoad, r.now().Sub(stageStart))

	tracker := NewProgressTracker(len(raw.Columns)*len(transform.Stages), r.logger)
	pipeline, err := transform.NewPipeline(transform.Options{
		Precision: r.cfg.Transform.Precision,
		Observer:  tracker,
	}, r.logger)
	if err != nil {
		return nil, err
	}
	result, err := pipeline.Run(ctx, raw)
	if err != nil {
		return nil, err
	}
	for _, stage := range transform.Stages {
		r.metrics.RecordStage(ctx, string(stage), result.Durations[stage])
	}

	stageStart = r.now()
	summary, err := r.buildReports(ctx, raw, result)
	if err != nil {
		return nil, err
	}
	r.metrics.RecordStage(ctx, stageReport, r.now().Sub(stageStart))

	tag, source := files.ExtractDateTag(inputPath, r.now())
	r.logger.DebugContext(ctx, "Date tag resolved",
		slog.String("tag", tag),
		slog.String("source", source))

	stageStart = r.now()
	out := exporter.OutputOptions{
		Dir:                 r.cfg.Output.Dir,
		BaseName:            files.OutputBaseName(r.cfg.Output.Prefix, tag),
		Format:              exporter.ResolveFormat(r.cfg.Output.Format, inputPath),
		IncludeStandardized: r.cfg.Output.IncludeStandardized,
		StandardizedSheet:   r.cfg.Output.StandardizedSheet,
		TransformedSheet:    r.cfg.Output.TransformedSheet,
	}
	written, err := exporter.NewExporter(r.logger).Export(ctx, out, exporter.Tables{
		Standardized: result.Standardized,
		Transformed:  result.Transformed,
	})
	if err != nil {
		return nil, err
	}
	r.metrics.RecordStage(ctx, stageWrite, r.now().Sub(stageStart))

	if err := summary.Render(r.console); err != nil {
		return nil, fmt.Errorf("failed to print validation report: %w", err)
	}

	r.metrics.RecordTable(ctx, summary.Standardized.Name, summary.Standardized.Cells,
		summary.Standardized.Inherited, summary.Standardized.Introduced)
	r.metrics.RecordTable(ctx, summary.Transformed.Name, summary.Transformed.Cells,
		summary.Transformed.Inherited, summary.Transformed.Introduced)
	r.metrics.RecordDegenerate(ctx, len(summary.Degenerate))
	r.metrics.RecordStage(ctx, stageTotal, r.now().Sub(started))

	// A run that produced its outputs is not failed by a metrics write error.
	if err := r.telemetry.WriteMetrics(); err != nil {
		r.logger.WarnContext(ctx, "Failed to write metrics", slog.String("error", err.Error()))
	}

	r.logger.InfoContext(ctx, "Run complete",
		slog.String("input", inputPath),
		slog.Any("files", written),
		slog.Int("blank_cells", summary.Transformed.Blank),
		slog.Duration("duration", r.now().Sub(started)))

	return &RunResult{
		RunID:      runID,
		InputPath:  inputPath,
		DateTag:    tag,
		DateSource: source,
		Files:      written,
		Summary:    summary,
		Transform:  result,
	}, nil
}

// buildReports compares both derived tables against the raw input
func (r *Runner) buildReports(ctx context.Context, raw *domain.BetaTable, result *transform.Result) (validation.Summary, error) {
	summary := validation.Summary{
		InputRows:    raw.Rows(),
		InputColumns: len(raw.MetaHeaders) + len(raw.Columns),
	}

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		report, err := validation.Compare(r.cfg.Output.StandardizedSheet, raw, result.Standardized)
		summary.Standardized = report
		return err
	})
	g.Go(func() error {
		report, err := validation.Compare(r.cfg.Output.TransformedSheet, raw, result.Transformed)
		summary.Transformed = report
		return err
	})
	if err := g.Wait(); err != nil {
		return validation.Summary{}, fmt.Errorf("failed to build validation report: %w", err)
	}

	for _, st := range result.Degenerate() {
		summary.Degenerate = append(summary.Degenerate, validation.DegenerateColumn{
			Name:   st.Name,
			Reason: st.Reason,
		})
	}

	if summary.Transformed.Introduced > 0 {
		r.logger.WarnContext(ctx, "Transformation introduced blank cells",
			slog.Int("introduced", summary.Transformed.Introduced),
			slog.Int("inherited", summary.Transformed.Inherited))
	}
	return summary, nil
}
