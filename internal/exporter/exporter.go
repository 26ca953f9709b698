package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"betaxform/internal/config"
	apperrors "betaxform/internal/errors"
	"betaxform/pkg/contracts/domain"
)

// ResolveFormat turns the configured output format into xlsx or csv. The
// auto format follows the input file: csv and txt inputs produce csv files,
// everything else a workbook.
func ResolveFormat(format, inputPath string) string {
	switch strings.ToLower(format) {
	case config.FormatXLSX:
		return config.FormatXLSX
	case config.FormatCSV:
		return config.FormatCSV
	}
	switch strings.ToLower(filepath.Ext(inputPath)) {
	case ".csv", ".txt":
		return config.FormatCSV
	default:
		return config.FormatXLSX
	}
}

// OutputOptions describes where and how the derived tables are written
type OutputOptions struct {
	Dir                 string
	BaseName            string
	Format              string // xlsx or csv; see ResolveFormat
	IncludeStandardized bool
	StandardizedSheet   string
	TransformedSheet    string
}

// Tables are the derived tables of one run
type Tables struct {
	Standardized *domain.BetaTable
	Transformed  *domain.BetaTable
}

// Exporter writes the derived tables in the configured format
type Exporter struct {
	csv      *CSVWriter
	workbook *WorkbookWriter
	logger   *slog.Logger
}

// NewExporter creates an exporter
func NewExporter(logger *slog.Logger) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Exporter{
		csv:      NewCSVWriter(logger),
		workbook: NewWorkbookWriter(logger),
		logger:   logger.With(slog.String("component", "exporter")),
	}
}

// PlannedFiles returns the paths Export will write for opts
func PlannedFiles(opts OutputOptions) []string {
	base := filepath.Join(opts.Dir, opts.BaseName)
	if opts.Format == config.FormatCSV {
		var files []string
		if opts.IncludeStandardized {
			files = append(files, base+"_"+opts.StandardizedSheet+".csv")
		}
		return append(files, base+"_"+opts.TransformedSheet+".csv")
	}
	return []string{base + ".xlsx"}
}

// Export writes tables and returns the files it created
func (e *Exporter) Export(ctx context.Context, opts OutputOptions, tables Tables) ([]string, error) {
	files := PlannedFiles(opts)

	switch opts.Format {
	case config.FormatCSV:
		i := 0
		if opts.IncludeStandardized {
			if err := e.csv.WriteTable(files[i], tables.Standardized); err != nil {
				return nil, apperrors.NewStorageError("failed to write standardized betas", err).WithContext("path", files[i])
			}
			i++
		}
		if err := e.csv.WriteTable(files[i], tables.Transformed); err != nil {
			return nil, apperrors.NewStorageError("failed to write transformed betas", err).WithContext("path", files[i])
		}

	case config.FormatXLSX:
		var sheets []Sheet
		if opts.IncludeStandardized {
			sheets = append(sheets, Sheet{Name: opts.StandardizedSheet, Table: tables.Standardized})
		}
		sheets = append(sheets, Sheet{Name: opts.TransformedSheet, Table: tables.Transformed})
		if err := e.workbook.Write(files[0], sheets); err != nil {
			return nil, apperrors.NewStorageError("failed to write workbook", err).WithContext("path", files[0])
		}

	default:
		return nil, fmt.Errorf("%w: %s", apperrors.ErrUnsupportedFormat, opts.Format)
	}

	e.logger.InfoContext(ctx, "Outputs written",
		slog.String("format", opts.Format),
		slog.Any("files", files))
	return files, nil
}
