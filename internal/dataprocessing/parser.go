package dataprocessing

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"

	apperrors "betaxform/internal/errors"
	"betaxform/pkg/contracts/domain"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Input file kinds
const (
	KindWorkbook = "workbook"
	KindCSV      = "csv"
)

// FileKind returns the loader kind for a path based on its extension, or ""
// when the extension is not supported.
func FileKind(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return KindWorkbook
	case ".csv", ".txt":
		return KindCSV
	default:
		return ""
	}
}

// LoadOptions controls how an input sheet is read
type LoadOptions struct {
	// Sheet is the workbook sheet to read; empty means the first sheet.
	// Ignored for CSV input.
	Sheet string
	// MetaColumns is the number of leading non-numeric columns
	MetaColumns int
}

// Loader reads raw beta tables from workbooks and CSV files
type Loader struct {
	opts   LoadOptions
	logger *slog.Logger
}

// NewLoader creates a loader. A MetaColumns value below 1 falls back to
// domain.DefaultMetaColumns.
func NewLoader(opts LoadOptions, logger *slog.Logger) *Loader {
	if opts.MetaColumns < 1 {
		opts.MetaColumns = domain.DefaultMetaColumns
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		opts:   opts,
		logger: logger.With(slog.String("component", "loader")),
	}
}

// ParseFile loads the beta table in path, choosing the reader from the file
// extension.
func (l *Loader) ParseFile(ctx context.Context, path string) (*domain.BetaTable, error) {
	var (
		table *domain.BetaTable
		err   error
	)
	switch FileKind(path) {
	case KindWorkbook:
		table, err = l.ParseWorkbook(ctx, path)
	case KindCSV:
		table, err = l.ParseCSV(ctx, path)
	default:
		return nil, fmt.Errorf("%w: %s", apperrors.ErrUnsupportedFormat, filepath.Ext(path))
	}
	if err != nil {
		return nil, err
	}

	l.logger.InfoContext(ctx, "Loaded raw betas",
		slog.String("file", filepath.Base(path)),
		slog.Int("rows", table.Rows()),
		slog.Int("beta_columns", len(table.Columns)),
		slog.Int("blank_cells", table.MissingCount()))
	return table, nil
}

// ParseWorkbook reads the configured sheet of an xlsx/xlsm workbook
func (l *Loader) ParseWorkbook(ctx context.Context, path string) (*domain.BetaTable, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to open workbook", err).WithContext("path", path)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	sheet := l.opts.Sheet
	if sheet == "" {
		if len(sheets) == 0 {
			return nil, fmt.Errorf("%w: workbook has no sheets", apperrors.ErrSheetNotFound)
		}
		sheet = sheets[0]
	}
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, fmt.Errorf("%w: %q (available: %s)", apperrors.ErrSheetNotFound, sheet, strings.Join(sheets, ", "))
	}

	// raw values keep full precision instead of the cell's display format
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, apperrors.NewParsingError("failed to read sheet", err).WithContext("sheet", sheet)
	}

	l.logger.DebugContext(ctx, "Read workbook sheet",
		slog.String("sheet", sheet),
		slog.Int("sheet_rows", len(rows)))

	return buildTable(rows, l.opts.MetaColumns)
}

// ParseCSV reads a comma separated file. A UTF-8 byte order mark is
// stripped; content that is not valid UTF-8 is decoded as Latin-1.
func (l *Loader) ParseCSV(ctx context.Context, path string) (*domain.BetaTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to read file", err).WithContext("path", path)
	}

	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
		if err != nil {
			return nil, apperrors.NewParsingError("failed to decode file", err).WithContext("path", path)
		}
		l.logger.WarnContext(ctx, "File decoded using latin-1 encoding; verify characters are correct",
			slog.String("file", filepath.Base(path)))
		data = decoded
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, apperrors.NewParsingError("failed to parse csv", err).WithContext("path", path)
	}

	return buildTable(rows, l.opts.MetaColumns)
}
