package exporter

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"betaxform/internal/config"
	apperrors "betaxform/internal/errors"
)

func TestResolveFormat(t *testing.T) {
	tests := []struct {
		format string
		input  string
		want   string
	}{
		{config.FormatAuto, "raw_betas.xlsx", config.FormatXLSX},
		{config.FormatAuto, "raw_betas.XLSM", config.FormatXLSX},
		{config.FormatAuto, "raw_betas.csv", config.FormatCSV},
		{config.FormatAuto, "raw_betas.txt", config.FormatCSV},
		{"", "raw_betas.csv", config.FormatCSV},
		{"XLSX", "raw_betas.csv", config.FormatXLSX},
		{config.FormatCSV, "raw_betas.xlsx", config.FormatCSV},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ResolveFormat(tt.format, tt.input), "%s / %s", tt.format, tt.input)
	}
}

func outputOptions(dir, format string, includeStandardized bool) OutputOptions {
	return OutputOptions{
		Dir:                 dir,
		BaseName:            "transformed_factor_betas_2025_03_31",
		Format:              format,
		IncludeStandardized: includeStandardized,
		StandardizedSheet:   config.StandardizedSheetName,
		TransformedSheet:    config.TransformedSheetName,
	}
}

func TestExporter_Export(t *testing.T) {
	tables := Tables{Standardized: sampleTable(), Transformed: sampleTable()}

	tests := []struct {
		name                string
		format              string
		includeStandardized bool
		wantFiles           []string
	}{
		{
			name:                "workbook with both sheets",
			format:              config.FormatXLSX,
			includeStandardized: true,
			wantFiles:           []string{"transformed_factor_betas_2025_03_31.xlsx"},
		},
		{
			name:                "csv pair",
			format:              config.FormatCSV,
			includeStandardized: true,
			wantFiles: []string{
				"transformed_factor_betas_2025_03_31_StandardizedBetas.csv",
				"transformed_factor_betas_2025_03_31_TransformedBetas.csv",
			},
		},
		{
			name:      "csv transformed only",
			format:    config.FormatCSV,
			wantFiles: []string{"transformed_factor_betas_2025_03_31_TransformedBetas.csv"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			files, err := NewExporter(nil).Export(context.Background(), outputOptions(dir, tt.format, tt.includeStandardized), tables)
			require.NoError(t, err)

			require.Len(t, files, len(tt.wantFiles))
			for i, name := range tt.wantFiles {
				assert.Equal(t, filepath.Join(dir, name), files[i])
				_, err := os.Stat(files[i])
				assert.NoError(t, err)
			}

			entries, err := os.ReadDir(dir)
			require.NoError(t, err)
			assert.Len(t, entries, len(tt.wantFiles))
		})
	}
}

func TestExporter_TransformedOnlyWorkbook(t *testing.T) {
	dir := t.TempDir()
	tables := Tables{Standardized: sampleTable(), Transformed: sampleTable()}

	files, err := NewExporter(nil).Export(context.Background(), outputOptions(dir, config.FormatXLSX, false), tables)
	require.NoError(t, err)

	f, err := excelize.OpenFile(files[0])
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"TransformedBetas"}, f.GetSheetList())
}

func TestExporter_UnknownFormat(t *testing.T) {
	_, err := NewExporter(nil).Export(context.Background(), outputOptions(t.TempDir(), "parquet", false), Tables{})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrUnsupportedFormat)
}
