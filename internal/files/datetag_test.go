package files

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateFromName(t *testing.T) {
	tests := []struct {
		path string
		want string
		ok   bool
	}{
		{path: "raw_betas_20250331.xlsx", want: "2025_03_31", ok: true},
		{path: "/data/betas-2024-12-31.csv", want: "2024_12_31", ok: true},
		{path: "betas_2024_06_30.xlsx", want: "2024_06_30", ok: true},
		{path: "betas 03-31-2025.xlsx", want: "2025_03_31", ok: true},
		{path: "betas_09_30_2023.txt", want: "2023_09_30", ok: true},
		{path: "betas_20250230.xlsx"},
		{path: "betas_2025-13-01.xlsx"},
		{path: "raw_betas.xlsx"},
		{path: "betas_19991231.xlsx"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, ok := DateFromName(tt.path)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got.Format(DateTagLayout))
			}
		})
	}
}

func TestDateFromName_InvalidCompactFallsThrough(t *testing.T) {
	// 20251332 looks like YYYYMMDD but is not a date; the ISO form is used
	got, ok := DateFromName("run20251332_2025-01-15.xlsx")
	require.True(t, ok)
	assert.Equal(t, "2025_01_15", got.Format(DateTagLayout))
}

func TestExtractDateTag(t *testing.T) {
	now := time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)

	t.Run("from file name", func(t *testing.T) {
		tag, source := ExtractDateTag("raw_betas_20250331.xlsx", now)
		assert.Equal(t, "2025_03_31", tag)
		assert.Equal(t, TagFromName, source)
	})

	t.Run("from modification time", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "raw_betas.xlsx")
		require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
		modTime := time.Date(2024, 2, 29, 12, 0, 0, 0, time.Local)
		require.NoError(t, os.Chtimes(path, modTime, modTime))

		tag, source := ExtractDateTag(path, now)
		assert.Equal(t, "2024_02_29", tag)
		assert.Equal(t, TagFromModTime, source)
	})

	t.Run("today", func(t *testing.T) {
		tag, source := ExtractDateTag(filepath.Join(t.TempDir(), "missing.xlsx"), now)
		assert.Equal(t, "2026_10_17", tag)
		assert.Equal(t, TagFromToday, source)
	})
}

func TestOutputBaseName(t *testing.T) {
	assert.Equal(t, "transformed_factor_betas_2025_03_31", OutputBaseName("transformed_factor_betas", "2025_03_31"))
}
