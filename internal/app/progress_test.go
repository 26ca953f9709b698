package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"betaxform/internal/shared/testutil"
	"betaxform/internal/transform"
)

func TestProgressTracker_ColumnDone(t *testing.T) {
	logger, handler := testutil.NewTestLogger(t)
	tracker := NewProgressTracker(4, logger)

	assert.Equal(t, "calculating...", tracker.GetETA())
	assert.False(t, tracker.IsComplete())

	tracker.ColumnDone(transform.StageStandardize, "Market", 1, 2)
	tracker.ColumnDone(transform.StageStandardize, "SMB", 2, 2)

	current, total, percentage, message := tracker.GetProgress()
	assert.Equal(t, 2, current)
	assert.Equal(t, 4, total)
	assert.InDelta(t, 50.0, percentage, 1e-9)
	assert.Equal(t, "standardize SMB", message)
	assert.False(t, tracker.IsComplete())

	tracker.ColumnDone(transform.StageRank, "Market", 1, 2)
	tracker.ColumnDone(transform.StageRank, "SMB", 2, 2)
	assert.True(t, tracker.IsComplete())
	assert.Equal(t, "0 seconds", tracker.GetETA())

	assert.Equal(t, 4, handler.Count())
	testutil.AssertLogAttr(t, handler, "column", "SMB")
	testutil.AssertLogAttr(t, handler, "stage_progress", "2/2")
	testutil.AssertLogAttr(t, handler, "component", "progress")
}

func TestProgressTracker_ZeroTotal(t *testing.T) {
	tracker := NewProgressTracker(0, nil)

	_, _, percentage, _ := tracker.GetProgress()
	assert.Zero(t, percentage)
	assert.True(t, tracker.IsComplete())
	assert.Equal(t, "calculating...", tracker.GetETA())
}

func TestProgressTracker_ImplementsObserver(t *testing.T) {
	var _ transform.Observer = NewProgressTracker(1, nil)
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		name string
		d    time.Duration
		want string
	}{
		{"seconds", 12 * time.Second, "12 seconds"},
		{"minutes", 90 * time.Second, "1.5 minutes"},
		{"hours", 3 * time.Hour, "3.0 hours"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatDuration(tt.d))
		})
	}
}
