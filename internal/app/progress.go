package app

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"betaxform/internal/transform"
)

// ProgressTracker counts completed columns across all pipeline stages and
// logs each one with an ETA. It implements transform.Observer.
type ProgressTracker struct {
	Total     int
	Current   int
	StartTime time.Time
	Message   string
	mu        sync.Mutex
	logger    *slog.Logger
}

// NewProgressTracker creates a new progress tracker expecting total column
// completions
func NewProgressTracker(total int, logger *slog.Logger) *ProgressTracker {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProgressTracker{
		Total:     total,
		StartTime: time.Now(),
		logger:    logger.With(slog.String("component", "progress")),
	}
}

// ColumnDone records one finished column
func (p *ProgressTracker) ColumnDone(stage transform.Stage, column string, done, total int) {
	p.Increment(fmt.Sprintf("%s %s", stage, column))
	current, all, percentage, _ := p.GetProgress()

	p.logger.Info("Column processed",
		slog.String("stage", string(stage)),
		slog.String("column", column),
		slog.String("stage_progress", fmt.Sprintf("%d/%d", done, total)),
		slog.Int("current", current),
		slog.Int("total", all),
		slog.Float64("percentage", percentage),
		slog.String("eta", p.GetETA()))
}

// Increment increments the current progress by 1
func (p *ProgressTracker) Increment(message string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.Current++
	p.Message = message
}

// GetProgress returns the current progress state
func (p *ProgressTracker) GetProgress() (current, total int, percentage float64, message string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.Total > 0 {
		percentage = float64(p.Current) / float64(p.Total) * 100
	}
	return p.Current, p.Total, percentage, p.Message
}

// GetETA estimates the time remaining from the average rate so far
func (p *ProgressTracker) GetETA() string {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.Current == 0 || p.Total == 0 {
		return "calculating..."
	}
	if p.Current >= p.Total {
		return "0 seconds"
	}

	elapsed := time.Since(p.StartTime)
	rate := float64(p.Current) / elapsed.Seconds()
	if rate == 0 {
		return "calculating..."
	}

	return formatDuration(time.Duration(float64(p.Total-p.Current) / rate * float64(time.Second)))
}

// IsComplete returns true once every expected column has been reported
func (p *ProgressTracker) IsComplete() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.Current >= p.Total
}

func formatDuration(d time.Duration) string {
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%.0f seconds", d.Seconds())
	case d < time.Hour:
		return fmt.Sprintf("%.1f minutes", d.Minutes())
	default:
		return fmt.Sprintf("%.1f hours", d.Hours())
	}
}
