// Package repository persists pipeline run traces.
package repository

import (
	"context"

	"github.com/smilelifes/ai-weather-chat/internal/domain"
)

// Store defines the interface for trace storage operations.
type Store interface {
	// Run operations
	CreateRun(ctx context.Context, run *domain.Run) error
	GetRun(ctx context.Context, runID string) (*domain.Run, error)
	ListRuns(ctx context.Context, status domain.RunStatus, limit int) ([]domain.Run, error)
	UpdateRunCity(ctx context.Context, runID string, city string) error
	UpdateRunCompleted(ctx context.Context, runID string, status domain.RunStatus, errData []byte) error

	// Event operations
	CreateEvent(ctx context.Context, event *domain.Event) error
	GetEvents(ctx context.Context, runID string, afterTs int64, types []string, limit int) ([]domain.Event, error)

	// Lifecycle
	Close() error
}

// Ensure SQLiteStore implements Store interface.
var _ Store = (*SQLiteStore)(nil)
