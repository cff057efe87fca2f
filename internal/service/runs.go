package service

import (
	"context"
	"errors"
	"strings"

	"github.com/smilelifes/ai-weather-chat/internal/domain"
)

// ErrTracingDisabled is returned by run queries when no trace store is configured.
var ErrTracingDisabled = errors.New("run tracing is disabled")

// GetRun returns a traced run, or nil when it does not exist.
func (s *Service) GetRun(ctx context.Context, runID string) (*domain.Run, error) {
	if s.store == nil {
		return nil, ErrTracingDisabled
	}
	return s.store.GetRun(ctx, runID)
}

// ListRuns returns recent runs, newest first. status filters when non-empty.
func (s *Service) ListRuns(ctx context.Context, status string, limit int) ([]domain.Run, error) {
	if s.store == nil {
		return nil, ErrTracingDisabled
	}
	return s.store.ListRuns(ctx, domain.RunStatus(strings.ToUpper(status)), limit)
}

// GetRunEvents returns the events of a run after afterTs, optionally filtered by type.
func (s *Service) GetRunEvents(ctx context.Context, runID string, afterTs int64, types string, limit int) ([]domain.Event, error) {
	if s.store == nil {
		return nil, ErrTracingDisabled
	}

	var typeList []string
	if types != "" {
		for _, t := range strings.Split(types, ",") {
			if t = strings.TrimSpace(t); t != "" {
				typeList = append(typeList, t)
			}
		}
	}

	events, err := s.store.GetEvents(ctx, runID, afterTs, typeList, limit)
	if err != nil {
		return nil, err
	}
	if events == nil {
		events = []domain.Event{}
	}
	return events, nil
}
