package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/smilelifes/ai-weather-chat/internal/domain"
)

// recordEvent records an event to the store.
func (s *Service) recordEvent(ctx context.Context, runID string, eventType domain.EventType, payload interface{}) error {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	event := &domain.Event{
		EventID: "evt_" + uuid.New().String()[:8],
		RunID:   runID,
		Ts:      time.Now().UnixMilli(),
		Type:    eventType,
		Payload: payloadBytes,
	}

	return s.store.CreateEvent(ctx, event)
}

// trace records an event for runID when tracing is on. Failures are logged, never returned.
func (s *Service) trace(ctx context.Context, runID string, eventType domain.EventType, payload interface{}) {
	if s.store == nil || runID == "" {
		return
	}
	if err := s.recordEvent(context.WithoutCancel(ctx), runID, eventType, payload); err != nil {
		log.Printf("WARN: failed to record %s event for run %s: %v", eventType, runID, err)
	}
}

// startRun creates a trace run and returns its ID, or "" when tracing is off or fails.
func (s *Service) startRun(ctx context.Context, userInput string) string {
	if s.store == nil {
		return ""
	}
	run := &domain.Run{
		RunID:     "run_" + uuid.New().String()[:8],
		Status:    domain.RunStatusRunning,
		UserInput: userInput,
		StartedAt: time.Now(),
	}
	if err := s.store.CreateRun(context.WithoutCancel(ctx), run); err != nil {
		log.Printf("WARN: failed to create run: %v", err)
		return ""
	}
	s.trace(ctx, run.RunID, domain.EventTypeRunStarted, domain.RunStartedPayload{UserInput: userInput})
	return run.RunID
}

func (s *Service) setRunCity(ctx context.Context, runID, city string) {
	if s.store == nil || runID == "" {
		return
	}
	if err := s.store.UpdateRunCity(context.WithoutCancel(ctx), runID, city); err != nil {
		log.Printf("WARN: failed to update city for run %s: %v", runID, err)
	}
}

func (s *Service) finishRun(ctx context.Context, runID string, status domain.RunStatus, errPayload *domain.RunFailedPayload) {
	if s.store == nil || runID == "" {
		return
	}
	var errData []byte
	if errPayload != nil {
		errData, _ = json.Marshal(errPayload)
	}
	if err := s.store.UpdateRunCompleted(context.WithoutCancel(ctx), runID, status, errData); err != nil {
		log.Printf("WARN: failed to complete run %s: %v", runID, err)
	}
}
