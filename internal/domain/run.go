package domain

import (
	"encoding/json"
	"time"
)

// Run represents a single execution of the orchestration pipeline.
type Run struct {
	RunID     string          `json:"run_id"`
	Status    RunStatus       `json:"status"`
	UserInput string          `json:"user_input"`
	City      string          `json:"city,omitempty"`
	StartedAt time.Time       `json:"started_at"`
	EndedAt   *time.Time      `json:"ended_at,omitempty"`
	Error     json.RawMessage `json:"error,omitempty"`
}

// Event represents a trace event recorded while a run executes.
type Event struct {
	EventID string          `json:"event_id"`
	RunID   string          `json:"run_id"`
	Ts      int64           `json:"ts"` // Unix milliseconds
	Type    EventType       `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}
