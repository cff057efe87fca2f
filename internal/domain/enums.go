// Package domain defines the core domain models shared by the weather server and the chat client.
package domain

// RunStatus represents the status of a pipeline run.
type RunStatus string

const (
	RunStatusRunning RunStatus = "RUNNING"
	RunStatusDone    RunStatus = "DONE"
	RunStatusFailed  RunStatus = "FAILED"
)

// EventType represents the type of a trace event.
type EventType string

const (
	EventTypeRunStarted EventType = "run_started"
	EventTypeRunDone    EventType = "run_done"
	EventTypeRunFailed  EventType = "run_failed"

	// LLM call events
	EventTypeLLMCallStarted EventType = "llm_call_started"
	EventTypeLLMCallDone    EventType = "llm_call_done"

	// Weather lookup events
	EventTypeWeatherLookupStarted EventType = "weather_lookup_started"
	EventTypeWeatherLookupDone    EventType = "weather_lookup_done"

	// A best-effort stage produced nothing usable and its fallback was substituted.
	EventTypeStageFallback EventType = "stage_fallback"
)

// Stage names a step of the orchestration pipeline.
type Stage string

const (
	StageExtractCity Stage = "extract_city"
	StageWeather     Stage = "get_weather_info"
	StageGenerate    Stage = "generate_response"
)

// Role is the author of a chat message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)
