package domain

// RunStartedPayload is the payload for run_started event.
type RunStartedPayload struct {
	UserInput string `json:"user_input"`
}

// RunDonePayload is the payload for run_done event.
type RunDonePayload struct {
	City        string  `json:"city"`
	Weather     string  `json:"weather"`
	Temperature float64 `json:"temperature"`
	LatencyMs   int64   `json:"latency_ms"`
}

// RunFailedPayload is the payload for run_failed event.
type RunFailedPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// LLMCallStartedPayload is the payload for llm_call_started event.
type LLMCallStartedPayload struct {
	RequestID string `json:"request_id"`
	Stage     Stage  `json:"stage"`
	Model     string `json:"model,omitempty"`
}

// LLMCallDonePayload is the payload for llm_call_done event.
type LLMCallDonePayload struct {
	RequestID        string `json:"request_id"`
	Stage            Stage  `json:"stage"`
	Model            string `json:"model,omitempty"`
	LatencyMs        int64  `json:"latency_ms"`
	PromptTokens     int    `json:"prompt_tokens,omitempty"`
	CompletionTokens int    `json:"completion_tokens,omitempty"`
	TotalTokens      int    `json:"total_tokens,omitempty"`
	Error            string `json:"error,omitempty"`
}

// WeatherLookupStartedPayload is the payload for weather_lookup_started event.
type WeatherLookupStartedPayload struct {
	Stage Stage  `json:"stage"`
	City  string `json:"city"`
}

// WeatherLookupDonePayload is the payload for weather_lookup_done event.
type WeatherLookupDonePayload struct {
	Stage       Stage   `json:"stage"`
	City        string  `json:"city"`
	Weather     string  `json:"weather,omitempty"`
	Temperature float64 `json:"temperature"`
	LatencyMs   int64   `json:"latency_ms"`
	Error       string  `json:"error,omitempty"`
}

// StageFallbackPayload is the payload for stage_fallback event.
type StageFallbackPayload struct {
	Stage    Stage  `json:"stage"`
	Fallback string `json:"fallback"`
	Reason   string `json:"reason"`
}
