package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/smilelifes/ai-weather-chat/internal/adapter/llm"
	"github.com/smilelifes/ai-weather-chat/internal/domain"
	"github.com/smilelifes/ai-weather-chat/internal/policy"
)

// Run failure codes stored on failed runs.
const (
	codeWeatherLookupFailed = "weather_lookup_failed"
	codeInternalError       = "internal_error"
)

// HandleWeatherQuery resolves userInput to a place, looks up its weather and
// phrases a reply. Only the weather stage can fail the request.
func (s *Service) HandleWeatherQuery(ctx context.Context, userInput string) (*domain.PipelineResult, error) {
	_, result, err := s.ExecuteWeatherQuery(ctx, userInput)
	return result, err
}

// ExecuteWeatherQuery is HandleWeatherQuery that also returns the trace run ID,
// which is empty when tracing is disabled.
func (s *Service) ExecuteWeatherQuery(ctx context.Context, userInput string) (string, *domain.PipelineResult, error) {
	userInput = strings.TrimSpace(userInput)
	if err := s.admit(ctx, userInput); err != nil {
		return "", nil, err
	}

	if s.config != nil && s.config.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.RequestTimeout)
		defer cancel()
	}

	startTime := time.Now()
	runID := s.startRun(ctx, userInput)

	city := s.extractCity(ctx, runID, userInput)
	s.setRunCity(ctx, runID, city)

	info, err := s.getWeatherInfo(ctx, runID, city)
	if err != nil {
		code := codeInternalError
		var lookupErr *domain.WeatherLookupError
		if errors.As(err, &lookupErr) {
			code = codeWeatherLookupFailed
		}
		failure := &domain.RunFailedPayload{Code: code, Message: err.Error()}
		s.trace(ctx, runID, domain.EventTypeRunFailed, failure)
		s.finishRun(ctx, runID, domain.RunStatusFailed, failure)
		return runID, nil, err
	}

	response := s.generateWeatherResponse(ctx, runID, info.City, info.Weather, info.Temperature, userInput)

	result := &domain.PipelineResult{
		City:        info.City,
		Weather:     info.Weather,
		Temperature: info.Temperature,
		Response:    response,
	}

	s.trace(ctx, runID, domain.EventTypeRunDone, domain.RunDonePayload{
		City:        result.City,
		Weather:     result.Weather,
		Temperature: result.Temperature,
		LatencyMs:   time.Since(startTime).Milliseconds(),
	})
	s.finishRun(ctx, runID, domain.RunStatusDone, nil)

	return runID, result, nil
}

// admit rejects empty input and input blocked by the request policy.
func (s *Service) admit(ctx context.Context, userInput string) error {
	if userInput == "" {
		return &domain.ValidationError{Message: "Missing user_input"}
	}
	if s.policyEngine == nil {
		return nil
	}

	maxRunes := 0
	if s.config != nil {
		maxRunes = s.config.MaxInputRunes
	}
	decision, reason, err := s.policyEngine.Evaluate(ctx, policy.NewInput(userInput, maxRunes))
	if err != nil {
		return fmt.Errorf("policy evaluation failed: %w", err)
	}
	if decision == policy.DecisionBlock {
		if reason == "" {
			reason = "request blocked by policy"
		}
		return &domain.ValidationError{Message: reason}
	}
	return nil
}

// ExtractCity asks the language model for the place named in userInput.
// It never fails: unusable answers fall back to the default city.
func (s *Service) ExtractCity(ctx context.Context, userInput string) string {
	return s.extractCity(ctx, "", userInput)
}

func (s *Service) extractCity(ctx context.Context, runID, userInput string) string {
	fallback := s.defaultCity()

	resp, err := s.complete(ctx, runID, domain.StageExtractCity, &llm.ChatCompletionRequest{
		Messages: []llm.ChatMessage{
			{Role: "system", Content: extractSystemPrompt(fallback)},
			{Role: "user", Content: userInput},
		},
		Temperature: llm.Float64(samplingTemp),
		TopP:        llm.Float64(samplingTopP),
		MaxTokens:   llm.Int(extractMaxTokens),
	})
	if err != nil {
		s.fallback(ctx, runID, domain.StageExtractCity, fallback, err.Error())
		return fallback
	}

	city := CleanCity(resp.Content())
	if city == "" {
		s.fallback(ctx, runID, domain.StageExtractCity, fallback, "empty completion")
		return fallback
	}
	return city
}

// CleanCity trims text and removes every square bracket from it.
func CleanCity(text string) string {
	text = strings.TrimSpace(text)
	text = strings.NewReplacer("[", "", "]", "").Replace(text)
	return strings.TrimSpace(text)
}

// GetWeatherInfo looks up the current weather for city.
// A non-success provider status is returned as *domain.WeatherLookupError.
func (s *Service) GetWeatherInfo(ctx context.Context, city string) (*domain.WeatherInfo, error) {
	return s.getWeatherInfo(ctx, "", city)
}

func (s *Service) getWeatherInfo(ctx context.Context, runID, city string) (*domain.WeatherInfo, error) {
	s.trace(ctx, runID, domain.EventTypeWeatherLookupStarted, domain.WeatherLookupStartedPayload{Stage: domain.StageWeather, City: city})

	if s.config != nil && s.config.WeatherTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.WeatherTimeout)
		defer cancel()
	}

	startTime := time.Now()
	info, err := s.weatherClient.Lookup(ctx, city)
	latency := time.Since(startTime).Milliseconds()
	if err != nil {
		log.Printf("ERROR: weather lookup for %q failed: %v", city, err)
		s.trace(ctx, runID, domain.EventTypeWeatherLookupDone, domain.WeatherLookupDonePayload{
			Stage:     domain.StageWeather,
			City:      city,
			LatencyMs: latency,
			Error:     err.Error(),
		})
		var lookupErr *domain.WeatherLookupError
		if errors.As(err, &lookupErr) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get weather info: %w", err)
	}

	// The result names the place as the pipeline resolved it.
	info.City = city

	s.trace(ctx, runID, domain.EventTypeWeatherLookupDone, domain.WeatherLookupDonePayload{
		Stage:       domain.StageWeather,
		City:        city,
		Weather:     info.Weather,
		Temperature: info.Temperature,
		LatencyMs:   latency,
	})
	return info, nil
}

// GenerateWeatherResponse asks the language model to phrase a reply in the user's language.
// It never fails: unusable answers fall back to FallbackResponse.
func (s *Service) GenerateWeatherResponse(ctx context.Context, city, weatherDesc string, temperature float64, userInput string) string {
	return s.generateWeatherResponse(ctx, "", city, weatherDesc, temperature, userInput)
}

func (s *Service) generateWeatherResponse(ctx context.Context, runID, city, weatherDesc string, temperature float64, userInput string) string {
	resp, err := s.complete(ctx, runID, domain.StageGenerate, &llm.ChatCompletionRequest{
		Messages: []llm.ChatMessage{
			{Role: "system", Content: generateSystemPrompt},
			{Role: "user", Content: generateUserPrompt(userInput, city, weatherDesc, temperature)},
		},
		Temperature: llm.Float64(samplingTemp),
		TopP:        llm.Float64(samplingTopP),
		MaxTokens:   llm.Int(generateMaxTokens),
	})
	if err != nil {
		s.fallback(ctx, runID, domain.StageGenerate, FallbackResponse, err.Error())
		return FallbackResponse
	}

	text := resp.Content()
	if text == "" {
		s.fallback(ctx, runID, domain.StageGenerate, FallbackResponse, "empty completion")
		return FallbackResponse
	}
	return text
}

// complete runs one traced chat completion bounded by the LLM timeout.
func (s *Service) complete(ctx context.Context, runID string, stage domain.Stage, req *llm.ChatCompletionRequest) (*llm.ChatCompletionResponse, error) {
	requestID := "llm_" + uuid.New().String()[:8]
	model := s.modelName()

	s.trace(ctx, runID, domain.EventTypeLLMCallStarted, domain.LLMCallStartedPayload{
		RequestID: requestID,
		Stage:     stage,
		Model:     model,
	})

	if s.config != nil && s.config.LLMTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.LLMTimeout)
		defer cancel()
	}

	startTime := time.Now()
	resp, err := s.llmClient.CreateChatCompletion(ctx, req)

	done := domain.LLMCallDonePayload{
		RequestID: requestID,
		Stage:     stage,
		Model:     model,
		LatencyMs: time.Since(startTime).Milliseconds(),
	}
	if err != nil {
		done.Error = err.Error()
	} else if resp.Usage != nil {
		done.PromptTokens = resp.Usage.PromptTokens
		done.CompletionTokens = resp.Usage.CompletionTokens
		done.TotalTokens = resp.Usage.TotalTokens
	}
	s.trace(ctx, runID, domain.EventTypeLLMCallDone, done)

	return resp, err
}

// fallback logs and traces the substitution of a stage's fallback value.
func (s *Service) fallback(ctx context.Context, runID string, stage domain.Stage, value, reason string) {
	log.Printf("WARN: %s unusable (%s), falling back to %q", stage, reason, value)
	s.trace(ctx, runID, domain.EventTypeStageFallback, domain.StageFallbackPayload{
		Stage:    stage,
		Fallback: value,
		Reason:   reason,
	})
}
