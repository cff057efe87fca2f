// Package service implements the weather orchestration pipeline.
package service

import (
	"github.com/smilelifes/ai-weather-chat/internal/adapter/llm"
	"github.com/smilelifes/ai-weather-chat/internal/adapter/weather"
	"github.com/smilelifes/ai-weather-chat/internal/config"
	"github.com/smilelifes/ai-weather-chat/internal/policy"
	"github.com/smilelifes/ai-weather-chat/internal/repository"
)

// Service runs weather queries against the language model and the weather provider.
type Service struct {
	store         repository.Store // nil disables run tracing
	llmClient     llm.LLMClient
	weatherClient weather.WeatherClient
	config        *config.Config
	policyEngine  *policy.Engine // nil admits every request
}

// New creates a Service. store and policyEngine may be nil.
func New(store repository.Store, llmClient llm.LLMClient, weatherClient weather.WeatherClient, cfg *config.Config, policyEngine *policy.Engine) *Service {
	return &Service{
		store:         store,
		llmClient:     llmClient,
		weatherClient: weatherClient,
		config:        cfg,
		policyEngine:  policyEngine,
	}
}

// TracingEnabled reports whether runs are recorded.
func (s *Service) TracingEnabled() bool {
	return s.store != nil
}

func (s *Service) defaultCity() string {
	if s.config != nil && s.config.DefaultCity != "" {
		return s.config.DefaultCity
	}
	return DefaultCity
}

func (s *Service) modelName() string {
	if s.config == nil {
		return ""
	}
	if s.config.AzureOpenAIURL != "" {
		return "azure-deployment"
	}
	return s.config.LLMModel
}
