// Package config provides configuration for the weather server and the chat client.
package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the weather server configuration.
type Config struct {
	// Server settings
	HTTPPort int

	// Mode selects upstream implementations; "MOCK" swaps in offline mocks.
	Mode string

	// Language model (Azure OpenAI wins when AzureOpenAIURL is set)
	AzureOpenAIURL    string
	AzureOpenAIAPIKey string
	LLMBaseURL        string
	LLMAPIKey         string
	LLMModel          string

	// Weather provider
	WeatherAPIURL string
	WeatherAPIKey string

	// Pipeline
	DefaultCity   string
	MaxInputRunes int

	// Trace database; empty disables tracing
	TraceDatabaseURL string

	// Timeouts
	LLMTimeout     time.Duration
	WeatherTimeout time.Duration
	RequestTimeout time.Duration

	// Logging
	LogLevel string
}

// Load loads configuration from an optional .env file and environment variables.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("INFO: no .env file found, relying on environment variables")
	}

	cfg := &Config{
		HTTPPort:          getEnvInt("HTTP_PORT", 8080),
		Mode:              getEnv("WEATHERCHAT_MODE", ""),
		AzureOpenAIURL:    getEnv("AZURE_OPENAI_API_URL", ""),
		AzureOpenAIAPIKey: getEnv("AZURE_OPENAI_API_KEY", ""),
		LLMBaseURL:        getEnv("LLM_BASE_URL", "https://api.openai.com"),
		LLMAPIKey:         getEnv("LLM_API_KEY", ""),
		LLMModel:          getEnv("LLM_MODEL", "gpt-4o-mini"),
		WeatherAPIURL:     getEnv("OPENWEATHERMAP_API_URL", "https://api.openweathermap.org/data/2.5/weather"),
		WeatherAPIKey:     getEnv("OPENWEATHERMAP_API_KEY", ""),
		DefaultCity:       getEnv("DEFAULT_CITY", "Magok-dong"),
		MaxInputRunes:     getEnvInt("MAX_INPUT_RUNES", 500),
		TraceDatabaseURL:  getEnv("TRACE_DATABASE_URL", ""),
		LLMTimeout:        time.Duration(getEnvInt("LLM_TIMEOUT_MS", 15000)) * time.Millisecond,
		WeatherTimeout:    time.Duration(getEnvInt("WEATHER_TIMEOUT_MS", 10000)) * time.Millisecond,
		RequestTimeout:    time.Duration(getEnvInt("REQUEST_TIMEOUT_MS", 30000)) * time.Millisecond,
		LogLevel:          getEnv("LOG_LEVEL", "info"),
	}
	return cfg
}

// LLMAPIKeyForMode returns the key matching the selected LLM endpoint.
func (c *Config) LLMAPIKeyForMode() string {
	if c.AzureOpenAIURL != "" {
		return c.AzureOpenAIAPIKey
	}
	return c.LLMAPIKey
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}
