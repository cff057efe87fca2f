package llm

import (
	"log"
	"time"
)

const (
	// EnvMode is the environment variable name for mode selection.
	EnvMode = "WEATHERCHAT_MODE"
	// ModeMock indicates mock mode should be used.
	ModeMock = "MOCK"
)

// Options carries the connection settings of a real client.
type Options struct {
	// AzureURL, when set, selects an Azure OpenAI deployment and wins over BaseURL.
	AzureURL string
	BaseURL  string
	APIKey   string
	Model    string
	Timeout  time.Duration
}

// NewLLMClient creates an LLM client for the given mode.
// If mode is MOCK, returns a MockClient; otherwise returns a real Client.
func NewLLMClient(mode string, opts Options) LLMClient {
	if mode == ModeMock {
		log.Printf("%s=%s detected, using mock LLM client", EnvMode, ModeMock)
		return NewMockClient()
	}

	if opts.AzureURL != "" {
		return NewAzureClient(opts.AzureURL, opts.APIKey, opts.Timeout)
	}
	return NewClient(opts.BaseURL, opts.APIKey, opts.Model, opts.Timeout)
}
