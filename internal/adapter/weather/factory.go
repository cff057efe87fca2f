package weather

import (
	"log"
	"time"
)

// ModeMock indicates mock mode should be used.
const ModeMock = "MOCK"

// NewWeatherClient creates a weather client for the given mode.
// If mode is MOCK, returns a MockClient; otherwise returns a real Client.
func NewWeatherClient(mode, baseURL, apiKey string, timeout time.Duration) WeatherClient {
	if mode == ModeMock {
		log.Printf("mode=%s detected, using mock weather client", ModeMock)
		return NewMockClient()
	}
	return NewClient(baseURL, apiKey, timeout)
}
