package weather

import (
	"context"

	"github.com/smilelifes/ai-weather-chat/internal/domain"
)

const (
	// MockDescription is the condition reported by MockClient.
	MockDescription = "clear sky"
	// MockTemperature is the temperature reported by MockClient.
	MockTemperature = 21.0
)

// MockClient is a mock implementation of WeatherClient that never leaves the process.
type MockClient struct{}

// NewMockClient creates a new mock weather client.
func NewMockClient() *MockClient {
	return &MockClient{}
}

// Ensure MockClient implements WeatherClient interface.
var _ WeatherClient = (*MockClient)(nil)

// Lookup returns a fixed clear-sky reading for any city.
func (m *MockClient) Lookup(ctx context.Context, city string) (*domain.WeatherInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &domain.WeatherInfo{
		City:        city,
		Weather:     MockDescription,
		Temperature: MockTemperature,
	}, nil
}
