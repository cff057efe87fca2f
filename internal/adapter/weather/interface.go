// Package weather provides clients for current-weather lookups by place name.
package weather

import (
	"context"

	"github.com/smilelifes/ai-weather-chat/internal/domain"
)

// WeatherClient defines the interface for weather lookups.
// Both the real OpenWeatherMap Client and MockClient implement this interface.
type WeatherClient interface {
	// Lookup returns the current weather for city.
	// A non-success provider status is reported as *domain.WeatherLookupError.
	Lookup(ctx context.Context, city string) (*domain.WeatherInfo, error)
}

// Ensure Client implements WeatherClient interface.
var _ WeatherClient = (*Client)(nil)
