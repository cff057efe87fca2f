package domain

import "fmt"

// ValidationError is returned when a request is rejected before any upstream call.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// WeatherLookupError is returned when the weather provider answers with a non-success status.
type WeatherLookupError struct {
	StatusCode int
	Status     string
}

func (e *WeatherLookupError) Error() string {
	return fmt.Sprintf("Weather API error: %s", e.Status)
}
