package domain

// PipelineRequest is the body of POST /api/weather.
type PipelineRequest struct {
	UserInput string `json:"user_input"`
}

// PipelineResult is the success body of POST /api/weather.
type PipelineResult struct {
	City        string  `json:"city"`
	Weather     string  `json:"weather"`
	Temperature float64 `json:"temperature"`
	Response    string  `json:"response"`
}

// ErrorResponse is the failure body of POST /api/weather.
type ErrorResponse struct {
	Error string `json:"error"`
}

// WeatherInfo is the normalized reading returned by a weather lookup.
type WeatherInfo struct {
	City        string
	Weather     string
	Temperature float64 // Celsius
}

// WeatherMeta is attached to assistant messages produced by a successful pipeline run.
type WeatherMeta struct {
	City        string  `json:"city"`
	Weather     string  `json:"weather"`
	Temperature float64 `json:"temperature"`
}

// Meta returns the message metadata carried by a successful result.
func (r *PipelineResult) Meta() *WeatherMeta {
	return &WeatherMeta{
		City:        r.City,
		Weather:     r.Weather,
		Temperature: r.Temperature,
	}
}
