package domain

// Message is one entry of a conversation transcript.
type Message struct {
	ID      string       `json:"id"`
	Role    Role         `json:"role"`
	Content string       `json:"content"`
	Meta    *WeatherMeta `json:"meta,omitempty"`
}
