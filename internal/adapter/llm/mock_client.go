package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// MockCity is the location the mock client extracts from every input.
const MockCity = "Seoul"

// MockClient answers weather prompts without a network call, for offline runs and tests.
// Extraction prompts get MockCity; generation prompts get a reply built from the
// City, Weather and Temperature lines of the prompt.
type MockClient struct{}

// NewMockClient creates a new mock LLM client.
func NewMockClient() *MockClient {
	return &MockClient{}
}

// Ensure MockClient implements LLMClient interface.
var _ LLMClient = (*MockClient)(nil)

// CreateChatCompletion returns a canned completion.
func (m *MockClient) CreateChatCompletion(ctx context.Context, req *ChatCompletionRequest) (*ChatCompletionResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return &ChatCompletionResponse{
		ID:     "mock-" + uuid.New().String()[:8],
		Object: "chat.completion",
		Model:  req.Model,
		Choices: []Choice{{
			Message:      &ChatMessage{Role: "assistant", Content: mockReply(req.Messages)},
			FinishReason: "stop",
		}},
	}, nil
}

func mockReply(messages []ChatMessage) string {
	var system, user string
	for _, msg := range messages {
		switch msg.Role {
		case "system":
			system = msg.Content
		case "user":
			user = msg.Content
		}
	}

	if strings.Contains(system, "Extract the location") {
		return MockCity
	}

	fields := promptFields(user)
	city, ok := fields["City"]
	if !ok {
		return fmt.Sprintf("[MOCK] %s", user)
	}
	return fmt.Sprintf("[MOCK] %s: %s, %s", city, fields["Weather"], fields["Temperature"])
}

// promptFields collects "Key: value" lines of a prompt.
func promptFields(prompt string) map[string]string {
	fields := make(map[string]string)
	for _, line := range strings.Split(prompt, "\n") {
		key, value, ok := strings.Cut(line, ": ")
		if ok && !strings.Contains(key, " ") {
			fields[key] = strings.TrimSpace(value)
		}
	}
	return fields
}
