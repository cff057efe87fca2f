package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestClientCreateChatCompletion(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Fatalf("unexpected method: %s", r.Method)
		}
		var req ChatCompletionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Model != "gpt" {
			t.Fatalf("expected default model to be filled in, got %q", req.Model)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"c1","object":"chat.completion","created":1,"model":"gpt","choices":[{"index":0,"message":{"role":"assistant","content":"  hi  "},"finish_reason":"stop"}],"usage":{"prompt_tokens":1,"completion_tokens":2,"total_tokens":3}}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, "", "gpt", time.Second)
	resp, err := client.CreateChatCompletion(context.Background(), &ChatCompletionRequest{
		Messages: []ChatMessage{
			{Role: "user", Content: "hello"},
		},
	})
	if err != nil {
		t.Fatalf("CreateChatCompletion failed: %v", err)
	}
	if resp.Model != "gpt" || len(resp.Choices) != 1 {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if resp.Content() != "hi" {
		t.Fatalf("expected trimmed content, got %q", resp.Content())
	}
}

func TestClientCreateChatCompletionError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"error":{"message":"bad","type":"invalid_request_error"}}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, "", "gpt", time.Second)
	_, err := client.CreateChatCompletion(context.Background(), &ChatCompletionRequest{
		Messages: []ChatMessage{{Role: "user", Content: "hello"}},
	})
	if err == nil {
		t.Fatalf("expected error")
	}
}

func TestClientSetHeaders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Fatalf("unexpected Authorization header: %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"choices":[]}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, "secret", "gpt", time.Second)
	if _, err := client.CreateChatCompletion(context.Background(), &ChatCompletionRequest{}); err != nil {
		t.Fatalf("CreateChatCompletion failed: %v", err)
	}
}

func TestAzureClientUsesEndpointAndAPIKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/openai/deployments/gpt/chat/completions" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("api-version"); got != "2024-02-01" {
			t.Fatalf("unexpected api-version: %q", got)
		}
		if got := r.Header.Get("api-key"); got != "azure-key" {
			t.Fatalf("unexpected api-key header: %q", got)
		}
		if got := r.Header.Get("Authorization"); got != "" {
			t.Fatalf("unexpected Authorization header: %q", got)
		}
		var raw map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if _, ok := raw["model"]; ok {
			t.Fatalf("azure requests must not carry a model field")
		}
		if raw["top_p"] != 0.95 || raw["max_tokens"] != float64(50) {
			t.Fatalf("unexpected sampling params: %+v", raw)
		}
		fmt.Fprint(w, `{"choices":[{"index":0,"message":{"role":"assistant","content":"Seoul"}}]}`)
	}))
	defer server.Close()

	client := NewAzureClient(server.URL+"/openai/deployments/gpt/chat/completions?api-version=2024-02-01", "azure-key", time.Second)
	resp, err := client.CreateChatCompletion(context.Background(), &ChatCompletionRequest{
		Messages:    []ChatMessage{{Role: "user", Content: "서울 날씨"}},
		Temperature: Float64(0.7),
		TopP:        Float64(0.95),
		MaxTokens:   Int(50),
	})
	if err != nil {
		t.Fatalf("CreateChatCompletion failed: %v", err)
	}
	if resp.Content() != "Seoul" {
		t.Fatalf("unexpected content: %q", resp.Content())
	}
}

func TestContentWithoutChoices(t *testing.T) {
	var nilResp *ChatCompletionResponse
	if nilResp.Content() != "" {
		t.Fatalf("expected empty content for nil response")
	}
	resp := &ChatCompletionResponse{Choices: []Choice{{Index: 0}}}
	if resp.Content() != "" {
		t.Fatalf("expected empty content for choice without message")
	}
}

func TestMockClientExtractsCity(t *testing.T) {
	client := NewMockClient()
	resp, err := client.CreateChatCompletion(context.Background(), &ChatCompletionRequest{
		Messages: []ChatMessage{
			{Role: "system", Content: "Extract the location (city/town) in English."},
			{Role: "user", Content: "부산 날씨 어때?"},
		},
	})
	if err != nil {
		t.Fatalf("CreateChatCompletion failed: %v", err)
	}
	if resp.Content() != MockCity {
		t.Fatalf("expected %q, got %q", MockCity, resp.Content())
	}
}

func TestMockClientGeneratesFromPrompt(t *testing.T) {
	client := NewMockClient()
	resp, err := client.CreateChatCompletion(context.Background(), &ChatCompletionRequest{
		Messages: []ChatMessage{
			{Role: "system", Content: "You are a helpful weather assistant."},
			{Role: "user", Content: "User input: \"서울\"\nCity: Seoul\nWeather: clear sky\nTemperature: 22.5°C\n"},
		},
	})
	if err != nil {
		t.Fatalf("CreateChatCompletion failed: %v", err)
	}
	if got := resp.Content(); got != "[MOCK] Seoul: clear sky, 22.5°C" {
		t.Fatalf("unexpected mock reply %q", got)
	}
}

func TestMockClientHonorsCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewMockClient().CreateChatCompletion(ctx, &ChatCompletionRequest{}); err == nil {
		t.Fatalf("expected error for canceled context")
	}
}

func TestNewLLMClientMode(t *testing.T) {
	if _, ok := NewLLMClient(ModeMock, Options{}).(*MockClient); !ok {
		t.Fatalf("expected mock client in MOCK mode")
	}
	c, ok := NewLLMClient("", Options{AzureURL: "http://azure/chat", BaseURL: "http://openai"}).(*Client)
	if !ok {
		t.Fatalf("expected real client")
	}
	if c.authMode != AuthAzure || c.chatURL != "http://azure/chat" {
		t.Fatalf("expected azure client, got %+v", c)
	}
	c = NewLLMClient("", Options{BaseURL: "http://openai/"}).(*Client)
	if c.chatURL != "http://openai/v1/chat/completions" {
		t.Fatalf("unexpected chat url: %s", c.chatURL)
	}
}
