package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/smilelifes/ai-weather-chat/internal/domain"
)

// Pipeline answers one weather question.
type Pipeline interface {
	Query(ctx context.Context, req domain.PipelineRequest) Reply
}

// HTTPClient reaches the weather pipeline over HTTP.
type HTTPClient struct {
	endpoint   string
	httpClient *http.Client
}

// NewHTTPClient creates a client for the server at baseURL.
// timeout bounds each call; expiry is reported as a transport error.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		endpoint: strings.TrimSuffix(baseURL, "/") + "/api/weather",
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Ensure HTTPClient implements Pipeline interface.
var _ Pipeline = (*HTTPClient)(nil)

// replyBody covers both the success and the error body.
type replyBody struct {
	domain.PipelineResult
	Error string `json:"error"`
}

// Query posts req and classifies the answer.
func (c *HTTPClient) Query(ctx context.Context, req domain.PipelineRequest) Reply {
	body, err := json.Marshal(req)
	if err != nil {
		return Reply{TransportErr: fmt.Errorf("failed to marshal request: %w", err)}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return Reply{TransportErr: fmt.Errorf("failed to create request: %w", err)}
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return Reply{TransportErr: fmt.Errorf("failed to send request: %w", err)}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return Reply{TransportErr: fmt.Errorf("failed to read response: %w", err)}
	}

	var decoded replyBody
	if err := json.Unmarshal(respBody, &decoded); err != nil {
		return Reply{TransportErr: fmt.Errorf("failed to decode response [%d]: %w", resp.StatusCode, err)}
	}

	if decoded.Error != "" {
		return Reply{ErrorText: decoded.Error}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Reply{ErrorText: http.StatusText(resp.StatusCode)}
	}

	result := decoded.PipelineResult
	return Reply{Result: &result}
}
