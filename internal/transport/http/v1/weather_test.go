package v1

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smilelifes/ai-weather-chat/internal/adapter/llm"
	"github.com/smilelifes/ai-weather-chat/internal/adapter/weather"
	"github.com/smilelifes/ai-weather-chat/internal/config"
	"github.com/smilelifes/ai-weather-chat/internal/domain"
	"github.com/smilelifes/ai-weather-chat/internal/repository"
	"github.com/smilelifes/ai-weather-chat/internal/service"
	"github.com/smilelifes/ai-weather-chat/tests/helpers"
)

const seoulReply = "서울은 현재 맑고 22.5°C입니다."

// newLLMServer fakes a chat-completion upstream that extracts city and answers with reply.
func newLLMServer(t *testing.T, city, reply string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req llm.ChatCompletionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode llm request: %v", err)
		}
		content := reply
		if len(req.Messages) > 0 && strings.Contains(req.Messages[0].Content, "Extract the location") {
			content = city
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(llm.ChatCompletionResponse{
			Choices: []llm.Choice{{Message: &llm.ChatMessage{Role: "assistant", Content: content}}},
		})
	}))
	t.Cleanup(server.Close)
	return server
}

// newWeatherServer fakes OpenWeatherMap; status other than 200 returns an error body.
func newWeatherServer(t *testing.T, status int, description string, temp float64) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if status != http.StatusOK {
			w.WriteHeader(status)
			fmt.Fprint(w, `{"cod":"404","message":"city not found"}`)
			return
		}
		fmt.Fprintf(w, `{"name":%q,"weather":[{"description":%q}],"main":{"temp":%v}}`, r.URL.Query().Get("q"), description, temp)
	}))
	t.Cleanup(server.Close)
	return server
}

func newTestHandler(t *testing.T, store repository.Store, llmURL, weatherURL string) *Handler {
	t.Helper()
	cfg := &config.Config{
		DefaultCity:    "Magok-dong",
		MaxInputRunes:  500,
		LLMModel:       "gpt-test",
		LLMTimeout:     time.Second,
		WeatherTimeout: time.Second,
		RequestTimeout: 5 * time.Second,
	}
	llmClient := llm.NewClient(llmURL, "", cfg.LLMModel, cfg.LLMTimeout)
	weatherClient := weather.NewClient(weatherURL, "key", cfg.WeatherTimeout)
	svc := service.New(store, llmClient, weatherClient, cfg, nil)
	return NewHandler(svc)
}

func postWeather(t *testing.T, h *Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/weather", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.HandleWeather(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	return rec
}

func TestHandleWeatherSuccess(t *testing.T) {
	llmServer := newLLMServer(t, "Seoul", seoulReply)
	weatherServer := newWeatherServer(t, http.StatusOK, "clear sky", 22.5)
	h := newTestHandler(t, nil, llmServer.URL, weatherServer.URL)

	rec := postWeather(t, h, `{"user_input":"서울"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var got domain.PipelineResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, domain.PipelineResult{
		City:        "Seoul",
		Weather:     "clear sky",
		Temperature: 22.5,
		Response:    seoulReply,
	}, got)
	assert.Empty(t, rec.Header().Get(HeaderRunID))
}

func TestHandleWeatherMissingInput(t *testing.T) {
	h := newTestHandler(t, nil, "http://127.0.0.1:1", "http://127.0.0.1:1")

	for _, body := range []string{`{}`, `{"user_input":""}`, `{"user_input":"   "}`} {
		rec := postWeather(t, h, body)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("body %s: expected 400, got %d", body, rec.Code)
		}
		var got map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, "Missing user_input", got["error"])
	}
}

func TestHandleWeatherWithoutContentType(t *testing.T) {
	llmServer := newLLMServer(t, "Seoul", seoulReply)
	weatherServer := newWeatherServer(t, http.StatusOK, "clear sky", 22.5)
	h := newTestHandler(t, nil, llmServer.URL, weatherServer.URL)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/weather", bytes.NewBufferString(`{"user_input":"서울"}`))
	rec := httptest.NewRecorder()
	require.NoError(t, h.HandleWeather(e.NewContext(req, rec)))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var got domain.PipelineResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "Seoul", got.City)
}

func TestHandleWeatherUnreachableUpstreamHidesKey(t *testing.T) {
	const secret = "OWM_SECRET_KEY_123"

	// Accepts connections and hangs up without answering.
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { listener.Close() })
	go func() {
		for {
			conn, err := listener.Accept()
			if err != nil {
				return
			}
			conn.Close()
		}
	}()

	llmServer := newLLMServer(t, "Seoul", seoulReply)
	cfg := &config.Config{
		DefaultCity:    "Magok-dong",
		LLMModel:       "gpt-test",
		LLMTimeout:     time.Second,
		WeatherTimeout: time.Second,
		RequestTimeout: 5 * time.Second,
	}
	svc := service.New(nil,
		llm.NewClient(llmServer.URL, "", cfg.LLMModel, cfg.LLMTimeout),
		weather.NewClient("http://"+listener.Addr().String(), secret, cfg.WeatherTimeout),
		cfg, nil)
	h := NewHandler(svc)

	rec := postWeather(t, h, `{"user_input":"서울"}`)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), secret)
	assert.NotContains(t, rec.Body.String(), "appid")
	var got domain.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Contains(t, got.Error, "failed to get weather info")
}

func TestHandleWeatherMalformedBody(t *testing.T) {
	h := newTestHandler(t, nil, "http://127.0.0.1:1", "http://127.0.0.1:1")

	rec := postWeather(t, h, `{"user_input":`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	assert.Contains(t, rec.Body.String(), `"error"`)
}

func TestHandleWeatherLookupNotFound(t *testing.T) {
	llmServer := newLLMServer(t, "Atlantis", "unused")
	weatherServer := newWeatherServer(t, http.StatusNotFound, "", 0)
	h := newTestHandler(t, nil, llmServer.URL, weatherServer.URL)

	rec := postWeather(t, h, `{"user_input":"아틀란티스 날씨"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}

	var got map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Regexp(t, `Weather API error`, got["error"])
	assert.Equal(t, "Weather API error: Not Found", got["error"])
}

func TestHandleWeatherLLMDownStillAnswers(t *testing.T) {
	llmServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer llmServer.Close()
	weatherServer := newWeatherServer(t, http.StatusOK, "overcast clouds", 18)
	h := newTestHandler(t, nil, llmServer.URL, weatherServer.URL)

	rec := postWeather(t, h, `{"user_input":"날씨 알려줘"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var got domain.PipelineResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "Magok-dong", got.City)
	assert.Equal(t, 18.0, got.Temperature)
	assert.Equal(t, service.FallbackResponse, got.Response)
}

func TestHandleWeatherTracedRun(t *testing.T) {
	store := helpers.NewTestSQLiteStore(t)
	llmServer := newLLMServer(t, "Seoul", seoulReply)
	weatherServer := newWeatherServer(t, http.StatusOK, "clear sky", 22.5)
	h := newTestHandler(t, store, llmServer.URL, weatherServer.URL)

	e := echo.New()
	h.RegisterRoutes(e)

	req := httptest.NewRequest(http.MethodPost, "/api/weather", bytes.NewBufferString(`{"user_input":"서울"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	runID := rec.Header().Get(HeaderRunID)
	require.NotEmpty(t, runID)

	req = httptest.NewRequest(http.MethodGet, "/v1/runs/"+runID, nil)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var run domain.Run
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &run))
	assert.Equal(t, domain.RunStatusDone, run.Status)
	assert.Equal(t, "Seoul", run.City)

	req = httptest.NewRequest(http.MethodGet, "/v1/runs/"+runID+"/events?types=run_started,run_done", nil)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var eventsResp struct {
		RunID  string         `json:"run_id"`
		Events []domain.Event `json:"events"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &eventsResp))
	require.Len(t, eventsResp.Events, 2)
	assert.Equal(t, domain.EventTypeRunStarted, eventsResp.Events[0].Type)
	assert.Equal(t, domain.EventTypeRunDone, eventsResp.Events[1].Type)

	req = httptest.NewRequest(http.MethodGet, "/v1/runs?status=done", nil)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var listResp struct {
		Runs []domain.Run `json:"runs"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listResp))
	require.Len(t, listResp.Runs, 1)
	assert.Equal(t, runID, listResp.Runs[0].RunID)
}
