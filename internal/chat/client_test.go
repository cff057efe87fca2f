package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smilelifes/ai-weather-chat/internal/domain"
)

func TestHTTPClientQuerySuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/weather", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		var req domain.PipelineRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "서울", req.UserInput)

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"city":"Seoul","weather":"clear sky","temperature":22.5,"response":"맑아요"}`)
	}))
	defer server.Close()

	reply := NewHTTPClient(server.URL+"/", time.Second).Query(context.Background(), domain.PipelineRequest{UserInput: "서울"})
	require.NoError(t, reply.TransportErr)
	require.NotNil(t, reply.Result)
	assert.Equal(t, domain.PipelineResult{City: "Seoul", Weather: "clear sky", Temperature: 22.5, Response: "맑아요"}, *reply.Result)
}

func TestHTTPClientQueryServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"error":"Weather API error: Not Found"}`)
	}))
	defer server.Close()

	reply := NewHTTPClient(server.URL, time.Second).Query(context.Background(), domain.PipelineRequest{UserInput: "x"})
	assert.Nil(t, reply.Result)
	assert.NoError(t, reply.TransportErr)
	assert.Equal(t, "Weather API error: Not Found", reply.ErrorText)
}

func TestHTTPClientQueryTransportErrors(t *testing.T) {
	badBody := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html>gateway</html>`)
	}))
	defer badBody.Close()

	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer slow.Close()

	tests := []struct {
		name   string
		client *HTTPClient
	}{
		{"undecodable body", NewHTTPClient(badBody.URL, time.Second)},
		{"timeout", NewHTTPClient(slow.URL, 20*time.Millisecond)},
		{"unreachable", NewHTTPClient("http://127.0.0.1:1", time.Second)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply := tt.client.Query(context.Background(), domain.PipelineRequest{UserInput: "x"})
			assert.Error(t, reply.TransportErr)
			assert.Nil(t, reply.Result)
			assert.Empty(t, reply.ErrorText)
		})
	}
}
