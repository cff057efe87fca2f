package weather

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smilelifes/ai-weather-chat/internal/domain"
)

func TestClientLookup(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "Seoul", q.Get("q"))
		assert.Equal(t, "key", q.Get("appid"))
		assert.Equal(t, "metric", q.Get("units"))
		assert.Equal(t, "en", q.Get("lang"))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"name":"Seoul","weather":[{"main":"Clear","description":"clear sky"}],"main":{"temp":22.5}}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, "key", time.Second)
	info, err := client.Lookup(context.Background(), "Seoul")
	require.NoError(t, err)
	assert.Equal(t, "Seoul", info.City)
	assert.Equal(t, "clear sky", info.Weather)
	assert.Equal(t, 22.5, info.Temperature)
}

func TestClientLookupMissingFields(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"weather":[]}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, "key", time.Second)
	info, err := client.Lookup(context.Background(), "Nowhere")
	require.NoError(t, err)
	assert.Equal(t, "Nowhere", info.City)
	assert.Equal(t, "", info.Weather)
	assert.Equal(t, 0.0, info.Temperature)
}

func TestClientLookupNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"cod":"404","message":"city not found"}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, "key", time.Second)
	_, err := client.Lookup(context.Background(), "Atlantis")
	require.Error(t, err)

	var lookupErr *domain.WeatherLookupError
	require.True(t, errors.As(err, &lookupErr))
	assert.Equal(t, http.StatusNotFound, lookupErr.StatusCode)
	assert.Equal(t, "Weather API error: Not Found", err.Error())
}

func TestClientLookupBadBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `not json`)
	}))
	defer server.Close()

	client := NewClient(server.URL, "key", time.Second)
	_, err := client.Lookup(context.Background(), "Seoul")
	require.Error(t, err)

	var lookupErr *domain.WeatherLookupError
	assert.False(t, errors.As(err, &lookupErr))
}

func TestClientLookupTransportErrorOmitsKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	baseURL := server.URL
	server.Close()

	client := NewClient(baseURL, "secret-key", time.Second)
	_, err := client.Lookup(context.Background(), "Seoul")
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "secret-key")
	assert.NotContains(t, err.Error(), baseURL)
}

func TestClientLookupCanceledKeepsCause(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", "secret-key", time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Lookup(ctx, "Seoul")
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.NotContains(t, err.Error(), "secret-key")
}

func TestNewWeatherClientMode(t *testing.T) {
	_, ok := NewWeatherClient(ModeMock, "", "", time.Second).(*MockClient)
	assert.True(t, ok)

	c, ok := NewWeatherClient("", "", "key", time.Second).(*Client)
	require.True(t, ok)
	assert.Equal(t, DefaultBaseURL, c.baseURL)
}

func TestMockClientLookup(t *testing.T) {
	info, err := NewMockClient().Lookup(context.Background(), "Busan")
	require.NoError(t, err)
	assert.Equal(t, "Busan", info.City)
	assert.Equal(t, MockDescription, info.Weather)
	assert.Equal(t, MockTemperature, info.Temperature)
}
