package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/smilelifes/ai-weather-chat/internal/adapter/llm"
	"github.com/smilelifes/ai-weather-chat/internal/adapter/weather"
	"github.com/smilelifes/ai-weather-chat/internal/config"
	"github.com/smilelifes/ai-weather-chat/internal/policy"
	"github.com/smilelifes/ai-weather-chat/internal/repository"
	"github.com/smilelifes/ai-weather-chat/internal/service"
	httpserver "github.com/smilelifes/ai-weather-chat/internal/transport/http"
)

func main() {
	// Load configuration
	cfg := config.Load()

	log.Printf("Starting weather server...")
	log.Printf("HTTP Port: %d", cfg.HTTPPort)
	if cfg.Mode != "" {
		log.Printf("Mode: %s", cfg.Mode)
	}

	// Initialize trace store; tracing stays off without a database
	var store repository.Store
	if cfg.TraceDatabaseURL != "" {
		db, err := repository.NewSQLiteStore(cfg.TraceDatabaseURL)
		if err != nil {
			log.Fatalf("Failed to initialize trace store: %v", err)
		}
		defer db.Close()
		store = db
		log.Printf("Trace database: %s", cfg.TraceDatabaseURL)
	}

	// Initialize upstream clients
	llmClient := llm.NewLLMClient(cfg.Mode, llm.Options{
		AzureURL: cfg.AzureOpenAIURL,
		BaseURL:  cfg.LLMBaseURL,
		APIKey:   cfg.LLMAPIKeyForMode(),
		Model:    cfg.LLMModel,
		Timeout:  cfg.LLMTimeout,
	})
	weatherClient := weather.NewWeatherClient(cfg.Mode, cfg.WeatherAPIURL, cfg.WeatherAPIKey, cfg.WeatherTimeout)

	// Initialize policy engine
	ctx := context.Background()
	policyEngine, err := policy.NewEngine(ctx, policy.DefaultPolicy)
	if err != nil {
		log.Fatalf("Failed to initialize policy engine: %v", err)
	}

	// Initialize service
	svc := service.New(store, llmClient, weatherClient, cfg, policyEngine)

	e := httpserver.NewServer(svc)
	e.Debug = cfg.LogLevel == "debug"

	go func() {
		addr := fmt.Sprintf(":%d", cfg.HTTPPort)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	log.Printf("Weather API started on port %d", cfg.HTTPPort)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down weather server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("Failed to shutdown server gracefully: %v", err)
	}

	log.Println("Weather server stopped")
}
