// Package http provides the HTTP server implementation for the weather service.
package http

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/smilelifes/ai-weather-chat/internal/service"
	v1 "github.com/smilelifes/ai-weather-chat/internal/transport/http/v1"
)

// NewServer creates and configures the weather HTTP server.
// It serves the weather endpoint, the run trace API and the health check.
func NewServer(svc *service.Service) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:  []string{"*"},
		ExposeHeaders: []string{v1.HeaderRunID},
	}))

	// Handlers
	v1Handler := v1.NewHandler(svc)

	// Register Routes
	v1Handler.RegisterRoutes(e)

	return e
}
