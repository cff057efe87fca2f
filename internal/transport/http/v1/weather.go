package v1

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/smilelifes/ai-weather-chat/internal/domain"
)

// HeaderRunID carries the trace run ID of a weather request.
const HeaderRunID = "X-Run-ID"

// HandleWeather runs the weather pipeline for one user utterance.
// POST /api/weather
func (h *Handler) HandleWeather(c echo.Context) error {
	ctx := c.Request().Context()

	// The body is JSON whatever its Content-Type; an empty body is a missing input.
	var req domain.PipelineRequest
	if err := json.NewDecoder(c.Request().Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		return c.JSON(http.StatusBadRequest, domain.ErrorResponse{Error: "invalid request body"})
	}

	runID, result, err := h.service.ExecuteWeatherQuery(ctx, req.UserInput)
	if runID != "" {
		c.Response().Header().Set(HeaderRunID, runID)
	}
	if err != nil {
		var validationErr *domain.ValidationError
		if errors.As(err, &validationErr) {
			return c.JSON(http.StatusBadRequest, domain.ErrorResponse{Error: validationErr.Message})
		}

		log.Printf("ERROR: weather request failed: %v", err)
		message := err.Error()
		if message == "" {
			message = "Internal server error"
		}
		return c.JSON(http.StatusInternalServerError, domain.ErrorResponse{Error: message})
	}

	return c.JSON(http.StatusOK, result)
}
