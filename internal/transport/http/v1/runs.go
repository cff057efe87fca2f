package v1

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/smilelifes/ai-weather-chat/internal/domain"
	"github.com/smilelifes/ai-weather-chat/internal/service"
)

// ListRuns lists recent runs.
// GET /v1/runs?status=&limit=
func (h *Handler) ListRuns(c echo.Context) error {
	limit := 20
	if l := c.QueryParam("limit"); l != "" {
		if val, err := strconv.Atoi(l); err == nil && val > 0 {
			limit = val
		}
	}

	runs, err := h.service.ListRuns(c.Request().Context(), c.QueryParam("status"), limit)
	if errors.Is(err, service.ErrTracingDisabled) {
		return c.JSON(http.StatusNotFound, domain.ErrorResponse{Error: err.Error()})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, domain.ErrorResponse{Error: err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"runs": runs})
}

// GetRun retrieves a traced run.
// GET /v1/runs/:run_id
func (h *Handler) GetRun(c echo.Context) error {
	ctx := c.Request().Context()
	runID := c.Param("run_id")

	run, err := h.service.GetRun(ctx, runID)
	if errors.Is(err, service.ErrTracingDisabled) {
		return c.JSON(http.StatusNotFound, domain.ErrorResponse{Error: err.Error()})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, domain.ErrorResponse{Error: err.Error()})
	}
	if run == nil {
		return c.JSON(http.StatusNotFound, domain.ErrorResponse{Error: "run not found"})
	}

	return c.JSON(http.StatusOK, run)
}

// GetRunEvents retrieves events for a run.
// GET /v1/runs/:run_id/events?after_ts=&types=a,b&limit=
func (h *Handler) GetRunEvents(c echo.Context) error {
	runID := c.Param("run_id")
	limit := 100
	if l := c.QueryParam("limit"); l != "" {
		if val, err := strconv.Atoi(l); err == nil {
			limit = val
		}
	}
	afterTs := int64(0)
	if t := c.QueryParam("after_ts"); t != "" {
		if val, err := strconv.ParseInt(t, 10, 64); err == nil {
			afterTs = val
		}
	}

	ctx := c.Request().Context()

	events, err := h.service.GetRunEvents(ctx, runID, afterTs, c.QueryParam("types"), limit)
	if errors.Is(err, service.ErrTracingDisabled) {
		return c.JSON(http.StatusNotFound, domain.ErrorResponse{Error: err.Error()})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, domain.ErrorResponse{Error: err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"run_id": runID,
		"events": events,
	})
}
