// Retrospectus - YouTube Watch History Analytics and Yearly Rewind
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/retrospectus

// Package api provides the HTTP surface: the rewind endpoint, health
// probes, and the Prometheus scrape endpoint, routed with Chi.
package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/tomtom215/retrospectus/internal/logging"
	"github.com/tomtom215/retrospectus/internal/models"
	"github.com/tomtom215/retrospectus/internal/normalize"
)

// Version is the reported service version.
const Version = "1.0.0"

// ReportGenerator produces a yearly rewind report from a raw export body.
type ReportGenerator interface {
	Generate(ctx context.Context, data []byte, year int) (*models.RewindReport, error)
}

// BreakerStater reports the upstream circuit breaker state for readiness.
type BreakerStater interface {
	State() string
}

// Handler holds the dependencies of the HTTP handlers.
type Handler struct {
	pipeline  ReportGenerator
	breaker   BreakerStater
	startTime time.Time
}

// NewHandler creates a Handler. breaker may be nil when the metadata
// provider runs without breaker protection (tests).
func NewHandler(pipeline ReportGenerator, breaker BreakerStater) *Handler {
	return &Handler{
		pipeline:  pipeline,
		breaker:   breaker,
		startTime: time.Now(),
	}
}

// rewindRequest carries the validated query parameters of a rewind call.
type rewindRequest struct {
	Year int `validate:"required,min=2000,max=2100"`
}

// Rewind handles POST /api/v1/rewind?year=YYYY. The body is the raw
// Google Takeout watch-history JSON export.
func (h *Handler) Rewind(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR",
			"year must be an integer", nil)
		return
	}

	if apiErr := validateRequest(&rewindRequest{Year: year}); apiErr != nil {
		respondJSON(w, http.StatusUnprocessableEntity, &models.APIResponse{
			Status:   "error",
			Metadata: models.Metadata{Timestamp: time.Now()},
			Error:    apiErr,
		})
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			respondError(w, http.StatusRequestEntityTooLarge, "VALIDATION_ERROR",
				"request body exceeds the size limit", nil)
			return
		}
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR",
			"failed to read request body", err)
		return
	}
	if len(body) == 0 {
		respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR",
			"request body is empty; expected a watch-history export", nil)
		return
	}

	report, err := h.pipeline.Generate(r.Context(), body, year)
	if err != nil {
		h.respondGenerateError(w, year, err)
		return
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   report,
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: time.Since(start).Milliseconds(),
		},
	})
}

// respondGenerateError maps pipeline failures to API error responses.
// Export problems are the client's fault; everything else is the
// metadata provider's.
func (h *Handler) respondGenerateError(w http.ResponseWriter, year int, err error) {
	switch {
	case errors.Is(err, normalize.ErrNoData):
		respondError(w, http.StatusUnprocessableEntity, "EMPTY_DATASET",
			"no watch events found for year "+strconv.Itoa(year), nil)
	case errors.Is(err, normalize.ErrNoTimeField):
		respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR",
			"body does not look like a watch-history export", nil)
	case errors.Is(err, normalize.ErrMalformedExport):
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR",
			"request body is not valid JSON", err)
	default:
		respondError(w, http.StatusBadGateway, "PROVIDER_ERROR",
			"video metadata provider is unavailable", err)
	}
}

// Health handles GET /api/v1/health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{"pipeline": "ok"}

	status := "healthy"
	if h.breaker != nil {
		state := h.breaker.State()
		checks["youtube_api"] = state
		if state == "open" {
			status = "degraded"
		}
	}

	health := models.HealthStatus{
		Status:    status,
		Timestamp: time.Now(),
		Version:   Version,
		Checks:    checks,
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status:   "success",
		Data:     health,
		Metadata: models.Metadata{Timestamp: time.Now()},
	})
}

// HealthLive handles GET /api/v1/health/live. Returns 200 while the
// process is alive, regardless of dependencies.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: map[string]interface{}{
			"alive":  true,
			"uptime": time.Since(h.startTime).Seconds(),
		},
		Metadata: models.Metadata{Timestamp: time.Now()},
	})
}

// HealthReady handles GET /api/v1/health/ready. The service is not
// ready while the upstream circuit breaker is open.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	if h.breaker != nil && h.breaker.State() == "open" {
		logging.Warn().Msg("readiness check failed, circuit breaker open")
		respondJSON(w, http.StatusServiceUnavailable, &models.APIResponse{
			Status: "error",
			Metadata: models.Metadata{
				Timestamp: time.Now(),
			},
			Error: &models.APIError{
				Code:    "PROVIDER_ERROR",
				Message: "metadata provider circuit breaker is open",
			},
		})
		return
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status:   "success",
		Data:     map[string]interface{}{"ready": true},
		Metadata: models.Metadata{Timestamp: time.Now()},
	})
}
