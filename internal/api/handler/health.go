package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/mcoot/rinkbook/internal/api/apierr"
	"github.com/mcoot/rinkbook/internal/api/response"
	"github.com/mcoot/rinkbook/internal/dependencies/clock"
)

// Pinger is the part of the game store the health check needs
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves the liveness and index endpoints
type HealthHandler struct {
	store  Pinger
	clock  clock.Clock
	logger *slog.Logger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(store Pinger, clock clock.Clock, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{store: store, clock: clock, logger: logger}
}

// Health handles GET /api/health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		h.logger.Error("health check failed", slog.String("error", err.Error()))
		response.JSON(w, http.StatusServiceUnavailable, response.Health{
			Status:    "UNAVAILABLE",
			Timestamp: h.clock.Now(),
			Storage:   "unreachable",
		})
		return
	}

	response.JSON(w, http.StatusOK, response.Health{
		Status:    "OK",
		Timestamp: h.clock.Now(),
	})
}

// Root handles GET /
func (h *HealthHandler) Root(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, response.Message{Message: response.MessageRoot})
}

// NotFound answers unknown routes with a JSON error
func NotFound(w http.ResponseWriter, r *http.Request) {
	apierr.WriteError(w, apierr.NewNotFoundError(apierr.MessageRouteNotFound))
}

// MethodNotAllowed answers a known route called with the wrong method
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	apierr.WriteError(w, apierr.NewMethodNotAllowedError())
}
