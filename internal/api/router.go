package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/cors"
	"github.com/gorilla/mux"

	"github.com/mcoot/rinkbook/internal/api/handler"
	apimw "github.com/mcoot/rinkbook/internal/api/middleware"
	"github.com/mcoot/rinkbook/internal/dependencies/clock"
	"github.com/mcoot/rinkbook/internal/metrics"
	"github.com/mcoot/rinkbook/internal/middleware"
	"github.com/mcoot/rinkbook/internal/services/game"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger      *slog.Logger
	GameService *game.Service
	Store       handler.Pinger
	Clock       clock.Clock

	// Metrics is optional. When set, requests are measured and /metrics is served.
	Metrics *metrics.Recorder

	// AllowedOrigins for CORS. Empty allows any origin.
	AllowedOrigins []string
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(handler.NotFound)
	r.MethodNotAllowedHandler = http.HandlerFunc(handler.MethodNotAllowed)

	// Create handlers
	gameHandler := handler.NewGameHandler(cfg.GameService)
	healthHandler := handler.NewHealthHandler(cfg.Store, cfg.Clock, cfg.Logger)

	if cfg.Metrics != nil {
		measure := apimw.Metrics(cfg.Metrics)
		r.Use(measure)
		// Router middleware skips requests that match no route
		r.NotFoundHandler = measure(r.NotFoundHandler)
		r.MethodNotAllowedHandler = measure(r.MethodNotAllowedHandler)
		r.Handle("/metrics", cfg.Metrics.Handler()).Methods(http.MethodGet)
	}

	r.HandleFunc("/", healthHandler.Root).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", healthHandler.Health).Methods(http.MethodGet)

	// Game routes
	games := api.PathPrefix("/games").Subrouter()
	games.HandleFunc("", gameHandler.List).Methods(http.MethodGet)
	games.HandleFunc("", gameHandler.Create).Methods(http.MethodPost)
	games.HandleFunc("", gameHandler.DeleteAll).Methods(http.MethodDelete)
	games.HandleFunc("/{id}", gameHandler.Get).Methods(http.MethodGet)
	games.HandleFunc("/{id}", gameHandler.UpdateInfo).Methods(http.MethodPut)
	games.HandleFunc("/{id}", gameHandler.Delete).Methods(http.MethodDelete)
	games.HandleFunc("/{id}/score", gameHandler.UpdateScore).Methods(http.MethodPut)
	games.HandleFunc("/{id}/finish", gameHandler.Finish).Methods(http.MethodPut)

	// Outermost first: CORS, request id, logging, recovery, routing
	var h http.Handler = r
	h = apimw.Recovery(cfg.Logger)(h)
	h = middleware.Logging(cfg.Logger)(h)
	h = middleware.RequestID(h)
	h = cors.Handler(corsOptions(cfg.AllowedOrigins))(h)
	return h
}

func corsOptions(origins []string) cors.Options {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader},
		MaxAge:         300,
	}
}
