// Package metrics exposes Prometheus instruments for the game API.
// A nil *Recorder is valid and records nothing.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "rinkbook"

// Common metric label keys
const (
	LabelMethod   = "method"
	LabelRoute    = "route"
	LabelStatus   = "status"
	LabelGameType = "game_type"
	LabelResult   = "result"
)

// Recorder owns a private registry so tests and multiple servers never
// collide on the global one
type Recorder struct {
	registry *prometheus.Registry

	gamesCreated  *prometheus.CounterVec
	gamesFinished *prometheus.CounterVec
	scoreUpdates  prometheus.Counter
	gamesDeleted  prometheus.Counter
	httpRequests  *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
}

// NewRecorder registers every instrument, plus Go runtime and process
// collectors, on a fresh registry
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		gamesCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "games_created_total",
			Help:      "Games created, by game type.",
		}, []string{LabelGameType}),
		gamesFinished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "games_finished_total",
			Help:      "Games finished, by result.",
		}, []string{LabelResult}),
		scoreUpdates: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "score_updates_total",
			Help:      "Running score updates applied.",
		}),
		gamesDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "games_deleted_total",
			Help:      "Games removed by single or bulk delete.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests served.",
		}, []string{LabelMethod, LabelRoute, LabelStatus}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{LabelMethod, LabelRoute}),
	}

	r.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.gamesCreated,
		r.gamesFinished,
		r.scoreUpdates,
		r.gamesDeleted,
		r.httpRequests,
		r.httpDuration,
	)
	return r
}

// Handler serves the registry in the Prometheus exposition format
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// Gatherer exposes the registry for inspection
func (r *Recorder) Gatherer() prometheus.Gatherer {
	if r == nil {
		return prometheus.Gatherers{}
	}
	return r.registry
}

func (r *Recorder) GameCreated(gameType string) {
	if r == nil {
		return
	}
	r.gamesCreated.WithLabelValues(gameType).Inc()
}

func (r *Recorder) GameFinished(result string) {
	if r == nil {
		return
	}
	r.gamesFinished.WithLabelValues(result).Inc()
}

func (r *Recorder) ScoreUpdated() {
	if r == nil {
		return
	}
	r.scoreUpdates.Inc()
}

func (r *Recorder) GamesDeleted(n int64) {
	if r == nil || n <= 0 {
		return
	}
	r.gamesDeleted.Add(float64(n))
}

// RecordHTTPRequest tracks one served request. route is the matched
// route template, never the raw path, to keep label cardinality bounded.
func (r *Recorder) RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	if r == nil {
		return
	}
	r.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	r.httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}
