package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/segyhp/clinic-scheduler/pkg/response"
)

// Pinger is a dependency whose connectivity is part of readiness.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingerFunc adapts a function to Pinger.
type PingerFunc func(ctx context.Context) error

func (f PingerFunc) Ping(ctx context.Context) error { return f(ctx) }

// DatabasePinger checks a sqlx connection pool.
func DatabasePinger(db *sqlx.DB) Pinger {
	return PingerFunc(db.PingContext)
}

// RedisPinger checks a Redis connection.
func RedisPinger(client redis.Cmdable) Pinger {
	return PingerFunc(func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	})
}

type HealthHandler struct {
	checks  map[string]Pinger
	timeout time.Duration
}

// NewHealthHandler builds the health endpoints. Nil checks are skipped, so the
// in-memory deployment reports ready without a database.
func NewHealthHandler(checks map[string]Pinger, timeout time.Duration) *HealthHandler {
	active := make(map[string]Pinger, len(checks))
	for name, p := range checks {
		if p != nil {
			active[name] = p
		}
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &HealthHandler{checks: active, timeout: timeout}
}

type HealthStatus struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Checks    map[string]string `json:"checks"`
}

func (h *HealthHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", h.Health).Methods(http.MethodGet)
	r.HandleFunc("/health/ready", h.Ready).Methods(http.MethodGet)
}

// Health performs a basic health check
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	status := HealthStatus{
		Status:    "ok",
		Timestamp: time.Now(),
		Checks:    make(map[string]string),
	}

	response.Success(w, status)
}

// Ready performs readiness check including database and redis connectivity
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	status := HealthStatus{
		Status:    "ok",
		Timestamp: time.Now(),
		Checks:    make(map[string]string),
	}

	for name, p := range h.checks {
		ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
		err := p.Ping(ctx)
		cancel()

		if err != nil {
			status.Status = "error"
			log.Error().Err(err).Str("check", name).Msg("readiness check failed")
			status.Checks[name] = "failed"
		} else {
			status.Checks[name] = "ok"
		}
	}

	if status.Status == "error" {
		response.ServiceUnavailable(w, status)
		return
	}

	response.Success(w, status)
}
