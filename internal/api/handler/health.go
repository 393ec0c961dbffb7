package handler

import (
	"context"
	"net/http"

	"github.com/Rrens/itinerary-planner/internal/api/response"
	"github.com/Rrens/itinerary-planner/internal/domain"
)

// Pinger is anything whose connectivity can be checked
type Pinger interface {
	Ping(ctx context.Context) error
}

// Ping answers liveness probes with a plain "pong"
func Ping(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("pong"))
}

// HealthCheck returns a simple health check response
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	response.OK(w, map[string]string{
		"status": "ok",
	})
}

// ReadyCheck reports ready once every dependency answers a ping
func ReadyCheck(deps map[string]Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		for name, dep := range deps {
			if err := dep.Ping(r.Context()); err != nil {
				response.Error(w, http.StatusServiceUnavailable, response.ErrorBody{
					Kind:    domain.KindInternal,
					Message: name + " not ready",
				})
				return
			}
		}

		response.OK(w, map[string]string{
			"status": "ready",
		})
	}
}
