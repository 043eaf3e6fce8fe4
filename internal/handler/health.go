package handler

import (
	"context"
	"net/http"
)

// HealthCheck verifies one dependency, e.g. a database ping.
type HealthCheck func(ctx context.Context) error

// Health returns a handler that runs the given checks and reports 200
// when all pass, 503 otherwise.
func Health(checks ...HealthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		for _, check := range checks {
			if err := check(r.Context()); err != nil {
				respondError(w, http.StatusServiceUnavailable, err.Error())
				return
			}
		}
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
