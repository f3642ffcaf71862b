package api

import (
	"context"
	"net/http"
	"time"

	"foodcourt/internal/logger"
)

// Pinger is anything whose liveness can be checked
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports whether the store behind db is reachable.
func HealthHandler(service string, db Pinger, log *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		healthy := true
		if err := db.Ping(ctx); err != nil {
			log.Error("health_check_failed", "Database ping failed", RequestID(r.Context()), err, nil)
			healthy = false
		}

		response := map[string]interface{}{
			"status":    "ok",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"service":   service,
			"healthy":   healthy,
		}

		statusCode := http.StatusOK
		if !healthy {
			statusCode = http.StatusServiceUnavailable
			response["status"] = "unhealthy"
		}

		WriteJSON(w, log, statusCode, response, RequestID(r.Context()))
	}
}
