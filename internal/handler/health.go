package handler

import (
	"encoding/json"
	"net/http"
	"time"
)

// HealthHandler returns a health check endpoint. With all state in process
// memory there are no downstream dependencies to probe.
func HealthHandler(startedAt time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"status":         "healthy",
			"uptime_seconds": int64(time.Since(startedAt).Seconds()),
		})
	}
}
