package handler

import (
	"net/http"

	"github.com/16880444c/V4/internal/session"
)

// Health handles GET /health. The process is healthy once it is serving;
// absent agreements are reported by /v1/scopes instead.
func Health(store *session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"status":   "ok",
			"sessions": store.Count(),
		})
	}
}
