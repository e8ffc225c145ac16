// Package handler exposes the family engine over a JSON HTTP API.
// Handlers validate input, call the service, and encode the result;
// broadcasting and persistence hang off the service's event stream.
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
)

func parseIDParam(r *http.Request, name string) (uuid.UUID, error) {
	return uuid.Parse(r.PathValue(name))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func errJSON(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
