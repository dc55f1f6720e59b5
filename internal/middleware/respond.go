// Package middleware provides the HTTP plumbing shared by all handlers:
// request logging, Prometheus metrics, group-admin token checks, and JSON
// request/response helpers.
package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// APIError is the body of every non-2xx response.
type APIError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// JSONResponse writes a JSON response with the given status code.
func JSONResponse(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

// ErrorResponse writes a JSON error response.
func ErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	JSONResponse(w, statusCode, APIError{
		Error:   http.StatusText(statusCode),
		Message: message,
	})
}

// ParseJSONBody parses the request body into the given struct.
func ParseJSONBody(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}
