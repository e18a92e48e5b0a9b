package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorBody{Error: code, Message: message})
}

// writeStoreFailure logs the detail server-side and returns a generic
// retry-later message, never the internal error text.
func writeStoreFailure(w http.ResponseWriter, op string, err error) {
	slog.Error("store operation failed", "op", op, "error", err)
	writeError(w, http.StatusServiceUnavailable, "store_unavailable",
		"something went wrong on our side, please try again later")
}
