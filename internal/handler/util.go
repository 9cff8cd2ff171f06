package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/newsletterai/api/internal/repository"
	"github.com/newsletterai/api/internal/service"
)

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, msg string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func writeRepoError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, "not found", http.StatusNotFound)
	case errors.Is(err, repository.ErrConflict):
		writeError(w, "conflict", http.StatusConflict)
	default:
		writeError(w, "internal error", http.StatusInternalServerError)
	}
}

// writeAIError keeps malformed completion replies distinguishable in
// logs while surfacing a generic 500 to the caller.
func writeAIError(w http.ResponseWriter, err error) {
	if errors.Is(err, service.ErrMalformedResponse) {
		writeError(w, "AI response could not be parsed", http.StatusInternalServerError)
		return
	}
	writeError(w, "AI request failed", http.StatusInternalServerError)
}

func parseIntOrDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
