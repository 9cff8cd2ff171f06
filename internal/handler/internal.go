package handler

import (
	"encoding/json"
	"net/http"
	"os"

	"github.com/newsletterai/api/internal/repository"
)

type InternalHandler struct {
	profiles *repository.ProfileRepo
}

func NewInternalHandler(profiles *repository.ProfileRepo) *InternalHandler {
	return &InternalHandler{profiles: profiles}
}

// UpsertUser creates or refreshes a profile on login. Called by the
// auth frontend's jwt callback, guarded by X-Internal-Secret.
func (h *InternalHandler) UpsertUser(w http.ResponseWriter, r *http.Request) {
	secret := os.Getenv("INTERNAL_API_SECRET")
	if secret == "" || r.Header.Get("X-Internal-Secret") != secret {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	var body struct {
		ID       string  `json:"id"`
		Email    string  `json:"email"`
		FullName *string `json:"fullName"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.ID == "" || body.Email == "" {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	profile, err := h.profiles.Upsert(r.Context(), body.ID, body.Email, body.FullName)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]any{"profile": profile})
}
