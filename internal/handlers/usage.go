package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/diewo77/invoice-umkm/internal/httpx"
	"github.com/diewo77/invoice-umkm/internal/services"
)

type UsageHandler struct {
	Svc *services.UsageService
}

func NewUsageHandler(svc *services.UsageService) *UsageHandler {
	return &UsageHandler{Svc: svc}
}

// Usage: GET /usage?userId=|email=. Auto-provisions unknown identities.
func (h *UsageHandler) Usage(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	email := r.URL.Query().Get("email")
	snap, err := h.Svc.GetUsage(r.Context(), userID, email)
	if err != nil {
		writeError(w, err, "user not found", "failed to fetch usage")
		return
	}
	httpx.OK(w, http.StatusOK, snap)
}

// Upgrade: POST /upgrade. Simulated checkout, flips the plan to PRO.
func (h *UsageHandler) Upgrade(w http.ResponseWriter, r *http.Request) {
	var body struct {
		UserID string `json:"userId"`
		Email  string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	user, err := h.Svc.Upgrade(r.Context(), body.UserID, body.Email)
	if err != nil {
		writeError(w, err, "user not found", "failed to upgrade plan")
		return
	}
	httpx.OK(w, http.StatusOK, map[string]any{
		"id":    user.ID,
		"email": user.Email,
		"plan":  user.Plan,
	})
}
