package api

import (
	"encoding/json"
	"net/http"

	respond "github.com/kenangan-app/kenangan-server/internal/api/respond"
	"github.com/kenangan-app/kenangan-server/internal/auth"
	"github.com/kenangan-app/kenangan-server/internal/model"
	"github.com/kenangan-app/kenangan-server/internal/services"
)

type DeviceHandler struct {
	svc      *services.DeviceService
	verifier auth.Verifier
}

func NewDeviceHandler(svc *services.DeviceService, verifier auth.Verifier) *DeviceHandler {
	return &DeviceHandler{svc: svc, verifier: verifier}
}

// RegisterDevice POST /api/devices
func (h *DeviceHandler) RegisterDevice(w http.ResponseWriter, r *http.Request) {
	caller, ok := authenticate(w, r, h.verifier)
	if !ok {
		return
	}

	var req struct {
		Token    string `json:"token"`
		Platform string `json:"platform"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}

	out, err := h.svc.Register(r.Context(), &model.Device{
		UserID:   caller.UserID,
		Token:    req.Token,
		Platform: req.Platform,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, out)
}
