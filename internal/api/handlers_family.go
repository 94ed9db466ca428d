package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	respond "github.com/kenangan-app/kenangan-server/internal/api/respond"
	"github.com/kenangan-app/kenangan-server/internal/auth"
	"github.com/kenangan-app/kenangan-server/internal/model"
	"github.com/kenangan-app/kenangan-server/internal/services"
)

type FamilyHandler struct {
	svc      *services.FamilyService
	verifier auth.Verifier
}

func NewFamilyHandler(svc *services.FamilyService, verifier auth.Verifier) *FamilyHandler {
	return &FamilyHandler{svc: svc, verifier: verifier}
}

// CreateFamily POST /api/families
func (h *FamilyHandler) CreateFamily(w http.ResponseWriter, r *http.Request) {
	caller, ok := authenticate(w, r, h.verifier)
	if !ok {
		return
	}

	var req struct {
		Name      string   `json:"name"`
		MemberIDs []string `json:"memberIds"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	// The creator is always a member.
	members := req.MemberIDs
	found := false
	for _, id := range members {
		if id == caller.UserID {
			found = true
			break
		}
	}
	if !found {
		members = append(members, caller.UserID)
	}

	out, err := h.svc.Create(r.Context(), &model.Family{Name: req.Name, MemberIDs: members})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, out)
}

// GetFamily GET /api/families/{familyId}
func (h *FamilyHandler) GetFamily(w http.ResponseWriter, r *http.Request) {
	if _, ok := authenticate(w, r, h.verifier); !ok {
		return
	}

	out, err := h.svc.Get(r.Context(), mux.Vars(r)["familyId"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}
