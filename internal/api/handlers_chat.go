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

type ChatHandler struct {
	svc      *services.ChatService
	verifier auth.Verifier
}

func NewChatHandler(svc *services.ChatService, verifier auth.Verifier) *ChatHandler {
	return &ChatHandler{svc: svc, verifier: verifier}
}

// PostMessage POST /api/families/{familyId}/messages
//
// Sender identity comes from the verified credential, never the body.
func (h *ChatHandler) PostMessage(w http.ResponseWriter, r *http.Request) {
	caller, ok := authenticate(w, r, h.verifier)
	if !ok {
		return
	}

	var req struct {
		Content string `json:"content"`
		Type    string `json:"type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}

	msg := &model.ChatMessage{
		FamilyID:   mux.Vars(r)["familyId"],
		SenderID:   caller.UserID,
		SenderName: caller.DisplayName,
		Content:    req.Content,
		Type:       req.Type,
	}
	out, err := h.svc.PostMessage(r.Context(), msg)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, out)
}
