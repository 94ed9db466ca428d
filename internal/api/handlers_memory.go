package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	respond "github.com/kenangan-app/kenangan-server/internal/api/respond"
	"github.com/kenangan-app/kenangan-server/internal/auth"
	"github.com/kenangan-app/kenangan-server/internal/model"
	"github.com/kenangan-app/kenangan-server/internal/scrapbook"
	"github.com/kenangan-app/kenangan-server/internal/services"
)

type MemoryHandler struct {
	svc      *services.MemoryService
	verifier auth.Verifier
	loc      *time.Location
}

func NewMemoryHandler(svc *services.MemoryService, verifier auth.Verifier, loc *time.Location) *MemoryHandler {
	if loc == nil {
		loc = time.Local
	}
	return &MemoryHandler{svc: svc, verifier: verifier, loc: loc}
}

// CreateRecord POST /api/families/{familyId}/memories
func (h *MemoryHandler) CreateRecord(w http.ResponseWriter, r *http.Request) {
	caller, ok := authenticate(w, r, h.verifier)
	if !ok {
		return
	}

	var req struct {
		Content  string `json:"content"`
		ImageURL string `json:"imageUrl"`
		Type     string `json:"type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}

	rec := &model.MemoryRecord{
		FamilyID:   mux.Vars(r)["familyId"],
		AuthorID:   caller.UserID,
		AuthorName: caller.DisplayName,
		Content:    req.Content,
		ImageURL:   req.ImageURL,
		Type:       req.Type,
	}
	out, err := h.svc.CreateRecord(r.Context(), rec)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, out)
}

// ListDay GET /api/families/{familyId}/memories?date=YYYY-MM-DD
func (h *MemoryHandler) ListDay(w http.ResponseWriter, r *http.Request) {
	if _, ok := authenticate(w, r, h.verifier); !ok {
		return
	}

	date := r.URL.Query().Get("date")
	if date == "" {
		respond.WriteBadRequest(w, "date query parameter required")
		return
	}
	start, end, err := scrapbook.DayWindow(date, h.loc)
	if err != nil {
		respond.WriteBadRequest(w, "date must be YYYY-MM-DD")
		return
	}

	out, err := h.svc.ListDay(r.Context(), mux.Vars(r)["familyId"], start, end)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if out == nil {
		out = []*model.MemoryRecord{}
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"memories": out, "count": len(out)})
}

// SetReaction PATCH /api/families/{familyId}/memories/{memoryId}/reactions
func (h *MemoryHandler) SetReaction(w http.ResponseWriter, r *http.Request) {
	caller, ok := authenticate(w, r, h.verifier)
	if !ok {
		return
	}

	var req struct {
		Reaction string `json:"reaction"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}

	v := mux.Vars(r)
	out, err := h.svc.SetReaction(r.Context(), v["familyId"], v["memoryId"], caller.UserID, req.Reaction)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}
