package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	respond "github.com/kenangan-app/kenangan-server/internal/api/respond"
	"github.com/kenangan-app/kenangan-server/internal/auth"
	"github.com/kenangan-app/kenangan-server/internal/model"
	"github.com/kenangan-app/kenangan-server/internal/scrapbook"
)

// User-facing messages mirror the mobile client's locale.
const (
	msgNoAPIKey        = "API Key belum dikonfigurasi di server."
	msgGenerateFailure = "Gagal memproses scrapbook."
)

// Generator runs the daily scrapbook pipeline.
type Generator interface {
	Generate(ctx context.Context, req scrapbook.Request) (scrapbook.Outcome, error)
}

type ScrapbookHandler struct {
	gen      Generator
	verifier auth.Verifier
	// credentialed is false when no image-generation API key is configured;
	// requests then fail fast with 412 instead of reaching the synthesizer.
	credentialed bool
	timeout      time.Duration
	log          zerolog.Logger
}

func NewScrapbookHandler(gen Generator, verifier auth.Verifier, credentialed bool, timeout time.Duration, log zerolog.Logger) *ScrapbookHandler {
	return &ScrapbookHandler{gen: gen, verifier: verifier, credentialed: credentialed, timeout: timeout, log: log}
}

// Generate POST /api/scrapbooks/generate
func (h *ScrapbookHandler) Generate(w http.ResponseWriter, r *http.Request) {
	caller, ok := authenticate(w, r, h.verifier)
	if !ok {
		return
	}
	if !h.credentialed {
		respond.WritePreconditionFailed(w, msgNoAPIKey)
		return
	}

	var req scrapbook.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	if req.FamilyID == "" || req.DateString == "" {
		respond.WriteBadRequest(w, "familyId and dateString required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	out, err := h.gen.Generate(ctx, req)
	if err != nil {
		if errors.Is(err, model.ErrValidation) {
			respond.WriteBadRequest(w, err.Error())
			return
		}
		// Pipeline detail stays in the logs; clients get a generic message.
		h.log.Error().Stack().Err(err).
			Str("family", req.FamilyID).
			Str("date", req.DateString).
			Str("caller", caller.UserID).
			Msg("scrapbook generation failed")
		respond.WriteInternalError(w, msgGenerateFailure)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}
