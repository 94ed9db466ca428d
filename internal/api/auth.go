package api

import (
	"net/http"

	"github.com/pkg/errors"

	respond "github.com/kenangan-app/kenangan-server/internal/api/respond"
	"github.com/kenangan-app/kenangan-server/internal/auth"
	"github.com/kenangan-app/kenangan-server/internal/model"
)

// authenticate resolves the caller behind the request, writing a 401 on failure.
func authenticate(w http.ResponseWriter, r *http.Request, v auth.Verifier) (*auth.Caller, bool) {
	token, err := auth.ExtractBearer(r)
	if err != nil {
		respond.WriteUnauthorized(w, "Unauthorized: "+err.Error())
		return nil, false
	}
	caller, err := v.Verify(r.Context(), token)
	if err != nil {
		respond.WriteUnauthorized(w, "Unauthorized: "+err.Error())
		return nil, false
	}
	return caller, true
}

// writeServiceError maps service errors onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, model.ErrValidation):
		respond.WriteBadRequest(w, err.Error())
	case errors.Is(err, model.ErrNotFound):
		respond.WriteNotFound(w, err.Error())
	case errors.Is(err, model.ErrUnauthenticated):
		respond.WriteUnauthorized(w, err.Error())
	case errors.Is(err, model.ErrConflict):
		respond.WriteError(w, http.StatusConflict, err.Error())
	case errors.Is(err, model.ErrPreconditionFailed):
		respond.WritePreconditionFailed(w, err.Error())
	default:
		respond.WriteInternalError(w, err.Error())
	}
}
