package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/pkg/errors"

	"github.com/kenangan-app/kenangan-server/internal/model"
)

// Caller identifies the authenticated end user behind a request.
type Caller struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName,omitempty"`
}

// Verifier validates a bearer credential and resolves the caller identity.
type Verifier interface {
	Verify(ctx context.Context, token string) (*Caller, error)
}

// ExtractBearer pulls the bearer token from the Authorization header.
func ExtractBearer(r *http.Request) (string, error) {
	h := r.Header.Get("Authorization")
	if h == "" {
		return "", errors.Wrap(model.ErrUnauthenticated, "missing Authorization header")
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", errors.Wrap(model.ErrUnauthenticated, "malformed Authorization header")
	}
	return parts[1], nil
}
