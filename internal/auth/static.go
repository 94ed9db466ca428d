package auth

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"github.com/kenangan-app/kenangan-server/internal/model"
)

// StaticVerifier treats the bearer token itself as the user id, optionally
// "userId:displayName". Local and cloud-dev targets only; never production.
type StaticVerifier struct{}

func NewStaticVerifier() *StaticVerifier { return &StaticVerifier{} }

func (v *StaticVerifier) Verify(ctx context.Context, token string) (*Caller, error) {
	if token == "" {
		return nil, errors.Wrap(model.ErrUnauthenticated, "empty token")
	}
	parts := strings.SplitN(token, ":", 2)
	c := &Caller{UserID: parts[0]}
	if len(parts) == 2 {
		c.DisplayName = parts[1]
	}
	return c, nil
}
