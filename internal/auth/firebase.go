package auth

import (
	"context"

	fbauth "firebase.google.com/go/v4/auth"
	"github.com/pkg/errors"

	"github.com/kenangan-app/kenangan-server/internal/model"
)

// FirebaseVerifier validates Firebase ID tokens from the mobile client.
type FirebaseVerifier struct {
	client *fbauth.Client
}

func NewFirebaseVerifier(client *fbauth.Client) *FirebaseVerifier {
	return &FirebaseVerifier{client: client}
}

func (v *FirebaseVerifier) Verify(ctx context.Context, token string) (*Caller, error) {
	decoded, err := v.client.VerifyIDToken(ctx, token)
	if err != nil {
		return nil, errors.Wrap(model.ErrUnauthenticated, err.Error())
	}
	c := &Caller{UserID: decoded.UID}
	if name, ok := decoded.Claims["name"].(string); ok {
		c.DisplayName = name
	}
	return c, nil
}
