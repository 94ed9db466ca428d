package factory

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"github.com/rs/zerolog"

	authpkg "github.com/kenangan-app/kenangan-server/internal/auth"
	"github.com/kenangan-app/kenangan-server/internal/config"
	"github.com/kenangan-app/kenangan-server/internal/push"
)

// NewFirebaseApp initializes the Firebase SDK once; messaging and auth clients
// are derived from it. Only called for drivers that need Firebase.
func NewFirebaseApp(ctx context.Context, cfg *config.Config) (*firebase.App, error) {
	return firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.GCPProjectID})
}

// NewPushSender returns the configured push.Sender. The log driver is the
// local/dev stand-in; it records sends instead of dispatching them.
func NewPushSender(ctx context.Context, cfg *config.Config, app *firebase.App, log zerolog.Logger) (push.Sender, error) {
	switch cfg.PushDriver {
	case "log":
		return push.NewLogSender(log), nil
	case "fcm":
		if app == nil {
			return nil, fmt.Errorf("firebase app required for fcm push driver")
		}
		client, err := app.Messaging(ctx)
		if err != nil {
			return nil, err
		}
		return push.NewFCMSender(client), nil
	default:
		return nil, fmt.Errorf("unknown PUSH_DRIVER: %s", cfg.PushDriver)
	}
}

// NewVerifier returns the configured auth.Verifier.
func NewVerifier(ctx context.Context, cfg *config.Config, app *firebase.App) (authpkg.Verifier, error) {
	switch cfg.AuthDriver {
	case "static":
		return authpkg.NewStaticVerifier(), nil
	case "firebase":
		if app == nil {
			return nil, fmt.Errorf("firebase app required for firebase auth driver")
		}
		client, err := app.Auth(ctx)
		if err != nil {
			return nil, err
		}
		return authpkg.NewFirebaseVerifier(client), nil
	default:
		return nil, fmt.Errorf("unknown AUTH_DRIVER: %s", cfg.AuthDriver)
	}
}
