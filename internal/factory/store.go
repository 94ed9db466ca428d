package factory

import (
	"context"
	"fmt"

	fs "cloud.google.com/go/firestore"
	"github.com/rs/zerolog"

	"github.com/kenangan-app/kenangan-server/internal/config"
	storepkg "github.com/kenangan-app/kenangan-server/internal/store"
	storefs "github.com/kenangan-app/kenangan-server/internal/store/firestore"
	storepg "github.com/kenangan-app/kenangan-server/internal/store/postgres"
	storesqlite "github.com/kenangan-app/kenangan-server/internal/store/sqlite"
)

// NewStore returns the configured store.Store implementation.
// Schema setup for the SQL drivers happens synchronously; health checks need a
// working connection immediately.
func NewStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (storepkg.Store, error) {
	switch cfg.StoreDriver {
	case "sqlite":
		st, err := storesqlite.New(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		log.Info().Str("path", cfg.SQLitePath).Msg("sqlite store ready")
		return st, nil

	case "postgres":
		if cfg.PostgresDSN == "" {
			return nil, fmt.Errorf("KENANGAN_POSTGRES_DSN is required when STORE_DRIVER=postgres")
		}
		db, err := storepg.Open(cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		if err := storepg.EnsureSchema(db); err != nil {
			return nil, err
		}
		log.Info().Msg("postgres store ready")
		return storepg.NewWithDB(db), nil

	case "firestore":
		client, err := fs.NewClient(ctx, cfg.GCPProjectID)
		if err != nil {
			return nil, err
		}
		log.Info().Str("project", cfg.GCPProjectID).Msg("firestore store ready")
		return storefs.New(client), nil

	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER: %s", cfg.StoreDriver)
	}
}
