package store

import (
	"context"

	"github.com/kenangan-app/kenangan-server/internal/model"
)

// Store exposes persistence operations required by services.
// Implementations live under internal/store/<driver>/ (firestore, postgres, sqlite).
type Store interface {
	Memories() Memories
	Families() Families
	Messages() Messages
	Devices() Devices
}

// HealthPinger is implemented by stores that support a cheap liveness probe.
type HealthPinger interface {
	HealthPing(ctx context.Context) error
}

type Memories interface {
	Create(ctx context.Context, m *model.MemoryRecord) (*model.MemoryRecord, error)
	GetByID(ctx context.Context, familyID, recordID string) (*model.MemoryRecord, error)
	// ListByDay returns records for the family whose Date falls inside
	// [req.Start, req.End], both ends inclusive, in ascending Date order.
	ListByDay(ctx context.Context, req model.ListDayRequest) ([]*model.MemoryRecord, error)
	// SetReaction updates the only mutable field of a record.
	SetReaction(ctx context.Context, familyID, recordID, userID, reaction string) (*model.MemoryRecord, error)
}

type Families interface {
	Create(ctx context.Context, f *model.Family) (*model.Family, error)
	Get(ctx context.Context, familyID string) (*model.Family, error)
}

type Messages interface {
	Create(ctx context.Context, m *model.ChatMessage) (*model.ChatMessage, error)
}

type Devices interface {
	Register(ctx context.Context, d *model.Device) (*model.Device, error)
	// ListTokens returns the push tokens registered for the given users.
	// Adapters may be backed by an "in" query with a hard item limit; callers
	// are expected to chunk userIDs accordingly (see fanout).
	ListTokens(ctx context.Context, userIDs []string) ([]string, error)
}
