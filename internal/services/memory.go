package services

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/kenangan-app/kenangan-server/internal/model"
	"github.com/kenangan-app/kenangan-server/internal/store"
)

// MemoryService orchestrates memory-record use cases outside the art pipeline.
type MemoryService struct {
	store store.Store
}

func NewMemoryService(s store.Store) *MemoryService {
	return &MemoryService{store: s}
}

func (s *MemoryService) CreateRecord(ctx context.Context, rec *model.MemoryRecord) (*model.MemoryRecord, error) {
	if rec.FamilyID == "" {
		return nil, errors.Wrap(model.ErrValidation, "familyId required")
	}
	if rec.Content == "" && rec.ImageURL == "" {
		return nil, errors.Wrap(model.ErrValidation, "record needs content or imageUrl")
	}
	if rec.Type == "" {
		rec.Type = model.RecordTypeText
		if rec.ImageURL != "" {
			rec.Type = model.RecordTypeImage
		}
	}
	if _, err := s.store.Families().Get(ctx, rec.FamilyID); err != nil {
		return nil, err
	}
	return s.store.Memories().Create(ctx, rec)
}

// ListDay returns the family's records for one inclusive day window.
func (s *MemoryService) ListDay(ctx context.Context, familyID string, start, end time.Time) ([]*model.MemoryRecord, error) {
	return s.store.Memories().ListByDay(ctx, model.ListDayRequest{FamilyID: familyID, Start: start, End: end})
}

// SetReaction updates the only mutable field on a record. An empty reaction
// clears the user's entry.
func (s *MemoryService) SetReaction(ctx context.Context, familyID, recordID, userID, reaction string) (*model.MemoryRecord, error) {
	return s.store.Memories().SetReaction(ctx, familyID, recordID, userID, reaction)
}
