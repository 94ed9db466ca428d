package services

import (
	"context"

	"github.com/pkg/errors"

	"github.com/kenangan-app/kenangan-server/internal/model"
	"github.com/kenangan-app/kenangan-server/internal/store"
)

// FamilyService manages family documents.
type FamilyService struct {
	store store.Store
}

func NewFamilyService(s store.Store) *FamilyService {
	return &FamilyService{store: s}
}

func (s *FamilyService) Create(ctx context.Context, f *model.Family) (*model.Family, error) {
	if f.Name == "" {
		return nil, errors.Wrap(model.ErrValidation, "name required")
	}
	if len(f.MemberIDs) == 0 {
		return nil, errors.Wrap(model.ErrValidation, "at least one member required")
	}
	return s.store.Families().Create(ctx, f)
}

func (s *FamilyService) Get(ctx context.Context, familyID string) (*model.Family, error) {
	return s.store.Families().Get(ctx, familyID)
}
