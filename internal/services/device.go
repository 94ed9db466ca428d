package services

import (
	"context"

	"github.com/pkg/errors"

	"github.com/kenangan-app/kenangan-server/internal/model"
	"github.com/kenangan-app/kenangan-server/internal/store"
)

// DeviceService registers push-notification tokens.
type DeviceService struct {
	store store.Store
}

func NewDeviceService(s store.Store) *DeviceService {
	return &DeviceService{store: s}
}

func (s *DeviceService) Register(ctx context.Context, dev *model.Device) (*model.Device, error) {
	if dev.UserID == "" || dev.Token == "" {
		return nil, errors.Wrap(model.ErrValidation, "userId and token required")
	}
	return s.store.Devices().Register(ctx, dev)
}
