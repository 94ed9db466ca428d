package services

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/kenangan-app/kenangan-server/internal/events"
	"github.com/kenangan-app/kenangan-server/internal/model"
	"github.com/kenangan-app/kenangan-server/internal/store"
)

// ChatService creates chat messages and emits creation events for the
// notification fanout.
type ChatService struct {
	store store.Store
	bus   *events.Bus
	log   zerolog.Logger
}

func NewChatService(s store.Store, bus *events.Bus, log zerolog.Logger) *ChatService {
	return &ChatService{store: s, bus: bus, log: log}
}

func (s *ChatService) PostMessage(ctx context.Context, msg *model.ChatMessage) (*model.ChatMessage, error) {
	if msg.FamilyID == "" || msg.SenderID == "" {
		return nil, errors.Wrap(model.ErrValidation, "familyId and senderId required")
	}
	if msg.Content == "" && msg.Type != model.RecordTypeImage {
		return nil, errors.Wrap(model.ErrValidation, "content required")
	}
	if msg.Type == "" {
		msg.Type = model.RecordTypeText
	}
	if _, err := s.store.Families().Get(ctx, msg.FamilyID); err != nil {
		return nil, err
	}

	out, err := s.store.Messages().Create(ctx, msg)
	if err != nil {
		return nil, err
	}

	// Best-effort: a full bus drops the event rather than blocking the write.
	if ok := s.bus.Publish(events.MessageCreated{Message: *out}); !ok {
		s.log.Warn().Str("message", out.MessageID).Msg("event bus full, notification dropped")
	}
	return out, nil
}
