// Package fanout turns chat-message creation events into multicast push
// notifications. Delivery is best-effort, at-most-once: failures are logged,
// never retried, and never surfaced to end users.
package fanout

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/kenangan-app/kenangan-server/internal/events"
	"github.com/kenangan-app/kenangan-server/internal/model"
	"github.com/kenangan-app/kenangan-server/internal/push"
	"github.com/kenangan-app/kenangan-server/internal/store"
)

const (
	photoBody     = "📷 Mengirim foto"
	emergencyBody = "🚨 SOS! Pesan darurat!"
	sosMarker     = "SOS"

	clickAction = "FLUTTER_NOTIFICATION_CLICK"
)

// Handler processes one message-created event per invocation. Stateless;
// concurrent invocations need no coordination.
type Handler struct {
	store     store.Store
	sender    push.Sender
	log       zerolog.Logger
	batchSize int
}

// NewHandler constructs a fanout handler. batchSize caps each token lookup
// and must not exceed the backing query's "in" item limit.
func NewHandler(st store.Store, sender push.Sender, batchSize int, log zerolog.Logger) *Handler {
	if batchSize <= 0 {
		batchSize = 10
	}
	return &Handler{store: st, sender: sender, batchSize: batchSize, log: log}
}

// Run consumes the bus until ctx is canceled. Per-event errors are logged and
// the loop continues; there is no caller to report to.
func (h *Handler) Run(ctx context.Context, bus *events.Bus) {
	h.log.Info().Msg("notification fanout starting")
	for {
		select {
		case <-ctx.Done():
			h.log.Info().Msg("notification fanout stopping")
			return
		case evt, ok := <-bus.Subscribe():
			if !ok {
				return
			}
			if err := h.Handle(ctx, evt.Message); err != nil {
				h.log.Error().Stack().Err(err).
					Str("family", evt.Message.FamilyID).
					Str("message", evt.Message.MessageID).
					Msg("chat notification failed")
			}
		}
	}
}

// Handle resolves recipients and dispatches one multicast push for msg.
// Missing family, no recipients and no tokens are benign terminal states.
func (h *Handler) Handle(ctx context.Context, msg model.ChatMessage) error {
	fam, err := h.store.Families().Get(ctx, msg.FamilyID)
	if errors.Is(err, model.ErrNotFound) {
		h.log.Warn().Str("family", msg.FamilyID).Msg("family not found, skip notification")
		return nil
	}
	if err != nil {
		return errors.Wrap(err, "resolve family")
	}

	recipients := excludeSender(fam.MemberIDs, msg.SenderID)
	if len(recipients) == 0 {
		h.log.Info().Str("family", msg.FamilyID).Msg("no recipients besides sender, skip notification")
		return nil
	}

	tokens, err := h.resolveTokens(ctx, recipients)
	if err != nil {
		return errors.Wrap(err, "resolve device tokens")
	}
	if len(tokens) == 0 {
		h.log.Info().Str("family", msg.FamilyID).Int("recipients", len(recipients)).
			Msg("no registered tokens, skip notification")
		return nil
	}

	report, err := h.sender.SendMulticast(ctx, push.Multicast{
		Title: notificationTitle(msg),
		Body:  NotificationBody(msg),
		Data: map[string]string{
			"click_action": clickAction,
			"familyId":     msg.FamilyID,
			"type":         "chat",
		},
		Tokens: tokens,
	})
	if err != nil {
		return errors.Wrap(err, "send multicast")
	}

	evt := h.log.Info().
		Str("family", msg.FamilyID).
		Int("success", report.SuccessCount).
		Int("failure", report.FailureCount)
	if len(report.FailedTokens) > 0 {
		// Failed tokens are reported for operators; pruning them from the
		// device registry is a separate cleanup concern.
		evt = evt.Strs("failed_tokens", report.FailedTokens)
	}
	evt.Msg("chat notification dispatched")
	return nil
}

// NotificationBody derives the push body from the message. The SOS check runs
// after the type check so an emergency marker overrides the photo label.
func NotificationBody(msg model.ChatMessage) string {
	body := msg.Content
	if msg.Type == model.RecordTypeImage {
		body = photoBody
	}
	if strings.Contains(msg.Content, sosMarker) {
		body = emergencyBody
	}
	return body
}

func notificationTitle(msg model.ChatMessage) string {
	if model.ActorKindForID(msg.SenderID) == model.ActorSystemAssistant {
		return model.AssistantDisplayName
	}
	return msg.SenderName
}

func excludeSender(memberIDs []string, senderID string) []string {
	out := make([]string, 0, len(memberIDs))
	for _, id := range memberIDs {
		if id != senderID {
			out = append(out, id)
		}
	}
	return out
}

// resolveTokens flattens all recipients' token sets. The lookup is chunked at
// batchSize ids per query; chunks run concurrently and results are merged.
// Duplicate tokens across users are kept as-is.
func (h *Handler) resolveTokens(ctx context.Context, userIDs []string) ([]string, error) {
	chunks := chunkIDs(userIDs, h.batchSize)
	perChunk := make([][]string, len(chunks))

	g, gctx := errgroup.WithContext(ctx)
	for i, chunk := range chunks {
		g.Go(func() error {
			tokens, err := h.store.Devices().ListTokens(gctx, chunk)
			if err != nil {
				return err
			}
			perChunk[i] = tokens
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []string
	for _, tokens := range perChunk {
		out = append(out, tokens...)
	}
	return out, nil
}

func chunkIDs(ids []string, size int) [][]string {
	var chunks [][]string
	for len(ids) > size {
		chunks = append(chunks, ids[:size])
		ids = ids[size:]
	}
	if len(ids) > 0 {
		chunks = append(chunks, ids)
	}
	return chunks
}
