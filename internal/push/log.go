package push

import (
	"context"

	"github.com/rs/zerolog"
)

// LogSender logs dispatches instead of delivering them. Used by the local and
// cloud-dev build targets.
type LogSender struct {
	log zerolog.Logger
}

func NewLogSender(log zerolog.Logger) *LogSender {
	return &LogSender{log: log}
}

func (s *LogSender) SendMulticast(ctx context.Context, m Multicast) (Report, error) {
	s.log.Info().
		Str("title", m.Title).
		Str("body", m.Body).
		Int("tokens", len(m.Tokens)).
		Interface("data", m.Data).
		Msg("push dispatch (log driver)")
	return Report{SuccessCount: len(m.Tokens)}, nil
}
