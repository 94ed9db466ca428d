package factory

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/kenangan-app/kenangan-server/internal/config"
	"github.com/kenangan-app/kenangan-server/internal/scrapbook"
	"github.com/kenangan-app/kenangan-server/internal/scrapbook/gemini"
)

// NewSynthesizer returns the image synthesizer, or nil when no API key is
// configured. Callers treat a nil synthesizer as "generation unavailable" and
// reject requests with a failed precondition instead of erroring at startup.
func NewSynthesizer(ctx context.Context, cfg *config.Config, log zerolog.Logger) (scrapbook.Synthesizer, error) {
	if cfg.GeminiAPIKey == "" {
		log.Warn().Msg("no Gemini API key configured; scrapbook generation disabled")
		return nil, nil
	}
	synth, err := gemini.New(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		return nil, err
	}
	log.Info().Str("model", cfg.GeminiModel).Msg("image synthesizer ready")
	return synth, nil
}
