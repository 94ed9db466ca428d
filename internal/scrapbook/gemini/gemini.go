// Package gemini implements the scrapbook synthesizer on the Gemini image API.
package gemini

import (
	"context"

	"github.com/pkg/errors"
	"google.golang.org/genai"

	"github.com/kenangan-app/kenangan-server/internal/scrapbook"
)

const (
	// Image-only output at a fixed aspect ratio and resolution tier.
	aspectRatio = "1:1"
	imageSize   = "1K"
)

// Synthesizer invokes the Gemini image-generation model. Single synchronous
// call per request; the caller's context deadline bounds total latency.
type Synthesizer struct {
	client *genai.Client
	model  string
}

// New constructs a Synthesizer with the given API key and model name.
func New(ctx context.Context, apiKey, model string) (*Synthesizer, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, errors.Wrap(err, "create genai client")
	}
	return &Synthesizer{client: client, model: model}, nil
}

func (s *Synthesizer) Generate(ctx context.Context, p scrapbook.Payload) (*scrapbook.Artifact, error) {
	// Text part first, then reference images in fetch order.
	parts := []*genai.Part{genai.NewPartFromText(p.Prompt)}
	for _, img := range p.Images {
		parts = append(parts, &genai.Part{
			InlineData: &genai.Blob{MIMEType: img.MIMEType, Data: img.Data},
		})
	}

	resp, err := s.client.Models.GenerateContent(ctx, s.model,
		[]*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)},
		&genai.GenerateContentConfig{
			ResponseModalities: []string{"IMAGE"},
			ImageConfig: &genai.ImageConfig{
				AspectRatio: aspectRatio,
				ImageSize:   imageSize,
			},
		})
	if err != nil {
		return nil, errors.Wrap(err, "generate content")
	}

	if len(resp.Candidates) == 0 {
		return nil, errors.New("no image generated")
	}
	first := resp.Candidates[0]
	if first.Content == nil {
		return nil, errors.New("response format invalid (no content)")
	}
	for _, part := range first.Content.Parts {
		if part.InlineData != nil && len(part.InlineData.Data) > 0 {
			return &scrapbook.Artifact{
				Data:        part.InlineData.Data,
				ContentType: "image/png",
			}, nil
		}
	}
	return nil, errors.New("response format invalid (no inline data)")
}
