package scrapbook

import "context"

// Synthesizer is the opaque image-generation capability: given text and up to
// two reference images, produce one image. Implementations make exactly one
// attempt; there is no retry policy at this level.
type Synthesizer interface {
	Generate(ctx context.Context, p Payload) (*Artifact, error)
}
