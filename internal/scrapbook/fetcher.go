package scrapbook

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// ReferenceFetcher downloads a bounded subset of photo URLs for inlining into
// the generation request.
type ReferenceFetcher interface {
	Fetch(ctx context.Context, photoURLs []string) []ReferenceImage
}

// HTTPFetcher downloads photos over HTTP. Fetches run concurrently; output
// order follows input order regardless of completion order. A failed download
// is logged and dropped, never fatal.
type HTTPFetcher struct {
	client *resty.Client
	log    zerolog.Logger
}

func NewHTTPFetcher(log zerolog.Logger) *HTTPFetcher {
	c := resty.New().
		SetTimeout(15 * time.Second).
		SetRedirectPolicy(resty.FlexibleRedirectPolicy(3))
	return &HTTPFetcher{client: c, log: log}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, photoURLs []string) []ReferenceImage {
	if len(photoURLs) > maxReferenceImages {
		photoURLs = photoURLs[:maxReferenceImages]
	}
	if len(photoURLs) == 0 {
		return nil
	}

	slots := make([]*ReferenceImage, len(photoURLs))
	g, gctx := errgroup.WithContext(ctx)
	for i, url := range photoURLs {
		g.Go(func() error {
			img, err := f.fetchOne(gctx, url)
			if err != nil {
				f.log.Warn().Err(err).Str("url", url).Msg("reference photo download failed, skipping")
				return nil
			}
			slots[i] = img
			return nil
		})
	}
	_ = g.Wait() // workers never return errors; failures degrade to fewer images

	out := make([]ReferenceImage, 0, len(slots))
	for _, img := range slots {
		if img != nil {
			out = append(out, *img)
		}
	}
	return out
}

func (f *HTTPFetcher) fetchOne(ctx context.Context, url string) (*ReferenceImage, error) {
	resp, err := f.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("unexpected status %s", resp.Status())
	}
	body := resp.Body()
	if len(body) == 0 {
		return nil, fmt.Errorf("empty response body")
	}
	// The source app stores JPEG uploads; assume it rather than sniffing.
	return &ReferenceImage{MIMEType: referenceMIMEType, Data: body}, nil
}
