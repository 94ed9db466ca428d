package scrapbook

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/kenangan-app/kenangan-server/internal/blob"
	"github.com/kenangan-app/kenangan-server/internal/model"
	"github.com/kenangan-app/kenangan-server/internal/store"
)

// Service orchestrates the scrapbook pipeline. Stages run strictly
// sequentially; each stage's output feeds the next. Invocations are stateless
// and independent, so concurrent runs for different families need no
// coordination.
type Service struct {
	store   store.Store
	fetcher ReferenceFetcher
	synth   Synthesizer
	blobs   blob.Store
	log     zerolog.Logger

	// now and loc are injectable for deterministic paths and day windows in tests.
	now func() time.Time
	loc *time.Location
}

func NewService(st store.Store, fetcher ReferenceFetcher, synth Synthesizer, blobs blob.Store, log zerolog.Logger) *Service {
	return &Service{
		store:   st,
		fetcher: fetcher,
		synth:   synth,
		blobs:   blobs,
		log:     log,
		now:     time.Now,
		loc:     time.Local,
	}
}

// WithClock overrides the wall clock and day-window location.
func (s *Service) WithClock(now func() time.Time, loc *time.Location) *Service {
	s.now = now
	s.loc = loc
	return s
}

// Generate runs the pipeline once for one family and one calendar day.
// An empty day yields a non-error Outcome with Success=false; stage failures
// return a *StageFailure.
func (s *Service) Generate(ctx context.Context, req Request) (Outcome, error) {
	content, err := s.aggregate(ctx, req)
	if err != nil {
		return Outcome{}, err
	}
	if content.Empty() {
		s.log.Info().Str("family", req.FamilyID).Str("date", req.DateString).Msg("no memories for day, nothing to render")
		return Outcome{Success: false, Message: msgNothingToRender}, nil
	}

	images := s.fetcher.Fetch(ctx, content.PhotoURLs)

	payload := Payload{Prompt: ComposePrompt(req.DateString, content.StoryText), Images: images}

	artifact, err := s.synth.Generate(ctx, payload)
	if err != nil {
		return Outcome{}, failStage(FailGeneration, err)
	}

	url, err := s.persist(ctx, req, artifact)
	if err != nil {
		return Outcome{}, err
	}

	s.log.Info().Str("family", req.FamilyID).Str("date", req.DateString).Str("url", url).
		Int("reference_images", len(images)).Msg("scrapbook page generated")
	return Outcome{Success: true, ImageURL: url, Message: msgSuccess}, nil
}

// aggregate queries the family's records inside the day window and folds them
// into story text and an ordered photo list.
func (s *Service) aggregate(ctx context.Context, req Request) (DayContent, error) {
	start, end, err := DayWindow(req.DateString, s.loc)
	if err != nil {
		return DayContent{}, errors.Wrapf(model.ErrValidation, "invalid dateString %q: %v", req.DateString, err)
	}

	recs, err := s.store.Memories().ListByDay(ctx, model.ListDayRequest{
		FamilyID: req.FamilyID,
		Start:    start,
		End:      end,
	})
	if err != nil {
		return DayContent{}, errors.Wrap(err, "query day memories")
	}

	var content DayContent
	for _, rec := range recs {
		if rec.Content != "" {
			content.StoryText += rec.Content + contentSeparator
		}
		if rec.ImageURL != "" {
			content.PhotoURLs = append(content.PhotoURLs, rec.ImageURL)
		}
	}
	return content, nil
}

// persist writes the artifact to object storage under a per-invocation path
// and appends the scrapbook_page record. On record-write failure the stored
// object is deleted best-effort so repeated runs do not accumulate orphans.
func (s *Service) persist(ctx context.Context, req Request, artifact *Artifact) (string, error) {
	contentType := artifact.ContentType
	if contentType == "" {
		contentType = artifactContentType
	}

	path := fmt.Sprintf("families/%s/scrapbooks/%s_%d.png", req.FamilyID, req.DateString, s.now().UnixMilli())
	url, err := s.blobs.Save(ctx, path, contentType, artifact.Data)
	if err != nil {
		return "", failStage(FailPersistence, errors.Wrap(err, "store artifact"))
	}

	_, err = s.store.Memories().Create(ctx, &model.MemoryRecord{
		FamilyID:   req.FamilyID,
		AuthorID:   model.ScrapbookAuthorID,
		AuthorName: model.ScrapbookAuthorName,
		Content:    "Halaman jurnal otomatis tanggal " + req.DateString,
		ImageURL:   url,
		Date:       s.now(),
		Type:       model.RecordTypeScrapbook,
		Reactions:  map[string]string{},
		SourceDate: req.DateString,
	})
	if err != nil {
		if delErr := s.blobs.Delete(ctx, path); delErr != nil {
			s.log.Warn().Err(delErr).Str("path", path).Msg("compensating blob delete failed, object orphaned")
		}
		return "", failStage(FailPersistence, errors.Wrap(err, "create scrapbook record"))
	}
	return url, nil
}
