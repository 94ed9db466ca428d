// Package scrapbook implements the daily memory-art pipeline: aggregate one
// family's memories for a calendar day, synthesize a composite scrapbook
// image, persist it, and append a memory record referencing it.
package scrapbook

import "time"

const (
	// DateLayout is the calendar-day format accepted from callers.
	DateLayout = "2006-01-02"

	// maxReferenceImages bounds inline images per generation request to keep
	// token and payload cost down.
	maxReferenceImages = 2

	// storyTextLimit truncates the aggregated story before prompting.
	storyTextLimit = 150

	contentSeparator = ". "

	artifactContentType = "image/png"
	referenceMIMEType   = "image/jpeg"

	msgNothingToRender = "Tidak ada kenangan di tanggal ini untuk dilukis."
	msgSuccess         = "Berhasil membuat halaman scrapbook!"
)

// Request names exactly one family and one calendar day. Not persisted.
type Request struct {
	DateString string `json:"dateString"`
	FamilyID   string `json:"familyId"`
}

// DayContent is the aggregate of one day's records; derived, discarded after use.
type DayContent struct {
	StoryText string
	PhotoURLs []string
}

// Empty reports whether there is nothing to render for the day.
func (c DayContent) Empty() bool {
	return c.StoryText == "" && len(c.PhotoURLs) == 0
}

// ReferenceImage is a downloaded photo inlined into the generation request.
type ReferenceImage struct {
	MIMEType string
	Data     []byte
}

// Artifact is the decoded image produced by one successful synthesizer call.
type Artifact struct {
	Data        []byte
	ContentType string
}

// Outcome is returned to the callable's caller on the no-op and success paths.
type Outcome struct {
	Success  bool   `json:"success"`
	ImageURL string `json:"imageUrl,omitempty"`
	Message  string `json:"message"`
}

// DayWindow resolves dateString to the inclusive range
// [00:00:00.000, 23:59:59.999] in the given location.
func DayWindow(dateString string, loc *time.Location) (time.Time, time.Time, error) {
	day, err := time.ParseInLocation(DateLayout, dateString, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	start := day
	end := day.Add(24*time.Hour - time.Millisecond)
	return start, end, nil
}
