package scrapbook

import (
	"fmt"
	"strings"
)

// Payload is one composed generation request: instruction text first, then
// reference images in fetch order.
type Payload struct {
	Prompt string
	Images []ReferenceImage
}

// ComposePrompt deterministically builds the generation instruction from the
// date context and the day's story text. Pure function, no side effects.
func ComposePrompt(dateString, storyText string) string {
	var b strings.Builder
	b.WriteString("Create a digital scrapbook page layout.\n")
	b.WriteString("Theme: Warm family memories, nostalgic, cute aesthetic.\n\n")
	b.WriteString("Content to include visually in the image:\n")
	fmt.Fprintf(&b, "1. A handwritten-style date header: %q.\n", dateString)
	fmt.Fprintf(&b, "2. The following text written creatively on a note or paper scrap element: %q\n", truncateStory(storyText))
	b.WriteString("3. Integrate the provided input images into the layout as polaroid photos or taped snapshots.\n")
	b.WriteString("4. Add decorative stickers like hearts, washi tape, and doodles related to the text content.\n\n")
	b.WriteString("Style: Watercolor and paper texture background. High resolution.")
	return b.String()
}

// truncateStory limits the story to storyTextLimit characters, marking the
// cut with an ellipsis.
func truncateStory(s string) string {
	runes := []rune(s)
	if len(runes) <= storyTextLimit {
		return s
	}
	return string(runes[:storyTextLimit]) + "..."
}
