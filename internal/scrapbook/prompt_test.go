package scrapbook

import (
	"strings"
	"testing"
)

func TestComposePrompt_Deterministic(t *testing.T) {
	a := ComposePrompt("2026-08-14", "Piknik di taman kota")
	b := ComposePrompt("2026-08-14", "Piknik di taman kota")
	if a != b {
		t.Fatal("prompt must be reproducible for identical inputs")
	}
	if !strings.Contains(a, `"2026-08-14"`) {
		t.Fatalf("prompt missing date header: %s", a)
	}
	if !strings.Contains(a, "Piknik di taman kota") {
		t.Fatalf("prompt missing story text: %s", a)
	}
	if !strings.Contains(a, "polaroid") {
		t.Fatalf("prompt missing layout instruction: %s", a)
	}
}

func TestTruncateStory_ShortTextUnchanged(t *testing.T) {
	if got := truncateStory("pendek"); got != "pendek" {
		t.Fatalf("short text must pass through, got %q", got)
	}
}

func TestTruncateStory_LongTextCutWithEllipsis(t *testing.T) {
	long := strings.Repeat("a", 151)
	got := truncateStory(long)
	if got != strings.Repeat("a", 150)+"..." {
		t.Fatalf("unexpected truncation: len=%d tail=%q", len(got), got[len(got)-5:])
	}

	// exactly at the limit: no marker
	exact := strings.Repeat("b", 150)
	if got := truncateStory(exact); got != exact {
		t.Fatalf("text at limit must not be marked, got %q", got)
	}
}

func TestTruncateStory_CountsRunesNotBytes(t *testing.T) {
	long := strings.Repeat("é", 151)
	got := truncateStory(long)
	if got != strings.Repeat("é", 150)+"..." {
		t.Fatalf("multibyte truncation wrong: %q", got[:12])
	}
}
