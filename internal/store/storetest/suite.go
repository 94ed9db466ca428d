package storetest

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/kenangan-app/kenangan-server/internal/model"
	"github.com/kenangan-app/kenangan-server/internal/store"
)

// Run exercises a minimal compliance suite against a store.Store implementation.
// Implementations should provide a clean, isolated store from makeStore.
func Run(t *testing.T, makeStore func(t *testing.T) store.Store) {
	t.Helper()

	s := makeStore(t)
	ctx := context.Background()

	famID := "f-" + uuid.New().String()

	// Families
	fam, err := s.Families().Create(ctx, &model.Family{
		FamilyID:  famID,
		Name:      "Keluarga Uji",
		MemberIDs: []string{"ayah", "ibu", "adik"},
	})
	if err != nil {
		t.Fatalf("CreateFamily: %v", err)
	}
	got, err := s.Families().Get(ctx, fam.FamilyID)
	if err != nil || got == nil || got.Name != "Keluarga Uji" || len(got.MemberIDs) != 3 {
		t.Fatalf("GetFamily: got=%v err=%v", got, err)
	}
	if _, err := s.Families().Get(ctx, "missing"); err != model.ErrNotFound {
		t.Fatalf("GetFamily missing: want ErrNotFound, got %v", err)
	}

	// Memories inside and outside one day window
	day := time.Date(2026, 8, 14, 0, 0, 0, 0, time.UTC)
	mk := func(at time.Time, content, imageURL string) *model.MemoryRecord {
		rec, err := s.Memories().Create(ctx, &model.MemoryRecord{
			FamilyID:   famID,
			AuthorID:   "ayah",
			AuthorName: "Ayah",
			Content:    content,
			ImageURL:   imageURL,
			Date:       at,
			Type:       model.RecordTypeText,
		})
		if err != nil {
			t.Fatalf("CreateMemory: %v", err)
		}
		return rec
	}
	first := mk(day.Add(8*time.Hour), "Sarapan bersama", "")
	mk(day.Add(12*time.Hour), "Piknik di taman", "https://example.test/piknik.jpg")
	// outside the window: previous and next day
	mk(day.Add(-time.Millisecond), "Kemarin", "")
	mk(day.Add(24*time.Hour), "Besok pagi", "")

	recs, err := s.Memories().ListByDay(ctx, model.ListDayRequest{
		FamilyID: famID,
		Start:    day,
		End:      day.Add(24*time.Hour - time.Millisecond),
	})
	if err != nil {
		t.Fatalf("ListByDay: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("ListByDay: want 2 records in window, got %d", len(recs))
	}
	if !sort.SliceIsSorted(recs, func(i, j int) bool { return recs[i].Date.Before(recs[j].Date) }) {
		t.Fatalf("ListByDay: records not in ascending date order")
	}

	// Reactions are the only mutable field
	upd, err := s.Memories().SetReaction(ctx, famID, first.RecordID, "ibu", "❤️")
	if err != nil {
		t.Fatalf("SetReaction: %v", err)
	}
	if upd.Reactions["ibu"] != "❤️" {
		t.Fatalf("SetReaction: reaction not recorded: %v", upd.Reactions)
	}
	back, err := s.Memories().GetByID(ctx, famID, first.RecordID)
	if err != nil || back.Reactions["ibu"] != "❤️" || back.Content != "Sarapan bersama" {
		t.Fatalf("GetByID after reaction: got=%v err=%v", back, err)
	}

	// Messages
	msg, err := s.Messages().Create(ctx, &model.ChatMessage{
		FamilyID:   famID,
		SenderID:   "ibu",
		SenderName: "Ibu",
		Content:    "Sudah makan?",
		Type:       model.RecordTypeText,
	})
	if err != nil || msg.MessageID == "" {
		t.Fatalf("CreateMessage: msg=%v err=%v", msg, err)
	}

	// Devices
	for _, d := range []model.Device{
		{UserID: "ayah", Token: "tok-ayah-1"},
		{UserID: "ayah", Token: "tok-ayah-2"},
		{UserID: "ibu", Token: "tok-ibu-1"},
		{UserID: "adik", Token: "tok-adik-1"},
	} {
		dev := d
		if _, err := s.Devices().Register(ctx, &dev); err != nil {
			t.Fatalf("RegisterDevice: %v", err)
		}
	}
	tokens, err := s.Devices().ListTokens(ctx, []string{"ayah", "ibu"})
	if err != nil {
		t.Fatalf("ListTokens: %v", err)
	}
	if len(tokens) != 3 {
		t.Fatalf("ListTokens: want 3 tokens, got %v", tokens)
	}
	none, err := s.Devices().ListTokens(ctx, nil)
	if err != nil || len(none) != 0 {
		t.Fatalf("ListTokens empty input: tokens=%v err=%v", none, err)
	}
}
