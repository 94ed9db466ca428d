package fanout

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/kenangan-app/kenangan-server/internal/model"
	"github.com/kenangan-app/kenangan-server/internal/push"
	"github.com/kenangan-app/kenangan-server/internal/store"
)

// --- Fakes ---

type fakeFamilies struct {
	fam *model.Family
}

func (f *fakeFamilies) Create(ctx context.Context, fam *model.Family) (*model.Family, error) {
	panic("unused")
}

func (f *fakeFamilies) Get(ctx context.Context, familyID string) (*model.Family, error) {
	if f.fam == nil || f.fam.FamilyID != familyID {
		return nil, model.ErrNotFound
	}
	return f.fam, nil
}

type fakeDevices struct {
	mu       sync.Mutex
	tokens   map[string][]string
	lookups  [][]string
	queryErr error
}

func (f *fakeDevices) Register(ctx context.Context, d *model.Device) (*model.Device, error) {
	panic("unused")
}

func (f *fakeDevices) ListTokens(ctx context.Context, userIDs []string) ([]string, error) {
	f.mu.Lock()
	f.lookups = append(f.lookups, userIDs)
	f.mu.Unlock()
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	var out []string
	for _, id := range userIDs {
		out = append(out, f.tokens[id]...)
	}
	return out, nil
}

type fanoutStore struct {
	families *fakeFamilies
	devices  *fakeDevices
}

func (s *fanoutStore) Memories() store.Memories { panic("unused") }
func (s *fanoutStore) Families() store.Families { return s.families }
func (s *fanoutStore) Messages() store.Messages { panic("unused") }
func (s *fanoutStore) Devices() store.Devices   { return s.devices }

type fakeSender struct {
	sent []push.Multicast
	rep  push.Report
}

func (f *fakeSender) SendMulticast(ctx context.Context, m push.Multicast) (push.Report, error) {
	f.sent = append(f.sent, m)
	if f.rep.SuccessCount == 0 && f.rep.FailureCount == 0 {
		return push.Report{SuccessCount: len(m.Tokens)}, nil
	}
	return f.rep, nil
}

func newTestHandler(fam *model.Family, tokens map[string][]string, sender *fakeSender) (*Handler, *fakeDevices) {
	devices := &fakeDevices{tokens: tokens}
	st := &fanoutStore{families: &fakeFamilies{fam: fam}, devices: devices}
	return NewHandler(st, sender, 10, zerolog.Nop()), devices
}

func chatMsg(senderID, content, typ string) model.ChatMessage {
	return model.ChatMessage{
		MessageID:  "msg-1",
		FamilyID:   "fam-1",
		SenderID:   senderID,
		SenderName: "Ibu",
		Content:    content,
		Type:       typ,
	}
}

// --- Tests ---

func TestHandle_SenderExcludedFromRecipients(t *testing.T) {
	fam := &model.Family{FamilyID: "fam-1", MemberIDs: []string{"ayah", "ibu", "adik"}}
	sender := &fakeSender{}
	h, devices := newTestHandler(fam, map[string][]string{
		"ayah": {"tok-ayah"},
		"ibu":  {"tok-ibu"},
		"adik": {"tok-adik"},
	}, sender)

	if err := h.Handle(context.Background(), chatMsg("ibu", "Sudah makan?", model.RecordTypeText)); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(sender.sent) != 1 {
		t.Fatalf("want one dispatch, got %d", len(sender.sent))
	}
	for _, tok := range sender.sent[0].Tokens {
		if tok == "tok-ibu" {
			t.Fatal("sender token must never be targeted")
		}
	}
	if len(sender.sent[0].Tokens) != 2 {
		t.Fatalf("want 2 recipient tokens, got %v", sender.sent[0].Tokens)
	}
	for _, lookup := range devices.lookups {
		for _, id := range lookup {
			if id == "ibu" {
				t.Fatal("sender id must not be looked up")
			}
		}
	}
}

func TestHandle_NoTokensIsBenignNoOp(t *testing.T) {
	fam := &model.Family{FamilyID: "fam-1", MemberIDs: []string{"ayah", "ibu"}}
	sender := &fakeSender{}
	h, _ := newTestHandler(fam, map[string][]string{}, sender)

	if err := h.Handle(context.Background(), chatMsg("ibu", "halo", model.RecordTypeText)); err != nil {
		t.Fatalf("no tokens must not error: %v", err)
	}
	if len(sender.sent) != 0 {
		t.Fatal("no dispatch expected without tokens")
	}
}

func TestHandle_SoloSenderIsBenignNoOp(t *testing.T) {
	fam := &model.Family{FamilyID: "fam-1", MemberIDs: []string{"ibu"}}
	sender := &fakeSender{}
	h, devices := newTestHandler(fam, map[string][]string{"ibu": {"tok-ibu"}}, sender)

	if err := h.Handle(context.Background(), chatMsg("ibu", "halo", model.RecordTypeText)); err != nil {
		t.Fatalf("solo sender must not error: %v", err)
	}
	if len(sender.sent) != 0 || len(devices.lookups) != 0 {
		t.Fatal("no lookup or dispatch expected when sender is the only member")
	}
}

func TestHandle_MissingFamilyIsBenign(t *testing.T) {
	sender := &fakeSender{}
	h, _ := newTestHandler(nil, nil, sender)

	if err := h.Handle(context.Background(), chatMsg("ibu", "halo", model.RecordTypeText)); err != nil {
		t.Fatalf("missing family must not error: %v", err)
	}
	if len(sender.sent) != 0 {
		t.Fatal("no dispatch expected for missing family")
	}
}

func TestHandle_TokenLookupIsChunked(t *testing.T) {
	members := []string{"sender"}
	tokens := map[string][]string{}
	for i := 0; i < 25; i++ {
		id := fmt.Sprintf("user-%02d", i)
		members = append(members, id)
		tokens[id] = []string{"tok-" + id}
	}
	fam := &model.Family{FamilyID: "fam-1", MemberIDs: members}
	sender := &fakeSender{}
	h, devices := newTestHandler(fam, tokens, sender)

	if err := h.Handle(context.Background(), chatMsg("sender", "halo", model.RecordTypeText)); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(devices.lookups) != 3 {
		t.Fatalf("25 recipients at batch size 10 must take 3 lookups, got %d", len(devices.lookups))
	}
	for _, lookup := range devices.lookups {
		if len(lookup) > 10 {
			t.Fatalf("lookup exceeds batch size: %d", len(lookup))
		}
	}
	if len(sender.sent[0].Tokens) != 25 {
		t.Fatalf("want 25 merged tokens, got %d", len(sender.sent[0].Tokens))
	}
}

func TestHandle_PayloadShape(t *testing.T) {
	fam := &model.Family{FamilyID: "fam-1", MemberIDs: []string{"ayah", "ibu"}}
	sender := &fakeSender{}
	h, _ := newTestHandler(fam, map[string][]string{"ayah": {"tok-ayah"}}, sender)

	if err := h.Handle(context.Background(), chatMsg("ibu", "Sudah makan?", model.RecordTypeText)); err != nil {
		t.Fatalf("handle: %v", err)
	}
	m := sender.sent[0]
	if m.Title != "Ibu" || m.Body != "Sudah makan?" {
		t.Fatalf("unexpected notification: %q / %q", m.Title, m.Body)
	}
	if m.Data["click_action"] != "FLUTTER_NOTIFICATION_CLICK" || m.Data["familyId"] != "fam-1" || m.Data["type"] != "chat" {
		t.Fatalf("unexpected data payload: %v", m.Data)
	}
}

func TestNotificationBody_Rules(t *testing.T) {
	cases := []struct {
		name    string
		content string
		typ     string
		want    string
	}{
		{"plain text", "halo semua", model.RecordTypeText, "halo semua"},
		{"image label", "ignored", model.RecordTypeImage, "📷 Mengirim foto"},
		{"sos in text", "tolong SOS sekarang", model.RecordTypeText, "🚨 SOS! Pesan darurat!"},
		{"sos overrides image label", "SOS", model.RecordTypeImage, "🚨 SOS! Pesan darurat!"},
		{"sos is case sensitive", "sos kecil", model.RecordTypeText, "sos kecil"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := NotificationBody(model.ChatMessage{Content: tc.content, Type: tc.typ})
			if got != tc.want {
				t.Fatalf("body = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestNotificationTitle_AssistantSenders(t *testing.T) {
	for _, id := range []string{"system_ai", "ai_bot"} {
		msg := chatMsg(id, "halo", model.RecordTypeText)
		if got := notificationTitle(msg); got != model.AssistantDisplayName {
			t.Fatalf("title for %s = %q", id, got)
		}
	}
	if got := notificationTitle(chatMsg("ibu", "halo", model.RecordTypeText)); got != "Ibu" {
		t.Fatalf("human title = %q", got)
	}
}
