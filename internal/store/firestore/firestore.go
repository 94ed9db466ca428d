// Package firestore adapts the store interfaces to Cloud Firestore, the
// document database backing the production app.
package firestore

import (
	"context"
	"time"

	fs "cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/kenangan-app/kenangan-server/internal/model"
	"github.com/kenangan-app/kenangan-server/internal/store"
)

const (
	memoriesCollection = "memories"
	familiesCollection = "families"
	messagesCollection = "messages"
	devicesCollection  = "devices"
)

// New constructs a Firestore-backed store around an existing client.
func New(client *fs.Client) store.Store { return &fsStore{client: client} }

type fsStore struct{ client *fs.Client }

func (s *fsStore) Memories() store.Memories { return &memories{client: s.client} }
func (s *fsStore) Families() store.Families { return &families{client: s.client} }
func (s *fsStore) Messages() store.Messages { return &messages{client: s.client} }
func (s *fsStore) Devices() store.Devices   { return &devices{client: s.client} }

// HealthPing implements store.HealthPinger with a cheap single-doc read.
func (s *fsStore) HealthPing(ctx context.Context) error {
	iter := s.client.Collection(familiesCollection).Limit(1).Documents(ctx)
	defer iter.Stop()
	_, err := iter.Next()
	if err == iterator.Done {
		return nil
	}
	return err
}

// memoryDoc is the persisted shape of a memory record. Field names follow the
// mobile client's existing documents.
type memoryDoc struct {
	FamilyID   string            `firestore:"familyId"`
	AuthorID   string            `firestore:"authorId"`
	AuthorName string            `firestore:"authorName"`
	Content    string            `firestore:"content"`
	ImageURL   string            `firestore:"imageUrl"`
	Date       time.Time         `firestore:"date"`
	Type       string            `firestore:"type"`
	Reactions  map[string]string `firestore:"reactions"`
	SourceDate string            `firestore:"sourceDate,omitempty"`
}

func (d *memoryDoc) toModel(id string) *model.MemoryRecord {
	reactions := d.Reactions
	if reactions == nil {
		reactions = map[string]string{}
	}
	return &model.MemoryRecord{
		RecordID:   id,
		FamilyID:   d.FamilyID,
		AuthorID:   d.AuthorID,
		AuthorName: d.AuthorName,
		Content:    d.Content,
		ImageURL:   d.ImageURL,
		Date:       d.Date,
		Type:       d.Type,
		Reactions:  reactions,
		SourceDate: d.SourceDate,
	}
}

// --- Memories ---

type memories struct{ client *fs.Client }

func (m *memories) Create(ctx context.Context, rec *model.MemoryRecord) (*model.MemoryRecord, error) {
	out := *rec
	if out.Date.IsZero() {
		out.Date = time.Now().UTC()
	}
	if out.Reactions == nil {
		out.Reactions = map[string]string{}
	}
	doc := memoryDoc{
		FamilyID:   out.FamilyID,
		AuthorID:   out.AuthorID,
		AuthorName: out.AuthorName,
		Content:    out.Content,
		ImageURL:   out.ImageURL,
		Date:       out.Date,
		Type:       out.Type,
		Reactions:  out.Reactions,
		SourceDate: out.SourceDate,
	}
	ref := m.client.Collection(memoriesCollection).NewDoc()
	if out.RecordID != "" {
		ref = m.client.Collection(memoriesCollection).Doc(out.RecordID)
	}
	if _, err := ref.Create(ctx, doc); err != nil {
		return nil, err
	}
	out.RecordID = ref.ID
	return &out, nil
}

func (m *memories) GetByID(ctx context.Context, familyID, recordID string) (*model.MemoryRecord, error) {
	snap, err := m.client.Collection(memoriesCollection).Doc(recordID).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var doc memoryDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, err
	}
	if doc.FamilyID != familyID {
		return nil, model.ErrNotFound
	}
	return doc.toModel(snap.Ref.ID), nil
}

func (m *memories) ListByDay(ctx context.Context, req model.ListDayRequest) ([]*model.MemoryRecord, error) {
	iter := m.client.Collection(memoriesCollection).
		Where("familyId", "==", req.FamilyID).
		Where("date", ">=", req.Start).
		Where("date", "<=", req.End).
		OrderBy("date", fs.Asc).
		Documents(ctx)
	defer iter.Stop()

	var out []*model.MemoryRecord
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		var doc memoryDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toModel(snap.Ref.ID))
	}
	return out, nil
}

func (m *memories) SetReaction(ctx context.Context, familyID, recordID, userID, reaction string) (*model.MemoryRecord, error) {
	if _, err := m.GetByID(ctx, familyID, recordID); err != nil {
		return nil, err
	}
	val := any(reaction)
	if reaction == "" {
		val = fs.Delete
	}
	_, err := m.client.Collection(memoriesCollection).Doc(recordID).Update(ctx, []fs.Update{
		{FieldPath: fs.FieldPath{"reactions", userID}, Value: val},
	})
	if err != nil {
		return nil, err
	}
	return m.GetByID(ctx, familyID, recordID)
}

// --- Families ---

type familyDoc struct {
	Name         string    `firestore:"name"`
	MemberIDs    []string  `firestore:"memberIds"`
	CreationTime time.Time `firestore:"creationTime,serverTimestamp"`
}

type families struct{ client *fs.Client }

func (f *families) Create(ctx context.Context, fam *model.Family) (*model.Family, error) {
	out := *fam
	ref := f.client.Collection(familiesCollection).NewDoc()
	if out.FamilyID != "" {
		ref = f.client.Collection(familiesCollection).Doc(out.FamilyID)
	}
	if _, err := ref.Create(ctx, familyDoc{Name: out.Name, MemberIDs: out.MemberIDs}); err != nil {
		return nil, err
	}
	out.FamilyID = ref.ID
	if out.CreationTime.IsZero() {
		out.CreationTime = time.Now().UTC()
	}
	return &out, nil
}

func (f *families) Get(ctx context.Context, familyID string) (*model.Family, error) {
	snap, err := f.client.Collection(familiesCollection).Doc(familyID).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var doc familyDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, err
	}
	return &model.Family{
		FamilyID:     snap.Ref.ID,
		Name:         doc.Name,
		MemberIDs:    doc.MemberIDs,
		CreationTime: doc.CreationTime,
	}, nil
}

// --- Messages ---

type messageDoc struct {
	SenderID     string    `firestore:"senderId"`
	SenderName   string    `firestore:"senderName"`
	Content      string    `firestore:"content"`
	Type         string    `firestore:"type"`
	CreationTime time.Time `firestore:"creationTime,serverTimestamp"`
}

type messages struct{ client *fs.Client }

// Create writes the message under families/{familyId}/messages, matching the
// document layout the mobile client listens on.
func (m *messages) Create(ctx context.Context, msg *model.ChatMessage) (*model.ChatMessage, error) {
	out := *msg
	ref := m.client.Collection(familiesCollection).Doc(out.FamilyID).Collection(messagesCollection).NewDoc()
	if out.MessageID != "" {
		ref = m.client.Collection(familiesCollection).Doc(out.FamilyID).Collection(messagesCollection).Doc(out.MessageID)
	}
	doc := messageDoc{
		SenderID:   out.SenderID,
		SenderName: out.SenderName,
		Content:    out.Content,
		Type:       out.Type,
	}
	if _, err := ref.Create(ctx, doc); err != nil {
		return nil, err
	}
	out.MessageID = ref.ID
	if out.CreationTime.IsZero() {
		out.CreationTime = time.Now().UTC()
	}
	return &out, nil
}

// --- Devices ---

type deviceDoc struct {
	UserID       string    `firestore:"userId"`
	Token        string    `firestore:"token"`
	Platform     string    `firestore:"platform,omitempty"`
	CreationTime time.Time `firestore:"creationTime,serverTimestamp"`
}

type devices struct{ client *fs.Client }

func (d *devices) Register(ctx context.Context, dev *model.Device) (*model.Device, error) {
	out := *dev
	// Deterministic doc id makes re-registration an upsert.
	ref := d.client.Collection(devicesCollection).Doc(out.UserID + "_" + out.Token)
	_, err := ref.Set(ctx, deviceDoc{UserID: out.UserID, Token: out.Token, Platform: out.Platform})
	if err != nil {
		return nil, err
	}
	if out.CreationTime.IsZero() {
		out.CreationTime = time.Now().UTC()
	}
	return &out, nil
}

// ListTokens resolves tokens with an "in" query. Firestore caps "in" filters
// at 10 values; callers chunk userIDs before calling (see fanout).
func (d *devices) ListTokens(ctx context.Context, userIDs []string) ([]string, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	iter := d.client.Collection(devicesCollection).
		Where("userId", "in", userIDs).
		Documents(ctx)
	defer iter.Stop()

	var tokens []string
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		var doc deviceDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, err
		}
		tokens = append(tokens, doc.Token)
	}
	return tokens, nil
}
