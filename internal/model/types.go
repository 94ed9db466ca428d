package model

import "time"

// Record types stored in the memories collection.
const (
	RecordTypeText      = "text"
	RecordTypeImage     = "image"
	RecordTypeScrapbook = "scrapbook_page"
)

// MemoryRecord is a timestamped, family-scoped note with optional text and/or
// an image reference. Immutable once created except for Reactions.
type MemoryRecord struct {
	RecordID   string            `json:"recordId"`
	FamilyID   string            `json:"familyId"`
	AuthorID   string            `json:"authorId"`
	AuthorName string            `json:"authorName"`
	Content    string            `json:"content,omitempty"`
	ImageURL   string            `json:"imageUrl,omitempty"`
	Date       time.Time         `json:"date"`
	Type       string            `json:"type"`
	Reactions  map[string]string `json:"reactions"`
	// SourceDate is set only on generated scrapbook pages and preserves the
	// calendar day the page was rendered from.
	SourceDate string `json:"sourceDate,omitempty"`
}

// ChatMessage is a message posted under a family chat.
type ChatMessage struct {
	MessageID    string    `json:"messageId"`
	FamilyID     string    `json:"familyId"`
	SenderID     string    `json:"senderId"`
	SenderName   string    `json:"senderName"`
	Content      string    `json:"content"`
	Type         string    `json:"type"`
	CreationTime time.Time `json:"creationTime"`
}

// Family groups members and scopes memories, messages and scrapbooks.
type Family struct {
	FamilyID     string    `json:"familyId"`
	Name         string    `json:"name"`
	MemberIDs    []string  `json:"memberIds"`
	CreationTime time.Time `json:"creationTime"`
}

// Device is a registered push-notification endpoint for one user.
type Device struct {
	UserID       string    `json:"userId"`
	Token        string    `json:"token"`
	Platform     string    `json:"platform,omitempty"`
	CreationTime time.Time `json:"creationTime"`
}

// ListDayRequest captures the filters for a day-window memory query.
// Start and End are inclusive on both ends.
type ListDayRequest struct {
	FamilyID string
	Start    time.Time
	End      time.Time
}
