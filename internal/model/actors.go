package model

// ActorKind distinguishes real family members from capability-tagged system
// actors so that sentinel checks live in one place.
type ActorKind int

const (
	ActorHuman ActorKind = iota
	ActorSystemAssistant
)

// Reserved sender/author identities.
const (
	// ScrapbookAuthorID tags memory records created by the art pipeline.
	ScrapbookAuthorID = "ai_scrapbook"
	// ScrapbookAuthorName is the display label on generated pages.
	ScrapbookAuthorName = "Buku Kenangan 📖"

	assistantSenderID = "system_ai"
	botSenderID       = "ai_bot"
)

// AssistantDisplayName replaces the sender name on notifications authored by
// a system actor.
const AssistantDisplayName = "Asisten AI"

// ActorKindForID classifies a sender or author identifier.
func ActorKindForID(id string) ActorKind {
	switch id {
	case assistantSenderID, botSenderID, ScrapbookAuthorID:
		return ActorSystemAssistant
	default:
		return ActorHuman
	}
}
