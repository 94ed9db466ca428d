// Package events provides in-process pub-sub connecting document writes to
// the notification fanout handler.
package events

import "github.com/kenangan-app/kenangan-server/internal/model"

// MessageCreated fires when a chat message document is created under a family.
type MessageCreated struct {
	Message model.ChatMessage
}

// Bus is a lightweight pub-sub implementation backed by a buffered channel.
// It is constructed at startup and injected; there is no package-level state.
type Bus struct {
	ch chan MessageCreated
}

// NewBus creates a bus with the given buffer size.
func NewBus(buffer int) *Bus {
	if buffer <= 0 {
		buffer = 1
	}
	return &Bus{ch: make(chan MessageCreated, buffer)}
}

// Publish attempts to enqueue the event without blocking.
// Returns false when the buffer is full; delivery is best-effort.
func (b *Bus) Publish(evt MessageCreated) bool {
	select {
	case b.ch <- evt:
		return true
	default:
		return false
	}
}

// Subscribe returns the read-only event channel for the consumer loop.
func (b *Bus) Subscribe() <-chan MessageCreated {
	return b.ch
}
