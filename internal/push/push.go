// Package push abstracts multicast push-notification delivery.
package push

import "context"

// Multicast is one notification delivered to many device tokens.
type Multicast struct {
	Title  string
	Body   string
	Data   map[string]string
	Tokens []string
}

// Report carries per-dispatch accounting. FailedTokens lists tokens that
// individually failed; they are reported, not pruned.
type Report struct {
	SuccessCount int
	FailureCount int
	FailedTokens []string
}

// Sender dispatches one multicast push in a single call.
// Delivery is best-effort, at-most-once; there is no retry.
type Sender interface {
	SendMulticast(ctx context.Context, m Multicast) (Report, error)
}
