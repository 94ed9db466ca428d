package push

import (
	"context"

	"firebase.google.com/go/v4/messaging"
)

// FCMSender dispatches via Firebase Cloud Messaging.
type FCMSender struct {
	client *messaging.Client
}

func NewFCMSender(client *messaging.Client) *FCMSender {
	return &FCMSender{client: client}
}

func (s *FCMSender) SendMulticast(ctx context.Context, m Multicast) (Report, error) {
	msg := &messaging.MulticastMessage{
		Tokens: m.Tokens,
		Notification: &messaging.Notification{
			Title: m.Title,
			Body:  m.Body,
		},
		Data: m.Data,
	}
	resp, err := s.client.SendEachForMulticast(ctx, msg)
	if err != nil {
		return Report{}, err
	}

	rep := Report{SuccessCount: resp.SuccessCount, FailureCount: resp.FailureCount}
	for i, r := range resp.Responses {
		if !r.Success && i < len(m.Tokens) {
			rep.FailedTokens = append(rep.FailedTokens, m.Tokens[i])
		}
	}
	return rep, nil
}
