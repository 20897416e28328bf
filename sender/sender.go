package sender

import (
	"context"
	"time"
)

type SendResult struct {
	MessageID string
	SentAt    time.Time
}

type EmailSender interface {
	SendEmail(ctx context.Context, to, subject, body string) (SendResult, error)
}

// NopSender satisfies EmailSender when SMTP is not configured.
type NopSender struct{}

func (NopSender) SendEmail(ctx context.Context, to, subject, body string) (SendResult, error) {
	return SendResult{MessageID: "nop", SentAt: time.Now()}, nil
}
