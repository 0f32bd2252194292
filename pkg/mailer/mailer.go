package mailer

import (
	"context"
	"fmt"
	"sync"

	"github.com/resend/resend-go/v2"
)

// Attachment is a file included with a message.
type Attachment struct {
	Filename string
	Content  []byte
}

// Message is an outbound email.
type Message struct {
	To          string
	Subject     string
	HTML        string
	Attachments []Attachment
}

// Sender dispatches email messages. Implementations return the provider's
// message id for the sent email.
type Sender interface {
	Send(ctx context.Context, msg Message) (string, error)
}

// ResendSender implements Sender on the Resend API.
type ResendSender struct {
	client *resend.Client
	from   string
}

// NewResendSender creates a Resend-backed sender.
func NewResendSender(apiKey, from string) *ResendSender {
	return &ResendSender{client: resend.NewClient(apiKey), from: from}
}

func (s *ResendSender) Send(ctx context.Context, msg Message) (string, error) {
	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{msg.To},
		Subject: msg.Subject,
		Html:    msg.HTML,
	}
	for _, a := range msg.Attachments {
		params.Attachments = append(params.Attachments, &resend.Attachment{
			Filename: a.Filename,
			Content:  a.Content,
		})
	}

	sent, err := s.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return "", fmt.Errorf("failed to send email: %w", err)
	}
	return sent.Id, nil
}

// MockSender records messages in memory for tests.
type MockSender struct {
	mu       sync.Mutex
	Messages []Message
	Err      error
}

// NewMockSender creates an empty mock sender.
func NewMockSender() *MockSender {
	return &MockSender{}
}

func (s *MockSender) Send(ctx context.Context, msg Message) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return "", s.Err
	}
	s.Messages = append(s.Messages, msg)
	return fmt.Sprintf("mock-email-%d", len(s.Messages)), nil
}
