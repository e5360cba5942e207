package mailqueue

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendGridTransport delivers through the SendGrid v3 API. The job's sender
// secret is the API key; there is no long-lived connection, so Connect is
// cheap and each session is one API call.
type SendGridTransport struct {
	fromName string
}

// NewSendGridTransport creates a SendGrid-backed transport.
func NewSendGridTransport(fromName string) *SendGridTransport {
	if fromName == "" {
		fromName = "Lead Needle"
	}
	return &SendGridTransport{fromName: fromName}
}

func (t *SendGridTransport) Connect(ctx context.Context) (Session, error) {
	return &sendgridSession{ctx: ctx, fromName: t.fromName}, nil
}

type sendgridSession struct {
	ctx      context.Context
	fromName string
	client   *sendgrid.Client
}

func (s *sendgridSession) Authenticate(identity, secret string) error {
	if secret == "" {
		return &AuthError{Err: errors.New("sendgrid api key missing")}
	}
	s.client = sendgrid.NewSendClient(secret)
	return nil
}

func (s *sendgridSession) Submit(msg *Message) ([]string, error) {
	if s.client == nil {
		return nil, &AuthError{Err: errors.New("sendgrid session not authenticated")}
	}

	from := mail.NewEmail(s.fromName, msg.From)
	to := mail.NewEmail("", msg.To)
	message := mail.NewSingleEmail(from, msg.Subject, to, msg.HTML, msg.HTML)

	resp, err := s.client.SendWithContext(s.ctx, message)
	if err != nil {
		return nil, fmt.Errorf("mailqueue: sendgrid send: %w", err)
	}
	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, &AuthError{Err: fmt.Errorf("sendgrid status %d", resp.StatusCode)}
	case resp.StatusCode >= 400:
		return nil, fmt.Errorf("mailqueue: sendgrid status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil, nil
}

func (s *sendgridSession) Close() error { return nil }
