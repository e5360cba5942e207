package messaging

import (
	"context"
	"fmt"
	"sync"

	"github.com/thefreewebsitewizards/leadneedle/internal/messaging/twilioclient"
	"github.com/thefreewebsitewizards/leadneedle/pkg/logging"
)

// Sender delivers one outbound SMS. Satisfies the dispatcher's SMS port.
type Sender interface {
	Send(ctx context.Context, to, body string) error
}

// TwilioSender adapts the Twilio REST client to the Sender port.
type TwilioSender struct {
	client *twilioclient.Client
	logger *logging.Logger
}

// NewTwilioSender creates a Twilio-backed sender.
func NewTwilioSender(client *twilioclient.Client, logger *logging.Logger) *TwilioSender {
	if client == nil {
		panic("messaging: twilio client cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &TwilioSender{client: client, logger: logger}
}

// Send submits the message through the Twilio API.
func (s *TwilioSender) Send(ctx context.Context, to, body string) error {
	resp, err := s.client.SendMessage(ctx, twilioclient.SendMessageRequest{To: to, Body: body})
	if err != nil {
		return fmt.Errorf("messaging: send sms: %w", err)
	}
	s.logger.Info("sms sent", "to", to, "sid", resp.SID, "status", resp.Status)
	return nil
}

// SentMessage is one message captured by the stub sender.
type SentMessage struct {
	To   string
	Body string
}

// Stub records messages instead of sending them. Used in tests and when no
// carrier credentials are configured.
type Stub struct {
	mu     sync.Mutex
	Sent   []SentMessage
	Err    error
	logger *logging.Logger
}

// NewStub creates a recording sender that logs each message.
func NewStub(logger *logging.Logger) *Stub {
	if logger == nil {
		logger = logging.Default()
	}
	return &Stub{logger: logger}
}

func (s *Stub) Send(ctx context.Context, to, body string) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	s.Sent = append(s.Sent, SentMessage{To: to, Body: body})
	s.mu.Unlock()
	if s.logger != nil {
		s.logger.Info("sms stubbed", "to", to, "body", body)
	}
	return nil
}
