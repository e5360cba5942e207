package mailqueue

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Message is a fully-addressed email ready for submission to a transport.
type Message struct {
	From      string
	To        string
	Subject   string
	Date      time.Time
	MessageID string
	HTML      string
}

// Session is one authenticated connection to a mail provider. Sessions are
// single-use: the worker opens a fresh one per delivery attempt.
type Session interface {
	// Authenticate returns *AuthError when the provider rejected the
	// credentials; any other error is transient and the attempt retries.
	Authenticate(identity, secret string) error
	// Submit sends the message and reports any refused recipients. A non-nil
	// refused slice with a nil error means the provider accepted the
	// submission but rejected those addresses.
	Submit(msg *Message) (refused []string, err error)
	Close() error
}

// Transport opens delivery sessions. Implementations exist for SMTP,
// SendGrid and SES.
type Transport interface {
	Connect(ctx context.Context) (Session, error)
}

// AuthError marks a credential failure. Never retried.
type AuthError struct {
	Err error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("mailqueue: authentication failed: %v", e.Err)
}

func (e *AuthError) Unwrap() error { return e.Err }

// RefusedError marks recipients rejected by the provider. Never retried.
type RefusedError struct {
	Recipients []string
}

func (e *RefusedError) Error() string {
	return fmt.Sprintf("mailqueue: recipients refused: %s", strings.Join(e.Recipients, ", "))
}

// IsTerminal reports whether a delivery error must not be retried.
func IsTerminal(err error) bool {
	var authErr *AuthError
	if errors.As(err, &authErr) {
		return true
	}
	var refusedErr *RefusedError
	return errors.As(err, &refusedErr)
}

// terminalReason labels a terminal error for metrics.
func terminalReason(err error) string {
	var authErr *AuthError
	if errors.As(err, &authErr) {
		return "auth"
	}
	var refusedErr *RefusedError
	if errors.As(err, &refusedErr) {
		return "refused"
	}
	return "exhausted"
}
