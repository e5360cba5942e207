package mailqueue

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/smtp"
	"net/textproto"
	"strings"
	"time"
)

// SMTPTransport opens implicit-TLS SMTP sessions (port 465). This is the
// default transport; Gmail app-password delivery runs through it.
//
// Hand-rolled on net/smtp: nothing in our stack ships an SMTP client, and
// the Session contract needs auth and per-recipient refusal surfaced
// individually, which hosted-API SDKs do not expose.
type SMTPTransport struct {
	host    string
	port    int
	timeout time.Duration
	tlsCfg  *tls.Config
}

// NewSMTPTransport creates a transport for the given server.
func NewSMTPTransport(host string, port int) *SMTPTransport {
	if host == "" {
		host = "smtp.gmail.com"
	}
	if port <= 0 {
		port = 465
	}
	return &SMTPTransport{
		host:    host,
		port:    port,
		timeout: 30 * time.Second,
		tlsCfg:  &tls.Config{ServerName: host},
	}
}

// Connect dials the server and completes the TLS handshake.
func (t *SMTPTransport) Connect(ctx context.Context) (Session, error) {
	dialer := &net.Dialer{Timeout: t.timeout}
	conn, err := dialer.DialContext(ctx, "tcp", fmt.Sprintf("%s:%d", t.host, t.port))
	if err != nil {
		return nil, fmt.Errorf("mailqueue: dial %s:%d: %w", t.host, t.port, err)
	}

	tlsConn := tls.Client(conn, t.tlsCfg)
	if err := tlsConn.HandshakeContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("mailqueue: tls handshake: %w", err)
	}

	client, err := smtp.NewClient(tlsConn, t.host)
	if err != nil {
		tlsConn.Close()
		return nil, fmt.Errorf("mailqueue: smtp greeting: %w", err)
	}

	return &smtpSession{client: client, host: t.host}, nil
}

type smtpSession struct {
	client *smtp.Client
	host   string
}

func (s *smtpSession) Authenticate(identity, secret string) error {
	return classifyAuthReply(s.client.Auth(smtp.PlainAuth("", identity, secret, s.host)))
}

// classifyAuthReply marks credential rejections terminal: 535 is bad
// credentials, 534 wants another mechanism, 530 demands auth first. Network
// errors and 4xx replies during AUTH stay retryable.
func classifyAuthReply(err error) error {
	if err == nil {
		return nil
	}
	var reply *textproto.Error
	if errors.As(err, &reply) {
		switch reply.Code {
		case 530, 534, 535:
			return &AuthError{Err: err}
		}
	}
	return fmt.Errorf("mailqueue: auth: %w", err)
}

func (s *smtpSession) Submit(msg *Message) ([]string, error) {
	if err := s.client.Mail(msg.From); err != nil {
		return nil, fmt.Errorf("mailqueue: MAIL FROM rejected: %w", err)
	}
	if err := s.client.Rcpt(msg.To); err != nil {
		// the server refused this recipient; report it rather than erroring
		return []string{msg.To}, nil
	}

	wc, err := s.client.Data()
	if err != nil {
		return nil, fmt.Errorf("mailqueue: DATA rejected: %w", err)
	}
	if _, err := wc.Write([]byte(renderMessage(msg))); err != nil {
		wc.Close()
		return nil, fmt.Errorf("mailqueue: write body: %w", err)
	}
	if err := wc.Close(); err != nil {
		return nil, fmt.Errorf("mailqueue: finalize message: %w", err)
	}
	return nil, nil
}

func (s *smtpSession) Close() error {
	if err := s.client.Quit(); err != nil {
		return s.client.Close()
	}
	return nil
}

// renderMessage serializes the message as an RFC 5322 HTML mail.
func renderMessage(msg *Message) string {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", msg.From)
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	fmt.Fprintf(&b, "Date: %s\r\n", msg.Date.Format(time.RFC1123Z))
	fmt.Fprintf(&b, "Message-ID: %s\r\n", msg.MessageID)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.HTML)
	b.WriteString("\r\n")
	return b.String()
}
