package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/thefreewebsitewizards/leadneedle/internal/mailqueue"
)

type okSession struct{}

func (okSession) Authenticate(identity, secret string) error      { return nil }
func (okSession) Submit(msg *mailqueue.Message) ([]string, error) { return nil, nil }
func (okSession) Close() error                                    { return nil }

type okTransport struct{}

func (okTransport) Connect(ctx context.Context) (mailqueue.Session, error) {
	return okSession{}, nil
}

func newHandler(t *testing.T) (*AdminEmailHandler, *mailqueue.Queue) {
	t.Helper()
	q := mailqueue.New(okTransport{}, mailqueue.WithPollInterval(5*time.Millisecond))
	t.Cleanup(func() { q.Shutdown(time.Second) })
	return NewAdminEmailHandler(q, "admin@leadneedle.com", "sender@leadneedle.com", "secret", nil), q
}

func TestEmailStats(t *testing.T) {
	h, q := newHandler(t)
	q.Enqueue(&mailqueue.EmailJob{Type: mailqueue.JobTest, To: "x@example.com", Subject: "s", Body: "b"})
	q.DrainAndWait(5 * time.Second)

	req := httptest.NewRequest(http.MethodGet, "/admin/email-stats", nil)
	rec := httptest.NewRecorder()
	h.EmailStats(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var stats mailqueue.Stats
	if err := json.Unmarshal(rec.Body.Bytes(), &stats); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if stats.QueuedTotal != 1 || stats.SentTotal != 1 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestEmailTestDefaultsToAdmin(t *testing.T) {
	h, q := newHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/admin/email-test", strings.NewReader("{}"))
	rec := httptest.NewRecorder()
	h.EmailTest(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202", rec.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["to"] != "admin@leadneedle.com" || resp["job_id"] == "" {
		t.Errorf("response = %v", resp)
	}

	if !q.DrainAndWait(5 * time.Second) {
		t.Fatal("queue did not drain")
	}
	if stats := q.Stats(); stats.SentTotal != 1 {
		t.Errorf("sent = %d, want 1", stats.SentTotal)
	}
}

func TestEmailTestExplicitRecipient(t *testing.T) {
	h, _ := newHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/admin/email-test", strings.NewReader(`{"to":"ops@example.com"}`))
	rec := httptest.NewRecorder()
	h.EmailTest(rec, req)

	var resp map[string]string
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp["to"] != "ops@example.com" {
		t.Errorf("to = %q", resp["to"])
	}
}
