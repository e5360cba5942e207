package leads

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/thefreewebsitewizards/leadneedle/internal/mailqueue"
	"github.com/thefreewebsitewizards/leadneedle/internal/notify"
	"github.com/thefreewebsitewizards/leadneedle/internal/sheets"
)

var errTest = errors.New("sheet unavailable")

type captureEnqueuer struct {
	jobs []*mailqueue.EmailJob
}

func (c *captureEnqueuer) Enqueue(job *mailqueue.EmailJob) {
	c.jobs = append(c.jobs, job)
}

type handlerFixture struct {
	repo    *InMemoryRepository
	queue   *captureEnqueuer
	sheet   *sheets.Stub
	handler *Handler
}

func newHandlerFixture() *handlerFixture {
	f := &handlerFixture{
		repo:  NewInMemoryRepository(),
		queue: &captureEnqueuer{},
		sheet: &sheets.Stub{},
	}
	notifier := notify.NewService(f.queue, "admin@leadneedle.com", "sender@leadneedle.com", "secret", nil)
	f.handler = NewHandler(f.repo, notifier, f.sheet, nil)
	return f
}

func TestSubmitContactFormJSON(t *testing.T) {
	f := newHandlerFixture()

	body := `{
		"firstName": "Pat",
		"email": "pat@example.com",
		"phoneNumber": "+15551234567",
		"hasWebsite": "No",
		"websiteName": "Pat's Decks",
		"websiteDescription": "Deck building"
	}`
	req := httptest.NewRequest(http.MethodPost, "/submit", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.handler.SubmitContactForm(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["status"] != "success" || resp["message"] != "Form submitted successfully!" {
		t.Errorf("response = %v", resp)
	}

	stored, _ := f.repo.List(req.Context(), 0, 0)
	if len(stored) != 1 {
		t.Fatalf("leads stored = %d, want 1", len(stored))
	}
	if stored[0].Name != "Pat" || stored[0].Source != "web" {
		t.Errorf("lead = %+v", stored[0])
	}

	rows := f.sheet.Rows[contactSheetName]
	if len(rows) != 1 {
		t.Fatalf("sheet rows = %d, want 1", len(rows))
	}
	if rows[0][1] != "Pat" || rows[0][2] != "pat@example.com" {
		t.Errorf("row = %v", rows[0])
	}

	if len(f.queue.jobs) != 2 {
		t.Fatalf("emails queued = %d, want 2", len(f.queue.jobs))
	}
	if f.queue.jobs[0].Type != mailqueue.JobNotification || f.queue.jobs[1].Type != mailqueue.JobConfirmation {
		t.Errorf("job types = %v, %v", f.queue.jobs[0].Type, f.queue.jobs[1].Type)
	}
	if f.queue.jobs[1].To != "pat@example.com" {
		t.Errorf("confirmation to = %q", f.queue.jobs[1].To)
	}
}

func TestSubmitWizardFormFormEncoded(t *testing.T) {
	f := newHandlerFixture()

	form := url.Values{}
	form.Set("firstName", "Sam")
	form.Set("email", "sam@example.com")
	form.Set("phone", "+15557654321")
	req := httptest.NewRequest(http.MethodPost, "/submit-wizard", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	f.handler.SubmitWizardForm(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	stored, _ := f.repo.List(req.Context(), 0, 0)
	if len(stored) != 1 {
		t.Fatalf("leads stored = %d, want 1", len(stored))
	}
	// "phone" is accepted as an alias for phoneNumber
	if stored[0].Phone != "+15557654321" {
		t.Errorf("phone = %q", stored[0].Phone)
	}
	if len(f.sheet.Rows[wizardSheetName]) != 1 {
		t.Errorf("wizard sheet rows = %v", f.sheet.Rows)
	}
}

func TestSubmitFormSheetFailureStillSucceeds(t *testing.T) {
	f := newHandlerFixture()
	f.sheet.Err = errTest

	body := `{"firstName": "Pat", "email": "pat@example.com"}`
	req := httptest.NewRequest(http.MethodPost, "/submit", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.handler.SubmitContactForm(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if len(f.queue.jobs) != 2 {
		t.Errorf("emails queued = %d, want 2", len(f.queue.jobs))
	}
}

func TestSubmitFormInvalidJSON(t *testing.T) {
	f := newHandlerFixture()

	req := httptest.NewRequest(http.MethodPost, "/submit", strings.NewReader("{broken"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.handler.SubmitContactForm(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestListLeads(t *testing.T) {
	f := newHandlerFixture()
	f.repo.Create(context.Background(), &CreateLeadRequest{Phone: "+1", Source: "sms"})

	req := httptest.NewRequest(http.MethodGet, "/admin/leads?limit=10", nil)
	rec := httptest.NewRecorder()
	f.handler.ListLeads(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp struct {
		Leads []*Lead `json:"leads"`
		Count int     `json:"count"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Count != 1 || len(resp.Leads) != 1 {
		t.Errorf("response = %+v", resp)
	}
}
