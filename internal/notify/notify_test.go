package notify

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thefreewebsitewizards/leadneedle/internal/mailqueue"
)

type fakeEnqueuer struct {
	jobs []*mailqueue.EmailJob
}

func (f *fakeEnqueuer) Enqueue(job *mailqueue.EmailJob) {
	f.jobs = append(f.jobs, job)
}

func newTestService() (*Service, *fakeEnqueuer) {
	q := &fakeEnqueuer{}
	return NewService(q, "admin@leadneedle.com", "sender@leadneedle.com", "app-password", nil), q
}

func sampleSubmission() Submission {
	return Submission{
		FirstName:          "Pat",
		Email:              "pat@example.com",
		PhoneNumber:        "+15551234567",
		WebsiteName:        "Pat's Decks",
		WebsiteDescription: "Deck building in Austin",
		HasWebsite:         "No",
		Service:            "Free Website Wizard",
		Timestamp:          "2025-06-01 15:04:05",
	}
}

func TestQueueNotification(t *testing.T) {
	svc, q := newTestService()

	svc.QueueNotification("", sampleSubmission())

	require.Len(t, q.jobs, 1)
	job := q.jobs[0]
	assert.Equal(t, mailqueue.JobNotification, job.Type)
	assert.Equal(t, "admin@leadneedle.com", job.To)
	assert.Equal(t, "New Website Submission - Pat", job.Subject)
	assert.Equal(t, "sender@leadneedle.com", job.SenderEmail)
	assert.Equal(t, "app-password", job.SenderSecret)
	assert.Contains(t, job.Body, "pat@example.com")
	assert.Contains(t, job.Body, "Deck building in Austin")
}

func TestQueueNotificationExplicitRecipient(t *testing.T) {
	svc, q := newTestService()

	svc.QueueNotification("owner@example.com", sampleSubmission())

	require.Len(t, q.jobs, 1)
	assert.Equal(t, "owner@example.com", q.jobs[0].To)
}

func TestQueueConfirmation(t *testing.T) {
	svc, q := newTestService()

	err := svc.QueueConfirmation(sampleSubmission())
	require.NoError(t, err)

	require.Len(t, q.jobs, 1)
	job := q.jobs[0]
	assert.Equal(t, mailqueue.JobConfirmation, job.Type)
	assert.Equal(t, "pat@example.com", job.To)
	assert.Equal(t, "Thank you for your website submission!", job.Subject)
	assert.Contains(t, job.Body, "Hi Pat,")
}

func TestQueueConfirmationRequiresEmail(t *testing.T) {
	svc, q := newTestService()

	sub := sampleSubmission()
	sub.Email = "  "
	err := svc.QueueConfirmation(sub)

	assert.Error(t, err)
	assert.Empty(t, q.jobs)
}

func TestRenderNotificationDefaults(t *testing.T) {
	subject, body := renderNotification(Submission{})

	assert.Equal(t, "New Website Submission - Unknown", subject)
	assert.True(t, strings.Contains(body, "N/A"))
}

func TestRenderConfirmationEscapesHTML(t *testing.T) {
	sub := sampleSubmission()
	sub.FirstName = `<script>alert("x")</script>`

	_, body := renderConfirmation(sub)

	assert.NotContains(t, body, "<script>")
}

func TestRenderConfirmationGreetingFallback(t *testing.T) {
	_, body := renderConfirmation(Submission{Email: "a@b.com"})
	assert.Contains(t, body, "Hi there,")
}
