package notify

import (
	"errors"
	"strings"

	"github.com/thefreewebsitewizards/leadneedle/internal/mailqueue"
	"github.com/thefreewebsitewizards/leadneedle/pkg/logging"
)

// Submission carries the web-form fields used in outbound emails and the
// spreadsheet row.
type Submission struct {
	FirstName          string `json:"firstName"`
	LastName           string `json:"lastName"`
	Email              string `json:"email"`
	PhoneNumber        string `json:"phoneNumber"`
	WebsiteName        string `json:"websiteName"`
	WebsiteDescription string `json:"websiteDescription"`
	HasWebsite         string `json:"hasWebsite"`
	Service            string `json:"service"`
	Message            string `json:"message"`
	Timestamp          string `json:"timestamp"`
}

// Enqueuer is the slice of the delivery queue the service needs.
type Enqueuer interface {
	Enqueue(job *mailqueue.EmailJob)
}

// Service builds notification and confirmation emails for form submissions
// and hands them to the delivery queue. Enqueue never blocks on delivery.
type Service struct {
	queue        Enqueuer
	adminEmail   string
	senderEmail  string
	senderSecret string
	logger       *logging.Logger
}

// NewService creates a notify service. adminEmail receives notifications
// when no explicit recipient is given; senderEmail/senderSecret are the
// delivery credentials stamped onto every job.
func NewService(queue Enqueuer, adminEmail, senderEmail, senderSecret string, logger *logging.Logger) *Service {
	if queue == nil {
		panic("notify: queue cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		queue:        queue,
		adminEmail:   adminEmail,
		senderEmail:  senderEmail,
		senderSecret: senderSecret,
		logger:       logger,
	}
}

// QueueNotification enqueues the admin-facing email for a new submission.
// An empty recipient falls back to the configured admin address.
func (s *Service) QueueNotification(recipient string, sub Submission) {
	if strings.TrimSpace(recipient) == "" {
		recipient = s.adminEmail
	}

	subject, body := renderNotification(sub)
	s.queue.Enqueue(&mailqueue.EmailJob{
		Type:         mailqueue.JobNotification,
		To:           recipient,
		Subject:      subject,
		Body:         body,
		SenderEmail:  s.senderEmail,
		SenderSecret: s.senderSecret,
	})
	s.logger.Info("notification email queued", "to", recipient, "name", sub.FirstName)
}

// QueueConfirmation enqueues the submitter-facing thank-you email.
func (s *Service) QueueConfirmation(sub Submission) error {
	if strings.TrimSpace(sub.Email) == "" {
		return errors.New("notify: submission has no email address")
	}

	subject, body := renderConfirmation(sub)
	s.queue.Enqueue(&mailqueue.EmailJob{
		Type:         mailqueue.JobConfirmation,
		To:           sub.Email,
		Subject:      subject,
		Body:         body,
		SenderEmail:  s.senderEmail,
		SenderSecret: s.senderSecret,
	})
	s.logger.Info("confirmation email queued", "to", sub.Email)
	return nil
}
