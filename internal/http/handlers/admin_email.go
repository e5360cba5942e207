package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/thefreewebsitewizards/leadneedle/internal/mailqueue"
	"github.com/thefreewebsitewizards/leadneedle/pkg/logging"
)

// AdminEmailHandler exposes delivery-queue diagnostics to operators.
type AdminEmailHandler struct {
	queue        *mailqueue.Queue
	adminEmail   string
	senderEmail  string
	senderSecret string
	logger       *logging.Logger
}

// NewAdminEmailHandler creates the admin email diagnostics handler.
func NewAdminEmailHandler(queue *mailqueue.Queue, adminEmail, senderEmail, senderSecret string, logger *logging.Logger) *AdminEmailHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &AdminEmailHandler{
		queue:        queue,
		adminEmail:   adminEmail,
		senderEmail:  senderEmail,
		senderSecret: senderSecret,
		logger:       logger,
	}
}

// EmailStats handles GET /admin/email-stats.
func (h *AdminEmailHandler) EmailStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.queue.Stats())
}

type emailTestRequest struct {
	To string `json:"to"`
}

// EmailTest handles POST /admin/email-test: enqueues one test email so an
// operator can verify transport credentials end to end.
func (h *AdminEmailHandler) EmailTest(w http.ResponseWriter, r *http.Request) {
	var req emailTestRequest
	if r.Body != nil {
		// body is optional; a bare POST tests delivery to the admin address
		_ = json.NewDecoder(r.Body).Decode(&req)
	}
	to := strings.TrimSpace(req.To)
	if to == "" {
		to = h.adminEmail
	}
	if to == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "no recipient configured"})
		return
	}

	job := &mailqueue.EmailJob{
		Type:         mailqueue.JobTest,
		To:           to,
		Subject:      "Lead Needle email delivery test",
		Body:         fmt.Sprintf("<p>Delivery test queued at %s.</p>", time.Now().UTC().Format(time.RFC3339)),
		SenderEmail:  h.senderEmail,
		SenderSecret: h.senderSecret,
	}
	h.queue.Enqueue(job)

	h.logger.Info("test email queued", "to", to, "job_id", job.ID)
	writeJSON(w, http.StatusAccepted, map[string]string{
		"status": "queued",
		"job_id": job.ID.String(),
		"to":     to,
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
