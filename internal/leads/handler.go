package leads

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/thefreewebsitewizards/leadneedle/internal/notify"
	"github.com/thefreewebsitewizards/leadneedle/internal/sheets"
	"github.com/thefreewebsitewizards/leadneedle/pkg/logging"
)

// Sheet tab names per form surface.
const (
	contactSheetName = "Submissions"
	wizardSheetName  = "Website Submissions"
)

// Handler handles web-form submissions. Persisting the lead is the only
// required step; the spreadsheet append and both emails are best-effort.
type Handler struct {
	repo     Repository
	notifier *notify.Service
	sheets   sheets.Appender
	logger   *logging.Logger
}

// NewHandler creates a form-submission handler.
func NewHandler(repo Repository, notifier *notify.Service, appender sheets.Appender, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		repo:     repo,
		notifier: notifier,
		sheets:   appender,
		logger:   logger,
	}
}

// SubmitContactForm handles POST /submit.
func (h *Handler) SubmitContactForm(w http.ResponseWriter, r *http.Request) {
	h.handleSubmission(w, r, contactSheetName)
}

// SubmitWizardForm handles POST /submit-wizard.
func (h *Handler) SubmitWizardForm(w http.ResponseWriter, r *http.Request) {
	h.handleSubmission(w, r, wizardSheetName)
}

// ListLeads handles GET /admin/leads.
func (h *Handler) ListLeads(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 50)
	offset := queryInt(r, "offset", 0)

	found, err := h.repo.List(r.Context(), limit, offset)
	if err != nil {
		h.logger.Error("failed to list leads", "error", err)
		http.Error(w, "failed to list leads", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"leads":  found,
		"count":  len(found),
		"limit":  limit,
		"offset": offset,
	})
}

type submissionRequest struct {
	notify.Submission
	Phone string `json:"phone"`
}

func (h *Handler) handleSubmission(w http.ResponseWriter, r *http.Request, sheetName string) {
	sub, err := parseSubmission(r)
	if err != nil {
		h.logger.Error("failed to parse submission", "error", err)
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"status":  "error",
			"message": "Invalid request body",
		})
		return
	}

	if _, err := h.repo.Create(r.Context(), &CreateLeadRequest{
		Name:  strings.TrimSpace(sub.FirstName + " " + sub.LastName),
		Phone: sub.PhoneNumber,
		Email: sub.Email,
		Responses: map[string]any{
			"websiteName":        sub.WebsiteName,
			"websiteDescription": sub.WebsiteDescription,
			"hasWebsite":         sub.HasWebsite,
			"service":            sub.Service,
			"message":            sub.Message,
		},
		Source: "web",
	}); err != nil {
		h.logger.Error("failed to persist lead", "error", err)
	}

	if h.sheets != nil {
		row := []string{
			sub.Timestamp,
			sub.FirstName,
			sub.Email,
			sub.PhoneNumber,
			sub.HasWebsite,
			sub.WebsiteName,
			sub.WebsiteDescription,
		}
		if err := h.sheets.Append(r.Context(), sheetName, row); err != nil {
			h.logger.Error("failed to append to sheet", "sheet", sheetName, "error", err)
		}
	}

	if h.notifier != nil {
		h.notifier.QueueNotification("", sub)
		if err := h.notifier.QueueConfirmation(sub); err != nil {
			h.logger.Error("failed to queue confirmation", "error", err)
		}
	}

	h.logger.Info("form submission handled", "sheet", sheetName, "email", sub.Email)
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": "Form submitted successfully!",
	})
}

// parseSubmission accepts JSON or form-encoded bodies and normalizes field
// aliases and defaults.
func parseSubmission(r *http.Request) (notify.Submission, error) {
	var req submissionRequest

	if strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return notify.Submission{}, err
		}
	} else {
		if err := r.ParseForm(); err != nil {
			return notify.Submission{}, err
		}
		req.FirstName = r.PostFormValue("firstName")
		req.LastName = r.PostFormValue("lastName")
		req.Email = r.PostFormValue("email")
		req.Submission.PhoneNumber = r.PostFormValue("phoneNumber")
		req.Phone = r.PostFormValue("phone")
		req.WebsiteName = r.PostFormValue("websiteName")
		req.WebsiteDescription = r.PostFormValue("websiteDescription")
		req.HasWebsite = r.PostFormValue("hasWebsite")
		req.Service = r.PostFormValue("service")
		req.Message = r.PostFormValue("message")
	}

	sub := req.Submission
	if sub.PhoneNumber == "" {
		sub.PhoneNumber = req.Phone
	}
	if sub.Service == "" {
		sub.Service = "Free Website Wizard"
	}
	if sub.Message == "" {
		sub.Message = sub.WebsiteDescription
	}
	sub.Timestamp = time.Now().Format("2006-01-02 15:04:05")
	return sub, nil
}

func queryInt(r *http.Request, key string, fallback int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
