package leads

import (
	"context"

	"github.com/thefreewebsitewizards/leadneedle/pkg/logging"
)

// ResponseRecorder persists SMS conversation payloads as leads keyed by the
// caller's phone number. It satisfies the dispatcher's LeadStore port.
type ResponseRecorder struct {
	repo   Repository
	logger *logging.Logger
}

// NewResponseRecorder creates a recorder backed by the given repository.
func NewResponseRecorder(repo Repository, logger *logging.Logger) *ResponseRecorder {
	if logger == nil {
		logger = logging.Default()
	}
	return &ResponseRecorder{repo: repo, logger: logger}
}

// Save stores the payload as a new lead for the caller.
func (r *ResponseRecorder) Save(ctx context.Context, callerID string, payload map[string]any) error {
	lead, err := r.repo.Create(ctx, &CreateLeadRequest{
		Phone:     callerID,
		Responses: payload,
		Source:    "sms",
	})
	if err != nil {
		return err
	}
	r.logger.Info("sms lead recorded", "id", lead.ID, "phone", callerID)
	return nil
}
