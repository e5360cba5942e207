package leads

import (
	"strings"
	"time"
)

// Lead is one captured prospect, from either an SMS conversation or a web
// form.
type Lead struct {
	ID              string         `json:"id"`
	Name            string         `json:"name"`
	Phone           string         `json:"phone"`
	Email           string         `json:"email"`
	Responses       map[string]any `json:"responses"`
	AppointmentDate string         `json:"appointment_date"`
	Source          string         `json:"source"`
	CreatedAt       time.Time      `json:"created_at"`
}

// CreateLeadRequest is the payload for persisting a new lead.
type CreateLeadRequest struct {
	Name            string         `json:"name"`
	Phone           string         `json:"phone"`
	Email           string         `json:"email"`
	Responses       map[string]any `json:"responses"`
	AppointmentDate string         `json:"appointment_date"`
	Source          string         `json:"source"`
}

// Validate checks required fields and fills defaults.
func (r *CreateLeadRequest) Validate() error {
	if strings.TrimSpace(r.Phone) == "" && strings.TrimSpace(r.Email) == "" {
		return ErrMissingContact
	}
	if strings.TrimSpace(r.Name) == "" {
		r.Name = "Unknown"
	}
	if strings.TrimSpace(r.AppointmentDate) == "" {
		r.AppointmentDate = "TBD"
	}
	return nil
}
