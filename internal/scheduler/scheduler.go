package scheduler

import (
	"context"
	"time"
)

const defaultDurationMinutes = 30

// BookingRequest describes one calendar slot to reserve. Zero-value fields
// are filled with defaults before booking.
type BookingRequest struct {
	Summary         string
	Description     string
	StartTime       *time.Time
	DurationMinutes int
}

func (r *BookingRequest) applyDefaults() {
	if r.Summary == "" {
		r.Summary = "Lead Needle Appointment"
	}
	if r.Description == "" {
		r.Description = "Qualified lead auto-booked."
	}
	if r.StartTime == nil {
		start := time.Now().UTC().Add(time.Hour)
		r.StartTime = &start
	}
	if r.DurationMinutes <= 0 {
		r.DurationMinutes = defaultDurationMinutes
	}
}

// Scheduler books appointments and returns a confirmation link.
type Scheduler interface {
	Book(ctx context.Context, req BookingRequest) (string, error)
}

// Stub records bookings without talking to a calendar. Used in tests and
// when no calendar credentials are configured.
type Stub struct {
	Link   string
	Err    error
	Booked []BookingRequest
}

func (s *Stub) Book(ctx context.Context, req BookingRequest) (string, error) {
	if s.Err != nil {
		return "", s.Err
	}
	req.applyDefaults()
	s.Booked = append(s.Booked, req)
	return s.Link, nil
}
