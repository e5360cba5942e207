package scheduler

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/thefreewebsitewizards/leadneedle/pkg/logging"
)

// CalendarScheduler books slots on a Google Calendar using a stored OAuth
// token. Expired tokens refresh transparently through the oauth2 client.
type CalendarScheduler struct {
	service    *calendar.Service
	calendarID string
	logger     *logging.Logger
}

// NewCalendarScheduler builds a scheduler from OAuth client credentials and
// a previously-authorized user token, both in their Google JSON formats.
func NewCalendarScheduler(ctx context.Context, credentialsJSON, tokenJSON []byte, calendarID string, logger *logging.Logger) (*CalendarScheduler, error) {
	cfg, err := google.ConfigFromJSON(credentialsJSON, calendar.CalendarScope)
	if err != nil {
		return nil, fmt.Errorf("scheduler: parse oauth credentials: %w", err)
	}

	token := &oauth2.Token{}
	if err := json.Unmarshal(tokenJSON, token); err != nil {
		return nil, fmt.Errorf("scheduler: parse oauth token: %w", err)
	}

	service, err := calendar.NewService(ctx, option.WithTokenSource(cfg.TokenSource(ctx, token)))
	if err != nil {
		return nil, fmt.Errorf("scheduler: create calendar service: %w", err)
	}

	if calendarID == "" {
		calendarID = "primary"
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &CalendarScheduler{
		service:    service,
		calendarID: calendarID,
		logger:     logger,
	}, nil
}

// newCalendarSchedulerWithService wires a prebuilt service; test hook.
func newCalendarSchedulerWithService(service *calendar.Service, calendarID string) *CalendarScheduler {
	return &CalendarScheduler{
		service:    service,
		calendarID: calendarID,
		logger:     logging.Default(),
	}
}

// Book inserts the event and returns its confirmation link.
func (s *CalendarScheduler) Book(ctx context.Context, req BookingRequest) (string, error) {
	req.applyDefaults()

	start := req.StartTime.UTC()
	end := start.Add(time.Duration(req.DurationMinutes) * time.Minute)

	event := &calendar.Event{
		Summary:     req.Summary,
		Description: req.Description,
		Start: &calendar.EventDateTime{
			DateTime: start.Format(time.RFC3339),
			TimeZone: "UTC",
		},
		End: &calendar.EventDateTime{
			DateTime: end.Format(time.RFC3339),
			TimeZone: "UTC",
		},
	}

	created, err := s.service.Events.Insert(s.calendarID, event).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("scheduler: insert event: %w", err)
	}

	s.logger.Info("appointment booked",
		"summary", req.Summary,
		"start", start,
		"link", created.HtmlLink,
	)
	return created.HtmlLink, nil
}
