package sheets

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/thefreewebsitewizards/leadneedle/pkg/logging"
)

// Appender appends one row to a named sheet. Callers treat failures as
// best-effort: a submission is never rejected because the spreadsheet was
// unreachable.
type Appender interface {
	Append(ctx context.Context, sheetName string, row []string) error
}

// GoogleSheetsAppender appends rows to a Google Spreadsheet using a stored
// OAuth token.
type GoogleSheetsAppender struct {
	service       *sheetsapi.Service
	spreadsheetID string
	logger        *logging.Logger
}

// NewGoogleSheetsAppender builds an appender from OAuth client credentials
// and a previously-authorized user token, both in their Google JSON formats.
func NewGoogleSheetsAppender(ctx context.Context, credentialsJSON, tokenJSON []byte, spreadsheetID string, logger *logging.Logger) (*GoogleSheetsAppender, error) {
	cfg, err := google.ConfigFromJSON(credentialsJSON, sheetsapi.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("sheets: parse oauth credentials: %w", err)
	}

	token := &oauth2.Token{}
	if err := json.Unmarshal(tokenJSON, token); err != nil {
		return nil, fmt.Errorf("sheets: parse oauth token: %w", err)
	}

	service, err := sheetsapi.NewService(ctx, option.WithTokenSource(cfg.TokenSource(ctx, token)))
	if err != nil {
		return nil, fmt.Errorf("sheets: create sheets service: %w", err)
	}

	if logger == nil {
		logger = logging.Default()
	}
	return &GoogleSheetsAppender{
		service:       service,
		spreadsheetID: spreadsheetID,
		logger:        logger,
	}, nil
}

// newAppenderWithService wires a prebuilt service; test hook.
func newAppenderWithService(service *sheetsapi.Service, spreadsheetID string) *GoogleSheetsAppender {
	return &GoogleSheetsAppender{
		service:       service,
		spreadsheetID: spreadsheetID,
		logger:        logging.Default(),
	}
}

// Append adds the row after the last populated row of the sheet.
func (a *GoogleSheetsAppender) Append(ctx context.Context, sheetName string, row []string) error {
	values := make([]any, len(row))
	for i, cell := range row {
		values[i] = cell
	}

	_, err := a.service.Spreadsheets.Values.Append(a.spreadsheetID, sheetName, &sheetsapi.ValueRange{
		Values: [][]any{values},
	}).ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("sheets: append to %q: %w", sheetName, err)
	}

	a.logger.Info("row appended to sheet", "sheet", sheetName, "columns", len(row))
	return nil
}

// Stub records appended rows in memory. Used in tests and when no
// spreadsheet credentials are configured.
type Stub struct {
	mu   sync.Mutex
	Rows map[string][][]string
	Err  error
}

func (s *Stub) Append(ctx context.Context, sheetName string, row []string) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Rows == nil {
		s.Rows = make(map[string][][]string)
	}
	s.Rows[sheetName] = append(s.Rows[sheetName], row)
	return nil
}
