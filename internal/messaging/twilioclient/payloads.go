package twilioclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// SendMessageRequest describes an outbound SMS payload.
type SendMessageRequest struct {
	To   string
	Body string
	From string
}

func (r SendMessageRequest) validate() error {
	if strings.TrimSpace(r.To) == "" {
		return errors.New("twilioclient: to number required")
	}
	if strings.TrimSpace(r.Body) == "" {
		return errors.New("twilioclient: body required")
	}
	return nil
}

// MessageResponse represents the Twilio message resource.
type MessageResponse struct {
	SID          string `json:"sid"`
	Status       string `json:"status"`
	To           string `json:"to"`
	From         string `json:"from"`
	Body         string `json:"body"`
	NumSegments  string `json:"num_segments"`
	ErrorCode    *int   `json:"error_code"`
	ErrorMessage string `json:"error_message"`
	DateCreated  string `json:"date_created"`
}

// APIError is a structured error returned by the Twilio REST API.
type APIError struct {
	StatusCode int    `json:"status"`
	Code       int    `json:"code"`
	Message    string `json:"message"`
	MoreInfo   string `json:"more_info"`
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("twilioclient: api error %d (code %d): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("twilioclient: api error %d", e.StatusCode)
}

func decodeAPIError(status int, data []byte) *APIError {
	apiErr := &APIError{}
	if err := json.Unmarshal(data, apiErr); err != nil || apiErr.Message == "" {
		apiErr.Message = strings.TrimSpace(string(data))
	}
	apiErr.StatusCode = status
	return apiErr
}
