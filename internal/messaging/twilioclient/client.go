package twilioclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultBaseURL   = "https://api.twilio.com/2010-04-01"
	defaultUserAgent = "leadneedle-messaging/0.1"
)

// Config controls how the Twilio client behaves.
type Config struct {
	BaseURL             string
	AccountSID          string
	AuthToken           string
	MessagingServiceSID string
	Timeout             time.Duration
	MaxRetries          int
	Backoff             time.Duration
	HTTPClient          *http.Client
	Logger              *slog.Logger
	UserAgent           string
}

// Client wraps the Twilio REST endpoints used for outbound SMS.
type Client struct {
	accountSID          string
	authToken           string
	messagingServiceSID string
	baseURL             string
	httpClient          *http.Client
	maxRetries          int
	backoff             time.Duration
	logger              *slog.Logger
	userAgent           string
}

// New creates a configured Client with sane defaults.
func New(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.AccountSID) == "" {
		return nil, errors.New("twilioclient: account SID is required")
	}
	if strings.TrimSpace(cfg.AuthToken) == "" {
		return nil, errors.New("twilioclient: auth token is required")
	}
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	baseURL = strings.TrimRight(baseURL, "/")
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}
	backoff := cfg.Backoff
	if backoff <= 0 {
		backoff = 250 * time.Millisecond
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	return &Client{
		accountSID:          cfg.AccountSID,
		authToken:           cfg.AuthToken,
		messagingServiceSID: cfg.MessagingServiceSID,
		baseURL:             baseURL,
		httpClient:          httpClient,
		maxRetries:          maxRetries,
		backoff:             backoff,
		logger:              logger,
		userAgent:           userAgent,
	}, nil
}

// SendMessage triggers an SMS send request. When the request carries no From
// number, the client's messaging service SID selects the sender.
func (c *Client) SendMessage(ctx context.Context, req SendMessageRequest) (*MessageResponse, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	form := url.Values{}
	form.Set("To", req.To)
	form.Set("Body", req.Body)
	if req.From != "" {
		form.Set("From", req.From)
	} else if c.messagingServiceSID != "" {
		form.Set("MessagingServiceSid", c.messagingServiceSID)
	} else {
		return nil, errors.New("twilioclient: from number or messaging service SID required")
	}

	data, err := c.invoke(ctx, fmt.Sprintf("/Accounts/%s/Messages.json", c.accountSID), form)
	if err != nil {
		return nil, err
	}

	var msg MessageResponse
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("twilioclient: decode message response: %w", err)
	}
	return &msg, nil
}

func (c *Client) invoke(ctx context.Context, path string, form url.Values) ([]byte, error) {
	fullURL := c.baseURL + "/" + strings.TrimLeft(path, "/")
	encoded := form.Encode()
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, fullURL, strings.NewReader(encoded))
		if err != nil {
			return nil, fmt.Errorf("twilioclient: build request: %w", err)
		}
		req.SetBasicAuth(c.accountSID, c.authToken)
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.Header.Set("User-Agent", c.userAgent)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if attempt == c.maxRetries {
				return nil, fmt.Errorf("twilioclient: http error: %w", err)
			}
			lastErr = err
			c.logRetry(path, attempt, 0, err)
			if sleepErr := c.sleep(ctx, attempt); sleepErr != nil {
				return nil, sleepErr
			}
			continue
		}

		data, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			return nil, fmt.Errorf("twilioclient: read response: %w", readErr)
		}
		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return data, nil
		}

		apiErr := decodeAPIError(resp.StatusCode, data)
		if attempt < c.maxRetries && shouldRetry(resp.StatusCode) {
			lastErr = apiErr
			c.logRetry(path, attempt, resp.StatusCode, apiErr)
			if sleepErr := c.sleep(ctx, attempt); sleepErr != nil {
				return nil, sleepErr
			}
			continue
		}
		return nil, apiErr
	}

	if lastErr != nil {
		return nil, lastErr
	}
	return nil, errors.New("twilioclient: request failed without response")
}

func (c *Client) sleep(ctx context.Context, attempt int) error {
	delay := c.backoff * time.Duration(1<<attempt)
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (c *Client) logRetry(path string, attempt, status int, err error) {
	c.logger.Warn("twilio request retrying",
		"path", path,
		"attempt", attempt+1,
		"status", status,
		"error", err,
	)
}

func shouldRetry(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}
