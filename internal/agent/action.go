package agent

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Tool names the model is instructed to emit.
const (
	toolScheduleAppointment = "calendar_event"
	toolQuoteJob            = "quote_lead"
	toolSendReply           = "sms_reply"
	toolStoreLead           = "store_lead"
)

// ActionRequest is one structured tool call decoded from a model reply.
// Parameters keep the model's loose shape; typed access goes through the
// param helpers, which default missing or mistyped values.
type ActionRequest struct {
	Tool       string         `json:"tool"`
	Parameters map[string]any `json:"parameters"`
}

// decodeAction parses a trimmed model reply into an ActionRequest. Only a
// reply that is entirely a single JSON object counts; anything else,
// including brace-delimited text that fails to parse, is reported as plain
// text so the conversation degrades gracefully instead of erroring.
func decodeAction(reply string) (ActionRequest, bool) {
	trimmed := strings.TrimSpace(reply)
	if !strings.HasPrefix(trimmed, "{") || !strings.HasSuffix(trimmed, "}") {
		return ActionRequest{}, false
	}

	var action ActionRequest
	if err := json.Unmarshal([]byte(trimmed), &action); err != nil {
		return ActionRequest{}, false
	}
	return action, true
}

func (a ActionRequest) stringParam(key, fallback string) string {
	v, ok := a.Parameters[key]
	if !ok {
		return fallback
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fallback
}

func (a ActionRequest) numberParam(key string, fallback float64) float64 {
	v, ok := a.Parameters[key]
	if !ok {
		return fallback
	}
	switch n := v.(type) {
	case float64:
		return n
	case json.Number:
		if f, err := n.Float64(); err == nil {
			return f
		}
	case string:
		if f, err := strconv.ParseFloat(n, 64); err == nil {
			return f
		}
	}
	return fallback
}
