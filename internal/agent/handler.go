package agent

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/thefreewebsitewizards/leadneedle/pkg/logging"
)

// Handler exposes the dispatcher over HTTP.
type Handler struct {
	agent  *SalesAgent
	logger *logging.Logger
}

// NewHandler creates the inbound SMS handler.
func NewHandler(agent *SalesAgent, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{agent: agent, logger: logger}
}

type inboundSMSRequest struct {
	Phone   string `json:"phone"`
	SMSText string `json:"sms_text"`
}

// ReceiveSMS handles POST /sms requests carrying {phone, sms_text}.
func (h *Handler) ReceiveSMS(w http.ResponseWriter, r *http.Request) {
	var req inboundSMSRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to decode sms request", "error", err)
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}

	if strings.TrimSpace(req.Phone) == "" || strings.TrimSpace(req.SMSText) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Missing phone or sms_text"})
		return
	}

	result := h.agent.HandleMessage(r.Context(), req.Phone, req.SMSText)
	h.logger.Info("inbound sms handled", "phone", req.Phone, "status", result.Status)
	writeJSON(w, http.StatusOK, result)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
