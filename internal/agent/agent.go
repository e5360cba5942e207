package agent

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/thefreewebsitewizards/leadneedle/internal/observability/metrics"
	"github.com/thefreewebsitewizards/leadneedle/internal/scheduler"
	"github.com/thefreewebsitewizards/leadneedle/pkg/logging"
)

const (
	apologyText  = "Sorry, something went wrong."
	fallbackText = "I didn't understand the request."

	defaultJobType = "general service"
	quoteBaseRate  = 0.15
)

// Status classifies the outcome of one dispatched message.
type Status string

const (
	StatusMessageSent       Status = "message_sent"
	StatusAppointmentBooked Status = "appointment_booked"
	StatusQuoteSent         Status = "quote_sent"
	StatusLeadSaved         Status = "lead_saved"
	StatusUnknownTool       Status = "unknown_tool"
	StatusError             Status = "error"
)

// DispatchResult is the caller-facing summary of one handled message.
// Fields beyond Status are populated per outcome.
type DispatchResult struct {
	Status  Status   `json:"status"`
	Reply   string   `json:"reply,omitempty"`
	Time    string   `json:"time,omitempty"`
	Amount  *float64 `json:"amount,omitempty"`
	Message string   `json:"message,omitempty"`
}

// SMSSender delivers a text to the caller's reply channel. Failures are
// logged and swallowed; the dispatch outcome does not depend on them.
type SMSSender interface {
	Send(ctx context.Context, to, body string) error
}

// LeadStore persists lead payloads keyed by caller identity.
type LeadStore interface {
	Save(ctx context.Context, callerID string, payload map[string]any) error
}

// AppointmentBooker reserves a calendar slot for a qualified lead.
type AppointmentBooker interface {
	Book(ctx context.Context, req scheduler.BookingRequest) (string, error)
}

// SalesAgent turns one inbound text into at most one customer-visible reply
// and at most one side-effecting action. It keeps no conversation state of
// its own; each call stands alone.
type SalesAgent struct {
	llm     LLMClient
	sms     SMSSender
	store   LeadStore
	booker  AppointmentBooker
	model   string
	logger  *logging.Logger
	metrics *metrics.DispatcherMetrics
}

// Option configures a SalesAgent.
type Option func(*SalesAgent)

func WithModel(model string) Option {
	return func(a *SalesAgent) {
		if model != "" {
			a.model = model
		}
	}
}

func WithLogger(logger *logging.Logger) Option {
	return func(a *SalesAgent) {
		if logger != nil {
			a.logger = logger
		}
	}
}

func WithMetrics(m *metrics.DispatcherMetrics) Option {
	return func(a *SalesAgent) { a.metrics = m }
}

// New wires a SalesAgent to its ports. All four are required.
func New(llm LLMClient, sms SMSSender, store LeadStore, booker AppointmentBooker, opts ...Option) *SalesAgent {
	if llm == nil {
		panic("agent: llm client cannot be nil")
	}
	if sms == nil {
		panic("agent: sms sender cannot be nil")
	}
	if store == nil {
		panic("agent: lead store cannot be nil")
	}
	if booker == nil {
		panic("agent: appointment booker cannot be nil")
	}

	a := &SalesAgent{
		llm:    llm,
		sms:    sms,
		store:  store,
		booker: booker,
		model:  "gpt-4-turbo",
		logger: logging.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// HandleMessage asks the completion service what to do with one inbound
// message and executes the answer. Completion failures never propagate; the
// caller gets a StatusError result and the customer gets a fixed apology.
func (a *SalesAgent) HandleMessage(ctx context.Context, callerID, inboundText string) DispatchResult {
	start := time.Now()

	resp, err := a.llm.Complete(ctx, LLMRequest{
		Model:       a.model,
		System:      []string{systemPrompt},
		Messages:    []ChatMessage{{Role: ChatRoleUser, Content: inboundText}},
		Temperature: 0.5,
	})
	a.metrics.ObserveCompletionLatency(time.Since(start).Seconds())

	if err != nil {
		a.logger.Error("completion failed", "caller", callerID, "error", err)
		a.sendSMS(ctx, callerID, apologyText)
		return a.finish(DispatchResult{Status: StatusError, Message: err.Error()})
	}

	reply := strings.TrimSpace(resp.Text)
	if action, ok := decodeAction(reply); ok {
		return a.finish(a.dispatch(ctx, callerID, action))
	}

	a.sendSMS(ctx, callerID, reply)
	a.saveLead(ctx, callerID, map[string]any{"input": inboundText, "reply": reply})
	return a.finish(DispatchResult{Status: StatusMessageSent, Reply: reply})
}

func (a *SalesAgent) finish(res DispatchResult) DispatchResult {
	a.metrics.ObserveHandled(string(res.Status))
	return res
}

func (a *SalesAgent) dispatch(ctx context.Context, callerID string, action ActionRequest) DispatchResult {
	switch action.Tool {
	case toolScheduleAppointment:
		when := action.stringParam("time", "TBD")
		if _, err := a.booker.Book(ctx, scheduler.BookingRequest{
			Description: fmt.Sprintf("Auto-booked lead from %s", callerID),
		}); err != nil {
			a.logger.Error("booking failed", "caller", callerID, "error", err)
		}
		a.sendSMS(ctx, callerID, fmt.Sprintf("Appointment booked for %s.", when))
		return DispatchResult{Status: StatusAppointmentBooked, Time: when}

	case toolQuoteJob:
		jobType := action.stringParam("job_type", defaultJobType)
		sqft := action.numberParam("square_footage", 0)
		amount := calculateQuote(sqft)
		a.sendSMS(ctx, callerID, fmt.Sprintf("Estimated quote for %s: $%s", jobType, formatAmount(amount)))
		return DispatchResult{Status: StatusQuoteSent, Amount: &amount}

	case toolSendReply:
		a.sendSMS(ctx, callerID, action.stringParam("message", ""))
		return DispatchResult{Status: StatusMessageSent}

	case toolStoreLead:
		a.saveLead(ctx, callerID, action.Parameters)
		return DispatchResult{Status: StatusLeadSaved}

	default:
		a.sendSMS(ctx, callerID, fallbackText)
		return DispatchResult{Status: StatusUnknownTool}
	}
}

func (a *SalesAgent) sendSMS(ctx context.Context, to, body string) {
	if err := a.sms.Send(ctx, to, body); err != nil {
		a.logger.Error("sms send failed", "to", to, "error", err)
	}
}

func (a *SalesAgent) saveLead(ctx context.Context, callerID string, payload map[string]any) {
	if err := a.store.Save(ctx, callerID, payload); err != nil {
		a.logger.Error("lead save failed", "caller", callerID, "error", err)
	}
}

// calculateQuote prices a job at the flat per-square-foot base rate,
// rounded to cents.
func calculateQuote(squareFootage float64) float64 {
	return math.Round(squareFootage*quoteBaseRate*100) / 100
}

// formatAmount renders a price for SMS with at least one decimal place and
// no trailing zero padding: 180 -> "180.0", 187.55 -> "187.55".
func formatAmount(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
