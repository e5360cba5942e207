package agent

import "context"

// StaticLLMClient returns a fixed reply for every request. Used when no
// completion provider is configured and in local smoke testing.
type StaticLLMClient struct {
	Reply string
}

func (c *StaticLLMClient) Complete(ctx context.Context, req LLMRequest) (LLMResponse, error) {
	reply := c.Reply
	if reply == "" {
		reply = "Thanks for reaching out! What kind of job can we help you with?"
	}
	return LLMResponse{Text: reply, StopReason: "stop"}, nil
}
