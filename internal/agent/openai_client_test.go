package agent

import (
	"context"
	"testing"

	openai "github.com/sashabaranov/go-openai"
)

type fakeChatClient struct {
	lastReq openai.ChatCompletionRequest
	resp    openai.ChatCompletionResponse
	err     error
}

func (f *fakeChatClient) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.lastReq = req
	return f.resp, f.err
}

func TestOpenAICompleteMapsRequestAndResponse(t *testing.T) {
	fake := &fakeChatClient{
		resp: openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{{
				Message:      openai.ChatCompletionMessage{Content: "  hello there  "},
				FinishReason: openai.FinishReasonStop,
			}},
			Usage: openai.Usage{PromptTokens: 12, CompletionTokens: 4, TotalTokens: 16},
		},
	}
	client := &OpenAILLMClient{client: fake, model: "gpt-4-turbo"}

	resp, err := client.Complete(context.Background(), LLMRequest{
		System:      []string{"be brief"},
		Messages:    []ChatMessage{{Role: ChatRoleUser, Content: "hi"}},
		Temperature: 0.5,
	})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}

	if resp.Text != "hello there" {
		t.Errorf("text = %q", resp.Text)
	}
	if resp.Usage.TotalTokens != 16 {
		t.Errorf("total tokens = %d", resp.Usage.TotalTokens)
	}
	if fake.lastReq.Model != "gpt-4-turbo" {
		t.Errorf("model = %q", fake.lastReq.Model)
	}
	if len(fake.lastReq.Messages) != 2 {
		t.Fatalf("messages = %d, want 2", len(fake.lastReq.Messages))
	}
	if fake.lastReq.Messages[0].Role != openai.ChatMessageRoleSystem {
		t.Errorf("first message role = %q", fake.lastReq.Messages[0].Role)
	}
}

func TestOpenAICompleteNoChoices(t *testing.T) {
	client := &OpenAILLMClient{client: &fakeChatClient{}, model: "gpt-4-turbo"}

	_, err := client.Complete(context.Background(), LLMRequest{
		Messages: []ChatMessage{{Role: ChatRoleUser, Content: "hi"}},
	})
	if err == nil {
		t.Fatal("expected error for empty choices")
	}
}
