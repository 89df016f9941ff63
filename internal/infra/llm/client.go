package llm

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

const defaultModel = "gpt-4.1-mini"

// Client wraps the OpenAI API for the three uses this service has: free
// chat replies, open-answer scoring, and knowledge-base uploads.
type Client struct {
	api   *openai.Client
	model string
}

func NewClient(apiKey, model string) *Client {
	if model == "" {
		model = defaultModel
	}
	return &Client{api: openai.NewClient(apiKey), model: model}
}

// Message is one turn of inbound chat history.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatReply flattens the history into a role-prefixed transcript and asks
// the model for the next assistant turn.
func (c *Client) ChatReply(ctx context.Context, history []Message) (string, error) {
	var b strings.Builder
	for _, m := range history {
		role := m.Role
		if role == "" {
			role = "user"
		}
		fmt.Fprintf(&b, "%s: %s\n", role, m.Content)
	}

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: strings.TrimSpace(b.String())},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}
	reply := strings.TrimSpace(resp.Choices[0].Message.Content)
	if reply == "" {
		return "", fmt.Errorf("empty reply from model")
	}
	return reply, nil
}
