package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"mechina-chat-service/internal/scoring"
)

// Score grades an open answer against the rubric. The model must reply
// with minified JSON {"score":n}; anything else is an error, which the
// engine degrades to zero points.
func (c *Client) Score(ctx context.Context, req scoring.Request) (scoring.Result, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return scoring.Result{}, fmt.Errorf("encode score request: %w", err)
	}

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: fmt.Sprintf(`Return ONLY minified JSON: {"score":number}. Score must be 0..%d`, req.Max),
			},
			{Role: openai.ChatMessageRoleUser, Content: string(payload)},
		},
	})
	if err != nil {
		return scoring.Result{}, fmt.Errorf("score completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return scoring.Result{}, fmt.Errorf("no choices in response")
	}

	var result scoring.Result
	if err := json.Unmarshal([]byte(strings.TrimSpace(resp.Choices[0].Message.Content)), &result); err != nil {
		return scoring.Result{}, fmt.Errorf("decode score: %w", err)
	}
	return result, nil
}
