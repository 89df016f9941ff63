package scoring

import (
	"context"
	"time"

	"mechina-chat-service/internal/domain"
)

// Request is the structured payload sent to an external scorer.
type Request struct {
	Rubric string `json:"rubric,omitempty"`
	Max    int    `json:"max"`
	Answer string `json:"answer"`
}

// Result is the structured response expected back.
type Result struct {
	Score int `json:"score"`
}

// Scorer grades an open-text answer externally.
type Scorer interface {
	Score(ctx context.Context, req Request) (Result, error)
}

// Delegated asks scorer to grade an answer per rule, bounded by timeout.
// A nil scorer, an error, or a timeout yields 0 so a broken scorer never
// aborts the conversation. The result is clamped to [0, rule.Max].
func Delegated(ctx context.Context, answer string, rule domain.ScoringRule, scorer Scorer, timeout time.Duration) int {
	if scorer == nil {
		return 0
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	result, err := scorer.Score(ctx, Request{Rubric: rule.Rubric, Max: rule.Max, Answer: answer})
	if err != nil {
		return 0
	}
	return clamp(result.Score, 0, rule.Max)
}
