package quiz

import (
	"fmt"

	"mechina-chat-service/internal/domain"
)

// Validate checks the structural invariants of a quiz definition: a
// non-empty question list with unique ids, bands present, and each question
// carrying exactly the payload its kind requires.
func Validate(q domain.Quiz) error {
	if len(q.Questions) == 0 {
		return domain.ErrNoQuestions
	}
	if len(q.Bands) == 0 {
		return domain.ErrNoBands
	}
	seen := make(map[string]bool, len(q.Questions))
	for _, question := range q.Questions {
		if seen[question.ID] {
			return fmt.Errorf("%w: %s", domain.ErrDuplicateQuestion, question.ID)
		}
		seen[question.ID] = true

		switch question.Kind {
		case domain.QuestionChoice:
			if len(question.Options) == 0 {
				return fmt.Errorf("%w: %s has no options", domain.ErrInvalidQuestion, question.ID)
			}
			if question.Scoring != nil {
				return fmt.Errorf("%w: %s is a choice question with a scoring rule", domain.ErrInvalidQuestion, question.ID)
			}
		case domain.QuestionOpenText:
			if question.Scoring == nil {
				return fmt.Errorf("%w: %s has no scoring rule", domain.ErrInvalidQuestion, question.ID)
			}
			if len(question.Options) != 0 {
				return fmt.Errorf("%w: %s is an open question with options", domain.ErrInvalidQuestion, question.ID)
			}
			if question.Scoring.Mode == domain.ScoreKeywords && question.Scoring.Keywords == nil {
				return fmt.Errorf("%w: %s has keyword scoring without keyword groups", domain.ErrInvalidQuestion, question.ID)
			}
		default:
			return fmt.Errorf("%w: %s has unknown kind %q", domain.ErrInvalidQuestion, question.ID, question.Kind)
		}
	}
	return nil
}
