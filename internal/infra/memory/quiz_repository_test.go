package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"mechina-chat-service/internal/domain"
)

func TestQuizRepositoryCaches(t *testing.T) {
	loader := &countingLoader{
		DefinitionLoader: NewStaticDefinitions(map[string]domain.Quiz{
			"quiz-1": sampleDefinition(),
		}),
	}
	repo := NewQuizRepository(loader, time.Minute)

	if _, err := repo.GetQuiz(context.Background(), "quiz-1"); err != nil {
		t.Fatalf("get quiz: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader once, got %d", loader.calls)
	}

	if _, err := repo.GetQuiz(context.Background(), "quiz-1"); err != nil {
		t.Fatalf("get quiz 2: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls %d", loader.calls)
	}
}

func TestQuizRepositoryPropagatesLoaderErrors(t *testing.T) {
	repo := NewQuizRepository(NewStaticDefinitions(nil), time.Minute)

	_, err := repo.GetQuiz(context.Background(), "missing")
	if !errors.Is(err, domain.ErrQuizNotFound) {
		t.Fatalf("expected ErrQuizNotFound, got %v", err)
	}
}

type countingLoader struct {
	DefinitionLoader
	calls int
}

func (l *countingLoader) LoadDefinition(ctx context.Context, quizID string) (domain.Quiz, error) {
	l.calls++
	return l.DefinitionLoader.LoadDefinition(ctx, quizID)
}

func sampleDefinition() domain.Quiz {
	return domain.Quiz{
		ID:    "quiz-1",
		Title: "שאלון לדוגמה",
		Questions: []domain.Question{
			{
				ID:     "q1",
				Kind:   domain.QuestionChoice,
				Prompt: "שאלה ראשונה",
				Options: []domain.Option{
					{ID: "a", Label: "אפשרות א", Points: 1},
					{ID: "b", Label: "אפשרות ב", Points: 2},
				},
			},
		},
		Bands: []domain.Band{
			{Min: 0, Max: 100, Key: "all", Label: "כללי", Summary: "סיכום"},
		},
	}
}
