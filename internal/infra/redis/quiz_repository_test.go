package redis

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"mechina-chat-service/internal/domain"
	"mechina-chat-service/internal/infra/memory"
	"mechina-chat-service/internal/quiz"
)

func TestQuizRepositoryCachesInRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	fit := quiz.FitQuiz()
	loader := &countingLoader{
		DefinitionLoader: memory.NewStaticDefinitions(map[string]domain.Quiz{fit.ID: fit}),
	}
	repo := NewQuizRepository(client, loader, time.Minute)
	ctx := context.Background()

	got, err := repo.GetQuiz(ctx, fit.ID)
	if err != nil {
		t.Fatalf("get quiz: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader called once, got %d", loader.calls)
	}
	if len(got.Questions) != len(fit.Questions) {
		t.Fatalf("definition lost questions: %d != %d", len(got.Questions), len(fit.Questions))
	}
	if !mr.Exists("quiz:def:" + fit.ID) {
		t.Fatalf("expected cached definition key")
	}

	// Second call reads the redis copy, loader not incremented.
	again, err := repo.GetQuiz(ctx, fit.ID)
	if err != nil {
		t.Fatalf("get quiz 2: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls=%d", loader.calls)
	}
	if again.Title != fit.Title {
		t.Fatalf("cached definition mismatch: %q", again.Title)
	}
}

type countingLoader struct {
	memory.DefinitionLoader
	calls int
}

func (l *countingLoader) LoadDefinition(ctx context.Context, quizID string) (domain.Quiz, error) {
	l.calls++
	return l.DefinitionLoader.LoadDefinition(ctx, quizID)
}
