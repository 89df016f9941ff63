package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"mechina-chat-service/internal/domain"
)

// SessionStore keeps questionnaire state in Redis as JSON values with a
// TTL, so sessions survive restarts and can be shared across instances.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{client: client, ttl: ttl}
}

// Get returns the stored state, or the zeroed inactive default when the
// respondent has no session key.
func (s *SessionStore) Get(ctx context.Context, respondentID string) (domain.SessionState, error) {
	raw, err := s.client.Get(ctx, s.key(respondentID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.NewSessionState(), nil
	}
	if err != nil {
		return domain.SessionState{}, fmt.Errorf("get session: %w", err)
	}
	var state domain.SessionState
	if err := json.Unmarshal(raw, &state); err != nil {
		return domain.SessionState{}, fmt.Errorf("decode session: %w", err)
	}
	return state, nil
}

func (s *SessionStore) Set(ctx context.Context, respondentID string, state domain.SessionState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.client.Set(ctx, s.key(respondentID), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("set session: %w", err)
	}
	return nil
}

func (s *SessionStore) key(respondentID string) string {
	return "quiz:respondent:" + respondentID
}
