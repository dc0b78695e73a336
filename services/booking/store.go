package booking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"barbook/models"
)

// ErrSessionNotFound is returned when a session ID resolves to nothing,
// either because it never existed or because its TTL elapsed.
var ErrSessionNotFound = errors.New("booking session not found or expired")

// SessionStore persists in-progress booking sessions. Sessions expire on
// their own; an expired session simply starts the user over.
type SessionStore interface {
	Save(ctx context.Context, session *models.BookingSession, ttl time.Duration) error
	Get(ctx context.Context, sessionID string) (*models.BookingSession, error)
	Delete(ctx context.Context, sessionID string) error
}

type redisSessionStore struct {
	client *redis.Client
}

// NewRedisSessionStore returns the Redis-backed session store.
func NewRedisSessionStore(client *redis.Client) SessionStore {
	return &redisSessionStore{client: client}
}

func (s *redisSessionStore) Save(ctx context.Context, session *models.BookingSession, ttl time.Duration) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal booking session: %w", err)
	}
	if err := s.client.Set(ctx, sessionKey(session.SessionID), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store booking session: %w", err)
	}
	return nil
}

func (s *redisSessionStore) Get(ctx context.Context, sessionID string) (*models.BookingSession, error) {
	data, err := s.client.Get(ctx, sessionKey(sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load booking session: %w", err)
	}
	var session models.BookingSession
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, fmt.Errorf("failed to parse booking session: %w", err)
	}
	return &session, nil
}

func (s *redisSessionStore) Delete(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, sessionKey(sessionID)).Err()
}

func sessionKey(sessionID string) string {
	return "booking:session:" + sessionID
}
