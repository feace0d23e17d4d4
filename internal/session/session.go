package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/eshoplabs/eshop/internal/redisx"
)

var ErrNoSession = errors.New("session: not authenticated")

// Store binds opaque session ids to user ids and carries flash messages
// between requests. Last write wins per key; no locking.
type Store struct {
	Client *redis.Client
}

func (s *Store) Bind(ctx context.Context, sessionID, userID string) error {
	key := fmt.Sprintf(redisx.KeySession, sessionID)
	if err := s.Client.Set(ctx, key, userID, redisx.TTLSession).Err(); err != nil {
		return fmt.Errorf("redis bind session: %w", err)
	}
	return nil
}

func (s *Store) Lookup(ctx context.Context, sessionID string) (string, error) {
	key := fmt.Sprintf(redisx.KeySession, sessionID)
	userID, err := s.Client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNoSession
	}
	if err != nil {
		return "", fmt.Errorf("redis lookup session: %w", err)
	}
	return userID, nil
}

func (s *Store) Drop(ctx context.Context, sessionID string) error {
	key := fmt.Sprintf(redisx.KeySession, sessionID)
	return s.Client.Del(ctx, key).Err()
}

// Flash queues a status message for the session's next render.
func (s *Store) Flash(ctx context.Context, sessionID, message string) error {
	key := fmt.Sprintf(redisx.KeyFlash, sessionID)
	if err := s.Client.RPush(ctx, key, message).Err(); err != nil {
		return fmt.Errorf("redis push flash: %w", err)
	}
	return s.Client.Expire(ctx, key, redisx.TTLFlash).Err()
}

// PopFlashes drains and returns all queued messages.
func (s *Store) PopFlashes(ctx context.Context, sessionID string) ([]string, error) {
	key := fmt.Sprintf(redisx.KeyFlash, sessionID)
	pipe := s.Client.TxPipeline()
	lrange := pipe.LRange(ctx, key, 0, -1)
	pipe.Del(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("redis pop flashes: %w", err)
	}
	return lrange.Val(), nil
}
