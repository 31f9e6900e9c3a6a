package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/pkordes/easytrip/backend/internal/domain"
)

// Redis key prefix for sessions.
const sessionKeyPrefix = "easytrip:session:"

// RedisStore keeps sessions in Redis so every API instance sees the same
// logins. Redis key expiry enforces ExpiresAt.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore constructs a Redis-backed session store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

type redisSession struct {
	UserID    uuid.UUID `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Save stores the session with a TTL matching its remaining lifetime.
// An already expired session is not stored.
func (r *RedisStore) Save(ctx context.Context, s domain.Session) error {
	ttl := time.Until(s.ExpiresAt)
	if ttl <= 0 {
		return nil
	}
	payload, err := json.Marshal(redisSession{UserID: s.UserID, CreatedAt: s.CreatedAt, ExpiresAt: s.ExpiresAt})
	if err != nil {
		return fmt.Errorf("session.RedisStore.Save: encode: %w", err)
	}
	if err := r.client.Set(ctx, sessionKeyPrefix+s.Token, payload, ttl).Err(); err != nil {
		return fmt.Errorf("session.RedisStore.Save: %w", err)
	}
	return nil
}

func (r *RedisStore) Get(ctx context.Context, token string) (domain.Session, error) {
	raw, err := r.client.Get(ctx, sessionKeyPrefix+token).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Session{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Session{}, fmt.Errorf("session.RedisStore.Get: %w", err)
	}

	var rs redisSession
	if err := json.Unmarshal(raw, &rs); err != nil {
		return domain.Session{}, fmt.Errorf("session.RedisStore.Get: decode: %w", err)
	}
	s := domain.Session{Token: token, UserID: rs.UserID, CreatedAt: rs.CreatedAt, ExpiresAt: rs.ExpiresAt}
	if s.Expired(time.Now()) {
		return domain.Session{}, domain.ErrNotFound
	}
	return s, nil
}

func (r *RedisStore) Delete(ctx context.Context, token string) error {
	if err := r.client.Del(ctx, sessionKeyPrefix+token).Err(); err != nil {
		return fmt.Errorf("session.RedisStore.Delete: %w", err)
	}
	return nil
}
