package session

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/authgate-dev/authgate/internal"
)

// RedisStore persists sessions in Redis so they survive process restarts
// and are shared across replicas. Atomicity is delegated to Redis: every
// store call is a single command, and reads tolerate the record having
// changed or vanished between calls.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
	now    func() time.Time
}

// NewRedisStore creates a Redis-backed store. prefix namespaces the keys
// (default "ags"); ttl <= 0 means sessions never expire.
func NewRedisStore(client redis.UniversalClient, prefix string, ttl time.Duration) *RedisStore {
	if prefix == "" {
		prefix = "ags"
	}
	return &RedisStore{
		client: client,
		prefix: prefix,
		ttl:    ttl,
		now:    time.Now,
	}
}

func (s *RedisStore) key(sessionID string) string {
	return s.prefix + ":" + sessionID
}

// Create implements [Store].
func (s *RedisStore) Create(ctx context.Context, userID string) (string, error) {
	if userID == "" {
		return "", ErrInvalidUserID
	}

	sessionID, err := internal.NewSessionID()
	if err != nil {
		return "", err
	}

	encoded, err := encodeRecord(Record{
		UserID:    userID,
		CreatedAt: s.now().Unix(),
	})
	if err != nil {
		return "", err
	}

	var physicalTTL time.Duration
	if s.ttl > 0 {
		physicalTTL = s.ttl
	}
	if err := s.client.Set(ctx, s.key(sessionID), encoded, physicalTTL).Err(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	return sessionID, nil
}

// Resolve implements [Store]. The expiry check runs at read time against
// the recorded creation timestamp, independent of Redis eviction. Backend
// errors and corrupt records read as "not found".
func (s *RedisStore) Resolve(ctx context.Context, sessionID string) (string, bool) {
	if sessionID == "" {
		return "", false
	}

	data, err := s.client.Get(ctx, s.key(sessionID)).Bytes()
	if err != nil {
		return "", false
	}

	record, err := decodeRecord(data)
	if err != nil {
		return "", false
	}

	if s.ttl > 0 && s.now().Unix() > record.CreatedAt+int64(s.ttl/time.Second) {
		_ = s.client.Del(ctx, s.key(sessionID)).Err()
		return "", false
	}

	return record.UserID, true
}

// Destroy implements [Store]. DEL's reply keeps the idempotency contract:
// concurrent destroys of one session settle on exactly one true.
func (s *RedisStore) Destroy(ctx context.Context, sessionID string) bool {
	if sessionID == "" {
		return false
	}

	removed, err := s.client.Del(ctx, s.key(sessionID)).Result()
	if err != nil {
		return false
	}
	return removed > 0
}
