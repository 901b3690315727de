// Package sessions keeps server-side session state in Redis.
package sessions

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

const (
	// CurrUserKey is the session field holding the logged-in user's id.
	CurrUserKey = "curr_user"

	// CookieName carries the signed session token.
	CookieName = "warbler_session"

	sessionPrefix   = "session:"
	blacklistPrefix = "blacklist:"
)

var ErrNoSession = errors.New("session not found")

// Store wraps Redis for session management. A session is a hash at session:<sid>.
type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	return &Store{rdb: rdb, ttl: ttl}
}

func (s *Store) TTL() time.Duration {
	return s.ttl
}

// Create opens a new session with the given fields and returns its id.
func (s *Store) Create(ctx context.Context, values map[string]string) (string, error) {
	sid := uuid.New().String()
	key := sessionPrefix + sid

	fields := map[string]interface{}{"created_at": time.Now().UTC().Format(time.RFC3339)}
	for k, v := range values {
		fields[k] = v
	}

	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, fields)
		pipe.Expire(ctx, key, s.ttl)
		return nil
	})
	if err != nil {
		return "", err
	}
	return sid, nil
}

// Get returns a session field. A missing session or field yields "" and no error.
func (s *Store) Get(ctx context.Context, sid, field string) (string, error) {
	val, err := s.rdb.HGet(ctx, sessionPrefix+sid, field).Result()
	if err == redis.Nil {
		return "", nil
	}
	return val, err
}

// Set writes a field into an existing session.
func (s *Store) Set(ctx context.Context, sid, field, value string) error {
	key := sessionPrefix + sid
	n, err := s.rdb.Exists(ctx, key).Result()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNoSession
	}
	return s.rdb.HSet(ctx, key, field, value).Err()
}

// Unset removes a single field, e.g. CurrUserKey on logout.
func (s *Store) Unset(ctx context.Context, sid, field string) error {
	return s.rdb.HDel(ctx, sessionPrefix+sid, field).Err()
}

func (s *Store) Delete(ctx context.Context, sid string) error {
	return s.rdb.Del(ctx, sessionPrefix+sid).Err()
}

// Blacklist rejects token until ttl elapses.
func (s *Store) Blacklist(ctx context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return s.rdb.Set(ctx, blacklistPrefix+token, 1, ttl).Err()
}

func (s *Store) IsBlacklisted(ctx context.Context, token string) (bool, error) {
	n, err := s.rdb.Exists(ctx, blacklistPrefix+token).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}
