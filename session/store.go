package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mvickers07/authgate/internal"
)

var (
	// ErrSessionNotFound is returned by Get for unknown, expired, or
	// malformed tokens.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionCorrupt indicates a stored blob failed to decode.
	ErrSessionCorrupt = errors.New("session record corrupt")
	// ErrRedisUnavailable wraps backend failures.
	ErrRedisUnavailable = errors.New("session backend unavailable")
)

// Store persists session records keyed by opaque token. All methods are
// safe for concurrent use; tokens are independent keys and need no
// cross-session coordination.
type Store struct {
	redis  redis.UniversalClient
	prefix string
	// ttl bounds session lifetime; 0 disables expiry.
	ttl time.Duration
}

// NewStore creates a session store. prefix namespaces the Redis keys.
func NewStore(redisClient redis.UniversalClient, prefix string, ttl time.Duration) *Store {
	if prefix == "" {
		prefix = "ags"
	}
	return &Store{redis: redisClient, prefix: prefix, ttl: ttl}
}

func (s *Store) key(token string) string {
	return s.prefix + ":" + token
}

// Issue generates a fresh token, persists the record bound to username and
// role, and returns the populated session.
func (s *Store) Issue(ctx context.Context, username, role string, now time.Time) (*Session, error) {
	tok, err := internal.NewToken()
	if err != nil {
		return nil, err
	}

	sess := &Session{
		Token:    tok.String(),
		Username: username,
		Role:     role,
		IssuedAt: now.Unix(),
	}
	if s.ttl > 0 {
		sess.ExpiresAt = now.Add(s.ttl).Unix()
	}

	if err := s.Save(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// Save encodes and writes the record. The Redis TTL mirrors ExpiresAt so
// expired sessions also vanish from storage.
func (s *Store) Save(ctx context.Context, sess *Session) error {
	blob, err := Encode(sess)
	if err != nil {
		return err
	}

	var ttl time.Duration
	if sess.ExpiresAt > 0 {
		ttl = time.Until(time.Unix(sess.ExpiresAt, 0))
		if ttl <= 0 {
			return errors.New("session already expired")
		}
	}

	if err := s.redis.Set(ctx, s.key(sess.Token), blob, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

// Get returns the record bound to token, or ErrSessionNotFound. Expiry is
// double-checked against the embedded timestamp in case the backend has
// not evicted the key yet.
func (s *Store) Get(ctx context.Context, token string) (*Session, error) {
	if _, err := internal.ParseToken(token); err != nil {
		return nil, ErrSessionNotFound
	}

	blob, err := s.redis.Get(ctx, s.key(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	sess, err := Decode(blob)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSessionCorrupt, err)
	}
	sess.Token = token

	if sess.ExpiresAt > 0 && sess.ExpiresAt <= time.Now().Unix() {
		// Evict eagerly; Delete is idempotent so a concurrent eviction is fine.
		_, _ = s.Delete(ctx, token)
		return nil, ErrSessionNotFound
	}

	return sess, nil
}

// Delete invalidates the token. Idempotent: deleting an unknown or
// already-deleted token reports existed=false with no error.
func (s *Store) Delete(ctx context.Context, token string) (bool, error) {
	if _, err := internal.ParseToken(token); err != nil {
		return false, nil
	}

	existed, err := s.redis.Del(ctx, s.key(token)).Result()
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return existed > 0, nil
}
