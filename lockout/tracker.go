package lockout

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config holds the lockout policy.
type Config struct {
	// Threshold is the number of consecutive failures that engages the lock.
	Threshold int
	// Duration is the auto-unlock window. 0 means the lock never expires and
	// only an administrative Reset releases it.
	Duration time.Duration
}

// ErrTrackerUnavailable indicates the lockout backend is unreachable.
var ErrTrackerUnavailable = errors.New("lockout backend unavailable")

// Status is a point-in-time view of a username's lockout state.
type Status struct {
	Failures int
	Locked   bool
	// Until is the auto-unlock time; zero when the lock is manual-only or
	// no lock is held.
	Until time.Time
}

// Tracker is the per-username failure counter and lock state. Safe for
// concurrent use; all state lives in Redis.
type Tracker struct {
	redis  redis.UniversalClient
	config Config
}

// NewTracker creates a tracker with cfg. Threshold must be positive.
func NewTracker(redisClient redis.UniversalClient, cfg Config) (*Tracker, error) {
	if cfg.Threshold <= 0 {
		return nil, errors.New("lockout threshold must be positive")
	}
	if cfg.Duration < 0 {
		return nil, errors.New("lockout duration must not be negative")
	}
	return &Tracker{redis: redisClient, config: cfg}, nil
}

func (t *Tracker) failKey(username string) string {
	return "alf:" + username
}

func (t *Tracker) lockKey(username string) string {
	return "all:" + username
}

// RecordFailure increments the failure counter and engages the lock when
// the incremented count reaches the threshold. Returns true when this call
// locked the account (or found it already at threshold).
func (t *Tracker) RecordFailure(ctx context.Context, username string) (bool, error) {
	if username == "" {
		return false, nil
	}

	count, err := t.redis.Incr(ctx, t.failKey(username)).Result()
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrTrackerUnavailable, err)
	}

	if count == 1 && t.config.Duration > 0 {
		// TTL on the first failure makes the counter a rolling window, so a
		// stale count cannot re-lock the account right after auto-unlock.
		if err := t.redis.Expire(ctx, t.failKey(username), t.config.Duration).Err(); err != nil {
			return false, fmt.Errorf("%w: %v", ErrTrackerUnavailable, err)
		}
	}

	if count < int64(t.config.Threshold) {
		return false, nil
	}

	// The INCR result is this attempt's reserved slot, so only attempts at
	// or past the threshold reach here; setting the lock twice is harmless.
	var until int64
	if t.config.Duration > 0 {
		until = time.Now().Add(t.config.Duration).Unix()
	}
	if err := t.redis.Set(ctx, t.lockKey(username), until, t.config.Duration).Err(); err != nil {
		return false, fmt.Errorf("%w: %v", ErrTrackerUnavailable, err)
	}

	return true, nil
}

// RecordSuccess resets the failure counter after a successful login.
func (t *Tracker) RecordSuccess(ctx context.Context, username string) error {
	if username == "" {
		return nil
	}

	if err := t.redis.Del(ctx, t.failKey(username)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrTrackerUnavailable, err)
	}
	return nil
}

// IsLocked reports whether the username currently holds a lock and, for
// time-based locks, when it expires.
func (t *Tracker) IsLocked(ctx context.Context, username string) (bool, time.Time, error) {
	if username == "" {
		return false, time.Time{}, nil
	}

	val, err := t.redis.Get(ctx, t.lockKey(username)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, time.Time{}, nil
		}
		return false, time.Time{}, fmt.Errorf("%w: %v", ErrTrackerUnavailable, err)
	}

	until, err := strconv.ParseInt(val, 10, 64)
	if err != nil || until == 0 {
		return true, time.Time{}, nil
	}
	return true, time.Unix(until, 0), nil
}

// Reset clears the failure counter and any held lock. This is the
// administrative unlock path.
func (t *Tracker) Reset(ctx context.Context, username string) error {
	if username == "" {
		return nil
	}

	if err := t.redis.Del(ctx, t.failKey(username), t.lockKey(username)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrTrackerUnavailable, err)
	}
	return nil
}

// FailureCount returns the current consecutive-failure count.
func (t *Tracker) FailureCount(ctx context.Context, username string) (int, error) {
	if username == "" {
		return 0, nil
	}

	count, err := t.redis.Get(ctx, t.failKey(username)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("%w: %v", ErrTrackerUnavailable, err)
	}
	return int(count), nil
}

// Status combines FailureCount and IsLocked in one view.
func (t *Tracker) Status(ctx context.Context, username string) (Status, error) {
	failures, err := t.FailureCount(ctx, username)
	if err != nil {
		return Status{}, err
	}
	locked, until, err := t.IsLocked(ctx, username)
	if err != nil {
		return Status{}, err
	}
	return Status{Failures: failures, Locked: locked, Until: until}, nil
}
