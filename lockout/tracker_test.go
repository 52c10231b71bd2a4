package lockout

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTrackerTest(t *testing.T, cfg Config) (*Tracker, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis start: %v", err)
	}
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	tracker, err := NewTracker(rdb, cfg)
	if err != nil {
		t.Fatalf("NewTracker: %v", err)
	}
	return tracker, mr
}

func TestThresholdEngagesLock(t *testing.T) {
	tracker, _ := newTrackerTest(t, Config{Threshold: 3})
	ctx := context.Background()

	for i := 1; i <= 2; i++ {
		locked, err := tracker.RecordFailure(ctx, "alice")
		if err != nil {
			t.Fatalf("failure %d: %v", i, err)
		}
		if locked {
			t.Fatalf("failure %d: locked before threshold", i)
		}
	}

	locked, err := tracker.RecordFailure(ctx, "alice")
	if err != nil {
		t.Fatalf("threshold failure: %v", err)
	}
	if !locked {
		t.Fatal("expected lock at threshold")
	}

	isLocked, _, err := tracker.IsLocked(ctx, "alice")
	if err != nil {
		t.Fatalf("IsLocked: %v", err)
	}
	if !isLocked {
		t.Fatal("expected IsLocked true after threshold")
	}
}

func TestSuccessResetsCounter(t *testing.T) {
	tracker, _ := newTrackerTest(t, Config{Threshold: 3})
	ctx := context.Background()

	tracker.RecordFailure(ctx, "bob")
	tracker.RecordFailure(ctx, "bob")

	if err := tracker.RecordSuccess(ctx, "bob"); err != nil {
		t.Fatalf("RecordSuccess: %v", err)
	}

	count, err := tracker.FailureCount(ctx, "bob")
	if err != nil {
		t.Fatalf("FailureCount: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected counter reset to 0, got %d", count)
	}

	// A single post-reset failure must not lock.
	locked, err := tracker.RecordFailure(ctx, "bob")
	if err != nil {
		t.Fatalf("RecordFailure: %v", err)
	}
	if locked {
		t.Fatal("single failure after reset locked the account")
	}
}

func TestManualResetReleasesLock(t *testing.T) {
	tracker, _ := newTrackerTest(t, Config{Threshold: 3})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		tracker.RecordFailure(ctx, "carol")
	}
	if locked, _, _ := tracker.IsLocked(ctx, "carol"); !locked {
		t.Fatal("expected lock")
	}

	if err := tracker.Reset(ctx, "carol"); err != nil {
		t.Fatalf("Reset: %v", err)
	}

	locked, _, err := tracker.IsLocked(ctx, "carol")
	if err != nil {
		t.Fatalf("IsLocked: %v", err)
	}
	if locked {
		t.Fatal("expected unlock after Reset")
	}
	if count, _ := tracker.FailureCount(ctx, "carol"); count != 0 {
		t.Fatalf("expected counter cleared by Reset, got %d", count)
	}
}

func TestManualOnlyLockHasNoExpiry(t *testing.T) {
	tracker, mr := newTrackerTest(t, Config{Threshold: 3})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		tracker.RecordFailure(ctx, "dave")
	}

	mr.FastForward(24 * time.Hour)

	locked, until, err := tracker.IsLocked(ctx, "dave")
	if err != nil {
		t.Fatalf("IsLocked: %v", err)
	}
	if !locked {
		t.Fatal("manual-only lock expired")
	}
	if !until.IsZero() {
		t.Fatalf("manual-only lock reported expiry %v", until)
	}
}

func TestTimedLockAutoUnlocks(t *testing.T) {
	tracker, mr := newTrackerTest(t, Config{Threshold: 3, Duration: 5 * time.Minute})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		tracker.RecordFailure(ctx, "erin")
	}

	locked, until, err := tracker.IsLocked(ctx, "erin")
	if err != nil {
		t.Fatalf("IsLocked: %v", err)
	}
	if !locked {
		t.Fatal("expected lock")
	}
	if until.IsZero() {
		t.Fatal("timed lock reported no expiry")
	}

	mr.FastForward(6 * time.Minute)

	locked, _, err = tracker.IsLocked(ctx, "erin")
	if err != nil {
		t.Fatalf("IsLocked after expiry: %v", err)
	}
	if locked {
		t.Fatal("expected auto-unlock after duration")
	}

	// The rolling-window counter expired with the lock, so one fresh
	// failure must not immediately re-lock.
	relocked, err := tracker.RecordFailure(ctx, "erin")
	if err != nil {
		t.Fatalf("RecordFailure: %v", err)
	}
	if relocked {
		t.Fatal("stale counter re-locked the account after auto-unlock")
	}
}

// Concurrent failing attempts must serialize on the counter: with N
// parallel failures exactly the attempts at or past the threshold observe
// the lock, never fewer.
func TestConcurrentFailuresSerialize(t *testing.T) {
	tracker, _ := newTrackerTest(t, Config{Threshold: 3})
	ctx := context.Background()

	const attempts = 10
	results := make([]bool, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			locked, err := tracker.RecordFailure(ctx, "frank")
			if err != nil {
				t.Errorf("RecordFailure: %v", err)
				return
			}
			results[i] = locked
		}(i)
	}
	wg.Wait()

	var lockedCount int
	for _, locked := range results {
		if locked {
			lockedCount++
		}
	}
	if lockedCount != attempts-2 {
		t.Fatalf("expected %d attempts to observe the threshold, got %d", attempts-2, lockedCount)
	}

	count, err := tracker.FailureCount(ctx, "frank")
	if err != nil {
		t.Fatalf("FailureCount: %v", err)
	}
	if count != attempts {
		t.Fatalf("expected counter %d, got %d", attempts, count)
	}
}

func TestDifferentUsernamesIndependent(t *testing.T) {
	tracker, _ := newTrackerTest(t, Config{Threshold: 3})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		tracker.RecordFailure(ctx, "locked-user")
	}

	locked, _, err := tracker.IsLocked(ctx, "other-user")
	if err != nil {
		t.Fatalf("IsLocked: %v", err)
	}
	if locked {
		t.Fatal("lock leaked across usernames")
	}
}

func TestNewTrackerRejectsBadConfig(t *testing.T) {
	if _, err := NewTracker(nil, Config{Threshold: 0}); err == nil {
		t.Fatal("expected error for zero threshold")
	}
	if _, err := NewTracker(nil, Config{Threshold: 3, Duration: -time.Minute}); err == nil {
		t.Fatal("expected error for negative duration")
	}
}
