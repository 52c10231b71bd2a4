package authgate

import (
	"context"
	"fmt"
)

// ResetLockout clears the failure counter and any held lock for username.
// This is the administrative unlock path; callers are expected to gate it
// behind [AdminOnly].
func (s *Service) ResetLockout(ctx context.Context, username string) error {
	if !s.ready() {
		return ErrServiceNotReady
	}

	if err := s.lockouts.Reset(ctx, username); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	s.metrics.inc(MetricLockoutReset)
	return nil
}

// LockoutStatus reports the failure count and lock state for username.
func (s *Service) LockoutStatus(ctx context.Context, username string) (LockoutStatus, error) {
	if !s.ready() {
		return LockoutStatus{}, ErrServiceNotReady
	}

	status, err := s.lockouts.Status(ctx, username)
	if err != nil {
		return LockoutStatus{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return LockoutStatus{
		Failures: status.Failures,
		Locked:   status.Locked,
		Until:    status.Until,
	}, nil
}
