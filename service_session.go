package authgate

import (
	"context"
	"errors"
	"fmt"

	"github.com/mvickers07/authgate/session"
)

// Validate returns the identity bound to token, or [ErrInvalidSession] for
// unknown, expired, invalidated, or malformed tokens.
func (s *Service) Validate(ctx context.Context, token string) (Identity, error) {
	if !s.ready() {
		return Identity{}, ErrServiceNotReady
	}

	sess, err := s.sessions.Get(ctx, token)
	if err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			return Identity{}, ErrInvalidSession
		}
		if errors.Is(err, session.ErrSessionCorrupt) {
			s.warnf("dropping corrupt session record: %v", err)
			if _, derr := s.sessions.Delete(ctx, token); derr != nil {
				s.warnf("corrupt session cleanup failed: %v", derr)
			}
			return Identity{}, ErrInvalidSession
		}
		return Identity{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	role, valid := ParseRole(sess.Role)
	if !valid {
		return Identity{}, ErrInvalidSession
	}

	return Identity{Username: sess.Username, Role: role}, nil
}

// Logout invalidates the token. Idempotent: logging out an unknown or
// already-invalidated token is a no-op, not an error.
func (s *Service) Logout(ctx context.Context, token string) error {
	if !s.ready() {
		return ErrServiceNotReady
	}

	existed, err := s.sessions.Delete(ctx, token)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if existed {
		s.metrics.inc(MetricSessionInvalidated)
	}
	return nil
}

// Authorize validates the token and checks its role against the allowed
// set the caller supplies for this operation. Returns the identity on
// success; [ErrInvalidSession] or [ErrPermissionDenied] otherwise.
func (s *Service) Authorize(ctx context.Context, token string, allowed RoleSet) (Identity, error) {
	id, err := s.Validate(ctx, token)
	if err != nil {
		if errors.Is(err, ErrInvalidSession) {
			s.metrics.inc(MetricAuthorizeDenied)
		}
		return Identity{}, err
	}

	if !allowed.Has(id.Role) {
		s.metrics.inc(MetricAuthorizeDenied)
		return Identity{}, ErrPermissionDenied
	}

	return id, nil
}
