package authgate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mvickers07/authgate/credential"
)

// Login verifies credentials and issues a session token.
//
// Order matters and is part of the contract:
//
//  1. Lockout gate. A locked username fails with [ErrAccountLocked] before
//     any hash computation and without touching the failure counter.
//  2. Credential verification. Unknown usernames verify against the decoy
//     hash so the caller cannot distinguish them from wrong passwords;
//     both return [ErrInvalidCredentials].
//  3. On failure the counter is incremented; the attempt that reaches the
//     threshold returns [ErrAccountLocked] instead.
//  4. On success the counter resets and a session is issued.
func (s *Service) Login(ctx context.Context, username, pass string) (Session, error) {
	if !s.ready() {
		return Session{}, ErrServiceNotReady
	}

	locked, _, err := s.lockouts.IsLocked(ctx, username)
	if err != nil {
		return Session{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if locked {
		s.metrics.inc(MetricLoginLocked)
		return Session{}, ErrAccountLocked
	}

	if username == "" || pass == "" {
		return s.failLogin(ctx, username)
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, credential.ErrUserNotFound) {
			// Burn the same verification cost as the known-user path.
			if _, verr := s.hasher.Verify(pass, s.decoyHash); verr != nil {
				s.warnf("decoy verification failed: %v", verr)
			}
			return s.failLogin(ctx, username)
		}
		return Session{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	ok, err := s.hasher.Verify(pass, user.PasswordHash)
	if err != nil {
		s.warnf("stored hash for %q is malformed: %v", username, err)
		return s.failLogin(ctx, username)
	}
	if !ok {
		return s.failLogin(ctx, username)
	}

	role, valid := ParseRole(user.Role)
	if !valid {
		s.warnf("stored role %q for %q is unknown", user.Role, username)
		return s.failLogin(ctx, username)
	}

	if s.config.Password.UpgradeOnLogin {
		s.maybeUpgradeHash(ctx, user, pass)
	}
	pass = ""

	if err := s.lockouts.RecordSuccess(ctx, username); err != nil {
		return Session{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	sess, err := s.sessions.Issue(ctx, username, role.String(), time.Now())
	if err != nil {
		return Session{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	s.metrics.inc(MetricSessionIssued)
	s.metrics.inc(MetricLoginSuccess)

	out := Session{
		Token:    sess.Token,
		Username: sess.Username,
		Role:     role,
		IssuedAt: time.Unix(sess.IssuedAt, 0),
	}
	if sess.ExpiresAt > 0 {
		out.ExpiresAt = time.Unix(sess.ExpiresAt, 0)
	}
	return out, nil
}

func (s *Service) failLogin(ctx context.Context, username string) (Session, error) {
	lockedNow, err := s.lockouts.RecordFailure(ctx, username)
	if err != nil {
		return Session{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if lockedNow {
		s.metrics.inc(MetricLockoutEngaged)
		s.metrics.inc(MetricLoginLocked)
		return Session{}, ErrAccountLocked
	}

	s.metrics.inc(MetricLoginFailure)
	return Session{}, ErrInvalidCredentials
}

// maybeUpgradeHash rehashes with the current parameters when the stored
// hash is weaker. Best-effort: the login proceeds either way.
func (s *Service) maybeUpgradeHash(ctx context.Context, user *credential.User, pass string) {
	needs, err := s.hasher.NeedsUpgrade(user.PasswordHash)
	if err != nil || !needs {
		return
	}
	upgraded, err := s.hasher.Hash(pass)
	if err != nil {
		s.warnf("password hash upgrade generation failed: %v", err)
		return
	}
	if err := s.users.UpdatePasswordHash(ctx, user.ID, upgraded); err != nil {
		s.warnf("password hash upgrade update failed: %v", err)
	}
}
