package authgate

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/mvickers07/authgate/credential"
	"github.com/mvickers07/authgate/password"
)

// Register validates the username and password, hashes the password, and
// persists the account. Failure leaves no partial record: the insert is a
// single atomic statement in the credential store.
//
// Errors: [ErrInvalidUsername], [ErrInvalidRole], [ErrWeakPassword],
// [ErrDuplicateUser], or a wrapped [ErrStoreUnavailable].
func (s *Service) Register(ctx context.Context, username, pass string, role Role) (User, error) {
	if !s.ready() {
		return User{}, ErrServiceNotReady
	}

	if !validUsername(username, s.config.Username) {
		s.metrics.inc(MetricRegisterRejected)
		return User{}, ErrInvalidUsername
	}
	if !role.Valid() {
		s.metrics.inc(MetricRegisterRejected)
		return User{}, ErrInvalidRole
	}
	if !password.IsAcceptable(pass) {
		s.metrics.inc(MetricRegisterRejected)
		return User{}, ErrWeakPassword
	}

	hash, err := s.hasher.Hash(pass)
	if err != nil {
		return User{}, err
	}
	pass = ""

	created, err := s.users.Create(ctx, credential.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: hash,
		Role:         role.String(),
	})
	if err != nil {
		if errors.Is(err, credential.ErrDuplicateUsername) {
			s.metrics.inc(MetricRegisterDuplicate)
			return User{}, ErrDuplicateUser
		}
		return User{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	s.metrics.inc(MetricRegisterSuccess)
	return User{
		ID:        created.ID,
		Username:  created.Username,
		Role:      role,
		CreatedAt: created.CreatedAt,
	}, nil
}

// ClassifyPassword exposes the policy tier for UI feedback without any
// side effects.
func (s *Service) ClassifyPassword(pass string) password.Strength {
	return password.Classify(pass)
}

// validUsername bounds the length and restricts to ASCII letters and
// digits, matching what the storage key and the UI expect.
func validUsername(username string, cfg UsernameConfig) bool {
	if len(username) < cfg.MinLength || len(username) > cfg.MaxLength {
		return false
	}
	for _, r := range username {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}
