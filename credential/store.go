package credential

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrDuplicateUsername indicates an insert collided with an existing
	// username. The caller maps this to its public duplicate-user error.
	ErrDuplicateUsername = errors.New("duplicate username")
	// ErrUserNotFound indicates no record exists for the username or ID.
	ErrUserNotFound = errors.New("user not found")
	// ErrStoreUnavailable wraps backend failures (connection, I/O).
	ErrStoreUnavailable = errors.New("credential store unavailable")
)

// User is the stored account record. Username is the case-sensitive unique
// key; PasswordHash is a PHC-format argon2id string and the plaintext is
// never persisted anywhere in this package.
type User struct {
	ID           string
	Username     string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
}

// Store is the durable credential mapping consumed by the service layer.
//
// Create must be atomic with the uniqueness check: two concurrent creations
// of the same username yield exactly one stored record and one
// ErrDuplicateUsername.
type Store interface {
	Create(ctx context.Context, user User) (User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	UpdatePasswordHash(ctx context.Context, userID, newHash string) error
}
