package authgate

import (
	"time"
)

// Role is the coarse permission tier bound to an account and its sessions.
// The hierarchy (admin over analyst over user) is enforced by the caller
// per operation through the RoleSet it passes to [Service.Authorize], not
// implicitly by the core.
type Role string

const (
	// RoleUser is the default tier for self-registered accounts.
	RoleUser Role = "user"
	// RoleAnalyst may modify domain data.
	RoleAnalyst Role = "analyst"
	// RoleAdmin may additionally administer accounts and lockouts.
	RoleAdmin Role = "admin"
)

// Valid reports whether r names a known tier.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAnalyst, RoleAdmin:
		return true
	default:
		return false
	}
}

func (r Role) String() string { return string(r) }

// ParseRole maps a stored or user-supplied string to a Role.
func ParseRole(s string) (Role, bool) {
	r := Role(s)
	return r, r.Valid()
}

// RoleSet is the allowed-role set a caller supplies per operation.
type RoleSet map[Role]struct{}

// NewRoleSet builds a set from the given roles.
func NewRoleSet(roles ...Role) RoleSet {
	set := make(RoleSet, len(roles))
	for _, r := range roles {
		set[r] = struct{}{}
	}
	return set
}

// Has reports membership.
func (s RoleSet) Has(r Role) bool {
	_, ok := s[r]
	return ok
}

// Convenience sets mirroring the caller-side hierarchy.
var (
	// AnyRole admits every valid session.
	AnyRole = NewRoleSet(RoleUser, RoleAnalyst, RoleAdmin)
	// AnalystOrAdmin gates domain-data writes.
	AnalystOrAdmin = NewRoleSet(RoleAnalyst, RoleAdmin)
	// AdminOnly gates administrative operations.
	AdminOnly = NewRoleSet(RoleAdmin)
)

// User is the public view of a stored account. The password hash never
// leaves the credential store through this type.
type User struct {
	ID        string
	Username  string
	Role      Role
	CreatedAt time.Time
}

// Identity is the verified identity bound to a validated session token.
type Identity struct {
	Username string
	Role     Role
}

// Session is returned by Login: the opaque bearer token plus the identity
// and timestamps it proves.
type Session struct {
	Token    string
	Username string
	Role     Role
	IssuedAt time.Time
	// ExpiresAt is zero when session expiry is disabled.
	ExpiresAt time.Time
}

// LockoutStatus reports a username's brute-force tracking state.
type LockoutStatus struct {
	Failures int
	Locked   bool
	// Until is the auto-unlock time; zero for manual-only locks or when
	// no lock is held.
	Until time.Time
}

// Logger is the minimal logging surface the service writes warnings to.
// The std log package satisfies it; so does a logrus entry.
type Logger interface {
	Printf(format string, args ...any)
}
