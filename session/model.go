package session

// Session binds an opaque token to the identity it proves. Instances are
// immutable once saved; invalidation removes the record rather than
// mutating it.
type Session struct {
	Token    string
	Username string
	Role     string

	IssuedAt int64
	// ExpiresAt is a Unix timestamp; 0 means the session never expires.
	ExpiresAt int64
}
