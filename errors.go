package authgate

import "errors"

var (
	// ErrDuplicateUser is returned by Register when the username is taken.
	ErrDuplicateUser = errors.New("username already exists")
	// ErrWeakPassword is returned by Register when the password fails the policy gate.
	ErrWeakPassword = errors.New("password below minimum strength")
	// ErrInvalidCredentials is returned by Login for unknown users and wrong
	// passwords alike.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrAccountLocked is returned by Login while the lockout tracker holds a
	// lock for the username, regardless of credential correctness.
	ErrAccountLocked = errors.New("account locked")
	// ErrInvalidSession is returned by Validate and Authorize for unknown,
	// expired, or invalidated tokens.
	ErrInvalidSession = errors.New("invalid session")
	// ErrInvalidUsername is returned by Register when the username fails
	// format validation.
	ErrInvalidUsername = errors.New("invalid username")
	// ErrInvalidRole is returned by Register for a role outside user/analyst/admin.
	ErrInvalidRole = errors.New("invalid role")
	// ErrPermissionDenied is returned by Authorize when the session is valid
	// but its role is not in the allowed set.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrServiceNotReady is returned when a Service method is called on a
	// partially constructed instance.
	ErrServiceNotReady = errors.New("service not initialized")
	// ErrStoreUnavailable wraps backend failures from the credential, lockout,
	// and session stores.
	ErrStoreUnavailable = errors.New("store unavailable")
)
