// Package authgate implements the authentication and session core for the
// intelligence platform: credential storage with argon2id hashing, a
// password policy gate, brute-force lockout tracking, and opaque
// Redis-backed session tokens consumed by role-gated callers.
//
// The package is designed for concurrent server workloads: Service methods
// are safe to call from multiple goroutines after initialization through
// [Builder.Build].
//
// # Architecture boundaries
//
// authgate is the public surface. It exposes [Service], [Builder], [Config],
// and value types (User, Identity, LockoutStatus, MetricsSnapshot). Session
// encoding and token generation live under internal/ and the storage
// subpackages and are never exported from here.
//
// # What this package must NOT do
//
//   - Expose Redis clients, SQL handles, or encoding details in its public API.
//   - Perform I/O during construction (Builder is allocation-only until Build).
//   - Reveal whether a login failure was caused by an unknown username or a
//     wrong password; both paths return [ErrInvalidCredentials] and both pay
//     the full hash-verification cost.
package authgate
