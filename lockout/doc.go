// Package lockout tracks consecutive failed login attempts per username in
// Redis and holds a lock once the configured threshold is reached. Redis
// INCR serializes the increment-and-check for concurrent attempts against
// the same username, so two parallel failures can never both observe a
// pre-threshold count and slip past the gate.
package lockout
