// Package session stores opaque-token session records in Redis. Records
// are binary encoded (versioned, length-prefixed fields) and deleted
// idempotently; once a token is removed it can never validate again.
package session
