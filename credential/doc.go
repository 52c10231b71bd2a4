// Package credential persists user records: the durable mapping from
// username to password hash, role, and registration metadata. The Store
// interface keeps the core storage-agnostic; SQLStore is the shipped
// implementation over database/sql with a unique index carrying the
// check-then-insert atomicity for registration.
package credential
