// Package password provides argon2id hashing in PHC string format plus the
// stateless strength classifier used to gate registration. Hashing is the
// only code here that touches a random source; classification is pure.
package password
