// Package password implements the opaque hash/verify capability used by
// the authentication service, backed by argon2id in PHC string format.
package password
