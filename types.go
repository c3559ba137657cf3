package authgate

import "context"

// Principal is the authenticated identity a request is attributed to.
//
// Principal instances are treated as immutable snapshots of the directory
// record; mutations go through the [UserDirectory] update methods.
type Principal struct {
	ID           string
	Email        string
	PasswordHash string

	// ResetToken holds the live single-use password reset token, empty
	// when none is outstanding. It is owned by the directory record and
	// never serialized toward clients.
	ResetToken string
}

// FailureKind classifies why a request evaluation did not authenticate.
type FailureKind uint8

const (
	// FailureNone means the request authenticated or needed no auth.
	FailureNone FailureKind = iota
	// FailureMissingCredentials means no credential evidence was present
	// (no Authorization header, no session cookie).
	FailureMissingCredentials
	// FailureInvalidCredentials means evidence was present but did not
	// resolve to a principal.
	FailureInvalidCredentials
)

// Decision is the transient outcome of evaluating one request against a
// strategy. It is never persisted.
type Decision struct {
	Authenticated bool
	Principal     *Principal
	Failure       FailureKind
}

// UserDirectory is the interface callers implement to integrate authgate
// with their user database. The directory package ships in-memory and
// SQLite implementations.
//
// Find methods report misses with [ErrUserNotFound] (FindByEmail instead
// returns an empty slice). Insert reports duplicates with
// [ErrAlreadyExists].
type UserDirectory interface {
	FindByEmail(ctx context.Context, email string) ([]Principal, error)
	FindByID(ctx context.Context, id string) (Principal, error)
	FindByResetToken(ctx context.Context, token string) (Principal, error)
	Insert(ctx context.Context, email, passwordHash string) (Principal, error)
	UpdatePasswordHash(ctx context.Context, id, passwordHash string) error
	UpdateResetToken(ctx context.Context, id, token string) error
}

// PasswordHasher is the opaque hash/verify capability used by the service
// and the Basic strategy. The password package provides an argon2id
// implementation.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, encodedHash string) (bool, error)
}
