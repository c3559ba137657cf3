package session

import (
	"context"
	"errors"
)

// ErrInvalidUserID is returned by Create when the user id is empty.
var ErrInvalidUserID = errors.New("session user id is empty")

// ErrStoreUnavailable wraps backend failures during session creation.
var ErrStoreUnavailable = errors.New("session store unavailable")

// Store is the session lifecycle contract shared by the in-memory and
// Redis-backed implementations.
type Store interface {
	// Create issues a new unpredictable session id for the given user and
	// records its creation time. It fails when userID is empty or the
	// backend cannot persist the session.
	Create(ctx context.Context, userID string) (string, error)

	// Resolve returns the user id owning the session, or false when the
	// id is absent, malformed, expired, or the backend is unreachable.
	Resolve(ctx context.Context, sessionID string) (string, bool)

	// Destroy removes the session and reports whether it existed.
	// Destroying twice is not an error; the second call returns false.
	Destroy(ctx context.Context, sessionID string) bool
}
