package authgate

import (
	"net/http"

	"github.com/authgate-dev/authgate/session"
)

// SessionAuth authenticates requests from a session cookie: the cookie
// value is resolved through the session store, and the resulting user id is
// looked up in the directory.
//
// The expiring and persisted variants are this same strategy over a
// different store: expiry lives in the store's ttl (a ttl of zero never
// expires), and persistence is the Redis-backed store. The strategy itself
// holds no variant-specific state.
type SessionAuth struct {
	excluded   ExcludedPathSet
	store      session.Store
	directory  UserDirectory
	cookieName string
}

// NewSessionAuth creates a session strategy reading the named cookie and
// resolving sessions through the given store.
func NewSessionAuth(excluded ExcludedPathSet, store session.Store, directory UserDirectory, cookieName string) *SessionAuth {
	if cookieName == "" {
		cookieName = DefaultSessionCookieName
	}
	return &SessionAuth{
		excluded:   excluded,
		store:      store,
		directory:  directory,
		cookieName: cookieName,
	}
}

func (a *SessionAuth) RequiresAuth(path string) bool {
	return a.excluded.RequiresAuth(path)
}

func (a *SessionAuth) Evidence(r *http.Request) (string, bool) {
	return SessionCookie(r, a.cookieName)
}

func (a *SessionAuth) CurrentPrincipal(r *http.Request) (Principal, bool) {
	sessionID, ok := SessionCookie(r, a.cookieName)
	if !ok {
		return Principal{}, false
	}

	userID, ok := a.store.Resolve(r.Context(), sessionID)
	if !ok {
		return Principal{}, false
	}

	principal, err := a.directory.FindByID(r.Context(), userID)
	if err != nil {
		return Principal{}, false
	}

	return principal, true
}
