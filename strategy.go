package authgate

import (
	"net/http"
	"strings"
)

// Strategy is the pluggable policy deciding whether a request path needs
// authentication and how the current principal is resolved.
//
// CurrentPrincipal must succeed only when both credential extraction and
// the backing lookup independently succeed; every failure along the way is
// absorbed into a "no principal" result. Implementations are
// side-effect-free on the request, except that expiring session variants
// may lazily purge an expired store entry.
type Strategy interface {
	// RequiresAuth reports whether the given path is protected.
	RequiresAuth(path string) bool

	// Evidence returns the raw credential evidence carried by the
	// request (Authorization header or session cookie, depending on the
	// variant) and whether any was present.
	Evidence(r *http.Request) (string, bool)

	// CurrentPrincipal resolves the request to a principal, if possible.
	CurrentPrincipal(r *http.Request) (Principal, bool)
}

// AuthorizationHeader returns the raw Authorization header value, or false
// when the header is absent or blank.
func AuthorizationHeader(r *http.Request) (string, bool) {
	if r == nil {
		return "", false
	}
	value := r.Header.Get("Authorization")
	if value == "" {
		return "", false
	}
	return value, true
}

// SessionCookie returns the named session cookie value, or false when the
// cookie is absent or empty.
func SessionCookie(r *http.Request, name string) (string, bool) {
	if r == nil || name == "" {
		return "", false
	}
	cookie, err := r.Cookie(name)
	if err != nil || cookie == nil {
		return "", false
	}
	value := strings.TrimSpace(cookie.Value)
	if value == "" {
		return "", false
	}
	return value, true
}

// NoAuth is the strategy used when no authentication backend is
// configured. Path exclusion behaves normally, header presence still
// drives the gate's missing-evidence check, but no request ever resolves
// to a principal.
type NoAuth struct {
	excluded ExcludedPathSet
}

// NewNoAuth creates a NoAuth strategy with the given exclusions.
func NewNoAuth(excluded ExcludedPathSet) *NoAuth {
	return &NoAuth{excluded: excluded}
}

func (a *NoAuth) RequiresAuth(path string) bool {
	return a.excluded.RequiresAuth(path)
}

func (a *NoAuth) Evidence(r *http.Request) (string, bool) {
	return AuthorizationHeader(r)
}

func (a *NoAuth) CurrentPrincipal(*http.Request) (Principal, bool) {
	return Principal{}, false
}

// Evaluate runs the per-request gate state machine against a strategy.
// The ordering is load-bearing: presence of evidence is checked before
// validity, so a request without any credential evidence is reported as
// FailureMissingCredentials (401 upstream) while evidence that fails to
// resolve is FailureInvalidCredentials (403 upstream).
func Evaluate(s Strategy, r *http.Request) Decision {
	if s == nil || !s.RequiresAuth(r.URL.Path) {
		return Decision{Authenticated: true}
	}

	if _, ok := s.Evidence(r); !ok {
		return Decision{Failure: FailureMissingCredentials}
	}

	principal, ok := s.CurrentPrincipal(r)
	if !ok {
		return Decision{Failure: FailureInvalidCredentials}
	}

	return Decision{Authenticated: true, Principal: &principal}
}
