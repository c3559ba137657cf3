package authgate

import "net/http"

// BasicAuth authenticates every request from its Authorization header:
// decode the Basic payload, look the email up in the directory, and verify
// the password against each candidate hash. The first verifying candidate
// wins.
type BasicAuth struct {
	excluded  ExcludedPathSet
	directory UserDirectory
	hasher    PasswordHasher
}

// NewBasicAuth creates a BasicAuth strategy over the given directory and
// hasher.
func NewBasicAuth(excluded ExcludedPathSet, directory UserDirectory, hasher PasswordHasher) *BasicAuth {
	return &BasicAuth{
		excluded:  excluded,
		directory: directory,
		hasher:    hasher,
	}
}

func (a *BasicAuth) RequiresAuth(path string) bool {
	return a.excluded.RequiresAuth(path)
}

func (a *BasicAuth) Evidence(r *http.Request) (string, bool) {
	return AuthorizationHeader(r)
}

func (a *BasicAuth) CurrentPrincipal(r *http.Request) (Principal, bool) {
	header, ok := AuthorizationHeader(r)
	if !ok {
		return Principal{}, false
	}

	email, pass, err := ExtractBasicCredentials(header)
	if err != nil {
		return Principal{}, false
	}

	candidates, err := a.directory.FindByEmail(r.Context(), email)
	if err != nil {
		return Principal{}, false
	}

	for _, candidate := range candidates {
		ok, err := a.hasher.Verify(pass, candidate.PasswordHash)
		if err == nil && ok {
			return candidate, true
		}
	}

	return Principal{}, false
}
