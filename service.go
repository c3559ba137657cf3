package authgate

import (
	"context"
	"errors"
	"time"

	internalaudit "github.com/authgate-dev/authgate/internal/audit"
	"github.com/authgate-dev/authgate/session"
)

// Service is the authentication service: registration, login sessions,
// profile lookup, and the password reset sub-flow. Construct it through
// [Builder.Build].
type Service struct {
	config    Config
	directory UserDirectory
	hasher    PasswordHasher
	sessions  session.Store
	strategy  Strategy
	audit     *internalaudit.Dispatcher
}

// Strategy returns the request authentication strategy wired at build
// time, for use by the request gate.
func (s *Service) Strategy() Strategy {
	return s.strategy
}

// Sessions returns the session store backing the service.
func (s *Service) Sessions() session.Store {
	return s.sessions
}

// Close flushes and stops the audit dispatcher.
func (s *Service) Close() {
	s.audit.Close()
}

// Register creates a new principal with a freshly hashed password. It
// fails with [ErrAlreadyExists] when the email is taken, leaving the
// existing principal untouched.
func (s *Service) Register(ctx context.Context, email, password string) (Principal, error) {
	if email == "" || password == "" {
		return Principal{}, errors.New("email and password are required")
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return Principal{}, err
	}

	principal, err := s.directory.Insert(ctx, email, hash)
	if err != nil {
		s.emit(ctx, internalaudit.KindRegister, email, "", err)
		return Principal{}, err
	}

	s.emit(ctx, internalaudit.KindRegister, email, principal.ID, nil)
	return principal, nil
}

// VerifyCredentials checks an email/password pair against the directory
// and returns the matching principal. Every candidate hash for the email
// is tried; the first verifying one wins.
func (s *Service) VerifyCredentials(ctx context.Context, email, password string) (Principal, bool) {
	candidates, err := s.directory.FindByEmail(ctx, email)
	if err != nil {
		return Principal{}, false
	}

	for _, candidate := range candidates {
		ok, err := s.hasher.Verify(password, candidate.PasswordHash)
		if err == nil && ok {
			return candidate, true
		}
	}

	return Principal{}, false
}

// Login verifies the credentials and issues a new session, returning its
// id. It fails with [ErrInvalidCredentials] when the pair does not verify.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	principal, ok := s.VerifyCredentials(ctx, email, password)
	if !ok {
		s.emit(ctx, internalaudit.KindLogin, email, "", ErrInvalidCredentials)
		return "", ErrInvalidCredentials
	}

	sessionID, err := s.sessions.Create(ctx, principal.ID)
	if err != nil {
		s.emit(ctx, internalaudit.KindLogin, email, principal.ID, err)
		return "", err
	}

	s.emit(ctx, internalaudit.KindLogin, email, principal.ID, nil)
	return sessionID, nil
}

// Logout destroys the session and reports whether one existed.
func (s *Service) Logout(ctx context.Context, sessionID string) bool {
	destroyed := s.sessions.Destroy(ctx, sessionID)
	if destroyed {
		s.emit(ctx, internalaudit.KindLogout, "", "", nil)
	}
	return destroyed
}

// PrincipalBySession resolves a session id to its principal. It fails with
// [ErrInvalidSession] when the session is absent, expired, or its user no
// longer exists.
func (s *Service) PrincipalBySession(ctx context.Context, sessionID string) (Principal, error) {
	userID, ok := s.sessions.Resolve(ctx, sessionID)
	if !ok {
		return Principal{}, ErrInvalidSession
	}

	principal, err := s.directory.FindByID(ctx, userID)
	if err != nil {
		return Principal{}, ErrInvalidSession
	}

	return principal, nil
}

func (s *Service) emit(ctx context.Context, kind, email, userID string, opErr error) {
	event := internalaudit.Event{
		Timestamp: time.Now().UTC(),
		Kind:      kind,
		Email:     email,
		UserID:    userID,
		Success:   opErr == nil,
	}
	if opErr != nil {
		event.Error = opErr.Error()
	}
	s.audit.Emit(ctx, event)
}
