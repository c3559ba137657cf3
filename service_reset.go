package authgate

import (
	"context"
	"errors"

	"github.com/authgate-dev/authgate/internal"
	internalaudit "github.com/authgate-dev/authgate/internal/audit"
)

// IssueResetToken generates a new single-use password reset token and
// persists it on the principal record, overwriting any prior token. It
// fails with [ErrUserNotFound] when no principal has that email.
func (s *Service) IssueResetToken(ctx context.Context, email string) (string, error) {
	candidates, err := s.directory.FindByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if len(candidates) == 0 {
		s.emit(ctx, internalaudit.KindResetRequested, email, "", ErrUserNotFound)
		return "", ErrUserNotFound
	}

	principal := candidates[0]
	token := internal.NewResetToken()
	if err := s.directory.UpdateResetToken(ctx, principal.ID, token); err != nil {
		s.emit(ctx, internalaudit.KindResetRequested, email, principal.ID, err)
		return "", err
	}

	s.emit(ctx, internalaudit.KindResetRequested, email, principal.ID, nil)
	return token, nil
}

// ApplyReset consumes a reset token: the holding principal gets a freshly
// hashed password and the token is cleared so it cannot be replayed. It
// fails with [ErrInvalidToken] when no principal holds the token, leaving
// every password hash unchanged.
func (s *Service) ApplyReset(ctx context.Context, token, newPassword string) error {
	if token == "" || newPassword == "" {
		return ErrInvalidToken
	}

	principal, err := s.directory.FindByResetToken(ctx, token)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			err = ErrInvalidToken
		}
		s.emit(ctx, internalaudit.KindResetApplied, "", "", err)
		return err
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}

	if err := s.directory.UpdatePasswordHash(ctx, principal.ID, hash); err != nil {
		s.emit(ctx, internalaudit.KindResetApplied, principal.Email, principal.ID, err)
		return err
	}
	if err := s.directory.UpdateResetToken(ctx, principal.ID, ""); err != nil {
		s.emit(ctx, internalaudit.KindResetApplied, principal.Email, principal.ID, err)
		return err
	}

	s.emit(ctx, internalaudit.KindResetApplied, principal.Email, principal.ID, nil)
	return nil
}
