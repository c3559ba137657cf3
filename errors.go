package authgate

import "errors"

var (
	// ErrMalformedHeader is returned when an Authorization header does not
	// carry a well-formed Basic scheme.
	ErrMalformedHeader = errors.New("malformed authorization header")
	// ErrInvalidEncoding is returned when the Basic payload is not valid
	// base64 or does not decode to an email:password pair.
	ErrInvalidEncoding = errors.New("invalid credential encoding")
	// ErrUserNotFound is returned when no principal matches the given
	// email or id.
	ErrUserNotFound = errors.New("user not found")
	// ErrAlreadyExists is returned by Register when the email is already
	// taken.
	ErrAlreadyExists = errors.New("user already exists")
	// ErrInvalidCredentials is returned by Login when the email/password
	// pair does not verify.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidToken is returned by ApplyReset when no principal holds
	// the given reset token.
	ErrInvalidToken = errors.New("invalid reset token")
	// ErrInvalidSession is returned when a session id does not resolve to
	// a live session.
	ErrInvalidSession = errors.New("invalid session")
)
