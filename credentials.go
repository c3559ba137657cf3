package authgate

import (
	"encoding/base64"
	"strings"
	"unicode/utf8"
)

const basicScheme = "Basic"

// ExtractBasicCredentials decodes a Basic Authorization header value into
// its email and password. The header must be exactly "Basic <base64>"; any
// other scheme or shape fails with [ErrMalformedHeader]. The payload must
// decode to valid text containing at least one colon; the split happens on
// the first colon only, so passwords may themselves contain colons. Decode
// failures report [ErrInvalidEncoding].
//
// The function is pure: no request state, no side effects.
func ExtractBasicCredentials(header string) (email, password string, err error) {
	parts := strings.Fields(header)
	if len(parts) != 2 || parts[0] != basicScheme {
		return "", "", ErrMalformedHeader
	}

	raw, decErr := base64.StdEncoding.DecodeString(parts[1])
	if decErr != nil {
		return "", "", ErrInvalidEncoding
	}
	if !utf8.Valid(raw) {
		return "", "", ErrInvalidEncoding
	}

	email, password, found := strings.Cut(string(raw), ":")
	if !found {
		return "", "", ErrInvalidEncoding
	}

	return email, password, nil
}
