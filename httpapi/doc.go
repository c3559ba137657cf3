// Package httpapi exposes the authentication service over HTTP:
// registration, login/logout sessions, profile lookup, and the password
// reset endpoints, guarded by the request gate.
package httpapi
