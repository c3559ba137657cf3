// Package middleware contains the HTTP request gate: a before-request
// filter that turns a strategy's decision into allow, 401, or 403, and
// makes the authenticated principal available to downstream handlers
// through the request context.
package middleware
