// Package authgate provides a pluggable web-service authentication layer:
// stateless per-request Basic authentication, in-memory session
// authentication with optional expiration, and a Redis-persisted session
// variant.
//
// The package is the public surface. It exposes [Service], [Builder],
// [Config], the [Strategy] variants, and the [Decision] produced by
// evaluating a request. Session storage lives in the session subpackage,
// password hashing in password, user persistence in directory, and the HTTP
// request gate in middleware.
//
// # Architecture boundaries
//
//   - The core never writes HTTP responses. [Evaluate] turns a request into
//     a [Decision]; the middleware package maps decisions to 401/403.
//   - Credential and session lookup failures are absorbed into "no
//     principal" and never escape a strategy. Only domain operations
//     (Register, IssueResetToken, ApplyReset) return typed errors.
//   - Store outages fail closed: an unreachable backend reads as "session
//     not found", never as an authenticated principal.
//
// Service methods are safe for concurrent use once constructed through
// [Builder.Build].
package authgate
