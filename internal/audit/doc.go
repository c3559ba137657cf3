// Package audit implements asynchronous audit event dispatch for the
// authentication service. Events are queued to a background goroutine and
// delivered to a pluggable Sink, so auditing never sits on the request
// path.
package audit
