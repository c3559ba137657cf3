// Package directory provides ready-made UserDirectory implementations: an
// in-memory directory for tests and single-process deployments, and a
// SQLite-backed directory for durable user storage.
package directory
