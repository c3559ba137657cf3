// Package session manages session-id to user-id associations for the
// session authentication strategies.
//
// Two stores implement the same contract: an in-process map guarded by a
// mutex, and a Redis-backed store for deployments that need sessions to
// survive restarts. Expiry is enforced lazily at read time in both; the
// Redis store additionally sets a physical TTL, but correctness never
// depends on eviction having happened.
//
// Store reads fail closed: a backend outage or a corrupt record resolves to
// "not found", never to a live session.
package session
