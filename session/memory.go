package session

import (
	"context"
	"sync"
	"time"

	"github.com/authgate-dev/authgate/internal"
)

type memoryEntry struct {
	userID    string
	createdAt time.Time
}

// MemoryStore keeps sessions in a process-local map guarded by a mutex.
// A ttl of zero or less disables expiry entirely.
type MemoryStore struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.Mutex
	entries map[string]memoryEntry
}

// NewMemoryStore creates an in-memory store with the given session
// lifetime. ttl <= 0 means sessions never expire.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]memoryEntry),
	}
}

// Create implements [Store].
func (s *MemoryStore) Create(_ context.Context, userID string) (string, error) {
	if userID == "" {
		return "", ErrInvalidUserID
	}

	sessionID, err := internal.NewSessionID()
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.entries[sessionID] = memoryEntry{
		userID:    userID,
		createdAt: s.now(),
	}
	s.mu.Unlock()

	return sessionID, nil
}

// Resolve implements [Store]. Expired entries are purged on read.
func (s *MemoryStore) Resolve(_ context.Context, sessionID string) (string, bool) {
	if sessionID == "" {
		return "", false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[sessionID]
	if !ok {
		return "", false
	}

	if s.ttl > 0 && s.now().After(entry.createdAt.Add(s.ttl)) {
		delete(s.entries, sessionID)
		return "", false
	}

	return entry.userID, true
}

// Destroy implements [Store].
func (s *MemoryStore) Destroy(_ context.Context, sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.entries[sessionID]
	if ok {
		delete(s.entries, sessionID)
	}
	return ok
}
