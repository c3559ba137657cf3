package directory

import (
	"context"
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	authgate "github.com/authgate-dev/authgate"
)

// Memory is a process-local UserDirectory guarded by a mutex. User ids are
// ULIDs, so they sort by creation time.
type Memory struct {
	mu    sync.Mutex
	users map[string]authgate.Principal
}

// NewMemory creates an empty in-memory directory.
func NewMemory() *Memory {
	return &Memory{users: make(map[string]authgate.Principal)}
}

// FindByEmail implements [authgate.UserDirectory].
func (m *Memory) FindByEmail(_ context.Context, email string) ([]authgate.Principal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []authgate.Principal
	for _, user := range m.users {
		if user.Email == email {
			out = append(out, user)
		}
	}
	return out, nil
}

// FindByID implements [authgate.UserDirectory].
func (m *Memory) FindByID(_ context.Context, id string) (authgate.Principal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.users[id]
	if !ok {
		return authgate.Principal{}, authgate.ErrUserNotFound
	}
	return user, nil
}

// FindByResetToken implements [authgate.UserDirectory].
func (m *Memory) FindByResetToken(_ context.Context, token string) (authgate.Principal, error) {
	if token == "" {
		return authgate.Principal{}, authgate.ErrUserNotFound
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, user := range m.users {
		if user.ResetToken == token {
			return user, nil
		}
	}
	return authgate.Principal{}, authgate.ErrUserNotFound
}

// Insert implements [authgate.UserDirectory].
func (m *Memory) Insert(_ context.Context, email, passwordHash string) (authgate.Principal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, user := range m.users {
		if user.Email == email {
			return authgate.Principal{}, authgate.ErrAlreadyExists
		}
	}

	id, err := ulid.New(ulid.Timestamp(time.Now().UTC()), rand.Reader)
	if err != nil {
		return authgate.Principal{}, err
	}

	user := authgate.Principal{
		ID:           id.String(),
		Email:        email,
		PasswordHash: passwordHash,
	}
	m.users[user.ID] = user

	return user, nil
}

// UpdatePasswordHash implements [authgate.UserDirectory].
func (m *Memory) UpdatePasswordHash(_ context.Context, id, passwordHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.users[id]
	if !ok {
		return authgate.ErrUserNotFound
	}
	user.PasswordHash = passwordHash
	m.users[id] = user
	return nil
}

// UpdateResetToken implements [authgate.UserDirectory]. An empty token
// clears any outstanding one.
func (m *Memory) UpdateResetToken(_ context.Context, id, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.users[id]
	if !ok {
		return authgate.ErrUserNotFound
	}
	user.ResetToken = token
	m.users[id] = user
	return nil
}
