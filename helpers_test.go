package authgate

import (
	"context"
	"strconv"
	"sync"
	"testing"
)

// fakeHasher is a transparent stand-in for argon2 so tests stay fast.
type fakeHasher struct{}

func (fakeHasher) Hash(plaintext string) (string, error) {
	return "hashed:" + plaintext, nil
}

func (fakeHasher) Verify(plaintext, encodedHash string) (bool, error) {
	return encodedHash == "hashed:"+plaintext, nil
}

// fakeDirectory is a minimal in-memory UserDirectory for root package
// tests (the directory package cannot be imported here without a cycle).
type fakeDirectory struct {
	mu     sync.Mutex
	nextID int
	users  map[string]Principal
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{users: make(map[string]Principal)}
}

func (d *fakeDirectory) FindByEmail(_ context.Context, email string) ([]Principal, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	var out []Principal
	for _, user := range d.users {
		if user.Email == email {
			out = append(out, user)
		}
	}
	return out, nil
}

func (d *fakeDirectory) FindByID(_ context.Context, id string) (Principal, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	user, ok := d.users[id]
	if !ok {
		return Principal{}, ErrUserNotFound
	}
	return user, nil
}

func (d *fakeDirectory) FindByResetToken(_ context.Context, token string) (Principal, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if token != "" {
		for _, user := range d.users {
			if user.ResetToken == token {
				return user, nil
			}
		}
	}
	return Principal{}, ErrUserNotFound
}

func (d *fakeDirectory) Insert(_ context.Context, email, passwordHash string) (Principal, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, user := range d.users {
		if user.Email == email {
			return Principal{}, ErrAlreadyExists
		}
	}

	d.nextID++
	user := Principal{
		ID:           "u" + strconv.Itoa(d.nextID),
		Email:        email,
		PasswordHash: passwordHash,
	}
	d.users[user.ID] = user
	return user, nil
}

func (d *fakeDirectory) UpdatePasswordHash(_ context.Context, id, passwordHash string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	user, ok := d.users[id]
	if !ok {
		return ErrUserNotFound
	}
	user.PasswordHash = passwordHash
	d.users[id] = user
	return nil
}

func (d *fakeDirectory) UpdateResetToken(_ context.Context, id, token string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	user, ok := d.users[id]
	if !ok {
		return ErrUserNotFound
	}
	user.ResetToken = token
	d.users[id] = user
	return nil
}

func newTestService(t *testing.T, strategy StrategyType) (*Service, *fakeDirectory) {
	t.Helper()

	cfg := defaultConfig()
	cfg.Strategy = strategy

	dir := newFakeDirectory()
	svc, err := New().
		WithConfig(cfg).
		WithDirectory(dir).
		WithPasswordHasher(fakeHasher{}).
		Build()
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	t.Cleanup(svc.Close)

	return svc, dir
}
