package auth

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/andrasnagy-data/credentials/internal/shared/password"
	"golang.org/x/crypto/bcrypt"
)

// memRepo behaves like the users table: email is unique and inserts are atomic.
type memRepo struct {
	mu    sync.Mutex
	users map[string]string
	err   error
}

func newMemRepo() *memRepo {
	return &memRepo{users: map[string]string{}}
}

func (m *memRepo) Create(_ context.Context, email, passwordHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return m.err
	}
	if _, ok := m.users[email]; ok {
		return fmt.Errorf("%w: users_email_key", ErrDuplicateEntry)
	}
	m.users[email] = passwordHash
	return nil
}

func (m *memRepo) GetByEmail(_ context.Context, email string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return nil, m.err
	}
	hash, ok := m.users[email]
	if !ok {
		return nil, errUserNotFound
	}
	return &User{Email: email, PasswordHash: hash}, nil
}

func (m *memRepo) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.users)
}

type countingHasher struct {
	*password.Hasher
	compares atomic.Int32
}

func newCountingHasher() *countingHasher {
	return &countingHasher{Hasher: password.NewHasher(bcrypt.MinCost)}
}

func (h *countingHasher) Compare(hash, plain string) error {
	h.compares.Add(1)
	return h.Hasher.Compare(hash, plain)
}

type failingIssuer struct {
	err error
}

func (f failingIssuer) Issue(string) (string, error) {
	return "", f.err
}
