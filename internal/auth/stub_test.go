package auth

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/recipe-api/recipe-api/internal/shared"
	"github.com/recipe-api/recipe-api/internal/users"
)

type memTokens struct {
	mu      sync.Mutex
	byUser  map[int64]Token
	lookups int
}

func newMemTokens() *memTokens {
	return &memTokens{byUser: map[int64]Token{}}
}

func (m *memTokens) GetOrCreate(ctx context.Context, userID int64, key string) (*Token, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.byUser[userID]; ok {
		return &existing, nil
	}
	token := Token{Key: key, UserID: userID, CreatedAt: time.Now().UTC()}
	m.byUser[userID] = token
	return &token, nil
}

func (m *memTokens) FindByKey(ctx context.Context, key string) (*Token, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lookups++
	for _, token := range m.byUser {
		if token.Key == key {
			return &token, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (m *memTokens) lookupCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lookups
}

type memUsers struct {
	byID map[int64]*users.User
}

func (m *memUsers) FindByID(ctx context.Context, id int64) (*users.User, error) {
	if u, ok := m.byID[id]; ok {
		return u, nil
	}
	return nil, shared.ErrNotFound
}

func (m *memUsers) FindByEmail(ctx context.Context, email string) (*users.User, error) {
	for _, u := range m.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (m *memUsers) add(t *testing.T, id int64, email, password string) *users.User {
	t.Helper()
	hash, err := users.HashPassword(password, bcrypt.MinCost)
	require.NoError(t, err)
	u := &users.User{ID: id, Email: users.NormalizeEmail(email), PasswordHash: hash, IsActive: true}
	m.byID[id] = u
	return u
}

func isHexKey(key string) bool {
	if len(key) != 2*keyBytes {
		return false
	}
	return strings.Trim(key, "0123456789abcdef") == ""
}
