package users

import (
	"context"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/recipe-api/recipe-api/internal/shared"
)

const testCost = bcrypt.MinCost

type memRepo struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]User
}

func newMemRepo() *memRepo {
	return &memRepo{byID: map[int64]User{}}
}

func (m *memRepo) Create(ctx context.Context, user *User) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.byID {
		if existing.Email == user.Email {
			return nil, ErrEmailTaken
		}
	}
	m.nextID++
	saved := *user
	saved.ID = m.nextID
	saved.CreatedAt = time.Now().UTC()
	saved.UpdatedAt = saved.CreatedAt
	m.byID[saved.ID] = saved
	return &saved, nil
}

func (m *memRepo) FindByID(ctx context.Context, id int64) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &u, nil
}

func (m *memRepo) FindByEmail(ctx context.Context, email string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (m *memRepo) Update(ctx context.Context, id int64, fn func(*User) error) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	if err := fn(&u); err != nil {
		return nil, err
	}
	for otherID, other := range m.byID {
		if otherID != id && other.Email == u.Email {
			return nil, ErrEmailTaken
		}
	}
	u.UpdatedAt = time.Now().UTC()
	m.byID[id] = u
	return &u, nil
}

func (m *memRepo) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byID)
}

var _ Repository = (*memRepo)(nil)
