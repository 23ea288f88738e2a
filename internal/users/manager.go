package users

import (
	"context"
	"fmt"
)

// Option customises a user before it is persisted.
type Option func(*User)

// WithName sets the display name.
func WithName(name string) Option {
	return func(u *User) { u.Name = name }
}

// WithStaff marks the user as staff.
func WithStaff() Option {
	return func(u *User) { u.IsStaff = true }
}

// WithSuperuser grants every permission.
func WithSuperuser() Option {
	return func(u *User) { u.IsSuperuser = true }
}

// WithInactive creates the account disabled.
func WithInactive() Option {
	return func(u *User) { u.IsActive = false }
}

// Manager builds and persists user accounts.
type Manager struct {
	repo Repository
	cost int
}

// NewManager constructs a Manager hashing passwords with the given bcrypt cost.
func NewManager(repo Repository, cost int) *Manager {
	return &Manager{repo: repo, cost: cost}
}

// CreateUser normalizes the email, hashes the password and saves a regular user.
func (m *Manager) CreateUser(ctx context.Context, email, password string, opts ...Option) (*User, error) {
	email = NormalizeEmail(email)
	if email == "" {
		return nil, ErrEmailRequired
	}
	hash, err := HashPassword(password, m.cost)
	if err != nil {
		return nil, err
	}
	user := &User{Email: email, PasswordHash: hash, IsActive: true}
	for _, opt := range opts {
		opt(user)
	}
	created, err := m.repo.Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("users: create %s: %w", email, err)
	}
	return created, nil
}

// CreateSuperuser creates a user holding staff and superuser flags.
func (m *Manager) CreateSuperuser(ctx context.Context, email, password string, opts ...Option) (*User, error) {
	opts = append(opts, WithStaff(), WithSuperuser())
	return m.CreateUser(ctx, email, password, opts...)
}

// SetPassword rehashes plain onto u without persisting it.
func (m *Manager) SetPassword(u *User, plain string) error {
	hash, err := HashPassword(plain, m.cost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}
