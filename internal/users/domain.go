package users

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/recipe-api/recipe-api/internal/shared"
)

const (
	// MinPasswordLength is the shortest password accepted on registration and update.
	MinPasswordLength = 6
	// unusablePassword marks accounts created without a password.
	unusablePassword = "!"
)

var (
	// ErrEmailRequired is returned when a user is created without an email.
	ErrEmailRequired = fmt.Errorf("%w: users must have an email address", shared.ErrValidation)
	// ErrEmailTaken is returned when the normalized email already exists.
	ErrEmailTaken = fmt.Errorf("%w: user with this email already exists", shared.ErrDuplicate)
)

// User represents an account identified by email.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	IsActive     bool      `json:"is_active"`
	IsStaff      bool      `json:"is_staff"`
	IsSuperuser  bool      `json:"is_superuser"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CheckPassword compares a plaintext candidate against the stored hash.
func (u *User) CheckPassword(plain string) bool {
	if u == nil || u.PasswordHash == "" || strings.HasPrefix(u.PasswordHash, unusablePassword) {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(plain)) == nil
}

// HasUsablePassword reports whether the account can log in with a password.
func (u *User) HasUsablePassword() bool {
	return u != nil && u.PasswordHash != "" && !strings.HasPrefix(u.PasswordHash, unusablePassword)
}

// NormalizeEmail trims the address and lowercases its domain part. The local
// part is left untouched since mailbox names may be case sensitive.
func NormalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	return email[:at] + "@" + strings.ToLower(email[at+1:])
}

// HashPassword hashes plain with bcrypt. An empty password yields an unusable hash.
func HashPassword(plain string, cost int) (string, error) {
	if plain == "" {
		return unusablePassword, nil
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", shared.FieldErrors{"password": "ensure this field has no more than 72 bytes"}
		}
		return "", fmt.Errorf("users: hash password: %w", err)
	}
	return string(hashed), nil
}
