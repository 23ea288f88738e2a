package users

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/recipe-api/recipe-api/internal/shared"
)

// Notifier is told about freshly registered accounts.
type Notifier interface {
	UserRegistered(ctx context.Context, user *User) error
}

// RegisterInput carries the registration payload.
type RegisterInput struct {
	Email    string
	Password string
	Name     string
}

// UpdateInput carries a partial profile update; nil fields are left unchanged.
type UpdateInput struct {
	Email    *string
	Password *string
	Name     *string
}

// Service handles registration and profile business logic.
type Service struct {
	logger   *slog.Logger
	repo     Repository
	manager  *Manager
	notifier Notifier
}

// NewService builds Service instance. notifier may be nil.
func NewService(logger *slog.Logger, repo Repository, manager *Manager, notifier Notifier) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger, repo: repo, manager: manager, notifier: notifier}
}

// Register creates a regular account from the public sign-up form.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*User, error) {
	fields := shared.FieldErrors{}
	checkPassword(fields, in.Password)
	checkName(fields, in.Name)
	if err := fields.Err(); err != nil {
		return nil, err
	}

	user, err := s.manager.CreateUser(ctx, in.Email, in.Password, WithName(strings.TrimSpace(in.Name)))
	if err != nil {
		return nil, mapEmailTaken(err)
	}

	if s.notifier != nil {
		if err := s.notifier.UserRegistered(ctx, user); err != nil {
			s.logger.Warn("notify user registered", slog.Int64("user_id", user.ID), slog.Any("error", err))
		}
	}
	return user, nil
}

// Get returns the account with the given id.
func (s *Service) Get(ctx context.Context, id int64) (*User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("users: get %d: %w", id, err)
	}
	return user, nil
}

// UpdateProfile applies a partial update to the caller's own account.
func (s *Service) UpdateProfile(ctx context.Context, id int64, in UpdateInput) (*User, error) {
	fields := shared.FieldErrors{}
	if in.Password != nil {
		checkPassword(fields, *in.Password)
	}
	if in.Name != nil {
		checkName(fields, *in.Name)
	}
	if in.Email != nil && NormalizeEmail(*in.Email) == "" {
		fields.Add("email", "this field may not be blank")
	}
	if err := fields.Err(); err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, id, func(u *User) error {
		if in.Email != nil {
			u.Email = NormalizeEmail(*in.Email)
		}
		if in.Name != nil {
			u.Name = strings.TrimSpace(*in.Name)
		}
		if in.Password != nil {
			return s.manager.SetPassword(u, *in.Password)
		}
		return nil
	})
	if err != nil {
		return nil, mapEmailTaken(err)
	}
	return updated, nil
}

// checkPassword repeats the handler rule for callers outside HTTP.
func checkPassword(fields shared.FieldErrors, password string) {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		fields.Add("password", fmt.Sprintf("ensure this field has at least %d characters", MinPasswordLength))
	}
}

func checkName(fields shared.FieldErrors, name string) {
	if strings.TrimSpace(name) == "" {
		fields.Add("name", "this field may not be blank")
	}
}

func mapEmailTaken(err error) error {
	if errors.Is(err, ErrEmailTaken) {
		return shared.FieldErrors{"email": "user with this email already exists"}
	}
	return err
}
