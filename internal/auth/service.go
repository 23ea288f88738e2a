package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/recipe-api/recipe-api/internal/shared"
	"github.com/recipe-api/recipe-api/internal/users"
)

// lookupTimeout bounds the shared token lookup.
const lookupTimeout = 5 * time.Second

// UserFinder resolves accounts referenced by credentials and tokens.
type UserFinder interface {
	FindByID(ctx context.Context, id int64) (*users.User, error)
	FindByEmail(ctx context.Context, email string) (*users.User, error)
}

// Service wraps token issuance and token authentication.
type Service struct {
	repo   Repository
	users  UserFinder
	cache  *TokenCache
	logger *slog.Logger
	group  singleflight.Group
}

// NewService constructs a new Service. cache may be nil.
func NewService(logger *slog.Logger, repo Repository, finder UserFinder, cache *TokenCache) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, users: finder, cache: cache, logger: logger}
}

// ObtainToken validates email/password credentials and returns the user's token.
func (s *Service) ObtainToken(ctx context.Context, email, password string) (*Token, error) {
	user, err := s.users.FindByEmail(ctx, users.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("auth: find user: %w", err)
	}
	if !user.IsActive || !user.CheckPassword(password) {
		return nil, shared.ErrInvalidCredentials
	}
	key, err := generateKey()
	if err != nil {
		return nil, err
	}
	token, err := s.repo.GetOrCreate(ctx, user.ID, key)
	if err != nil {
		return nil, fmt.Errorf("auth: store token: %w", err)
	}
	return token, nil
}

// Authenticate resolves a token key to its active owner.
func (s *Service) Authenticate(ctx context.Context, key string) (*users.User, error) {
	if key == "" {
		return nil, shared.ErrUnauthorized
	}
	userID, err := s.lookup(ctx, key)
	if err != nil {
		return nil, err
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			_ = s.cache.Delete(ctx, key)
			return nil, shared.ErrUnauthorized
		}
		return nil, fmt.Errorf("auth: find token owner: %w", err)
	}
	if !user.IsActive {
		return nil, fmt.Errorf("%w: user inactive or deleted", shared.ErrUnauthorized)
	}
	return user, nil
}

func (s *Service) lookup(ctx context.Context, key string) (int64, error) {
	id, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.Warn("token cache get", slog.Any("error", err))
	} else if ok {
		return id, nil
	}

	// The shared lookup is detached from the caller; each waiter still
	// honours its own ctx below.
	ch := s.group.DoChan(key, func() (interface{}, error) {
		lookupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), lookupTimeout)
		defer cancel()
		token, err := s.repo.FindByKey(lookupCtx, key)
		if err != nil {
			return int64(0), err
		}
		if err := s.cache.Set(lookupCtx, key, token.UserID); err != nil {
			s.logger.Warn("token cache set", slog.String("user_id", strconv.FormatInt(token.UserID, 10)), slog.Any("error", err))
		}
		return token.UserID, nil
	})
	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			if errors.Is(res.Err, shared.ErrNotFound) {
				return 0, fmt.Errorf("%w: invalid token", shared.ErrUnauthorized)
			}
			return 0, fmt.Errorf("auth: find token: %w", res.Err)
		}
		return res.Val.(int64), nil
	}
}
