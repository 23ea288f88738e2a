package recipe

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/recipe-api/recipe-api/internal/shared"
)

// Service implements scoped list and scoped create for every Kind.
type Service struct {
	repo Repository
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns only the records owned by ownerID, ordered by name descending.
func (s *Service) List(ctx context.Context, kind Kind, ownerID int64) ([]Attribute, error) {
	if ownerID <= 0 {
		return nil, shared.ErrUnauthorized
	}
	attrs, err := s.repo.ListByOwner(ctx, kind, ownerID)
	if err != nil {
		return nil, fmt.Errorf("recipe: list %s: %w", kind.Table, err)
	}
	return attrs, nil
}

// Create stores a record named name owned by ownerID. Names are trimmed and
// NFC-normalized so visually identical names compare equal.
func (s *Service) Create(ctx context.Context, kind Kind, ownerID int64, name string) (Attribute, error) {
	if ownerID <= 0 {
		return Attribute{}, shared.ErrUnauthorized
	}
	name = norm.NFC.String(strings.TrimSpace(name))
	if err := validateName(name); err != nil {
		return Attribute{}, err
	}
	created, err := s.repo.Create(ctx, kind, Attribute{Name: name, UserID: ownerID})
	if err != nil {
		return Attribute{}, fmt.Errorf("recipe: create %s: %w", kind.Name, err)
	}
	return created, nil
}
