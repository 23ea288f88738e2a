package shared

import (
	"errors"
	"sort"
	"strings"
)

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrValidation indicates malformed or incomplete input.
	ErrValidation = errors.New("validation failed")
	// ErrDuplicate indicates a uniqueness constraint was hit.
	ErrDuplicate = errors.New("duplicate entry")
	// ErrUnauthorized indicates missing or invalid credentials on a protected route.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// FieldErrors collects validation failures keyed by JSON field name.
type FieldErrors map[string]string

// Error renders the failures in a stable order.
func (f FieldErrors) Error() string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+f[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Is lets errors.Is(err, ErrValidation) match field errors.
func (f FieldErrors) Is(target error) bool {
	return target == ErrValidation
}

// Add records a failure for field unless one is already present.
func (f FieldErrors) Add(field, message string) {
	if _, ok := f[field]; ok {
		return
	}
	f[field] = message
}

// Err returns nil when no failure was recorded.
func (f FieldErrors) Err() error {
	if len(f) == 0 {
		return nil
	}
	return f
}

// UserSafeMessage strips internal details from errors shown to clients.
func UserSafeMessage(err error) string {
	var fields FieldErrors
	switch {
	case err == nil:
		return ""
	case errors.As(err, &fields):
		return fields.Error()
	case errors.Is(err, ErrInvalidCredentials):
		return "unable to authenticate with provided credentials"
	case errors.Is(err, ErrUnauthorized):
		return "authentication credentials were not provided or are invalid"
	case errors.Is(err, ErrNotFound):
		return "resource not found"
	case errors.Is(err, ErrDuplicate):
		return "resource already exists"
	case errors.Is(err, ErrValidation):
		return err.Error()
	default:
		return "internal error"
	}
}
