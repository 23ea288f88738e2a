package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/recipe-api/recipe-api/internal/shared"
	"github.com/recipe-api/recipe-api/internal/users"
)

// SuperuserCreator persists administrator accounts.
type SuperuserCreator interface {
	CreateSuperuser(ctx context.Context, email, password string, opts ...users.Option) (*users.User, error)
}

// CreateSuperuserOptions defines the flags for the createsuperuser command.
type CreateSuperuserOptions struct {
	Email    string
	Password string
	Name     string
	Stdout   io.Writer
	Stderr   io.Writer
}

// ParseCreateSuperuser reads createsuperuser flags from args.
func ParseCreateSuperuser(args []string, stderr io.Writer) (CreateSuperuserOptions, error) {
	opts := CreateSuperuserOptions{Stderr: stderr}
	fs := flag.NewFlagSet("createsuperuser", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.Email, "email", "", "administrator email (required)")
	fs.StringVar(&opts.Password, "password", "", "administrator password (required)")
	fs.StringVar(&opts.Name, "name", "", "display name")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	return opts, nil
}

// CreateSuperuserCommand creates an administrator and prints its id.
func CreateSuperuserCommand(ctx context.Context, creator SuperuserCreator, opts CreateSuperuserOptions) int {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	if strings.TrimSpace(opts.Email) == "" || opts.Password == "" {
		_, _ = fmt.Fprintln(opts.Stderr, "createsuperuser: -email and -password are required")
		return 2
	}
	var extra []users.Option
	if name := strings.TrimSpace(opts.Name); name != "" {
		extra = append(extra, users.WithName(name))
	}
	user, err := creator.CreateSuperuser(ctx, opts.Email, opts.Password, extra...)
	if err != nil {
		if errors.Is(err, shared.ErrDuplicate) {
			_, _ = fmt.Fprintf(opts.Stderr, "createsuperuser: %s is already registered\n", users.NormalizeEmail(opts.Email))
			return 1
		}
		_, _ = fmt.Fprintf(opts.Stderr, "createsuperuser: %v\n", err)
		return 1
	}
	_, _ = fmt.Fprintf(opts.Stdout, "superuser %s created (id=%d)\n", user.Email, user.ID)
	return 0
}

// MigrateOptions configures the migrate command output.
type MigrateOptions struct {
	Stdout io.Writer
	Stderr io.Writer
}

// MigrateCommand applies pending schema migrations.
func MigrateCommand(ctx context.Context, migrate func(context.Context) error, opts MigrateOptions) int {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	if err := migrate(ctx); err != nil {
		_, _ = fmt.Fprintf(opts.Stderr, "migrate: %v\n", err)
		return 1
	}
	_, _ = fmt.Fprintln(opts.Stdout, "migrations applied")
	return 0
}
