package ports

import (
	"context"

	"github.com/zonemark/annotation-system/internal/core/domain"
)

type AuthService interface {
	// Register creates a new account. Role defaults to user when empty;
	// duplicate email or username fails with domain.ErrUserExists.
	Register(ctx context.Context, email, username, password string, role domain.Role) (*domain.User, error)
	// Login verifies credentials and returns a signed session token.
	// Unknown email and wrong password are indistinguishable to the caller.
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	// EnsureAdmin idempotently creates the bootstrap admin account. When a
	// user with the given email already exists it is returned unchanged.
	EnsureAdmin(ctx context.Context, email, username, password string) (*domain.User, error)
}
