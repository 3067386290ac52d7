package ports

import (
	"context"

	"github.com/zonemark/annotation-system/internal/core/domain"
)

// UserRepository defines the interface for user persistence.
type UserRepository interface {
	// FindByEmail retrieves a user by exact email match.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// FindByEmailOrUsername retrieves a user matching either field. Used by
	// registration to reject duplicates on both unique keys.
	FindByEmailOrUsername(ctx context.Context, email, username string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
}
