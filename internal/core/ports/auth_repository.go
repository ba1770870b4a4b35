package ports

import (
	"context"

	"github.com/civicatlas/records-system/internal/core/domain"
)

// UserRepository defines the credential-store operations the auth core needs.
// Uniqueness of username and email is enforced by the store itself.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) (*domain.User, error)
}
