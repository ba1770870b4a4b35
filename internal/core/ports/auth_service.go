package ports

import (
	"context"

	"github.com/civicatlas/records-system/internal/core/domain"
)

// ProfileUpdate carries the profile fields a user may change about
// themselves. Role is deliberately absent.
type ProfileUpdate struct {
	Username string
	Email    string
}

type AuthService interface {
	// Register creates a staff account and returns it with a fresh token.
	Register(ctx context.Context, username, email, password string) (*domain.User, string, error)
	// Login authenticates by username or email.
	Login(ctx context.Context, login, password string) (*domain.User, string, error)
	// Refresh re-issues a token for the identity embedded in oldToken.
	Refresh(ctx context.Context, oldToken string) (string, error)
	// CurrentUser resolves a token to its identity without touching the store.
	CurrentUser(ctx context.Context, token string) (domain.Identity, error)
	GetProfile(ctx context.Context, identity domain.Identity) (*domain.User, error)
	UpdateProfile(ctx context.Context, identity domain.Identity, update ProfileUpdate) (*domain.User, error)
}
