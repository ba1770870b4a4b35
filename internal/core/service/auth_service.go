package service

import (
	"context"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/civicatlas/records-system/internal/core/domain"
	"github.com/civicatlas/records-system/internal/core/ports"
)

const defaultTokenTTL = 24 * time.Hour

// AuthService implements registration, login, token refresh and profile
// access against the credential store. It is the only component that touches
// the store; token work is delegated to the codec.
type AuthService struct {
	repo  ports.UserRepository
	codec ports.TokenCodec
	ttl   time.Duration
}

func NewAuthService(repo ports.UserRepository, codec ports.TokenCodec, tokenTTL time.Duration) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = defaultTokenTTL
	}
	return &AuthService{repo: repo, codec: codec, ttl: tokenTTL}
}

// Register creates a new account. The role is always staff; promotion to
// admin happens out of band, never through self-registration.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*domain.User, string, error) {
	if username == "" || email == "" || password == "" {
		return nil, "", domain.ErrValidation
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Role:         domain.RoleStaff,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, "", err
	}

	token, err := s.codec.Issue(created.Identity(), s.ttl)
	if err != nil {
		return nil, "", err
	}
	return created, token, nil
}

// Login authenticates by username or email. Unknown subject and wrong
// password collapse into the same error so responses leak nothing.
func (s *AuthService) Login(ctx context.Context, login, password string) (*domain.User, string, error) {
	if login == "" || password == "" {
		return nil, "", domain.ErrInvalidCredentials
	}

	user, err := s.findByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, "", domain.ErrInvalidCredentials
		}
		return nil, "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, "", domain.ErrInvalidCredentials
	}

	token, err := s.codec.Issue(user.Identity(), s.ttl)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Refresh re-issues a token with a fresh expiry for the identity embedded in
// oldToken. The credential store is not consulted: a role change after the
// old token was issued only takes effect at the next credential login.
func (s *AuthService) Refresh(ctx context.Context, oldToken string) (string, error) {
	identity, err := s.codec.Verify(oldToken)
	if err != nil {
		return "", domain.ErrUnauthorized
	}
	return s.codec.Issue(identity, s.ttl)
}

// CurrentUser resolves a token to its identity. Verification only, no I/O.
func (s *AuthService) CurrentUser(_ context.Context, token string) (domain.Identity, error) {
	identity, err := s.codec.Verify(token)
	if err != nil {
		return domain.Identity{}, domain.ErrUnauthorized
	}
	return identity, nil
}

// GetProfile reads the caller's own credential record.
func (s *AuthService) GetProfile(ctx context.Context, identity domain.Identity) (*domain.User, error) {
	return s.repo.FindByID(ctx, identity.UserID)
}

// UpdateProfile applies the caller's changes to their own record. The role
// field is never touched here.
func (s *AuthService) UpdateProfile(ctx context.Context, identity domain.Identity, update ports.ProfileUpdate) (*domain.User, error) {
	if update.Username == "" && update.Email == "" {
		return nil, domain.ErrValidation
	}

	user, err := s.repo.FindByID(ctx, identity.UserID)
	if err != nil {
		return nil, err
	}

	if update.Username != "" {
		user.Username = update.Username
	}
	if update.Email != "" {
		user.Email = update.Email
	}
	user.UpdatedAt = time.Now().UTC()

	return s.repo.Update(ctx, user)
}

// findByLogin tries the username first, then the email.
func (s *AuthService) findByLogin(ctx context.Context, login string) (*domain.User, error) {
	user, err := s.repo.FindByUsername(ctx, login)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}
	return s.repo.FindByEmail(ctx, login)
}
