package app

import (
	"context"
	"errors"
	"strings"

	"customs_clearance_service/internal/identity/domain"
	"customs_clearance_service/internal/identity/repository"
	msgdomain "customs_clearance_service/internal/messaging/domain"
	"customs_clearance_service/pkg"
	"customs_clearance_service/pkg/encrypt"
	"customs_clearance_service/pkg/token"

	"github.com/google/uuid"
)

const tokenIssuer = "customs_clearance_service"

var (
	// ErrEmailTaken register with an email that already has an account
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials wrong email or password, or deactivated account
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrInvalidRole register with a role outside the platform's set
	ErrInvalidRole = errors.New("invalid role")
)

// IdentityUseCase account registration, login and identity resolution
type IdentityUseCase struct {
	users repository.UserRepository
}

// NewIdentityUseCase create an IdentityUseCase
func NewIdentityUseCase(users repository.UserRepository) *IdentityUseCase {
	return &IdentityUseCase{users: users}
}

// Register creates an account and returns its id.
func (uc *IdentityUseCase) Register(ctx context.Context, in domain.RegisterInput) (string, error) {
	validRoles := []string{string(token.RoleAdmin), string(token.RoleOfficer), string(token.RoleAgent)}
	if !pkg.Contains(validRoles, in.Role) {
		return "", ErrInvalidRole
	}

	email := strings.ToLower(strings.TrimSpace(in.Email))
	existing, err := uc.users.FindByUser(ctx, &domain.UserQuery{Email: &email})
	if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
		return "", err
	}
	if existing != nil {
		return "", ErrEmailTaken
	}

	hashed, err := encrypt.HashPassword(in.Password)
	if err != nil {
		return "", err
	}

	user := &domain.User{
		ID:       uuid.New().String(),
		Email:    email,
		Password: hashed,
		Name:     in.Name,
		Role:     in.Role,
		OrgID:    in.OrgID,
		Active:   true,
	}
	if err := uc.users.CreateUser(ctx, user); err != nil {
		return "", err
	}
	return user.ID, nil
}

// Login verifies credentials and returns a signed token.
func (uc *IdentityUseCase) Login(ctx context.Context, in domain.LoginInput) (string, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	user, err := uc.users.FindByUser(ctx, &domain.UserQuery{Email: &email})
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}
	if !user.Active {
		return "", ErrInvalidCredentials
	}

	if err := encrypt.CheckPassword(user.Password, in.Password); err != nil {
		return "", ErrInvalidCredentials
	}

	return token.GenerateJWTWrapper(user.ID, user.Role, user.OrgID, tokenIssuer)
}

// ResolveUser returns the messaging-side projection of one account;
// (nil, nil) when the account does not exist.
func (uc *IdentityUseCase) ResolveUser(ctx context.Context, userID string) (*msgdomain.UserInfo, error) {
	user, err := uc.users.FindByUser(ctx, &domain.UserQuery{ID: &userID})
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &msgdomain.UserInfo{
		ID:     user.ID,
		Name:   user.Name,
		Role:   user.Role,
		OrgID:  user.OrgID,
		Active: user.Active,
	}, nil
}

// Deactivate flips one account to inactive; its tokens stop working at the
// identity gate immediately.
func (uc *IdentityUseCase) Deactivate(ctx context.Context, userID string) error {
	return uc.users.UpdateUserActive(ctx, userID, false)
}
