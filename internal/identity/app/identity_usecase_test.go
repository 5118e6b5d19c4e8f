package app

import (
	"context"
	"os"
	"testing"

	"customs_clearance_service/internal/identity/domain"
	"customs_clearance_service/internal/identity/repository"
	"customs_clearance_service/pkg/encrypt"
	"customs_clearance_service/pkg/logger"
	"customs_clearance_service/pkg/token"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestMain(m *testing.M) {
	logger.SetNewNop()
	os.Exit(m.Run())
}

// MockUserRepository Mock UserRepository
type MockUserRepository struct {
	mock.Mock
}

// CreateUser mock account insert
func (m *MockUserRepository) CreateUser(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// UpdateUserActive mock active flag write
func (m *MockUserRepository) UpdateUserActive(ctx context.Context, userID string, active bool) error {
	args := m.Called(ctx, userID, active)
	return args.Error(0)
}

// FindByUser mock account lookup
func (m *MockUserRepository) FindByUser(ctx context.Context, q *domain.UserQuery) (*domain.User, error) {
	args := m.Called(ctx, q)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestIdentityUseCase_Register(t *testing.T) {
	ctx := context.Background()

	mockRepo := new(MockUserRepository)
	mockRepo.On("FindByUser", ctx, mock.Anything).Return(nil, repository.ErrUserNotFound)

	var created *domain.User
	mockRepo.On("CreateUser", ctx, mock.Anything).
		Run(func(args mock.Arguments) { created = args.Get(1).(*domain.User) }).
		Return(nil)

	uc := NewIdentityUseCase(mockRepo)
	userID, err := uc.Register(ctx, domain.RegisterInput{
		Email:    "Agent@Example.COM",
		Password: "Str0ngPass",
		Name:     "Ada",
		Role:     "agent",
		OrgID:    "org-1",
	})

	assert.NoError(t, err)
	assert.NotEmpty(t, userID)
	assert.Equal(t, "agent@example.com", created.Email)
	assert.True(t, created.Active)

	// the stored credential is a hash, never the plaintext
	assert.NotEqual(t, "Str0ngPass", created.Password)
	assert.NoError(t, encrypt.CheckPassword(created.Password, "Str0ngPass"))
}

func TestIdentityUseCase_Register_EmailTaken(t *testing.T) {
	ctx := context.Background()

	mockRepo := new(MockUserRepository)
	mockRepo.On("FindByUser", ctx, mock.Anything).
		Return(&domain.User{ID: uuid.New().String(), Email: "agent@example.com"}, nil)

	uc := NewIdentityUseCase(mockRepo)
	_, err := uc.Register(ctx, domain.RegisterInput{
		Email:    "agent@example.com",
		Password: "Str0ngPass",
		Role:     "agent",
	})

	assert.ErrorIs(t, err, ErrEmailTaken)
	mockRepo.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
}

func TestIdentityUseCase_Register_InvalidRole(t *testing.T) {
	ctx := context.Background()

	uc := NewIdentityUseCase(new(MockUserRepository))
	_, err := uc.Register(ctx, domain.RegisterInput{
		Email:    "agent@example.com",
		Password: "Str0ngPass",
		Role:     "superuser",
	})

	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestIdentityUseCase_Login(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New().String()

	hashed, err := encrypt.HashPassword("Str0ngPass")
	assert.NoError(t, err)

	mockRepo := new(MockUserRepository)
	mockRepo.On("FindByUser", ctx, mock.Anything).
		Return(&domain.User{
			ID:       userID,
			Email:    "agent@example.com",
			Password: hashed,
			Role:     "agent",
			OrgID:    "org-1",
			Active:   true,
		}, nil)

	origGenerate := token.GenerateJWTFunc
	defer func() { token.GenerateJWTFunc = origGenerate }()
	token.GenerateJWTFunc = func(uid, role, orgID, issuer string) (string, error) {
		assert.Equal(t, userID, uid)
		assert.Equal(t, "agent", role)
		assert.Equal(t, "org-1", orgID)
		return "stub-token", nil
	}

	uc := NewIdentityUseCase(mockRepo)
	got, err := uc.Login(ctx, domain.LoginInput{Email: "agent@example.com", Password: "Str0ngPass"})

	assert.NoError(t, err)
	assert.Equal(t, "stub-token", got)
}

func TestIdentityUseCase_Login_WrongPassword(t *testing.T) {
	ctx := context.Background()

	hashed, err := encrypt.HashPassword("Str0ngPass")
	assert.NoError(t, err)

	mockRepo := new(MockUserRepository)
	mockRepo.On("FindByUser", ctx, mock.Anything).
		Return(&domain.User{Password: hashed, Active: true}, nil)

	uc := NewIdentityUseCase(mockRepo)
	_, err = uc.Login(ctx, domain.LoginInput{Email: "agent@example.com", Password: "wrong"})

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestIdentityUseCase_Login_InactiveAccount(t *testing.T) {
	ctx := context.Background()

	hashed, err := encrypt.HashPassword("Str0ngPass")
	assert.NoError(t, err)

	mockRepo := new(MockUserRepository)
	mockRepo.On("FindByUser", ctx, mock.Anything).
		Return(&domain.User{Password: hashed, Active: false}, nil)

	uc := NewIdentityUseCase(mockRepo)
	_, err = uc.Login(ctx, domain.LoginInput{Email: "agent@example.com", Password: "Str0ngPass"})

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestIdentityUseCase_Login_UnknownEmail(t *testing.T) {
	ctx := context.Background()

	mockRepo := new(MockUserRepository)
	mockRepo.On("FindByUser", ctx, mock.Anything).Return(nil, repository.ErrUserNotFound)

	uc := NewIdentityUseCase(mockRepo)
	_, err := uc.Login(ctx, domain.LoginInput{Email: "nobody@example.com", Password: "Str0ngPass"})

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestIdentityUseCase_ResolveUser(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New().String()

	mockRepo := new(MockUserRepository)
	mockRepo.On("FindByUser", ctx, mock.Anything).
		Return(&domain.User{
			ID:     userID,
			Name:   "Ada",
			Role:   "agent",
			OrgID:  "org-1",
			Active: true,
		}, nil)

	uc := NewIdentityUseCase(mockRepo)
	info, err := uc.ResolveUser(ctx, userID)

	assert.NoError(t, err)
	assert.Equal(t, userID, info.ID)
	assert.Equal(t, "Ada", info.Name)
	assert.True(t, info.Active)
}

func TestIdentityUseCase_ResolveUser_Missing(t *testing.T) {
	ctx := context.Background()

	mockRepo := new(MockUserRepository)
	mockRepo.On("FindByUser", ctx, mock.Anything).Return(nil, repository.ErrUserNotFound)

	uc := NewIdentityUseCase(mockRepo)
	info, err := uc.ResolveUser(ctx, uuid.New().String())

	assert.NoError(t, err)
	assert.Nil(t, info)
}
