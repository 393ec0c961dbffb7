package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Rrens/itinerary-planner/internal/domain"
	"github.com/Rrens/itinerary-planner/internal/security"
)

func newAuthService(repo *MockUserRepository) (*AuthService, *security.JWTManager, *security.PasswordHasher) {
	hasher := security.NewPasswordHasher(bcrypt.MinCost)
	jwtManager := security.NewJWTManager("test-secret-key-with-32-chars!!", 15*time.Minute)
	return NewAuthService(repo, hasher, jwtManager), jwtManager, hasher
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc, jwtManager, hasher := newAuthService(repo)

		var saved *domain.User
		repo.On("Create", ctx, mock.AnythingOfType("*domain.User")).
			Run(func(args mock.Arguments) { saved = args.Get(1).(*domain.User) }).
			Return(nil)

		result, err := svc.Register(ctx, domain.UserCreate{Email: " Ana@Example.com ", Name: "Ana", Password: "password1"})
		require.NoError(t, err)

		assert.Equal(t, "ana@example.com", result.User.Email)
		assert.Equal(t, int64(900), result.ExpiresIn)
		require.NotNil(t, saved)
		assert.NotEqual(t, "password1", saved.PasswordHash)

		ok, err := hasher.Compare(saved.PasswordHash, "password1")
		require.NoError(t, err)
		assert.True(t, ok)

		claims, err := jwtManager.ValidateAccessToken(result.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, saved.ID, claims.UserID)
		repo.AssertExpectations(t)
	})

	t.Run("duplicate email", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc, _, _ := newAuthService(repo)
		repo.On("Create", ctx, mock.Anything).Return(domain.ErrUniqueViolation)

		_, err := svc.Register(ctx, domain.UserCreate{Email: "a@b.co", Name: "A", Password: "password1"})
		assert.ErrorIs(t, err, domain.ErrConflict)
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	repo := new(MockUserRepository)
	svc, _, hasher := newAuthService(repo)

	hash, err := hasher.Hash("password1")
	require.NoError(t, err)
	user := &domain.User{ID: uuid.New(), Email: "ana@example.com", Name: "Ana", PasswordHash: hash}

	repo.On("GetByEmail", ctx, "ana@example.com").Return(user, nil)
	repo.On("GetByEmail", ctx, "ghost@example.com").Return(nil, nil)
	repo.On("GetByEmail", ctx, "down@example.com").Return(nil, errors.New("connection refused"))

	t.Run("success", func(t *testing.T) {
		result, err := svc.Login(ctx, domain.UserLogin{Email: "ANA@example.com", Password: "password1"})
		require.NoError(t, err)
		assert.Equal(t, user.ID, result.User.ID)
		assert.NotEmpty(t, result.AccessToken)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, domain.UserLogin{Email: "ana@example.com", Password: "nope"})
		assert.ErrorIs(t, err, domain.ErrUnauthenticated)
		assert.EqualError(t, err, "invalid credentials")
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Login(ctx, domain.UserLogin{Email: "ghost@example.com", Password: "password1"})
		assert.ErrorIs(t, err, domain.ErrUnauthenticated)
		assert.EqualError(t, err, "invalid credentials")
	})

	t.Run("store failure", func(t *testing.T) {
		_, err := svc.Login(ctx, domain.UserLogin{Email: "down@example.com", Password: "password1"})
		require.Error(t, err)
		assert.Equal(t, domain.KindInternal, domain.KindOf(err))
	})
}

func TestAuthService_Me(t *testing.T) {
	ctx := context.Background()
	repo := new(MockUserRepository)
	svc, _, _ := newAuthService(repo)

	user := &domain.User{ID: uuid.New(), Email: "ana@example.com", Name: "Ana"}
	gone := uuid.New()
	repo.On("GetByID", ctx, user.ID).Return(user, nil)
	repo.On("GetByID", ctx, gone).Return(nil, nil)

	info, err := svc.Me(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.UserInfo{ID: user.ID, Email: user.Email, Name: "Ana"}, *info)

	_, err = svc.Me(ctx, gone)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}
