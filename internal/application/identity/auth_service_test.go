package identity

import (
	"context"
	"testing"
	"time"

	"github.com/apexgym/backend/internal/domain/identity"
	"github.com/apexgym/backend/internal/domain/shared"
	"github.com/apexgym/backend/internal/infrastructure/auth"
	"github.com/apexgym/backend/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockUserRepository is a mock implementation of identity.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) Save(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func newTestAuthService(repo *MockUserRepository) (*AuthService, *auth.JWTService) {
	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-at-least-32-chars",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: time.Hour,
		Issuer:                 "test",
	})
	return NewAuthService(repo, jwtService, auth.NewInMemoryTokenBlacklist(), zap.NewNop()), jwtService
}

func mustUser(t *testing.T, email, password string) *identity.User {
	t.Helper()
	user, err := identity.NewUser(email, password, "Test Member")
	require.NoError(t, err)
	return user
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("registers new member and returns tokens", func(t *testing.T) {
		repo := new(MockUserRepository)
		service, _ := newTestAuthService(repo)

		repo.On("ExistsByEmail", ctx, "jane@example.com").Return(false, nil)
		repo.On("Save", ctx, mock.AnythingOfType("*identity.User")).Return(nil)

		resp, err := service.Register(ctx, RegisterRequest{
			Email:    "jane@example.com",
			Password: "s3cret-pass",
			FullName: "Jane Doe",
		})
		require.NoError(t, err)
		assert.Equal(t, "jane@example.com", resp.User.Email)
		assert.Equal(t, "member", resp.User.Role)
		assert.NotEmpty(t, resp.Tokens.AccessToken)
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		repo := new(MockUserRepository)
		service, _ := newTestAuthService(repo)

		repo.On("ExistsByEmail", ctx, "jane@example.com").Return(true, nil)

		_, err := service.Register(ctx, RegisterRequest{Email: "jane@example.com", Password: "s3cret-pass"})
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("valid credentials yield token pair", func(t *testing.T) {
		repo := new(MockUserRepository)
		service, jwtService := newTestAuthService(repo)
		user := mustUser(t, "jane@example.com", "s3cret-pass")

		repo.On("FindByEmail", ctx, "jane@example.com").Return(user, nil)
		repo.On("Save", ctx, user).Return(nil)

		resp, err := service.Login(ctx, LoginRequest{Email: "jane@example.com", Password: "s3cret-pass"})
		require.NoError(t, err)

		claims, err := jwtService.ValidateAccessToken(resp.Tokens.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, user.ID.String(), claims.UserID)
		assert.Equal(t, "member", claims.Role)
		assert.NotNil(t, user.LastLoginAt)
	})

	t.Run("wrong password is rejected", func(t *testing.T) {
		repo := new(MockUserRepository)
		service, _ := newTestAuthService(repo)
		user := mustUser(t, "jane@example.com", "s3cret-pass")

		repo.On("FindByEmail", ctx, "jane@example.com").Return(user, nil)

		_, err := service.Login(ctx, LoginRequest{Email: "jane@example.com", Password: "wrong-pass"})
		require.ErrorIs(t, err, shared.ErrInvalidCredentials)
	})

	t.Run("unknown email maps to invalid credentials", func(t *testing.T) {
		repo := new(MockUserRepository)
		service, _ := newTestAuthService(repo)

		repo.On("FindByEmail", ctx, "ghost@example.com").Return(nil, shared.ErrNotFound)

		_, err := service.Login(ctx, LoginRequest{Email: "ghost@example.com", Password: "whatever1"})
		require.ErrorIs(t, err, shared.ErrInvalidCredentials)
	})
}

func TestAdminLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("member account cannot use admin login", func(t *testing.T) {
		repo := new(MockUserRepository)
		service, _ := newTestAuthService(repo)
		user := mustUser(t, "jane@example.com", "s3cret-pass")

		repo.On("FindByEmail", ctx, "jane@example.com").Return(user, nil)
		repo.On("Save", ctx, user).Return(nil)

		_, err := service.AdminLogin(ctx, LoginRequest{Email: "jane@example.com", Password: "s3cret-pass"})
		require.ErrorIs(t, err, shared.ErrInvalidCredentials)
	})

	t.Run("admin account logs in", func(t *testing.T) {
		repo := new(MockUserRepository)
		service, _ := newTestAuthService(repo)
		admin := mustUser(t, "admin@apexgym.com", "adm1n-pass")
		admin.Role = identity.UserRoleAdmin

		repo.On("FindByEmail", ctx, "admin@apexgym.com").Return(admin, nil)
		repo.On("Save", ctx, admin).Return(nil)

		resp, err := service.AdminLogin(ctx, LoginRequest{Email: "admin@apexgym.com", Password: "adm1n-pass"})
		require.NoError(t, err)
		assert.Equal(t, "admin", resp.User.Role)
	})
}

func TestLogout(t *testing.T) {
	ctx := context.Background()

	t.Run("blacklists the presented token", func(t *testing.T) {
		repo := new(MockUserRepository)
		service, jwtService := newTestAuthService(repo)
		user := mustUser(t, "jane@example.com", "s3cret-pass")

		pair, err := jwtService.GenerateTokenPair(auth.GenerateTokenInput{
			UserID: user.ID, Email: user.Email, Role: "member",
		})
		require.NoError(t, err)

		require.NoError(t, service.Logout(ctx, pair.AccessToken))

		claims, err := jwtService.ValidateAccessToken(pair.AccessToken)
		require.NoError(t, err)
		blacklisted, err := service.blacklist.IsBlacklisted(ctx, claims.ID)
		require.NoError(t, err)
		assert.True(t, blacklisted)
	})

	t.Run("invalid token logs out silently", func(t *testing.T) {
		repo := new(MockUserRepository)
		service, _ := newTestAuthService(repo)

		require.NoError(t, service.Logout(ctx, "garbage"))
	})
}

func TestRefresh(t *testing.T) {
	ctx := context.Background()

	t.Run("issues fresh pair for valid refresh token", func(t *testing.T) {
		repo := new(MockUserRepository)
		service, jwtService := newTestAuthService(repo)
		user := mustUser(t, "jane@example.com", "s3cret-pass")

		pair, err := jwtService.GenerateTokenPair(auth.GenerateTokenInput{
			UserID: user.ID, Email: user.Email, Role: "member",
		})
		require.NoError(t, err)

		repo.On("FindByID", ctx, user.ID).Return(user, nil)

		resp, err := service.Refresh(ctx, RefreshRequest{RefreshToken: pair.RefreshToken})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.Tokens.AccessToken)
	})

	t.Run("rejects invalid refresh token", func(t *testing.T) {
		repo := new(MockUserRepository)
		service, _ := newTestAuthService(repo)

		_, err := service.Refresh(ctx, RefreshRequest{RefreshToken: "garbage"})
		require.ErrorIs(t, err, shared.ErrUnauthorized)
	})
}

func TestUpdateProfile(t *testing.T) {
	ctx := context.Background()

	t.Run("applies partial update", func(t *testing.T) {
		repo := new(MockUserRepository)
		service, _ := newTestAuthService(repo)
		user := mustUser(t, "jane@example.com", "s3cret-pass")

		repo.On("FindByID", ctx, user.ID).Return(user, nil)
		repo.On("Save", ctx, user).Return(nil)

		phone := "+4790000000"
		resp, err := service.UpdateProfile(ctx, user.ID, UpdateProfileRequest{Phone: &phone})
		require.NoError(t, err)
		assert.Equal(t, "+4790000000", resp.Phone)
		assert.Equal(t, "Test Member", resp.FullName)
	})
}

func TestEnsureAdminAccount(t *testing.T) {
	ctx := context.Background()

	t.Run("creates admin when absent", func(t *testing.T) {
		repo := new(MockUserRepository)
		service, _ := newTestAuthService(repo)

		repo.On("FindByEmail", ctx, "admin@apexgym.com").Return(nil, shared.ErrNotFound)
		repo.On("Save", ctx, mock.MatchedBy(func(u *identity.User) bool {
			return u.Role == identity.UserRoleAdmin && u.Email == "admin@apexgym.com"
		})).Return(nil)

		require.NoError(t, service.EnsureAdminAccount(ctx, "admin@apexgym.com", "adm1n-pass"))
		repo.AssertExpectations(t)
	})

	t.Run("promotes and re-keys existing account", func(t *testing.T) {
		repo := new(MockUserRepository)
		service, _ := newTestAuthService(repo)
		user := mustUser(t, "admin@apexgym.com", "old-password")

		repo.On("FindByEmail", ctx, "admin@apexgym.com").Return(user, nil)
		repo.On("Save", ctx, user).Return(nil)

		require.NoError(t, service.EnsureAdminAccount(ctx, "admin@apexgym.com", "new-password"))
		assert.Equal(t, identity.UserRoleAdmin, user.Role)
		assert.True(t, user.VerifyPassword("new-password"))
	})

	t.Run("missing credentials skip bootstrap", func(t *testing.T) {
		repo := new(MockUserRepository)
		service, _ := newTestAuthService(repo)

		require.NoError(t, service.EnsureAdminAccount(ctx, "", ""))
		repo.AssertNotCalled(t, "FindByEmail", mock.Anything, mock.Anything)
	})
}
