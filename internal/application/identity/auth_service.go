package identity

import (
	"context"
	"errors"

	"github.com/apexgym/backend/internal/domain/identity"
	"github.com/apexgym/backend/internal/domain/shared"
	"github.com/apexgym/backend/internal/infrastructure/auth"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AuthService handles authentication and profile operations
type AuthService struct {
	userRepo   identity.UserRepository
	jwtService *auth.JWTService
	blacklist  auth.TokenBlacklist
	logger     *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	userRepo identity.UserRepository,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
		blacklist:  blacklist,
		logger:     logger,
	}
}

// Register creates a new member account and logs it in
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*LoginResponse, error) {
	exists, err := s.userRepo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "An account with this email already exists")
	}

	user, err := identity.NewUser(req.Email, req.Password, req.FullName)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("Member registered", zap.String("user_id", user.ID.String()))

	return s.issueTokens(ctx, user)
}

// Login authenticates a member and returns tokens
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	user, err := s.authenticate(ctx, req)
	if err != nil {
		return nil, err
	}
	return s.issueTokens(ctx, user)
}

// AdminLogin authenticates an administrator. Non-admin accounts are
// rejected with the same error as bad credentials.
func (s *AuthService) AdminLogin(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	user, err := s.authenticate(ctx, req)
	if err != nil {
		return nil, err
	}
	if !user.IsAdmin() {
		s.logger.Warn("Admin login attempt by non-admin account", zap.String("user_id", user.ID.String()))
		return nil, shared.ErrInvalidCredentials
	}
	return s.issueTokens(ctx, user)
}

// Logout revokes the presented access token for its remaining lifetime
func (s *AuthService) Logout(ctx context.Context, accessToken string) error {
	claims, err := s.jwtService.ValidateAccessToken(accessToken)
	if err != nil {
		// Already invalid or expired tokens need no blacklisting.
		return nil
	}

	if err := s.blacklist.AddToBlacklist(ctx, claims.ID, claims.GetRemainingTTL()); err != nil {
		s.logger.Error("Failed to blacklist token on logout", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to log out")
	}

	return nil
}

// Refresh exchanges a valid refresh token for a new token pair
func (s *AuthService) Refresh(ctx context.Context, req RefreshRequest) (*LoginResponse, error) {
	claims, err := s.jwtService.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		return nil, shared.ErrUnauthorized
	}

	userID, err := claims.GetUserUUID()
	if err != nil {
		return nil, shared.ErrUnauthorized
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrUnauthorized
		}
		return nil, err
	}

	return s.issueTokens(ctx, user)
}

// GetProfile returns the user's profile
func (s *AuthService) GetProfile(ctx context.Context, userID uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := ToUserResponse(user)
	return &resp, nil
}

// UpdateProfile applies partial changes to the user's profile
func (s *AuthService) UpdateProfile(ctx context.Context, userID uuid.UUID, req UpdateProfileRequest) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	fullName := user.FullName
	phone := user.Phone
	address := user.Address
	if req.FullName != nil {
		fullName = *req.FullName
	}
	if req.Phone != nil {
		phone = *req.Phone
	}
	if req.Address != nil {
		address = *req.Address
	}

	if err := user.UpdateProfile(fullName, phone, address); err != nil {
		return nil, err
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	resp := ToUserResponse(user)
	return &resp, nil
}

// EnsureAdminAccount creates or updates the administrator account from
// configured credentials. Called once on startup.
func (s *AuthService) EnsureAdminAccount(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		s.logger.Warn("Admin credentials not configured, skipping admin bootstrap")
		return nil
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	switch {
	case err == nil:
		if !user.VerifyPassword(password) {
			if err := user.ChangePassword(password); err != nil {
				return err
			}
		}
		user.Role = identity.UserRoleAdmin
		return s.userRepo.Save(ctx, user)
	case errors.Is(err, shared.ErrNotFound):
		admin, err := identity.NewUser(email, password, "Administrator")
		if err != nil {
			return err
		}
		admin.Role = identity.UserRoleAdmin
		if err := s.userRepo.Save(ctx, admin); err != nil {
			return err
		}
		s.logger.Info("Admin account created", zap.String("email", email))
		return nil
	default:
		return err
	}
}

func (s *AuthService) authenticate(ctx context.Context, req LoginRequest) (*identity.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.VerifyPassword(req.Password) {
		s.logger.Warn("Invalid password attempt", zap.String("user_id", user.ID.String()))
		return nil, shared.ErrInvalidCredentials
	}

	user.RecordLogin()
	if err := s.userRepo.Save(ctx, user); err != nil {
		s.logger.Error("Failed to record login time", zap.Error(err))
	}

	return user, nil
}

func (s *AuthService) issueTokens(ctx context.Context, user *identity.User) (*LoginResponse, error) {
	tokens, err := s.jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		UserID: user.ID,
		Email:  user.Email,
		Role:   string(user.Role),
	})
	if err != nil {
		s.logger.Error("Failed to generate token pair", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate authentication tokens")
	}

	return &LoginResponse{
		User:   ToUserResponse(user),
		Tokens: tokens,
	}, nil
}
