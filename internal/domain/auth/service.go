package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/konekt/konekt-api/internal/domain/user"
	"github.com/konekt/konekt-api/internal/pkg/email"
	"github.com/konekt/konekt-api/internal/pkg/jwt"
	"github.com/konekt/konekt-api/internal/pkg/password"
)

const refreshKeyPrefix = "konekt:refresh:"

// Service handles authentication business logic
type Service struct {
	userRepo     user.Repository
	jwtService   *jwt.Service
	redis        *redis.Client // nil if Redis disabled
	emailService *email.Service
}

// NewService creates auth service, redis and emailService may be nil
func NewService(userRepo user.Repository, jwtService *jwt.Service, redisClient *redis.Client, emailService *email.Service) *Service {
	return &Service{
		userRepo:     userRepo,
		jwtService:   jwtService,
		redis:        redisClient,
		emailService: emailService,
	}
}

// Register creates new user account
func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error) {
	req.Email = normalizeEmail(req.Email)
	req.Username = strings.ToLower(strings.TrimSpace(req.Username))

	hash, err := password.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	u := &user.User{
		ID:           uuid.New(),
		Username:     req.Username,
		DisplayName:  req.DisplayName,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         user.RoleMember,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, u); err != nil {
		switch {
		case errors.Is(err, user.ErrEmailAlreadyExists):
			return nil, ErrEmailAlreadyExists
		case errors.Is(err, user.ErrUsernameTaken):
			return nil, ErrUsernameTaken
		}
		return nil, err
	}

	log.Info().Str("user_id", u.ID.String()).Str("username", u.Username).Msg("user registered")

	if s.emailService != nil {
		s.emailService.SendWelcome(u.Email, u.DisplayName, u.DisplayName, "/")
	}

	return s.generateTokens(ctx, u)
}

// Login authenticates user
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	req.Email = normalizeEmail(req.Email)

	u, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil || u == nil {
		return nil, ErrInvalidCredentials
	}

	if !password.Verify(req.Password, u.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return s.generateTokens(ctx, u)
}

// Refresh rotates a refresh token into a new token pair
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	if refreshToken == "" {
		return nil, ErrRefreshTokenRequired
	}

	claims, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}

	// With Redis, the jti must still be live; rotation revokes it.
	if s.redis != nil {
		key := refreshKeyPrefix + claims.ID
		if err := s.redis.Get(ctx, key).Err(); err != nil {
			return nil, ErrInvalidRefreshToken
		}
		_ = s.redis.Del(ctx, key).Err()
	}

	u, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil || u == nil {
		return nil, ErrUserNotFound
	}

	return s.generateTokens(ctx, u)
}

// Logout revokes a refresh token
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" || s.redis == nil {
		return nil
	}
	claims, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil // already unusable
	}
	return s.redis.Del(ctx, refreshKeyPrefix+claims.ID).Err()
}

// GetCurrentUser returns the authenticated user's account view
func (s *Service) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*user.User, error) {
	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil || u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

func (s *Service) generateTokens(ctx context.Context, u *user.User) (*AuthResponse, error) {
	accessToken, err := s.jwtService.GenerateAccessToken(u.ID, string(u.Role))
	if err != nil {
		return nil, err
	}

	refreshToken, jti, expiresAt, err := s.jwtService.GenerateRefreshToken(u.ID)
	if err != nil {
		return nil, err
	}

	if s.redis != nil {
		key := refreshKeyPrefix + jti
		if err := s.redis.Set(ctx, key, u.ID.String(), time.Until(expiresAt)).Err(); err != nil {
			return nil, err
		}
	}

	return &AuthResponse{
		User: u.ToProfile(),
		Tokens: TokensResponse{
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
			ExpiresIn:    int(s.jwtService.GetAccessTTL().Seconds()),
		},
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
