package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"fyp-portal/internal/dto"
	"fyp-portal/internal/repository"
	"fyp-portal/pkg/jwt"
)

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrRevocationDisabled  = errors.New("token revocation needs redis")
	ErrTokenIDRequired     = errors.New("token id is required")
	ErrTokenTTLNotPositive = errors.New("token ttl must be positive")
)

// Blacklist revoked token ids, implemented by pkg/redis.Client.
type Blacklist interface {
	BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error
}

// AuthService token lifecycle. Passwords live in the campus identity
// service; the portal only issues operator tokens and revokes tokens.
type AuthService interface {
	// IssueToken mints an access token for an existing user. ttl <= 0 uses
	// the configured lifetime.
	IssueToken(ctx context.Context, userID string, ttl time.Duration) (*dto.TokenResponse, error)
	// Logout revokes the presented token until it would have expired.
	Logout(ctx context.Context, claims *jwt.Claims) (*dto.LogoutResponse, error)
	// Revoke blacklists a token id for ttl.
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
}

type authService struct {
	repo      *repository.Repository
	jwtMgr    *jwt.Manager
	blacklist Blacklist
	logger    *zap.Logger
}

// NewAuthService creates an AuthService. blacklist may be nil, in which
// case revocation reports ErrRevocationDisabled.
func NewAuthService(
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	blacklist Blacklist,
	logger *zap.Logger,
) AuthService {
	return &authService{
		repo:      repo,
		jwtMgr:    jwtMgr,
		blacklist: blacklist,
		logger:    logger,
	}
}

func (s *authService) IssueToken(ctx context.Context, userID string, ttl time.Duration) (*dto.TokenResponse, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("get user failed", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	token, err := s.jwtMgr.GenerateAccessToken(user.UserID, user.Role, user.Department, ttl)
	if err != nil {
		s.logger.Error("generate access token failed", zap.Error(err))
		return nil, err
	}
	claims, err := s.jwtMgr.ParseToken(token)
	if err != nil {
		return nil, err
	}

	s.logger.Info("access token issued",
		zap.String("user_id", user.UserID),
		zap.String("role", user.Role),
		zap.String("jti", claims.ID),
	)

	return &dto.TokenResponse{
		AccessToken: token,
		TokenID:     claims.ID,
		ExpiresIn:   int(time.Until(claims.ExpiresAt.Time).Round(time.Second).Seconds()),
		ExpiresAt:   formatTime(claims.ExpiresAt.Time),
		User:        *toUserResponse(user),
	}, nil
}

func (s *authService) Logout(ctx context.Context, claims *jwt.Claims) (*dto.LogoutResponse, error) {
	if claims.ExpiresAt == nil {
		return nil, ErrTokenTTLNotPositive
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return &dto.LogoutResponse{Revoked: false}, nil
	}
	if err := s.Revoke(ctx, claims.ID, ttl); err != nil {
		return nil, err
	}
	return &dto.LogoutResponse{Revoked: true}, nil
}

func (s *authService) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if jti == "" {
		return ErrTokenIDRequired
	}
	if ttl <= 0 {
		return ErrTokenTTLNotPositive
	}
	if s.blacklist == nil {
		return ErrRevocationDisabled
	}
	if err := s.blacklist.BlacklistToken(ctx, jti, ttl); err != nil {
		s.logger.Error("blacklist token failed", zap.String("jti", jti), zap.Error(err))
		return err
	}
	s.logger.Info("token revoked", zap.String("jti", jti), zap.Duration("ttl", ttl))
	return nil
}
