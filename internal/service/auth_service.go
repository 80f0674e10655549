package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"zhiyu.io/assistantportal/internal/dto"
	"zhiyu.io/assistantportal/internal/repository"
	"zhiyu.io/assistantportal/pkg/apperror"
)

type AuthService interface {
	Login(ctx context.Context, input dto.LoginInput) (*dto.LoginResponse, error)
	ResetPassword(ctx context.Context, input dto.ResetPasswordInput) error
}

type authService struct {
	users         repository.UserRepository
	rdb           *redis.Client
	secret        string
	tokenTTL      time.Duration
	resetCooldown time.Duration
}

func NewAuthService(users repository.UserRepository, rdb *redis.Client, secret string, tokenTTL, resetCooldown time.Duration) AuthService {
	return &authService{
		users:         users,
		rdb:           rdb,
		secret:        secret,
		tokenTTL:      tokenTTL,
		resetCooldown: resetCooldown,
	}
}

func (s *authService) Login(ctx context.Context, input dto.LoginInput) (*dto.LoginResponse, error) {
	user, err := s.users.FindByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("invalid username or password: %w", apperror.ErrUnauthorized)
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, fmt.Errorf("invalid username or password: %w", apperror.ErrUnauthorized)
	}

	token, err := s.generateToken(user.ID, user.Username)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		Token: token,
		User: dto.UserSummary{
			ID:       user.ID,
			Username: user.Username,
			RealName: user.RealName,
			Email:    user.Email,
		},
	}, nil
}

func (s *authService) ResetPassword(ctx context.Context, input dto.ResetPasswordInput) error {
	allowed, err := CheckAndSetRateLimit(ctx, s.rdb, input.Username, "reset_password", s.resetCooldown)
	if err != nil {
		return err
	}
	if !allowed {
		return invalidInput("too many reset attempts, try again later")
	}

	user, err := s.users.FindByUsernameAndEmail(ctx, input.Username, input.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound("username and email do not match")
		}
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	return translateStoreError(s.users.UpdatePassword(ctx, user.ID, string(hashed)), "user")
}

type authClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

func (s *authService) generateToken(userID uint, username string) (string, error) {
	now := time.Now()

	claims := authClaims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", userID),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.secret))
	if err != nil {
		return "", err
	}

	return signed, nil
}
