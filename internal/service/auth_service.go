package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/tmtperez/track-my-bids/internal/config"
	"github.com/tmtperez/track-my-bids/internal/model/entity"
	"github.com/tmtperez/track-my-bids/internal/repository"
)

// ErrInvalidCredentials is returned for both unknown email and wrong
// password so login responses do not reveal which one failed.
var ErrInvalidCredentials = errors.New("invalid email or password")

type AuthService struct {
	userRepo *repository.UserRepository
	cfg      *config.Config
}

func NewAuthService(userRepo *repository.UserRepository, cfg *config.Config) *AuthService {
	return &AuthService{userRepo: userRepo, cfg: cfg}
}

// LoginResult carries the signed token plus the user shape the client
// renders after login.
type LoginResult struct {
	Token     string          `json:"token"`
	ExpiresIn int64           `json:"expires_in"`
	User      *entity.UserRef `json:"user"`
	Role      string          `json:"role"`
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		Token:     token,
		ExpiresIn: int64(s.cfg.JWT.AccessTokenExpire.Seconds()),
		User:      user.Ref(),
		Role:      user.Role,
	}, nil
}

// Me returns the authenticated caller's own account.
func (s *AuthService) Me(ctx context.Context, userID uint) (*entity.User, error) {
	return s.userRepo.FindByID(ctx, userID)
}

func (s *AuthService) generateToken(user *entity.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   strconv.FormatUint(uint64(user.ID), 10),
		"uid":   user.ID,
		"name":  user.Name,
		"email": user.Email,
		"role":  user.Role,
		"iss":   s.cfg.JWT.Issuer,
		"iat":   now.Unix(),
		"exp":   now.Add(s.cfg.JWT.AccessTokenExpire).Unix(),
		"jti":   uuid.New().String(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWT.Secret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// HashPassword wraps bcrypt for user provisioning.
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}
