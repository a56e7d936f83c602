package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"campuscrafter.id/academy/internal/auth"
	"campuscrafter.id/academy/internal/entity"
	"campuscrafter.id/academy/internal/modules/user/dto"
	"campuscrafter.id/academy/internal/modules/user/repository"
	"campuscrafter.id/academy/pkg/apperror"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthService is the credential store: it owns password hashes and mints tokens.
type AuthService interface {
	Register(ctx context.Context, input dto.RegisterInput) (*entity.User, error)
	CreateAccount(ctx context.Context, input dto.RegisterInput) (*entity.User, error)
	Login(ctx context.Context, input dto.LoginInput) (*dto.AuthResponse, error)
	HashPassword(plain string) (string, error)
}

type authService struct {
	repo       repository.UserRepository
	tokens     *auth.TokenManager
	bcryptCost int
	now        func() time.Time
	log        zerolog.Logger
}

func NewAuthService(repo repository.UserRepository, tokens *auth.TokenManager, bcryptCost int, log zerolog.Logger) AuthService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &authService{
		repo:       repo,
		tokens:     tokens,
		bcryptCost: bcryptCost,
		now:        func() time.Time { return time.Now().UTC() },
		log:        log,
	}
}

// Register is the public sign-up path. Admin accounts can only be created by an admin.
func (s *authService) Register(ctx context.Context, input dto.RegisterInput) (*entity.User, error) {
	if entity.Role(input.Role) == entity.RoleAdmin {
		return nil, fmt.Errorf("admin accounts cannot self-register: %w", apperror.ErrForbidden)
	}
	return s.CreateAccount(ctx, input)
}

// CreateAccount stores a new profile without any caller check.
func (s *authService) CreateAccount(ctx context.Context, input dto.RegisterInput) (*entity.User, error) {
	email := NormalizeEmail(input.Email)
	if email == "" || strings.TrimSpace(input.Name) == "" || input.Password == "" {
		return nil, apperror.Validation("name, email and password are required")
	}

	role := entity.RoleStudent
	if input.Role != "" {
		role = entity.Role(input.Role)
		if !role.Valid() {
			return nil, apperror.Validation("role must be one of: student teacher admin")
		}
	}

	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, apperror.ErrDuplicateEmail
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := s.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		Name:         strings.TrimSpace(input.Name),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		DateJoined:   s.now(),
		Bio:          input.Bio,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info().Uint("user_id", user.ID).Str("role", string(user.Role)).Msg("account created")
	return user, nil
}

func (s *authService) Login(ctx context.Context, input dto.LoginInput) (*dto.AuthResponse, error) {
	user, err := s.repo.FindByEmail(ctx, NormalizeEmail(input.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, apperror.ErrInvalidCredentials
	}

	if err := s.repo.TouchLastLogin(ctx, user.ID, s.now()); err != nil {
		s.log.Warn().Err(err).Uint("user_id", user.ID).Msg("failed to record last login")
	}

	token, expiresAt, err := s.tokens.Issue(user.Identity())
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   expiresAt,
	}, nil
}

func (s *authService) HashPassword(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), s.bcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
