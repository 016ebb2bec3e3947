package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/Amoukli/Coach-AI/internal/model"
	"github.com/Amoukli/Coach-AI/internal/repository"
)

// AuthService handles registration, login and token validation.
type AuthService struct {
	users            repository.UserRepo
	jwtSecret        []byte
	tokenExpiry      time.Duration
	allowAdminSignup bool
}

// NewAuthService creates a new auth service
func NewAuthService(users repository.UserRepo, jwtSecret string, tokenExpiry time.Duration, allowAdminSignup bool) *AuthService {
	if tokenExpiry == 0 {
		tokenExpiry = 24 * time.Hour
	}
	return &AuthService{
		users:            users,
		jwtSecret:        []byte(jwtSecret),
		tokenExpiry:      tokenExpiry,
		allowAdminSignup: allowAdminSignup,
	}
}

// Register creates a new user account with a bcrypt-hashed password.
func (s *AuthService) Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	username := strings.ToLower(strings.TrimSpace(req.Username))
	if email == "" || req.Password == "" || username == "" {
		return nil, fmt.Errorf("%w: email, username and password are required", ErrValidation)
	}
	if len(req.Password) < 8 {
		return nil, fmt.Errorf("%w: password must be at least 8 characters", ErrValidation)
	}

	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: email already registered", ErrConflict)
	}

	existing, err = s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: username already taken", ErrConflict)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	role := model.RoleUser
	if req.Role == model.RoleAdmin && s.allowAdminSignup {
		role = model.RoleAdmin
	}

	user := &model.User{
		Email:           email,
		Username:        username,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Institution:     req.Institution,
		ExperienceLevel: req.ExperienceLevel,
		Role:            role,
		HashedPassword:  string(hash),
		IsActive:        true,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// Login validates credentials and returns a signed token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*model.LoginResponse, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil || !user.IsActive {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	claims := &model.UserClaims{
		UserID: user.ID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.tokenExpiry)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	// Best effort; a failed timestamp write must not block login.
	_ = s.users.TouchLastLogin(ctx, user.ID)

	return &model.LoginResponse{
		Token: tokenString,
		User:  user,
	}, nil
}

// ValidateToken validates a JWT and returns its claims
func (s *AuthService) ValidateToken(tokenString string) (*model.UserClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &model.UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*model.UserClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
