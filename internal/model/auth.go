package model

import "github.com/golang-jwt/jwt/v5"

type RegisterRequest struct {
	Email           string          `json:"email"`
	Username        string          `json:"username"`
	Password        string          `json:"password"`
	FirstName       string          `json:"firstName"`
	LastName        string          `json:"lastName"`
	Institution     string          `json:"institution,omitempty"`
	ExperienceLevel ExperienceLevel `json:"experienceLevel,omitempty"`
	// Role is honored only when admin signup is enabled; everyone else
	// registers as a regular user.
	Role UserRole `json:"role,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// UserClaims is the JWT payload for an authenticated user.
type UserClaims struct {
	UserID string   `json:"userId"`
	Role   UserRole `json:"role"`
	jwt.RegisteredClaims
}
