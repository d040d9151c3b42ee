package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// RegisterRequest creates a new account.
type RegisterRequest struct {
	Email        string   `json:"email" validate:"required,email"`
	FullName     string   `json:"full_name" validate:"required,max=120"`
	Role         UserRole `json:"role" validate:"required,oneof=teacher student principal"`
	ClassSection string   `json:"class_section" validate:"required_if=Role student,max=32"`
	Password     string   `json:"password" validate:"required,min=6"`
}

// LoginRequest holds credentials for authenticating a user.
type LoginRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required"`
	IP        string `json:"-"`
	UserAgent string `json:"-"`
}

// TokenResponse returns the issued token and user info.
type TokenResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresIn   int64     `json:"expires_in"`
	User        UserInfo  `json:"user"`
	IssuedAt    time.Time `json:"issued_at"`
}

// UserInfo describes the authenticated user in responses.
type UserInfo struct {
	ID           string   `json:"id"`
	Email        string   `json:"email"`
	FullName     string   `json:"full_name"`
	Role         UserRole `json:"role"`
	ClassSection string   `json:"class_section,omitempty"`
}

// JWTClaims represents the JWT payload for access tokens.
type JWTClaims struct {
	UserID       string   `json:"user_id"`
	Role         UserRole `json:"role"`
	Email        string   `json:"email"`
	FullName     string   `json:"full_name"`
	ClassSection string   `json:"class_section,omitempty"`
	jwt.RegisteredClaims
}

// Identity is the caller resolved from a bearer token. It never changes within a request.
type Identity struct {
	ID           string
	Role         UserRole
	ClassSection string
	FullName     string
}

// Identity maps token claims onto the request identity.
func (c *JWTClaims) Identity() Identity {
	return Identity{
		ID:           c.UserID,
		Role:         c.Role,
		ClassSection: c.ClassSection,
		FullName:     c.FullName,
	}
}

func (i Identity) IsTeacher() bool { return i.Role == RoleTeacher }

func (i Identity) IsStudent() bool { return i.Role == RoleStudent }

func (i Identity) IsPrincipal() bool { return i.Role == RolePrincipal }
