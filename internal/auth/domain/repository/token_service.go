package repository

import (
	"context"

	"github.com/golang-jwt/jwt/v5"
)

// TokenService issues and verifies the access tokens handed to clients on
// login and registration.
type TokenService interface {
	GenerateToken(ctx context.Context, userID, email, role string) (string, error)
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims is the token payload: the user identity plus the registered claims.
type Claims struct {
	UserID string `json:"userID"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}
