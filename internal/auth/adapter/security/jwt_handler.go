package security

import (
	"context"
	"errors"
	"time"

	"estatehub/internal/auth/config"
	"estatehub/internal/auth/domain/repository"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrTokenInvalid          = errors.New("token is invalid")
	ErrTokenExpired          = errors.New("token is expired")
	ErrTokenSignatureInvalid = errors.New("token signature is invalid")
)

// JWTokenService issues and verifies HS256 access tokens. Tokens carry the
// user id, email and role plus the standard registered claims; verification
// pins both the signing method and the issuer.
type JWTokenService struct {
	secretKey []byte
	issuer    string
	ttl       time.Duration
	parser    *jwt.Parser
}

// NewJWTokenService builds the token service from the auth config.
func NewJWTokenService(cfg *config.Config) (*JWTokenService, error) {
	switch {
	case cfg.JWTSecretKey == "":
		return nil, errors.New("jwt secret key cannot be empty")
	case cfg.JWTIssuer == "":
		return nil, errors.New("jwt issuer cannot be empty")
	case cfg.AccessTokenTTL <= 0:
		return nil, errors.New("jwt access token TTL must be positive")
	}

	return &JWTokenService{
		secretKey: []byte(cfg.JWTSecretKey),
		issuer:    cfg.JWTIssuer,
		ttl:       cfg.AccessTokenTTL,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithIssuer(cfg.JWTIssuer),
		),
	}, nil
}

// GenerateToken signs a token for the given user identity.
func (s *JWTokenService) GenerateToken(ctx context.Context, userID, email, role string) (string, error) {
	now := time.Now()
	claims := &repository.Claims{
		UserID: userID,
		Email:  email,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secretKey)
}

// ValidateToken parses and verifies a token string, mapping library errors to
// the package sentinels.
func (s *JWTokenService) ValidateToken(ctx context.Context, tokenString string) (*repository.Claims, error) {
	if tokenString == "" {
		return nil, ErrTokenInvalid
	}

	token, err := s.parser.ParseWithClaims(tokenString, &repository.Claims{}, func(*jwt.Token) (interface{}, error) {
		return s.secretKey, nil
	})
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return nil, ErrTokenSignatureInvalid
	case err != nil, !token.Valid:
		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(*repository.Claims)
	if !ok {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
