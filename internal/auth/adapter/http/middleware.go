package http

import (
	"os"
	"strings"
	"time"

	"estatehub/internal/auth/usecase"
	"estatehub/internal/shared/contextkeys"
	"estatehub/internal/shared/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

// AuthMiddleware provides authentication middleware for Fiber
type AuthMiddleware struct {
	usecase    usecase.AuthUsecaseInterface
	cookieName string
}

// NewAuthMiddleware creates a new authentication middleware
func NewAuthMiddleware(uc usecase.AuthUsecaseInterface, cookieName string) *AuthMiddleware {
	return &AuthMiddleware{
		usecase:    uc,
		cookieName: cookieName,
	}
}

// CORS restricts cross-origin access to the configured frontend origins.
// ALLOWED_ORIGINS overrides the local development defaults.
func (m *AuthMiddleware) CORS() fiber.Handler {
	origins := os.Getenv("ALLOWED_ORIGINS")
	if origins == "" {
		origins = "http://localhost:3000,http://localhost:5173"
	}
	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     "GET,POST,PUT,DELETE,PATCH,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept,Authorization,X-Requested-With",
		AllowCredentials: true,
		MaxAge:           86400,
	})
}

// SecurityHeaders sets the standard browser hardening headers.
func (m *AuthMiddleware) SecurityHeaders() fiber.Handler {
	headers := map[string]string{
		"X-Content-Type-Options": "nosniff",
		"X-Frame-Options":        "DENY",
		"X-XSS-Protection":       "1; mode=block",
		"Referrer-Policy":        "strict-origin-when-cross-origin",
	}
	return func(c *fiber.Ctx) error {
		for k, v := range headers {
			c.Set(k, v)
		}
		return c.Next()
	}
}

// RateLimiter throttles credential endpoints per client IP.
func (m *AuthMiddleware) RateLimiter() fiber.Handler {
	return limiter.New(limiter.Config{
		Max:               10,
		Expiration:        time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.Get("X-Forwarded-For", c.IP())
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).
				JSON(errorResponse("too many requests, slow down", fiber.StatusTooManyRequests))
		},
	})
}

// RequestID tags every request with a correlation id, exposed both as a
// response header and in the request context for log enrichment.
func (m *AuthMiddleware) RequestID() fiber.Handler {
	return requestid.New(requestid.Config{
		Header:     "X-Request-ID",
		ContextKey: string(contextkeys.RequestIDKey),
	})
}

// Protect returns middleware that requires authentication
func (m *AuthMiddleware) Protect() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, err := m.extractToken(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).
				JSON(errorResponse("authentication required", fiber.StatusUnauthorized))
		}

		claims, err := m.usecase.ValidateToken(c.Context(), token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).
				JSON(errorResponse("invalid or expired token", fiber.StatusUnauthorized))
		}

		ctx := c.UserContext()
		ctx = utils.WithUserID(ctx, claims.UserID)
		ctx = utils.WithUserEmail(ctx, claims.Email)
		ctx = utils.WithUserRole(ctx, claims.Role)

		c.SetUserContext(ctx)
		return c.Next()
	}
}

// RequireRole returns middleware that admits only the listed roles.
// Runs after Protect, which already validated the token.
func (m *AuthMiddleware) RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, err := utils.GetUserRoleFromContext(c.UserContext())
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).
				JSON(errorResponse("authentication required", fiber.StatusUnauthorized))
		}

		for _, allowed := range roles {
			if role == allowed {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).
			JSON(errorResponse("insufficient permissions", fiber.StatusForbidden))
	}
}

// extractToken extracts the token from Authorization header or cookie
func (m *AuthMiddleware) extractToken(c *fiber.Ctx) (string, error) {
	authHeader := c.Get("Authorization")
	if authHeader != "" {
		if strings.HasPrefix(authHeader, "Bearer ") {
			return strings.TrimPrefix(authHeader, "Bearer "), nil
		}
	}

	token := c.Cookies(m.cookieName)
	if token != "" {
		return token, nil
	}

	return "", fiber.NewError(fiber.StatusUnauthorized, "No authentication token found")
}
