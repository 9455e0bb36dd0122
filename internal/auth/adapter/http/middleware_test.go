package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	authhttp "estatehub/internal/auth/adapter/http"
	"estatehub/internal/auth/domain/model"
	"estatehub/internal/auth/domain/repository"
	"estatehub/internal/auth/usecase"
	"estatehub/internal/shared/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// stubAuthUsecase satisfies the usecase interface; only ValidateToken is
// exercised by the middleware.
type stubAuthUsecase struct {
	claims *repository.Claims
	err    error
}

func (s *stubAuthUsecase) Register(context.Context, usecase.RegisterRequest) (*model.User, string, error) {
	return nil, "", nil
}

func (s *stubAuthUsecase) Login(context.Context, usecase.LoginRequest) (*model.User, string, error) {
	return nil, "", nil
}

func (s *stubAuthUsecase) ValidateToken(_ context.Context, _ string) (*repository.Claims, error) {
	return s.claims, s.err
}

func (s *stubAuthUsecase) GetUserByID(context.Context, primitive.ObjectID) (*model.User, error) {
	return nil, nil
}

func (s *stubAuthUsecase) UpdateProfile(context.Context, primitive.ObjectID, usecase.UpdateProfileRequest) (*model.User, error) {
	return nil, nil
}

func (s *stubAuthUsecase) ChangePassword(context.Context, primitive.ObjectID, usecase.ChangePasswordRequest) error {
	return nil
}

func (s *stubAuthUsecase) RequestPasswordReset(context.Context, string) error { return nil }

func (s *stubAuthUsecase) ValidateOTP(context.Context, string, string) error { return nil }

func (s *stubAuthUsecase) ResetPasswordWithOTP(context.Context, usecase.ResetPasswordRequest) error {
	return nil
}

func (s *stubAuthUsecase) ListUsers(context.Context, model.Role) ([]model.User, error) {
	return nil, nil
}

func (s *stubAuthUsecase) DeleteUser(context.Context, primitive.ObjectID) error { return nil }

func protectedApp(uc usecase.AuthUsecaseInterface) *fiber.App {
	mw := authhttp.NewAuthMiddleware(uc, "session_token")
	app := fiber.New()
	app.Get("/me", mw.Protect(), func(c *fiber.Ctx) error {
		userID, err := utils.GetUserIDFromContext(c.UserContext())
		if err != nil {
			return c.SendStatus(fiber.StatusInternalServerError)
		}
		return c.JSON(fiber.Map{"userId": userID})
	})
	app.Get("/admin", mw.Protect(), mw.RequireRole("admin"), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func validClaims(role string) *repository.Claims {
	return &repository.Claims{
		UserID: primitive.NewObjectID().Hex(),
		Email:  "ana@example.com",
		Role:   role,
	}
}

func TestProtectRejectsMissingToken(t *testing.T) {
	app := protectedApp(&stubAuthUsecase{claims: validClaims("buyer")})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/me", nil))

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestProtectRejectsInvalidToken(t *testing.T) {
	app := protectedApp(&stubAuthUsecase{err: assert.AnError})

	req := httptest.NewRequest(fiber.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer bad-token")
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestProtectAcceptsBearerToken(t *testing.T) {
	app := protectedApp(&stubAuthUsecase{claims: validClaims("buyer")})

	req := httptest.NewRequest(fiber.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestProtectAcceptsCookieToken(t *testing.T) {
	app := protectedApp(&stubAuthUsecase{claims: validClaims("buyer")})

	req := httptest.NewRequest(fiber.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: "session_token", Value: "good-token"})
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRequireRoleAllowsMatchingRole(t *testing.T) {
	app := protectedApp(&stubAuthUsecase{claims: validClaims("admin")})

	req := httptest.NewRequest(fiber.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRequireRoleRejectsOtherRoles(t *testing.T) {
	app := protectedApp(&stubAuthUsecase{claims: validClaims("buyer")})

	req := httptest.NewRequest(fiber.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}
