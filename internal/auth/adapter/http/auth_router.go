package http

import (
	"errors"
	"time"

	"estatehub/internal/auth/domain/model"
	"estatehub/internal/auth/usecase"
	"estatehub/internal/shared/utils"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AuthHTTPHandler handles HTTP requests for authentication
type AuthHTTPHandler struct {
	usecase      usecase.AuthUsecaseInterface
	cookieName   string
	cookieMaxAge int
	cookieSecure bool
}

// NewAuthHTTPHandler creates a new authentication HTTP handler
func NewAuthHTTPHandler(uc usecase.AuthUsecaseInterface, cookieName string, cookieMaxAge int, cookieSecure bool) *AuthHTTPHandler {
	return &AuthHTTPHandler{
		usecase:      uc,
		cookieName:   cookieName,
		cookieMaxAge: cookieMaxAge,
		cookieSecure: cookieSecure,
	}
}

// SetupAuthRoutesWithMiddleware sets up authentication routes with middleware
func (h *AuthHTTPHandler) SetupAuthRoutesWithMiddleware(router fiber.Router, middleware *AuthMiddleware) {
	// Public routes (no authentication required)
	router.Post("/register", h.Register)
	router.Post("/login", h.Login)
	router.Post("/login/buyer", h.loginAs(model.RoleBuyer))
	router.Post("/login/broker", h.loginAs(model.RoleBroker))
	router.Post("/login/admin", h.loginAs(model.RoleAdmin))
	router.Post("/forgot-password", h.ForgotPassword)
	router.Post("/validate-otp", h.ValidateOTP)
	router.Post("/reset-password", h.ResetPassword)

	// Protected routes (authentication required)
	protected := router.Group("/", middleware.Protect())
	protected.Post("/logout", h.Logout)
	protected.Get("/me", h.GetCurrentUser)
	protected.Put("/me", h.UpdateCurrentUser)
	protected.Post("/change-password", h.ChangePassword)

	// Admin routes
	admin := router.Group("/admin", middleware.Protect(), middleware.RequireRole(string(model.RoleAdmin)))
	admin.Get("/users", h.ListUsers)
	admin.Get("/users/:userId", h.GetUser)
	admin.Delete("/users/:userId", h.DeleteUser)
}

// Register handles user registration
func (h *AuthHTTPHandler) Register(c *fiber.Ctx) error {
	var req usecase.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse("Invalid request body", fiber.StatusBadRequest))
	}

	user, token, err := h.usecase.Register(c.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrEmailTaken), errors.Is(err, model.ErrUsernameTaken):
			return c.Status(fiber.StatusConflict).JSON(errorResponse(err.Error(), fiber.StatusConflict))
		default:
			return c.Status(fiber.StatusBadRequest).JSON(errorResponse(err.Error(), fiber.StatusBadRequest))
		}
	}

	h.setCookie(c, token)
	return c.Status(fiber.StatusCreated).JSON(successResponse(fiber.Map{
		"user":  user,
		"token": token,
	}))
}

// Login handles user login without pinning a role
func (h *AuthHTTPHandler) Login(c *fiber.Ctx) error {
	return h.login(c, "")
}

// loginAs builds a login handler bound to one role surface
func (h *AuthHTTPHandler) loginAs(role model.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return h.login(c, role)
	}
}

func (h *AuthHTTPHandler) login(c *fiber.Ctx, role model.Role) error {
	var req usecase.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse("Invalid request body", fiber.StatusBadRequest))
	}
	req.ExpectedRole = role

	user, token, err := h.usecase.Login(c.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrInvalidPassword), errors.Is(err, model.ErrUserNotFound):
			return c.Status(fiber.StatusUnauthorized).JSON(errorResponse("Invalid email or password", fiber.StatusUnauthorized))
		case errors.Is(err, model.ErrRoleMismatch):
			return c.Status(fiber.StatusForbidden).JSON(errorResponse("Access denied for this account type", fiber.StatusForbidden))
		default:
			return c.Status(fiber.StatusBadRequest).JSON(errorResponse(err.Error(), fiber.StatusBadRequest))
		}
	}

	h.setCookie(c, token)
	return c.JSON(successResponse(fiber.Map{
		"user":  user,
		"token": token,
	}))
}

// Logout clears the auth cookie. Tokens stay valid until expiry.
func (h *AuthHTTPHandler) Logout(c *fiber.Ctx) error {
	h.clearCookie(c)
	return c.JSON(successResponse(fiber.Map{"message": "Logged out"}))
}

// ForgotPassword starts the OTP reset flow
func (h *AuthHTTPHandler) ForgotPassword(c *fiber.Ctx) error {
	var req struct {
		Email string `json:"email"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse("Invalid request body", fiber.StatusBadRequest))
	}

	if err := h.usecase.RequestPasswordReset(c.Context(), req.Email); err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			// Same answer as success so the endpoint cannot be used to
			// probe which emails have accounts.
			return c.JSON(successResponse(fiber.Map{"message": "If the account exists, a code has been sent"}))
		}
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse(err.Error(), fiber.StatusBadRequest))
	}
	return c.JSON(successResponse(fiber.Map{"message": "If the account exists, a code has been sent"}))
}

// ValidateOTP checks a reset code without consuming it
func (h *AuthHTTPHandler) ValidateOTP(c *fiber.Ctx) error {
	var req struct {
		Email string `json:"email"`
		OTP   string `json:"otp"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse("Invalid request body", fiber.StatusBadRequest))
	}

	if err := h.usecase.ValidateOTP(c.Context(), req.Email, req.OTP); err != nil {
		return h.respondOTPError(c, err)
	}
	return c.JSON(successResponse(fiber.Map{"message": "OTP is valid"}))
}

// ResetPassword completes the OTP reset flow
func (h *AuthHTTPHandler) ResetPassword(c *fiber.Ctx) error {
	var req usecase.ResetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse("Invalid request body", fiber.StatusBadRequest))
	}

	if err := h.usecase.ResetPasswordWithOTP(c.Context(), req); err != nil {
		if errors.Is(err, model.ErrPasswordMismatch) {
			return c.Status(fiber.StatusBadRequest).JSON(errorResponse(err.Error(), fiber.StatusBadRequest))
		}
		return h.respondOTPError(c, err)
	}
	return c.JSON(successResponse(fiber.Map{"message": "Password has been reset"}))
}

func (h *AuthHTTPHandler) respondOTPError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, model.ErrUserNotFound):
		return c.Status(fiber.StatusNotFound).JSON(errorResponse("User not found", fiber.StatusNotFound))
	case errors.Is(err, model.ErrOTPNotRequested), errors.Is(err, model.ErrOTPExpired), errors.Is(err, model.ErrOTPInvalid):
		return c.Status(fiber.StatusUnauthorized).JSON(errorResponse(err.Error(), fiber.StatusUnauthorized))
	default:
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse(err.Error(), fiber.StatusBadRequest))
	}
}

// GetCurrentUser returns the authenticated user's profile
func (h *AuthHTTPHandler) GetCurrentUser(c *fiber.Ctx) error {
	userID, err := h.currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(errorResponse("Authentication required", fiber.StatusUnauthorized))
	}

	user, err := h.usecase.GetUserByID(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(errorResponse("User not found", fiber.StatusNotFound))
	}
	return c.JSON(successResponse(user))
}

// UpdateCurrentUser applies profile changes for the authenticated user
func (h *AuthHTTPHandler) UpdateCurrentUser(c *fiber.Ctx) error {
	userID, err := h.currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(errorResponse("Authentication required", fiber.StatusUnauthorized))
	}

	var req usecase.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse("Invalid request body", fiber.StatusBadRequest))
	}

	user, err := h.usecase.UpdateProfile(c.Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrUserNotFound):
			return c.Status(fiber.StatusNotFound).JSON(errorResponse("User not found", fiber.StatusNotFound))
		case errors.Is(err, model.ErrUsernameTaken):
			return c.Status(fiber.StatusConflict).JSON(errorResponse(err.Error(), fiber.StatusConflict))
		default:
			return c.Status(fiber.StatusBadRequest).JSON(errorResponse(err.Error(), fiber.StatusBadRequest))
		}
	}
	return c.JSON(successResponse(user))
}

// ChangePassword replaces the authenticated user's password
func (h *AuthHTTPHandler) ChangePassword(c *fiber.Ctx) error {
	userID, err := h.currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(errorResponse("Authentication required", fiber.StatusUnauthorized))
	}

	var req usecase.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse("Invalid request body", fiber.StatusBadRequest))
	}

	if err := h.usecase.ChangePassword(c.Context(), userID, req); err != nil {
		switch {
		case errors.Is(err, model.ErrInvalidPassword):
			return c.Status(fiber.StatusUnauthorized).JSON(errorResponse("Current password is incorrect", fiber.StatusUnauthorized))
		case errors.Is(err, model.ErrUserNotFound):
			return c.Status(fiber.StatusNotFound).JSON(errorResponse("User not found", fiber.StatusNotFound))
		default:
			return c.Status(fiber.StatusBadRequest).JSON(errorResponse(err.Error(), fiber.StatusBadRequest))
		}
	}
	return c.JSON(successResponse(fiber.Map{"message": "Password changed"}))
}

// ListUsers returns accounts for the admin dashboard
func (h *AuthHTTPHandler) ListUsers(c *fiber.Ctx) error {
	role := model.Role(c.Query("role"))
	users, err := h.usecase.ListUsers(c.Context(), role)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse(err.Error(), fiber.StatusBadRequest))
	}
	return c.JSON(successResponse(users))
}

// GetUser returns one account by id
func (h *AuthHTTPHandler) GetUser(c *fiber.Ctx) error {
	userID, err := primitive.ObjectIDFromHex(c.Params("userId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse("Invalid user id", fiber.StatusBadRequest))
	}

	user, err := h.usecase.GetUserByID(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(errorResponse("User not found", fiber.StatusNotFound))
	}
	return c.JSON(successResponse(user))
}

// DeleteUser removes an account
func (h *AuthHTTPHandler) DeleteUser(c *fiber.Ctx) error {
	userID, err := primitive.ObjectIDFromHex(c.Params("userId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse("Invalid user id", fiber.StatusBadRequest))
	}

	if err := h.usecase.DeleteUser(c.Context(), userID); err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(errorResponse("User not found", fiber.StatusNotFound))
		}
		return c.Status(fiber.StatusInternalServerError).JSON(errorResponse("internal server error", fiber.StatusInternalServerError))
	}
	return c.JSON(successResponse(fiber.Map{"message": "User deleted"}))
}

func (h *AuthHTTPHandler) currentUserID(c *fiber.Ctx) (primitive.ObjectID, error) {
	idHex, err := utils.GetUserIDFromContext(c.UserContext())
	if err != nil {
		return primitive.NilObjectID, err
	}
	return primitive.ObjectIDFromHex(idHex)
}

func (h *AuthHTTPHandler) setCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     h.cookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   h.cookieMaxAge,
		Secure:   h.cookieSecure,
		HTTPOnly: true,
		SameSite: "Lax",
	})
}

func (h *AuthHTTPHandler) clearCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     h.cookieName,
		Value:    "",
		Path:     "/",
		Secure:   h.cookieSecure,
		HTTPOnly: true,
		SameSite: "Lax",
		Expires:  time.Now().Add(-1 * time.Hour),
	})
}
