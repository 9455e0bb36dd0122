package usecase

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"strings"
	"time"

	"estatehub/internal/auth/config"
	"estatehub/internal/auth/domain/model"
	"estatehub/internal/auth/domain/repository"
	"estatehub/internal/shared/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidEmailFormat = errors.New("invalid email format")
	ErrTokenInvalid       = errors.New("token is invalid")
	ErrWeakPassword       = errors.New("password does not meet strength requirements")
)

// Password validation constants
const (
	minPasswordLength = 8
	maxPasswordLength = 128
)

const otpLength = 6

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// AuthUsecaseInterface defines the contract for authentication use cases.
type AuthUsecaseInterface interface {
	Register(ctx context.Context, req RegisterRequest) (*model.User, string, error)
	Login(ctx context.Context, req LoginRequest) (*model.User, string, error)
	ValidateToken(ctx context.Context, tokenString string) (*repository.Claims, error)
	GetUserByID(ctx context.Context, userID primitive.ObjectID) (*model.User, error)
	UpdateProfile(ctx context.Context, userID primitive.ObjectID, req UpdateProfileRequest) (*model.User, error)
	ChangePassword(ctx context.Context, userID primitive.ObjectID, req ChangePasswordRequest) error
	RequestPasswordReset(ctx context.Context, email string) error
	ValidateOTP(ctx context.Context, email, code string) error
	ResetPasswordWithOTP(ctx context.Context, req ResetPasswordRequest) error
	ListUsers(ctx context.Context, role model.Role) ([]model.User, error)
	DeleteUser(ctx context.Context, userID primitive.ObjectID) error
}

// RegisterRequest represents the registration request
type RegisterRequest struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"required"`
	Phone    string `json:"phone,omitempty"`
}

// LoginRequest represents the login request. ExpectedRole pins the login
// surface: a broker credential presented on the buyer endpoint is refused.
type LoginRequest struct {
	Email        string     `json:"email" validate:"required,email"`
	Password     string     `json:"password" validate:"required"`
	ExpectedRole model.Role `json:"-"`
}

// UpdateProfileRequest carries optional profile mutations.
type UpdateProfileRequest struct {
	Username *string `json:"username,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	Image    *string `json:"image,omitempty"`
}

// ChangePasswordRequest carries an authenticated password change.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8"`
}

// ResetPasswordRequest completes the OTP reset flow.
type ResetPasswordRequest struct {
	Email           string `json:"email" validate:"required,email"`
	OTP             string `json:"otp" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8"`
	ConfirmPassword string `json:"confirmPassword" validate:"required"`
}

// AuthUsecase implements the authentication logic.
type AuthUsecase struct {
	users     repository.UserRepository
	tokenSvc  repository.TokenService
	otpSender repository.OTPSender
	config    *config.Config
	log       logger.Logger
	now       func() time.Time
}

// NewAuthUsecase creates a new instance of AuthUsecase.
func NewAuthUsecase(
	users repository.UserRepository,
	tokenSvc repository.TokenService,
	otpSender repository.OTPSender,
	cfg *config.Config,
	log logger.Logger,
) *AuthUsecase {
	return &AuthUsecase{
		users:     users,
		tokenSvc:  tokenSvc,
		otpSender: otpSender,
		config:    cfg,
		log:       log,
		now:       time.Now,
	}
}

// WithClock overrides the time source. Used by tests to pin OTP expiry.
func (uc *AuthUsecase) WithClock(now func() time.Time) *AuthUsecase {
	uc.now = now
	return uc
}

func (uc *AuthUsecase) validateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email is required")
	}
	if !emailRegex.MatchString(email) {
		return ErrInvalidEmailFormat
	}
	return nil
}

func (uc *AuthUsecase) validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}
	if len(password) > maxPasswordLength {
		return fmt.Errorf("password must be at most %d characters", maxPasswordLength)
	}
	return nil
}

// Register creates a new account.
func (uc *AuthUsecase) Register(ctx context.Context, req RegisterRequest) (*model.User, string, error) {
	if err := uc.validateEmail(req.Email); err != nil {
		return nil, "", err
	}
	if err := uc.validatePassword(req.Password); err != nil {
		return nil, "", err
	}
	if strings.TrimSpace(req.Username) == "" {
		return nil, "", fmt.Errorf("username is required")
	}
	role := model.Role(req.Role)
	if !model.ValidRole(role) {
		return nil, "", fmt.Errorf("invalid role: %s", req.Role)
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	existing, err := uc.users.GetUserByEmail(ctx, email)
	if err != nil && !errors.Is(err, model.ErrUserNotFound) {
		return nil, "", fmt.Errorf("failed to check existing email: %w", err)
	}
	if existing != nil {
		return nil, "", model.ErrEmailTaken
	}

	existing, err = uc.users.GetUserByUsername(ctx, strings.TrimSpace(req.Username))
	if err != nil && !errors.Is(err, model.ErrUserNotFound) {
		return nil, "", fmt.Errorf("failed to check existing username: %w", err)
	}
	if existing != nil {
		return nil, "", model.ErrUsernameTaken
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:           primitive.NewObjectID(),
		Username:     strings.TrimSpace(req.Username),
		Email:        email,
		PasswordHash: string(hashedPassword),
		Role:         role,
		Phone:        strings.TrimSpace(req.Phone),
		Favourites:   []model.Favourite{},
		CreatedAt:    uc.now(),
		UpdatedAt:    uc.now(),
	}

	if err := user.ValidateFields(); err != nil {
		return nil, "", err
	}

	if err := uc.users.CreateUser(ctx, user); err != nil {
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	token, err := uc.tokenSvc.GenerateToken(ctx, user.ID.Hex(), user.Email, string(user.Role))
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	user.PasswordHash = ""
	return user, token, nil
}

// Login authenticates a user and issues a token.
func (uc *AuthUsecase) Login(ctx context.Context, req LoginRequest) (*model.User, string, error) {
	if err := uc.validateEmail(req.Email); err != nil {
		return nil, "", err
	}

	user, err := uc.users.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return nil, "", model.ErrInvalidPassword
		}
		return nil, "", fmt.Errorf("failed to get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, "", model.ErrInvalidPassword
	}

	if req.ExpectedRole != "" && user.Role != req.ExpectedRole {
		return nil, "", model.ErrRoleMismatch
	}

	token, err := uc.tokenSvc.GenerateToken(ctx, user.ID.Hex(), user.Email, string(user.Role))
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	user.PasswordHash = ""
	return user, token, nil
}

// ValidateToken validates a JWT string
func (uc *AuthUsecase) ValidateToken(ctx context.Context, tokenString string) (*repository.Claims, error) {
	claims, err := uc.tokenSvc.ValidateToken(ctx, tokenString)
	if err != nil {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// GetUserByID retrieves a user by ID.
func (uc *AuthUsecase) GetUserByID(ctx context.Context, userID primitive.ObjectID) (*model.User, error) {
	user, err := uc.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, model.ErrUserNotFound
	}
	user.PasswordHash = ""
	return user, nil
}

// UpdateProfile applies partial profile changes.
func (uc *AuthUsecase) UpdateProfile(ctx context.Context, userID primitive.ObjectID, req UpdateProfileRequest) (*model.User, error) {
	user, err := uc.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, model.ErrUserNotFound
	}

	if req.Username != nil && strings.TrimSpace(*req.Username) != user.Username {
		username := strings.TrimSpace(*req.Username)
		if username == "" {
			return nil, fmt.Errorf("username cannot be empty")
		}
		existing, err := uc.users.GetUserByUsername(ctx, username)
		if err != nil && !errors.Is(err, model.ErrUserNotFound) {
			return nil, fmt.Errorf("failed to check username: %w", err)
		}
		if existing != nil && existing.ID != user.ID {
			return nil, model.ErrUsernameTaken
		}
		user.Username = username
	}
	if req.Phone != nil {
		user.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Image != nil {
		user.Image = *req.Image
	}
	user.UpdatedAt = uc.now()

	if err := uc.users.UpdateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	user.PasswordHash = ""
	return user, nil
}

// ChangePassword replaces the password after verifying the current one.
func (uc *AuthUsecase) ChangePassword(ctx context.Context, userID primitive.ObjectID, req ChangePasswordRequest) error {
	if err := uc.validatePassword(req.NewPassword); err != nil {
		return err
	}

	user, err := uc.users.GetUserByID(ctx, userID)
	if err != nil {
		return model.ErrUserNotFound
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return model.ErrInvalidPassword
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.PasswordHash = string(hashed)
	user.UpdatedAt = uc.now()

	if err := uc.users.UpdateUser(ctx, user); err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

// RequestPasswordReset stores a fresh OTP on the account and hands it to
// the sender. An unknown email returns ErrUserNotFound; callers decide
// whether to surface that or answer generically.
func (uc *AuthUsecase) RequestPasswordReset(ctx context.Context, email string) error {
	if err := uc.validateEmail(email); err != nil {
		return err
	}

	user, err := uc.users.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return model.ErrUserNotFound
	}

	code, err := generateOTP()
	if err != nil {
		return fmt.Errorf("failed to generate otp: %w", err)
	}

	expiry := uc.now().Add(uc.config.OTPTTL)
	user.OTP = code
	user.OTPExpiry = &expiry
	user.UpdatedAt = uc.now()

	if err := uc.users.UpdateUser(ctx, user); err != nil {
		return fmt.Errorf("failed to store otp: %w", err)
	}

	if err := uc.otpSender.SendOTP(ctx, user.Email, code); err != nil {
		uc.log.WithFields(map[string]interface{}{
			"email": user.Email,
			"error": err.Error(),
		}).Error("Failed to deliver OTP")
		return fmt.Errorf("failed to send otp: %w", err)
	}
	return nil
}

// ValidateOTP checks a submitted code without consuming it. Expired codes
// are cleared from the account.
func (uc *AuthUsecase) ValidateOTP(ctx context.Context, email, code string) error {
	user, err := uc.users.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return model.ErrUserNotFound
	}
	return uc.checkOTP(ctx, user, code)
}

// ResetPasswordWithOTP consumes a valid OTP and replaces the password.
func (uc *AuthUsecase) ResetPasswordWithOTP(ctx context.Context, req ResetPasswordRequest) error {
	if req.NewPassword != req.ConfirmPassword {
		return model.ErrPasswordMismatch
	}
	if err := uc.validatePassword(req.NewPassword); err != nil {
		return err
	}

	user, err := uc.users.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		return model.ErrUserNotFound
	}

	if err := uc.checkOTP(ctx, user, req.OTP); err != nil {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.PasswordHash = string(hashed)
	user.OTP = ""
	user.OTPExpiry = nil
	user.UpdatedAt = uc.now()

	if err := uc.users.UpdateUser(ctx, user); err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

// ListUsers returns accounts, optionally filtered by role. Admin surface.
func (uc *AuthUsecase) ListUsers(ctx context.Context, role model.Role) ([]model.User, error) {
	if role != "" && !model.ValidRole(role) {
		return nil, fmt.Errorf("invalid role: %s", role)
	}
	users, err := uc.users.ListUsers(ctx, role)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	for i := range users {
		users[i].PasswordHash = ""
	}
	return users, nil
}

// DeleteUser removes an account. Admin surface.
func (uc *AuthUsecase) DeleteUser(ctx context.Context, userID primitive.ObjectID) error {
	if _, err := uc.users.GetUserByID(ctx, userID); err != nil {
		return model.ErrUserNotFound
	}
	if err := uc.users.DeleteUser(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

func (uc *AuthUsecase) checkOTP(ctx context.Context, user *model.User, code string) error {
	if user.OTP == "" || user.OTPExpiry == nil {
		return model.ErrOTPNotRequested
	}
	if uc.now().After(*user.OTPExpiry) {
		user.OTP = ""
		user.OTPExpiry = nil
		if err := uc.users.UpdateUser(ctx, user); err != nil {
			uc.log.WithFields(map[string]interface{}{
				"email": user.Email,
				"error": err.Error(),
			}).Warn("Failed to clear expired OTP")
		}
		return model.ErrOTPExpired
	}
	if user.OTP != code {
		return model.ErrOTPInvalid
	}
	return nil
}

// generateOTP builds a zero-padded numeric code from crypto/rand.
func generateOTP() (string, error) {
	max := big.NewInt(1)
	for i := 0; i < otpLength; i++ {
		max.Mul(max, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", otpLength, n), nil
}

// Ensure AuthUsecase implements AuthUsecaseInterface
var _ AuthUsecaseInterface = (*AuthUsecase)(nil)
