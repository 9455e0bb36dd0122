package usecase_test

import (
	"context"
	"testing"
	"time"

	"estatehub/internal/auth/config"
	"estatehub/internal/auth/domain/model"
	"estatehub/internal/auth/domain/repository"
	"estatehub/internal/auth/usecase"
	"estatehub/internal/shared/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

// Mock repository
type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) CreateUser(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserRepository) UpdateUser(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserRepository) DeleteUser(ctx context.Context, id primitive.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockUserRepository) GetUserByID(ctx context.Context, id primitive.ObjectID) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *mockUserRepository) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *mockUserRepository) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *mockUserRepository) ListUsers(ctx context.Context, role model.Role) ([]model.User, error) {
	args := m.Called(ctx, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

// Mock token service
type mockTokenService struct {
	mock.Mock
}

func (m *mockTokenService) GenerateToken(ctx context.Context, userID, email, role string) (string, error) {
	args := m.Called(ctx, userID, email, role)
	return args.String(0), args.Error(1)
}

func (m *mockTokenService) ValidateToken(ctx context.Context, tokenString string) (*repository.Claims, error) {
	args := m.Called(ctx, tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.Claims), args.Error(1)
}

// Mock OTP sender
type mockOTPSender struct {
	mock.Mock
}

func (m *mockOTPSender) SendOTP(ctx context.Context, email, code string) error {
	args := m.Called(ctx, email, code)
	return args.Error(0)
}

type AuthUsecaseTestSuite struct {
	suite.Suite
	mockRepo   *mockUserRepository
	mockToken  *mockTokenService
	mockSender *mockOTPSender
	usecase    *usecase.AuthUsecase
	config     *config.Config
	clock      time.Time
}

func (suite *AuthUsecaseTestSuite) SetupTest() {
	suite.mockRepo = &mockUserRepository{}
	suite.mockToken = &mockTokenService{}
	suite.mockSender = &mockOTPSender{}
	suite.config = &config.Config{
		JWTSecretKey:   "test-secret-key",
		JWTIssuer:      "test-issuer",
		AccessTokenTTL: 15 * time.Minute,
		OTPTTL:         10 * time.Minute,
	}
	suite.clock = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	suite.usecase = usecase.NewAuthUsecase(suite.mockRepo, suite.mockToken, suite.mockSender, suite.config, logger.NewLogger()).
		WithClock(func() time.Time { return suite.clock })
}

func (suite *AuthUsecaseTestSuite) storedUser(password string) *model.User {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(suite.T(), err)
	return &model.User{
		ID:           primitive.NewObjectID(),
		Username:     "ahmed",
		Email:        "ahmed@example.com",
		PasswordHash: string(hash),
		Role:         model.RoleBuyer,
	}
}

func (suite *AuthUsecaseTestSuite) TestRegister_Success() {
	ctx := context.Background()
	req := usecase.RegisterRequest{
		Username: "ahmed",
		Email:    "Ahmed@Example.com",
		Password: "password123",
		Role:     "buyer",
	}

	suite.mockRepo.On("GetUserByEmail", ctx, "ahmed@example.com").Return(nil, model.ErrUserNotFound)
	suite.mockRepo.On("GetUserByUsername", ctx, "ahmed").Return(nil, model.ErrUserNotFound)
	suite.mockRepo.On("CreateUser", ctx, mock.AnythingOfType("*model.User")).Return(nil)
	suite.mockToken.On("GenerateToken", ctx, mock.AnythingOfType("string"), "ahmed@example.com", "buyer").Return("jwt-token", nil)

	user, token, err := suite.usecase.Register(ctx, req)

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "jwt-token", token)
	assert.Equal(suite.T(), "ahmed@example.com", user.Email)
	assert.Equal(suite.T(), model.RoleBuyer, user.Role)
	assert.Empty(suite.T(), user.PasswordHash)
	assert.NotNil(suite.T(), user.Favourites)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AuthUsecaseTestSuite) TestRegister_EmailTaken() {
	ctx := context.Background()
	existing := suite.storedUser("whatever1")
	suite.mockRepo.On("GetUserByEmail", ctx, "ahmed@example.com").Return(existing, nil)

	_, _, err := suite.usecase.Register(ctx, usecase.RegisterRequest{
		Username: "someone",
		Email:    "ahmed@example.com",
		Password: "password123",
		Role:     "buyer",
	})

	assert.ErrorIs(suite.T(), err, model.ErrEmailTaken)
}

func (suite *AuthUsecaseTestSuite) TestRegister_UsernameTaken() {
	ctx := context.Background()
	existing := suite.storedUser("whatever1")
	suite.mockRepo.On("GetUserByEmail", ctx, "new@example.com").Return(nil, model.ErrUserNotFound)
	suite.mockRepo.On("GetUserByUsername", ctx, "ahmed").Return(existing, nil)

	_, _, err := suite.usecase.Register(ctx, usecase.RegisterRequest{
		Username: "ahmed",
		Email:    "new@example.com",
		Password: "password123",
		Role:     "buyer",
	})

	assert.ErrorIs(suite.T(), err, model.ErrUsernameTaken)
}

func (suite *AuthUsecaseTestSuite) TestRegister_InvalidRole() {
	_, _, err := suite.usecase.Register(context.Background(), usecase.RegisterRequest{
		Username: "ahmed",
		Email:    "ahmed@example.com",
		Password: "password123",
		Role:     "superuser",
	})
	require.Error(suite.T(), err)
	suite.mockRepo.AssertNotCalled(suite.T(), "CreateUser", mock.Anything, mock.Anything)
}

func (suite *AuthUsecaseTestSuite) TestRegister_ShortPassword() {
	_, _, err := suite.usecase.Register(context.Background(), usecase.RegisterRequest{
		Username: "ahmed",
		Email:    "ahmed@example.com",
		Password: "short",
		Role:     "buyer",
	})
	require.Error(suite.T(), err)
}

func (suite *AuthUsecaseTestSuite) TestLogin_Success() {
	ctx := context.Background()
	user := suite.storedUser("password123")
	suite.mockRepo.On("GetUserByEmail", ctx, user.Email).Return(user, nil)
	suite.mockToken.On("GenerateToken", ctx, user.ID.Hex(), user.Email, "buyer").Return("jwt-token", nil)

	got, token, err := suite.usecase.Login(ctx, usecase.LoginRequest{
		Email:    user.Email,
		Password: "password123",
	})

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "jwt-token", token)
	assert.Empty(suite.T(), got.PasswordHash)
}

func (suite *AuthUsecaseTestSuite) TestLogin_WrongPassword() {
	ctx := context.Background()
	user := suite.storedUser("password123")
	suite.mockRepo.On("GetUserByEmail", ctx, user.Email).Return(user, nil)

	_, _, err := suite.usecase.Login(ctx, usecase.LoginRequest{
		Email:    user.Email,
		Password: "wrong-password",
	})

	assert.ErrorIs(suite.T(), err, model.ErrInvalidPassword)
}

func (suite *AuthUsecaseTestSuite) TestLogin_UnknownEmailMapsToInvalidPassword() {
	ctx := context.Background()
	suite.mockRepo.On("GetUserByEmail", ctx, "ghost@example.com").Return(nil, model.ErrUserNotFound)

	_, _, err := suite.usecase.Login(ctx, usecase.LoginRequest{
		Email:    "ghost@example.com",
		Password: "password123",
	})

	assert.ErrorIs(suite.T(), err, model.ErrInvalidPassword)
}

func (suite *AuthUsecaseTestSuite) TestLogin_RoleMismatch() {
	ctx := context.Background()
	user := suite.storedUser("password123")
	suite.mockRepo.On("GetUserByEmail", ctx, user.Email).Return(user, nil)

	_, _, err := suite.usecase.Login(ctx, usecase.LoginRequest{
		Email:        user.Email,
		Password:     "password123",
		ExpectedRole: model.RoleBroker,
	})

	assert.ErrorIs(suite.T(), err, model.ErrRoleMismatch)
	suite.mockToken.AssertNotCalled(suite.T(), "GenerateToken", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AuthUsecaseTestSuite) TestRequestPasswordReset_StoresOTPAndSends() {
	ctx := context.Background()
	user := suite.storedUser("password123")
	suite.mockRepo.On("GetUserByEmail", ctx, user.Email).Return(user, nil)
	suite.mockRepo.On("UpdateUser", ctx, mock.AnythingOfType("*model.User")).Return(nil)
	suite.mockSender.On("SendOTP", ctx, user.Email, mock.AnythingOfType("string")).Return(nil)

	err := suite.usecase.RequestPasswordReset(ctx, user.Email)

	require.NoError(suite.T(), err)
	assert.Len(suite.T(), user.OTP, 6)
	require.NotNil(suite.T(), user.OTPExpiry)
	assert.True(suite.T(), user.OTPExpiry.Equal(suite.clock.Add(suite.config.OTPTTL)))
	suite.mockSender.AssertExpectations(suite.T())
}

func (suite *AuthUsecaseTestSuite) TestValidateOTP_Success() {
	ctx := context.Background()
	user := suite.storedUser("password123")
	expiry := suite.clock.Add(5 * time.Minute)
	user.OTP = "123456"
	user.OTPExpiry = &expiry
	suite.mockRepo.On("GetUserByEmail", ctx, user.Email).Return(user, nil)

	assert.NoError(suite.T(), suite.usecase.ValidateOTP(ctx, user.Email, "123456"))
}

func (suite *AuthUsecaseTestSuite) TestValidateOTP_WrongCode() {
	ctx := context.Background()
	user := suite.storedUser("password123")
	expiry := suite.clock.Add(5 * time.Minute)
	user.OTP = "123456"
	user.OTPExpiry = &expiry
	suite.mockRepo.On("GetUserByEmail", ctx, user.Email).Return(user, nil)

	err := suite.usecase.ValidateOTP(ctx, user.Email, "654321")
	assert.ErrorIs(suite.T(), err, model.ErrOTPInvalid)
}

func (suite *AuthUsecaseTestSuite) TestValidateOTP_ExpiredClearsCode() {
	ctx := context.Background()
	user := suite.storedUser("password123")
	expiry := suite.clock.Add(-time.Minute)
	user.OTP = "123456"
	user.OTPExpiry = &expiry
	suite.mockRepo.On("GetUserByEmail", ctx, user.Email).Return(user, nil)
	suite.mockRepo.On("UpdateUser", ctx, mock.AnythingOfType("*model.User")).Return(nil)

	err := suite.usecase.ValidateOTP(ctx, user.Email, "123456")

	assert.ErrorIs(suite.T(), err, model.ErrOTPExpired)
	assert.Empty(suite.T(), user.OTP)
	assert.Nil(suite.T(), user.OTPExpiry)
}

func (suite *AuthUsecaseTestSuite) TestValidateOTP_NeverRequested() {
	ctx := context.Background()
	user := suite.storedUser("password123")
	suite.mockRepo.On("GetUserByEmail", ctx, user.Email).Return(user, nil)

	err := suite.usecase.ValidateOTP(ctx, user.Email, "123456")
	assert.ErrorIs(suite.T(), err, model.ErrOTPNotRequested)
}

func (suite *AuthUsecaseTestSuite) TestResetPasswordWithOTP_Success() {
	ctx := context.Background()
	user := suite.storedUser("password123")
	expiry := suite.clock.Add(5 * time.Minute)
	user.OTP = "123456"
	user.OTPExpiry = &expiry
	suite.mockRepo.On("GetUserByEmail", ctx, user.Email).Return(user, nil)
	suite.mockRepo.On("UpdateUser", ctx, mock.AnythingOfType("*model.User")).Return(nil)

	err := suite.usecase.ResetPasswordWithOTP(ctx, usecase.ResetPasswordRequest{
		Email:           user.Email,
		OTP:             "123456",
		NewPassword:     "new-password-9",
		ConfirmPassword: "new-password-9",
	})

	require.NoError(suite.T(), err)
	assert.Empty(suite.T(), user.OTP)
	assert.Nil(suite.T(), user.OTPExpiry)
	assert.NoError(suite.T(), bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("new-password-9")))
}

func (suite *AuthUsecaseTestSuite) TestResetPasswordWithOTP_Mismatch() {
	err := suite.usecase.ResetPasswordWithOTP(context.Background(), usecase.ResetPasswordRequest{
		Email:           "ahmed@example.com",
		OTP:             "123456",
		NewPassword:     "new-password-9",
		ConfirmPassword: "different",
	})
	assert.ErrorIs(suite.T(), err, model.ErrPasswordMismatch)
}

func (suite *AuthUsecaseTestSuite) TestChangePassword_WrongCurrent() {
	ctx := context.Background()
	user := suite.storedUser("password123")
	suite.mockRepo.On("GetUserByID", ctx, user.ID).Return(user, nil)

	err := suite.usecase.ChangePassword(ctx, user.ID, usecase.ChangePasswordRequest{
		CurrentPassword: "wrong",
		NewPassword:     "new-password-9",
	})

	assert.ErrorIs(suite.T(), err, model.ErrInvalidPassword)
	suite.mockRepo.AssertNotCalled(suite.T(), "UpdateUser", mock.Anything, mock.Anything)
}

func (suite *AuthUsecaseTestSuite) TestListUsers_StripsPasswordHashes() {
	ctx := context.Background()
	users := []model.User{*suite.storedUser("password123")}
	suite.mockRepo.On("ListUsers", ctx, model.RoleBuyer).Return(users, nil)

	got, err := suite.usecase.ListUsers(ctx, model.RoleBuyer)

	require.NoError(suite.T(), err)
	require.Len(suite.T(), got, 1)
	assert.Empty(suite.T(), got[0].PasswordHash)
}

func (suite *AuthUsecaseTestSuite) TestListUsers_InvalidRole() {
	_, err := suite.usecase.ListUsers(context.Background(), model.Role("bot"))
	require.Error(suite.T(), err)
}

func (suite *AuthUsecaseTestSuite) TestDeleteUser_NotFound() {
	ctx := context.Background()
	id := primitive.NewObjectID()
	suite.mockRepo.On("GetUserByID", ctx, id).Return(nil, model.ErrUserNotFound)

	err := suite.usecase.DeleteUser(ctx, id)
	assert.ErrorIs(suite.T(), err, model.ErrUserNotFound)
}

func TestAuthUsecaseTestSuite(t *testing.T) {
	suite.Run(t, new(AuthUsecaseTestSuite))
}
