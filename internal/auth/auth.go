package auth

import (
	"fmt"

	authhttp "estatehub/internal/auth/adapter/http"
	"estatehub/internal/auth/adapter/notification"
	"estatehub/internal/auth/adapter/persistence/mongodb"
	"estatehub/internal/auth/adapter/security"
	"estatehub/internal/auth/config"
	"estatehub/internal/auth/domain/repository"
	"estatehub/internal/auth/usecase"
	"estatehub/internal/shared/logger"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/mongo"
)

const authCookieName = "estatehub_token"

// AuthModule represents the complete authentication module
type AuthModule struct {
	repository repository.UserRepository
	tokenSvc   repository.TokenService
	usecase    usecase.AuthUsecaseInterface
	handler    *authhttp.AuthHTTPHandler
	middleware *authhttp.AuthMiddleware
	config     *config.Config
}

// NewAuthModule creates a new authentication module instance. otpSender may
// be nil; reset codes then go to the application log.
func NewAuthModule(db *mongo.Database, cfg *config.Config, otpSender repository.OTPSender, log logger.Logger) (*AuthModule, error) {
	userRepo, err := mongodb.NewMongoUserRepository(db)
	if err != nil {
		return nil, fmt.Errorf("failed to create user repository: %w", err)
	}

	tokenSvc, err := security.NewJWTokenService(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create token service: %w", err)
	}

	if otpSender == nil {
		otpSender = notification.NewLogOTPSender(log)
	}

	authUsecase := usecase.NewAuthUsecase(userRepo, tokenSvc, otpSender, cfg, log.WithComponent("auth"))

	handler := authhttp.NewAuthHTTPHandler(
		authUsecase,
		authCookieName,
		int(cfg.AccessTokenTTL.Seconds()),
		false,
	)

	return &AuthModule{
		repository: userRepo,
		tokenSvc:   tokenSvc,
		usecase:    authUsecase,
		handler:    handler,
		middleware: authhttp.NewAuthMiddleware(authUsecase, authCookieName),
		config:     cfg,
	}, nil
}

// RegisterRoutes registers authentication routes with the provided router
func (am *AuthModule) RegisterRoutes(router fiber.Router) {
	am.handler.SetupAuthRoutesWithMiddleware(router, am.middleware)
}

// GetUsecase returns the auth usecase for external access
func (am *AuthModule) GetUsecase() usecase.AuthUsecaseInterface {
	return am.usecase
}

// GetMiddleware returns the auth middleware. It satisfies the guard
// interface the marketplace routers take.
func (am *AuthModule) GetMiddleware() *authhttp.AuthMiddleware {
	return am.middleware
}

// Stop performs cleanup when the module is shut down
func (am *AuthModule) Stop() error {
	return nil
}
