package di

import (
	"context"
	"fmt"
	"sync"
	"time"

	"estatehub/internal/auth"
	authconfig "estatehub/internal/auth/config"
	"estatehub/internal/marketplace"
	"estatehub/internal/marketplace/adapter/persistence"
	marketplaceconfig "estatehub/internal/marketplace/config"
	marketplacerepo "estatehub/internal/marketplace/domain/repository"
	"estatehub/internal/shared/eventbus"
	"estatehub/internal/shared/logger"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

// Container wires the modules together with proper lifecycle management
type Container struct {
	mu sync.RWMutex

	AuthModule        *auth.AuthModule
	MarketplaceModule *marketplace.MarketplaceModule

	MongoDB     *mongo.Database
	RedisClient *redis.Client
	EventBus    *eventbus.EventBus

	AuthConfig        *authconfig.Config
	MarketplaceConfig *marketplaceconfig.Config

	Logger logger.Logger
}

// NewContainer creates a new DI container
func NewContainer(log logger.Logger) *Container {
	if log == nil {
		log = logger.NewLogger()
	}
	return &Container{
		Logger:   log,
		EventBus: eventbus.NewEventBus(log),
	}
}

// InitializeAuth initializes the authentication module
func (c *Container) InitializeAuth(mongoDB *mongo.Database, cfg *authconfig.Config) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.MongoDB = mongoDB
	c.AuthConfig = cfg

	authModule, err := auth.NewAuthModule(mongoDB, cfg, nil, c.Logger)
	if err != nil {
		return fmt.Errorf("failed to create auth module: %w", err)
	}

	c.AuthModule = authModule
	return nil
}

// InitializeMarketplace initializes the marketplace module. Requires auth to
// be initialized first so routes can be guarded.
func (c *Container) InitializeMarketplace(cfg *marketplaceconfig.Config) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.AuthModule == nil {
		return fmt.Errorf("auth module must be initialized before marketplace module")
	}
	if c.MongoDB == nil {
		return fmt.Errorf("MongoDB must be initialized before marketplace module")
	}

	c.MarketplaceConfig = cfg

	var propertyIndex marketplacerepo.PropertyIndex
	if cfg.RedisEnabled() {
		c.RedisClient = marketplaceconfig.NewRedisClient(cfg)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := c.RedisClient.Ping(ctx).Err(); err != nil {
			c.Logger.Warnf("Redis unavailable, property resolution will not be cached: %v", err)
			c.RedisClient.Close()
			c.RedisClient = nil
		} else {
			propertyIndex = persistence.NewRedisPropertyIndex(c.RedisClient, c.Logger)
		}
	}

	marketplaceModule, err := marketplace.NewMarketplaceModule(c.MongoDB, cfg, c.EventBus, propertyIndex, c.Logger)
	if err != nil {
		return fmt.Errorf("failed to create marketplace module: %w", err)
	}

	c.MarketplaceModule = marketplaceModule
	return nil
}

// GetAuthModule returns the auth module instance
func (c *Container) GetAuthModule() *auth.AuthModule {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.AuthModule
}

// GetMarketplaceModule returns the marketplace module instance
func (c *Container) GetMarketplaceModule() *marketplace.MarketplaceModule {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.MarketplaceModule
}

// HealthCheck verifies the backing services are reachable
func (c *Container) HealthCheck(ctx context.Context) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.MongoDB != nil {
		if err := c.MongoDB.Client().Ping(ctx, nil); err != nil {
			return fmt.Errorf("MongoDB health check failed: %w", err)
		}
	}
	if c.RedisClient != nil {
		if err := c.RedisClient.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("Redis health check failed: %w", err)
		}
	}
	return nil
}

// Close shuts down the modules in reverse order of initialization
func (c *Container) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.MarketplaceModule != nil {
		c.MarketplaceModule = nil
	}
	if c.AuthModule != nil {
		c.AuthModule.Stop()
		c.AuthModule = nil
	}
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			c.Logger.Errorf("Failed to close Redis client: %v", err)
		}
		c.RedisClient = nil
	}
	return nil
}
