package persistence

import (
	"context"
	"time"

	"estatehub/internal/shared/logger"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const (
	propertyKeyPrefix = "property_index:"
	projectSetPrefix  = "property_index:project:"
	defaultIndexTTL   = 12 * time.Hour
)

// RedisPropertyIndex caches propertyID -> projectID resolutions in Redis.
// Failures are logged and treated as misses; the index never becomes a
// source of truth.
type RedisPropertyIndex struct {
	client *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

// NewRedisPropertyIndex creates the index adapter.
func NewRedisPropertyIndex(client *redis.Client, log logger.Logger) *RedisPropertyIndex {
	return &RedisPropertyIndex{
		client: client,
		ttl:    defaultIndexTTL,
		logger: log,
	}
}

// Get returns the cached owning project id for a property.
func (r *RedisPropertyIndex) Get(ctx context.Context, propertyID primitive.ObjectID) (primitive.ObjectID, bool) {
	val, err := r.client.Get(ctx, propertyKeyPrefix+propertyID.Hex()).Result()
	if err != nil {
		if err != redis.Nil {
			r.logger.Warn("Property index lookup failed",
				zap.String("propertyId", propertyID.Hex()),
				zap.Error(err))
		}
		return primitive.NilObjectID, false
	}

	projectID, err := primitive.ObjectIDFromHex(val)
	if err != nil {
		r.logger.Warn("Property index holds malformed project id",
			zap.String("propertyId", propertyID.Hex()),
			zap.String("value", val))
		return primitive.NilObjectID, false
	}
	return projectID, true
}

// Put caches a resolution and tracks it under the project's member set so
// InvalidateProject can drop it later.
func (r *RedisPropertyIndex) Put(ctx context.Context, propertyID, projectID primitive.ObjectID) {
	key := propertyKeyPrefix + propertyID.Hex()
	setKey := projectSetPrefix + projectID.Hex()

	pipe := r.client.Pipeline()
	pipe.Set(ctx, key, projectID.Hex(), r.ttl)
	pipe.SAdd(ctx, setKey, key)
	pipe.Expire(ctx, setKey, r.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		r.logger.Warn("Failed to cache property resolution",
			zap.String("propertyId", propertyID.Hex()),
			zap.String("projectId", projectID.Hex()),
			zap.Error(err))
	}
}

// InvalidateProject drops every cached resolution pointing at the project.
// Called when a project's property set changes or the project is deleted.
func (r *RedisPropertyIndex) InvalidateProject(ctx context.Context, projectID primitive.ObjectID) {
	setKey := projectSetPrefix + projectID.Hex()

	keys, err := r.client.SMembers(ctx, setKey).Result()
	if err != nil {
		if err != redis.Nil {
			r.logger.Warn("Failed to list property index entries for invalidation",
				zap.String("projectId", projectID.Hex()),
				zap.Error(err))
		}
		return
	}

	keys = append(keys, setKey)
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		r.logger.Warn("Failed to invalidate property index entries",
			zap.String("projectId", projectID.Hex()),
			zap.Error(err))
		return
	}

	r.logger.Debug("Property index invalidated",
		zap.String("projectId", projectID.Hex()),
		zap.Int("entries", len(keys)-1))
}
