package repository

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/MaratulyTemirbolat/roommate-back/internal/interfaces"
	"github.com/MaratulyTemirbolat/roommate-back/internal/models"
)

// Compile-time check to ensure redisTokenRepository implements TokenRepository
var _ interfaces.TokenRepository = (*redisTokenRepository)(nil)

type redisTokenRepository struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisTokenRepository creates a new Redis-backed TokenRepository.
func NewRedisTokenRepository(client *redis.Client, logger *zap.Logger) interfaces.TokenRepository {
	return &redisTokenRepository{
		client: client,
		logger: logger.Named("RedisTokenRepo"),
	}
}

// SetToken stores token details in Redis.
// We store two key-value pairs for each token pair:
// 1. AccessUUID -> UserID (with AccessTokenTTL)
// 2. RefreshUUID -> UserID (with RefreshTokenTTL)
// And add identifiers to a user-specific set:
// user_tokens:{UserID} -> { "access:{AccessUUID}", "refresh:{RefreshUUID}" }
func (r *redisTokenRepository) SetToken(ctx context.Context, userID int64, td *models.TokenDetails) error {
	at := time.Unix(td.AtExpires, 0)
	rt := time.Unix(td.RtExpires, 0)
	now := time.Now()

	accessKey := fmt.Sprintf("access_uuid:%s", td.AccessUUID)
	refreshKey := fmt.Sprintf("refresh_uuid:%s", td.RefreshUUID)
	userIDStr := strconv.FormatInt(userID, 10)
	userSetKey := fmt.Sprintf("user_tokens:%s", userIDStr)

	accessTTL := at.Sub(now)
	refreshTTL := rt.Sub(now)

	accessIdentifier := fmt.Sprintf("access:%s", td.AccessUUID)
	refreshIdentifier := fmt.Sprintf("refresh:%s", td.RefreshUUID)

	// Use pipeline for atomic operations
	pipe := r.client.Pipeline()
	pipe.Set(ctx, accessKey, userIDStr, accessTTL)
	pipe.Set(ctx, refreshKey, userIDStr, refreshTTL)
	pipe.SAdd(ctx, userSetKey, accessIdentifier, refreshIdentifier)

	r.logger.Debug("Setting tokens in Redis and adding to user set",
		zap.String("userID", userIDStr),
		zap.String("accessUUID", td.AccessUUID),
		zap.String("refreshUUID", td.RefreshUUID),
		zap.Duration("accessTTL", accessTTL),
		zap.Duration("refreshTTL", refreshTTL),
		zap.String("userSetKey", userSetKey),
	)

	_, err := pipe.Exec(ctx)
	if err != nil {
		r.logger.Error("Failed to set token details in redis", zap.Error(err), zap.String("userID", userIDStr))
		return fmt.Errorf("failed to set token details in redis: %w", err)
	}
	return nil
}

// DeleteTokens removes tokens from Redis based on their UUIDs and removes them from the user's set.
func (r *redisTokenRepository) DeleteTokens(ctx context.Context, userID int64, accessUUID, refreshUUID string) (int64, error) {
	userIDStr := strconv.FormatInt(userID, 10)
	keysToDelete := []string{}
	identifiersToRemove := []interface{}{}
	logFields := []zap.Field{zap.String("userID", userIDStr)}
	userSetKey := fmt.Sprintf("user_tokens:%s", userIDStr)

	if accessUUID != "" {
		keysToDelete = append(keysToDelete, fmt.Sprintf("access_uuid:%s", accessUUID))
		identifiersToRemove = append(identifiersToRemove, fmt.Sprintf("access:%s", accessUUID))
		logFields = append(logFields, zap.String("accessUUID", accessUUID))
	}
	if refreshUUID != "" {
		keysToDelete = append(keysToDelete, fmt.Sprintf("refresh_uuid:%s", refreshUUID))
		identifiersToRemove = append(identifiersToRemove, fmt.Sprintf("refresh:%s", refreshUUID))
		logFields = append(logFields, zap.String("refreshUUID", refreshUUID))
	}

	if len(keysToDelete) == 0 {
		r.logger.Warn("DeleteTokens called with no UUIDs")
		return 0, nil
	}

	r.logger.Debug("Deleting tokens from Redis and removing from set", logFields...)

	pipe := r.client.Pipeline()
	delCmd := pipe.Del(ctx, keysToDelete...)
	pipe.SRem(ctx, userSetKey, identifiersToRemove...)

	_, err := pipe.Exec(ctx)
	if err != nil {
		logFields = append(logFields, zap.Error(err))
		r.logger.Error("Failed to execute pipeline for deleting tokens and removing from set", logFields...)
		return 0, fmt.Errorf("failed to delete tokens/remove from set: %w", err)
	}

	deletedCount, _ := delCmd.Result()

	logFields = append(logFields, zap.Int64("deletedCount", deletedCount))
	r.logger.Info("Tokens deleted from Redis and removed from set", logFields...)
	return deletedCount, nil
}

// GetUserIDByAccessUUID retrieves the UserID associated with an AccessUUID.
func (r *redisTokenRepository) GetUserIDByAccessUUID(ctx context.Context, accessUUID string) (int64, error) {
	key := fmt.Sprintf("access_uuid:%s", accessUUID)
	r.logger.Debug("Getting token from Redis", zap.String("key", key))
	userIDStr, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			r.logger.Debug("Access token not found in Redis", zap.String("accessUUID", accessUUID))
			return 0, models.ErrTokenNotFound
		}
		r.logger.Error("Failed to get token from redis", zap.Error(err), zap.String("key", key))
		return 0, fmt.Errorf("failed to get token from redis: %w", err)
	}

	userID, err := strconv.ParseInt(userIDStr, 10, 64)
	if err != nil {
		// Эта ошибка серьезная - данные в Redis повреждены
		r.logger.Error("Failed to parse userID from redis data for access token",
			zap.Error(err),
			zap.String("accessUUID", accessUUID),
			zap.String("value", userIDStr),
		)
		return 0, fmt.Errorf("corrupted userID data in redis for access token %s: %w", accessUUID, err)
	}
	return userID, nil
}

// GetUserIDByRefreshUUID retrieves the UserID associated with a RefreshUUID.
func (r *redisTokenRepository) GetUserIDByRefreshUUID(ctx context.Context, refreshUUID string) (int64, error) {
	key := fmt.Sprintf("refresh_uuid:%s", refreshUUID)
	r.logger.Debug("Getting token from Redis", zap.String("key", key))
	userIDStr, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			r.logger.Debug("Refresh token not found in Redis", zap.String("refreshUUID", refreshUUID))
			return 0, models.ErrTokenNotFound
		}
		r.logger.Error("Failed to get token from redis", zap.Error(err), zap.String("key", key))
		return 0, fmt.Errorf("failed to get token from redis: %w", err)
	}

	userID, err := strconv.ParseInt(userIDStr, 10, 64)
	if err != nil {
		// Эта ошибка серьезная - данные в Redis повреждены
		r.logger.Error("Failed to parse userID from redis data for refresh token",
			zap.Error(err),
			zap.String("refreshUUID", refreshUUID),
			zap.String("value", userIDStr),
		)
		return 0, fmt.Errorf("corrupted userID data in redis for refresh token %s: %w", refreshUUID, err)
	}
	return userID, nil
}
