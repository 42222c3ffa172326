package repository

import (
	"context"
	"strconv"
	"time"

	"social_chat_service/internal/gateway/domain"

	"github.com/go-redis/redis/v8"
)

// expiryIndexKey sorted set：member = message id，score = 到期時間 (unix 秒)。
// 存在 redis 使排程在重啟後仍能掃到未到期的訊息。
const expiryIndexKey = "message:expiry"

// ExpiryRepository definition durable next-expiry index
type ExpiryRepository interface {
	// Arm schedule messageID at expireAt, idempotent: re-arm returns ErrAlreadyArmed
	Arm(ctx context.Context, messageID string, expireAt time.Time) error
	// Due return all message ids with expiry <= now
	Due(ctx context.Context, now time.Time) ([]string, error)
	Remove(ctx context.Context, messageID string) error
}

type expiryRepository struct {
	client *redis.Client
}

// NewRedisExpiryRepository create an ExpiryRepository
func NewRedisExpiryRepository(client *redis.Client) ExpiryRepository {
	return &expiryRepository{client: client}
}

// Arm ZAddNX messageID with expiry score
func (r *expiryRepository) Arm(ctx context.Context, messageID string, expireAt time.Time) error {
	added, err := r.client.ZAddNX(ctx, expiryIndexKey, &redis.Z{
		Score:  float64(expireAt.Unix()),
		Member: messageID,
	}).Result()
	if err != nil {
		return err
	}
	if added == 0 {
		return domain.ErrAlreadyArmed
	}
	return nil
}

// Due ZRangeByScore score <= now
func (r *expiryRepository) Due(ctx context.Context, now time.Time) ([]string, error) {
	return r.client.ZRangeByScore(ctx, expiryIndexKey, &redis.ZRangeBy{
		Min: "-inf",
		Max: strconv.FormatInt(now.Unix(), 10),
	}).Result()
}

// Remove ZRem messageID
func (r *expiryRepository) Remove(ctx context.Context, messageID string) error {
	return r.client.ZRem(ctx, expiryIndexKey, messageID).Err()
}
