package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// checkAndSetCooldown claims the cooldown slot for a user/action pair.
// Returns false when the slot is still held from a previous grant.
func checkAndSetCooldown(ctx context.Context, rdb *redis.Client, userID uuid.UUID, action string, cooldown time.Duration) (bool, error) {
	if rdb == nil {
		return true, nil
	}

	key := fmt.Sprintf("points:cooldown:%s:%s", userID.String(), action)

	wasSet, err := rdb.SetNX(ctx, key, "locked", cooldown).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check cooldown in redis: %w", err)
	}

	return wasSet, nil
}

func clearCooldown(ctx context.Context, rdb *redis.Client, userID uuid.UUID, action string) error {
	if rdb == nil {
		return nil
	}
	key := fmt.Sprintf("points:cooldown:%s:%s", userID.String(), action)
	_, err := rdb.Del(ctx, key).Result()
	return err
}
