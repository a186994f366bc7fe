package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

func selectionKey(userID string) string { return "user:" + userID + ":selected_group" }

// SelectGroup remembers which group order a user is currently ordering
// into. The entry expires on its own; nothing depends on it surviving.
func (c *Cache) SelectGroup(ctx context.Context, userID, groupOrderID string, ttl time.Duration) error {
	return c.rdb.Set(ctx, selectionKey(userID), groupOrderID, ttl).Err()
}

func (c *Cache) SelectedGroup(ctx context.Context, userID string) (string, bool, error) {
	id, err := c.rdb.Get(ctx, selectionKey(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, err
	}
	return id, true, nil
}

func (c *Cache) ClearSelection(ctx context.Context, userID string) error {
	return c.rdb.Del(ctx, selectionKey(userID)).Err()
}
