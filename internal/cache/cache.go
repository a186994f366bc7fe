package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"demo/grouporders/internal/model"

	"github.com/redis/go-redis/v9"
)

// ErrDiverged reports that the open set references an order whose hash
// is gone; the projection no longer matches the store and needs a rebuild.
var ErrDiverged = errors.New("cache diverged from store")

const (
	openSetKey     = "group_orders:open"
	orderKeyPrefix = "group_order:"
)

// Cache is a disposable Redis projection of the open group orders.
// It is never authoritative: every method may fail and callers are
// expected to fall back to the store.
type Cache struct {
	rdb *redis.Client
}

func New(rdb *redis.Client) *Cache { return &Cache{rdb: rdb} }

func orderKey(id string) string { return orderKeyPrefix + id }
func itemsKey(id string) string { return orderKeyPrefix + id + ":orders" }

func (c *Cache) PutOrder(ctx context.Context, o model.GroupOrder) error {
	closeTime := ""
	if o.CloseTime != nil {
		closeTime = o.CloseTime.UTC().Format(time.RFC3339Nano)
	}
	pipe := c.rdb.TxPipeline()
	pipe.HSet(ctx, orderKey(o.ID), map[string]any{
		"restaurant": o.Restaurant,
		"leader_id":  o.LeaderID,
		"status":     string(o.Status),
		"created_at": o.CreatedAt.UTC().Format(time.RFC3339Nano),
		"close_time": closeTime,
	})
	if o.Open() {
		pipe.SAdd(ctx, openSetKey, o.ID)
	} else {
		pipe.SRem(ctx, openSetKey, o.ID)
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (c *Cache) GetOrder(ctx context.Context, id string) (model.GroupOrder, bool, error) {
	fields, err := c.rdb.HGetAll(ctx, orderKey(id)).Result()
	if err != nil {
		return model.GroupOrder{}, false, err
	}
	if len(fields) == 0 {
		return model.GroupOrder{}, false, nil
	}
	o := model.GroupOrder{
		ID:         id,
		Restaurant: fields["restaurant"],
		LeaderID:   fields["leader_id"],
		Status:     model.Status(fields["status"]),
	}
	if v := fields["created_at"]; v != "" {
		t, perr := time.Parse(time.RFC3339Nano, v)
		if perr != nil {
			return model.GroupOrder{}, false, fmt.Errorf("parse created_at: %w", perr)
		}
		o.CreatedAt = t
	}
	if v := fields["close_time"]; v != "" {
		t, perr := time.Parse(time.RFC3339Nano, v)
		if perr != nil {
			return model.GroupOrder{}, false, fmt.Errorf("parse close_time: %w", perr)
		}
		o.CloseTime = &t
	}
	return o, true, nil
}

// RemoveOrder drops the order and its item lists from the projection.
func (c *Cache) RemoveOrder(ctx context.Context, id string) error {
	pipe := c.rdb.TxPipeline()
	pipe.SRem(ctx, openSetKey, id)
	pipe.Del(ctx, orderKey(id), itemsKey(id))
	_, err := pipe.Exec(ctx)
	return err
}

func (c *Cache) PutItems(ctx context.Context, groupOrderID, userID string, items []string) error {
	if len(items) == 0 {
		return c.rdb.HDel(ctx, itemsKey(groupOrderID), userID).Err()
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return c.rdb.HSet(ctx, itemsKey(groupOrderID), userID, raw).Err()
}

func (c *Cache) GetItems(ctx context.Context, groupOrderID, userID string) ([]string, bool, error) {
	raw, err := c.rdb.HGet(ctx, itemsKey(groupOrderID), userID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}
	var items []string
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, false, err
	}
	return items, true, nil
}

func (c *Cache) GetAllItems(ctx context.Context, groupOrderID string) (map[string][]string, error) {
	fields, err := c.rdb.HGetAll(ctx, itemsKey(groupOrderID)).Result()
	if err != nil {
		return nil, err
	}
	out := make(map[string][]string, len(fields))
	for userID, raw := range fields {
		var items []string
		if err := json.Unmarshal([]byte(raw), &items); err != nil {
			return nil, fmt.Errorf("unmarshal items for %s: %w", userID, err)
		}
		out[userID] = items
	}
	return out, nil
}

// ListOpenOrders returns the cached open orders. A dangling open-set
// member yields ErrDiverged so the caller can rebuild from the store.
func (c *Cache) ListOpenOrders(ctx context.Context) ([]model.GroupOrder, error) {
	ids, err := c.rdb.SMembers(ctx, openSetKey).Result()
	if err != nil {
		return nil, err
	}
	out := make([]model.GroupOrder, 0, len(ids))
	for _, id := range ids {
		o, ok, err := c.GetOrder(ctx, id)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%w: open set references %s", ErrDiverged, id)
		}
		out = append(out, o)
	}
	return out, nil
}

// Source is the slice of the store RebuildFrom reads.
type Source interface {
	ListOpenOrders(ctx context.Context) ([]model.GroupOrder, error)
	ListUserOrdersFor(ctx context.Context, groupOrderID string) (map[string][]string, error)
}

// RebuildFrom clears the projection and repopulates it from the store.
// Run at boot and whenever divergence is detected.
func (c *Cache) RebuildFrom(ctx context.Context, src Source) error {
	if err := c.clear(ctx); err != nil {
		return err
	}
	orders, err := src.ListOpenOrders(ctx)
	if err != nil {
		return err
	}
	for _, o := range orders {
		if err := c.PutOrder(ctx, o); err != nil {
			return err
		}
		userOrders, err := src.ListUserOrdersFor(ctx, o.ID)
		if err != nil {
			return err
		}
		for userID, items := range userOrders {
			if err := c.PutItems(ctx, o.ID, userID, items); err != nil {
				return err
			}
		}
	}
	return nil
}

func (c *Cache) clear(ctx context.Context) error {
	iter := c.rdb.Scan(ctx, 0, orderKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	if err := iter.Err(); err != nil {
		return err
	}
	return c.rdb.Del(ctx, openSetKey).Err()
}
