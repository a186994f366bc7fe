package store

import (
	"context"
	"time"

	"demo/grouporders/internal/model"
)

//go:generate mockgen -destination storemock/repository_mock.go -package storemock demo/grouporders/internal/store Repository

// Repository is the durable source of truth for group orders and the
// per-user item lists attached to them.
type Repository interface {
	CreateGroupOrder(ctx context.Context, restaurant, leaderID string, closeTime time.Time) (model.GroupOrder, error)
	GetGroupOrder(ctx context.Context, id string) (model.GroupOrder, error)
	CloseGroupOrder(ctx context.Context, id string) (model.GroupOrder, error)
	SetCloseTime(ctx context.Context, id string, closeTime time.Time) error

	ReplaceUserItems(ctx context.Context, groupOrderID, userID string, items []string) error
	GetUserItems(ctx context.Context, groupOrderID, userID string) ([]string, error)
	ListUserOrdersFor(ctx context.Context, groupOrderID string) (map[string][]string, error)

	ListOpenOrders(ctx context.Context) ([]model.GroupOrder, error)
	ListClosedOrdersByLeader(ctx context.Context, leaderID string) ([]model.GroupOrder, error)
	FindExpired(ctx context.Context, now time.Time) ([]model.GroupOrder, error)
}
