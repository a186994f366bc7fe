package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"demo/grouporders/internal/cache"
	"demo/grouporders/internal/events"
	"demo/grouporders/internal/metrics"
	"demo/grouporders/internal/model"
	"demo/grouporders/internal/parse"
	"demo/grouporders/internal/store"

	"go.uber.org/zap"
)

// Close reasons, also the metric label values.
const (
	CloseReasonLeader  = "leader"
	CloseReasonExpired = "expired"
)

// Service orchestrates the group-order lifecycle. Every mutation hits
// the store first; the cache is mirrored only after the store committed
// and any cache failure is logged and swallowed.
type Service struct {
	repo  store.Repository
	cache *cache.Cache
	pub   events.Publisher
	log   *zap.Logger
	met   *metrics.Metrics
	locks *orderLocks

	restaurants map[string]struct{}
	closeAfter  time.Duration
	selectTTL   time.Duration
}

type Options struct {
	// Restaurants is the allow-list for OpenGroup.
	Restaurants []string
	// CloseAfter is the default auto-close horizon for new orders.
	CloseAfter time.Duration
	// SelectionTTL bounds how long a user's selected group is remembered.
	SelectionTTL time.Duration
}

func New(repo store.Repository, c *cache.Cache, pub events.Publisher, log *zap.Logger, met *metrics.Metrics, opts Options) *Service {
	if pub == nil {
		pub = events.Nop{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	if opts.CloseAfter <= 0 {
		opts.CloseAfter = 24 * time.Hour
	}
	if opts.SelectionTTL <= 0 {
		opts.SelectionTTL = 12 * time.Hour
	}
	allowed := make(map[string]struct{}, len(opts.Restaurants))
	for _, r := range opts.Restaurants {
		allowed[r] = struct{}{}
	}
	return &Service{
		repo:        repo,
		cache:       c,
		pub:         pub,
		log:         log,
		met:         met,
		locks:       newOrderLocks(),
		restaurants: allowed,
		closeAfter:  opts.CloseAfter,
		selectTTL:   opts.SelectionTTL,
	}
}

// OpenGroup creates a group order for an allow-listed restaurant. A
// second open for the same restaurant surfaces the existing leader via
// ConflictError and mutates nothing.
func (s *Service) OpenGroup(ctx context.Context, restaurant, userID string) (model.GroupOrder, error) {
	if _, ok := s.restaurants[restaurant]; !ok {
		return model.GroupOrder{}, model.ErrUnsupportedRestaurant
	}

	closeTime := time.Now().UTC().Add(s.closeAfter)
	o, err := s.repo.CreateGroupOrder(ctx, restaurant, userID, closeTime)
	if err != nil {
		return model.GroupOrder{}, err
	}

	s.mirrorOrder(ctx, o)
	if err := s.pub.OrderOpened(ctx, o); err != nil {
		s.log.Warn("publish order_opened failed", zap.String("group_order_id", o.ID), zap.Error(err))
	}
	s.met.GroupOpened()
	s.log.Info("group order opened",
		zap.String("group_order_id", o.ID),
		zap.String("restaurant", restaurant),
		zap.String("leader_id", userID))
	return o, nil
}

// AddItems parses the raw order text and appends the tokens to the
// user's item list, returning the full list and its frequency counts.
func (s *Service) AddItems(ctx context.Context, groupOrderID, userID, rawText string) ([]string, []model.ItemCount, error) {
	tokens := parse.Items(rawText)
	if len(tokens) == 0 {
		return nil, nil, model.ErrEmptyItems
	}
	items, err := s.mutateItems(ctx, groupOrderID, userID, func(cur []string) ([]string, bool, error) {
		return append(cur, tokens...), true, nil
	})
	if err != nil {
		return nil, nil, err
	}
	return items, model.CountItems(items), nil
}

// IncrementItem appends one more occurrence of the exact item string.
func (s *Service) IncrementItem(ctx context.Context, groupOrderID, userID, item string) ([]string, error) {
	return s.mutateItems(ctx, groupOrderID, userID, func(cur []string) ([]string, bool, error) {
		return append(cur, item), true, nil
	})
}

// DecrementItem removes one occurrence of the exact item string.
// Decrementing an item that is not there is a no-op.
func (s *Service) DecrementItem(ctx context.Context, groupOrderID, userID, item string) ([]string, error) {
	return s.mutateItems(ctx, groupOrderID, userID, func(cur []string) ([]string, bool, error) {
		for i, it := range cur {
			if it == item {
				next := make([]string, 0, len(cur)-1)
				next = append(next, cur[:i]...)
				next = append(next, cur[i+1:]...)
				return next, true, nil
			}
		}
		return cur, false, nil
	})
}

// EditItemNote rewrites the first entry whose name (text before the
// parenthesis) matches itemName to carry newNote.
func (s *Service) EditItemNote(ctx context.Context, groupOrderID, userID, itemName, newNote string) ([]string, error) {
	return s.mutateItems(ctx, groupOrderID, userID, func(cur []string) ([]string, bool, error) {
		for i, it := range cur {
			name, _ := parse.SplitNote(it)
			if name == itemName {
				next := append([]string(nil), cur...)
				next[i] = parse.WithNote(itemName, newNote)
				return next, true, nil
			}
		}
		return nil, false, model.ErrItemNotFound
	})
}

// DeleteUserOrder clears the user's item list. Clearing an already
// empty list does nothing.
func (s *Service) DeleteUserOrder(ctx context.Context, groupOrderID, userID string) error {
	_, err := s.mutateItems(ctx, groupOrderID, userID, func(cur []string) ([]string, bool, error) {
		return nil, len(cur) > 0, nil
	})
	return err
}

// mutateItems runs one read-modify-write cycle on a user's item list
// under the per-order lock. fn returns the next list and whether
// anything actually changed; unchanged lists skip the store write.
func (s *Service) mutateItems(ctx context.Context, groupOrderID, userID string, fn func(cur []string) ([]string, bool, error)) ([]string, error) {
	s.locks.lock(groupOrderID)
	defer s.locks.unlock(groupOrderID)

	o, err := s.repo.GetGroupOrder(ctx, groupOrderID)
	if err != nil {
		return nil, err
	}
	if !o.Open() {
		return nil, model.ErrGroupClosed
	}

	cur, err := s.repo.GetUserItems(ctx, groupOrderID, userID)
	if err != nil {
		return nil, err
	}
	next, changed, err := fn(cur)
	if err != nil {
		return nil, err
	}
	if !changed {
		return cur, nil
	}

	// Store first; the status guard inside ReplaceUserItems catches a
	// close that slipped in between our read and this write.
	if err := s.repo.ReplaceUserItems(ctx, groupOrderID, userID, next); err != nil {
		return nil, err
	}
	s.mirrorItems(ctx, groupOrderID, userID, next)
	return next, nil
}

// CloseGroup transitions the order to closed and returns the aggregated
// summary. Only the leader may close unless the scheduler initiated it.
func (s *Service) CloseGroup(ctx context.Context, groupOrderID, requesterID string, systemInitiated bool) (model.Summary, error) {
	s.locks.lock(groupOrderID)
	defer s.locks.unlock(groupOrderID)

	o, err := s.repo.GetGroupOrder(ctx, groupOrderID)
	if err != nil {
		return model.Summary{}, err
	}
	if !o.Open() {
		return model.Summary{}, model.ErrAlreadyClosed
	}
	if !systemInitiated && requesterID != o.LeaderID {
		return model.Summary{}, model.ErrNotLeader
	}

	userOrders, err := s.repo.ListUserOrdersFor(ctx, groupOrderID)
	if err != nil {
		return model.Summary{}, err
	}
	sum := buildSummary(o, userOrders)

	closed, err := s.repo.CloseGroupOrder(ctx, groupOrderID)
	if err != nil {
		return model.Summary{}, err
	}

	s.dropOrder(ctx, groupOrderID)

	reason := CloseReasonLeader
	if systemInitiated {
		reason = CloseReasonExpired
	}
	if err := s.pub.OrderClosed(ctx, closed, reason, sum); err != nil {
		s.log.Warn("publish order_closed failed", zap.String("group_order_id", groupOrderID), zap.Error(err))
	}
	s.met.GroupClosed(reason)
	s.log.Info("group order closed",
		zap.String("group_order_id", groupOrderID),
		zap.String("restaurant", o.Restaurant),
		zap.String("reason", reason))
	return sum, nil
}

// SetCloseTime lets the leader move the auto-close deadline of an open
// order. The deadline must lie in the future.
func (s *Service) SetCloseTime(ctx context.Context, groupOrderID, requesterID string, closeTime time.Time) error {
	s.locks.lock(groupOrderID)
	defer s.locks.unlock(groupOrderID)

	o, err := s.repo.GetGroupOrder(ctx, groupOrderID)
	if err != nil {
		return err
	}
	if !o.Open() {
		return model.ErrGroupClosed
	}
	if requesterID != o.LeaderID {
		return model.ErrNotLeader
	}
	if !closeTime.After(time.Now()) {
		return model.ErrCloseTimeInPast
	}

	if err := s.repo.SetCloseTime(ctx, groupOrderID, closeTime); err != nil {
		return err
	}
	utc := closeTime.UTC()
	o.CloseTime = &utc
	s.mirrorOrder(ctx, o)
	return nil
}

// GetActiveOrders lists the open orders, cache first.
func (s *Service) GetActiveOrders(ctx context.Context) ([]model.GroupOrder, error) {
	if s.cache != nil {
		orders, err := s.cache.ListOpenOrders(ctx)
		if err == nil {
			sort.Slice(orders, func(i, j int) bool { return orders[i].CreatedAt.Before(orders[j].CreatedAt) })
			return orders, nil
		}
		s.met.CacheMiss()
		s.log.Warn("cache read failed, falling back to store", zap.Error(err))
	}

	orders, err := s.repo.ListOpenOrders(ctx)
	if err != nil {
		return nil, err
	}
	s.rebuildCache(ctx)
	return orders, nil
}

// GetUserOrder returns one user's item list in the given order,
// cache-aside with repopulation.
func (s *Service) GetUserOrder(ctx context.Context, groupOrderID, userID string) ([]string, error) {
	if s.cache != nil {
		items, ok, err := s.cache.GetItems(ctx, groupOrderID, userID)
		if err == nil && ok {
			return items, nil
		}
		if err != nil {
			s.log.Warn("cache read failed", zap.String("group_order_id", groupOrderID), zap.Error(err))
		}
		s.met.CacheMiss()
	}

	if _, err := s.repo.GetGroupOrder(ctx, groupOrderID); err != nil {
		return nil, err
	}
	items, err := s.repo.GetUserItems(ctx, groupOrderID, userID)
	if err != nil {
		return nil, err
	}
	if len(items) > 0 {
		s.mirrorItems(ctx, groupOrderID, userID, items)
	}
	return items, nil
}

// GetAllOrdersForUser collects the user's non-empty item lists across
// all open orders.
func (s *Service) GetAllOrdersForUser(ctx context.Context, userID string) ([]model.UserOrderView, error) {
	orders, err := s.GetActiveOrders(ctx)
	if err != nil {
		return nil, err
	}
	var out []model.UserOrderView
	for _, o := range orders {
		items, err := s.GetUserOrder(ctx, o.ID, userID)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				continue
			}
			return nil, err
		}
		if len(items) > 0 {
			out = append(out, model.UserOrderView{Order: o, Items: items})
		}
	}
	return out, nil
}

// ClosedGroupsSummary rebuilds the close summaries for every closed
// order the leader opened, straight from the store.
func (s *Service) ClosedGroupsSummary(ctx context.Context, leaderID string) ([]model.Summary, error) {
	orders, err := s.repo.ListClosedOrdersByLeader(ctx, leaderID)
	if err != nil {
		return nil, err
	}
	out := make([]model.Summary, 0, len(orders))
	for _, o := range orders {
		userOrders, err := s.repo.ListUserOrdersFor(ctx, o.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, buildSummary(o, userOrders))
	}
	return out, nil
}

// SelectGroup remembers the open order the user is currently ordering
// into; the dispatcher resolves bare "我要點" texts through it.
func (s *Service) SelectGroup(ctx context.Context, userID, groupOrderID string) error {
	if s.cache == nil {
		return fmt.Errorf("selection store not configured")
	}
	o, err := s.getOrder(ctx, groupOrderID)
	if err != nil {
		return err
	}
	if !o.Open() {
		return model.ErrGroupClosed
	}
	return s.cache.SelectGroup(ctx, userID, groupOrderID, s.selectTTL)
}

func (s *Service) SelectedGroup(ctx context.Context, userID string) (string, bool, error) {
	if s.cache == nil {
		return "", false, nil
	}
	return s.cache.SelectedGroup(ctx, userID)
}

func (s *Service) getOrder(ctx context.Context, id string) (model.GroupOrder, error) {
	if s.cache != nil {
		o, ok, err := s.cache.GetOrder(ctx, id)
		if err == nil && ok {
			return o, nil
		}
		if err != nil {
			s.log.Warn("cache read failed", zap.String("group_order_id", id), zap.Error(err))
		}
		s.met.CacheMiss()
	}
	o, err := s.repo.GetGroupOrder(ctx, id)
	if err != nil {
		return model.GroupOrder{}, err
	}
	s.mirrorOrder(ctx, o)
	return o, nil
}

func (s *Service) mirrorOrder(ctx context.Context, o model.GroupOrder) {
	if s.cache == nil {
		return
	}
	if err := s.cache.PutOrder(ctx, o); err != nil {
		s.met.CacheError()
		s.log.Warn("cache put failed", zap.String("group_order_id", o.ID), zap.Error(err))
	}
}

func (s *Service) mirrorItems(ctx context.Context, groupOrderID, userID string, items []string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.PutItems(ctx, groupOrderID, userID, items); err != nil {
		s.met.CacheError()
		s.log.Warn("cache items put failed",
			zap.String("group_order_id", groupOrderID),
			zap.String("user_id", userID),
			zap.Error(err))
	}
}

func (s *Service) dropOrder(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.RemoveOrder(ctx, id); err != nil {
		s.met.CacheError()
		s.log.Warn("cache remove failed", zap.String("group_order_id", id), zap.Error(err))
	}
}

func (s *Service) rebuildCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.RebuildFrom(ctx, s.repo); err != nil {
		s.met.CacheError()
		s.log.Warn("cache rebuild failed", zap.Error(err))
	}
}

// buildSummary tallies every user's items. Users are walked in sorted
// order so the total's item order is stable.
func buildSummary(o model.GroupOrder, userOrders map[string][]string) model.Summary {
	userIDs := make([]string, 0, len(userOrders))
	for id := range userOrders {
		userIDs = append(userIDs, id)
	}
	sort.Strings(userIDs)

	var all []string
	perUser := make(map[string][]model.ItemCount, len(userOrders))
	for _, id := range userIDs {
		items := userOrders[id]
		if len(items) == 0 {
			continue
		}
		all = append(all, items...)
		perUser[id] = model.CountItems(items)
	}
	return model.Summary{
		GroupOrderID: o.ID,
		Restaurant:   o.Restaurant,
		Total:        model.CountItems(all),
		PerUser:      perUser,
	}
}
