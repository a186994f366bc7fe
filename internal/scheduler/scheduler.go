package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"demo/grouporders/internal/model"

	"go.uber.org/zap"
)

// Expirer finds open orders whose deadline has passed.
type Expirer interface {
	FindExpired(ctx context.Context, now time.Time) ([]model.GroupOrder, error)
}

// Closer closes one group order through the same path a leader uses.
type Closer interface {
	CloseGroup(ctx context.Context, groupOrderID, requesterID string, systemInitiated bool) (model.Summary, error)
}

// Scheduler force-closes expired group orders on a fixed interval.
// Ticks never overlap: when one is still running, the next is skipped.
type Scheduler struct {
	store    Expirer
	svc      Closer
	interval time.Duration
	log      *zap.Logger
	inFlight atomic.Bool
}

func New(store Expirer, svc Closer, interval time.Duration, log *zap.Logger) *Scheduler {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Scheduler{store: store, svc: svc, interval: interval, log: log}
}

// Run blocks until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.log.Info("expiry scheduler started", zap.Duration("interval", s.interval))
	for {
		select {
		case <-ctx.Done():
			s.log.Info("expiry scheduler stopped")
			return
		case <-ticker.C:
			s.Tick(ctx)
		}
	}
}

// Tick runs one expiry pass. Returns the number of orders closed; a
// tick that found another one still running returns -1 without doing
// anything.
func (s *Scheduler) Tick(ctx context.Context) int {
	if !s.inFlight.CompareAndSwap(false, true) {
		s.log.Debug("previous tick still running, skipping")
		return -1
	}
	defer s.inFlight.Store(false)

	expired, err := s.store.FindExpired(ctx, time.Now().UTC())
	if err != nil {
		s.log.Error("find expired orders failed", zap.Error(err))
		return 0
	}

	closed := 0
	for _, o := range expired {
		_, err := s.svc.CloseGroup(ctx, o.ID, o.LeaderID, true)
		switch {
		case err == nil:
			closed++
		case errors.Is(err, model.ErrAlreadyClosed):
			// A leader got there first; nothing to do.
		default:
			s.log.Error("auto close failed",
				zap.String("group_order_id", o.ID),
				zap.String("restaurant", o.Restaurant),
				zap.Error(err))
		}
	}
	if closed > 0 {
		s.log.Info("auto-closed expired group orders", zap.Int("count", closed))
	}
	return closed
}
