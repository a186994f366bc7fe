package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"demo/grouporders/internal/model"

	"github.com/stretchr/testify/require"
)

type fakeExpirer struct {
	orders []model.GroupOrder
	err    error
}

func (f *fakeExpirer) FindExpired(ctx context.Context, now time.Time) ([]model.GroupOrder, error) {
	return f.orders, f.err
}

type fakeCloser struct {
	mu      sync.Mutex
	closed  []string
	system  []bool
	errByID map[string]error
	block   chan struct{}
}

func (f *fakeCloser) CloseGroup(ctx context.Context, groupOrderID, requesterID string, systemInitiated bool) (model.Summary, error) {
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = append(f.closed, groupOrderID)
	f.system = append(f.system, systemInitiated)
	if err, ok := f.errByID[groupOrderID]; ok {
		return model.Summary{}, err
	}
	return model.Summary{GroupOrderID: groupOrderID}, nil
}

func TestScheduler_Tick_ClosesExpired(t *testing.T) {
	exp := &fakeExpirer{orders: []model.GroupOrder{
		{ID: "g1", LeaderID: "alice"},
		{ID: "g2", LeaderID: "bob"},
	}}
	closer := &fakeCloser{}
	s := New(exp, closer, time.Minute, nil)

	n := s.Tick(context.Background())
	require.Equal(t, 2, n)
	require.Equal(t, []string{"g1", "g2"}, closer.closed)
	require.Equal(t, []bool{true, true}, closer.system)
}

func TestScheduler_Tick_ToleratesAlreadyClosed(t *testing.T) {
	exp := &fakeExpirer{orders: []model.GroupOrder{
		{ID: "g1", LeaderID: "alice"},
		{ID: "g2", LeaderID: "bob"},
	}}
	closer := &fakeCloser{errByID: map[string]error{"g1": model.ErrAlreadyClosed}}
	s := New(exp, closer, time.Minute, nil)

	n := s.Tick(context.Background())
	require.Equal(t, 1, n)
	require.Equal(t, []string{"g1", "g2"}, closer.closed)
}

func TestScheduler_Tick_ContinuesPastFailures(t *testing.T) {
	exp := &fakeExpirer{orders: []model.GroupOrder{
		{ID: "g1", LeaderID: "alice"},
		{ID: "g2", LeaderID: "bob"},
	}}
	closer := &fakeCloser{errByID: map[string]error{"g1": errors.New("db down")}}
	s := New(exp, closer, time.Minute, nil)

	n := s.Tick(context.Background())
	require.Equal(t, 1, n)
	require.Equal(t, []string{"g1", "g2"}, closer.closed)
}

func TestScheduler_Tick_FindError(t *testing.T) {
	exp := &fakeExpirer{err: errors.New("db down")}
	closer := &fakeCloser{}
	s := New(exp, closer, time.Minute, nil)

	require.Equal(t, 0, s.Tick(context.Background()))
	require.Empty(t, closer.closed)
}

func TestScheduler_Tick_SkipsWhileRunning(t *testing.T) {
	exp := &fakeExpirer{orders: []model.GroupOrder{{ID: "g1", LeaderID: "alice"}}}
	closer := &fakeCloser{block: make(chan struct{})}
	s := New(exp, closer, time.Minute, nil)

	done := make(chan int, 1)
	go func() { done <- s.Tick(context.Background()) }()

	// Wait until the first tick is parked inside CloseGroup.
	require.Eventually(t, func() bool { return s.inFlight.Load() }, time.Second, time.Millisecond)

	require.Equal(t, -1, s.Tick(context.Background()))

	close(closer.block)
	require.Equal(t, 1, <-done)
}
