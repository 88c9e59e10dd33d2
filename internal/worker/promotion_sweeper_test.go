package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/marketplace-service/internal/domain"
	"github.com/spec-kit/marketplace-service/internal/events"
	"github.com/spec-kit/marketplace-service/internal/observability"
)

type fakePromotionStore struct {
	mu      sync.Mutex
	rows    map[int64]domain.Restaurant
	failIDs map[int64]bool
	updates int
}

func newFakePromotionStore() *fakePromotionStore {
	return &fakePromotionStore{
		rows:    make(map[int64]domain.Restaurant),
		failIDs: make(map[int64]bool),
	}
}

func (f *fakePromotionStore) put(restaurant domain.Restaurant) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows[restaurant.ID] = restaurant
}

func (f *fakePromotionStore) get(id int64) domain.Restaurant {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rows[id]
}

func (f *fakePromotionStore) FindExpiredPromoted(_ context.Context, now time.Time) ([]*domain.Restaurant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	matched := make([]*domain.Restaurant, 0)
	for _, row := range f.rows {
		if row.IsPromoted && row.PromoteUntil != nil && !row.PromoteUntil.After(now) {
			copied := row
			matched = append(matched, &copied)
		}
	}
	return matched, nil
}

func (f *fakePromotionStore) Update(_ context.Context, restaurant *domain.Restaurant) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates++
	if f.failIDs[restaurant.ID] {
		return errors.New("write conflict")
	}
	f.rows[restaurant.ID] = *restaurant
	return nil
}

func (f *fakePromotionStore) updateCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.updates
}

func promoted(id int64, until time.Time) domain.Restaurant {
	return domain.Restaurant{ID: id, Name: "r", OwnerID: 1, IsPromoted: true, PromoteUntil: &until}
}

func newTestSweeper(store PromotionStore) *PromotionSweeper {
	return NewPromotionSweeper(store, time.Second, zap.NewNop(), observability.NewMetrics(), nil)
}

func TestSweepClearsExpiredPromotions(t *testing.T) {
	store := newFakePromotionStore()
	store.put(promoted(1, time.Now().Add(-time.Minute)))
	store.put(promoted(2, time.Now().Add(-time.Hour)))

	sweeper := newTestSweeper(store)
	sweeper.Sweep(context.Background())

	for _, id := range []int64{1, 2} {
		row := store.get(id)
		if row.IsPromoted {
			t.Fatalf("restaurant %d still promoted after sweep", id)
		}
		if row.PromoteUntil != nil {
			t.Fatalf("restaurant %d still has promote_until after sweep", id)
		}
	}
}

func TestSweepIsIdempotent(t *testing.T) {
	store := newFakePromotionStore()
	store.put(promoted(1, time.Now().Add(-time.Minute)))

	sweeper := newTestSweeper(store)
	sweeper.Sweep(context.Background())

	if got := store.updateCount(); got != 1 {
		t.Fatalf("expected 1 update after first sweep, got %d", got)
	}

	sweeper.Sweep(context.Background())

	if got := store.updateCount(); got != 1 {
		t.Fatalf("second sweep must be a no-op, saw %d updates", got)
	}
	if row := store.get(1); row.IsPromoted || row.PromoteUntil != nil {
		t.Fatalf("cleared row changed by second sweep: %+v", row)
	}
}

func TestSweepLeavesFuturePromotionsUntouched(t *testing.T) {
	store := newFakePromotionStore()
	until := time.Now().Add(time.Hour)
	store.put(promoted(1, until))

	sweeper := newTestSweeper(store)
	for i := 0; i < 5; i++ {
		sweeper.Sweep(context.Background())
	}

	row := store.get(1)
	if !row.IsPromoted {
		t.Fatalf("future promotion was cleared")
	}
	if row.PromoteUntil == nil || !row.PromoteUntil.Equal(until) {
		t.Fatalf("promote_until changed: %+v", row.PromoteUntil)
	}
	if got := store.updateCount(); got != 0 {
		t.Fatalf("expected no updates, got %d", got)
	}
}

func TestSweepClearsPastClockBoundary(t *testing.T) {
	store := newFakePromotionStore()
	until := time.Now().Add(50 * time.Millisecond)
	store.put(promoted(1, until))

	sweeper := newTestSweeper(store)
	sweeper.Sweep(context.Background())
	if row := store.get(1); !row.IsPromoted {
		t.Fatalf("promotion cleared before expiry")
	}

	sweeper.now = func() time.Time { return until.Add(time.Millisecond) }
	sweeper.Sweep(context.Background())
	if row := store.get(1); row.IsPromoted {
		t.Fatalf("promotion not cleared after expiry")
	}
}

func TestSweepContinuesPastFailedWrites(t *testing.T) {
	store := newFakePromotionStore()
	store.put(promoted(1, time.Now().Add(-time.Minute)))
	store.put(promoted(2, time.Now().Add(-time.Minute)))
	store.put(promoted(3, time.Now().Add(-time.Minute)))
	store.failIDs[2] = true

	sweeper := newTestSweeper(store)
	sweeper.Sweep(context.Background())

	for _, id := range []int64{1, 3} {
		if row := store.get(id); row.IsPromoted {
			t.Fatalf("restaurant %d not cleared despite unrelated failure", id)
		}
	}
	if row := store.get(2); !row.IsPromoted {
		t.Fatalf("failed row should remain promoted until a later sweep")
	}

	// the failed row is retried on the next tick
	store.failIDs[2] = false
	sweeper.Sweep(context.Background())
	if row := store.get(2); row.IsPromoted {
		t.Fatalf("restaurant 2 not cleared on retry sweep")
	}
}

func TestSweepPublishesExpiryEvents(t *testing.T) {
	store := newFakePromotionStore()
	store.put(promoted(1, time.Now().Add(-time.Minute)))
	store.put(promoted(2, time.Now().Add(-time.Minute)))

	dispatcher := events.NewInMemoryDispatcher(nil)
	var published []events.Event
	dispatcher.Subscribe(events.EventPromotionExpired, func(_ context.Context, event events.Event) error {
		published = append(published, event)
		return nil
	})

	sweeper := NewPromotionSweeper(store, time.Second, zap.NewNop(), observability.NewMetrics(), dispatcher)
	sweeper.Sweep(context.Background())

	if len(published) != 2 {
		t.Fatalf("expected 2 promotion_expired events, got %d", len(published))
	}
	seen := make(map[int64]bool)
	for _, event := range published {
		payload, ok := event.Payload.(events.PromotionExpiredPayload)
		if !ok {
			t.Fatalf("unexpected payload type %T", event.Payload)
		}
		seen[payload.RestaurantID] = true
	}
	if !seen[1] || !seen[2] {
		t.Fatalf("missing expiry event for a cleared restaurant: %+v", seen)
	}
}

func TestSweeperStartStopsOnCancel(t *testing.T) {
	store := newFakePromotionStore()
	store.put(promoted(1, time.Now().Add(-time.Minute)))

	sweeper := NewPromotionSweeper(store, 10*time.Millisecond, zap.NewNop(), observability.NewMetrics(), nil)
	ctx, cancel := context.WithCancel(context.Background())
	sweeper.Start(ctx)

	deadline := time.After(2 * time.Second)
	for store.updateCount() == 0 {
		select {
		case <-deadline:
			t.Fatalf("sweeper never ran")
		case <-time.After(5 * time.Millisecond):
		}
	}
	cancel()

	if row := store.get(1); row.IsPromoted {
		t.Fatalf("expired promotion not cleared by running sweeper")
	}
}
