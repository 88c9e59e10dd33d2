package worker

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/marketplace-service/internal/domain"
	"github.com/spec-kit/marketplace-service/internal/events"
	"github.com/spec-kit/marketplace-service/internal/observability"
)

// PromotionStore is the persistence capability the sweeper needs.
type PromotionStore interface {
	FindExpiredPromoted(ctx context.Context, now time.Time) ([]*domain.Restaurant, error)
	Update(ctx context.Context, restaurant *domain.Restaurant) error
}

// PromotionSweeper periodically clears expired promotion windows. It is the
// only writer that turns promotion off; purchases are the only writer that
// turns it on. Sweeps are idempotent: a cleared row no longer matches the
// expired-and-promoted predicate, so re-running is a no-op.
type PromotionSweeper struct {
	restaurants PromotionStore
	interval    time.Duration
	logger      *zap.Logger
	metrics     *observability.Metrics
	dispatcher  events.Dispatcher
	now         func() time.Time
}

// NewPromotionSweeper constructs a sweeper with the given period. The
// dispatcher may be nil, in which case no expiry events are emitted.
func NewPromotionSweeper(restaurants PromotionStore, interval time.Duration, logger *zap.Logger, metrics *observability.Metrics, dispatcher events.Dispatcher) *PromotionSweeper {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	return &PromotionSweeper{
		restaurants: restaurants,
		interval:    interval,
		logger:      logger,
		metrics:     metrics,
		dispatcher:  dispatcher,
		now:         time.Now,
	}
}

// Start runs the sweep loop until the context is cancelled.
func (s *PromotionSweeper) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.logger.Info("promotion sweeper started", zap.Duration("interval", s.interval))
		for {
			select {
			case <-ctx.Done():
				s.logger.Info("promotion sweeper stopped")
				return
			case <-ticker.C:
				s.Sweep(ctx)
			}
		}
	}()
}

// Sweep clears every restaurant whose promotion window has passed. A failed
// write for one row is logged and does not stop the rest of the batch.
func (s *PromotionSweeper) Sweep(ctx context.Context) {
	now := s.now()
	expired, err := s.restaurants.FindExpiredPromoted(ctx, now)
	if err != nil {
		s.logger.Error("promotion sweep query failed", zap.Error(err))
		return
	}

	cleared := 0
	for _, restaurant := range expired {
		restaurant.IsPromoted = false
		restaurant.PromoteUntil = nil
		if err := s.restaurants.Update(ctx, restaurant); err != nil {
			s.logger.Error("failed to clear expired promotion",
				zap.Int64("restaurant_id", restaurant.ID),
				zap.Error(err))
			continue
		}
		cleared++
		s.logger.Info("promotion expired",
			zap.Int64("restaurant_id", restaurant.ID))

		if s.dispatcher != nil {
			_ = s.dispatcher.Publish(ctx, events.Event{
				ID:        uuid.NewString(),
				Type:      events.EventPromotionExpired,
				Timestamp: now,
				Payload:   events.PromotionExpiredPayload{RestaurantID: restaurant.ID},
			})
		}
	}

	s.metrics.RecordSweep(cleared)
}
