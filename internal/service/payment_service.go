package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/marketplace-service/internal/config"
	"github.com/spec-kit/marketplace-service/internal/domain"
	"github.com/spec-kit/marketplace-service/internal/events"
	"github.com/spec-kit/marketplace-service/internal/repository"
)

// PaymentService handles promotion purchases. A successful payment is the
// only writer that turns promotion on; the sweeper is the only writer that
// turns it off.
type PaymentService struct {
	payments    repository.PaymentRepository
	restaurants repository.RestaurantRepository
	dispatcher  events.Dispatcher
	window      time.Duration
	now         func() time.Time
}

// PaymentDependencies bundles repositories for the payment service.
type PaymentDependencies struct {
	PaymentRepo    repository.PaymentRepository
	RestaurantRepo repository.RestaurantRepository
	Dispatcher     events.Dispatcher
}

// NewPaymentService constructs the service.
func NewPaymentService(cfg config.Config, deps PaymentDependencies) *PaymentService {
	return &PaymentService{
		payments:    deps.PaymentRepo,
		restaurants: deps.RestaurantRepo,
		dispatcher:  deps.Dispatcher,
		window:      cfg.Promotion.PromotionWindow(),
		now:         time.Now,
	}
}

// CreatePayment records a promotion purchase and opens the promotion window
// on the restaurant.
func (s *PaymentService) CreatePayment(ctx context.Context, owner *domain.User, transactionID string, restaurantID int64) (*domain.Payment, error) {
	restaurant, err := s.restaurants.GetByID(ctx, restaurantID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrRestaurantNotFound
		}
		return nil, err
	}
	if restaurant.OwnerID != owner.ID {
		return nil, ErrNotRestaurantOwner
	}

	until := s.now().Add(s.window)
	restaurant.IsPromoted = true
	restaurant.PromoteUntil = &until
	if err := s.restaurants.Update(ctx, restaurant); err != nil {
		return nil, err
	}

	payment := &domain.Payment{
		TransactionID: transactionID,
		UserID:        owner.ID,
		RestaurantID:  restaurant.ID,
	}
	if err := s.payments.Create(ctx, payment); err != nil {
		return nil, err
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventRestaurantPromoted,
			Timestamp: s.now(),
			Payload: events.RestaurantPromotedPayload{
				RestaurantID: restaurant.ID,
				PromoteUntil: until,
			},
		})
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventPaymentCreated,
			Timestamp: s.now(),
			Payload: events.PaymentCreatedPayload{
				PaymentID:     payment.ID,
				TransactionID: payment.TransactionID,
				RestaurantID:  restaurant.ID,
				OwnerID:       owner.ID,
			},
		})
	}
	return payment, nil
}

// GetPayments lists the caller's promotion purchases.
func (s *PaymentService) GetPayments(ctx context.Context, user *domain.User) ([]*domain.Payment, error) {
	return s.payments.ListByUser(ctx, user.ID)
}
