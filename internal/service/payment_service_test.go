package service

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/marketplace-service/internal/config"
	"github.com/spec-kit/marketplace-service/internal/domain"
	"github.com/spec-kit/marketplace-service/internal/events"
)

type fakeRestaurantRepo struct {
	rows map[int64]*domain.Restaurant
}

func newFakeRestaurantRepo(restaurants ...*domain.Restaurant) *fakeRestaurantRepo {
	repo := &fakeRestaurantRepo{rows: make(map[int64]*domain.Restaurant)}
	for _, restaurant := range restaurants {
		stored := *restaurant
		repo.rows[restaurant.ID] = &stored
	}
	return repo
}

func (f *fakeRestaurantRepo) Create(_ context.Context, restaurant *domain.Restaurant) error {
	stored := *restaurant
	f.rows[restaurant.ID] = &stored
	return nil
}

func (f *fakeRestaurantRepo) Update(_ context.Context, restaurant *domain.Restaurant) error {
	if _, ok := f.rows[restaurant.ID]; !ok {
		return pgx.ErrNoRows
	}
	stored := *restaurant
	f.rows[restaurant.ID] = &stored
	return nil
}

func (f *fakeRestaurantRepo) Delete(_ context.Context, id int64) error {
	if _, ok := f.rows[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.rows, id)
	return nil
}

func (f *fakeRestaurantRepo) GetByID(_ context.Context, id int64) (*domain.Restaurant, error) {
	restaurant, ok := f.rows[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *restaurant
	return &copied, nil
}

func (f *fakeRestaurantRepo) List(_ context.Context, _, _ int) ([]*domain.Restaurant, int64, error) {
	return nil, 0, nil
}

func (f *fakeRestaurantRepo) ListByCategory(_ context.Context, _ int64, _, _ int) ([]*domain.Restaurant, int64, error) {
	return nil, 0, nil
}

func (f *fakeRestaurantRepo) ListByOwner(_ context.Context, ownerID int64) ([]*domain.Restaurant, error) {
	matched := make([]*domain.Restaurant, 0)
	for _, restaurant := range f.rows {
		if restaurant.OwnerID == ownerID {
			copied := *restaurant
			matched = append(matched, &copied)
		}
	}
	return matched, nil
}

func (f *fakeRestaurantRepo) Search(_ context.Context, _ string, _, _ int) ([]*domain.Restaurant, int64, error) {
	return nil, 0, nil
}

func (f *fakeRestaurantRepo) FindExpiredPromoted(_ context.Context, now time.Time) ([]*domain.Restaurant, error) {
	matched := make([]*domain.Restaurant, 0)
	for _, restaurant := range f.rows {
		if restaurant.IsPromoted && restaurant.PromoteUntil != nil && !restaurant.PromoteUntil.After(now) {
			copied := *restaurant
			matched = append(matched, &copied)
		}
	}
	return matched, nil
}

type fakePaymentRepo struct {
	nextID int64
	rows   []*domain.Payment
}

func (f *fakePaymentRepo) Create(_ context.Context, payment *domain.Payment) error {
	f.nextID++
	payment.ID = f.nextID
	stored := *payment
	f.rows = append(f.rows, &stored)
	return nil
}

func (f *fakePaymentRepo) ListByUser(_ context.Context, userID int64) ([]*domain.Payment, error) {
	matched := make([]*domain.Payment, 0)
	for _, payment := range f.rows {
		if payment.UserID == userID {
			copied := *payment
			matched = append(matched, &copied)
		}
	}
	return matched, nil
}

func paymentTestConfig() config.Config {
	return config.Config{
		Promotion: config.PromotionConfig{
			SweepIntervalMillis: 2000,
			PromotionDays:       7,
		},
	}
}

func TestCreatePaymentOpensPromotionWindow(t *testing.T) {
	owner := &domain.User{ID: 10, Role: domain.RoleOwner}
	restaurants := newFakeRestaurantRepo(&domain.Restaurant{ID: 1, Name: "bbq", OwnerID: owner.ID})
	payments := &fakePaymentRepo{}
	dispatcher := events.NewInMemoryDispatcher(nil)

	var promotedEvents []events.Event
	dispatcher.Subscribe(events.EventRestaurantPromoted, func(_ context.Context, event events.Event) error {
		promotedEvents = append(promotedEvents, event)
		return nil
	})

	svc := NewPaymentService(paymentTestConfig(), PaymentDependencies{
		PaymentRepo:    payments,
		RestaurantRepo: restaurants,
		Dispatcher:     dispatcher,
	})
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return base }

	payment, err := svc.CreatePayment(context.Background(), owner, "txn-123", 1)
	if err != nil {
		t.Fatalf("create payment: %v", err)
	}
	if payment.ID == 0 {
		t.Fatalf("expected persisted payment id")
	}
	if payment.TransactionID != "txn-123" {
		t.Fatalf("transaction id not recorded: %s", payment.TransactionID)
	}

	restaurant, _ := restaurants.GetByID(context.Background(), 1)
	if !restaurant.IsPromoted {
		t.Fatalf("restaurant not promoted after payment")
	}
	want := base.AddDate(0, 0, 7)
	if restaurant.PromoteUntil == nil || !restaurant.PromoteUntil.Equal(want) {
		t.Fatalf("promote_until = %v, want %v", restaurant.PromoteUntil, want)
	}
	if len(promotedEvents) != 1 {
		t.Fatalf("expected 1 restaurant_promoted event, got %d", len(promotedEvents))
	}
}

func TestCreatePaymentDeniesNonOwner(t *testing.T) {
	restaurants := newFakeRestaurantRepo(&domain.Restaurant{ID: 1, Name: "bbq", OwnerID: 10})
	svc := NewPaymentService(paymentTestConfig(), PaymentDependencies{
		PaymentRepo:    &fakePaymentRepo{},
		RestaurantRepo: restaurants,
	})

	intruder := &domain.User{ID: 99, Role: domain.RoleOwner}
	if _, err := svc.CreatePayment(context.Background(), intruder, "txn-1", 1); err != ErrNotRestaurantOwner {
		t.Fatalf("expected ErrNotRestaurantOwner, got %v", err)
	}

	restaurant, _ := restaurants.GetByID(context.Background(), 1)
	if restaurant.IsPromoted {
		t.Fatalf("denied payment must not promote the restaurant")
	}
}

func TestCreatePaymentMissingRestaurant(t *testing.T) {
	svc := NewPaymentService(paymentTestConfig(), PaymentDependencies{
		PaymentRepo:    &fakePaymentRepo{},
		RestaurantRepo: newFakeRestaurantRepo(),
	})

	owner := &domain.User{ID: 10, Role: domain.RoleOwner}
	if _, err := svc.CreatePayment(context.Background(), owner, "txn-1", 404); err != ErrRestaurantNotFound {
		t.Fatalf("expected ErrRestaurantNotFound, got %v", err)
	}
}

func TestGetPaymentsScopedToCaller(t *testing.T) {
	payments := &fakePaymentRepo{}
	ctx := context.Background()
	_ = payments.Create(ctx, &domain.Payment{TransactionID: "a", UserID: 10, RestaurantID: 1})
	_ = payments.Create(ctx, &domain.Payment{TransactionID: "b", UserID: 20, RestaurantID: 2})

	svc := NewPaymentService(paymentTestConfig(), PaymentDependencies{
		PaymentRepo:    payments,
		RestaurantRepo: newFakeRestaurantRepo(),
	})

	got, err := svc.GetPayments(ctx, &domain.User{ID: 10})
	if err != nil {
		t.Fatalf("get payments: %v", err)
	}
	if len(got) != 1 || got[0].TransactionID != "a" {
		t.Fatalf("unexpected payments for caller: %+v", got)
	}
}
