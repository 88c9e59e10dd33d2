package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/marketplace-service/internal/domain"
	"github.com/spec-kit/marketplace-service/internal/repository"
)

// Fixed user-facing error values for restaurant flows.
var (
	ErrRestaurantNotFound = errors.New("restaurant not found")
	ErrNotRestaurantOwner = errors.New("you are not allowed to do this")
	ErrCategoryNotFound   = errors.New("category not found")
	ErrDishNotFound       = errors.New("dish not found")
)

// RestaurantService coordinates restaurant, category and menu workflows.
type RestaurantService struct {
	restaurants repository.RestaurantRepository
	categories  repository.CategoryRepository
	dishes      repository.DishRepository
}

// RestaurantDependencies bundles repositories for the restaurant service.
type RestaurantDependencies struct {
	RestaurantRepo repository.RestaurantRepository
	CategoryRepo   repository.CategoryRepository
	DishRepo       repository.DishRepository
}

// RestaurantInput describes create/edit payloads.
type RestaurantInput struct {
	Name         string
	CoverImage   string
	Address      string
	CategoryName string
}

// DishInput describes dish create/edit payloads.
type DishInput struct {
	RestaurantID int64
	Name         string
	Price        int
	Photo        string
	Description  string
}

// NewRestaurantService constructs the service.
func NewRestaurantService(deps RestaurantDependencies) *RestaurantService {
	return &RestaurantService{
		restaurants: deps.RestaurantRepo,
		categories:  deps.CategoryRepo,
		dishes:      deps.DishRepo,
	}
}

// CreateRestaurant creates a restaurant owned by the caller.
func (s *RestaurantService) CreateRestaurant(ctx context.Context, owner *domain.User, input RestaurantInput) (*domain.Restaurant, error) {
	restaurant := &domain.Restaurant{
		Name:       input.Name,
		CoverImage: input.CoverImage,
		Address:    input.Address,
		OwnerID:    owner.ID,
	}
	if input.CategoryName != "" {
		category, err := s.categories.GetOrCreate(ctx, input.CategoryName)
		if err != nil {
			return nil, err
		}
		restaurant.CategoryID = &category.ID
	}
	if err := s.restaurants.Create(ctx, restaurant); err != nil {
		return nil, err
	}
	return restaurant, nil
}

// EditRestaurant updates a restaurant after verifying ownership.
func (s *RestaurantService) EditRestaurant(ctx context.Context, owner *domain.User, restaurantID int64, input RestaurantInput) error {
	restaurant, err := s.ownedRestaurant(ctx, owner, restaurantID)
	if err != nil {
		return err
	}

	if input.Name != "" {
		restaurant.Name = input.Name
	}
	if input.CoverImage != "" {
		restaurant.CoverImage = input.CoverImage
	}
	if input.Address != "" {
		restaurant.Address = input.Address
	}
	if input.CategoryName != "" {
		category, err := s.categories.GetOrCreate(ctx, input.CategoryName)
		if err != nil {
			return err
		}
		restaurant.CategoryID = &category.ID
	}
	return s.restaurants.Update(ctx, restaurant)
}

// DeleteRestaurant removes a restaurant after verifying ownership.
func (s *RestaurantService) DeleteRestaurant(ctx context.Context, owner *domain.User, restaurantID int64) error {
	if _, err := s.ownedRestaurant(ctx, owner, restaurantID); err != nil {
		return err
	}
	return s.restaurants.Delete(ctx, restaurantID)
}

// ListRestaurants returns a page of restaurants, promoted entries first.
func (s *RestaurantService) ListRestaurants(ctx context.Context, page, pageSize int) ([]*domain.Restaurant, int64, error) {
	offset, limit := pageBounds(page, pageSize)
	return s.restaurants.List(ctx, offset, limit)
}

// FindRestaurantByID returns a restaurant with its menu.
func (s *RestaurantService) FindRestaurantByID(ctx context.Context, id int64) (*domain.Restaurant, []*domain.Dish, error) {
	restaurant, err := s.restaurants.GetByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil, ErrRestaurantNotFound
		}
		return nil, nil, err
	}
	menu, err := s.dishes.ListByRestaurant(ctx, restaurant.ID)
	if err != nil {
		return nil, nil, err
	}
	return restaurant, menu, nil
}

// SearchRestaurants returns restaurants matching the term.
func (s *RestaurantService) SearchRestaurants(ctx context.Context, term string, page, pageSize int) ([]*domain.Restaurant, int64, error) {
	offset, limit := pageBounds(page, pageSize)
	return s.restaurants.Search(ctx, term, offset, limit)
}

// MyRestaurants lists the caller's restaurants.
func (s *RestaurantService) MyRestaurants(ctx context.Context, owner *domain.User) ([]*domain.Restaurant, error) {
	return s.restaurants.ListByOwner(ctx, owner.ID)
}

// MyRestaurant returns one of the caller's restaurants with its menu.
func (s *RestaurantService) MyRestaurant(ctx context.Context, owner *domain.User, restaurantID int64) (*domain.Restaurant, []*domain.Dish, error) {
	restaurant, err := s.ownedRestaurant(ctx, owner, restaurantID)
	if err != nil {
		return nil, nil, err
	}
	menu, err := s.dishes.ListByRestaurant(ctx, restaurant.ID)
	if err != nil {
		return nil, nil, err
	}
	return restaurant, menu, nil
}

// AllCategories lists categories with restaurant counts.
func (s *RestaurantService) AllCategories(ctx context.Context) ([]*domain.Category, map[int64]int64, error) {
	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, nil, err
	}
	counts := make(map[int64]int64, len(categories))
	for _, category := range categories {
		count, err := s.categories.CountRestaurants(ctx, category.ID)
		if err != nil {
			return nil, nil, err
		}
		counts[category.ID] = count
	}
	return categories, counts, nil
}

// CategoryBySlug returns a category and a page of its restaurants.
func (s *RestaurantService) CategoryBySlug(ctx context.Context, slug string, page, pageSize int) (*domain.Category, []*domain.Restaurant, int64, error) {
	category, err := s.categories.GetBySlug(ctx, slug)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil, 0, ErrCategoryNotFound
		}
		return nil, nil, 0, err
	}
	offset, limit := pageBounds(page, pageSize)
	restaurants, total, err := s.restaurants.ListByCategory(ctx, category.ID, offset, limit)
	if err != nil {
		return nil, nil, 0, err
	}
	return category, restaurants, total, nil
}

// CreateDish adds a menu item to one of the caller's restaurants.
func (s *RestaurantService) CreateDish(ctx context.Context, owner *domain.User, input DishInput) (*domain.Dish, error) {
	if _, err := s.ownedRestaurant(ctx, owner, input.RestaurantID); err != nil {
		return nil, err
	}
	dish := &domain.Dish{
		RestaurantID: input.RestaurantID,
		Name:         input.Name,
		Price:        input.Price,
		Photo:        input.Photo,
		Description:  input.Description,
	}
	if err := s.dishes.Create(ctx, dish); err != nil {
		return nil, err
	}
	return dish, nil
}

// EditDish updates a menu item; ownership is checked via the dish's restaurant.
func (s *RestaurantService) EditDish(ctx context.Context, owner *domain.User, dishID int64, input DishInput) error {
	dish, err := s.ownedDish(ctx, owner, dishID)
	if err != nil {
		return err
	}
	if input.Name != "" {
		dish.Name = input.Name
	}
	if input.Price > 0 {
		dish.Price = input.Price
	}
	if input.Photo != "" {
		dish.Photo = input.Photo
	}
	if input.Description != "" {
		dish.Description = input.Description
	}
	return s.dishes.Update(ctx, dish)
}

// DeleteDish removes a menu item after the ownership check.
func (s *RestaurantService) DeleteDish(ctx context.Context, owner *domain.User, dishID int64) error {
	if _, err := s.ownedDish(ctx, owner, dishID); err != nil {
		return err
	}
	return s.dishes.Delete(ctx, dishID)
}

func (s *RestaurantService) ownedRestaurant(ctx context.Context, owner *domain.User, restaurantID int64) (*domain.Restaurant, error) {
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
	return restaurant, nil
}

func (s *RestaurantService) ownedDish(ctx context.Context, owner *domain.User, dishID int64) (*domain.Dish, error) {
	dish, err := s.dishes.GetByID(ctx, dishID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrDishNotFound
		}
		return nil, err
	}
	if _, err := s.ownedRestaurant(ctx, owner, dish.RestaurantID); err != nil {
		return nil, err
	}
	return dish, nil
}

func pageBounds(page, pageSize int) (offset, limit int) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 25
	}
	return (page - 1) * pageSize, pageSize
}
