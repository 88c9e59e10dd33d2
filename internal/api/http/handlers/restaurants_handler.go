package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/marketplace-service/internal/api/dto"
	"github.com/spec-kit/marketplace-service/internal/auth"
	"github.com/spec-kit/marketplace-service/internal/domain"
	"github.com/spec-kit/marketplace-service/internal/service"
)

// RestaurantsHandler exposes restaurant, category and menu endpoints.
type RestaurantsHandler struct {
	restaurants *service.RestaurantService
}

// NewRestaurantsHandler constructs handler.
func NewRestaurantsHandler(restaurants *service.RestaurantService) *RestaurantsHandler {
	return &RestaurantsHandler{restaurants: restaurants}
}

// Create handles POST /api/restaurants.
func (h *RestaurantsHandler) Create(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)

	var req dto.RestaurantRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Name == "" {
		return fiber.NewError(http.StatusBadRequest, "name required")
	}

	restaurant, err := h.restaurants.CreateRestaurant(c.Context(), principal, service.RestaurantInput{
		Name:         req.Name,
		CoverImage:   req.CoverImage,
		Address:      req.Address,
		CategoryName: req.CategoryName,
	})
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": restaurantResponse(restaurant)})
}

// Edit handles PUT /api/restaurants/:id.
func (h *RestaurantsHandler) Edit(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid restaurant id")
	}

	var req dto.RestaurantRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	if err := h.restaurants.EditRestaurant(c.Context(), principal, id, service.RestaurantInput{
		Name:         req.Name,
		CoverImage:   req.CoverImage,
		Address:      req.Address,
		CategoryName: req.CategoryName,
	}); err != nil {
		return restaurantError(err)
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"updated": true}})
}

// Delete handles DELETE /api/restaurants/:id.
func (h *RestaurantsHandler) Delete(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid restaurant id")
	}

	if err := h.restaurants.DeleteRestaurant(c.Context(), principal, id); err != nil {
		return restaurantError(err)
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"deleted": true}})
}

// List handles GET /api/restaurants.
func (h *RestaurantsHandler) List(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	restaurants, total, err := h.restaurants.ListRestaurants(c.Context(), page, c.QueryInt("page_size", 25))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"restaurants": restaurantResponses(restaurants),
			"total":       total,
			"page":        page,
		},
	})
}

// Get handles GET /api/restaurants/:id.
func (h *RestaurantsHandler) Get(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid restaurant id")
	}

	restaurant, menu, err := h.restaurants.FindRestaurantByID(c.Context(), id)
	if err != nil {
		return restaurantError(err)
	}
	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"restaurant": restaurantResponse(restaurant),
			"menu":       dishResponses(menu),
		},
	})
}

// Search handles GET /api/restaurants/search.
func (h *RestaurantsHandler) Search(c *fiber.Ctx) error {
	term := c.Query("q")
	if term == "" {
		return fiber.NewError(http.StatusBadRequest, "q required")
	}
	page := c.QueryInt("page", 1)

	restaurants, total, err := h.restaurants.SearchRestaurants(c.Context(), term, page, c.QueryInt("page_size", 25))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"restaurants": restaurantResponses(restaurants),
			"total":       total,
			"page":        page,
		},
	})
}

// Mine handles GET /api/owner/restaurants.
func (h *RestaurantsHandler) Mine(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)

	restaurants, err := h.restaurants.MyRestaurants(c.Context(), principal)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"restaurants": restaurantResponses(restaurants)}})
}

// MyRestaurant handles GET /api/owner/restaurants/:id.
func (h *RestaurantsHandler) MyRestaurant(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid restaurant id")
	}

	restaurant, menu, err := h.restaurants.MyRestaurant(c.Context(), principal, id)
	if err != nil {
		return restaurantError(err)
	}
	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"restaurant": restaurantResponse(restaurant),
			"menu":       dishResponses(menu),
		},
	})
}

// Categories handles GET /api/categories.
func (h *RestaurantsHandler) Categories(c *fiber.Ctx) error {
	categories, counts, err := h.restaurants.AllCategories(c.Context())
	if err != nil {
		return err
	}
	out := make([]dto.CategoryResponse, 0, len(categories))
	for _, category := range categories {
		out = append(out, dto.CategoryResponse{
			ID:              category.ID,
			Name:            category.Name,
			Slug:            category.Slug,
			CoverImage:      category.CoverImage,
			RestaurantCount: counts[category.ID],
		})
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"categories": out}})
}

// Category handles GET /api/categories/:slug.
func (h *RestaurantsHandler) Category(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	category, restaurants, total, err := h.restaurants.CategoryBySlug(c.Context(), c.Params("slug"), page, c.QueryInt("page_size", 25))
	if err != nil {
		return restaurantError(err)
	}
	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"category": dto.CategoryResponse{
				ID:         category.ID,
				Name:       category.Name,
				Slug:       category.Slug,
				CoverImage: category.CoverImage,
			},
			"restaurants": restaurantResponses(restaurants),
			"total":       total,
			"page":        page,
		},
	})
}

// CreateDish handles POST /api/dishes.
func (h *RestaurantsHandler) CreateDish(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)

	var req dto.DishRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Name == "" || req.RestaurantID == 0 || req.Price <= 0 {
		return fiber.NewError(http.StatusBadRequest, "restaurant_id, name and price required")
	}

	dish, err := h.restaurants.CreateDish(c.Context(), principal, service.DishInput{
		RestaurantID: req.RestaurantID,
		Name:         req.Name,
		Price:        req.Price,
		Photo:        req.Photo,
		Description:  req.Description,
	})
	if err != nil {
		return restaurantError(err)
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dishResponse(dish)})
}

// EditDish handles PUT /api/dishes/:id.
func (h *RestaurantsHandler) EditDish(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid dish id")
	}

	var req dto.DishRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	if err := h.restaurants.EditDish(c.Context(), principal, id, service.DishInput{
		Name:        req.Name,
		Price:       req.Price,
		Photo:       req.Photo,
		Description: req.Description,
	}); err != nil {
		return restaurantError(err)
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"updated": true}})
}

// DeleteDish handles DELETE /api/dishes/:id.
func (h *RestaurantsHandler) DeleteDish(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid dish id")
	}

	if err := h.restaurants.DeleteDish(c.Context(), principal, id); err != nil {
		return restaurantError(err)
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"deleted": true}})
}

func restaurantError(err error) error {
	switch err {
	case service.ErrRestaurantNotFound, service.ErrDishNotFound, service.ErrCategoryNotFound:
		return fiber.NewError(http.StatusNotFound, err.Error())
	case service.ErrNotRestaurantOwner:
		return fiber.NewError(http.StatusForbidden, err.Error())
	default:
		return err
	}
}

func restaurantResponse(restaurant *domain.Restaurant) dto.RestaurantResponse {
	return dto.RestaurantResponse{
		ID:           restaurant.ID,
		Name:         restaurant.Name,
		CoverImage:   restaurant.CoverImage,
		Address:      restaurant.Address,
		CategoryID:   restaurant.CategoryID,
		OwnerID:      restaurant.OwnerID,
		IsPromoted:   restaurant.IsPromoted,
		PromoteUntil: restaurant.PromoteUntil,
	}
}

func restaurantResponses(restaurants []*domain.Restaurant) []dto.RestaurantResponse {
	out := make([]dto.RestaurantResponse, 0, len(restaurants))
	for _, restaurant := range restaurants {
		out = append(out, restaurantResponse(restaurant))
	}
	return out
}

func dishResponse(dish *domain.Dish) dto.DishResponse {
	return dto.DishResponse{
		ID:           dish.ID,
		RestaurantID: dish.RestaurantID,
		Name:         dish.Name,
		Price:        dish.Price,
		Photo:        dish.Photo,
		Description:  dish.Description,
	}
}

func dishResponses(dishes []*domain.Dish) []dto.DishResponse {
	out := make([]dto.DishResponse, 0, len(dishes))
	for _, dish := range dishes {
		out = append(out, dishResponse(dish))
	}
	return out
}
