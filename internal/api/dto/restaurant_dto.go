package dto

import "time"

// RestaurantRequest payload for create/edit.
type RestaurantRequest struct {
	Name         string `json:"name"`
	CoverImage   string `json:"cover_image"`
	Address      string `json:"address"`
	CategoryName string `json:"category_name"`
}

// DishRequest payload for create/edit of menu items.
type DishRequest struct {
	RestaurantID int64  `json:"restaurant_id"`
	Name         string `json:"name"`
	Price        int    `json:"price"`
	Photo        string `json:"photo"`
	Description  string `json:"description"`
}

// RestaurantResponse is the public shape of a restaurant.
type RestaurantResponse struct {
	ID           int64      `json:"id"`
	Name         string     `json:"name"`
	CoverImage   string     `json:"cover_image"`
	Address      string     `json:"address"`
	CategoryID   *int64     `json:"category_id,omitempty"`
	OwnerID      int64      `json:"owner_id"`
	IsPromoted   bool       `json:"is_promoted"`
	PromoteUntil *time.Time `json:"promote_until,omitempty"`
}

// DishResponse is the public shape of a menu item.
type DishResponse struct {
	ID           int64  `json:"id"`
	RestaurantID int64  `json:"restaurant_id"`
	Name         string `json:"name"`
	Price        int    `json:"price"`
	Photo        string `json:"photo,omitempty"`
	Description  string `json:"description,omitempty"`
}

// CategoryResponse is the public shape of a category.
type CategoryResponse struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	Slug            string `json:"slug"`
	CoverImage      string `json:"cover_image,omitempty"`
	RestaurantCount int64  `json:"restaurant_count"`
}
