package domain

import (
	"time"

	"github.com/google/uuid"
)

// Category is the cuisine tag of a restaurant
type Category string

const (
	CategoryKorean   Category = "korean"
	CategoryChinese  Category = "chinese"
	CategoryJapanese Category = "japanese"
	CategoryWestern  Category = "western"
	CategoryCafe     Category = "cafe"
	CategoryFastFood Category = "fastfood"
	CategoryDessert  Category = "dessert"
	CategoryOther    Category = "other"
)

// Categories lists every known category in display order
var Categories = []Category{
	CategoryKorean,
	CategoryChinese,
	CategoryJapanese,
	CategoryWestern,
	CategoryCafe,
	CategoryFastFood,
	CategoryDessert,
	CategoryOther,
}

// ParseCategory converts a string to Category, defaulting to CategoryOther
func ParseCategory(s string) Category {
	for _, c := range Categories {
		if string(c) == s {
			return c
		}
	}
	return CategoryOther
}

// PriceRange is the ordinal price tier of a restaurant (1 = cheapest)
type PriceRange int

const (
	PriceLow    PriceRange = 1
	PriceMedium PriceRange = 2
	PriceHigh   PriceRange = 3
	PriceLuxury PriceRange = 4
)

// ParsePriceRange converts an ordinal to PriceRange, defaulting to PriceMedium
func ParsePriceRange(n int) PriceRange {
	if n < int(PriceLow) || n > int(PriceLuxury) {
		return PriceMedium
	}
	return PriceRange(n)
}

// Restaurant is a place users review and collect into lists.
//
// Rating and ReviewCount are derived from the restaurant's reviews and
// are recomputed by the service layer on every review write.
type Restaurant struct {
	ID          string     `json:"id" validate:"required"`
	Name        string     `json:"name" validate:"required"`
	Category    Category   `json:"category"`
	Address     string     `json:"address"`
	Latitude    float64    `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude   float64    `json:"longitude" validate:"gte=-180,lte=180"`
	PhoneNumber string     `json:"phone_number,omitempty"`
	Rating      float64    `json:"rating" validate:"gte=0,lte=5"`
	ReviewCount int        `json:"review_count" validate:"gte=0"`
	PriceRange  PriceRange `json:"price_range" validate:"gte=1,lte=4"`
	Description string     `json:"description,omitempty"`
	ImageURLs   []string   `json:"image_urls,omitempty"`
	IsFavorite  bool       `json:"is_favorite"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// NewRestaurant creates a restaurant with a fresh id and sane defaults
func NewRestaurant(name string, category Category, address string) *Restaurant {
	return &Restaurant{
		ID:         uuid.NewString(),
		Name:       name,
		Category:   category,
		Address:    address,
		PriceRange: PriceMedium,
	}
}
