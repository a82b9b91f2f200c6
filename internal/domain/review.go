package domain

import (
	"time"

	"github.com/google/uuid"
)

// Review is a user's rating and write-up of a single restaurant
type Review struct {
	ID                  string    `json:"id" validate:"required"`
	RestaurantID        string    `json:"restaurant_id" validate:"required"`
	UserID              string    `json:"user_id" validate:"required"`
	UserName            string    `json:"user_name" validate:"required"`
	UserProfileImageURL string    `json:"user_profile_image_url,omitempty"`
	Rating              float64   `json:"rating" validate:"gte=0,lte=5"`
	Content             string    `json:"content,omitempty"`
	ImageURLs           []string  `json:"image_urls,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// NewReview creates a review with a fresh id
func NewReview(restaurantID, userID, userName string, rating float64, content string) *Review {
	return &Review{
		ID:           uuid.NewString(),
		RestaurantID: restaurantID,
		UserID:       userID,
		UserName:     userName,
		Rating:       rating,
		Content:      content,
	}
}
