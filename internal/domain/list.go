package domain

import (
	"time"

	"github.com/google/uuid"
)

// UserList is a user-curated collection of restaurant ids.
//
// Membership is order-preserving and duplicate-free. The referenced
// restaurants may be deleted independently; a dangling id stays in the
// list but resolves to nothing.
type UserList struct {
	ID            string    `json:"id" validate:"required"`
	UserID        string    `json:"user_id" validate:"required"`
	Name          string    `json:"name" validate:"required"`
	Description   string    `json:"description,omitempty"`
	RestaurantIDs []string  `json:"restaurant_ids,omitempty"`
	IsPublic      bool      `json:"is_public"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// NewUserList creates an empty private list with a fresh id
func NewUserList(userID, name string) *UserList {
	return &UserList{
		ID:     uuid.NewString(),
		UserID: userID,
		Name:   name,
	}
}

// RestaurantCount returns the number of restaurants in the list
func (l *UserList) RestaurantCount() int {
	return len(l.RestaurantIDs)
}

// Contains reports whether the list already holds the restaurant id
func (l *UserList) Contains(restaurantID string) bool {
	for _, id := range l.RestaurantIDs {
		if id == restaurantID {
			return true
		}
	}
	return false
}

// AddRestaurant appends the id unless already present.
// Returns false when the add was a no-op.
func (l *UserList) AddRestaurant(restaurantID string) bool {
	if l.Contains(restaurantID) {
		return false
	}
	l.RestaurantIDs = append(l.RestaurantIDs, restaurantID)
	return true
}

// RemoveRestaurant drops every occurrence of the id.
// Returns false when the id was not present.
func (l *UserList) RemoveRestaurant(restaurantID string) bool {
	kept := l.RestaurantIDs[:0]
	removed := false
	for _, id := range l.RestaurantIDs {
		if id == restaurantID {
			removed = true
			continue
		}
		kept = append(kept, id)
	}
	l.RestaurantIDs = kept
	return removed
}
