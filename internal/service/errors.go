package service

import "errors"

// Common service-level errors
var (
	// ErrRestaurantNotFound rejects a review whose restaurant
	// reference does not resolve
	ErrRestaurantNotFound = errors.New("restaurant not found")
)
