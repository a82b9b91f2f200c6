package domain

import "github.com/go-playground/validator/v10"

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the restaurant against its field constraints
func (r *Restaurant) Validate() error {
	return validate.Struct(r)
}

// Validate checks the review against its field constraints
func (r *Review) Validate() error {
	return validate.Struct(r)
}

// Validate checks the list against its field constraints
func (l *UserList) Validate() error {
	return validate.Struct(l)
}

// Validate checks the follow edge against its field constraints
func (f *UserFollow) Validate() error {
	return validate.Struct(f)
}
