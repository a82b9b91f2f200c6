package service

import (
	"context"
	"fmt"

	"matzip/internal/domain"
	"matzip/internal/schema"
	"matzip/internal/store"
)

// Restaurants returns every restaurant ordered by name
func (s *Service) Restaurants(ctx context.Context) ([]domain.Restaurant, error) {
	c := s.store.View()
	var out []domain.Restaurant
	err := c.Perform(ctx, func() error {
		recs, err := c.FetchAll(schema.Restaurant)
		if err != nil {
			return err
		}
		out = make([]domain.Restaurant, len(recs))
		for i, rec := range recs {
			out[i] = *store.RestaurantFromRecord(rec)
		}
		return nil
	})
	return out, err
}

// RestaurantByID returns the restaurant with the given id, or nil
func (s *Service) RestaurantByID(ctx context.Context, id string) (*domain.Restaurant, error) {
	c := s.store.View()
	var out *domain.Restaurant
	err := c.Perform(ctx, func() error {
		rec, err := c.Fetch(schema.Restaurant, id)
		if err != nil {
			return err
		}
		if rec != nil {
			out = store.RestaurantFromRecord(rec)
		}
		return nil
	})
	return out, err
}

// SaveRestaurant upserts the restaurant and returns the stored value
func (s *Service) SaveRestaurant(ctx context.Context, r *domain.Restaurant) (*domain.Restaurant, error) {
	if err := r.Validate(); err != nil {
		return nil, fmt.Errorf("validate restaurant: %w", err)
	}

	c := s.store.View()
	var out *domain.Restaurant
	err := c.Perform(ctx, func() error {
		existing, err := c.Fetch(schema.Restaurant, r.ID)
		if err != nil {
			return err
		}
		rec := store.RestaurantRecord(r, existing)
		c.Stage(schema.Restaurant, rec)
		if err := c.Save(); err != nil {
			return err
		}
		out = store.RestaurantFromRecord(rec)
		return nil
	})
	return out, err
}

// DeleteRestaurant removes the restaurant and, by cascade, its
// reviews. Lists that reference the restaurant keep their other
// members; the dangling id simply resolves to nothing. Deleting an
// unknown id is a silent no-op.
func (s *Service) DeleteRestaurant(ctx context.Context, id string) error {
	c := s.store.View()
	return c.Perform(ctx, func() error {
		if err := c.Delete(schema.Restaurant, id); err != nil {
			return err
		}
		return c.Save()
	})
}

// SetFavorite flips the favorite flag on a stored restaurant.
// Returns nil when the restaurant does not exist.
func (s *Service) SetFavorite(ctx context.Context, id string, favorite bool) (*domain.Restaurant, error) {
	c := s.store.View()
	var out *domain.Restaurant
	err := c.Perform(ctx, func() error {
		existing, err := c.Fetch(schema.Restaurant, id)
		if err != nil {
			return err
		}
		if existing == nil {
			return nil
		}
		r := store.RestaurantFromRecord(existing)
		r.IsFavorite = favorite
		rec := store.RestaurantRecord(r, existing)
		c.Stage(schema.Restaurant, rec)
		if err := c.Save(); err != nil {
			return err
		}
		out = store.RestaurantFromRecord(rec)
		return nil
	})
	return out, err
}
