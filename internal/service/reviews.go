package service

import (
	"context"
	"fmt"

	"matzip/internal/domain"
	"matzip/internal/schema"
	"matzip/internal/store"
)

// ReviewsFor returns the reviews of a restaurant, newest first
func (s *Service) ReviewsFor(ctx context.Context, restaurantID string) ([]domain.Review, error) {
	c := s.store.View()
	var out []domain.Review
	err := c.Perform(ctx, func() error {
		recs, err := c.FetchWhere(schema.Review, "restaurant_id = ?", restaurantID)
		if err != nil {
			return err
		}
		out = make([]domain.Review, len(recs))
		for i, rec := range recs {
			out[i] = *store.ReviewFromRecord(rec)
		}
		return nil
	})
	return out, err
}

// ReviewByID returns the review with the given id, or nil
func (s *Service) ReviewByID(ctx context.Context, id string) (*domain.Review, error) {
	c := s.store.View()
	var out *domain.Review
	err := c.Perform(ctx, func() error {
		rec, err := c.Fetch(schema.Review, id)
		if err != nil {
			return err
		}
		if rec != nil {
			out = store.ReviewFromRecord(rec)
		}
		return nil
	})
	return out, err
}

// SaveReview upserts the review and recomputes the parent
// restaurant's derived rating and review count. The review's
// restaurant reference must resolve to a stored restaurant.
func (s *Service) SaveReview(ctx context.Context, r *domain.Review) (*domain.Review, error) {
	if err := r.Validate(); err != nil {
		return nil, fmt.Errorf("validate review: %w", err)
	}

	c := s.store.View()
	var out *domain.Review
	err := c.Perform(ctx, func() error {
		parent, err := c.Fetch(schema.Restaurant, r.RestaurantID)
		if err != nil {
			return err
		}
		if parent == nil {
			return fmt.Errorf("save review %s: %w", r.ID, ErrRestaurantNotFound)
		}

		existing, err := c.Fetch(schema.Review, r.ID)
		if err != nil {
			return err
		}
		rec := store.ReviewRecord(r, existing)
		c.Stage(schema.Review, rec)
		if err := c.Save(); err != nil {
			return err
		}
		out = store.ReviewFromRecord(rec)

		return s.recomputeRating(c, r.RestaurantID)
	})
	return out, err
}

// DeleteReview removes the review and recomputes the parent
// restaurant's derived rating. Deleting an unknown id is a no-op.
func (s *Service) DeleteReview(ctx context.Context, id string) error {
	c := s.store.View()
	return c.Perform(ctx, func() error {
		rec, err := c.Fetch(schema.Review, id)
		if err != nil {
			return err
		}
		if rec == nil {
			return nil
		}
		restaurantID := rec.String("restaurant_id")

		if err := c.Delete(schema.Review, id); err != nil {
			return err
		}
		if err := c.Save(); err != nil {
			return err
		}

		return s.recomputeRating(c, restaurantID)
	})
}

// recomputeRating mirrors the arithmetic mean of the committed
// reviews onto the parent restaurant. Runs on the context worker
// after a review commit; a vanished parent is not an error.
func (s *Service) recomputeRating(c *store.Context, restaurantID string) error {
	parent, err := c.Fetch(schema.Restaurant, restaurantID)
	if err != nil {
		return err
	}
	if parent == nil {
		return nil
	}

	recs, err := c.FetchWhere(schema.Review, "restaurant_id = ?", restaurantID)
	if err != nil {
		return err
	}

	var sum float64
	for _, rec := range recs {
		sum += rec.Float("rating")
	}
	rating := 0.0
	if len(recs) > 0 {
		rating = sum / float64(len(recs))
	}

	r := store.RestaurantFromRecord(parent)
	r.Rating = rating
	r.ReviewCount = len(recs)
	c.Stage(schema.Restaurant, store.RestaurantRecord(r, parent))
	return c.Save()
}
