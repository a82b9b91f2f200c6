package service

import (
	"context"

	"matzip/internal/domain"
	"matzip/internal/schema"
	"matzip/internal/store"
)

// InitializeIfEmpty runs the supplied seed exactly when the store
// holds no restaurants, staging the seeded records on a background
// context and committing them in one save. A store with any existing
// restaurant performs zero writes.
//
// The emptiness probe and the seed commit are not one atomic step:
// two callers racing through startup can both observe an empty store
// and both seed. Callers are expected to initialize once, and seed
// suppliers should produce stable ids so a double run upserts rather
// than duplicates.
func (s *Service) InitializeIfEmpty(ctx context.Context, seed func() []domain.Restaurant) error {
	view := s.store.View()
	empty := false
	err := view.Perform(ctx, func() error {
		n, err := view.Count(schema.Restaurant, 1)
		if err != nil {
			return err
		}
		empty = n == 0
		return nil
	})
	if err != nil {
		return err
	}
	if !empty {
		s.log.Debug("store already populated, skipping seed")
		return nil
	}

	bg := s.store.NewBackgroundContext()
	defer bg.Close()

	return bg.Perform(ctx, func() error {
		restaurants := seed()
		for i := range restaurants {
			r := &restaurants[i]
			bg.Stage(schema.Restaurant, store.RestaurantRecord(r, nil))
		}
		if err := bg.Save(); err != nil {
			return err
		}
		s.log.Info("seeded store", "restaurants", len(restaurants))
		return nil
	})
}
