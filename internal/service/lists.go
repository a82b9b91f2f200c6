package service

import (
	"context"
	"fmt"

	"matzip/internal/domain"
	"matzip/internal/schema"
	"matzip/internal/store"
)

// ListsFor returns a user's lists, newest first
func (s *Service) ListsFor(ctx context.Context, userID string) ([]domain.UserList, error) {
	return s.fetchLists(ctx, "user_id = ?", userID)
}

// PublicLists returns every public list, newest first
func (s *Service) PublicLists(ctx context.Context) ([]domain.UserList, error) {
	return s.fetchLists(ctx, "is_public = 1")
}

// PublicListsForUsers returns the public lists owned by any of the
// given users, newest first. Feeds build on this.
func (s *Service) PublicListsForUsers(ctx context.Context, userIDs []string) ([]domain.UserList, error) {
	lists, err := s.PublicLists(ctx)
	if err != nil {
		return nil, err
	}
	owners := make(map[string]struct{}, len(userIDs))
	for _, id := range userIDs {
		owners[id] = struct{}{}
	}
	out := lists[:0:0]
	for _, l := range lists {
		if _, ok := owners[l.UserID]; ok {
			out = append(out, l)
		}
	}
	return out, nil
}

func (s *Service) fetchLists(ctx context.Context, cond string, args ...any) ([]domain.UserList, error) {
	c := s.store.View()
	var out []domain.UserList
	err := c.Perform(ctx, func() error {
		recs, err := c.FetchWhere(schema.UserList, cond, args...)
		if err != nil {
			return err
		}
		out = make([]domain.UserList, len(recs))
		for i, rec := range recs {
			out[i] = *store.UserListFromRecord(rec)
		}
		return nil
	})
	return out, err
}

// ListByID returns the list with the given id, or nil
func (s *Service) ListByID(ctx context.Context, id string) (*domain.UserList, error) {
	c := s.store.View()
	var out *domain.UserList
	err := c.Perform(ctx, func() error {
		rec, err := c.Fetch(schema.UserList, id)
		if err != nil {
			return err
		}
		if rec != nil {
			out = store.UserListFromRecord(rec)
		}
		return nil
	})
	return out, err
}

// SaveList upserts the list and returns the stored value
func (s *Service) SaveList(ctx context.Context, l *domain.UserList) (*domain.UserList, error) {
	if err := l.Validate(); err != nil {
		return nil, fmt.Errorf("validate list: %w", err)
	}

	c := s.store.View()
	var out *domain.UserList
	err := c.Perform(ctx, func() error {
		existing, err := c.Fetch(schema.UserList, l.ID)
		if err != nil {
			return err
		}
		rec := store.UserListRecord(l, existing)
		c.Stage(schema.UserList, rec)
		if err := c.Save(); err != nil {
			return err
		}
		out = store.UserListFromRecord(rec)
		return nil
	})
	return out, err
}

// DeleteList removes the list. Member restaurants are untouched.
func (s *Service) DeleteList(ctx context.Context, id string) error {
	c := s.store.View()
	return c.Perform(ctx, func() error {
		if err := c.Delete(schema.UserList, id); err != nil {
			return err
		}
		return c.Save()
	})
}

// AddRestaurantToList appends the restaurant id to the list's
// membership. Adding an id already present performs no write and
// returns the unchanged list. Returns nil for an unknown list.
func (s *Service) AddRestaurantToList(ctx context.Context, listID, restaurantID string) (*domain.UserList, error) {
	return s.mutateList(ctx, listID, func(l *domain.UserList) bool {
		return l.AddRestaurant(restaurantID)
	})
}

// RemoveRestaurantFromList drops the restaurant id from the list's
// membership. Removing an absent id performs no write.
func (s *Service) RemoveRestaurantFromList(ctx context.Context, listID, restaurantID string) (*domain.UserList, error) {
	return s.mutateList(ctx, listID, func(l *domain.UserList) bool {
		return l.RemoveRestaurant(restaurantID)
	})
}

func (s *Service) mutateList(ctx context.Context, listID string, mutate func(*domain.UserList) bool) (*domain.UserList, error) {
	c := s.store.View()
	var out *domain.UserList
	err := c.Perform(ctx, func() error {
		existing, err := c.Fetch(schema.UserList, listID)
		if err != nil {
			return err
		}
		if existing == nil {
			return nil
		}

		l := store.UserListFromRecord(existing)
		if !mutate(l) {
			out = l
			return nil
		}

		rec := store.UserListRecord(l, existing)
		c.Stage(schema.UserList, rec)
		if err := c.Save(); err != nil {
			return err
		}
		out = store.UserListFromRecord(rec)
		return nil
	})
	return out, err
}

// ResolveListRestaurants returns the stored restaurants behind a
// list's membership, in membership order. Ids whose restaurant has
// been deleted are skipped; the list itself is never touched.
func (s *Service) ResolveListRestaurants(ctx context.Context, listID string) ([]domain.Restaurant, error) {
	c := s.store.View()
	var out []domain.Restaurant
	err := c.Perform(ctx, func() error {
		listRec, err := c.Fetch(schema.UserList, listID)
		if err != nil {
			return err
		}
		if listRec == nil {
			return nil
		}

		l := store.UserListFromRecord(listRec)
		out = make([]domain.Restaurant, 0, len(l.RestaurantIDs))
		for _, id := range l.RestaurantIDs {
			rec, err := c.Fetch(schema.Restaurant, id)
			if err != nil {
				return err
			}
			if rec == nil {
				continue
			}
			out = append(out, *store.RestaurantFromRecord(rec))
		}
		return nil
	})
	return out, err
}
