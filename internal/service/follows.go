package service

import (
	"context"
	"fmt"

	"matzip/internal/domain"
	"matzip/internal/schema"
	"matzip/internal/store"
)

// FollowsFor returns every follow edge touching the user, in either
// direction, newest first
func (s *Service) FollowsFor(ctx context.Context, userID string) ([]domain.UserFollow, error) {
	c := s.store.View()
	var out []domain.UserFollow
	err := c.Perform(ctx, func() error {
		recs, err := c.FetchWhere(schema.UserFollow, "follower_id = ? OR following_id = ?", userID, userID)
		if err != nil {
			return err
		}
		out = make([]domain.UserFollow, len(recs))
		for i, rec := range recs {
			out[i] = *store.UserFollowFromRecord(rec)
		}
		return nil
	})
	return out, err
}

// FollowByID returns the follow edge with the given id, or nil
func (s *Service) FollowByID(ctx context.Context, id string) (*domain.UserFollow, error) {
	c := s.store.View()
	var out *domain.UserFollow
	err := c.Perform(ctx, func() error {
		rec, err := c.Fetch(schema.UserFollow, id)
		if err != nil {
			return err
		}
		if rec != nil {
			out = store.UserFollowFromRecord(rec)
		}
		return nil
	})
	return out, err
}

// SaveFollow upserts a follow edge and returns the stored value
func (s *Service) SaveFollow(ctx context.Context, f *domain.UserFollow) (*domain.UserFollow, error) {
	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("validate follow: %w", err)
	}

	c := s.store.View()
	var out *domain.UserFollow
	err := c.Perform(ctx, func() error {
		existing, err := c.Fetch(schema.UserFollow, f.ID)
		if err != nil {
			return err
		}
		rec := store.UserFollowRecord(f, existing)
		c.Stage(schema.UserFollow, rec)
		if err := c.Save(); err != nil {
			return err
		}
		out = store.UserFollowFromRecord(rec)
		return nil
	})
	return out, err
}

// DeleteFollow removes a follow edge by id; unknown ids are a no-op
func (s *Service) DeleteFollow(ctx context.Context, id string) error {
	c := s.store.View()
	return c.Perform(ctx, func() error {
		if err := c.Delete(schema.UserFollow, id); err != nil {
			return err
		}
		return c.Save()
	})
}

// Follow creates the follower→following edge. If the edge already
// exists it is returned unchanged instead of duplicated.
func (s *Service) Follow(ctx context.Context, followerID, followingID string) (*domain.UserFollow, error) {
	existing, err := s.findEdge(ctx, followerID, followingID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}
	return s.SaveFollow(ctx, domain.NewUserFollow(followerID, followingID))
}

// Unfollow removes every follower→following edge between the two users
func (s *Service) Unfollow(ctx context.Context, followerID, followingID string) error {
	c := s.store.View()
	return c.Perform(ctx, func() error {
		recs, err := c.FetchWhere(schema.UserFollow, "follower_id = ? AND following_id = ?", followerID, followingID)
		if err != nil {
			return err
		}
		for _, rec := range recs {
			if err := c.Delete(schema.UserFollow, rec.String("id")); err != nil {
				return err
			}
		}
		return c.Save()
	})
}

// IsFollowing reports whether follower follows following
func (s *Service) IsFollowing(ctx context.Context, followerID, followingID string) (bool, error) {
	edge, err := s.findEdge(ctx, followerID, followingID)
	return edge != nil, err
}

// FollowStatus combines both edge directions between two users
func (s *Service) FollowStatus(ctx context.Context, userID, otherID string) (domain.FollowStatus, error) {
	following, err := s.IsFollowing(ctx, userID, otherID)
	if err != nil {
		return domain.FollowStatusNone, err
	}
	followedBy, err := s.IsFollowing(ctx, otherID, userID)
	if err != nil {
		return domain.FollowStatusNone, err
	}
	return domain.FollowStatusOf(following, followedBy), nil
}

// FollowerCount returns how many users follow the given user
func (s *Service) FollowerCount(ctx context.Context, userID string) (int, error) {
	return s.countEdges(ctx, "following_id = ?", userID)
}

// FollowingCount returns how many users the given user follows
func (s *Service) FollowingCount(ctx context.Context, userID string) (int, error) {
	return s.countEdges(ctx, "follower_id = ?", userID)
}

// MutualFollowCount returns how many users both follow
func (s *Service) MutualFollowCount(ctx context.Context, userID, otherID string) (int, error) {
	c := s.store.View()
	var n int
	err := c.Perform(ctx, func() error {
		mine, err := c.FetchWhere(schema.UserFollow, "follower_id = ?", userID)
		if err != nil {
			return err
		}
		theirs, err := c.FetchWhere(schema.UserFollow, "follower_id = ?", otherID)
		if err != nil {
			return err
		}

		followed := make(map[string]struct{}, len(mine))
		for _, rec := range mine {
			followed[rec.String("following_id")] = struct{}{}
		}
		for _, rec := range theirs {
			if _, ok := followed[rec.String("following_id")]; ok {
				n++
			}
		}
		return nil
	})
	return n, err
}

func (s *Service) findEdge(ctx context.Context, followerID, followingID string) (*domain.UserFollow, error) {
	c := s.store.View()
	var out *domain.UserFollow
	err := c.Perform(ctx, func() error {
		recs, err := c.FetchWhere(schema.UserFollow, "follower_id = ? AND following_id = ?", followerID, followingID)
		if err != nil {
			return err
		}
		if len(recs) > 0 {
			out = store.UserFollowFromRecord(recs[0])
		}
		return nil
	})
	return out, err
}

func (s *Service) countEdges(ctx context.Context, cond string, args ...any) (int, error) {
	c := s.store.View()
	var n int
	err := c.Perform(ctx, func() error {
		var err error
		n, err = c.CountWhere(schema.UserFollow, cond, args...)
		return err
	})
	return n, err
}
