package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"matzip/internal/config"
	"matzip/internal/domain"
	"matzip/internal/store"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	cfg := config.Default()
	cfg.Database.Path = ":memory:"
	st, err := store.Open(cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return New(st, nil)
}

func saveRestaurant(t *testing.T, s *Service, id, name string) *domain.Restaurant {
	t.Helper()
	r := domain.NewRestaurant(name, domain.CategoryKorean, "Seoul")
	r.ID = id
	saved, err := s.SaveRestaurant(context.Background(), r)
	require.NoError(t, err)
	require.NotNil(t, saved)
	return saved
}

func saveReview(t *testing.T, s *Service, restaurantID, userID string, rating float64) *domain.Review {
	t.Helper()
	rv := domain.NewReview(restaurantID, userID, userID, rating, "tasty")
	saved, err := s.SaveReview(context.Background(), rv)
	require.NoError(t, err)
	require.NotNil(t, saved)
	// distinct creation stamps keep the newest-first order deterministic
	time.Sleep(5 * time.Millisecond)
	return saved
}

func TestSaveRestaurantUpsert(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)

	first := saveRestaurant(t, s, "r1", "Tosokchon")
	time.Sleep(20 * time.Millisecond)

	renamed := domain.NewRestaurant("Tosokchon Samgyetang", domain.CategoryKorean, "Seoul")
	renamed.ID = "r1"
	second, err := s.SaveRestaurant(ctx, renamed)
	require.NoError(t, err)

	all, err := s.Restaurants(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1, "same id upserts instead of duplicating")
	assert.Equal(t, "Tosokchon Samgyetang", all[0].Name)

	assert.WithinDuration(t, first.CreatedAt, second.CreatedAt, time.Millisecond, "creation time survives updates")
	assert.True(t, second.UpdatedAt.After(first.UpdatedAt))
}

func TestSaveRestaurantRejectsInvalid(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)

	r := domain.NewRestaurant("", domain.CategoryKorean, "Seoul")
	_, err := s.SaveRestaurant(ctx, r)
	require.Error(t, err)

	all, err := s.Restaurants(ctx)
	require.NoError(t, err)
	assert.Empty(t, all, "rejected saves write nothing")
}

func TestRestaurantByIDAbsent(t *testing.T) {
	s := newTestService(t)
	got, err := s.RestaurantByID(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRestaurantsOrderedByName(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)

	saveRestaurant(t, s, "r1", "Cheongjin-ok")
	saveRestaurant(t, s, "r2", "Andong Jjimdak")
	saveRestaurant(t, s, "r3", "Budnamujip")

	all, err := s.Restaurants(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Andong Jjimdak", all[0].Name)
	assert.Equal(t, "Budnamujip", all[1].Name)
	assert.Equal(t, "Cheongjin-ok", all[2].Name)
}

func TestSetFavorite(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)

	saveRestaurant(t, s, "r1", "Favored")

	got, err := s.SetFavorite(ctx, "r1", true)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.IsFavorite)

	fetched, err := s.RestaurantByID(ctx, "r1")
	require.NoError(t, err)
	assert.True(t, fetched.IsFavorite)

	missing, err := s.SetFavorite(ctx, "ghost", true)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestReviewsDeriveRestaurantRating(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)

	saveRestaurant(t, s, "r1", "Rated")
	first := saveReview(t, s, "r1", "u1", 4.0)
	second := saveReview(t, s, "r1", "u2", 5.0)
	third := saveReview(t, s, "r1", "u3", 3.0)

	r, err := s.RestaurantByID(ctx, "r1")
	require.NoError(t, err)
	require.NotNil(t, r)
	assert.InDelta(t, 4.0, r.Rating, 1e-9)
	assert.Equal(t, 3, r.ReviewCount)

	reviews, err := s.ReviewsFor(ctx, "r1")
	require.NoError(t, err)
	require.Len(t, reviews, 3)
	assert.Equal(t, third.ID, reviews[0].ID, "newest first")
	assert.Equal(t, second.ID, reviews[1].ID)
	assert.Equal(t, first.ID, reviews[2].ID)
}

func TestReviewByID(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)

	saveRestaurant(t, s, "r1", "Looked Up")
	saved := saveReview(t, s, "r1", "u1", 4.0)

	got, err := s.ReviewByID(ctx, saved.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, saved.ID, got.ID)
	assert.Equal(t, "r1", got.RestaurantID)
	assert.InDelta(t, 4.0, got.Rating, 1e-9)

	missing, err := s.ReviewByID(ctx, "ghost")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestSaveReviewRequiresRestaurant(t *testing.T) {
	s := newTestService(t)
	rv := domain.NewReview("nowhere", "u1", "minji", 4.0, "")
	_, err := s.SaveReview(context.Background(), rv)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRestaurantNotFound)
}

func TestDeleteReviewRecomputesRating(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)

	saveRestaurant(t, s, "r1", "Shrinking")
	saveReview(t, s, "r1", "u1", 4.0)
	best := saveReview(t, s, "r1", "u2", 5.0)
	saveReview(t, s, "r1", "u3", 3.0)

	require.NoError(t, s.DeleteReview(ctx, best.ID))

	r, err := s.RestaurantByID(ctx, "r1")
	require.NoError(t, err)
	assert.InDelta(t, 3.5, r.Rating, 1e-9)
	assert.Equal(t, 2, r.ReviewCount)

	// deleting the rest zeroes the derived fields
	reviews, err := s.ReviewsFor(ctx, "r1")
	require.NoError(t, err)
	for _, rv := range reviews {
		require.NoError(t, s.DeleteReview(ctx, rv.ID))
	}
	r, err = s.RestaurantByID(ctx, "r1")
	require.NoError(t, err)
	assert.Zero(t, r.Rating)
	assert.Zero(t, r.ReviewCount)

	// unknown ids are a no-op
	assert.NoError(t, s.DeleteReview(ctx, "ghost"))
}

func TestDeleteRestaurantCascadesReviews(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)

	saveRestaurant(t, s, "r1", "Doomed")
	saveReview(t, s, "r1", "u1", 4.0)
	saveReview(t, s, "r1", "u2", 2.0)

	require.NoError(t, s.DeleteRestaurant(ctx, "r1"))

	got, err := s.RestaurantByID(ctx, "r1")
	require.NoError(t, err)
	assert.Nil(t, got)

	reviews, err := s.ReviewsFor(ctx, "r1")
	require.NoError(t, err)
	assert.Empty(t, reviews, "reviews fall with their restaurant")

	assert.NoError(t, s.DeleteRestaurant(ctx, "ghost"))
}

func TestListMembership(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)

	saveRestaurant(t, s, "r1", "Member")

	l := domain.NewUserList("u1", "to try")
	saved, err := s.SaveList(ctx, l)
	require.NoError(t, err)

	added, err := s.AddRestaurantToList(ctx, saved.ID, "r1")
	require.NoError(t, err)
	require.NotNil(t, added)
	assert.Equal(t, []string{"r1"}, added.RestaurantIDs)

	// adding again is a no-op, not a duplicate
	again, err := s.AddRestaurantToList(ctx, saved.ID, "r1")
	require.NoError(t, err)
	assert.Equal(t, []string{"r1"}, again.RestaurantIDs)

	fetched, err := s.ListByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"r1"}, fetched.RestaurantIDs)

	removed, err := s.RemoveRestaurantFromList(ctx, saved.ID, "r1")
	require.NoError(t, err)
	assert.Empty(t, removed.RestaurantIDs)

	missing, err := s.AddRestaurantToList(ctx, "no-such-list", "r1")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestResolveListRestaurantsSkipsDeleted(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)

	saveRestaurant(t, s, "r1", "Stays")
	saveRestaurant(t, s, "r2", "Goes")

	l := domain.NewUserList("u1", "mixed")
	l.RestaurantIDs = []string{"r1", "r2"}
	saved, err := s.SaveList(ctx, l)
	require.NoError(t, err)

	require.NoError(t, s.DeleteRestaurant(ctx, "r2"))

	resolved, err := s.ResolveListRestaurants(ctx, saved.ID)
	require.NoError(t, err)
	require.Len(t, resolved, 1)
	assert.Equal(t, "r1", resolved[0].ID)

	// the list itself keeps the dangling id
	fetched, err := s.ListByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"r1", "r2"}, fetched.RestaurantIDs)
}

func TestPublicLists(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)

	mine := domain.NewUserList("u1", "secret")
	_, err := s.SaveList(ctx, mine)
	require.NoError(t, err)

	shared := domain.NewUserList("u1", "shared")
	shared.IsPublic = true
	_, err = s.SaveList(ctx, shared)
	require.NoError(t, err)

	other := domain.NewUserList("u2", "their picks")
	other.IsPublic = true
	_, err = s.SaveList(ctx, other)
	require.NoError(t, err)

	pub, err := s.PublicLists(ctx)
	require.NoError(t, err)
	assert.Len(t, pub, 2)

	feed, err := s.PublicListsForUsers(ctx, []string{"u2"})
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.Equal(t, "their picks", feed[0].Name)

	user, err := s.ListsFor(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, user, 2)
}

func TestFollowGraph(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)

	edge, err := s.Follow(ctx, "alice", "bob")
	require.NoError(t, err)
	require.NotNil(t, edge)

	// following twice reuses the existing edge
	dup, err := s.Follow(ctx, "alice", "bob")
	require.NoError(t, err)
	assert.Equal(t, edge.ID, dup.ID)

	following, err := s.IsFollowing(ctx, "alice", "bob")
	require.NoError(t, err)
	assert.True(t, following)

	status, err := s.FollowStatus(ctx, "alice", "bob")
	require.NoError(t, err)
	assert.Equal(t, domain.FollowStatusFollowing, status)

	_, err = s.Follow(ctx, "bob", "alice")
	require.NoError(t, err)
	status, err = s.FollowStatus(ctx, "alice", "bob")
	require.NoError(t, err)
	assert.Equal(t, domain.FollowStatusMutual, status)

	n, err := s.FollowerCount(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	n, err = s.FollowingCount(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	require.NoError(t, s.Unfollow(ctx, "alice", "bob"))
	following, err = s.IsFollowing(ctx, "alice", "bob")
	require.NoError(t, err)
	assert.False(t, following)

	status, err = s.FollowStatus(ctx, "alice", "bob")
	require.NoError(t, err)
	assert.Equal(t, domain.FollowStatusFollower, status)
}

func TestFollowByID(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)

	edge, err := s.Follow(ctx, "alice", "bob")
	require.NoError(t, err)

	got, err := s.FollowByID(ctx, edge.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "alice", got.FollowerID)
	assert.Equal(t, "bob", got.FollowingID)

	missing, err := s.FollowByID(ctx, "ghost")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestMutualFollowCount(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)

	_, err := s.Follow(ctx, "alice", "bob")
	require.NoError(t, err)
	_, err = s.Follow(ctx, "alice", "carol")
	require.NoError(t, err)
	_, err = s.Follow(ctx, "dave", "bob")
	require.NoError(t, err)

	n, err := s.MutualFollowCount(ctx, "alice", "dave")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestFollowsForBothDirections(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)

	_, err := s.Follow(ctx, "alice", "bob")
	require.NoError(t, err)
	_, err = s.Follow(ctx, "carol", "alice")
	require.NoError(t, err)
	_, err = s.Follow(ctx, "carol", "bob")
	require.NoError(t, err)

	edges, err := s.FollowsFor(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, edges, 2)
}

func TestInitializeIfEmpty(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)

	calls := 0
	seed := func() []domain.Restaurant {
		calls++
		return []domain.Restaurant{
			*domain.NewRestaurant("Seed One", domain.CategoryKorean, "Seoul"),
			*domain.NewRestaurant("Seed Two", domain.CategoryCafe, "Seoul"),
		}
	}

	require.NoError(t, s.InitializeIfEmpty(ctx, seed))
	all, err := s.Restaurants(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Equal(t, 1, calls)

	// a populated store never seeds again
	require.NoError(t, s.InitializeIfEmpty(ctx, seed))
	all, err = s.Restaurants(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Equal(t, 1, calls)
}
