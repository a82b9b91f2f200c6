package domain

import (
	"time"

	"github.com/google/uuid"
)

// UserFollow is a directed follow edge between two users
type UserFollow struct {
	ID          string    `json:"id" validate:"required"`
	FollowerID  string    `json:"follower_id" validate:"required"`
	FollowingID string    `json:"following_id" validate:"required"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewUserFollow creates a follow edge with a fresh id
func NewUserFollow(followerID, followingID string) *UserFollow {
	return &UserFollow{
		ID:          uuid.NewString(),
		FollowerID:  followerID,
		FollowingID: followingID,
	}
}

// FollowStatus describes the relation between two users
type FollowStatus string

const (
	FollowStatusNone      FollowStatus = "none"
	FollowStatusFollowing FollowStatus = "following"
	FollowStatusFollower  FollowStatus = "follower"
	FollowStatusMutual    FollowStatus = "mutual"
)

// FollowStatusOf combines the two edge directions into a status
func FollowStatusOf(isFollowing, isFollowedBy bool) FollowStatus {
	switch {
	case isFollowing && isFollowedBy:
		return FollowStatusMutual
	case isFollowing:
		return FollowStatusFollowing
	case isFollowedBy:
		return FollowStatusFollower
	default:
		return FollowStatusNone
	}
}
