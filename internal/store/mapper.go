package store

import (
	"time"

	"matzip/internal/codec"
	"matzip/internal/domain"
)

// Record↔domain mapping. The fromDomain direction writes every field,
// stamps updated_at with the current time, and stamps created_at only
// when no existing record is supplied; the toDomain direction reads
// absent optional columns as empty values and decodes list blobs
// through the lossy-safe codec. toDomain(fromDomain(x)) reproduces x
// on every field except the timestamps, which advance monotonically.

// RestaurantRecord maps a restaurant onto a record. existing is the
// stored record on the update path; nil means creation.
func RestaurantRecord(r *domain.Restaurant, existing Record) Record {
	now := time.Now().UTC()
	rec := Record{
		"id":           r.ID,
		"name":         r.Name,
		"category":     string(r.Category),
		"address":      r.Address,
		"latitude":     r.Latitude,
		"longitude":    r.Longitude,
		"rating":       r.Rating,
		"review_count": int64(r.ReviewCount),
		"price_range":  int64(r.PriceRange),
		"is_favorite":  r.IsFavorite,
		"created_at":   createdAt(existing, now),
		"updated_at":   now,
	}
	if r.PhoneNumber != "" {
		rec["phone_number"] = r.PhoneNumber
	}
	if r.Description != "" {
		rec["description"] = r.Description
	}
	if data := codec.EncodeStringList(r.ImageURLs); data != nil {
		rec["image_urls"] = data
	}
	return rec
}

// RestaurantFromRecord maps a stored record back to the domain value
func RestaurantFromRecord(rec Record) *domain.Restaurant {
	return &domain.Restaurant{
		ID:          rec.String("id"),
		Name:        rec.String("name"),
		Category:    domain.ParseCategory(rec.String("category")),
		Address:     rec.String("address"),
		Latitude:    rec.Float("latitude"),
		Longitude:   rec.Float("longitude"),
		PhoneNumber: rec.String("phone_number"),
		Rating:      rec.Float("rating"),
		ReviewCount: int(rec.Int("review_count")),
		PriceRange:  domain.ParsePriceRange(int(rec.Int("price_range"))),
		Description: rec.String("description"),
		ImageURLs:   codec.DecodeStringList(rec.Bytes("image_urls")),
		IsFavorite:  rec.Bool("is_favorite"),
		CreatedAt:   rec.Time("created_at"),
		UpdatedAt:   rec.Time("updated_at"),
	}
}

// ReviewRecord maps a review onto a record
func ReviewRecord(r *domain.Review, existing Record) Record {
	now := time.Now().UTC()
	rec := Record{
		"id":            r.ID,
		"restaurant_id": r.RestaurantID,
		"user_id":       r.UserID,
		"user_name":     r.UserName,
		"rating":        r.Rating,
		"created_at":    createdAt(existing, now),
		"updated_at":    now,
	}
	if r.UserProfileImageURL != "" {
		rec["user_profile_image_url"] = r.UserProfileImageURL
	}
	if r.Content != "" {
		rec["content"] = r.Content
	}
	if data := codec.EncodeStringList(r.ImageURLs); data != nil {
		rec["image_urls"] = data
	}
	return rec
}

// ReviewFromRecord maps a stored record back to the domain value
func ReviewFromRecord(rec Record) *domain.Review {
	return &domain.Review{
		ID:                  rec.String("id"),
		RestaurantID:        rec.String("restaurant_id"),
		UserID:              rec.String("user_id"),
		UserName:            rec.String("user_name"),
		UserProfileImageURL: rec.String("user_profile_image_url"),
		Rating:              rec.Float("rating"),
		Content:             rec.String("content"),
		ImageURLs:           codec.DecodeStringList(rec.Bytes("image_urls")),
		CreatedAt:           rec.Time("created_at"),
		UpdatedAt:           rec.Time("updated_at"),
	}
}

// UserListRecord maps a list onto a record. Membership is deduplicated
// defensively so a stored list never holds the same restaurant twice.
func UserListRecord(l *domain.UserList, existing Record) Record {
	now := time.Now().UTC()
	rec := Record{
		"id":         l.ID,
		"user_id":    l.UserID,
		"name":       l.Name,
		"is_public":  l.IsPublic,
		"created_at": createdAt(existing, now),
		"updated_at": now,
	}
	if l.Description != "" {
		rec["description"] = l.Description
	}
	if data := codec.EncodeStringList(dedupe(l.RestaurantIDs)); data != nil {
		rec["restaurant_ids"] = data
	}
	return rec
}

// UserListFromRecord maps a stored record back to the domain value
func UserListFromRecord(rec Record) *domain.UserList {
	return &domain.UserList{
		ID:            rec.String("id"),
		UserID:        rec.String("user_id"),
		Name:          rec.String("name"),
		Description:   rec.String("description"),
		RestaurantIDs: codec.DecodeStringList(rec.Bytes("restaurant_ids")),
		IsPublic:      rec.Bool("is_public"),
		CreatedAt:     rec.Time("created_at"),
		UpdatedAt:     rec.Time("updated_at"),
	}
}

// UserFollowRecord maps a follow edge onto a record
func UserFollowRecord(f *domain.UserFollow, existing Record) Record {
	now := time.Now().UTC()
	return Record{
		"id":           f.ID,
		"follower_id":  f.FollowerID,
		"following_id": f.FollowingID,
		"created_at":   createdAt(existing, now),
		"updated_at":   now,
	}
}

// UserFollowFromRecord maps a stored record back to the domain value
func UserFollowFromRecord(rec Record) *domain.UserFollow {
	return &domain.UserFollow{
		ID:          rec.String("id"),
		FollowerID:  rec.String("follower_id"),
		FollowingID: rec.String("following_id"),
		CreatedAt:   rec.Time("created_at"),
		UpdatedAt:   rec.Time("updated_at"),
	}
}

// createdAt preserves the stored creation time on updates
func createdAt(existing Record, now time.Time) time.Time {
	if existing != nil {
		if created := existing.Time("created_at"); !created.IsZero() {
			return created
		}
	}
	return now
}

// dedupe drops repeated ids, keeping first-occurrence order
func dedupe(ids []string) []string {
	if len(ids) < 2 {
		return ids
	}
	seen := make(map[string]struct{}, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
