package domain

import (
	"errors"
	"time"
)

var ErrWishlistNotFound = errors.New("session not found in wishlist")
var ErrDuplicateWishlist = errors.New("session already in wishlist")

// WishlistItem is a pure bookmark pairing a job seeker and a session.
// It affects no counters and can be created and deleted freely.
type WishlistItem struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	JobSeeker string    `json:"job_seeker" bson:"job_seeker"`
	Session   string    `json:"session" bson:"session"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}
