package models

import (
	"time"
)

// ViewMarker records that a viewer has opened a post. Existence alone is
// the signal: the composite unique index is what keeps the view counter
// idempotent per viewer, even under concurrent requests.
type ViewMarker struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_view_user_post" json:"user_id"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_view_user_post" json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
}

// LikeMarker gates like-count increments the same way, for posts and
// comments. Exactly one of PostID/CommentID is set; NULLs are distinct in
// both Postgres and SQLite, so each composite index only constrains rows
// of its own kind.
type LikeMarker struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_like_user_post;uniqueIndex:idx_like_user_comment" json:"user_id"`
	PostID    *uint     `gorm:"uniqueIndex:idx_like_user_post" json:"post_id"`
	CommentID *uint     `gorm:"uniqueIndex:idx_like_user_comment" json:"comment_id"`
	CreatedAt time.Time `json:"created_at"`
}
