package models

import (
	"time"
)

// Notification is the fan-out record created when someone comments on
// another user's post. PostTitle and Snippet are snapshots taken at write
// time so the bell list survives post edits and deletions.
type Notification struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	RecipientID uint      `gorm:"not null;index" json:"recipient_id"`
	Recipient   User      `gorm:"foreignKey:RecipientID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	PostID      uint      `gorm:"not null;index" json:"post_id"`
	BoardSlug   string    `gorm:"size:20;not null" json:"board_slug"`
	PostTitle   string    `gorm:"not null" json:"post_title"`
	Snippet     string    `gorm:"size:120" json:"snippet"` // first 30 runes of the comment
	IsRead      bool      `gorm:"default:false;index" json:"is_read"`
	CreatedAt   time.Time `json:"created_at"`
}
