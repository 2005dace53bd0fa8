package models

import (
	"time"
)

// PostImage is one uploaded image attached to a post, with the EXIF
// fields extracted at upload time. Position preserves the order the
// author uploaded in.
type PostImage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"not null;index" json:"post_id"`
	ObjectKey string    `gorm:"not null" json:"object_key"` // key in the object store
	URL       string    `gorm:"not null" json:"url"`
	Position  int       `gorm:"default:0" json:"position"`

	CameraModel string `json:"camera_model"`
	TakenAt     string `json:"taken_at"`
	Aperture    string `json:"aperture"` // e.g. "f/2.8"
	Shutter     string `json:"shutter"`
	ISO         string `json:"iso"`

	CreatedAt time.Time `json:"created_at"`
}
