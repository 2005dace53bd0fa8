package models

import (
	"time"
)

type Post struct {
	ID                uint        `gorm:"primaryKey" json:"id"`
	Pid               string      `gorm:"uniqueIndex;size:8;not null" json:"pid"`
	UserID            uint        `gorm:"not null;index" json:"user_id"`
	User              User        `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`
	BoardID           uint        `gorm:"not null;index" json:"board_id"`
	Board             Board       `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"board"`
	Title             string      `gorm:"not null" json:"title"`
	Content           string      `gorm:"type:text" json:"content"`
	Hashtags          string      `json:"hashtags"`                        // comma separated, gallery boards
	IsPublic          bool        `gorm:"default:true" json:"is_public"`   // gallery visibility
	IsNotice          bool        `gorm:"default:false;index" json:"is_notice"` // pinned above regular posts
	Views             int         `gorm:"default:0" json:"views"`
	Likes             int         `gorm:"default:0" json:"likes"`
	AcceptedCommentID *uint       `gorm:"index" json:"accepted_comment_id"` // Q&A only, set once
	Images            []PostImage `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"images"`
	CreatedAt         time.Time   `json:"created_at"`
	UpdatedAt         time.Time   `json:"updated_at"`

	// Filled at query time, not a column.
	CommentCount int `gorm:"-" json:"comment_count"`
}
