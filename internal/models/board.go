package models

import (
	"time"
)

type Board struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Slug           string    `gorm:"not null;unique;size:20" json:"slug"` // free, qna, instructor, tour, gallery, divepoint
	Name           string    `gorm:"not null" json:"name"`
	Description    string    `json:"description"`
	AcceptsAnswers bool      `gorm:"default:false" json:"accepts_answers"` // Q&A accepted-answer flow
	WriteLevel     string    `gorm:"size:20" json:"write_level"`           // minimum certification level to post; empty = anyone
	AdminOnly      bool      `gorm:"default:false" json:"admin_only"`      // info boards only admins write to
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
