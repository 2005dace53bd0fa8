package models

import (
	"time"
)

type Product struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	Price       int       `gorm:"not null" json:"price"` // KRW
	Description string    `gorm:"type:text" json:"description"`
	Category    string    `gorm:"size:20;default:'gear'" json:"category"` // gear, figure, etc
	ImageURL    string    `json:"image_url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
