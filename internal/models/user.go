package models

import (
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Certification levels, ordered from entry level upwards.
const (
	LevelOpenWater  = "OpenWater"
	LevelAdvance    = "Advance"
	LevelRescue     = "Rescue"
	LevelDiveMaster = "DiveMaster"
	LevelInstructor = "Instructor"
	LevelTrainer    = "Trainer"
)

type User struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	Nickname      string     `gorm:"not null" json:"nickname"`
	Email         string     `gorm:"uniqueIndex;not null" json:"email"`
	Password      string     `gorm:"not null" json:"-"` // Hash
	Agency        string     `gorm:"size:20;default:'PADI'" json:"agency"`     // certification agency
	Level         string     `gorm:"size:20;default:'OpenWater'" json:"level"` // certification level
	LevelIcon     string     `gorm:"size:8;default:'👤'" json:"level_icon"`     // derived from Level
	Logs          int        `gorm:"default:0" json:"logs"`                    // logged dives
	Birthdate     string     `gorm:"size:10" json:"birthdate"`                 // YYYY-MM-DD
	Phone         string     `gorm:"size:20" json:"phone"`
	Zipcode       string     `gorm:"size:10" json:"zipcode"`
	Address       string     `json:"address"`
	DetailAddress string     `json:"detail_address"`
	Role          string     `gorm:"size:20;default:'user';not null" json:"role"` // user, admin; never settable via the API
	IsOnline      bool       `gorm:"default:false;index" json:"is_online"`
	LastLogin     *time.Time `json:"last_login"`
	IsVerified    bool       `gorm:"default:false" json:"is_verified"` // email verification
	VerifyCode    string     `gorm:"size:20" json:"-"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
