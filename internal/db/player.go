package db

import "time"

type Player struct {
	ID             uint   `gorm:"primaryKey"`
	GameID         uint   `gorm:"index;not null"`
	PlayerCode     string `gorm:"size:8;uniqueIndex;not null"`
	Username       string `gorm:"size:50;uniqueIndex;not null"`
	Name           string `gorm:"size:50;not null"`
	Email          string `gorm:"size:120"`
	Phone          string `gorm:"size:20"`
	IsWinner       bool   `gorm:"not null;default:false"`
	IsAdminCreated bool   `gorm:"not null;default:false"`
	IsInvited      bool   `gorm:"not null;default:false"`
	InvitedAt      *time.Time
	CreatedAt      time.Time `gorm:"not null"`
	UpdatedAt      time.Time `gorm:"not null"`
	Reveals        []CardReveal
}
