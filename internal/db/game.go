package db

import (
	"time"

	"gorm.io/datatypes"
)

// Game status values. A game is created waiting, starts into active and
// terminates as completed or cancelled. Turn fields are meaningful only
// while the game is active.
const (
	StatusWaiting   = "waiting"
	StatusActive    = "active"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

type Game struct {
	ID                 uint   `gorm:"primaryKey"`
	AdminID            uint   `gorm:"index;not null"`
	Name               string `gorm:"size:100;not null"`
	Description        string `gorm:"size:500"`
	GridSize           int    `gorm:"not null"`
	MaxPlayers         int    `gorm:"not null"`
	Status             string `gorm:"size:16;not null;index"`
	GameCode           string `gorm:"size:6;uniqueIndex;not null"`
	StartedAt          *time.Time
	CompletedAt        *time.Time
	CurrentTurn        int                       `gorm:"not null;default:0"`
	TurnOrder          datatypes.JSONSlice[uint] `gorm:"type:jsonb"`
	CurrentPlayerIndex int                       `gorm:"not null;default:0"`
	Round              int                       `gorm:"not null;default:1"`
	CreatedAt          time.Time                 `gorm:"not null"`
	UpdatedAt          time.Time                 `gorm:"not null"`
	Players            []Player
	Prizes             []Prize
	Reveals            []CardReveal
	Events             []Event
}
