package db

import (
	"time"

	"gorm.io/datatypes"
)

// Prize kinds. Content is a jsonb payload whose shape depends on the kind.
const (
	PrizeKindWord  = "word"
	PrizeKindImage = "image"
	PrizeKindNFT   = "nft"
)

type Prize struct {
	ID         uint           `gorm:"primaryKey"`
	GameID     uint           `gorm:"index;not null;uniqueIndex:idx_prizes_game_position"`
	Kind       string         `gorm:"size:16;not null"`
	Content    datatypes.JSON `gorm:"type:jsonb;not null"`
	Position   int            `gorm:"not null;uniqueIndex:idx_prizes_game_position"`
	IsRevealed bool           `gorm:"not null;default:false"`
	RevealedBy *uint          `gorm:"index"`
	Revealer   *Player        `gorm:"foreignKey:RevealedBy"`
	RevealedAt *time.Time
	CreatedAt  time.Time `gorm:"not null"`
	UpdatedAt  time.Time `gorm:"not null"`
}
