package db

import "time"

// CardReveal is the append-only audit record of board cells uncovered
// during a game. The unique index enforces at most one reveal per cell.
type CardReveal struct {
	ID        uint      `gorm:"primaryKey"`
	GameID    uint      `gorm:"index;not null;uniqueIndex:idx_reveals_game_card"`
	PlayerID  uint      `gorm:"index;not null"`
	CardID    int       `gorm:"not null;uniqueIndex:idx_reveals_game_card"`
	CreatedAt time.Time `gorm:"not null"`
}
