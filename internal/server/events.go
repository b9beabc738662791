package server

import (
	"encoding/json"
	"time"

	"razzwars/internal/db"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Event types recorded in the append-only audit feed.
const (
	eventGameCreated  = "game_created"
	eventGameStarted  = "game_started"
	eventGameEnded    = "game_ended"
	eventPlayerJoined = "player_joined"
	eventCardRevealed = "card_revealed"
	eventPrizeWon     = "prize_won"
)

type EventPayload struct {
	GameCode   string `json:"game_code,omitempty"`
	PlayerName string `json:"player,omitempty"`
	Username   string `json:"username,omitempty"`
	CardID     *int   `json:"card_id,omitempty"`
	Position   *int   `json:"position,omitempty"`
	PrizeKind  string `json:"prize_kind,omitempty"`
	Status     string `json:"status,omitempty"`
	Turn       int    `json:"turn,omitempty"`
	Round      int    `json:"round,omitempty"`
	Players    int    `json:"players,omitempty"`
	Winner     bool   `json:"winner,omitempty"`
}

func appendEvent(tx *gorm.DB, gameID uint, playerID *uint, eventType string, payload EventPayload) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	record := db.Event{
		GameID:    gameID,
		PlayerID:  playerID,
		Type:      eventType,
		Payload:   datatypes.JSON(data),
		CreatedAt: time.Now().UTC(),
	}
	return tx.Create(&record).Error
}
