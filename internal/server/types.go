package server

import (
	"time"

	"razzwars/internal/db"
)

// PrizeContent is the tagged prize payload. Exactly one shape is populated
// depending on Kind: word carries Word/Value, image carries URL, nft
// carries Collection/TokenID.
type PrizeContent struct {
	Kind       string `json:"kind"`
	Word       string `json:"word,omitempty"`
	Value      int    `json:"value,omitempty"`
	URL        string `json:"url,omitempty"`
	Collection string `json:"collection,omitempty"`
	TokenID    string `json:"token_id,omitempty"`
}

func (c PrizeContent) validate() error {
	switch c.Kind {
	case db.PrizeKindWord:
		if c.Word == "" {
			return &ValidationError{Reason: "word prize requires a word"}
		}
	case db.PrizeKindImage:
		if c.URL == "" {
			return &ValidationError{Reason: "image prize requires a url"}
		}
	case db.PrizeKindNFT:
		if c.Collection == "" {
			return &ValidationError{Reason: "nft prize requires a collection"}
		}
	default:
		return validationErrorf("unknown prize kind %q", c.Kind)
	}
	return nil
}

// PlayerView is the player projection shared by read models and reveal
// responses.
type PlayerView struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username,omitempty"`
	IsWinner bool   `json:"is_winner"`
}

// PrizeView is the outward prize projection. Content is nil until the
// prize has been revealed; the hidden-card game depends on that.
type PrizeView struct {
	ID         uint          `json:"id"`
	Kind       string        `json:"kind"`
	Content    *PrizeContent `json:"content,omitempty"`
	Position   int           `json:"position"`
	IsRevealed bool          `json:"is_revealed"`
	RevealedBy *uint         `json:"revealed_by,omitempty"`
	RevealedAt *time.Time    `json:"revealed_at,omitempty"`
}

// TurnInfo describes whose turn it is after an operation.
type TurnInfo struct {
	CurrentTurn        int         `json:"current_turn"`
	Round              int         `json:"round"`
	CurrentPlayerIndex int         `json:"current_player_index"`
	NextPlayer         *PlayerView `json:"next_player"`
	TurnOrder          []uint      `json:"turn_order"`
}

// RevealResult is returned by RevealCard: the prize uncovered (if any,
// with its content now visible), the revealing player and the turn state
// after the reveal.
type RevealResult struct {
	Prize     *PrizeView `json:"prize"`
	Player    PlayerView `json:"player"`
	GameState TurnInfo   `json:"game_state"`
}

// DeletionCounts reports how many records a game deletion removed.
type DeletionCounts struct {
	CardReveals int64 `json:"card_reveals"`
	Players     int64 `json:"players"`
	Prizes      int64 `json:"prizes"`
	Events      int64 `json:"events"`
	Games       int64 `json:"games"`
}
