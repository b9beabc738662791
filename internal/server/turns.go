package server

import (
	"errors"
	"fmt"
	"log"
	"time"

	"razzwars/internal/db"

	"gorm.io/gorm"
)

// RevealCard applies one turn of the game: it validates that the game is
// active, that the player is the one the turn order expects, and that the
// cell is unrevealed; records the reveal; detects the win; and rotates the
// turn. Everything from the reveal record to the turn advance commits as
// one transaction serialized per game, so concurrent requests cannot both
// pass validation against the same state.
func (s *Server) RevealCard(gameID, playerID uint, cardID int) (*RevealResult, error) {
	var result RevealResult
	game, err := s.store.UpdateGame(gameID, func(tx *gorm.DB, game *db.Game) error {
		if game.Status != db.StatusActive {
			return &InvalidStateError{Reason: "game is not active"}
		}
		var player db.Player
		if err := tx.Where("id = ? AND game_id = ?", playerID, game.ID).First(&player).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPlayerNotFound
			}
			return err
		}
		if len(game.TurnOrder) == 0 || game.CurrentPlayerIndex < 0 || game.CurrentPlayerIndex >= len(game.TurnOrder) {
			// An active game without a coherent turn order is corrupt
			// storage, not a caller mistake.
			return fmt.Errorf("corrupt turn state: game %d index %d order length %d",
				game.ID, game.CurrentPlayerIndex, len(game.TurnOrder))
		}
		if expected := game.TurnOrder[game.CurrentPlayerIndex]; expected != playerID {
			return &TurnViolationError{ExpectedPlayerID: expected, CurrentIndex: game.CurrentPlayerIndex}
		}
		totalCards := game.GridSize * game.GridSize
		if cardID < 0 || cardID >= totalCards {
			return validationErrorf("card_id must be between 0 and %d", totalCards-1)
		}
		var existing int64
		if err := tx.Model(&db.CardReveal{}).Where("game_id = ? AND card_id = ?", game.ID, cardID).Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return &AlreadyRevealedError{CardID: cardID}
		}

		now := time.Now().UTC()
		reveal := db.CardReveal{
			GameID:    game.ID,
			PlayerID:  player.ID,
			CardID:    cardID,
			CreatedAt: now,
		}
		if err := tx.Create(&reveal).Error; err != nil {
			return err
		}

		var prizeView *PrizeView
		var prize db.Prize
		err := tx.Where("game_id = ? AND position = ?", game.ID, cardID).First(&prize).Error
		switch {
		case err == nil:
			prize.IsRevealed = true
			prize.RevealedBy = &player.ID
			prize.RevealedAt = &now
			if err := tx.Save(&prize).Error; err != nil {
				return err
			}
			player.IsWinner = true
			if err := tx.Save(&player).Error; err != nil {
				return err
			}
			game.Status = db.StatusCompleted
			game.CompletedAt = &now
			view := prizeViewOf(prize)
			prizeView = &view
		case errors.Is(err, gorm.ErrRecordNotFound):
			// empty cell
		default:
			return err
		}

		game.CurrentPlayerIndex = (game.CurrentPlayerIndex + 1) % len(game.TurnOrder)
		if game.CurrentPlayerIndex == 0 {
			game.Round++
		}
		game.CurrentTurn++

		var nextView *PlayerView
		var next db.Player
		if err := tx.First(&next, game.TurnOrder[game.CurrentPlayerIndex]).Error; err == nil {
			nextView = &PlayerView{ID: next.ID, Name: next.Name, Username: next.Username, IsWinner: next.IsWinner}
		}

		result = RevealResult{
			Prize: prizeView,
			Player: PlayerView{
				ID:       player.ID,
				Name:     player.Name,
				Username: player.Username,
				IsWinner: player.IsWinner,
			},
			GameState: TurnInfo{
				CurrentTurn:        game.CurrentTurn,
				Round:              game.Round,
				CurrentPlayerIndex: game.CurrentPlayerIndex,
				NextPlayer:         nextView,
				TurnOrder:          []uint(game.TurnOrder),
			},
		}

		card := cardID
		if err := appendEvent(tx, game.ID, &player.ID, eventCardRevealed, EventPayload{
			PlayerName: player.Name,
			CardID:     &card,
			Turn:       game.CurrentTurn,
			Round:      game.Round,
			Winner:     player.IsWinner,
		}); err != nil {
			return err
		}
		if prizeView != nil {
			position := prize.Position
			if err := appendEvent(tx, game.ID, &player.ID, eventPrizeWon, EventPayload{
				PlayerName: player.Name,
				Position:   &position,
				PrizeKind:  prize.Kind,
				Status:     db.StatusCompleted,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Printf("card revealed game_id=%d player_id=%d card_id=%d winner=%t",
		game.ID, playerID, cardID, result.Player.IsWinner)
	s.publishReveal(game.ID, playerID, cardID, &result)
	return &result, nil
}
