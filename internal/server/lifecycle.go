package server

import (
	"encoding/json"
	"errors"
	"log"
	"time"

	"razzwars/internal/db"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	minGridSize     = 2
	maxGridSize     = 10
	minPlayers      = 2
	maxPlayersLimit = 50
)

type CreateGameInput struct {
	Name        string
	Description string
	GridSize    int
	MaxPlayers  int
	Prizes      []CreatePrizeInput
}

type CreatePrizeInput struct {
	Content  PrizeContent
	Position *int
}

// CreateGame validates the configuration, reserves a unique game code and
// persists the game in waiting status. Initial prizes are optional; each
// is stored at its requested cell, or at the next free sequential cell
// when no position is given.
func (s *Server) CreateGame(adminID uint, in CreateGameInput) (*db.Game, error) {
	name := normalizeText(in.Name)
	if name == "" {
		return nil, &ValidationError{Reason: "name is required"}
	}
	if len(name) > maxNameLength {
		return nil, validationErrorf("name must be %d characters or fewer", maxNameLength)
	}
	if in.GridSize < minGridSize || in.GridSize > maxGridSize {
		return nil, validationErrorf("grid_size must be between %d and %d", minGridSize, maxGridSize)
	}
	if in.MaxPlayers < minPlayers || in.MaxPlayers > maxPlayersLimit {
		return nil, validationErrorf("max_players must be between %d and %d", minPlayers, maxPlayersLimit)
	}
	totalCards := in.GridSize * in.GridSize
	if len(in.Prizes) > totalCards {
		return nil, validationErrorf("too many prizes for a %dx%d grid", in.GridSize, in.GridSize)
	}
	positions, err := resolvePrizePositions(in.Prizes, totalCards)
	if err != nil {
		return nil, err
	}
	for _, prize := range in.Prizes {
		if err := prize.Content.validate(); err != nil {
			return nil, err
		}
	}

	var game db.Game
	err = s.store.db.Transaction(func(tx *gorm.DB) error {
		code, err := uniqueGameCode(tx)
		if err != nil {
			return err
		}
		game = db.Game{
			AdminID:     adminID,
			Name:        name,
			Description: normalizeText(in.Description),
			GridSize:    in.GridSize,
			MaxPlayers:  in.MaxPlayers,
			Status:      db.StatusWaiting,
			GameCode:    code,
			Round:       1,
		}
		if err := tx.Create(&game).Error; err != nil {
			return err
		}
		for i, prize := range in.Prizes {
			content, err := json.Marshal(prize.Content)
			if err != nil {
				return err
			}
			record := db.Prize{
				GameID:   game.ID,
				Kind:     prize.Content.Kind,
				Content:  datatypes.JSON(content),
				Position: positions[i],
			}
			if err := tx.Create(&record).Error; err != nil {
				return err
			}
		}
		return appendEvent(tx, game.ID, nil, eventGameCreated, EventPayload{GameCode: code})
	})
	if err != nil {
		return nil, err
	}
	log.Printf("game created game_id=%d game_code=%s grid_size=%d", game.ID, game.GameCode, game.GridSize)
	return &game, nil
}

// resolvePrizePositions assigns a unique in-range cell to every prize,
// filling unset positions sequentially from the lowest free cell.
func resolvePrizePositions(prizes []CreatePrizeInput, totalCards int) ([]int, error) {
	used := make(map[int]struct{}, len(prizes))
	positions := make([]int, len(prizes))
	for i, prize := range prizes {
		if prize.Position == nil {
			continue
		}
		position := *prize.Position
		if position < 0 || position >= totalCards {
			return nil, validationErrorf("prize position %d is outside the board", position)
		}
		if _, taken := used[position]; taken {
			return nil, validationErrorf("duplicate prize position %d", position)
		}
		used[position] = struct{}{}
		positions[i] = position
	}
	next := 0
	for i, prize := range prizes {
		if prize.Position != nil {
			continue
		}
		for {
			if _, taken := used[next]; !taken {
				break
			}
			next++
		}
		if next >= totalCards {
			return nil, &ValidationError{Reason: "not enough free cells for prizes"}
		}
		used[next] = struct{}{}
		positions[i] = next
	}
	return positions, nil
}

// StartGame moves a waiting game to active: it fixes the turn order from
// the players registered right now, places the single winning prize if the
// game has none, and initializes the turn counters. One atomic update.
func (s *Server) StartGame(adminID, gameID uint) (*db.Game, error) {
	game, err := s.store.UpdateGame(gameID, func(tx *gorm.DB, game *db.Game) error {
		if game.AdminID != adminID {
			return ErrAccessDenied
		}
		if game.Status != db.StatusWaiting {
			return &InvalidStateError{Reason: "game is not in waiting status"}
		}
		var players []db.Player
		if err := tx.Where("game_id = ?", game.ID).Order("created_at, id").Find(&players).Error; err != nil {
			return err
		}
		if len(players) < minPlayers {
			return &PreconditionError{Reason: "at least 2 players required to start game"}
		}
		var prizeCount int64
		if err := tx.Model(&db.Prize{}).Where("game_id = ?", game.ID).Count(&prizeCount).Error; err != nil {
			return err
		}
		if prizeCount == 0 {
			if err := createWinningPrize(tx, game); err != nil {
				return err
			}
		}
		ids := make([]uint, len(players))
		for i, player := range players {
			ids[i] = player.ID
		}
		now := time.Now().UTC()
		game.Status = db.StatusActive
		game.StartedAt = &now
		game.TurnOrder = datatypes.NewJSONSlice(shuffledIDs(ids))
		game.CurrentPlayerIndex = 0
		game.CurrentTurn = 1
		game.Round = 1
		return appendEvent(tx, game.ID, nil, eventGameStarted, EventPayload{
			Status:  db.StatusActive,
			Players: len(ids),
		})
	})
	if err != nil {
		return nil, err
	}
	log.Printf("game started game_id=%d players=%d", game.ID, len(game.TurnOrder))
	s.broadcastGameUpdate(game.ID)
	return game, nil
}

// createWinningPrize hides one word prize at a uniformly random cell.
func createWinningPrize(tx *gorm.DB, game *db.Game) error {
	content := PrizeContent{
		Kind:  db.PrizeKindWord,
		Word:  "Grand Prize",
		Value: randIndex(1000) + 500,
	}
	data, err := json.Marshal(content)
	if err != nil {
		return err
	}
	prize := db.Prize{
		GameID:   game.ID,
		Kind:     content.Kind,
		Content:  datatypes.JSON(data),
		Position: randIndex(game.GridSize * game.GridSize),
	}
	return tx.Create(&prize).Error
}

// EndGame completes an active game. Ending a game in any other status is
// rejected with InvalidStateError, including a second end call.
func (s *Server) EndGame(adminID, gameID uint) (*db.Game, error) {
	game, err := s.store.UpdateGame(gameID, func(tx *gorm.DB, game *db.Game) error {
		if game.AdminID != adminID {
			return ErrAccessDenied
		}
		if game.Status != db.StatusActive {
			return &InvalidStateError{Reason: "game is not active"}
		}
		now := time.Now().UTC()
		game.Status = db.StatusCompleted
		game.CompletedAt = &now
		return appendEvent(tx, game.ID, nil, eventGameEnded, EventPayload{Status: db.StatusCompleted})
	})
	if err != nil {
		return nil, err
	}
	log.Printf("game ended game_id=%d", game.ID)
	s.broadcastGameUpdate(game.ID)
	return game, nil
}

// DeleteGame removes a non-active game together with its players, prizes,
// reveals and events, and reports how many rows each table lost.
func (s *Server) DeleteGame(adminID, gameID uint) (*DeletionCounts, error) {
	lock := s.store.gameLock(gameID)
	lock.Lock()
	defer lock.Unlock()

	var counts DeletionCounts
	err := s.store.db.Transaction(func(tx *gorm.DB) error {
		var game db.Game
		if err := tx.First(&game, gameID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrGameNotFound
			}
			return err
		}
		if game.AdminID != adminID {
			return ErrAccessDenied
		}
		if game.Status == db.StatusActive {
			return &InvalidStateError{Reason: "cannot delete active game"}
		}
		return cascadeDelete(tx, []uint{gameID}, &counts)
	})
	if err != nil {
		return nil, err
	}
	log.Printf("game deleted game_id=%d players=%d reveals=%d", gameID, counts.Players, counts.CardReveals)
	return &counts, nil
}

// BulkDeleteGames deletes a batch of games. The whole batch is rejected if
// any game is missing, owned by another admin, or still active; the error
// names the blocking ids.
func (s *Server) BulkDeleteGames(adminID uint, gameIDs []uint) (*DeletionCounts, error) {
	if len(gameIDs) == 0 {
		return nil, &ValidationError{Reason: "game_ids are required"}
	}
	var counts DeletionCounts
	err := s.store.db.Transaction(func(tx *gorm.DB) error {
		var games []db.Game
		if err := tx.Where("id IN ?", gameIDs).Find(&games).Error; err != nil {
			return err
		}
		if len(games) != len(gameIDs) {
			return ErrGameNotFound
		}
		var active []uint
		for _, game := range games {
			if game.AdminID != adminID {
				return ErrAccessDenied
			}
			if game.Status == db.StatusActive {
				active = append(active, game.ID)
			}
		}
		if len(active) > 0 {
			return &InvalidStateError{Reason: "cannot delete active games", GameIDs: active}
		}
		return cascadeDelete(tx, gameIDs, &counts)
	})
	if err != nil {
		return nil, err
	}
	log.Printf("games bulk deleted count=%d players=%d reveals=%d", counts.Games, counts.Players, counts.CardReveals)
	return &counts, nil
}

func cascadeDelete(tx *gorm.DB, gameIDs []uint, counts *DeletionCounts) error {
	result := tx.Where("game_id IN ?", gameIDs).Delete(&db.CardReveal{})
	if result.Error != nil {
		return result.Error
	}
	counts.CardReveals += result.RowsAffected

	// prizes reference their winner via revealed_by, so they must go
	// before the players they point at
	result = tx.Where("game_id IN ?", gameIDs).Delete(&db.Prize{})
	if result.Error != nil {
		return result.Error
	}
	counts.Prizes += result.RowsAffected

	result = tx.Where("game_id IN ?", gameIDs).Delete(&db.Player{})
	if result.Error != nil {
		return result.Error
	}
	counts.Players += result.RowsAffected

	result = tx.Where("game_id IN ?", gameIDs).Delete(&db.Event{})
	if result.Error != nil {
		return result.Error
	}
	counts.Events += result.RowsAffected

	result = tx.Where("id IN ?", gameIDs).Delete(&db.Game{})
	if result.Error != nil {
		return result.Error
	}
	counts.Games += result.RowsAffected
	return nil
}
