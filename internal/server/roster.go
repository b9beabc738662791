package server

import (
	"log"
	"time"

	"razzwars/internal/db"

	"gorm.io/gorm"
)

type CreatePlayerInput struct {
	Username string
	Name     string
	Email    string
	Phone    string
}

// AdminCreatePlayer registers a player on a waiting game on behalf of the
// admin. Usernames are unique across all games; the player code is
// generated with the bounded retry loop.
func (s *Server) AdminCreatePlayer(adminID, gameID uint, in CreatePlayerInput) (*db.Player, error) {
	username, err := validateUsername(in.Username)
	if err != nil {
		return nil, err
	}
	var player *db.Player
	_, err = s.store.UpdateGame(gameID, func(tx *gorm.DB, game *db.Game) error {
		if game.AdminID != adminID {
			return ErrAccessDenied
		}
		player, err = createPlayer(tx, game, username, in, true)
		return err
	})
	if err != nil {
		return nil, err
	}
	log.Printf("player created game_id=%d player_id=%d username=%s", gameID, player.ID, player.Username)
	return player, nil
}

// JoinGame registers a new player on a waiting game located by its game
// code. A missing username is generated, unique across all games.
func (s *Server) JoinGame(gameCode string, in CreatePlayerInput) (*db.Player, *db.Game, error) {
	if normalizeText(in.Name) == "" {
		return nil, nil, &ValidationError{Reason: "name is required"}
	}
	found, err := s.store.FindGameByCode(gameCode)
	if err != nil {
		return nil, nil, err
	}
	var player *db.Player
	game, err := s.store.UpdateGame(found.ID, func(tx *gorm.DB, game *db.Game) error {
		username := in.Username
		if username != "" {
			username, err = validateUsername(username)
			if err != nil {
				return err
			}
		} else {
			username, err = uniqueUsername(tx)
			if err != nil {
				return err
			}
		}
		var sameName int64
		if err := tx.Model(&db.Player{}).Where("game_id = ? AND name = ?", game.ID, normalizeText(in.Name)).Count(&sameName).Error; err != nil {
			return err
		}
		if sameName > 0 {
			return &ValidationError{Reason: "player name already exists in this game"}
		}
		player, err = createPlayer(tx, game, username, in, false)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	log.Printf("player joined game_id=%d player_id=%d username=%s", game.ID, player.ID, player.Username)
	return player, game, nil
}

// createPlayer runs inside the game's update transaction so registration
// cannot race with start: membership checks and the insert see the same
// committed state the turn order will be built from.
func createPlayer(tx *gorm.DB, game *db.Game, username string, in CreatePlayerInput, adminCreated bool) (*db.Player, error) {
	if game.Status != db.StatusWaiting {
		return nil, &InvalidStateError{Reason: "game is not accepting new players"}
	}
	var count int64
	if err := tx.Model(&db.Player{}).Where("game_id = ?", game.ID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count >= int64(game.MaxPlayers) {
		return nil, &PreconditionError{Reason: "game is full"}
	}
	taken, err := usernameTaken(tx, username, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, &ValidationError{Reason: "username already exists"}
	}
	code, err := uniquePlayerCode(tx)
	if err != nil {
		return nil, err
	}
	name := normalizeText(in.Name)
	if name == "" {
		name = "Player_" + username
	}
	if len(name) > maxPlayerName {
		return nil, validationErrorf("name must be %d characters or fewer", maxPlayerName)
	}
	player := db.Player{
		GameID:         game.ID,
		PlayerCode:     code,
		Username:       username,
		Name:           name,
		Email:          normalizeText(in.Email),
		Phone:          normalizeText(in.Phone),
		IsAdminCreated: adminCreated,
	}
	if err := tx.Create(&player).Error; err != nil {
		return nil, err
	}
	if err := appendEvent(tx, game.ID, &player.ID, eventPlayerJoined, EventPayload{
		PlayerName: player.Name,
		Username:   player.Username,
	}); err != nil {
		return nil, err
	}
	return &player, nil
}

// JoinByPlayerCode resolves an already-registered player from their secret
// code, for re-entering the board. Terminal games reject the join.
func (s *Server) JoinByPlayerCode(code string) (*db.Player, *db.Game, error) {
	player, err := s.store.FindPlayerByCode(code)
	if err != nil {
		return nil, nil, err
	}
	game, err := s.store.GetGame(player.GameID)
	if err != nil {
		return nil, nil, err
	}
	if game.Status == db.StatusCompleted || game.Status == db.StatusCancelled {
		return nil, nil, &InvalidStateError{Reason: "game is no longer active"}
	}
	return player, game, nil
}

type UpdatePlayerInput struct {
	Username string
	Name     string
	Email    *string
	Phone    *string
}

func (s *Server) UpdatePlayer(adminID, gameID, playerID uint, in UpdatePlayerInput) (*db.Player, error) {
	username, err := validateUsername(in.Username)
	if err != nil {
		return nil, err
	}
	var player *db.Player
	_, err = s.store.UpdateGame(gameID, func(tx *gorm.DB, game *db.Game) error {
		if game.AdminID != adminID {
			return ErrAccessDenied
		}
		var record db.Player
		if err := tx.Where("id = ? AND game_id = ?", playerID, game.ID).First(&record).Error; err != nil {
			return ErrPlayerNotFound
		}
		taken, err := usernameTaken(tx, username, record.ID)
		if err != nil {
			return err
		}
		if taken {
			return &ValidationError{Reason: "username already exists"}
		}
		record.Username = username
		if name := normalizeText(in.Name); name != "" {
			record.Name = name
		}
		if in.Email != nil {
			record.Email = normalizeText(*in.Email)
		}
		if in.Phone != nil {
			record.Phone = normalizeText(*in.Phone)
		}
		if err := tx.Save(&record).Error; err != nil {
			return err
		}
		player = &record
		return nil
	})
	if err != nil {
		return nil, err
	}
	return player, nil
}

// DeletePlayer removes a player from a waiting game. Membership is frozen
// once the game starts, so deletion from an active game is rejected.
func (s *Server) DeletePlayer(adminID, gameID, playerID uint) error {
	_, err := s.store.UpdateGame(gameID, func(tx *gorm.DB, game *db.Game) error {
		if game.AdminID != adminID {
			return ErrAccessDenied
		}
		if game.Status != db.StatusWaiting {
			return &InvalidStateError{Reason: "cannot remove players after the game has started"}
		}
		result := tx.Where("id = ? AND game_id = ?", playerID, game.ID).Delete(&db.Player{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrPlayerNotFound
		}
		return nil
	})
	if err == nil {
		log.Printf("player deleted game_id=%d player_id=%d", gameID, playerID)
	}
	return err
}

// InvitePlayer marks an admin-created player as invited so a username can
// later be assigned through the public endpoint.
func (s *Server) InvitePlayer(adminID, gameID, playerID uint) (*db.Player, error) {
	var player *db.Player
	_, err := s.store.UpdateGame(gameID, func(tx *gorm.DB, game *db.Game) error {
		if game.AdminID != adminID {
			return ErrAccessDenied
		}
		var record db.Player
		if err := tx.Where("id = ? AND game_id = ?", playerID, game.ID).First(&record).Error; err != nil {
			return ErrPlayerNotFound
		}
		if !record.IsAdminCreated {
			return &PreconditionError{Reason: "only admin-created players can be invited"}
		}
		if record.IsInvited {
			return &InvalidStateError{Reason: "player has already been invited"}
		}
		now := time.Now().UTC()
		record.IsInvited = true
		record.InvitedAt = &now
		if err := tx.Save(&record).Error; err != nil {
			return err
		}
		player = &record
		return nil
	})
	if err != nil {
		return nil, err
	}
	return player, nil
}

// AssignUsername lets an invited player claim a username without admin
// credentials.
func (s *Server) AssignUsername(gameID, playerID uint, username string) (*db.Player, error) {
	username, err := validateUsername(username)
	if err != nil {
		return nil, err
	}
	var player *db.Player
	_, err = s.store.UpdateGame(gameID, func(tx *gorm.DB, game *db.Game) error {
		var record db.Player
		if err := tx.Where("id = ? AND game_id = ?", playerID, game.ID).First(&record).Error; err != nil {
			return ErrPlayerNotFound
		}
		if !record.IsInvited {
			return &PreconditionError{Reason: "player has not been invited yet"}
		}
		taken, err := usernameTaken(tx, username, record.ID)
		if err != nil {
			return err
		}
		if taken {
			return &ValidationError{Reason: "username already exists"}
		}
		record.Username = username
		if err := tx.Save(&record).Error; err != nil {
			return err
		}
		player = &record
		return nil
	})
	if err != nil {
		return nil, err
	}
	return player, nil
}
