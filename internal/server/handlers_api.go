package server

import (
	"net/http"

	"razzwars/internal/db"
	"razzwars/internal/web"

	"github.com/a-h/templ"
	"github.com/gin-gonic/gin"
)

func (s *Server) handleHome(c *gin.Context) {
	templ.Handler(web.Home()).ServeHTTP(c.Writer, c.Request)
}

func gameSummaryJSON(game *db.Game) gin.H {
	return gin.H{
		"id":          game.ID,
		"name":        game.Name,
		"description": game.Description,
		"game_code":   game.GameCode,
		"grid_size":   game.GridSize,
		"max_players": game.MaxPlayers,
		"status":      game.Status,
	}
}

func playerJSON(p *db.Player) gin.H {
	return gin.H{
		"id":          p.ID,
		"player_code": p.PlayerCode,
		"username":    p.Username,
		"name":        p.Name,
		"is_winner":   p.IsWinner,
	}
}

type joinRequest struct {
	PlayerCode string `json:"player_code" binding:"required"`
}

// handleJoin lets a registered player re-enter with their secret code.
func (s *Server) handleJoin(c *gin.Context) {
	var req joinRequest
	if !bindJSON(c, &req, bindMessages{
		"PlayerCode": {"required": "player_code is required"},
	}, "player_code is required") {
		return
	}
	player, game, err := s.JoinByPlayerCode(req.PlayerCode)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"player": playerJSON(player),
		"game":   gameSummaryJSON(game),
	})
}

type joinGameRequest struct {
	GameCode string `json:"game_code" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
}

// handleJoinGame registers a new player on a waiting game by game code.
func (s *Server) handleJoinGame(c *gin.Context) {
	var req joinGameRequest
	if !bindJSON(c, &req, bindMessages{
		"GameCode": {"required": "game_code is required"},
		"Name":     {"required": "name is required"},
	}, "game_code and name are required") {
		return
	}
	player, game, err := s.JoinGame(req.GameCode, CreatePlayerInput{
		Username: req.Username,
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"player": playerJSON(player),
		"game":   gameSummaryJSON(game),
	})
}

type revealCardRequest struct {
	GameID   uint `json:"game_id" binding:"required"`
	PlayerID uint `json:"player_id" binding:"required"`
	CardID   *int `json:"card_id" binding:"required"`
}

func (s *Server) handleRevealCard(c *gin.Context) {
	var req revealCardRequest
	if !bindJSON(c, &req, bindMessages{
		"GameID":   {"required": "game_id is required"},
		"PlayerID": {"required": "player_id is required"},
		"CardID":   {"required": "card_id is required"},
	}, "game_id, player_id and card_id are required") {
		return
	}
	result, err := s.RevealCard(req.GameID, req.PlayerID, *req.CardID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"prize":      result.Prize,
		"is_winner":  result.Player.IsWinner,
		"player":     result.Player,
		"game_state": result.GameState,
	})
}

func (s *Server) handleGameState(c *gin.Context) {
	gameID, ok := parseUintParam(c, "gameID")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid game id"})
		return
	}
	state, err := s.GameState(gameID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

type assignUsernameRequest struct {
	Username string `json:"username" binding:"required"`
}

// handleAssignUsername is the public completion of the invite flow: an
// invited player claims their username without admin credentials.
func (s *Server) handleAssignUsername(c *gin.Context) {
	gameID, ok := parseUintParam(c, "gameID")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid game id"})
		return
	}
	playerID, ok := parseUintParam(c, "playerID")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid player id"})
		return
	}
	var req assignUsernameRequest
	if !bindJSON(c, &req, bindMessages{
		"Username": {"required": "username is required"},
	}, "username is required") {
		return
	}
	player, err := s.AssignUsername(gameID, playerID, req.Username)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, playerJSON(player))
}
