package server

import (
	"encoding/json"
	"log"
	"net/http"

	"razzwars/internal/db"

	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (s *Server) handleAdminLogin(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req, bindMessages{
		"Username": {"required": "username is required"},
		"Password": {"required": "password is required"},
	}, "username and password are required") {
		return
	}
	token, admin, err := s.Login(req.Username, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	log.Printf("admin login admin_id=%d username=%s", admin.ID, admin.Username)
	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"admin": gin.H{"id": admin.ID, "username": admin.Username, "email": admin.Email},
	})
}

type prizeRequest struct {
	Kind       string `json:"kind" binding:"required,oneof=word image nft"`
	Word       string `json:"word"`
	Value      int    `json:"value"`
	URL        string `json:"url"`
	Collection string `json:"collection"`
	TokenID    string `json:"token_id"`
	Position   *int   `json:"position"`
}

type createGameRequest struct {
	Name        string         `json:"name" binding:"required"`
	Description string         `json:"description"`
	GridSize    int            `json:"grid_size" binding:"required"`
	MaxPlayers  int            `json:"max_players" binding:"required"`
	Prizes      []prizeRequest `json:"prizes"`
}

func (s *Server) handleAdminCreateGame(c *gin.Context) {
	var req createGameRequest
	if !bindJSON(c, &req, bindMessages{
		"Name":       {"required": "name is required"},
		"GridSize":   {"required": "grid_size is required"},
		"MaxPlayers": {"required": "max_players is required"},
		"Kind":       {"required": "prize kind is required", "oneof": "prize kind must be word, image or nft"},
	}, "invalid game payload") {
		return
	}
	in := CreateGameInput{
		Name:        req.Name,
		Description: req.Description,
		GridSize:    req.GridSize,
		MaxPlayers:  req.MaxPlayers,
	}
	for _, p := range req.Prizes {
		in.Prizes = append(in.Prizes, CreatePrizeInput{
			Content: PrizeContent{
				Kind:       p.Kind,
				Word:       p.Word,
				Value:      p.Value,
				URL:        p.URL,
				Collection: p.Collection,
				TokenID:    p.TokenID,
			},
			Position: p.Position,
		})
	}
	game, err := s.CreateGame(currentAdmin(c).ID, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, s.adminGameSummary(game))
}

func (s *Server) handleAdminListGames(c *gin.Context) {
	games, err := s.store.ListGames(currentAdmin(c).ID)
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]gin.H, 0, len(games))
	for i := range games {
		out = append(out, s.adminGameSummary(&games[i]))
	}
	c.JSON(http.StatusOK, gin.H{"games": out})
}

func (s *Server) adminGameSummary(game *db.Game) gin.H {
	count, err := s.store.CountPlayers(game.ID)
	if err != nil {
		count = 0
	}
	return gin.H{
		"id":           game.ID,
		"name":         game.Name,
		"description":  game.Description,
		"game_code":    game.GameCode,
		"grid_size":    game.GridSize,
		"max_players":  game.MaxPlayers,
		"status":       game.Status,
		"player_count": count,
		"created_at":   game.CreatedAt,
		"started_at":   game.StartedAt,
		"completed_at": game.CompletedAt,
	}
}

// handleAdminGameDetail returns the owner's view: unlike the public
// projection, prize content is included even before reveal.
func (s *Server) handleAdminGameDetail(c *gin.Context) {
	game, ok := s.adminGame(c)
	if !ok {
		return
	}
	players, err := s.store.ListPlayers(game.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	prizes, err := s.store.ListPrizes(game.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	reveals, err := s.store.ListReveals(game.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	prizeViews := make([]gin.H, 0, len(prizes))
	for i := range prizes {
		view := prizeViewOf(prizes[i])
		var content PrizeContent
		_ = json.Unmarshal(prizes[i].Content, &content)
		prizeViews = append(prizeViews, gin.H{
			"id":          view.ID,
			"kind":        view.Kind,
			"content":     content,
			"position":    view.Position,
			"is_revealed": view.IsRevealed,
			"revealed_by": view.RevealedBy,
			"revealed_at": view.RevealedAt,
		})
	}
	playerViews := make([]gin.H, 0, len(players))
	for i := range players {
		p := &players[i]
		playerViews = append(playerViews, gin.H{
			"id":               p.ID,
			"player_code":      p.PlayerCode,
			"username":         p.Username,
			"name":             p.Name,
			"email":            p.Email,
			"phone":            p.Phone,
			"is_winner":        p.IsWinner,
			"is_admin_created": p.IsAdminCreated,
			"is_invited":       p.IsInvited,
			"invited_at":       p.InvitedAt,
			"created_at":       p.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{
		"game":    s.adminGameSummary(game),
		"turn":    turnInfoOf(game, players),
		"players": playerViews,
		"prizes":  prizeViews,
		"stats":   gameStats(game, prizes, reveals, len(players)),
	})
}

// adminGame loads the :gameID param and enforces ownership.
func (s *Server) adminGame(c *gin.Context) (*db.Game, bool) {
	gameID, ok := parseUintParam(c, "gameID")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid game id"})
		return nil, false
	}
	game, err := s.store.GetGame(gameID)
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	if game.AdminID != currentAdmin(c).ID {
		respondError(c, ErrAccessDenied)
		return nil, false
	}
	return game, true
}

func (s *Server) handleAdminStartGame(c *gin.Context) {
	gameID, ok := parseUintParam(c, "gameID")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid game id"})
		return
	}
	game, err := s.StartGame(currentAdmin(c).ID, gameID)
	if err != nil {
		respondError(c, err)
		return
	}
	players, err := s.store.ListPlayers(game.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"game": s.adminGameSummary(game),
		"turn": turnInfoOf(game, players),
	})
}

func (s *Server) handleAdminEndGame(c *gin.Context) {
	gameID, ok := parseUintParam(c, "gameID")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid game id"})
		return
	}
	game, err := s.EndGame(currentAdmin(c).ID, gameID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"game": s.adminGameSummary(game)})
}

func (s *Server) handleAdminDeleteGame(c *gin.Context) {
	gameID, ok := parseUintParam(c, "gameID")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid game id"})
		return
	}
	counts, err := s.DeleteGame(currentAdmin(c).ID, gameID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": counts})
}

type bulkDeleteRequest struct {
	GameIDs []uint `json:"game_ids" binding:"required,min=1"`
}

func (s *Server) handleAdminBulkDelete(c *gin.Context) {
	var req bulkDeleteRequest
	if !bindJSON(c, &req, bindMessages{
		"GameIDs": {"required": "game_ids is required", "min": "game_ids must not be empty"},
	}, "game_ids is required") {
		return
	}
	counts, err := s.BulkDeleteGames(currentAdmin(c).ID, req.GameIDs)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": counts})
}

type createPlayerRequest struct {
	Username string `json:"username" binding:"required"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
}

func (s *Server) handleAdminCreatePlayer(c *gin.Context) {
	gameID, ok := parseUintParam(c, "gameID")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid game id"})
		return
	}
	var req createPlayerRequest
	if !bindJSON(c, &req, bindMessages{
		"Username": {"required": "username is required"},
	}, "invalid player payload") {
		return
	}
	player, err := s.AdminCreatePlayer(currentAdmin(c).ID, gameID, CreatePlayerInput{
		Username: req.Username,
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, adminPlayerJSON(player))
}

func adminPlayerJSON(p *db.Player) gin.H {
	return gin.H{
		"id":               p.ID,
		"player_code":      p.PlayerCode,
		"username":         p.Username,
		"name":             p.Name,
		"email":            p.Email,
		"phone":            p.Phone,
		"is_winner":        p.IsWinner,
		"is_admin_created": p.IsAdminCreated,
		"is_invited":       p.IsInvited,
		"invited_at":       p.InvitedAt,
	}
}

func (s *Server) handleAdminListPlayers(c *gin.Context) {
	game, ok := s.adminGame(c)
	if !ok {
		return
	}
	players, err := s.store.ListPlayers(game.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]gin.H, 0, len(players))
	for i := range players {
		out = append(out, adminPlayerJSON(&players[i]))
	}
	c.JSON(http.StatusOK, gin.H{"players": out})
}

type updatePlayerRequest struct {
	Username string  `json:"username" binding:"required"`
	Name     string  `json:"name"`
	Email    *string `json:"email"`
	Phone    *string `json:"phone"`
}

func (s *Server) handleAdminUpdatePlayer(c *gin.Context) {
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
	var req updatePlayerRequest
	if !bindJSON(c, &req, bindMessages{
		"Username": {"required": "username is required"},
	}, "invalid player payload") {
		return
	}
	player, err := s.UpdatePlayer(currentAdmin(c).ID, gameID, playerID, UpdatePlayerInput{
		Username: req.Username,
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, adminPlayerJSON(player))
}

func (s *Server) handleAdminDeletePlayer(c *gin.Context) {
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
	if err := s.DeletePlayer(currentAdmin(c).ID, gameID, playerID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

func (s *Server) handleAdminInvitePlayer(c *gin.Context) {
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
	player, err := s.InvitePlayer(currentAdmin(c).ID, gameID, playerID)
	if err != nil {
		respondError(c, err)
		return
	}
	log.Printf("player invited game_id=%d player_id=%d", gameID, playerID)
	c.JSON(http.StatusOK, adminPlayerJSON(player))
}

func (s *Server) handleAdminEvents(c *gin.Context) {
	game, ok := s.adminGame(c)
	if !ok {
		return
	}
	events, err := s.store.ListEvents(game.ID, 100)
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]gin.H, 0, len(events))
	for i := range events {
		ev := &events[i]
		out = append(out, gin.H{
			"id":         ev.ID,
			"type":       ev.Type,
			"player_id":  ev.PlayerID,
			"payload":    ev.Payload,
			"created_at": ev.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"events": out})
}
