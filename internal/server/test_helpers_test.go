package server

import (
	"fmt"
	"testing"

	"razzwars/internal/config"
	"razzwars/internal/db"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testAdminPassword = "letmein123"

func newTestServer(t *testing.T) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	// foreign keys enforced so the test schema behaves like the SQL one
	conn, err := gorm.Open(sqlite.Open("file::memory:?_pragma=foreign_keys(1)"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("test db pool: %v", err)
	}
	// every pooled connection would get its own empty in-memory database
	sqlDB.SetMaxOpenConns(1)
	if err := db.Migrate(conn); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return New(conn, config.Default())
}

func createTestAdmin(t *testing.T, srv *Server, username string) *db.Admin {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(testAdminPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	admin := db.Admin{Username: username, PasswordHash: string(hash)}
	if err := srv.db.Create(&admin).Error; err != nil {
		t.Fatalf("create admin: %v", err)
	}
	return &admin
}

func createTestGame(t *testing.T, srv *Server, adminID uint, in CreateGameInput) *db.Game {
	t.Helper()
	game, err := srv.CreateGame(adminID, in)
	if err != nil {
		t.Fatalf("create game: %v", err)
	}
	return game
}

func joinTestPlayers(t *testing.T, srv *Server, game *db.Game, count int) []*db.Player {
	t.Helper()
	players := make([]*db.Player, 0, count)
	for i := 0; i < count; i++ {
		player, _, err := srv.JoinGame(game.GameCode, CreatePlayerInput{
			Name:     fmt.Sprintf("Player %c", 'A'+i),
			Username: fmt.Sprintf("player_%s_%d", game.GameCode, i),
		})
		if err != nil {
			t.Fatalf("join player %d: %v", i, err)
		}
		players = append(players, player)
	}
	return players
}

// startedGame creates a game with one prize at a known cell, joins players
// and starts it.
func startedGame(t *testing.T, srv *Server, adminID uint, gridSize, playerCount, prizePosition int) (*db.Game, []*db.Player) {
	t.Helper()
	game := createTestGame(t, srv, adminID, CreateGameInput{
		Name:       "Test Raffle",
		GridSize:   gridSize,
		MaxPlayers: 10,
		Prizes: []CreatePrizeInput{
			{
				Content:  PrizeContent{Kind: db.PrizeKindWord, Word: "Grand Prize", Value: 750},
				Position: &prizePosition,
			},
		},
	})
	players := joinTestPlayers(t, srv, game, playerCount)
	started, err := srv.StartGame(adminID, game.ID)
	if err != nil {
		t.Fatalf("start game: %v", err)
	}
	return started, players
}

// playerByID resolves the player record for a turn-order entry.
func playerByID(t *testing.T, players []*db.Player, id uint) *db.Player {
	t.Helper()
	for _, player := range players {
		if player.ID == id {
			return player
		}
	}
	t.Fatalf("player %d not in roster", id)
	return nil
}
