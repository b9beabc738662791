package server

import (
	"net/http"

	"razzwars/internal/config"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Server struct {
	store *Store
	db    *gorm.DB
	ws    *wsHub
	cfg   config.Config
}

func New(conn *gorm.DB, cfg config.Config) *Server {
	return &Server{
		store: NewStore(conn),
		db:    conn,
		ws:    newWSHub(),
		cfg:   cfg,
	}
}

func (s *Server) Handler() http.Handler {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/", s.handleHome)

	players := router.Group("/api/players")
	players.POST("/join", s.handleJoin)
	players.POST("/join-game", s.handleJoinGame)
	players.POST("/reveal-card", s.handleRevealCard)
	players.GET("/game-state/:gameID", s.handleGameState)

	router.POST("/api/games/:gameID/players/:playerID/assign-username", s.handleAssignUsername)

	admin := router.Group("/api/admin")
	admin.POST("/login", s.handleAdminLogin)
	guarded := admin.Group("", s.requireAdmin())
	guarded.POST("/games", s.handleAdminCreateGame)
	guarded.GET("/games", s.handleAdminListGames)
	guarded.DELETE("/games", s.handleAdminBulkDelete)
	guarded.GET("/games/:gameID", s.handleAdminGameDetail)
	guarded.PUT("/games/:gameID/start", s.handleAdminStartGame)
	guarded.PUT("/games/:gameID/end", s.handleAdminEndGame)
	guarded.DELETE("/games/:gameID", s.handleAdminDeleteGame)
	guarded.POST("/games/:gameID/players", s.handleAdminCreatePlayer)
	guarded.GET("/games/:gameID/players", s.handleAdminListPlayers)
	guarded.PUT("/games/:gameID/players/:playerID", s.handleAdminUpdatePlayer)
	guarded.DELETE("/games/:gameID/players/:playerID", s.handleAdminDeletePlayer)
	guarded.POST("/games/:gameID/players/:playerID/invite", s.handleAdminInvitePlayer)
	guarded.GET("/games/:gameID/events", s.handleAdminEvents)

	router.GET("/ws/games/:gameID", s.handleGameWebsocket)
	router.Static("/static", "static")

	return router
}
