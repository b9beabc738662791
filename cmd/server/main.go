package main

import (
	"log"
	"net/http"
	"time"

	"razzwars/internal/config"
	"razzwars/internal/db"
	"razzwars/internal/server"

	"github.com/gin-gonic/gin"
)

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		log.Printf("failed to load .env: %v", err)
	}
	cfg := config.Load()

	conn, err := db.Open()
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	if err := db.Migrate(conn); err != nil {
		log.Fatalf("database migration failed: %v", err)
	}
	sqlDB, err := conn.DB()
	if err != nil {
		log.Fatalf("database pool unavailable: %v", err)
	}
	sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.DBMaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.DBConnMaxLifetimeSeconds) * time.Second)
	sqlDB.SetConnMaxIdleTime(time.Duration(cfg.DBConnMaxIdleTimeSeconds) * time.Second)

	gin.SetMode(gin.ReleaseMode)
	srv := server.New(conn, cfg)
	addr := ":" + cfg.Port
	log.Printf("razzwars server listening on %s", addr)
	if err := http.ListenAndServe(addr, srv.Handler()); err != nil {
		log.Fatal(err)
	}
}
