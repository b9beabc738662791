package main

import (
	"flag"
	"log"

	"razzwars/internal/config"
	"razzwars/internal/db"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	username := flag.String("username", "", "admin username")
	email := flag.String("email", "", "admin email")
	password := flag.String("password", "", "admin password")
	flag.Parse()

	if *username == "" || *password == "" {
		log.Fatal("username and password are required")
	}

	if err := config.LoadDotEnv(".env"); err != nil {
		log.Printf("failed to load .env: %v", err)
	}
	conn, err := db.Open()
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	if err := db.Migrate(conn); err != nil {
		log.Fatalf("database migration failed: %v", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("password hashing failed: %v", err)
	}
	admin := db.Admin{
		Username:     *username,
		Email:        *email,
		PasswordHash: string(hash),
	}
	if err := conn.Create(&admin).Error; err != nil {
		log.Fatalf("admin creation failed: %v", err)
	}
	log.Printf("admin created admin_id=%d username=%s", admin.ID, admin.Username)
}
