package server

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"net/http"
	"strings"
	"time"

	"razzwars/internal/db"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Login verifies admin credentials and issues an opaque bearer token with
// the configured TTL.
func (s *Server) Login(username, password string) (string, *db.Admin, error) {
	var admin db.Admin
	if err := s.db.Where("username = ?", strings.TrimSpace(username)).First(&admin).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}
	token := newAuthToken()
	now := time.Now().UTC()
	record := db.AdminToken{
		Token:     token,
		AdminID:   admin.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(time.Duration(s.cfg.AdminTokenTTLHours) * time.Hour),
	}
	if err := s.db.Create(&record).Error; err != nil {
		return "", nil, err
	}
	return token, &admin, nil
}

func newAuthToken() string {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		panic("crypto/rand unavailable: " + err.Error())
	}
	return hex.EncodeToString(buf)
}

func (s *Server) adminFromToken(token string) (*db.Admin, error) {
	var record db.AdminToken
	if err := s.db.Where("token = ?", token).First(&record).Error; err != nil {
		return nil, errors.New("invalid token")
	}
	if time.Now().UTC().After(record.ExpiresAt) {
		return nil, errors.New("token expired")
	}
	var admin db.Admin
	if err := s.db.First(&admin, record.AdminID).Error; err != nil {
		return nil, errors.New("invalid token")
	}
	return &admin, nil
}

// requireAdmin guards the admin route group with bearer-token auth and
// stores the resolved admin on the request context.
func (s *Server) requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		token = strings.TrimSpace(token)
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "access token required"})
			return
		}
		admin, err := s.adminFromToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}
		c.Set(contextAdminKey, admin)
		c.Next()
	}
}

const contextAdminKey = "admin"

func currentAdmin(c *gin.Context) *db.Admin {
	value, ok := c.Get(contextAdminKey)
	if !ok {
		return nil
	}
	admin, _ := value.(*db.Admin)
	return admin
}
