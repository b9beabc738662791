package server

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"razzwars/internal/db"

	"gorm.io/gorm"
)

const (
	codeAlphabet     = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	gameCodeLength   = 6
	playerCodeLength = 8
	maxCodeAttempts  = 10
)

// generateCode returns a uniformly random string of the given length over
// the alphabet.
func generateCode(length int, alphabet string) string {
	buf := make([]byte, length)
	for i := range buf {
		buf[i] = alphabet[randIndex(len(alphabet))]
	}
	return string(buf)
}

// randIndex returns a uniform random int in [0, n).
func randIndex(n int) int {
	value, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic("crypto/rand unavailable: " + err.Error())
	}
	return int(value.Int64())
}

func uniqueGameCode(tx *gorm.DB) (string, error) {
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code := generateCode(gameCodeLength, codeAlphabet)
		var count int64
		if err := tx.Model(&db.Game{}).Where("game_code = ?", code).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return code, nil
		}
	}
	return "", ErrCodeExhausted
}

func uniquePlayerCode(tx *gorm.DB) (string, error) {
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code := generateCode(playerCodeLength, codeAlphabet)
		var count int64
		if err := tx.Model(&db.Player{}).Where("player_code = ?", code).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return code, nil
		}
	}
	return "", ErrCodeExhausted
}

var usernameAdjectives = []string{
	"Cool", "Swift", "Bright", "Bold", "Sharp", "Quick", "Smart", "Wild", "Brave", "Lucky",
}

var usernameNouns = []string{
	"Player", "Gamer", "Champion", "Hero", "Warrior", "Master", "Legend", "Star", "Ace", "Pro",
}

func generateUsername() string {
	adjective := usernameAdjectives[randIndex(len(usernameAdjectives))]
	noun := usernameNouns[randIndex(len(usernameNouns))]
	return fmt.Sprintf("%s%s%d", adjective, noun, randIndex(9999)+1)
}

func uniqueUsername(tx *gorm.DB) (string, error) {
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		username := generateUsername()
		taken, err := usernameTaken(tx, username, 0)
		if err != nil {
			return "", err
		}
		if !taken {
			return username, nil
		}
	}
	return "", ErrCodeExhausted
}

// usernameTaken reports whether any player other than excludeID holds the
// username. Usernames are unique across all games.
func usernameTaken(tx *gorm.DB, username string, excludeID uint) (bool, error) {
	query := tx.Model(&db.Player{}).Where("username = ?", username)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
