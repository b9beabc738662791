package server

import (
	"errors"
	"strings"
	"sync"

	"razzwars/internal/db"

	"gorm.io/gorm"
)

// Store is the durable game store. Every mutation of a game's lifecycle or
// turn state goes through UpdateGame, which serializes writers per game id
// and applies the whole update in one transaction. Reads go straight to the
// database and always observe committed state.
type Store struct {
	db    *gorm.DB
	mu    sync.Mutex
	locks map[uint]*sync.Mutex
}

func NewStore(conn *gorm.DB) *Store {
	return &Store{
		db:    conn,
		locks: make(map[uint]*sync.Mutex),
	}
}

func (s *Store) gameLock(gameID uint) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[gameID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[gameID] = lock
	}
	return lock
}

// UpdateGame loads the game, applies update and saves the record, all
// inside one transaction held under the game's lock. A concurrent update
// that loses the lock re-reads committed state, so its validation failures
// are deterministic rather than based on a stale snapshot.
func (s *Store) UpdateGame(gameID uint, update func(tx *gorm.DB, game *db.Game) error) (*db.Game, error) {
	lock := s.gameLock(gameID)
	lock.Lock()
	defer lock.Unlock()

	var game db.Game
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&game, gameID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrGameNotFound
			}
			return err
		}
		if err := update(tx, &game); err != nil {
			return err
		}
		return tx.Save(&game).Error
	})
	if err != nil {
		return nil, err
	}
	return &game, nil
}

func (s *Store) GetGame(gameID uint) (*db.Game, error) {
	var game db.Game
	if err := s.db.First(&game, gameID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, err
	}
	return &game, nil
}

func (s *Store) FindGameByCode(code string) (*db.Game, error) {
	var game db.Game
	err := s.db.Where("game_code = ?", strings.ToUpper(strings.TrimSpace(code))).First(&game).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, err
	}
	return &game, nil
}

func (s *Store) GetPlayer(gameID, playerID uint) (*db.Player, error) {
	var player db.Player
	err := s.db.Where("id = ? AND game_id = ?", playerID, gameID).First(&player).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}
	return &player, nil
}

func (s *Store) FindPlayerByCode(code string) (*db.Player, error) {
	var player db.Player
	err := s.db.Where("player_code = ?", strings.ToUpper(strings.TrimSpace(code))).First(&player).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}
	return &player, nil
}

// ListPlayers returns the game's players in registration order.
func (s *Store) ListPlayers(gameID uint) ([]db.Player, error) {
	var players []db.Player
	err := s.db.Where("game_id = ?", gameID).Order("created_at, id").Find(&players).Error
	return players, err
}

func (s *Store) CountPlayers(gameID uint) (int64, error) {
	var count int64
	err := s.db.Model(&db.Player{}).Where("game_id = ?", gameID).Count(&count).Error
	return count, err
}

func (s *Store) ListPrizes(gameID uint) ([]db.Prize, error) {
	var prizes []db.Prize
	err := s.db.Where("game_id = ?", gameID).Order("position").Find(&prizes).Error
	return prizes, err
}

func (s *Store) ListReveals(gameID uint) ([]db.CardReveal, error) {
	var reveals []db.CardReveal
	err := s.db.Where("game_id = ?", gameID).Order("created_at, id").Find(&reveals).Error
	return reveals, err
}

func (s *Store) ListGames(adminID uint) ([]db.Game, error) {
	var games []db.Game
	err := s.db.Where("admin_id = ?", adminID).Order("created_at desc, id desc").Find(&games).Error
	return games, err
}

func (s *Store) ListEvents(gameID uint, limit int) ([]db.Event, error) {
	query := s.db.Where("game_id = ?", gameID).Order("created_at desc, id desc")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var events []db.Event
	err := query.Find(&events).Error
	return events, err
}
