package server

import (
	"encoding/json"

	"razzwars/internal/db"
)

// prizeViewOf projects a prize for clients. The content payload stays
// hidden until the prize has been revealed; only cell identity leaks early.
func prizeViewOf(prize db.Prize) PrizeView {
	view := PrizeView{
		ID:         prize.ID,
		Kind:       prize.Kind,
		Position:   prize.Position,
		IsRevealed: prize.IsRevealed,
		RevealedBy: prize.RevealedBy,
		RevealedAt: prize.RevealedAt,
	}
	if prize.IsRevealed {
		var content PrizeContent
		if err := json.Unmarshal(prize.Content, &content); err == nil {
			view.Content = &content
		}
	}
	return view
}

func playerViewOf(player db.Player) PlayerView {
	return PlayerView{
		ID:       player.ID,
		Name:     player.Name,
		Username: player.Username,
		IsWinner: player.IsWinner,
	}
}

func turnInfoOf(game *db.Game, players []db.Player) TurnInfo {
	info := TurnInfo{
		CurrentTurn:        game.CurrentTurn,
		Round:              game.Round,
		CurrentPlayerIndex: game.CurrentPlayerIndex,
		TurnOrder:          []uint(game.TurnOrder),
	}
	if game.Status == db.StatusActive && len(info.TurnOrder) > 0 && game.CurrentPlayerIndex < len(info.TurnOrder) {
		nextID := info.TurnOrder[game.CurrentPlayerIndex]
		for i := range players {
			if players[i].ID == nextID {
				view := playerViewOf(players[i])
				info.NextPlayer = &view
				break
			}
		}
	}
	return info
}

// GameState assembles the player-facing read model: board configuration,
// turn state, prizes (content withheld until revealed), reveal history and
// the roster.
func (s *Server) GameState(gameID uint) (map[string]any, error) {
	game, err := s.store.GetGame(gameID)
	if err != nil {
		return nil, err
	}
	players, err := s.store.ListPlayers(gameID)
	if err != nil {
		return nil, err
	}
	prizes, err := s.store.ListPrizes(gameID)
	if err != nil {
		return nil, err
	}
	reveals, err := s.store.ListReveals(gameID)
	if err != nil {
		return nil, err
	}

	byID := make(map[uint]PlayerView, len(players))
	playerViews := make([]PlayerView, 0, len(players))
	for _, player := range players {
		view := playerViewOf(player)
		byID[player.ID] = view
		playerViews = append(playerViews, view)
	}

	prizeViews := make([]PrizeView, 0, len(prizes))
	for _, prize := range prizes {
		prizeViews = append(prizeViews, prizeViewOf(prize))
	}

	revealViews := make([]map[string]any, 0, len(reveals))
	for _, reveal := range reveals {
		entry := map[string]any{
			"id":          reveal.ID,
			"card_id":     reveal.CardID,
			"revealed_at": reveal.CreatedAt,
		}
		if view, ok := byID[reveal.PlayerID]; ok {
			entry["player"] = view
		}
		revealViews = append(revealViews, entry)
	}

	return map[string]any{
		"game": map[string]any{
			"id":                   game.ID,
			"name":                 game.Name,
			"description":          game.Description,
			"grid_size":            game.GridSize,
			"status":               game.Status,
			"current_turn":         game.CurrentTurn,
			"round":                game.Round,
			"current_player_index": game.CurrentPlayerIndex,
			"turn_order":           []uint(game.TurnOrder),
			"started_at":           game.StartedAt,
		},
		"prizes":  prizeViews,
		"reveals": revealViews,
		"players": playerViews,
	}, nil
}

// gameStats summarizes board progress for the admin game detail.
func gameStats(game *db.Game, prizes []db.Prize, reveals []db.CardReveal, playerCount int) map[string]any {
	totalCards := game.GridSize * game.GridSize
	revealedPrizes := 0
	for _, prize := range prizes {
		if prize.IsRevealed {
			revealedPrizes++
		}
	}
	progress := 0.0
	if totalCards > 0 {
		progress = float64(len(reveals)) / float64(totalCards) * 100
	}
	return map[string]any{
		"total_cards":      totalCards,
		"revealed_cards":   len(reveals),
		"remaining_cards":  totalCards - len(reveals),
		"total_prizes":     len(prizes),
		"revealed_prizes":  revealedPrizes,
		"remaining_prizes": len(prizes) - revealedPrizes,
		"player_count":     playerCount,
		"game_progress":    progress,
	}
}
