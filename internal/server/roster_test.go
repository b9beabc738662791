package server

import (
	"errors"
	"strings"
	"testing"

	"razzwars/internal/db"
)

func TestJoinGameGeneratesUsernameAndCode(t *testing.T) {
	srv := newTestServer(t)
	admin := createTestAdmin(t, srv, "join_admin")
	game := createTestGame(t, srv, admin.ID, CreateGameInput{Name: "Join", GridSize: 3, MaxPlayers: 5})

	player, joined, err := srv.JoinGame(game.GameCode, CreatePlayerInput{Name: "Ada"})
	if err != nil {
		t.Fatalf("join game: %v", err)
	}
	if joined.ID != game.ID {
		t.Fatalf("joined the wrong game: %d", joined.ID)
	}
	if len(player.PlayerCode) != playerCodeLength {
		t.Fatalf("expected %d-char player code, got %q", playerCodeLength, player.PlayerCode)
	}
	if player.Username == "" {
		t.Fatal("expected a generated username")
	}
	if player.Name != "Ada" {
		t.Fatalf("expected name Ada, got %q", player.Name)
	}
}

func TestJoinGameCodeIsCaseInsensitive(t *testing.T) {
	srv := newTestServer(t)
	admin := createTestAdmin(t, srv, "case_admin")
	game := createTestGame(t, srv, admin.ID, CreateGameInput{Name: "Case", GridSize: 3, MaxPlayers: 5})

	if _, _, err := srv.JoinGame(strings.ToLower(game.GameCode), CreatePlayerInput{Name: "Bea"}); err != nil {
		t.Fatalf("lowercase code should resolve: %v", err)
	}
}

func TestJoinGameRejectsDuplicateUsername(t *testing.T) {
	srv := newTestServer(t)
	admin := createTestAdmin(t, srv, "dupuser_admin")
	game := createTestGame(t, srv, admin.ID, CreateGameInput{Name: "Dup", GridSize: 3, MaxPlayers: 5})

	if _, _, err := srv.JoinGame(game.GameCode, CreatePlayerInput{Name: "Ada", Username: "ada_1"}); err != nil {
		t.Fatalf("first join: %v", err)
	}
	_, _, err := srv.JoinGame(game.GameCode, CreatePlayerInput{Name: "Bea", Username: "ada_1"})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error for duplicate username, got %v", err)
	}
}

func TestJoinGameRejectsDuplicateNameInGame(t *testing.T) {
	srv := newTestServer(t)
	admin := createTestAdmin(t, srv, "dupname_admin")
	game := createTestGame(t, srv, admin.ID, CreateGameInput{Name: "DupName", GridSize: 3, MaxPlayers: 5})

	if _, _, err := srv.JoinGame(game.GameCode, CreatePlayerInput{Name: "Ada"}); err != nil {
		t.Fatalf("first join: %v", err)
	}
	_, _, err := srv.JoinGame(game.GameCode, CreatePlayerInput{Name: "Ada"})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error for duplicate name, got %v", err)
	}
}

func TestJoinGameRespectsCapacity(t *testing.T) {
	srv := newTestServer(t)
	admin := createTestAdmin(t, srv, "cap_admin")
	game := createTestGame(t, srv, admin.ID, CreateGameInput{Name: "Full", GridSize: 3, MaxPlayers: 2})
	joinTestPlayers(t, srv, game, 2)

	_, _, err := srv.JoinGame(game.GameCode, CreatePlayerInput{Name: "Late"})
	var perr *PreconditionError
	if !errors.As(err, &perr) {
		t.Fatalf("expected precondition error for full game, got %v", err)
	}
}

func TestJoinGameAfterStartRejected(t *testing.T) {
	srv := newTestServer(t)
	admin := createTestAdmin(t, srv, "late_admin")
	game, _ := startedGame(t, srv, admin.ID, 3, 2, 4)

	_, _, err := srv.JoinGame(game.GameCode, CreatePlayerInput{Name: "Late"})
	var serr *InvalidStateError
	if !errors.As(err, &serr) {
		t.Fatalf("expected invalid state error after start, got %v", err)
	}
}

func TestJoinByPlayerCode(t *testing.T) {
	srv := newTestServer(t)
	admin := createTestAdmin(t, srv, "rejoin_admin")
	game := createTestGame(t, srv, admin.ID, CreateGameInput{Name: "Rejoin", GridSize: 3, MaxPlayers: 5})
	player := joinTestPlayers(t, srv, game, 1)[0]

	found, foundGame, err := srv.JoinByPlayerCode(strings.ToLower(player.PlayerCode))
	if err != nil {
		t.Fatalf("join by player code: %v", err)
	}
	if found.ID != player.ID || foundGame.ID != game.ID {
		t.Fatalf("resolved the wrong player/game: %d/%d", found.ID, foundGame.ID)
	}

	if _, _, err := srv.JoinByPlayerCode("NOPE1234"); !errors.Is(err, ErrPlayerNotFound) {
		t.Fatalf("expected player not found, got %v", err)
	}
}

func TestJoinByPlayerCodeAfterCompletion(t *testing.T) {
	srv := newTestServer(t)
	admin := createTestAdmin(t, srv, "done_admin")
	game, players := startedGame(t, srv, admin.ID, 3, 2, 4)
	if _, err := srv.EndGame(admin.ID, game.ID); err != nil {
		t.Fatalf("end game: %v", err)
	}

	_, _, err := srv.JoinByPlayerCode(players[0].PlayerCode)
	var serr *InvalidStateError
	if !errors.As(err, &serr) {
		t.Fatalf("expected invalid state on completed game, got %v", err)
	}
}

func TestAdminRosterFlow(t *testing.T) {
	srv := newTestServer(t)
	admin := createTestAdmin(t, srv, "roster_admin")
	game := createTestGame(t, srv, admin.ID, CreateGameInput{Name: "Roster", GridSize: 3, MaxPlayers: 5})

	player, err := srv.AdminCreatePlayer(admin.ID, game.ID, CreatePlayerInput{
		Username: "vip_guest",
		Email:    "vip@example.com",
	})
	if err != nil {
		t.Fatalf("admin create player: %v", err)
	}
	if !player.IsAdminCreated {
		t.Fatal("expected admin-created flag")
	}
	if player.Name != "Player_vip_guest" {
		t.Fatalf("expected default name, got %q", player.Name)
	}

	invited, err := srv.InvitePlayer(admin.ID, game.ID, player.ID)
	if err != nil {
		t.Fatalf("invite: %v", err)
	}
	if !invited.IsInvited || invited.InvitedAt == nil {
		t.Fatal("expected invited flag and timestamp")
	}
	if _, err := srv.InvitePlayer(admin.ID, game.ID, player.ID); err == nil {
		t.Fatal("expected second invite to fail")
	}

	renamed, err := srv.AssignUsername(game.ID, player.ID, "chosen_name")
	if err != nil {
		t.Fatalf("assign username: %v", err)
	}
	if renamed.Username != "chosen_name" {
		t.Fatalf("expected chosen_name, got %q", renamed.Username)
	}
}

func TestInviteRequiresAdminCreatedPlayer(t *testing.T) {
	srv := newTestServer(t)
	admin := createTestAdmin(t, srv, "invite_admin")
	game := createTestGame(t, srv, admin.ID, CreateGameInput{Name: "Invite", GridSize: 3, MaxPlayers: 5})
	player := joinTestPlayers(t, srv, game, 1)[0]

	_, err := srv.InvitePlayer(admin.ID, game.ID, player.ID)
	var perr *PreconditionError
	if !errors.As(err, &perr) {
		t.Fatalf("expected precondition error, got %v", err)
	}
}

func TestAssignUsernameRequiresInvite(t *testing.T) {
	srv := newTestServer(t)
	admin := createTestAdmin(t, srv, "assign_admin")
	game := createTestGame(t, srv, admin.ID, CreateGameInput{Name: "Assign", GridSize: 3, MaxPlayers: 5})
	player := joinTestPlayers(t, srv, game, 1)[0]

	if _, err := srv.AssignUsername(game.ID, player.ID, "too_soon"); err == nil {
		t.Fatal("expected assign-username to require an invite")
	}
}

func TestUpdatePlayer(t *testing.T) {
	srv := newTestServer(t)
	admin := createTestAdmin(t, srv, "update_admin")
	game := createTestGame(t, srv, admin.ID, CreateGameInput{Name: "Update", GridSize: 3, MaxPlayers: 5})
	player := joinTestPlayers(t, srv, game, 1)[0]

	email := "new@example.com"
	updated, err := srv.UpdatePlayer(admin.ID, game.ID, player.ID, UpdatePlayerInput{
		Username: "renamed_player",
		Name:     "Renamed",
		Email:    &email,
	})
	if err != nil {
		t.Fatalf("update player: %v", err)
	}
	if updated.Username != "renamed_player" || updated.Name != "Renamed" || updated.Email != email {
		t.Fatalf("update not applied: %+v", updated)
	}
}

func TestDeletePlayerOnlyWhileWaiting(t *testing.T) {
	srv := newTestServer(t)
	admin := createTestAdmin(t, srv, "delplayer_admin")
	game := createTestGame(t, srv, admin.ID, CreateGameInput{Name: "DelPlayer", GridSize: 3, MaxPlayers: 5})
	players := joinTestPlayers(t, srv, game, 3)

	if err := srv.DeletePlayer(admin.ID, game.ID, players[2].ID); err != nil {
		t.Fatalf("delete while waiting: %v", err)
	}
	if _, err := srv.StartGame(admin.ID, game.ID); err != nil {
		t.Fatalf("start game: %v", err)
	}
	err := srv.DeletePlayer(admin.ID, game.ID, players[0].ID)
	var serr *InvalidStateError
	if !errors.As(err, &serr) {
		t.Fatalf("expected invalid state after start, got %v", err)
	}

	updated, err := srv.store.GetGame(game.ID)
	if err != nil {
		t.Fatalf("get game: %v", err)
	}
	if updated.Status != db.StatusActive {
		t.Fatalf("expected active game, got %q", updated.Status)
	}
}
