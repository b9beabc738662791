package web

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

func Home() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, _ = io.WriteString(w, `<!doctype html>
<html lang="en">
  <head>
    <meta charset="utf-8"/>
    <meta name="viewport" content="width=device-width, initial-scale=1"/>
    <title>RazzWars</title>
    <link rel="stylesheet" href="/static/styles.css"/>
  </head>
  <body>
    <main class="shell">
      <header class="hero">
        <span class="tag">RazzWars</span>
        <h1>Flip a card. Win the prize.</h1>
        <p>Join a raffle board with your game code, or come back with your player code.</p>
      </header>

      <section class="panel">
        <div>
          <h2>Join a game</h2>
          <p>Enter the game code from the host and your name.</p>
        </div>
        <form id="joinGameForm" class="join-form">
          <input name="game_code" placeholder="Game code" autocomplete="off" maxlength="6" required/>
          <input name="name" placeholder="Your name" autocomplete="name" required/>
          <input name="username" placeholder="Username (optional)" autocomplete="off"/>
          <button type="submit" class="primary">Join game</button>
        </form>
        <div id="joinGameResult" class="result"></div>
      </section>

      <section class="panel">
        <div>
          <h2>Returning player</h2>
          <p>Re-enter with the player code you were given when you joined.</p>
        </div>
        <form id="rejoinForm" class="join-form">
          <input name="player_code" placeholder="Player code" autocomplete="off" maxlength="8" required/>
          <button type="submit" class="secondary">Rejoin</button>
        </form>
        <div id="rejoinResult" class="result"></div>
      </section>
    </main>

    <script>
      const joinGameForm = document.getElementById("joinGameForm");
      const joinGameResult = document.getElementById("joinGameResult");
      const rejoinForm = document.getElementById("rejoinForm");
      const rejoinResult = document.getElementById("rejoinResult");

      joinGameForm.addEventListener("submit", async (event) => {
        event.preventDefault();
        joinGameResult.textContent = "Joining game...";
        const form = new FormData(joinGameForm);
        const res = await fetch("/api/players/join-game", {
          method: "POST",
          headers: { "Content-Type": "application/json" },
          body: JSON.stringify({
            game_code: form.get("game_code"),
            name: form.get("name"),
            username: form.get("username") || undefined,
          }),
        });
        const data = await res.json();
        if (!res.ok) {
          joinGameResult.textContent = data.error || "Failed to join game.";
          return;
        }
        joinGameResult.textContent =
          "Joined as " + data.player.username + ". Your player code: " + data.player.player_code;
      });

      rejoinForm.addEventListener("submit", async (event) => {
        event.preventDefault();
        rejoinResult.textContent = "Looking you up...";
        const form = new FormData(rejoinForm);
        const res = await fetch("/api/players/join", {
          method: "POST",
          headers: { "Content-Type": "application/json" },
          body: JSON.stringify({ player_code: form.get("player_code") }),
        });
        const data = await res.json();
        if (!res.ok) {
          rejoinResult.textContent = data.error || "Player code not recognised.";
          return;
        }
        rejoinResult.textContent =
          "Welcome back, " + data.player.name + ". Game " + data.game.game_code + " is " + data.game.status + ".";
      });
    </script>
  </body>
</html>`)
		return nil
	})
}
