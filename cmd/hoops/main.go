// Package main implements the hoops CLI for basketball league statistics.
package main

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"github.com/negz/hoops/cmd/hoops/compare"
	"github.com/negz/hoops/cmd/hoops/db"
	"github.com/negz/hoops/cmd/hoops/game"
	"github.com/negz/hoops/cmd/hoops/leaders"
	"github.com/negz/hoops/cmd/hoops/player"
	"github.com/negz/hoops/cmd/hoops/register"
	"github.com/negz/hoops/cmd/hoops/serve"
	"github.com/negz/hoops/cmd/hoops/standings"
	"github.com/negz/hoops/cmd/hoops/sync"
	"github.com/negz/hoops/cmd/hoops/team"
	"github.com/negz/hoops/internal/cache"
	"github.com/negz/hoops/internal/version"
)

type cli struct {
	Cache cache.DB `embed:""`

	Verbose bool             `help:"Log debug output." short:"v"`
	Version kong.VersionFlag `help:"Print the version and exit."`

	Serve     serve.Command     `cmd:"" help:"Serve the JSON API."`
	Sync      sync.Command      `cmd:"" help:"Sync the league archive into the database."`
	Standings standings.Command `cmd:"" help:"Show a season's standings."`
	Team      team.Command      `cmd:"" help:"Show a team's season record."`
	Player    player.Command    `cmd:"" help:"Show a player's season record."`
	Leaders   leaders.Command   `cmd:"" help:"Show a season's statistical leaders."`
	Compare   compare.Command   `cmd:"" help:"Compare two teams or two players."`
	Game      game.Command      `cmd:"" help:"Apply or reverse finished games."`
	Register  register.Command  `cmd:"" help:"Register teams and players."`
	DB        db.Command        `cmd:"" help:"Database utilities."               name:"db"`
}

func main() {
	// A missing .env file is fine.
	_ = godotenv.Load()

	c := &cli{}
	ctx := kong.Parse(c,
		kong.Name("hoops"),
		kong.Description("Basketball league statistics and standings."),
		kong.UsageOnError(),
		kong.Vars{"version": version.Version},
	)

	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	c.Cache.SetLogger(log)
	defer c.Cache.Close() //nolint:errcheck // Nothing to do with error on program exit.

	ctx.FatalIfErrorf(ctx.Run(&c.Cache, log))
}
