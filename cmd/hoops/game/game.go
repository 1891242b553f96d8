// Package game implements the game command group.
package game

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/negz/hoops/internal/cache"
	"github.com/negz/hoops/internal/db"
	"github.com/negz/hoops/internal/stats/aggregate"
)

// Command groups the game subcommands.
type Command struct {
	Apply   ApplyCommand   `cmd:"" help:"Apply a finished game to both teams' season records."`
	Reverse ReverseCommand `cmd:"" help:"Reverse a previously applied game."`
}

// ApplyCommand applies a finished game.
type ApplyCommand struct {
	ID        string `arg:"" help:"Unique game ID."`
	Home      string `arg:"" help:"Home team key, e.g. BOS."`
	HomeScore int    `arg:"" help:"Home team's final score."`
	Away      string `arg:"" help:"Away team key, e.g. NYK."`
	AwayScore int    `arg:"" help:"Away team's final score."`

	Date     string `help:"Game date, e.g. 2024-10-22."                                   required:""`
	Matchday int    `help:"Matchday number."`
	Season   string `help:"Season, e.g. 2024-2025."                                       required:""`
	State    string `default:"finished" enum:"scheduled,in_progress,finished,cancelled,suspended" help:"Game state. Only finished games can be applied."`
}

// Run executes the game apply command.
func (c *ApplyCommand) Run(d *cache.DB, log *slog.Logger) error {
	ctx := context.Background()
	store, err := d.Store(ctx)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}

	home, err := store.GetTeamByKey(ctx, strings.ToUpper(c.Home))
	if err != nil {
		return fmt.Errorf("get home team %q: %w", c.Home, err)
	}
	away, err := store.GetTeamByKey(ctx, strings.ToUpper(c.Away))
	if err != nil {
		return fmt.Errorf("get away team %q: %w", c.Away, err)
	}

	engine, err := d.Engine(ctx)
	if err != nil {
		return err
	}

	conference, division := aggregate.Classify(home, away)
	g := db.Game{
		ID:             c.ID,
		Season:         c.Season,
		Matchday:       c.Matchday,
		Date:           c.Date,
		HomeTeamID:     home.ID,
		AwayTeamID:     away.ID,
		HomeScore:      c.HomeScore,
		AwayScore:      c.AwayScore,
		State:          db.GameState(c.State),
		ConferenceGame: conference,
		DivisionGame:   division,
	}

	if err := engine.ApplyFinishedGame(ctx, g); err != nil {
		return err
	}

	log.Info("Applied game", "id", g.ID, "home", home.Key, "away", away.Key, "score", fmt.Sprintf("%d-%d", g.HomeScore, g.AwayScore))
	return nil
}

// ReverseCommand reverses an applied game.
type ReverseCommand struct {
	ID string `arg:"" help:"ID of the game to reverse."`
}

// Run executes the game reverse command.
func (c *ReverseCommand) Run(d *cache.DB, log *slog.Logger) error {
	ctx := context.Background()
	engine, err := d.Engine(ctx)
	if err != nil {
		return err
	}

	g, err := engine.ReverseGame(ctx, c.ID)
	if err != nil {
		return err
	}

	log.Info("Reversed game", "id", g.ID, "season", g.Season)
	return nil
}
