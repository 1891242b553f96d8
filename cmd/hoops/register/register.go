// Package register implements the register command group.
package register

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/negz/hoops/internal/cache"
	"github.com/negz/hoops/internal/db"
)

// Command groups the registration subcommands.
type Command struct {
	Team   TeamCommand   `cmd:"" help:"Register a team for one or more seasons."`
	Player PlayerCommand `cmd:"" help:"Register a player for one or more seasons."`
}

// TeamCommand registers a team.
type TeamCommand struct {
	Key  string `arg:"" help:"Short team key, e.g. BOS."`
	Name string `arg:"" help:"Team name, e.g. Celtics."`

	City       string   `help:"Team city."`
	Conference string   `help:"Conference the team plays in." required:""`
	Division   string   `help:"Division the team plays in."   required:""`
	Seasons    []string `help:"Seasons to register the team for." name:"season"`
}

// Run executes the register team command.
func (c *TeamCommand) Run(d *cache.DB, log *slog.Logger) error {
	ctx := context.Background()
	store, err := d.Store(ctx)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}

	id, err := store.RegisterTeam(ctx, db.Team{
		Key:        strings.ToUpper(c.Key),
		Name:       c.Name,
		City:       c.City,
		Conference: c.Conference,
		Division:   c.Division,
	})
	if err != nil {
		return fmt.Errorf("register team %s: %w", c.Key, err)
	}

	for _, s := range c.Seasons {
		if err := store.RegisterTeamSeason(ctx, id, s); err != nil {
			return fmt.Errorf("register team %s for %s: %w", c.Key, s, err)
		}
	}

	log.Info("Registered team", "id", id, "key", strings.ToUpper(c.Key), "seasons", c.Seasons)
	return nil
}

// PlayerCommand registers a player.
type PlayerCommand struct {
	Name string `arg:"" help:"Player name."`

	Number   int      `help:"Jersey number."`
	Position string   `help:"Position, e.g. PG."`
	Seasons  []string `help:"Seasons to register the player for." name:"season"`
	Team     string   `help:"Team key. Omit for free agents."`
}

// Run executes the register player command.
func (c *PlayerCommand) Run(d *cache.DB, log *slog.Logger) error {
	ctx := context.Background()
	store, err := d.Store(ctx)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}

	p := db.Player{Name: c.Name, Position: c.Position, Number: c.Number}
	if c.Team != "" {
		t, err := store.GetTeamByKey(ctx, strings.ToUpper(c.Team))
		if err != nil {
			return fmt.Errorf("get team %q: %w", c.Team, err)
		}
		p.TeamID = t.ID
	}

	id, err := store.RegisterPlayer(ctx, p)
	if err != nil {
		return fmt.Errorf("register player %s: %w", c.Name, err)
	}

	for _, s := range c.Seasons {
		if err := store.RegisterPlayerSeason(ctx, id, s); err != nil {
			return fmt.Errorf("register player %s for %s: %w", c.Name, s, err)
		}
	}

	log.Info("Registered player", "id", id, "name", c.Name, "seasons", c.Seasons)
	return nil
}
