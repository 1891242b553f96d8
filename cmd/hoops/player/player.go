// Package player implements the player command.
package player

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/negz/hoops/internal/cache"
	"github.com/negz/hoops/internal/metrics"
	"github.com/negz/hoops/internal/output"
)

// Command shows a player's season record.
type Command struct {
	Name   string `arg:"" help:"Player name."`
	Season string `arg:"" help:"Season, e.g. 2024-2025."`
}

// Run executes the player command.
func (c *Command) Run(d *cache.DB) error {
	ctx := context.Background()
	store, err := d.SyncedStore(ctx)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}

	p, err := store.GetPlayerByName(ctx, c.Name)
	if err != nil {
		return fmt.Errorf("get player %q: %w", c.Name, err)
	}

	r, err := store.GetPlayerRecord(ctx, p.ID, c.Season)
	if err != nil {
		return fmt.Errorf("get %s record for %s: %w", p.Name, c.Season, err)
	}
	m := metrics.ForPlayer(r)

	team := r.TeamKey
	if team == "" {
		team = "free agent"
	}
	fmt.Printf("%s (#%d %s, %s): %s\n\n", p.Name, p.Number, p.Position, team, c.Season)

	rows := [][]string{
		{"Games", strconv.Itoa(r.GamesPlayed)},
		{"Started", strconv.Itoa(r.GamesStarted)},
		{"Minutes", output.FormatStat(m.MinutesPerGame)},
		{"Points", output.FormatStat(m.PointsPerGame)},
		{"Rebounds", output.FormatStat(m.ReboundsPerGame)},
		{"Assists", output.FormatStat(m.AssistsPerGame)},
		{"Steals", output.FormatStat(m.StealsPerGame)},
		{"Blocks", output.FormatStat(m.BlocksPerGame)},
		{"Turnovers", output.FormatStat(m.TurnoversPerGame)},
		{"FG%", output.FormatPercentage(m.FieldGoalPercentage)},
		{"3P%", output.FormatPercentage(m.ThreePointPercentage)},
		{"FT%", output.FormatPercentage(m.FreeThrowPercentage)},
		{"TS%", output.FormatPercentage(m.TrueShootingPercentage)},
		{"Efficiency", output.FormatStat(m.Efficiency)},
		{"Usage", output.FormatPercentage(m.UsageRate)},
		{"Double-Doubles", strconv.Itoa(r.DoubleDoubles)},
		{"Triple-Doubles", strconv.Itoa(r.TripleDoubles)},
		{"Plus/Minus", output.FormatDiff(r.PlusMinus)},
	}

	return output.Table(os.Stdout, []string{"Stat", "Value"}, rows)
}
