// Package standings implements the standings command.
package standings

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/negz/hoops/internal/cache"
	"github.com/negz/hoops/internal/output"
	"github.com/negz/hoops/internal/stats/standings"
)

// Command shows a season's standings.
type Command struct {
	Season     string `arg:"" help:"Season, e.g. 2024-2025."`
	By         string `default:"conference" enum:"league,conference,division" help:"Group standings by league, conference, or division."`
	Conference string `help:"Only show this conference." short:"c"`
}

// Run executes the standings command.
func (c *Command) Run(d *cache.DB) error {
	ctx := context.Background()
	store, err := d.SyncedStore(ctx)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}

	var opts []standings.Option
	if c.Conference != "" {
		opts = append(opts, standings.InConference(c.Conference))
	}

	t, err := standings.Get(ctx, store, c.Season, opts...)
	if err != nil {
		return fmt.Errorf("get standings: %w", err)
	}

	groups := []standings.Group{t.League}
	switch c.By {
	case "conference":
		groups = t.Conferences
	case "division":
		groups = t.Divisions
	}

	for i, g := range groups {
		if i > 0 {
			fmt.Println()
		}
		name := g.Name
		switch g.Kind {
		case standings.KindLeague:
			name = "League"
		case standings.KindDivision:
			name = g.Conference + " " + g.Name
		}
		fmt.Printf("%s standings, %s\n", name, t.Season)
		if err := output.Table(os.Stdout, headers, rows(g)); err != nil {
			return err
		}
	}

	return nil
}

var headers = []string{"#", "Team", "W", "L", "Pct", "GB", "Home", "Away", "Conf", "Div", "Diff", "Strk", "L10"}

func rows(g standings.Group) [][]string {
	out := make([][]string, len(g.Entries))
	for i, e := range g.Entries {
		out[i] = []string{
			output.FormatRank(e.Rank),
			e.Team.Key,
			strconv.Itoa(e.Wins),
			strconv.Itoa(e.Losses),
			output.FormatPercentage(e.WinPercentage),
			output.FormatGamesBehind(e.GamesBehind),
			e.Home.String(),
			e.Away.String(),
			e.Conference.String(),
			e.Division.String(),
			output.FormatDiff(e.PointDifferential),
			e.Streak,
			e.LastTen,
		}
	}
	return out
}
