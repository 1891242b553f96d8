// Package team implements the team command.
package team

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/negz/hoops/internal/cache"
	"github.com/negz/hoops/internal/metrics"
	"github.com/negz/hoops/internal/output"
)

// Command shows a team's season record.
type Command struct {
	Team   string `arg:"" help:"Team key, e.g. BOS."`
	Season string `arg:"" help:"Season, e.g. 2024-2025."`
}

// Run executes the team command.
func (c *Command) Run(d *cache.DB) error {
	ctx := context.Background()
	store, err := d.SyncedStore(ctx)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}

	t, err := store.GetTeamByKey(ctx, strings.ToUpper(c.Team))
	if err != nil {
		return fmt.Errorf("get team %q: %w", c.Team, err)
	}

	r, err := store.GetTeamRecord(ctx, t.ID, c.Season)
	if err != nil {
		return fmt.Errorf("get %s record for %s: %w", t.Key, c.Season, err)
	}
	m := metrics.ForTeam(r)

	fmt.Printf("%s %s (%s): %s\n", t.City, t.Name, t.Key, c.Season)
	fmt.Printf("%s conference, %s division\n\n", t.Conference, t.Division)

	rows := [][]string{
		{"Record", fmt.Sprintf("%d-%d", r.Wins, r.Losses)},
		{"Win %", output.FormatPercentage(m.WinPercentage)},
		{"Home", fmt.Sprintf("%d-%d", r.HomeWins, r.HomeLosses)},
		{"Away", fmt.Sprintf("%d-%d", r.AwayWins, r.AwayLosses)},
		{"Conference", r.ConferenceRecord.String()},
		{"Division", r.DivisionRecord.String()},
		{"Streak", r.Streak.String()},
		{"Last 5", r.LastFive.Record()},
		{"Last 10", r.LastTen.Record()},
		{"Points For", output.FormatStat(m.PointsForPerGame)},
		{"Points Against", output.FormatStat(m.PointsAgainstPerGame)},
		{"Differential", output.FormatDiff(m.PointDifferential)},
		{"Net Rating", output.FormatStat(m.NetRating)},
		{"Pace", output.FormatStat(m.Pace)},
		{"Conference Rank", output.FormatRank(r.ConferenceRank)},
		{"Division Rank", output.FormatRank(r.DivisionRank)},
		{"League Rank", output.FormatRank(r.OverallRank)},
		{"Games Played", strconv.Itoa(r.GamesPlayed)},
	}

	return output.Table(os.Stdout, []string{"Stat", "Value"}, rows)
}
