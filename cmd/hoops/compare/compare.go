// Package compare implements the compare command group.
package compare

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/negz/hoops/internal/cache"
	"github.com/negz/hoops/internal/output"
	"github.com/negz/hoops/internal/stats/compare"
)

// Command groups the comparison subcommands.
type Command struct {
	Teams   TeamsCommand   `cmd:"" help:"Compare two teams."`
	Players PlayersCommand `cmd:"" help:"Compare two players."`
}

// TeamsCommand compares two teams.
type TeamsCommand struct {
	A      string `arg:"" help:"First team key, e.g. BOS."`
	B      string `arg:"" help:"Second team key, e.g. NYK."`
	Season string `arg:"" help:"Season, e.g. 2024-2025."`
}

// Run executes the compare teams command.
func (c *TeamsCommand) Run(d *cache.DB) error {
	if strings.EqualFold(c.A, c.B) {
		return fmt.Errorf("cannot compare %s with itself", c.A)
	}

	ctx := context.Background()
	store, err := d.SyncedStore(ctx)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}

	a, err := store.GetTeamByKey(ctx, strings.ToUpper(c.A))
	if err != nil {
		return fmt.Errorf("get team %q: %w", c.A, err)
	}
	b, err := store.GetTeamByKey(ctx, strings.ToUpper(c.B))
	if err != nil {
		return fmt.Errorf("get team %q: %w", c.B, err)
	}

	cmp, err := compare.CompareTeams(ctx, store, c.Season, a.ID, b.ID)
	if err != nil {
		return fmt.Errorf("compare teams: %w", err)
	}

	sa, sb := cmp.A, cmp.B
	rows := [][]string{
		{"Record", fmt.Sprintf("%d-%d", sa.Wins, sa.Losses), fmt.Sprintf("%d-%d", sb.Wins, sb.Losses)},
		{"Win %", output.FormatPercentage(sa.Metrics.WinPercentage), output.FormatPercentage(sb.Metrics.WinPercentage)},
		{"Points For", output.FormatStat(sa.Metrics.PointsForPerGame), output.FormatStat(sb.Metrics.PointsForPerGame)},
		{"Points Against", output.FormatStat(sa.Metrics.PointsAgainstPerGame), output.FormatStat(sb.Metrics.PointsAgainstPerGame)},
		{"Net Rating", output.FormatStat(sa.Metrics.NetRating), output.FormatStat(sb.Metrics.NetRating)},
		{"Pace", output.FormatStat(sa.Metrics.Pace), output.FormatStat(sb.Metrics.Pace)},
		{"Home Win %", output.FormatPercentage(sa.Metrics.HomeWinPercentage), output.FormatPercentage(sb.Metrics.HomeWinPercentage)},
		{"Away Win %", output.FormatPercentage(sa.Metrics.AwayWinPercentage), output.FormatPercentage(sb.Metrics.AwayWinPercentage)},
		{"Streak", sa.Streak, sb.Streak},
		{"Last 10", sa.LastTen, sb.LastTen},
		{"Head to Head", strconv.Itoa(cmp.HeadToHead.AWins), strconv.Itoa(cmp.HeadToHead.BWins)},
	}

	fmt.Printf("%s vs %s: %s\n\n", a.Key, b.Key, cmp.Season)
	if err := output.Table(os.Stdout, []string{"", a.Key, b.Key}, rows); err != nil {
		return err
	}

	if len(cmp.HeadToHead.Meetings) == 0 {
		return nil
	}

	keys := map[int64]string{a.ID: a.Key, b.ID: b.Key}
	meetings := make([][]string, len(cmp.HeadToHead.Meetings))
	for i, g := range cmp.HeadToHead.Meetings {
		meetings[i] = []string{g.Date, keys[g.AwayTeamID] + " @ " + keys[g.HomeTeamID], fmt.Sprintf("%d-%d", g.AwayScore, g.HomeScore)}
	}

	fmt.Println()
	return output.Table(os.Stdout, []string{"Date", "Game", "Score"}, meetings)
}

// PlayersCommand compares two players.
type PlayersCommand struct {
	A      string `arg:"" help:"First player name."`
	B      string `arg:"" help:"Second player name."`
	Season string `arg:"" help:"Season, e.g. 2024-2025."`
}

// Run executes the compare players command.
func (c *PlayersCommand) Run(d *cache.DB) error {
	ctx := context.Background()
	store, err := d.SyncedStore(ctx)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}

	a, err := store.GetPlayerByName(ctx, c.A)
	if err != nil {
		return fmt.Errorf("get player %q: %w", c.A, err)
	}
	b, err := store.GetPlayerByName(ctx, c.B)
	if err != nil {
		return fmt.Errorf("get player %q: %w", c.B, err)
	}
	if a.ID == b.ID {
		return fmt.Errorf("cannot compare %s with themselves", a.Name)
	}

	cmp, err := compare.ComparePlayers(ctx, store, c.Season, a.ID, b.ID)
	if err != nil {
		return fmt.Errorf("compare players: %w", err)
	}

	ma, mb := cmp.A.Metrics, cmp.B.Metrics
	stat := func(name string, a, b float64) []string {
		return []string{name, output.FormatStat(a), output.FormatStat(b)}
	}
	pct := func(name string, a, b float64) []string {
		return []string{name, output.FormatPercentage(a), output.FormatPercentage(b)}
	}

	rows := [][]string{
		{"Team", cmp.A.TeamKey, cmp.B.TeamKey},
		{"Games", strconv.Itoa(cmp.A.GamesPlayed), strconv.Itoa(cmp.B.GamesPlayed)},
		stat("Points", ma.PointsPerGame, mb.PointsPerGame),
		stat("Rebounds", ma.ReboundsPerGame, mb.ReboundsPerGame),
		stat("Assists", ma.AssistsPerGame, mb.AssistsPerGame),
		stat("Steals", ma.StealsPerGame, mb.StealsPerGame),
		stat("Blocks", ma.BlocksPerGame, mb.BlocksPerGame),
		pct("FG%", ma.FieldGoalPercentage, mb.FieldGoalPercentage),
		pct("3P%", ma.ThreePointPercentage, mb.ThreePointPercentage),
		pct("TS%", ma.TrueShootingPercentage, mb.TrueShootingPercentage),
		stat("Efficiency", ma.Efficiency, mb.Efficiency),
	}

	fmt.Printf("%s vs %s: %s\n\n", a.Name, b.Name, cmp.Season)
	return output.Table(os.Stdout, []string{"", a.Name, b.Name}, rows)
}
