// Package leaders implements the leaders command group.
package leaders

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/negz/hoops/internal/cache"
	"github.com/negz/hoops/internal/output"
	"github.com/negz/hoops/internal/stats/leaders"
)

// Command groups the leaderboard subcommands.
type Command struct {
	Players PlayersCommand `cmd:"" help:"Rank players by a per-game stat."`
	Teams   TeamsCommand   `cmd:"" help:"Rank teams by a season stat."`
	League  LeagueCommand  `cmd:"" help:"Summarize the league."`
}

// PlayersCommand ranks players.
type PlayersCommand struct {
	Season string `arg:"" help:"Season, e.g. 2024-2025."`
	Limit  int    `default:"10"     help:"Maximum players to show." short:"n"`
	Metric string `default:"points" help:"One of points, rebounds, assists, steals, blocks, or efficiency." short:"m"`
}

// Run executes the leaders players command.
func (c *PlayersCommand) Run(d *cache.DB) error {
	m, err := leaders.ParseMetric(c.Metric)
	if err != nil {
		return err
	}

	ctx := context.Background()
	store, err := d.SyncedStore(ctx)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}

	ls, err := leaders.Players(ctx, store, c.Season, m, leaders.WithLimit(c.Limit))
	if err != nil {
		return fmt.Errorf("rank players: %w", err)
	}

	rows := make([][]string, len(ls))
	for i, l := range ls {
		rows[i] = []string{strconv.Itoa(l.Rank), l.Player.Name, l.TeamKey, strconv.Itoa(l.GamesPlayed), output.FormatStat(l.Value)}
	}

	return output.Table(os.Stdout, []string{"#", "Player", "Team", "GP", string(m)}, rows)
}

// TeamsCommand ranks teams.
type TeamsCommand struct {
	Season string `arg:"" help:"Season, e.g. 2024-2025."`
	Limit  int    `default:"10"      help:"Maximum teams to show." short:"n"`
	Metric string `default:"offense" help:"One of offense, defense, or win-percentage." short:"m"`
}

// Run executes the leaders teams command.
func (c *TeamsCommand) Run(d *cache.DB) error {
	m, err := leaders.ParseTeamMetric(c.Metric)
	if err != nil {
		return err
	}

	ctx := context.Background()
	store, err := d.SyncedStore(ctx)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}

	ls, err := leaders.Teams(ctx, store, c.Season, m, leaders.WithLimit(c.Limit))
	if err != nil {
		return fmt.Errorf("rank teams: %w", err)
	}

	rows := make([][]string, len(ls))
	for i, l := range ls {
		rows[i] = []string{strconv.Itoa(l.Rank), l.Team.Key, l.Team.Name, strconv.Itoa(l.GamesPlayed), output.FormatStat(l.Value)}
	}

	return output.Table(os.Stdout, []string{"#", "Key", "Team", "GP", string(m)}, rows)
}

// LeagueCommand summarizes a season.
type LeagueCommand struct {
	Season string `arg:"" help:"Season, e.g. 2024-2025."`
}

// Run executes the leaders league command.
func (c *LeagueCommand) Run(d *cache.DB) error {
	ctx := context.Background()
	store, err := d.SyncedStore(ctx)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}

	s, err := leaders.League(ctx, store, c.Season)
	if err != nil {
		return fmt.Errorf("summarize league: %w", err)
	}

	rows := [][]string{
		{"Games Played", strconv.Itoa(s.GamesPlayed)},
		{"Points Per Game", output.FormatStat(s.AveragePoints)},
		{"Best Offense", team(s.BestOffense)},
		{"Best Defense", team(s.BestDefense)},
		{"MVP", mvp(s.MVP)},
	}

	fmt.Printf("League summary: %s\n\n", s.Season)
	return output.Table(os.Stdout, []string{"Stat", "Value"}, rows)
}

func team(l *leaders.TeamLeader) string {
	if l == nil {
		return "-"
	}
	return fmt.Sprintf("%s (%s)", l.Team.Key, output.FormatStat(l.Value))
}

func mvp(l *leaders.Leader) string {
	if l == nil {
		return "-"
	}
	return fmt.Sprintf("%s (%s)", l.Player.Name, output.FormatStat(l.Value))
}
