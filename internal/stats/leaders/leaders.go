// Package leaders ranks players and teams by per-game statistics.
package leaders

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/negz/hoops/internal/db"
	"github.com/negz/hoops/internal/metrics"
)

// Errors returned by leader queries.
var (
	ErrInvalidMetric = errors.New("invalid metric")
	ErrInvalidLimit  = errors.New("limit must be at least 1")
)

// DefaultLimit is the number of leaders returned when no limit is set.
const DefaultLimit = 10

// MVPMinGames is the number of games a player must play to be MVP.
const MVPMinGames = 10

// Store is the set of queries needed for leader queries.
type Store interface {
	ListPlayerRecords(ctx context.Context, season string) ([]db.PlayerSeasonRecord, error)
	ListTeamRecords(ctx context.Context, season string) ([]db.TeamSeasonRecord, error)
	ListGames(ctx context.Context, season string) ([]db.Game, error)
}

// Metric is a player statistic leaders can be ranked by.
type Metric string

// Player metrics.
const (
	MetricPoints     Metric = "points"
	MetricRebounds   Metric = "rebounds"
	MetricAssists    Metric = "assists"
	MetricSteals     Metric = "steals"
	MetricBlocks     Metric = "blocks"
	MetricEfficiency Metric = "efficiency"
)

// Metrics lists every valid player metric.
var Metrics = []Metric{MetricPoints, MetricRebounds, MetricAssists, MetricSteals, MetricBlocks, MetricEfficiency}

// ParseMetric returns the metric with the supplied name.
func ParseMetric(s string) (Metric, error) {
	m := Metric(strings.ToLower(strings.TrimSpace(s)))
	if !slices.Contains(Metrics, m) {
		return "", fmt.Errorf("%w %q: must be one of %v", ErrInvalidMetric, s, Metrics)
	}
	return m, nil
}

// perGame returns a player's unrounded per-game value for a metric.
func (m Metric) perGame(r db.PlayerSeasonRecord) float64 {
	gp := float64(r.GamesPlayed)
	switch m {
	case MetricPoints:
		return metrics.Div(float64(r.Points), gp)
	case MetricRebounds:
		return metrics.Div(float64(r.Rebounds()), gp)
	case MetricAssists:
		return metrics.Div(float64(r.Assists), gp)
	case MetricSteals:
		return metrics.Div(float64(r.Steals), gp)
	case MetricBlocks:
		return metrics.Div(float64(r.Blocks), gp)
	case MetricEfficiency:
		return metrics.PlayerEfficiencyExact(r)
	}
	return 0
}

// TeamMetric is a team statistic leaders can be ranked by.
type TeamMetric string

// Team metrics.
const (
	TeamMetricOffense       TeamMetric = "offense"        // Points scored per game, most first.
	TeamMetricDefense       TeamMetric = "defense"        // Points allowed per game, fewest first.
	TeamMetricWinPercentage TeamMetric = "win-percentage" // Win percentage, highest first.
)

// TeamMetrics lists every valid team metric.
var TeamMetrics = []TeamMetric{TeamMetricOffense, TeamMetricDefense, TeamMetricWinPercentage}

// ParseTeamMetric returns the team metric with the supplied name.
func ParseTeamMetric(s string) (TeamMetric, error) {
	m := TeamMetric(strings.ToLower(strings.TrimSpace(s)))
	if !slices.Contains(TeamMetrics, m) {
		return "", fmt.Errorf("%w %q: must be one of %v", ErrInvalidMetric, s, TeamMetrics)
	}
	return m, nil
}

// value returns a team's unrounded value for a metric, oriented so that
// higher is better.
func (m TeamMetric) value(r db.TeamSeasonRecord) float64 {
	gp := float64(r.GamesPlayed)
	switch m {
	case TeamMetricOffense:
		return metrics.Div(float64(r.PointsFor), gp)
	case TeamMetricDefense:
		return -metrics.Div(float64(r.PointsAgainst), gp)
	case TeamMetricWinPercentage:
		return metrics.Div(float64(r.Wins), gp)
	}
	return 0
}

// Leader is a ranked player.
type Leader struct {
	Rank        int       `json:"rank"`
	Player      db.Player `json:"player"`
	TeamKey     string    `json:"teamKey"`
	GamesPlayed int       `json:"gamesPlayed"`
	Value       float64   `json:"value"` // Per game, rounded to one decimal.
}

// TeamLeader is a ranked team.
type TeamLeader struct {
	Rank        int     `json:"rank"`
	Team        db.Team `json:"team"`
	GamesPlayed int     `json:"gamesPlayed"`
	Value       float64 `json:"value"` // Rounded to one decimal. Percentages are 0-100.
}

// Option configures a leaders query.
type Option func(*Options)

// Options holds optional parameters for a leaders query.
type Options struct {
	Limit int
}

// WithLimit sets the maximum number of leaders to return.
func WithLimit(n int) Option {
	return func(o *Options) {
		o.Limit = n
	}
}

func options(opts []Option) (*Options, error) {
	o := &Options{Limit: DefaultLimit}
	for _, fn := range opts {
		fn(o)
	}
	if o.Limit < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidLimit, o.Limit)
	}
	return o, nil
}

// Players returns a season's leaders for a metric. Players who have not
// played a game are never ranked.
func Players(ctx context.Context, s Store, season string, m Metric, opts ...Option) ([]Leader, error) {
	if _, err := ParseMetric(string(m)); err != nil {
		return nil, err
	}
	o, err := options(opts)
	if err != nil {
		return nil, err
	}

	records, err := s.ListPlayerRecords(ctx, season)
	if err != nil {
		return nil, fmt.Errorf("load player records: %w", err)
	}

	return RankPlayers(records, m, o.Limit), nil
}

// RankPlayers ranks player records by a metric's per-game value, returning
// at most limit leaders. Ties are broken by name.
func RankPlayers(records []db.PlayerSeasonRecord, m Metric, limit int) []Leader {
	played := make([]db.PlayerSeasonRecord, 0, len(records))
	for _, r := range records {
		if r.GamesPlayed > 0 {
			played = append(played, r)
		}
	}

	slices.SortFunc(played, func(a, b db.PlayerSeasonRecord) int {
		if c := cmp.Compare(m.perGame(b), m.perGame(a)); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Player.Name, b.Player.Name); c != 0 {
			return c
		}
		return cmp.Compare(a.PlayerID, b.PlayerID)
	})

	out := make([]Leader, 0, min(limit, len(played)))
	for i, r := range played[:min(limit, len(played))] {
		out = append(out, Leader{
			Rank:        i + 1,
			Player:      r.Player,
			TeamKey:     r.TeamKey,
			GamesPlayed: r.GamesPlayed,
			Value:       metrics.Round1(m.perGame(r)),
		})
	}
	return out
}

// Teams returns a season's team leaders for a metric. Teams that have not
// played a game are never ranked.
func Teams(ctx context.Context, s Store, season string, m TeamMetric, opts ...Option) ([]TeamLeader, error) {
	if _, err := ParseTeamMetric(string(m)); err != nil {
		return nil, err
	}
	o, err := options(opts)
	if err != nil {
		return nil, err
	}

	records, err := s.ListTeamRecords(ctx, season)
	if err != nil {
		return nil, fmt.Errorf("load team records: %w", err)
	}

	return RankTeams(records, m, o.Limit), nil
}

// RankTeams ranks team records by a metric, returning at most limit leaders.
// Ties are broken by name.
func RankTeams(records []db.TeamSeasonRecord, m TeamMetric, limit int) []TeamLeader {
	played := make([]db.TeamSeasonRecord, 0, len(records))
	for _, r := range records {
		if r.GamesPlayed > 0 {
			played = append(played, r)
		}
	}

	slices.SortFunc(played, func(a, b db.TeamSeasonRecord) int {
		if c := cmp.Compare(m.value(b), m.value(a)); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Team.Name, b.Team.Name); c != 0 {
			return c
		}
		return cmp.Compare(a.TeamID, b.TeamID)
	})

	out := make([]TeamLeader, 0, min(limit, len(played)))
	for i, r := range played[:min(limit, len(played))] {
		v := m.value(r)
		switch m {
		case TeamMetricDefense:
			v = -v
		case TeamMetricWinPercentage:
			v *= 100
		}
		out = append(out, TeamLeader{
			Rank:        i + 1,
			Team:        r.Team,
			GamesPlayed: r.GamesPlayed,
			Value:       metrics.Round1(v),
		})
	}
	return out
}

// Summary is a league-wide overview of a season.
type Summary struct {
	Season        string      `json:"season"`
	GamesPlayed   int         `json:"gamesPlayed"`
	AveragePoints float64     `json:"averagePoints"` // Combined points per game.
	BestOffense   *TeamLeader `json:"bestOffense,omitempty"`
	BestDefense   *TeamLeader `json:"bestDefense,omitempty"`
	MVP           *Leader     `json:"mvp,omitempty"` // Most efficient player with at least MVPMinGames games.
}

// League summarizes a season.
func League(ctx context.Context, s Store, season string) (*Summary, error) {
	var (
		games   []db.Game
		teams   []db.TeamSeasonRecord
		players []db.PlayerSeasonRecord
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		games, err = s.ListGames(gctx, season)
		if err != nil {
			return fmt.Errorf("load games: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		teams, err = s.ListTeamRecords(gctx, season)
		if err != nil {
			return fmt.Errorf("load team records: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		players, err = s.ListPlayerRecords(gctx, season)
		if err != nil {
			return fmt.Errorf("load player records: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return Summarize(season, games, teams, players), nil
}

// Summarize builds a league summary from a season snapshot.
func Summarize(season string, games []db.Game, teams []db.TeamSeasonRecord, players []db.PlayerSeasonRecord) *Summary {
	sum := &Summary{Season: season, GamesPlayed: len(games)}

	points := 0
	for _, g := range games {
		points += g.HomeScore + g.AwayScore
	}
	sum.AveragePoints = metrics.PerGame(float64(points), len(games))

	if l := RankTeams(teams, TeamMetricOffense, 1); len(l) > 0 {
		sum.BestOffense = &l[0]
	}
	if l := RankTeams(teams, TeamMetricDefense, 1); len(l) > 0 {
		sum.BestDefense = &l[0]
	}

	eligible := make([]db.PlayerSeasonRecord, 0, len(players))
	for _, p := range players {
		if p.GamesPlayed >= MVPMinGames {
			eligible = append(eligible, p)
		}
	}
	if l := RankPlayers(eligible, MetricEfficiency, 1); len(l) > 0 {
		sum.MVP = &l[0]
	}

	return sum
}
