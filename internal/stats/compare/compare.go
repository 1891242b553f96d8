// Package compare puts two teams or two players side by side.
package compare

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/negz/hoops/internal/db"
	"github.com/negz/hoops/internal/metrics"
)

// ErrNotFound indicates either side of a comparison has no season record.
var ErrNotFound = errors.New("season record not found")

// RecentMeetings is the number of head-to-head games included in a team
// comparison.
const RecentMeetings = 5

// Store is the set of queries needed for comparisons.
type Store interface {
	GetTeamRecord(ctx context.Context, teamID int64, season string) (db.TeamSeasonRecord, error)
	GetPlayerRecord(ctx context.Context, playerID int64, season string) (db.PlayerSeasonRecord, error)
	ListHeadToHead(ctx context.Context, season string, a, b int64) ([]db.Game, error)
}

// TeamSide is one team in a comparison.
type TeamSide struct {
	Team        db.Team      `json:"team"`
	GamesPlayed int          `json:"gamesPlayed"`
	Wins        int          `json:"wins"`
	Losses      int          `json:"losses"`
	Streak      string       `json:"streak"`
	LastTen     string       `json:"lastTen"`
	Metrics     metrics.Team `json:"metrics"`
}

// HeadToHead summarizes the games two teams have played against each other.
type HeadToHead struct {
	AWins    int       `json:"aWins"`
	BWins    int       `json:"bWins"`
	Meetings []db.Game `json:"meetings"` // Most recent first.
}

// Teams is a side-by-side comparison of two teams.
type Teams struct {
	Season     string     `json:"season"`
	A          TeamSide   `json:"a"`
	B          TeamSide   `json:"b"`
	HeadToHead HeadToHead `json:"headToHead"`
}

// PlayerSide is one player in a comparison.
type PlayerSide struct {
	Player      db.Player      `json:"player"`
	TeamKey     string         `json:"teamKey"`
	GamesPlayed int            `json:"gamesPlayed"`
	Metrics     metrics.Player `json:"metrics"`
}

// Players is a side-by-side comparison of two players.
type Players struct {
	Season string     `json:"season"`
	A      PlayerSide `json:"a"`
	B      PlayerSide `json:"b"`
}

// CompareTeams compares two teams' season records and their head-to-head
// results.
func CompareTeams(ctx context.Context, s Store, season string, a, b int64) (*Teams, error) {
	var (
		ra, rb db.TeamSeasonRecord
		games  []db.Game
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		ra, err = teamRecord(gctx, s, a, season)
		return err
	})
	g.Go(func() error {
		var err error
		rb, err = teamRecord(gctx, s, b, season)
		return err
	})
	g.Go(func() error {
		var err error
		games, err = s.ListHeadToHead(gctx, season, a, b)
		if err != nil {
			return fmt.Errorf("load head-to-head games: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	h2h := HeadToHead{Meetings: games[:min(RecentMeetings, len(games))]}
	for _, gm := range games {
		switch gm.Winner() {
		case a:
			h2h.AWins++
		case b:
			h2h.BWins++
		}
	}

	return &Teams{
		Season:     season,
		A:          teamSide(ra),
		B:          teamSide(rb),
		HeadToHead: h2h,
	}, nil
}

// ComparePlayers compares two players' season records.
func ComparePlayers(ctx context.Context, s Store, season string, a, b int64) (*Players, error) {
	var ra, rb db.PlayerSeasonRecord

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		ra, err = playerRecord(gctx, s, a, season)
		return err
	})
	g.Go(func() error {
		var err error
		rb, err = playerRecord(gctx, s, b, season)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Players{Season: season, A: playerSide(ra), B: playerSide(rb)}, nil
}

func teamRecord(ctx context.Context, s Store, id int64, season string) (db.TeamSeasonRecord, error) {
	r, err := s.GetTeamRecord(ctx, id, season)
	if errors.Is(err, db.ErrNotFound) {
		return r, fmt.Errorf("team %d season %s: %w", id, season, ErrNotFound)
	}
	if err != nil {
		return r, fmt.Errorf("load team %d: %w", id, err)
	}
	return r, nil
}

func playerRecord(ctx context.Context, s Store, id int64, season string) (db.PlayerSeasonRecord, error) {
	r, err := s.GetPlayerRecord(ctx, id, season)
	if errors.Is(err, db.ErrNotFound) {
		return r, fmt.Errorf("player %d season %s: %w", id, season, ErrNotFound)
	}
	if err != nil {
		return r, fmt.Errorf("load player %d: %w", id, err)
	}
	return r, nil
}

func teamSide(r db.TeamSeasonRecord) TeamSide {
	return TeamSide{
		Team:        r.Team,
		GamesPlayed: r.GamesPlayed,
		Wins:        r.Wins,
		Losses:      r.Losses,
		Streak:      r.Streak.String(),
		LastTen:     r.LastTen.Record(),
		Metrics:     metrics.ForTeam(r),
	}
}

func playerSide(r db.PlayerSeasonRecord) PlayerSide {
	return PlayerSide{
		Player:      r.Player,
		TeamKey:     r.TeamKey,
		GamesPlayed: r.GamesPlayed,
		Metrics:     metrics.ForPlayer(r),
	}
}
