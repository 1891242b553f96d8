// Package aggregate folds finished games and box scores into season records.
//
// Every update is a single transaction covering the idempotence check, the
// read-modify-write of the affected records, and a refresh of every team's
// stored ranks for the season.
package aggregate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/negz/hoops/internal/db"
	"github.com/negz/hoops/internal/stats/standings"
)

// Errors returned by the engine.
var (
	ErrInvalidGameState     = errors.New("invalid game state")
	ErrUnknownTeam          = errors.New("unknown team season record")
	ErrUnknownPlayer        = errors.New("unknown player season record")
	ErrDuplicateApplication = errors.New("already applied")
	ErrGameNotFound         = errors.New("game not found")
	ErrInvalidStatLine      = errors.New("invalid stat line")
)

// Store runs aggregation transactions.
type Store interface {
	InTx(ctx context.Context, fn func(db.Tx) error) error
}

// A Publisher is notified after a game's aggregation commits.
type Publisher interface {
	GameApplied(ctx context.Context, g db.Game) error
	GameReversed(ctx context.Context, g db.Game) error
}

// Option configures an Engine.
type Option func(*Engine)

// WithPublisher sets a publisher to notify of committed updates.
func WithPublisher(p Publisher) Option {
	return func(e *Engine) {
		e.pub = p
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.log = l
	}
}

// Engine applies finished games to team season records and box score lines
// to player season records.
type Engine struct {
	store Store
	pub   Publisher
	log   *slog.Logger
}

// NewEngine creates an aggregation engine backed by the supplied store.
func NewEngine(s Store, opts ...Option) *Engine {
	e := &Engine{store: s, log: slog.New(slog.DiscardHandler)}
	for _, o := range opts {
		o(e)
	}
	return e
}

// ApplyFinishedGame aggregates a finished game into both teams' season
// records. A game ID is applied at most once.
func (e *Engine) ApplyFinishedGame(ctx context.Context, g db.Game) error {
	if err := Validate(g); err != nil {
		return err
	}

	err := e.store.InTx(ctx, func(tx db.Tx) error {
		applied, err := tx.GameApplied(ctx, g.ID)
		if err != nil {
			return err
		}
		if applied {
			return fmt.Errorf("game %s: %w", g.ID, ErrDuplicateApplication)
		}

		home, err := teamRecord(ctx, tx, g.HomeTeamID, g.Season)
		if err != nil {
			return err
		}
		away, err := teamRecord(ctx, tx, g.AwayTeamID, g.Season)
		if err != nil {
			return err
		}

		home, away = Apply(home, away, g)

		if err := tx.PutTeamRecord(ctx, home); err != nil {
			return err
		}
		if err := tx.PutTeamRecord(ctx, away); err != nil {
			return err
		}
		if err := tx.InsertGame(ctx, g); err != nil {
			return err
		}
		return refreshRanks(ctx, tx, g.Season)
	})
	if err != nil {
		return fmt.Errorf("apply game %s: %w", g.ID, err)
	}

	e.log.Debug("Applied game", "game", g.ID, "season", g.Season, "home", g.HomeTeamID, "away", g.AwayTeamID, "score", fmt.Sprintf("%d-%d", g.HomeScore, g.AwayScore))
	e.publish(ctx, g, Publisher.GameApplied)
	return nil
}

// ReverseGame removes an applied game and re-aggregates both teams' records
// by replaying their remaining games in application order. Box score lines
// recorded for the game are removed too, and each affected player's record is
// rebuilt from their remaining lines. It returns the reversed game.
func (e *Engine) ReverseGame(ctx context.Context, id string) (db.Game, error) {
	var g db.Game
	err := e.store.InTx(ctx, func(tx db.Tx) error {
		var err error
		g, err = tx.GetGame(ctx, id)
		if errors.Is(err, db.ErrNotFound) {
			return fmt.Errorf("game %s: %w", id, ErrGameNotFound)
		}
		if err != nil {
			return err
		}

		if err := tx.DeleteGame(ctx, id); err != nil {
			return err
		}

		players, err := tx.DeletePlayerGames(ctx, id)
		if err != nil {
			return err
		}
		for _, playerID := range players {
			if err := replayPlayer(ctx, tx, playerID, g.Season); err != nil {
				return err
			}
		}

		for _, teamID := range []int64{g.HomeTeamID, g.AwayTeamID} {
			r, err := teamRecord(ctx, tx, teamID, g.Season)
			if err != nil {
				return err
			}
			games, err := tx.ListTeamGames(ctx, g.Season, teamID)
			if err != nil {
				return err
			}
			if err := tx.PutTeamRecord(ctx, Replay(r, games)); err != nil {
				return err
			}
		}

		return refreshRanks(ctx, tx, g.Season)
	})
	if err != nil {
		return db.Game{}, fmt.Errorf("reverse game %s: %w", id, err)
	}

	e.log.Debug("Reversed game", "game", g.ID, "season", g.Season)
	e.publish(ctx, g, Publisher.GameReversed)
	return g, nil
}

// RecordPlayerGame aggregates one player's box score line for an applied game
// into their season record. The season must be the game's season. A (game,
// player) pair is recorded at most once.
func (e *Engine) RecordPlayerGame(ctx context.Context, gameID, season string, l db.BoxScoreLine) error {
	if err := ValidateLine(l); err != nil {
		return err
	}

	err := e.store.InTx(ctx, func(tx db.Tx) error {
		g, err := tx.GetGame(ctx, gameID)
		if errors.Is(err, db.ErrNotFound) {
			return fmt.Errorf("game %s: %w", gameID, ErrGameNotFound)
		}
		if err != nil {
			return err
		}
		if g.Season != season {
			return fmt.Errorf("%w: game %s was played in season %s, not %s", ErrInvalidStatLine, gameID, g.Season, season)
		}

		recorded, err := tx.PlayerGameRecorded(ctx, gameID, l.PlayerID)
		if err != nil {
			return err
		}
		if recorded {
			return fmt.Errorf("player %d in game %s: %w", l.PlayerID, gameID, ErrDuplicateApplication)
		}

		r, err := tx.GetPlayerRecord(ctx, l.PlayerID, season)
		if errors.Is(err, db.ErrNotFound) {
			return fmt.Errorf("player %d season %s: %w", l.PlayerID, season, ErrUnknownPlayer)
		}
		if err != nil {
			return err
		}

		if err := tx.PutPlayerRecord(ctx, AddLine(r, l)); err != nil {
			return err
		}
		return tx.InsertPlayerGame(ctx, gameID, season, l)
	})
	if err != nil {
		return fmt.Errorf("record box score for game %s: %w", gameID, err)
	}
	return nil
}

func (e *Engine) publish(ctx context.Context, g db.Game, fn func(Publisher, context.Context, db.Game) error) {
	if e.pub == nil {
		return
	}
	// The aggregation has committed. A failed notification is not an
	// aggregation failure.
	if err := fn(e.pub, ctx, g); err != nil {
		e.log.Warn("Cannot publish game event", "game", g.ID, "error", err)
	}
}

func teamRecord(ctx context.Context, tx db.Tx, teamID int64, season string) (db.TeamSeasonRecord, error) {
	r, err := tx.GetTeamRecord(ctx, teamID, season)
	if errors.Is(err, db.ErrNotFound) {
		return db.TeamSeasonRecord{}, fmt.Errorf("team %d season %s: %w", teamID, season, ErrUnknownTeam)
	}
	return r, err
}

// refreshRanks recomputes and stores every team's ranks for a season.
// replayPlayer rebuilds a player's season record from their stored lines.
func replayPlayer(ctx context.Context, tx db.Tx, playerID int64, season string) error {
	r, err := tx.GetPlayerRecord(ctx, playerID, season)
	if err != nil {
		return err
	}
	lines, err := tx.ListPlayerLines(ctx, playerID, season)
	if err != nil {
		return err
	}
	return tx.PutPlayerRecord(ctx, ReplayLines(r, lines))
}

func refreshRanks(ctx context.Context, tx db.Tx, season string) error {
	records, err := tx.ListTeamRecords(ctx, season)
	if err != nil {
		return err
	}
	games, err := tx.ListGames(ctx, season)
	if err != nil {
		return err
	}

	ranks := standings.Rank(records, games)
	for _, r := range records {
		rk := ranks[r.TeamID]
		if r.ConferenceRank == rk.Conference && r.DivisionRank == rk.Division && r.OverallRank == rk.Overall {
			continue
		}
		r.ConferenceRank, r.DivisionRank, r.OverallRank = rk.Conference, rk.Division, rk.Overall
		if err := tx.PutTeamRecord(ctx, r); err != nil {
			return fmt.Errorf("store ranks: %w", err)
		}
	}
	return nil
}
