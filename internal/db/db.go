// Package db implements SQLite storage for league season records.
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite" // SQL driver registration.
)

// ErrNotFound indicates the requested row does not exist.
var ErrNotFound = errors.New("not found")

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// A Tx reads and writes season records within a single transaction.
type Tx interface { //nolint:interfacebloat // Maps 1:1 to the aggregation engine's read-modify-write steps.
	GameApplied(ctx context.Context, id string) (bool, error)
	GetGame(ctx context.Context, id string) (Game, error)
	InsertGame(ctx context.Context, g Game) error
	DeleteGame(ctx context.Context, id string) error
	ListGames(ctx context.Context, season string) ([]Game, error)
	ListTeamGames(ctx context.Context, season string, teamID int64) ([]Game, error)

	GetTeamRecord(ctx context.Context, teamID int64, season string) (TeamSeasonRecord, error)
	ListTeamRecords(ctx context.Context, season string) ([]TeamSeasonRecord, error)
	PutTeamRecord(ctx context.Context, r TeamSeasonRecord) error

	PlayerGameRecorded(ctx context.Context, gameID string, playerID int64) (bool, error)
	InsertPlayerGame(ctx context.Context, gameID, season string, l BoxScoreLine) error
	DeletePlayerGames(ctx context.Context, gameID string) ([]int64, error)
	ListPlayerLines(ctx context.Context, playerID int64, season string) ([]BoxScoreLine, error)
	GetPlayerRecord(ctx context.Context, playerID int64, season string) (PlayerSeasonRecord, error)
	PutPlayerRecord(ctx context.Context, r PlayerSeasonRecord) error
}

// queries implements every read and write against a querier, so the same
// code serves the store and its transactions.
type queries struct {
	q querier
}

// SQLiteStore is a SQLite database of league data.
type SQLiteStore struct {
	queries

	db *sql.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// One connection serialises writers, and keeps ":memory:" databases from
	// splitting across pooled connections.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON; PRAGMA journal_mode = WAL; PRAGMA busy_timeout = 5000;"); err != nil {
		db.Close() //nolint:errcheck // Already returning an error.
		return nil, fmt.Errorf("set pragmas: %w", err)
	}

	return &SQLiteStore{queries: queries{q: db}, db: db}, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// DB returns the underlying database connection for direct queries.
func (s *SQLiteStore) DB() *sql.DB {
	return s.db
}

// Init creates the database schema.
func (s *SQLiteStore) Init(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// InTx runs fn inside a transaction. The transaction commits if fn returns
// nil and rolls back otherwise.
func (s *SQLiteStore) InTx(ctx context.Context, fn func(Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := fn(queries{q: tx}); err != nil {
		tx.Rollback() //nolint:errcheck // Already returning an error.
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Schema returns the documented database schema.
func Schema() string {
	return schema
}

const schema = `
-- Teams registered with the league
--
-- Example: key='BOS', name='Celtics', city='Boston', conference='East', division='Atlantic'
CREATE TABLE IF NOT EXISTS teams (
    id INTEGER PRIMARY KEY,
    key TEXT NOT NULL UNIQUE,       -- Short code (e.g., 'BOS', 'LAL')
    name TEXT NOT NULL,             -- Nickname (e.g., 'Celtics')
    city TEXT NOT NULL DEFAULT '',
    conference TEXT NOT NULL,       -- 'East' or 'West'
    division TEXT NOT NULL          -- e.g., 'Atlantic', 'Pacific'
);

-- Players (deduplicated by name)
CREATE TABLE IF NOT EXISTS players (
    id INTEGER PRIMARY KEY,
    name TEXT NOT NULL UNIQUE,
    team_id INTEGER REFERENCES teams(id),
    position TEXT NOT NULL DEFAULT '', -- 'G', 'F', 'C', 'G-F', etc.
    number INTEGER NOT NULL DEFAULT 0  -- Jersey number
);

-- Cumulative team record per season
--
-- Rows are created by explicit registration and only modified by the
-- aggregation engine. Ranks are refreshed after every applied game.
CREATE TABLE IF NOT EXISTS team_seasons (
    team_id INTEGER NOT NULL REFERENCES teams(id),
    season TEXT NOT NULL,           -- e.g., '2024-2025'
    games_played INTEGER NOT NULL DEFAULT 0,
    wins INTEGER NOT NULL DEFAULT 0,
    losses INTEGER NOT NULL DEFAULT 0,
    home_wins INTEGER NOT NULL DEFAULT 0,
    home_losses INTEGER NOT NULL DEFAULT 0,
    away_wins INTEGER NOT NULL DEFAULT 0,
    away_losses INTEGER NOT NULL DEFAULT 0,
    points_for INTEGER NOT NULL DEFAULT 0,
    points_against INTEGER NOT NULL DEFAULT 0,
    streak_kind TEXT NOT NULL DEFAULT 'neutral', -- 'neutral', 'winning', 'losing'
    streak_length INTEGER NOT NULL DEFAULT 0,
    best_win_streak INTEGER NOT NULL DEFAULT 0,
    worst_loss_streak INTEGER NOT NULL DEFAULT 0,
    conference_wins INTEGER NOT NULL DEFAULT 0,
    conference_losses INTEGER NOT NULL DEFAULT 0,
    division_wins INTEGER NOT NULL DEFAULT 0,
    division_losses INTEGER NOT NULL DEFAULT 0,
    last_five TEXT NOT NULL DEFAULT '',  -- e.g., 'WWLWL', most recent last
    last_ten TEXT NOT NULL DEFAULT '',
    conference_rank INTEGER NOT NULL DEFAULT 0,
    division_rank INTEGER NOT NULL DEFAULT 0,
    overall_rank INTEGER NOT NULL DEFAULT 0,
    PRIMARY KEY (team_id, season)
);

-- Raw counting stats per player per season
--
-- Derived metrics (per-game averages, percentages, efficiency) are never
-- stored. They are computed from these counters on read.
CREATE TABLE IF NOT EXISTS player_seasons (
    player_id INTEGER NOT NULL REFERENCES players(id),
    season TEXT NOT NULL,
    games_played INTEGER NOT NULL DEFAULT 0,
    games_started INTEGER NOT NULL DEFAULT 0,
    minutes REAL NOT NULL DEFAULT 0,
    points INTEGER NOT NULL DEFAULT 0,
    fg_attempted INTEGER NOT NULL DEFAULT 0,
    fg_made INTEGER NOT NULL DEFAULT 0,
    three_attempted INTEGER NOT NULL DEFAULT 0,
    three_made INTEGER NOT NULL DEFAULT 0,
    ft_attempted INTEGER NOT NULL DEFAULT 0,
    ft_made INTEGER NOT NULL DEFAULT 0,
    rebounds_off INTEGER NOT NULL DEFAULT 0,
    rebounds_def INTEGER NOT NULL DEFAULT 0,
    assists INTEGER NOT NULL DEFAULT 0,
    steals INTEGER NOT NULL DEFAULT 0,
    blocks INTEGER NOT NULL DEFAULT 0,
    turnovers INTEGER NOT NULL DEFAULT 0,
    personal_fouls INTEGER NOT NULL DEFAULT 0,
    technical_fouls INTEGER NOT NULL DEFAULT 0,
    plus_minus INTEGER NOT NULL DEFAULT 0,
    double_doubles INTEGER NOT NULL DEFAULT 0,
    triple_doubles INTEGER NOT NULL DEFAULT 0,
    PRIMARY KEY (player_id, season),
    CHECK (fg_made <= fg_attempted),
    CHECK (three_made <= three_attempted),
    CHECK (ft_made <= ft_attempted)
);

-- Finished games that have been aggregated into team records
--
-- A row here is the idempotence key: a game id is applied at most once.
-- seq preserves application order, which is the order games are replayed in
-- when records are re-aggregated.
CREATE TABLE IF NOT EXISTS games (
    seq INTEGER PRIMARY KEY AUTOINCREMENT,
    id TEXT NOT NULL UNIQUE,        -- e.g., '2024-2025-012-BOS-LAL'
    season TEXT NOT NULL,
    matchday INTEGER NOT NULL DEFAULT 0,
    date TEXT NOT NULL DEFAULT '',  -- ISO date (e.g., '2024-10-22')
    home_team_id INTEGER NOT NULL REFERENCES teams(id),
    away_team_id INTEGER NOT NULL REFERENCES teams(id),
    home_score INTEGER NOT NULL,
    away_score INTEGER NOT NULL,
    conference_game INTEGER NOT NULL DEFAULT 0,
    division_game INTEGER NOT NULL DEFAULT 0
);

-- Box score lines that have been aggregated into player records
--
-- Lines are kept so a player's season record can be rebuilt when a game is
-- reversed. seq preserves application order.
CREATE TABLE IF NOT EXISTS player_games (
    seq INTEGER PRIMARY KEY AUTOINCREMENT,
    game_id TEXT NOT NULL,
    player_id INTEGER NOT NULL REFERENCES players(id),
    season TEXT NOT NULL,
    started INTEGER NOT NULL DEFAULT 0,
    minutes REAL NOT NULL DEFAULT 0,
    points INTEGER NOT NULL DEFAULT 0,
    fg_attempted INTEGER NOT NULL DEFAULT 0,
    fg_made INTEGER NOT NULL DEFAULT 0,
    three_attempted INTEGER NOT NULL DEFAULT 0,
    three_made INTEGER NOT NULL DEFAULT 0,
    ft_attempted INTEGER NOT NULL DEFAULT 0,
    ft_made INTEGER NOT NULL DEFAULT 0,
    rebounds_off INTEGER NOT NULL DEFAULT 0,
    rebounds_def INTEGER NOT NULL DEFAULT 0,
    assists INTEGER NOT NULL DEFAULT 0,
    steals INTEGER NOT NULL DEFAULT 0,
    blocks INTEGER NOT NULL DEFAULT 0,
    turnovers INTEGER NOT NULL DEFAULT 0,
    personal_fouls INTEGER NOT NULL DEFAULT 0,
    technical_fouls INTEGER NOT NULL DEFAULT 0,
    plus_minus INTEGER NOT NULL DEFAULT 0,
    UNIQUE (game_id, player_id)
);

-- Indexes for common query patterns
CREATE INDEX IF NOT EXISTS idx_games_season ON games(season);
CREATE INDEX IF NOT EXISTS idx_games_home ON games(home_team_id);
CREATE INDEX IF NOT EXISTS idx_games_away ON games(away_team_id);
CREATE INDEX IF NOT EXISTS idx_team_seasons_season ON team_seasons(season);
CREATE INDEX IF NOT EXISTS idx_player_seasons_season ON player_seasons(season);
CREATE INDEX IF NOT EXISTS idx_player_games_player ON player_games(player_id, season);
`
