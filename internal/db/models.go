package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/negz/hoops/internal/streak"
)

// Team represents a league team.
type Team struct {
	ID         int64  `json:"id"`
	Key        string `json:"key"`
	Name       string `json:"name"`
	City       string `json:"city"`
	Conference string `json:"conference"`
	Division   string `json:"division"`
}

// RegisterTeam inserts or updates a team and returns its ID.
func (s *SQLiteStore) RegisterTeam(ctx context.Context, t Team) (int64, error) {
	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO teams (key, name, city, conference, division)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			name = excluded.name,
			city = excluded.city,
			conference = excluded.conference,
			division = excluded.division
	`, t.Key, t.Name, t.City, t.Conference, t.Division); err != nil {
		return 0, fmt.Errorf("register team %s: %w", t.Key, err)
	}

	var id int64
	if err := s.db.QueryRowContext(ctx, "SELECT id FROM teams WHERE key = ?", t.Key).Scan(&id); err != nil {
		return 0, fmt.Errorf("get team id: %w", err)
	}
	return id, nil
}

// Player represents a league player.
type Player struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	TeamID   int64  `json:"teamId,omitempty"`
	Position string `json:"position"`
	Number   int    `json:"number"`
}

// RegisterPlayer inserts or updates a player and returns their ID.
func (s *SQLiteStore) RegisterPlayer(ctx context.Context, p Player) (int64, error) {
	var teamID any
	if p.TeamID != 0 {
		teamID = p.TeamID
	}

	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO players (name, team_id, position, number)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			team_id = excluded.team_id,
			position = excluded.position,
			number = excluded.number
	`, p.Name, teamID, p.Position, p.Number); err != nil {
		return 0, fmt.Errorf("register player %s: %w", p.Name, err)
	}

	var id int64
	if err := s.db.QueryRowContext(ctx, "SELECT id FROM players WHERE name = ?", p.Name).Scan(&id); err != nil {
		return 0, fmt.Errorf("get player id: %w", err)
	}
	return id, nil
}

// RegisterTeamSeason creates a zeroed season record for a team. Registering
// an existing record is a no-op.
func (s *SQLiteStore) RegisterTeamSeason(ctx context.Context, teamID int64, season string) error {
	if _, err := s.GetTeam(ctx, teamID); err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO team_seasons (team_id, season) VALUES (?, ?)
		ON CONFLICT(team_id, season) DO NOTHING
	`, teamID, season); err != nil {
		return fmt.Errorf("register team %d season %s: %w", teamID, season, err)
	}
	return nil
}

// RegisterPlayerSeason creates a zeroed season record for a player.
// Registering an existing record is a no-op.
func (s *SQLiteStore) RegisterPlayerSeason(ctx context.Context, playerID int64, season string) error {
	if _, err := s.GetPlayer(ctx, playerID); err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO player_seasons (player_id, season) VALUES (?, ?)
		ON CONFLICT(player_id, season) DO NOTHING
	`, playerID, season); err != nil {
		return fmt.Errorf("register player %d season %s: %w", playerID, season, err)
	}
	return nil
}

// WinLoss is a simple win-loss tally.
type WinLoss struct {
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
}

// Add records one game in the tally.
func (wl *WinLoss) Add(won bool) {
	if won {
		wl.Wins++
		return
	}
	wl.Losses++
}

// String returns the tally as "W-L".
func (wl WinLoss) String() string {
	return fmt.Sprintf("%d-%d", wl.Wins, wl.Losses)
}

// TeamSeasonRecord is a team's cumulative record for one season.
type TeamSeasonRecord struct {
	TeamID int64
	Season string
	Team   Team // Populated on read.

	GamesPlayed   int
	Wins          int
	Losses        int
	HomeWins      int
	HomeLosses    int
	AwayWins      int
	AwayLosses    int
	PointsFor     int
	PointsAgainst int

	Streak   streak.Streak
	LastFive streak.Form
	LastTen  streak.Form

	ConferenceRecord WinLoss
	DivisionRecord   WinLoss

	ConferenceRank int
	DivisionRank   int
	OverallRank    int
}

// PointDifferential returns points for minus points against.
func (r TeamSeasonRecord) PointDifferential() int {
	return r.PointsFor - r.PointsAgainst
}

// PlayerSeasonRecord is a player's raw counting stats for one season.
type PlayerSeasonRecord struct {
	PlayerID int64
	Season   string
	Player   Player // Populated on read.
	TeamKey  string // Populated on read. Empty for free agents.

	GamesPlayed  int
	GamesStarted int
	Minutes      float64

	Points                 int
	FieldGoalsAttempted    int
	FieldGoalsMade         int
	ThreePointersAttempted int
	ThreePointersMade      int
	FreeThrowsAttempted    int
	FreeThrowsMade         int
	OffensiveRebounds      int
	DefensiveRebounds      int
	Assists                int
	Steals                 int
	Blocks                 int
	Turnovers              int
	PersonalFouls          int
	TechnicalFouls         int
	PlusMinus              int
	DoubleDoubles          int
	TripleDoubles          int
}

// Rebounds returns total rebounds.
func (r PlayerSeasonRecord) Rebounds() int {
	return r.OffensiveRebounds + r.DefensiveRebounds
}

// BoxScoreLine is one player's counting stats for a single game.
type BoxScoreLine struct {
	PlayerID int64
	Started  bool
	Minutes  float64

	Points                 int
	FieldGoalsAttempted    int
	FieldGoalsMade         int
	ThreePointersAttempted int
	ThreePointersMade      int
	FreeThrowsAttempted    int
	FreeThrowsMade         int
	OffensiveRebounds      int
	DefensiveRebounds      int
	Assists                int
	Steals                 int
	Blocks                 int
	Turnovers              int
	PersonalFouls          int
	TechnicalFouls         int
	PlusMinus              int
}

// GameState is the lifecycle state of a game.
type GameState string

// Game states.
const (
	GameScheduled  GameState = "scheduled"
	GameInProgress GameState = "in_progress"
	GameFinished   GameState = "finished"
	GameCancelled  GameState = "cancelled"
	GameSuspended  GameState = "suspended"
)

// Game is a single game between two teams.
type Game struct {
	ID             string    `json:"id"`
	Season         string    `json:"season"`
	Matchday       int       `json:"matchday"`
	Date           string    `json:"date"` // ISO date, e.g. "2024-10-22".
	HomeTeamID     int64     `json:"homeTeamId"`
	AwayTeamID     int64     `json:"awayTeamId"`
	HomeScore      int       `json:"homeScore"`
	AwayScore      int       `json:"awayScore"`
	State          GameState `json:"state"`
	ConferenceGame bool      `json:"conferenceGame"`
	DivisionGame   bool      `json:"divisionGame"`
}

// Involves reports whether the team played in the game.
func (g Game) Involves(teamID int64) bool {
	return g.HomeTeamID == teamID || g.AwayTeamID == teamID
}

// Winner returns the ID of the winning team, or zero for a tie.
func (g Game) Winner() int64 {
	switch {
	case g.HomeScore > g.AwayScore:
		return g.HomeTeamID
	case g.AwayScore > g.HomeScore:
		return g.AwayTeamID
	default:
		return 0
	}
}

// GetTeam returns a team by ID.
func (q queries) GetTeam(ctx context.Context, id int64) (Team, error) {
	var t Team
	err := q.q.QueryRowContext(ctx,
		"SELECT id, key, name, city, conference, division FROM teams WHERE id = ?", id).
		Scan(&t.ID, &t.Key, &t.Name, &t.City, &t.Conference, &t.Division)
	if errors.Is(err, sql.ErrNoRows) {
		return Team{}, fmt.Errorf("team %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return Team{}, fmt.Errorf("get team %d: %w", id, err)
	}
	return t, nil
}

// GetTeamByKey returns a team by its short code.
func (q queries) GetTeamByKey(ctx context.Context, key string) (Team, error) {
	var t Team
	err := q.q.QueryRowContext(ctx,
		"SELECT id, key, name, city, conference, division FROM teams WHERE key = ?", key).
		Scan(&t.ID, &t.Key, &t.Name, &t.City, &t.Conference, &t.Division)
	if errors.Is(err, sql.ErrNoRows) {
		return Team{}, fmt.Errorf("team %s: %w", key, ErrNotFound)
	}
	if err != nil {
		return Team{}, fmt.Errorf("get team %s: %w", key, err)
	}
	return t, nil
}

// GetPlayer returns a player by ID.
func (q queries) GetPlayer(ctx context.Context, id int64) (Player, error) {
	var (
		p      Player
		teamID sql.NullInt64
	)
	err := q.q.QueryRowContext(ctx,
		"SELECT id, name, team_id, position, number FROM players WHERE id = ?", id).
		Scan(&p.ID, &p.Name, &teamID, &p.Position, &p.Number)
	if errors.Is(err, sql.ErrNoRows) {
		return Player{}, fmt.Errorf("player %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return Player{}, fmt.Errorf("get player %d: %w", id, err)
	}
	p.TeamID = teamID.Int64
	return p, nil
}

// GetPlayerByName returns a player by name.
func (q queries) GetPlayerByName(ctx context.Context, name string) (Player, error) {
	var (
		p      Player
		teamID sql.NullInt64
	)
	err := q.q.QueryRowContext(ctx,
		"SELECT id, name, team_id, position, number FROM players WHERE name = ?", name).
		Scan(&p.ID, &p.Name, &teamID, &p.Position, &p.Number)
	if errors.Is(err, sql.ErrNoRows) {
		return Player{}, fmt.Errorf("player %s: %w", name, ErrNotFound)
	}
	if err != nil {
		return Player{}, fmt.Errorf("get player %s: %w", name, err)
	}
	p.TeamID = teamID.Int64
	return p, nil
}
