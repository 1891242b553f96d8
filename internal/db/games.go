package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

const gameColumns = `
	id, season, matchday, date, home_team_id, away_team_id,
	home_score, away_score, conference_game, division_game
`

// Only finished games are ever stored, so State is always GameFinished on
// read.
func scanGame(row scanner) (Game, error) {
	g := Game{State: GameFinished}
	err := row.Scan(
		&g.ID, &g.Season, &g.Matchday, &g.Date, &g.HomeTeamID, &g.AwayTeamID,
		&g.HomeScore, &g.AwayScore, &g.ConferenceGame, &g.DivisionGame,
	)
	return g, err
}

func (q queries) listGames(ctx context.Context, query string, args ...any) ([]Game, error) {
	rows, err := q.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query games: %w", err)
	}
	defer rows.Close() //nolint:errcheck // Read-only query.

	var result []Game
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("scan game: %w", err)
		}
		result = append(result, g)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate games: %w", err)
	}

	return result, nil
}

// GameApplied reports whether a game has already been aggregated.
func (q queries) GameApplied(ctx context.Context, id string) (bool, error) {
	var n int
	if err := q.q.QueryRowContext(ctx, "SELECT COUNT(*) FROM games WHERE id = ?", id).Scan(&n); err != nil {
		return false, fmt.Errorf("check game %s: %w", id, err)
	}
	return n > 0, nil
}

// GetGame returns an applied game by ID.
func (q queries) GetGame(ctx context.Context, id string) (Game, error) {
	g, err := scanGame(q.q.QueryRowContext(ctx, "SELECT "+gameColumns+" FROM games WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return Game{}, fmt.Errorf("game %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return Game{}, fmt.Errorf("get game %s: %w", id, err)
	}
	return g, nil
}

// InsertGame records a game as applied. Inserting a game ID twice fails.
func (q queries) InsertGame(ctx context.Context, g Game) error {
	if _, err := q.q.ExecContext(ctx, `
		INSERT INTO games (`+gameColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		g.ID, g.Season, g.Matchday, g.Date, g.HomeTeamID, g.AwayTeamID,
		g.HomeScore, g.AwayScore, g.ConferenceGame, g.DivisionGame,
	); err != nil {
		return fmt.Errorf("insert game %s: %w", g.ID, err)
	}
	return nil
}

// DeleteGame removes an applied game.
func (q queries) DeleteGame(ctx context.Context, id string) error {
	res, err := q.q.ExecContext(ctx, "DELETE FROM games WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete game %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("game %s: %w", id, ErrNotFound)
	}
	return nil
}

// ListGames returns a season's applied games in application order.
func (q queries) ListGames(ctx context.Context, season string) ([]Game, error) {
	return q.listGames(ctx, "SELECT "+gameColumns+" FROM games WHERE season = ? ORDER BY seq", season)
}

// ListTeamGames returns a team's applied games for a season in application
// order.
func (q queries) ListTeamGames(ctx context.Context, season string, teamID int64) ([]Game, error) {
	return q.listGames(ctx, `
		SELECT `+gameColumns+`
		FROM games
		WHERE season = ? AND (home_team_id = ? OR away_team_id = ?)
		ORDER BY seq
	`, season, teamID, teamID)
}

// ListHeadToHead returns a season's applied games between two teams, most
// recent first.
func (q queries) ListHeadToHead(ctx context.Context, season string, a, b int64) ([]Game, error) {
	return q.listGames(ctx, `
		SELECT `+gameColumns+`
		FROM games
		WHERE season = ?
		  AND ((home_team_id = ? AND away_team_id = ?) OR (home_team_id = ? AND away_team_id = ?))
		ORDER BY date DESC, seq DESC
	`, season, a, b, b, a)
}
