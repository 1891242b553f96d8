package db

import (
	"context"
	"fmt"
	"strings"
)

// TeamSummary contains team info for display.
type TeamSummary struct {
	ID         int64  `json:"id"`
	Key        string `json:"key"`
	Name       string `json:"name"`
	City       string `json:"city"`
	Conference string `json:"conference"`
	Division   string `json:"division"`
}

// ListTeams returns all registered teams, optionally filtered by a
// case-insensitive search term matching key, name or city.
func (q queries) ListTeams(ctx context.Context, search string) ([]TeamSummary, error) {
	query := "SELECT id, key, name, city, conference, division FROM teams WHERE 1=1"
	var args []any

	if search != "" {
		query += " AND (LOWER(key) LIKE ? OR LOWER(name) LIKE ? OR LOWER(city) LIKE ?)"
		pattern := "%" + strings.ToLower(search) + "%"
		args = append(args, pattern, pattern, pattern)
	}

	query += " ORDER BY key"

	rows, err := q.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query teams: %w", err)
	}
	defer rows.Close() //nolint:errcheck // Read-only query.

	var result []TeamSummary
	for rows.Next() {
		var t TeamSummary
		if err := rows.Scan(&t.ID, &t.Key, &t.Name, &t.City, &t.Conference, &t.Division); err != nil {
			return nil, fmt.Errorf("scan team: %w", err)
		}
		result = append(result, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate teams: %w", err)
	}

	return result, nil
}

// PlayerSummary contains player info for display, including their current team.
type PlayerSummary struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	TeamKey  string `json:"teamKey,omitempty"`
	Team     string `json:"team,omitempty"`
	Position string `json:"position"`
	Number   int    `json:"number"`
}

// ListPlayers returns all registered players, optionally filtered by a
// case-insensitive search term matching player name, team key, or team name.
func (q queries) ListPlayers(ctx context.Context, search string) ([]PlayerSummary, error) {
	query := `
		SELECT p.id, p.name, COALESCE(t.key, ''), COALESCE(t.name, ''), p.position, p.number
		FROM players p
		LEFT JOIN teams t ON t.id = p.team_id
		WHERE 1=1
	`
	var args []any

	if search != "" {
		query += " AND (LOWER(p.name) LIKE ? OR LOWER(t.key) LIKE ? OR LOWER(t.name) LIKE ?)"
		pattern := "%" + strings.ToLower(search) + "%"
		args = append(args, pattern, pattern, pattern)
	}

	query += " ORDER BY p.name"

	rows, err := q.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query players: %w", err)
	}
	defer rows.Close() //nolint:errcheck // Read-only query.

	var result []PlayerSummary
	for rows.Next() {
		var p PlayerSummary
		if err := rows.Scan(&p.ID, &p.Name, &p.TeamKey, &p.Team, &p.Position, &p.Number); err != nil {
			return nil, fmt.Errorf("scan player: %w", err)
		}
		result = append(result, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate players: %w", err)
	}

	return result, nil
}

// ListSeasons returns every season with at least one registered team record,
// newest first.
func (q queries) ListSeasons(ctx context.Context) ([]string, error) {
	rows, err := q.q.QueryContext(ctx, "SELECT DISTINCT season FROM team_seasons ORDER BY season DESC")
	if err != nil {
		return nil, fmt.Errorf("query seasons: %w", err)
	}
	defer rows.Close() //nolint:errcheck // Read-only query.

	var result []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("scan season: %w", err)
		}
		result = append(result, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate seasons: %w", err)
	}

	return result, nil
}
