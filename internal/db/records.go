package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/negz/hoops/internal/streak"
)

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const teamRecordColumns = `
	ts.team_id, ts.season,
	t.id, t.key, t.name, t.city, t.conference, t.division,
	ts.games_played, ts.wins, ts.losses,
	ts.home_wins, ts.home_losses, ts.away_wins, ts.away_losses,
	ts.points_for, ts.points_against,
	ts.streak_kind, ts.streak_length, ts.best_win_streak, ts.worst_loss_streak,
	ts.last_five, ts.last_ten,
	ts.conference_wins, ts.conference_losses, ts.division_wins, ts.division_losses,
	ts.conference_rank, ts.division_rank, ts.overall_rank
`

func scanTeamRecord(row scanner) (TeamSeasonRecord, error) {
	var (
		r                 TeamSeasonRecord
		kind              string
		lastFive, lastTen string
	)
	err := row.Scan(
		&r.TeamID, &r.Season,
		&r.Team.ID, &r.Team.Key, &r.Team.Name, &r.Team.City, &r.Team.Conference, &r.Team.Division,
		&r.GamesPlayed, &r.Wins, &r.Losses,
		&r.HomeWins, &r.HomeLosses, &r.AwayWins, &r.AwayLosses,
		&r.PointsFor, &r.PointsAgainst,
		&kind, &r.Streak.Length, &r.Streak.BestWin, &r.Streak.WorstLoss,
		&lastFive, &lastTen,
		&r.ConferenceRecord.Wins, &r.ConferenceRecord.Losses, &r.DivisionRecord.Wins, &r.DivisionRecord.Losses,
		&r.ConferenceRank, &r.DivisionRank, &r.OverallRank,
	)
	r.Streak.Kind = streak.Kind(kind)
	r.LastFive = streak.Form(lastFive)
	r.LastTen = streak.Form(lastTen)
	return r, err
}

// GetTeamRecord returns a team's record for a season.
func (q queries) GetTeamRecord(ctx context.Context, teamID int64, season string) (TeamSeasonRecord, error) {
	row := q.q.QueryRowContext(ctx, `
		SELECT `+teamRecordColumns+`
		FROM team_seasons ts
		JOIN teams t ON t.id = ts.team_id
		WHERE ts.team_id = ? AND ts.season = ?
	`, teamID, season)

	r, err := scanTeamRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return TeamSeasonRecord{}, fmt.Errorf("team %d season %s: %w", teamID, season, ErrNotFound)
	}
	if err != nil {
		return TeamSeasonRecord{}, fmt.Errorf("get team %d season %s: %w", teamID, season, err)
	}
	return r, nil
}

// ListTeamRecords returns every team record for a season, ordered by team
// key.
func (q queries) ListTeamRecords(ctx context.Context, season string) ([]TeamSeasonRecord, error) {
	rows, err := q.q.QueryContext(ctx, `
		SELECT `+teamRecordColumns+`
		FROM team_seasons ts
		JOIN teams t ON t.id = ts.team_id
		WHERE ts.season = ?
		ORDER BY t.key
	`, season)
	if err != nil {
		return nil, fmt.Errorf("query team records: %w", err)
	}
	defer rows.Close() //nolint:errcheck // Read-only query.

	var result []TeamSeasonRecord
	for rows.Next() {
		r, err := scanTeamRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan team record: %w", err)
		}
		result = append(result, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate team records: %w", err)
	}

	return result, nil
}

// PutTeamRecord overwrites an existing team season record.
func (q queries) PutTeamRecord(ctx context.Context, r TeamSeasonRecord) error {
	res, err := q.q.ExecContext(ctx, `
		UPDATE team_seasons SET
			games_played = ?, wins = ?, losses = ?,
			home_wins = ?, home_losses = ?, away_wins = ?, away_losses = ?,
			points_for = ?, points_against = ?,
			streak_kind = ?, streak_length = ?, best_win_streak = ?, worst_loss_streak = ?,
			last_five = ?, last_ten = ?,
			conference_wins = ?, conference_losses = ?, division_wins = ?, division_losses = ?,
			conference_rank = ?, division_rank = ?, overall_rank = ?
		WHERE team_id = ? AND season = ?
	`,
		r.GamesPlayed, r.Wins, r.Losses,
		r.HomeWins, r.HomeLosses, r.AwayWins, r.AwayLosses,
		r.PointsFor, r.PointsAgainst,
		string(r.Streak.Kind), r.Streak.Length, r.Streak.BestWin, r.Streak.WorstLoss,
		string(r.LastFive), string(r.LastTen),
		r.ConferenceRecord.Wins, r.ConferenceRecord.Losses, r.DivisionRecord.Wins, r.DivisionRecord.Losses,
		r.ConferenceRank, r.DivisionRank, r.OverallRank,
		r.TeamID, r.Season,
	)
	if err != nil {
		return fmt.Errorf("update team %d season %s: %w", r.TeamID, r.Season, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("team %d season %s: %w", r.TeamID, r.Season, ErrNotFound)
	}
	return nil
}

const playerRecordColumns = `
	ps.player_id, ps.season,
	p.id, p.name, COALESCE(p.team_id, 0), p.position, p.number,
	COALESCE(t.key, ''),
	ps.games_played, ps.games_started, ps.minutes,
	ps.points, ps.fg_attempted, ps.fg_made, ps.three_attempted, ps.three_made,
	ps.ft_attempted, ps.ft_made, ps.rebounds_off, ps.rebounds_def,
	ps.assists, ps.steals, ps.blocks, ps.turnovers,
	ps.personal_fouls, ps.technical_fouls, ps.plus_minus,
	ps.double_doubles, ps.triple_doubles
`

func scanPlayerRecord(row scanner) (PlayerSeasonRecord, error) {
	var r PlayerSeasonRecord
	err := row.Scan(
		&r.PlayerID, &r.Season,
		&r.Player.ID, &r.Player.Name, &r.Player.TeamID, &r.Player.Position, &r.Player.Number,
		&r.TeamKey,
		&r.GamesPlayed, &r.GamesStarted, &r.Minutes,
		&r.Points, &r.FieldGoalsAttempted, &r.FieldGoalsMade, &r.ThreePointersAttempted, &r.ThreePointersMade,
		&r.FreeThrowsAttempted, &r.FreeThrowsMade, &r.OffensiveRebounds, &r.DefensiveRebounds,
		&r.Assists, &r.Steals, &r.Blocks, &r.Turnovers,
		&r.PersonalFouls, &r.TechnicalFouls, &r.PlusMinus,
		&r.DoubleDoubles, &r.TripleDoubles,
	)
	return r, err
}

// GetPlayerRecord returns a player's record for a season.
func (q queries) GetPlayerRecord(ctx context.Context, playerID int64, season string) (PlayerSeasonRecord, error) {
	row := q.q.QueryRowContext(ctx, `
		SELECT `+playerRecordColumns+`
		FROM player_seasons ps
		JOIN players p ON p.id = ps.player_id
		LEFT JOIN teams t ON t.id = p.team_id
		WHERE ps.player_id = ? AND ps.season = ?
	`, playerID, season)

	r, err := scanPlayerRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return PlayerSeasonRecord{}, fmt.Errorf("player %d season %s: %w", playerID, season, ErrNotFound)
	}
	if err != nil {
		return PlayerSeasonRecord{}, fmt.Errorf("get player %d season %s: %w", playerID, season, err)
	}
	return r, nil
}

// ListPlayerRecords returns every player record for a season, ordered by
// player name.
func (q queries) ListPlayerRecords(ctx context.Context, season string) ([]PlayerSeasonRecord, error) {
	rows, err := q.q.QueryContext(ctx, `
		SELECT `+playerRecordColumns+`
		FROM player_seasons ps
		JOIN players p ON p.id = ps.player_id
		LEFT JOIN teams t ON t.id = p.team_id
		WHERE ps.season = ?
		ORDER BY p.name
	`, season)
	if err != nil {
		return nil, fmt.Errorf("query player records: %w", err)
	}
	defer rows.Close() //nolint:errcheck // Read-only query.

	var result []PlayerSeasonRecord
	for rows.Next() {
		r, err := scanPlayerRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan player record: %w", err)
		}
		result = append(result, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate player records: %w", err)
	}

	return result, nil
}

// PutPlayerRecord overwrites an existing player season record.
func (q queries) PutPlayerRecord(ctx context.Context, r PlayerSeasonRecord) error {
	res, err := q.q.ExecContext(ctx, `
		UPDATE player_seasons SET
			games_played = ?, games_started = ?, minutes = ?,
			points = ?, fg_attempted = ?, fg_made = ?, three_attempted = ?, three_made = ?,
			ft_attempted = ?, ft_made = ?, rebounds_off = ?, rebounds_def = ?,
			assists = ?, steals = ?, blocks = ?, turnovers = ?,
			personal_fouls = ?, technical_fouls = ?, plus_minus = ?,
			double_doubles = ?, triple_doubles = ?
		WHERE player_id = ? AND season = ?
	`,
		r.GamesPlayed, r.GamesStarted, r.Minutes,
		r.Points, r.FieldGoalsAttempted, r.FieldGoalsMade, r.ThreePointersAttempted, r.ThreePointersMade,
		r.FreeThrowsAttempted, r.FreeThrowsMade, r.OffensiveRebounds, r.DefensiveRebounds,
		r.Assists, r.Steals, r.Blocks, r.Turnovers,
		r.PersonalFouls, r.TechnicalFouls, r.PlusMinus,
		r.DoubleDoubles, r.TripleDoubles,
		r.PlayerID, r.Season,
	)
	if err != nil {
		return fmt.Errorf("update player %d season %s: %w", r.PlayerID, r.Season, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("player %d season %s: %w", r.PlayerID, r.Season, ErrNotFound)
	}
	return nil
}

// PlayerGameRecorded reports whether a player's box score line for a game
// has already been aggregated.
func (q queries) PlayerGameRecorded(ctx context.Context, gameID string, playerID int64) (bool, error) {
	var n int
	if err := q.q.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM player_games WHERE game_id = ? AND player_id = ?",
		gameID, playerID).Scan(&n); err != nil {
		return false, fmt.Errorf("check player game: %w", err)
	}
	return n > 0, nil
}

// InsertPlayerGame stores a player's box score line for a game, marking it
// as aggregated.
func (q queries) InsertPlayerGame(ctx context.Context, gameID, season string, l BoxScoreLine) error {
	if _, err := q.q.ExecContext(ctx, `
		INSERT INTO player_games (
			game_id, player_id, season, started, minutes,
			points, fg_attempted, fg_made, three_attempted, three_made,
			ft_attempted, ft_made, rebounds_off, rebounds_def,
			assists, steals, blocks, turnovers,
			personal_fouls, technical_fouls, plus_minus
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		gameID, l.PlayerID, season, l.Started, l.Minutes,
		l.Points, l.FieldGoalsAttempted, l.FieldGoalsMade, l.ThreePointersAttempted, l.ThreePointersMade,
		l.FreeThrowsAttempted, l.FreeThrowsMade, l.OffensiveRebounds, l.DefensiveRebounds,
		l.Assists, l.Steals, l.Blocks, l.Turnovers,
		l.PersonalFouls, l.TechnicalFouls, l.PlusMinus,
	); err != nil {
		return fmt.Errorf("insert player game: %w", err)
	}
	return nil
}

// DeletePlayerGames removes every box score line stored for a game. It
// returns the IDs of the players whose lines were removed, in ID order.
func (q queries) DeletePlayerGames(ctx context.Context, gameID string) ([]int64, error) {
	rows, err := q.q.QueryContext(ctx,
		"SELECT player_id FROM player_games WHERE game_id = ? ORDER BY player_id", gameID)
	if err != nil {
		return nil, fmt.Errorf("query player games: %w", err)
	}
	defer rows.Close() //nolint:errcheck // Read-only query.

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan player game: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate player games: %w", err)
	}

	if _, err := q.q.ExecContext(ctx, "DELETE FROM player_games WHERE game_id = ?", gameID); err != nil {
		return nil, fmt.Errorf("delete player games: %w", err)
	}
	return ids, nil
}

// ListPlayerLines returns a player's stored box score lines for a season in
// application order.
func (q queries) ListPlayerLines(ctx context.Context, playerID int64, season string) ([]BoxScoreLine, error) {
	rows, err := q.q.QueryContext(ctx, `
		SELECT
			player_id, started, minutes,
			points, fg_attempted, fg_made, three_attempted, three_made,
			ft_attempted, ft_made, rebounds_off, rebounds_def,
			assists, steals, blocks, turnovers,
			personal_fouls, technical_fouls, plus_minus
		FROM player_games
		WHERE player_id = ? AND season = ?
		ORDER BY seq
	`, playerID, season)
	if err != nil {
		return nil, fmt.Errorf("query player lines: %w", err)
	}
	defer rows.Close() //nolint:errcheck // Read-only query.

	var result []BoxScoreLine
	for rows.Next() {
		var l BoxScoreLine
		if err := rows.Scan(
			&l.PlayerID, &l.Started, &l.Minutes,
			&l.Points, &l.FieldGoalsAttempted, &l.FieldGoalsMade, &l.ThreePointersAttempted, &l.ThreePointersMade,
			&l.FreeThrowsAttempted, &l.FreeThrowsMade, &l.OffensiveRebounds, &l.DefensiveRebounds,
			&l.Assists, &l.Steals, &l.Blocks, &l.Turnovers,
			&l.PersonalFouls, &l.TechnicalFouls, &l.PlusMinus,
		); err != nil {
			return nil, fmt.Errorf("scan player line: %w", err)
		}
		result = append(result, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate player lines: %w", err)
	}

	return result, nil
}
