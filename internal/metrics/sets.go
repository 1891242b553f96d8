package metrics

import "github.com/negz/hoops/internal/db"

// Player is the full set of derived metrics for a player's season.
type Player struct {
	PointsPerGame    float64 `json:"pointsPerGame"`
	ReboundsPerGame  float64 `json:"reboundsPerGame"`
	AssistsPerGame   float64 `json:"assistsPerGame"`
	StealsPerGame    float64 `json:"stealsPerGame"`
	BlocksPerGame    float64 `json:"blocksPerGame"`
	MinutesPerGame   float64 `json:"minutesPerGame"`
	TurnoversPerGame float64 `json:"turnoversPerGame"`

	FieldGoalPercentage    float64 `json:"fieldGoalPercentage"`
	ThreePointPercentage   float64 `json:"threePointPercentage"`
	FreeThrowPercentage    float64 `json:"freeThrowPercentage"`
	TrueShootingPercentage float64 `json:"trueShootingPercentage"`

	Efficiency   float64 `json:"efficiency"`
	UsageRate    float64 `json:"usageRate"`
	AssistRatio  float64 `json:"assistRatio"`
	ReboundRate  float64 `json:"reboundRate"`
	BlockRate    float64 `json:"blockRate"`
	StealRate    float64 `json:"stealRate"`
	TurnoverRate float64 `json:"turnoverRate"`
}

// ForPlayer derives a player's metrics from their raw season counters.
func ForPlayer(r db.PlayerSeasonRecord) Player {
	gp := r.GamesPlayed
	return Player{
		PointsPerGame:    PerGame(float64(r.Points), gp),
		ReboundsPerGame:  PerGame(float64(r.Rebounds()), gp),
		AssistsPerGame:   PerGame(float64(r.Assists), gp),
		StealsPerGame:    PerGame(float64(r.Steals), gp),
		BlocksPerGame:    PerGame(float64(r.Blocks), gp),
		MinutesPerGame:   PerGame(r.Minutes, gp),
		TurnoversPerGame: PerGame(float64(r.Turnovers), gp),

		FieldGoalPercentage:    ShootingPercentage(r.FieldGoalsMade, r.FieldGoalsAttempted),
		ThreePointPercentage:   ShootingPercentage(r.ThreePointersMade, r.ThreePointersAttempted),
		FreeThrowPercentage:    ShootingPercentage(r.FreeThrowsMade, r.FreeThrowsAttempted),
		TrueShootingPercentage: TrueShootingPercentage(r.Points, r.FieldGoalsAttempted, r.FreeThrowsAttempted),

		Efficiency:   PlayerEfficiency(r),
		UsageRate:    UsageRate(r.FieldGoalsAttempted, r.FreeThrowsAttempted, r.Turnovers, r.Assists, r.Minutes),
		AssistRatio:  AssistRatio(r.Assists, r.Minutes, gp),
		ReboundRate:  Per100(float64(r.Rebounds()), gp),
		BlockRate:    Per100(float64(r.Blocks), gp),
		StealRate:    Per100(float64(r.Steals), gp),
		TurnoverRate: TurnoverRate(r.Turnovers, r.FieldGoalsAttempted, r.FreeThrowsAttempted),
	}
}

// PlayerEfficiency returns a player's per-game efficiency rating.
func PlayerEfficiency(r db.PlayerSeasonRecord) float64 {
	return Efficiency(
		r.Points, r.OffensiveRebounds, r.DefensiveRebounds, r.Assists, r.Steals, r.Blocks,
		r.FieldGoalsAttempted, r.FieldGoalsMade, r.FreeThrowsAttempted, r.FreeThrowsMade,
		r.Turnovers, r.GamesPlayed,
	)
}

// PlayerEfficiencyExact returns a player's per-game efficiency without
// rounding, for ranking.
func PlayerEfficiencyExact(r db.PlayerSeasonRecord) float64 {
	total := EfficiencyTotal(
		r.Points, r.OffensiveRebounds, r.DefensiveRebounds, r.Assists, r.Steals, r.Blocks,
		r.FieldGoalsAttempted, r.FieldGoalsMade, r.FreeThrowsAttempted, r.FreeThrowsMade,
		r.Turnovers,
	)
	return Div(float64(total), float64(r.GamesPlayed))
}

// Team is the full set of derived metrics for a team's season.
type Team struct {
	WinPercentage        float64 `json:"winPercentage"`
	PointsForPerGame     float64 `json:"pointsForPerGame"`
	PointsAgainstPerGame float64 `json:"pointsAgainstPerGame"`
	PointDifferential    int     `json:"pointDifferential"`
	NetRating            float64 `json:"netRating"`
	Pace                 float64 `json:"pace"`
	OffensiveRating      float64 `json:"offensiveRating"`
	DefensiveRating      float64 `json:"defensiveRating"`
	HomeWinPercentage    float64 `json:"homeWinPercentage"`
	AwayWinPercentage    float64 `json:"awayWinPercentage"`
	LastTenWinPercentage float64 `json:"lastTenWinPercentage"`
}

// ForTeam derives a team's metrics from its raw season counters.
func ForTeam(r db.TeamSeasonRecord) Team {
	gp := r.GamesPlayed
	return Team{
		WinPercentage:        WinPercentage(r.Wins, gp),
		PointsForPerGame:     PerGame(float64(r.PointsFor), gp),
		PointsAgainstPerGame: PerGame(float64(r.PointsAgainst), gp),
		PointDifferential:    r.PointDifferential(),
		NetRating:            NetRating(r.PointsFor, r.PointsAgainst, gp),
		Pace:                 Pace(r.PointsFor, r.PointsAgainst, gp),
		OffensiveRating:      PerGame(float64(r.PointsFor), gp),
		DefensiveRating:      PerGame(float64(r.PointsAgainst), gp),
		HomeWinPercentage:    WinPercentage(r.HomeWins, r.HomeWins+r.HomeLosses),
		AwayWinPercentage:    WinPercentage(r.AwayWins, r.AwayWins+r.AwayLosses),
		LastTenWinPercentage: WinPercentage(r.LastTen.Wins(), len(r.LastTen)),
	}
}

// NetRating returns points for minus points against, per game.
func NetRating(pointsFor, pointsAgainst, gamesPlayed int) float64 {
	return Round1(Div(float64(pointsFor-pointsAgainst), float64(gamesPlayed)))
}

// Pace returns combined points scored by both sides, per game.
func Pace(pointsFor, pointsAgainst, gamesPlayed int) float64 {
	return PerGame(float64(pointsFor+pointsAgainst), gamesPlayed)
}
