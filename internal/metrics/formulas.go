// Package metrics computes derived basketball metrics from raw counting
// stats.
//
// Every function is total. A zero denominator yields zero rather than NaN,
// infinity or a panic. Unless noted otherwise results are rounded half away
// from zero to one decimal place.
package metrics

import "math"

// Assumed game shape for rate stats.
const (
	minutesPerGame  = 40
	playersOnCourt  = 5
	freeThrowWeight = 0.44
)

// Round1 rounds x half away from zero to one decimal place.
func Round1(x float64) float64 {
	return math.Round(x*10) / 10
}

// Div returns num/den, or zero if den is zero. The result is not rounded.
func Div(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

// ShootingPercentage returns made/attempted as a percentage.
func ShootingPercentage(made, attempted int) float64 {
	return Round1(Div(float64(made), float64(attempted)) * 100)
}

// PerGame returns a per-game average of a season total.
func PerGame(total float64, gamesPlayed int) float64 {
	return Round1(Div(total, float64(gamesPlayed)))
}

// Per100 returns a season total per hundred games played.
func Per100(total float64, gamesPlayed int) float64 {
	return Round1(Div(total*100, float64(gamesPlayed)))
}

// EfficiencyTotal returns the season-total efficiency: positive contributions
// minus missed shots and turnovers.
func EfficiencyTotal(points, reboundsOff, reboundsDef, assists, steals, blocks, fgAttempted, fgMade, ftAttempted, ftMade, turnovers int) int {
	positive := points + reboundsOff + reboundsDef + assists + steals + blocks
	negative := (fgAttempted - fgMade) + (ftAttempted - ftMade) + turnovers
	return positive - negative
}

// Efficiency returns the per-game efficiency rating.
func Efficiency(points, reboundsOff, reboundsDef, assists, steals, blocks, fgAttempted, fgMade, ftAttempted, ftMade, turnovers, gamesPlayed int) float64 {
	total := EfficiencyTotal(points, reboundsOff, reboundsDef, assists, steals, blocks, fgAttempted, fgMade, ftAttempted, ftMade, turnovers)
	return PerGame(float64(total), gamesPlayed)
}

// shootingPossessions estimates the possessions a player ended with a shot.
func shootingPossessions(fgAttempted, ftAttempted int) float64 {
	return float64(fgAttempted) + freeThrowWeight*float64(ftAttempted)
}

// TrueShootingPercentage weighs free throws alongside field goals.
func TrueShootingPercentage(points, fgAttempted, ftAttempted int) float64 {
	return Round1(Div(float64(points), 2*shootingPossessions(fgAttempted, ftAttempted)) * 100)
}

// UsageRate estimates the share of team possessions a player used while on
// the court.
func UsageRate(fgAttempted, ftAttempted, turnovers, assists int, minutes float64) float64 {
	used := shootingPossessions(fgAttempted, ftAttempted) + float64(turnovers)
	den := minutes * (used + float64(assists))
	return Round1(Div(used*minutesPerGame*playersOnCourt, den) * 100)
}

// AssistRatio returns assists per hundred court-fifths of playing time.
func AssistRatio(assists int, minutes float64, gamesPlayed int) float64 {
	return Round1(Div(float64(assists)*100, minutes/playersOnCourt*float64(gamesPlayed)))
}

// TurnoverRate returns turnovers per hundred used possessions.
func TurnoverRate(turnovers, fgAttempted, ftAttempted int) float64 {
	den := shootingPossessions(fgAttempted, ftAttempted) + float64(turnovers)
	return Round1(Div(float64(turnovers)*100, den))
}

// WinPercentage returns wins as a percentage of games played.
func WinPercentage(wins, gamesPlayed int) float64 {
	return Round1(Div(float64(wins), float64(gamesPlayed)) * 100)
}

// GamesBehind returns how many games a team trails a leader by.
func GamesBehind(leaderWins, leaderLosses, wins, losses int) float64 {
	return float64((leaderWins-wins)+(losses-leaderLosses)) / 2
}
