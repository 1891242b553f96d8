package aggregate

import (
	"fmt"

	"github.com/negz/hoops/internal/db"
	"github.com/negz/hoops/internal/streak"
)

// Outcome window sizes.
const (
	lastFive = 5
	lastTen  = 10
)

// Validate returns ErrInvalidGameState if a game cannot be aggregated.
func Validate(g db.Game) error {
	switch {
	case g.ID == "":
		return fmt.Errorf("%w: missing game id", ErrInvalidGameState)
	case g.Season == "":
		return fmt.Errorf("%w: game %s has no season", ErrInvalidGameState, g.ID)
	case g.State != db.GameFinished:
		return fmt.Errorf("%w: game %s is %s, not %s", ErrInvalidGameState, g.ID, g.State, db.GameFinished)
	case g.HomeScore < 0 || g.AwayScore < 0:
		return fmt.Errorf("%w: game %s has a negative score", ErrInvalidGameState, g.ID)
	case g.HomeTeamID == g.AwayTeamID:
		return fmt.Errorf("%w: game %s has team %d on both sides", ErrInvalidGameState, g.ID, g.HomeTeamID)
	case g.HomeScore == g.AwayScore:
		return fmt.Errorf("%w: game %s is tied %d-%d", ErrInvalidGameState, g.ID, g.HomeScore, g.AwayScore)
	}
	return nil
}

// Classify reports whether a game between two teams is a conference game
// and whether it is a division game.
func Classify(home, away db.Team) (conference, division bool) {
	conference = home.Conference != "" && home.Conference == away.Conference
	division = conference && home.Division != "" && home.Division == away.Division
	return conference, division
}

// Apply returns both teams' records after a finished game. It does not
// validate the game.
func Apply(home, away db.TeamSeasonRecord, g db.Game) (db.TeamSeasonRecord, db.TeamSeasonRecord) {
	return applyOne(home, g, true), applyOne(away, g, false)
}

// Replay rebuilds a team's record from scratch by applying games in order.
// Identity and stored ranks are preserved.
func Replay(r db.TeamSeasonRecord, games []db.Game) db.TeamSeasonRecord {
	out := db.TeamSeasonRecord{
		TeamID:         r.TeamID,
		Season:         r.Season,
		Team:           r.Team,
		Streak:         streak.New(),
		ConferenceRank: r.ConferenceRank,
		DivisionRank:   r.DivisionRank,
		OverallRank:    r.OverallRank,
	}
	for _, g := range games {
		if !g.Involves(r.TeamID) {
			continue
		}
		out = applyOne(out, g, g.HomeTeamID == r.TeamID)
	}
	return out
}

func applyOne(r db.TeamSeasonRecord, g db.Game, home bool) db.TeamSeasonRecord {
	pf, pa := g.HomeScore, g.AwayScore
	if !home {
		pf, pa = pa, pf
	}
	won := pf > pa

	r.GamesPlayed++
	r.PointsFor += pf
	r.PointsAgainst += pa

	switch {
	case won && home:
		r.Wins++
		r.HomeWins++
	case won:
		r.Wins++
		r.AwayWins++
	case home:
		r.Losses++
		r.HomeLosses++
	default:
		r.Losses++
		r.AwayLosses++
	}

	o := streak.OutcomeOf(won)
	r.Streak = r.Streak.Record(o)
	r.LastFive = r.LastFive.Push(o, lastFive)
	r.LastTen = r.LastTen.Push(o, lastTen)

	if g.ConferenceGame {
		r.ConferenceRecord.Add(won)
	}
	if g.DivisionGame {
		r.DivisionRecord.Add(won)
	}

	return r
}

// AddLine returns a player's record after one game's box score line. It
// does not validate the line.
func AddLine(r db.PlayerSeasonRecord, l db.BoxScoreLine) db.PlayerSeasonRecord {
	r.GamesPlayed++
	if l.Started {
		r.GamesStarted++
	}
	r.Minutes += l.Minutes
	r.Points += l.Points
	r.FieldGoalsAttempted += l.FieldGoalsAttempted
	r.FieldGoalsMade += l.FieldGoalsMade
	r.ThreePointersAttempted += l.ThreePointersAttempted
	r.ThreePointersMade += l.ThreePointersMade
	r.FreeThrowsAttempted += l.FreeThrowsAttempted
	r.FreeThrowsMade += l.FreeThrowsMade
	r.OffensiveRebounds += l.OffensiveRebounds
	r.DefensiveRebounds += l.DefensiveRebounds
	r.Assists += l.Assists
	r.Steals += l.Steals
	r.Blocks += l.Blocks
	r.Turnovers += l.Turnovers
	r.PersonalFouls += l.PersonalFouls
	r.TechnicalFouls += l.TechnicalFouls
	r.PlusMinus += l.PlusMinus

	// A triple-double is also a double-double.
	switch n := doubleDigitCategories(l); {
	case n >= 3:
		r.TripleDoubles++
		r.DoubleDoubles++
	case n == 2:
		r.DoubleDoubles++
	}

	return r
}

// ReplayLines rebuilds a player's record from scratch by adding lines in
// order. Identity is preserved.
func ReplayLines(r db.PlayerSeasonRecord, lines []db.BoxScoreLine) db.PlayerSeasonRecord {
	out := db.PlayerSeasonRecord{
		PlayerID: r.PlayerID,
		Season:   r.Season,
		Player:   r.Player,
		TeamKey:  r.TeamKey,
	}
	for _, l := range lines {
		out = AddLine(out, l)
	}
	return out
}

func doubleDigitCategories(l db.BoxScoreLine) int {
	n := 0
	for _, v := range []int{l.Points, l.OffensiveRebounds + l.DefensiveRebounds, l.Assists, l.Steals, l.Blocks} {
		if v >= 10 {
			n++
		}
	}
	return n
}

// ValidateLine returns ErrInvalidStatLine if a box score line is impossible.
func ValidateLine(l db.BoxScoreLine) error {
	for _, c := range []struct {
		name            string
		made, attempted int
	}{
		{"field goals", l.FieldGoalsMade, l.FieldGoalsAttempted},
		{"three pointers", l.ThreePointersMade, l.ThreePointersAttempted},
		{"free throws", l.FreeThrowsMade, l.FreeThrowsAttempted},
	} {
		if c.made > c.attempted {
			return fmt.Errorf("%w: %d %s made of %d attempted", ErrInvalidStatLine, c.made, c.name, c.attempted)
		}
	}

	if l.ThreePointersAttempted > l.FieldGoalsAttempted || l.ThreePointersMade > l.FieldGoalsMade {
		return fmt.Errorf("%w: more three pointers than field goals", ErrInvalidStatLine)
	}

	for _, v := range []int{
		l.Points, l.FieldGoalsMade, l.ThreePointersMade, l.FreeThrowsMade,
		l.OffensiveRebounds, l.DefensiveRebounds, l.Assists, l.Steals, l.Blocks,
		l.Turnovers, l.PersonalFouls, l.TechnicalFouls,
	} {
		if v < 0 {
			return fmt.Errorf("%w: negative counter", ErrInvalidStatLine)
		}
	}
	if l.Minutes < 0 {
		return fmt.Errorf("%w: negative minutes", ErrInvalidStatLine)
	}

	return nil
}
