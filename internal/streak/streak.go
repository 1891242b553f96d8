// Package streak tracks consecutive win and loss runs for a team.
package streak

import (
	"strconv"
	"strings"
)

// An Outcome is the result of a single game from one team's perspective.
type Outcome byte

// Game outcomes.
const (
	Win  Outcome = 'W'
	Loss Outcome = 'L'
)

// OutcomeOf returns Win if won is true, otherwise Loss.
func OutcomeOf(won bool) Outcome {
	if won {
		return Win
	}
	return Loss
}

// Kind is the type of streak a team is on.
type Kind string

// Streak kinds. Neutral is only the state before a team's first game.
const (
	Neutral Kind = "neutral"
	Winning Kind = "winning"
	Losing  Kind = "losing"
)

// A Streak is a team's current run plus its historical extremes.
type Streak struct {
	Kind      Kind
	Length    int
	BestWin   int // Longest winning run observed. Never decreases.
	WorstLoss int // Longest losing run observed. Never decreases.
}

// New returns the initial, neutral streak.
func New() Streak {
	return Streak{Kind: Neutral}
}

// Record returns the streak after a game with the supplied outcome. Games
// must be recorded in chronological order.
func (s Streak) Record(o Outcome) Streak {
	switch o {
	case Win:
		if s.Kind == Winning {
			s.Length++
		} else {
			s.Kind, s.Length = Winning, 1
		}
		s.BestWin = max(s.BestWin, s.Length)
	case Loss:
		if s.Kind == Losing {
			s.Length++
		} else {
			s.Kind, s.Length = Losing, 1
		}
		s.WorstLoss = max(s.WorstLoss, s.Length)
	}
	return s
}

// Replay folds a chronological sequence of outcomes into a streak, starting
// from neutral.
func Replay(outcomes ...Outcome) Streak {
	s := New()
	for _, o := range outcomes {
		s = s.Record(o)
	}
	return s
}

// String returns a compact representation such as "W3", "L1" or "-".
func (s Streak) String() string {
	switch s.Kind {
	case Winning:
		return "W" + strconv.Itoa(s.Length)
	case Losing:
		return "L" + strconv.Itoa(s.Length)
	default:
		return "-"
	}
}

// Form is a bounded sequence of recent outcomes, most recent last. It is
// stored as a string of 'W' and 'L' characters.
type Form string

// Push appends an outcome, keeping at most the n most recent.
func (f Form) Push(o Outcome, n int) Form {
	s := string(f) + string(rune(o))
	if len(s) > n {
		s = s[len(s)-n:]
	}
	return Form(s)
}

// Wins returns the number of wins in the form.
func (f Form) Wins() int {
	return strings.Count(string(f), string(rune(Win)))
}

// Losses returns the number of losses in the form.
func (f Form) Losses() int {
	return strings.Count(string(f), string(rune(Loss)))
}

// Record returns the form as a "W-L" record, e.g. "7-3".
func (f Form) Record() string {
	return strconv.Itoa(f.Wins()) + "-" + strconv.Itoa(f.Losses())
}
