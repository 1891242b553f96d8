// Package standings ranks teams within the league, their conference and
// their division.
//
// Teams are ordered by win percentage. Teams with equal win percentage are
// separated by head-to-head wins among the tied teams, then point
// differential, then team name.
package standings

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/negz/hoops/internal/db"
	"github.com/negz/hoops/internal/metrics"
)

// ErrUnknownConference indicates no team in the season plays in the
// requested conference.
var ErrUnknownConference = errors.New("unknown conference")

// Store is the set of queries needed to build standings.
type Store interface {
	ListTeamRecords(ctx context.Context, season string) ([]db.TeamSeasonRecord, error)
	ListGames(ctx context.Context, season string) ([]db.Game, error)
}

// Kind is the kind of grouping a set of standings covers.
type Kind string

// Grouping kinds.
const (
	KindLeague     Kind = "league"
	KindConference Kind = "conference"
	KindDivision   Kind = "division"
)

// Entry is one team's row in a set of standings.
type Entry struct {
	Rank              int        `json:"rank"`
	Team              db.Team    `json:"team"`
	GamesPlayed       int        `json:"gamesPlayed"`
	Wins              int        `json:"wins"`
	Losses            int        `json:"losses"`
	WinPercentage     float64    `json:"winPercentage"`
	PointDifferential int        `json:"pointDifferential"`
	GamesBehind       float64    `json:"gamesBehind"`
	Home              db.WinLoss `json:"home"`
	Away              db.WinLoss `json:"away"`
	Conference        db.WinLoss `json:"conference"`
	Division          db.WinLoss `json:"division"`
	Streak            string     `json:"streak"`
	LastTen           string     `json:"lastTen"`
}

// Group is a ranked set of standings.
type Group struct {
	Kind       Kind    `json:"kind"`
	Name       string  `json:"name"`
	Conference string  `json:"conference,omitempty"` // Set for divisions.
	Entries    []Entry `json:"entries"`
}

// Table is every grouping of a season's standings.
type Table struct {
	Season      string  `json:"season"`
	League      Group   `json:"league"`
	Conferences []Group `json:"conferences"`
	Divisions   []Group `json:"divisions"`
}

// Ranks is a team's position in each of its groupings.
type Ranks struct {
	Conference int
	Division   int
	Overall    int
}

// Option configures a standings query.
type Option func(*Options)

// Options holds optional parameters for a standings query.
type Options struct {
	Conference string
}

// InConference restricts conference and division standings to a single
// conference.
func InConference(c string) Option {
	return func(o *Options) {
		o.Conference = c
	}
}

// Get builds a season's standings from stored records.
func Get(ctx context.Context, s Store, season string, opts ...Option) (*Table, error) {
	o := &Options{}
	for _, fn := range opts {
		fn(o)
	}

	records, err := s.ListTeamRecords(ctx, season)
	if err != nil {
		return nil, fmt.Errorf("load team records: %w", err)
	}

	games, err := s.ListGames(ctx, season)
	if err != nil {
		return nil, fmt.Errorf("load games: %w", err)
	}

	t := Build(season, records, games)
	if o.Conference == "" {
		return &t, nil
	}

	conferences := filter(t.Conferences, func(g Group) bool { return g.Name == o.Conference })
	if len(conferences) == 0 {
		return nil, fmt.Errorf("%s: %w", o.Conference, ErrUnknownConference)
	}
	t.Conferences = conferences
	t.Divisions = filter(t.Divisions, func(g Group) bool { return g.Conference == o.Conference })

	return &t, nil
}

// Build ranks a season snapshot. It never modifies its inputs.
func Build(season string, records []db.TeamSeasonRecord, games []db.Game) Table {
	t := Table{
		Season: season,
		League: rankGroup(KindLeague, "", records, games),
	}

	conferences := make(map[string][]db.TeamSeasonRecord)
	divisions := make(map[division][]db.TeamSeasonRecord)
	for _, r := range records {
		conferences[r.Team.Conference] = append(conferences[r.Team.Conference], r)
		d := division{conference: r.Team.Conference, name: r.Team.Division}
		divisions[d] = append(divisions[d], r)
	}

	for _, name := range sortedKeys(conferences) {
		t.Conferences = append(t.Conferences, rankGroup(KindConference, name, conferences[name], games))
	}
	for _, d := range sortedDivisions(divisions) {
		g := rankGroup(KindDivision, d.name, divisions[d], games)
		g.Conference = d.conference
		t.Divisions = append(t.Divisions, g)
	}

	return t
}

// A division is identified by its name within a conference. Two conferences
// may use the same division name.
type division struct {
	conference string
	name       string
}

func sortedDivisions(m map[division][]db.TeamSeasonRecord) []division {
	keys := make([]division, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b division) int {
		if c := cmp.Compare(a.conference, b.conference); c != 0 {
			return c
		}
		return cmp.Compare(a.name, b.name)
	})
	return keys
}

// Rank returns every team's conference, division and overall rank.
func Rank(records []db.TeamSeasonRecord, games []db.Game) map[int64]Ranks {
	t := Build("", records, games)

	ranks := make(map[int64]Ranks, len(records))
	for _, e := range t.League.Entries {
		r := ranks[e.Team.ID]
		r.Overall = e.Rank
		ranks[e.Team.ID] = r
	}
	for _, g := range t.Conferences {
		for _, e := range g.Entries {
			r := ranks[e.Team.ID]
			r.Conference = e.Rank
			ranks[e.Team.ID] = r
		}
	}
	for _, g := range t.Divisions {
		for _, e := range g.Entries {
			r := ranks[e.Team.ID]
			r.Division = e.Rank
			ranks[e.Team.ID] = r
		}
	}
	return ranks
}

func rankGroup(k Kind, name string, records []db.TeamSeasonRecord, games []db.Game) Group {
	sorted := slices.Clone(records)
	Sort(sorted, games)

	g := Group{Kind: k, Name: name, Entries: make([]Entry, 0, len(sorted))}
	for i, r := range sorted {
		leader := sorted[0]
		g.Entries = append(g.Entries, Entry{
			Rank:              i + 1,
			Team:              r.Team,
			GamesPlayed:       r.GamesPlayed,
			Wins:              r.Wins,
			Losses:            r.Losses,
			WinPercentage:     metrics.WinPercentage(r.Wins, r.GamesPlayed),
			PointDifferential: r.PointDifferential(),
			GamesBehind:       metrics.GamesBehind(leader.Wins, leader.Losses, r.Wins, r.Losses),
			Home:              db.WinLoss{Wins: r.HomeWins, Losses: r.HomeLosses},
			Away:              db.WinLoss{Wins: r.AwayWins, Losses: r.AwayLosses},
			Conference:        r.ConferenceRecord,
			Division:          r.DivisionRecord,
			Streak:            r.Streak.String(),
			LastTen:           r.LastTen.Record(),
		})
	}
	return g
}

// Sort orders records in place, best first. Head-to-head wins only count
// games between teams tied on win percentage.
func Sort(records []db.TeamSeasonRecord, games []db.Game) {
	slices.SortFunc(records, func(a, b db.TeamSeasonRecord) int {
		if c := compareWinPercentage(a, b); c != 0 {
			return c
		}
		return compareIdentity(a, b)
	})

	start := 0
	for start < len(records) {
		end := start + 1
		for end < len(records) && compareWinPercentage(records[start], records[end]) == 0 {
			end++
		}

		if end-start > 1 {
			breakTie(records[start:end], games)
		}

		start = end
	}
}

func breakTie(tied []db.TeamSeasonRecord, games []db.Game) {
	group := make(map[int64]bool, len(tied))
	for _, r := range tied {
		group[r.TeamID] = true
	}

	h2h := make(map[int64]int, len(tied))
	for _, g := range games {
		if !group[g.HomeTeamID] || !group[g.AwayTeamID] {
			continue
		}
		if w := g.Winner(); w != 0 {
			h2h[w]++
		}
	}

	slices.SortStableFunc(tied, func(a, b db.TeamSeasonRecord) int {
		if c := cmp.Compare(h2h[b.TeamID], h2h[a.TeamID]); c != 0 {
			return c
		}
		if c := cmp.Compare(b.PointDifferential(), a.PointDifferential()); c != 0 {
			return c
		}
		return compareIdentity(a, b)
	})
}

// compareWinPercentage orders higher win percentage first without floating
// point error. A team with no games has a win percentage of zero.
func compareWinPercentage(a, b db.TeamSeasonRecord) int {
	agp, bgp := max(a.GamesPlayed, 1), max(b.GamesPlayed, 1)
	return cmp.Compare(b.Wins*agp, a.Wins*bgp)
}

func compareIdentity(a, b db.TeamSeasonRecord) int {
	if c := cmp.Compare(a.Team.Name, b.Team.Name); c != 0 {
		return c
	}
	return cmp.Compare(a.TeamID, b.TeamID)
}

func sortedKeys(m map[string][]db.TeamSeasonRecord) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func filter(groups []Group, keep func(Group) bool) []Group {
	var out []Group
	for _, g := range groups {
		if keep(g) {
			out = append(out, g)
		}
	}
	return out
}
