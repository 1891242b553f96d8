package aggregate

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/negz/hoops/internal/db"
	"github.com/negz/hoops/internal/streak"
)

const season = "2024-2025"

type MockPublisher struct {
	MockGameApplied  func(ctx context.Context, g db.Game) error
	MockGameReversed func(ctx context.Context, g db.Game) error
}

func (m *MockPublisher) GameApplied(ctx context.Context, g db.Game) error {
	return m.MockGameApplied(ctx, g)
}

func (m *MockPublisher) GameReversed(ctx context.Context, g db.Game) error {
	return m.MockGameReversed(ctx, g)
}

type MockStore struct {
	MockInTx func(ctx context.Context, fn func(db.Tx) error) error
}

func (m *MockStore) InTx(ctx context.Context, fn func(db.Tx) error) error {
	return m.MockInTx(ctx, fn)
}

// league is a small registered league.
type league struct {
	store *db.SQLiteStore
	a     db.Team // East/Atlantic, registered for the season.
	b     db.Team // East/Atlantic, registered for the season.
	c     db.Team // West/Pacific, registered for the season.
	d     db.Team // West/Pacific, not registered for the season.
	alice int64   // Plays for A, registered for the season.
	bob   int64   // Plays for B, not registered for the season.
}

func newLeague(t *testing.T) league {
	t.Helper()

	ctx := context.Background()
	s, err := db.Open(ctx, ":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	if err := s.Init(ctx); err != nil {
		t.Fatalf("Init: %v", err)
	}

	l := league{
		store: s,
		a:     db.Team{Key: "A", Name: "Alphas", Conference: "East", Division: "Atlantic"},
		b:     db.Team{Key: "B", Name: "Bravos", Conference: "East", Division: "Atlantic"},
		c:     db.Team{Key: "C", Name: "Charlies", Conference: "West", Division: "Pacific"},
		d:     db.Team{Key: "D", Name: "Deltas", Conference: "West", Division: "Pacific"},
	}
	for _, tm := range []*db.Team{&l.a, &l.b, &l.c, &l.d} {
		tm.ID, err = s.RegisterTeam(ctx, *tm)
		if err != nil {
			t.Fatalf("RegisterTeam %s: %v", tm.Key, err)
		}
	}
	for _, tm := range []db.Team{l.a, l.b, l.c} {
		if err := s.RegisterTeamSeason(ctx, tm.ID, season); err != nil {
			t.Fatalf("RegisterTeamSeason %s: %v", tm.Key, err)
		}
	}

	l.alice, err = s.RegisterPlayer(ctx, db.Player{Name: "Alice", TeamID: l.a.ID})
	if err != nil {
		t.Fatalf("RegisterPlayer Alice: %v", err)
	}
	if err := s.RegisterPlayerSeason(ctx, l.alice, season); err != nil {
		t.Fatalf("RegisterPlayerSeason Alice: %v", err)
	}
	l.bob, err = s.RegisterPlayer(ctx, db.Player{Name: "Bob", TeamID: l.b.ID})
	if err != nil {
		t.Fatalf("RegisterPlayer Bob: %v", err)
	}

	return l
}

func (l league) game(id string, home, away db.Team, homeScore, awayScore int) db.Game {
	conf, div := Classify(home, away)
	return db.Game{
		ID:             id,
		Season:         season,
		Date:           "2024-10-22",
		HomeTeamID:     home.ID,
		AwayTeamID:     away.ID,
		HomeScore:      homeScore,
		AwayScore:      awayScore,
		State:          db.GameFinished,
		ConferenceGame: conf,
		DivisionGame:   div,
	}
}

func (l league) record(t *testing.T, team db.Team) db.TeamSeasonRecord {
	t.Helper()
	r, err := l.store.GetTeamRecord(context.Background(), team.ID, season)
	if err != nil {
		t.Fatalf("GetTeamRecord %s: %v", team.Key, err)
	}
	return r
}

func TestApplyFinishedGameScenarios(t *testing.T) {
	ctx := context.Background()
	l := newLeague(t)
	e := NewEngine(l.store)

	// A beats B at home, 110-105.
	if err := e.ApplyFinishedGame(ctx, l.game("g1", l.a, l.b, 110, 105)); err != nil {
		t.Fatalf("ApplyFinishedGame(g1): %v", err)
	}

	wantA := db.TeamSeasonRecord{
		TeamID:           l.a.ID,
		Season:           season,
		Team:             l.a,
		GamesPlayed:      1,
		Wins:             1,
		HomeWins:         1,
		PointsFor:        110,
		PointsAgainst:    105,
		Streak:           streak.Streak{Kind: streak.Winning, Length: 1, BestWin: 1},
		LastFive:         "W",
		LastTen:          "W",
		ConferenceRecord: db.WinLoss{Wins: 1},
		DivisionRecord:   db.WinLoss{Wins: 1},
		ConferenceRank:   1,
		DivisionRank:     1,
		OverallRank:      1,
	}
	if diff := cmp.Diff(wantA, l.record(t, l.a)); diff != "" {
		t.Errorf("\nA should record a home win\nApplyFinishedGame(g1): -want, +got:\n%s", diff)
	}

	wantB := db.TeamSeasonRecord{
		TeamID:           l.b.ID,
		Season:           season,
		Team:             l.b,
		GamesPlayed:      1,
		Losses:           1,
		AwayLosses:       1,
		PointsFor:        105,
		PointsAgainst:    110,
		Streak:           streak.Streak{Kind: streak.Losing, Length: 1, WorstLoss: 1},
		LastFive:         "L",
		LastTen:          "L",
		ConferenceRecord: db.WinLoss{Losses: 1},
		DivisionRecord:   db.WinLoss{Losses: 1},
		ConferenceRank:   2,
		DivisionRank:     2,
		OverallRank:      3,
	}
	if diff := cmp.Diff(wantB, l.record(t, l.b)); diff != "" {
		t.Errorf("\nB should record an away loss\nApplyFinishedGame(g1): -want, +got:\n%s", diff)
	}

	// A then loses away at C, 90-95.
	if err := e.ApplyFinishedGame(ctx, l.game("g2", l.c, l.a, 95, 90)); err != nil {
		t.Fatalf("ApplyFinishedGame(g2): %v", err)
	}

	got := l.record(t, l.a)
	want := streak.Streak{Kind: streak.Losing, Length: 1, BestWin: 1, WorstLoss: 1}
	if diff := cmp.Diff(want, got.Streak); diff != "" {
		t.Errorf("\nA's best win streak should survive a loss\nApplyFinishedGame(g2): -want, +got:\n%s", diff)
	}
	if got.Wins != 1 || got.Losses != 1 || got.AwayLosses != 1 {
		t.Errorf("ApplyFinishedGame(g2): want A 1-1 with an away loss, got %+v", got)
	}
	if got.ConferenceRecord != (db.WinLoss{Wins: 1}) {
		t.Errorf("ApplyFinishedGame(g2): an inter-conference game should not change A's conference record, got %s", got.ConferenceRecord)
	}
}

func TestApplyFinishedGameErrors(t *testing.T) {
	ctx := context.Background()

	type want struct {
		err error
	}

	cases := map[string]struct {
		reason string
		game   func(l league) db.Game
		want   want
	}{
		"NotFinished": {
			reason: "Games that have not finished cannot be applied.",
			game: func(l league) db.Game {
				g := l.game("g", l.a, l.b, 50, 40)
				g.State = db.GameInProgress
				return g
			},
			want: want{err: ErrInvalidGameState},
		},
		"Tied": {
			reason: "Tied final scores are rejected.",
			game:   func(l league) db.Game { return l.game("g", l.a, l.b, 100, 100) },
			want:   want{err: ErrInvalidGameState},
		},
		"NegativeScore": {
			reason: "Negative scores are rejected.",
			game:   func(l league) db.Game { return l.game("g", l.a, l.b, -1, 100) },
			want:   want{err: ErrInvalidGameState},
		},
		"SameTeam": {
			reason: "A team cannot play itself.",
			game:   func(l league) db.Game { return l.game("g", l.a, l.a, 101, 100) },
			want:   want{err: ErrInvalidGameState},
		},
		"UnregisteredTeam": {
			reason: "Teams without a season record cannot have games applied.",
			game:   func(l league) db.Game { return l.game("g", l.a, l.d, 101, 100) },
			want:   want{err: ErrUnknownTeam},
		},
		"Duplicate": {
			reason: "A game already applied cannot be applied again.",
			game:   func(l league) db.Game { return l.game("applied", l.b, l.c, 99, 98) },
			want:   want{err: ErrDuplicateApplication},
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			l := newLeague(t)
			e := NewEngine(l.store)

			if err := e.ApplyFinishedGame(ctx, l.game("applied", l.b, l.c, 99, 98)); err != nil {
				t.Fatalf("ApplyFinishedGame(applied): %v", err)
			}
			before := []db.TeamSeasonRecord{l.record(t, l.a), l.record(t, l.b), l.record(t, l.c)}

			err := e.ApplyFinishedGame(ctx, tc.game(l))
			if diff := cmp.Diff(tc.want.err, err, cmpopts.EquateErrors()); diff != "" {
				t.Errorf("\n%s\nApplyFinishedGame(...): -want error, +got error:\n%s", tc.reason, diff)
			}

			after := []db.TeamSeasonRecord{l.record(t, l.a), l.record(t, l.b), l.record(t, l.c)}
			if diff := cmp.Diff(before, after); diff != "" {
				t.Errorf("\n%s\nApplyFinishedGame(...): records changed on error: -before, +after:\n%s", tc.reason, diff)
			}

			applied, err := l.store.GameApplied(ctx, "g")
			if err != nil {
				t.Fatalf("GameApplied(...): %v", err)
			}
			if applied {
				t.Errorf("\n%s\nApplyFinishedGame(...): rejected game was recorded as applied", tc.reason)
			}
		})
	}
}

func TestApplyFinishedGameStoreError(t *testing.T) {
	errBoom := errors.New("boom")
	e := NewEngine(&MockStore{
		MockInTx: func(_ context.Context, _ func(db.Tx) error) error { return errBoom },
	})

	g := db.Game{ID: "g", Season: season, HomeTeamID: 1, AwayTeamID: 2, HomeScore: 2, AwayScore: 1, State: db.GameFinished}
	if err := e.ApplyFinishedGame(context.Background(), g); !errors.Is(err, errBoom) {
		t.Errorf("ApplyFinishedGame(...): want %v, got %v", errBoom, err)
	}
}

func TestRecordInvariants(t *testing.T) {
	ctx := context.Background()
	l := newLeague(t)
	e := NewEngine(l.store)

	games := []db.Game{
		l.game("g1", l.a, l.b, 101, 99),
		l.game("g2", l.b, l.c, 88, 90),
		l.game("g3", l.c, l.a, 120, 118),
		l.game("g4", l.a, l.c, 99, 80),
		l.game("g5", l.b, l.a, 100, 97),
		l.game("g6", l.c, l.b, 70, 71),
		l.game("g7", l.a, l.b, 85, 84),
	}

	for _, g := range games {
		if err := e.ApplyFinishedGame(ctx, g); err != nil {
			t.Fatalf("ApplyFinishedGame(%s): %v", g.ID, err)
		}

		overall := map[int]bool{}
		for _, tm := range []db.Team{l.a, l.b, l.c} {
			r := l.record(t, tm)
			if r.Wins+r.Losses != r.GamesPlayed {
				t.Errorf("after %s: %s wins+losses = %d, games played = %d", g.ID, tm.Key, r.Wins+r.Losses, r.GamesPlayed)
			}
			if r.HomeWins+r.HomeLosses+r.AwayWins+r.AwayLosses != r.GamesPlayed {
				t.Errorf("after %s: %s home+away = %d, games played = %d", g.ID, tm.Key, r.HomeWins+r.HomeLosses+r.AwayWins+r.AwayLosses, r.GamesPlayed)
			}
			if (r.Streak.Kind == streak.Neutral) != (r.GamesPlayed == 0) {
				t.Errorf("after %s: %s streak is %s with %d games played", g.ID, tm.Key, r.Streak.Kind, r.GamesPlayed)
			}
			overall[r.OverallRank] = true
		}
		if diff := cmp.Diff(map[int]bool{1: true, 2: true, 3: true}, overall); diff != "" {
			t.Errorf("after %s: overall ranks should be a permutation of 1-3: -want, +got:\n%s", g.ID, diff)
		}
	}

	// Replaying a team's games from scratch must match the incremental record.
	for _, tm := range []db.Team{l.a, l.b, l.c} {
		r := l.record(t, tm)
		tg, err := l.store.ListTeamGames(ctx, season, tm.ID)
		if err != nil {
			t.Fatalf("ListTeamGames(...): %v", err)
		}
		if diff := cmp.Diff(r, Replay(r, tg)); diff != "" {
			t.Errorf("%s: Replay(...) differs from incremental record: -want, +got:\n%s", tm.Key, diff)
		}
	}
}

func TestReverseGame(t *testing.T) {
	ctx := context.Background()
	l := newLeague(t)

	var reversed []string
	e := NewEngine(l.store, WithPublisher(&MockPublisher{
		MockGameApplied: func(_ context.Context, _ db.Game) error { return nil },
		MockGameReversed: func(_ context.Context, g db.Game) error {
			reversed = append(reversed, g.ID)
			return nil
		},
	}))

	g1 := l.game("g1", l.a, l.b, 110, 105)
	g2 := l.game("g2", l.c, l.a, 95, 90)
	for _, g := range []db.Game{g1, g2} {
		if err := e.ApplyFinishedGame(ctx, g); err != nil {
			t.Fatalf("ApplyFinishedGame(%s): %v", g.ID, err)
		}
	}

	lines := map[string]db.BoxScoreLine{
		"g1": {PlayerID: l.alice, Started: true, Minutes: 35, Points: 30, FieldGoalsAttempted: 20, FieldGoalsMade: 12, Assists: 10},
		"g2": {PlayerID: l.alice, Minutes: 20, Points: 12, FieldGoalsAttempted: 10, FieldGoalsMade: 5, Steals: 2},
	}
	for _, id := range []string{"g1", "g2"} {
		if err := e.RecordPlayerGame(ctx, id, season, lines[id]); err != nil {
			t.Fatalf("RecordPlayerGame(%s): %v", id, err)
		}
	}

	got, err := e.ReverseGame(ctx, "g1")
	if err != nil {
		t.Fatalf("ReverseGame(g1): %v", err)
	}
	if diff := cmp.Diff(g1, got); diff != "" {
		t.Errorf("ReverseGame(g1): -want, +got:\n%s", diff)
	}

	wantA := db.TeamSeasonRecord{
		TeamID:         l.a.ID,
		Season:         season,
		Team:           l.a,
		GamesPlayed:    1,
		Losses:         1,
		AwayLosses:     1,
		PointsFor:      90,
		PointsAgainst:  95,
		Streak:         streak.Streak{Kind: streak.Losing, Length: 1, WorstLoss: 1},
		LastFive:       "L",
		LastTen:        "L",
		ConferenceRank: 2,
		DivisionRank:   2,
		OverallRank:    3,
	}
	if diff := cmp.Diff(wantA, l.record(t, l.a)); diff != "" {
		t.Errorf("\nReversing g1 should leave A as if only g2 was played\nReverseGame(g1): -want, +got:\n%s", diff)
	}

	wantB := db.TeamSeasonRecord{
		TeamID:         l.b.ID,
		Season:         season,
		Team:           l.b,
		Streak:         streak.New(),
		ConferenceRank: 1,
		DivisionRank:   1,
		OverallRank:    2,
	}
	if diff := cmp.Diff(wantB, l.record(t, l.b)); diff != "" {
		t.Errorf("\nReversing B's only game should return it to neutral\nReverseGame(g1): -want, +got:\n%s", diff)
	}

	if diff := cmp.Diff([]string{"g1"}, reversed); diff != "" {
		t.Errorf("ReverseGame(g1): published reversals: -want, +got:\n%s", diff)
	}

	wantAlice := db.PlayerSeasonRecord{
		PlayerID:            l.alice,
		Season:              season,
		Player:              db.Player{ID: l.alice, Name: "Alice", TeamID: l.a.ID},
		TeamKey:             "A",
		GamesPlayed:         1,
		Minutes:             20,
		Points:              12,
		FieldGoalsAttempted: 10,
		FieldGoalsMade:      5,
		Steals:              2,
	}
	if diff := cmp.Diff(wantAlice, l.playerRecord(t, l.alice)); diff != "" {
		t.Errorf("\nReversing g1 should remove Alice's g1 line\nReverseGame(g1): -want, +got:\n%s", diff)
	}

	if err := e.ApplyFinishedGame(ctx, g1); err != nil {
		t.Fatalf("ApplyFinishedGame(g1): a reversed game should be applicable again: %v", err)
	}

	corrected := lines["g1"]
	corrected.Points = 28
	if err := e.RecordPlayerGame(ctx, "g1", season, corrected); err != nil {
		t.Fatalf("RecordPlayerGame(g1): a corrected line for a reapplied game should be accepted: %v", err)
	}
	if r := l.playerRecord(t, l.alice); r.GamesPlayed != 2 || r.Points != 40 || r.DoubleDoubles != 1 {
		t.Errorf("RecordPlayerGame(g1): want Alice with 2 games, 40 points, 1 double-double, got %d games, %d points, %d double-doubles", r.GamesPlayed, r.Points, r.DoubleDoubles)
	}

	if _, err := e.ReverseGame(ctx, "nope"); !errors.Is(err, ErrGameNotFound) {
		t.Errorf("ReverseGame(nope): want ErrGameNotFound, got %v", err)
	}
}

func (l league) playerRecord(t *testing.T, id int64) db.PlayerSeasonRecord {
	t.Helper()
	r, err := l.store.GetPlayerRecord(context.Background(), id, season)
	if err != nil {
		t.Fatalf("GetPlayerRecord %d: %v", id, err)
	}
	return r
}

func TestPublishFailureDoesNotFailApply(t *testing.T) {
	ctx := context.Background()
	l := newLeague(t)

	var published []string
	e := NewEngine(l.store, WithPublisher(&MockPublisher{
		MockGameApplied: func(_ context.Context, g db.Game) error {
			published = append(published, g.ID)
			return errors.New("redis is down")
		},
	}))

	if err := e.ApplyFinishedGame(ctx, l.game("g1", l.a, l.b, 110, 105)); err != nil {
		t.Fatalf("ApplyFinishedGame(...): %v", err)
	}
	if diff := cmp.Diff([]string{"g1"}, published); diff != "" {
		t.Errorf("ApplyFinishedGame(...): published: -want, +got:\n%s", diff)
	}
	if r := l.record(t, l.a); r.Wins != 1 {
		t.Errorf("ApplyFinishedGame(...): want A with 1 win despite publish failure, got %d", r.Wins)
	}
}

func TestRecordPlayerGame(t *testing.T) {
	ctx := context.Background()

	tripleDouble := db.BoxScoreLine{
		Started:             true,
		Minutes:             36.5,
		Points:              24,
		FieldGoalsAttempted: 18,
		FieldGoalsMade:      9,
		FreeThrowsAttempted: 6,
		FreeThrowsMade:      6,
		OffensiveRebounds:   2,
		DefensiveRebounds:   9,
		Assists:             10,
		Turnovers:           4,
		PlusMinus:           7,
	}

	type args struct {
		gameID string
		season string
		player func(l league) int64
		line   db.BoxScoreLine
	}
	type want struct {
		err error
	}

	cases := map[string]struct {
		reason string
		args   args
		want   want
	}{
		"MadeExceedsAttempted": {
			reason: "Lines with more shots made than attempted are rejected.",
			args: args{
				gameID: "g2",
				player: func(l league) int64 { return l.alice },
				line:   db.BoxScoreLine{FreeThrowsAttempted: 1, FreeThrowsMade: 2},
			},
			want: want{err: ErrInvalidStatLine},
		},
		"UnregisteredPlayer": {
			reason: "Players without a season record cannot have lines recorded.",
			args: args{
				gameID: "g2",
				player: func(l league) int64 { return l.bob },
			},
			want: want{err: ErrUnknownPlayer},
		},
		"GameNotApplied": {
			reason: "Lines can only be recorded for games that have been applied.",
			args: args{
				gameID: "never-applied",
				player: func(l league) int64 { return l.alice },
				line:   db.BoxScoreLine{Points: 40},
			},
			want: want{err: ErrGameNotFound},
		},
		"WrongSeason": {
			reason: "Lines must be recorded against the season the game was played in.",
			args: args{
				gameID: "g2",
				season: "1999-2000",
				player: func(l league) int64 { return l.alice },
				line:   db.BoxScoreLine{Points: 40},
			},
			want: want{err: ErrInvalidStatLine},
		},
		"Duplicate": {
			reason: "A player's line for a game is recorded at most once.",
			args: args{
				gameID: "g1",
				player: func(l league) int64 { return l.alice },
				line:   tripleDouble,
			},
			want: want{err: ErrDuplicateApplication},
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			l := newLeague(t)
			e := NewEngine(l.store)

			for _, g := range []db.Game{l.game("g1", l.a, l.b, 110, 105), l.game("g2", l.a, l.c, 99, 101)} {
				if err := e.ApplyFinishedGame(ctx, g); err != nil {
					t.Fatalf("ApplyFinishedGame(%s): %v", g.ID, err)
				}
			}

			first := tripleDouble
			first.PlayerID = l.alice
			if err := e.RecordPlayerGame(ctx, "g1", season, first); err != nil {
				t.Fatalf("RecordPlayerGame(g1): %v", err)
			}

			s := tc.args.season
			if s == "" {
				s = season
			}
			line := tc.args.line
			line.PlayerID = tc.args.player(l)
			err := e.RecordPlayerGame(ctx, tc.args.gameID, s, line)
			if diff := cmp.Diff(tc.want.err, err, cmpopts.EquateErrors()); diff != "" {
				t.Errorf("\n%s\nRecordPlayerGame(...): -want error, +got error:\n%s", tc.reason, diff)
			}

			r, err := l.store.GetPlayerRecord(ctx, l.alice, season)
			if err != nil {
				t.Fatalf("GetPlayerRecord(...): %v", err)
			}
			if r.GamesPlayed != 1 || r.Points != 24 {
				t.Errorf("\n%s\nRecordPlayerGame(...): rejected line changed Alice's record: %+v", tc.reason, r)
			}
		})
	}
}

func TestAddLine(t *testing.T) {
	cases := map[string]struct {
		reason string
		line   db.BoxScoreLine
		want   db.PlayerSeasonRecord
	}{
		"Ordinary": {
			reason: "A line with one double digit category adds counters only.",
			line:   db.BoxScoreLine{Minutes: 12, Points: 10, Assists: 3, FieldGoalsAttempted: 8, FieldGoalsMade: 5},
			want:   db.PlayerSeasonRecord{GamesPlayed: 1, Minutes: 12, Points: 10, Assists: 3, FieldGoalsAttempted: 8, FieldGoalsMade: 5},
		},
		"DoubleDouble": {
			reason: "Two double digit categories make a double-double.",
			line:   db.BoxScoreLine{Started: true, Points: 12, OffensiveRebounds: 4, DefensiveRebounds: 6},
			want:   db.PlayerSeasonRecord{GamesPlayed: 1, GamesStarted: 1, Points: 12, OffensiveRebounds: 4, DefensiveRebounds: 6, DoubleDoubles: 1},
		},
		"TripleDouble": {
			reason: "Three double digit categories make a triple-double, which is also a double-double.",
			line:   db.BoxScoreLine{Points: 10, Assists: 10, Steals: 10},
			want:   db.PlayerSeasonRecord{GamesPlayed: 1, Points: 10, Assists: 10, Steals: 10, DoubleDoubles: 1, TripleDoubles: 1},
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			got := AddLine(db.PlayerSeasonRecord{}, tc.line)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("\n%s\nAddLine(...): -want, +got:\n%s", tc.reason, diff)
			}
		})
	}
}

func TestReplayLines(t *testing.T) {
	r := db.PlayerSeasonRecord{
		PlayerID:    1,
		Season:      season,
		Player:      db.Player{ID: 1, Name: "Alice"},
		TeamKey:     "A",
		GamesPlayed: 9,
		Points:      999,
	}
	lines := []db.BoxScoreLine{
		{Points: 10, Assists: 10},
		{Started: true, Points: 4},
	}

	want := db.PlayerSeasonRecord{
		PlayerID:      1,
		Season:        season,
		Player:        db.Player{ID: 1, Name: "Alice"},
		TeamKey:       "A",
		GamesPlayed:   2,
		GamesStarted:  1,
		Points:        14,
		Assists:       10,
		DoubleDoubles: 1,
	}
	if diff := cmp.Diff(want, ReplayLines(r, lines)); diff != "" {
		t.Errorf("ReplayLines(...): -want, +got:\n%s", diff)
	}
}

func TestClassify(t *testing.T) {
	cases := map[string]struct {
		home, away     db.Team
		wantConference bool
		wantDivision   bool
	}{
		"SameDivision": {
			home:           db.Team{Conference: "East", Division: "Atlantic"},
			away:           db.Team{Conference: "East", Division: "Atlantic"},
			wantConference: true,
			wantDivision:   true,
		},
		"SameConference": {
			home:           db.Team{Conference: "East", Division: "Atlantic"},
			away:           db.Team{Conference: "East", Division: "Central"},
			wantConference: true,
		},
		"InterConference": {
			home: db.Team{Conference: "East", Division: "Atlantic"},
			away: db.Team{Conference: "West", Division: "Pacific"},
		},
		"Unassigned": {
			home: db.Team{},
			away: db.Team{},
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			conf, div := Classify(tc.home, tc.away)
			if conf != tc.wantConference || div != tc.wantDivision {
				t.Errorf("Classify(...): want (%t, %t), got (%t, %t)", tc.wantConference, tc.wantDivision, conf, div)
			}
		})
	}
}
