package archive

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/negz/hoops/internal/db"
)

type MockStore struct {
	MockRegisterTeam         func(ctx context.Context, t db.Team) (int64, error)
	MockRegisterPlayer       func(ctx context.Context, p db.Player) (int64, error)
	MockRegisterTeamSeason   func(ctx context.Context, teamID int64, season string) error
	MockRegisterPlayerSeason func(ctx context.Context, playerID int64, season string) error
}

func (m *MockStore) RegisterTeam(ctx context.Context, t db.Team) (int64, error) {
	return m.MockRegisterTeam(ctx, t)
}

func (m *MockStore) RegisterPlayer(ctx context.Context, p db.Player) (int64, error) {
	return m.MockRegisterPlayer(ctx, p)
}

func (m *MockStore) RegisterTeamSeason(ctx context.Context, teamID int64, season string) error {
	return m.MockRegisterTeamSeason(ctx, teamID, season)
}

func (m *MockStore) RegisterPlayerSeason(ctx context.Context, playerID int64, season string) error {
	return m.MockRegisterPlayerSeason(ctx, playerID, season)
}

func TestLeagueLoad(t *testing.T) {
	errBoom := errors.New("boom")

	raw := leagueYAML{
		Teams: []teamYAML{
			{Key: "bos", Name: "Celtics", City: "Boston", Conference: "East", Division: "Atlantic"},
			{Key: "LAL", Name: "Lakers", City: "Los Angeles", Conference: "West", Division: "Pacific"},
		},
		Players: []playerYAML{
			{Name: "Alice", Team: "BOS", Position: "G", Number: 7},
			{Name: "Bob"},
		},
	}

	// recorder returns a store that assigns sequential IDs and records every
	// registration it receives.
	type registrations struct {
		teams         []db.Team
		players       []db.Player
		teamSeasons   []string
		playerSeasons []string
	}
	recorder := func(got *registrations) *MockStore {
		next := int64(0)
		return &MockStore{
			MockRegisterTeam: func(_ context.Context, tm db.Team) (int64, error) {
				got.teams = append(got.teams, tm)
				next++
				return next, nil
			},
			MockRegisterPlayer: func(_ context.Context, p db.Player) (int64, error) {
				got.players = append(got.players, p)
				next++
				return next, nil
			},
			MockRegisterTeamSeason: func(_ context.Context, id int64, season string) error {
				got.teamSeasons = append(got.teamSeasons, season)
				return nil
			},
			MockRegisterPlayerSeason: func(_ context.Context, id int64, season string) error {
				got.playerSeasons = append(got.playerSeasons, season)
				return nil
			},
		}
	}

	t.Run("Success", func(t *testing.T) {
		got := &registrations{}
		l := League{raw: raw}
		reg, err := l.Load(context.Background(), recorder(got), []string{"2023-2024", "2024-2025"})
		if err != nil {
			t.Fatalf("Load(...): %v", err)
		}

		wantTeams := []db.Team{
			{Key: "BOS", Name: "Celtics", City: "Boston", Conference: "East", Division: "Atlantic"},
			{Key: "LAL", Name: "Lakers", City: "Los Angeles", Conference: "West", Division: "Pacific"},
		}
		if diff := cmp.Diff(wantTeams, got.teams); diff != "" {
			t.Errorf("Load(...): -want teams, +got teams:\n%s", diff)
		}
		wantPlayers := []db.Player{
			{Name: "Alice", TeamID: 1, Position: "G", Number: 7},
			{Name: "Bob"},
		}
		if diff := cmp.Diff(wantPlayers, got.players); diff != "" {
			t.Errorf("Load(...): -want players, +got players:\n%s", diff)
		}
		if len(got.teamSeasons) != 4 || len(got.playerSeasons) != 4 {
			t.Errorf("Load(...): want 4 team and 4 player season registrations, got %d and %d", len(got.teamSeasons), len(got.playerSeasons))
		}

		wantReg := &Registry{
			Teams: map[string]db.Team{
				"BOS": {ID: 1, Key: "BOS", Name: "Celtics", City: "Boston", Conference: "East", Division: "Atlantic"},
				"LAL": {ID: 2, Key: "LAL", Name: "Lakers", City: "Los Angeles", Conference: "West", Division: "Pacific"},
			},
			Players: map[string]int64{"Alice": 3, "Bob": 4},
		}
		if diff := cmp.Diff(wantReg, reg); diff != "" {
			t.Errorf("Load(...): -want registry, +got registry:\n%s", diff)
		}
	})

	t.Run("UnknownTeam", func(t *testing.T) {
		l := League{raw: leagueYAML{Players: []playerYAML{{Name: "Carol", Team: "XXX"}}}}
		if _, err := l.Load(context.Background(), recorder(&registrations{}), nil); err == nil {
			t.Errorf("Load(...): want error for player on unknown team, got nil")
		}
	})

	t.Run("StoreError", func(t *testing.T) {
		s := recorder(&registrations{})
		s.MockRegisterTeamSeason = func(_ context.Context, _ int64, _ string) error { return errBoom }
		l := League{raw: raw}
		_, err := l.Load(context.Background(), s, []string{"2024-2025"})
		if diff := cmp.Diff(errBoom, err, cmpopts.EquateErrors()); diff != "" {
			t.Errorf("Load(...): -want error, +got error:\n%s", diff)
		}
	})
}

func TestGameTransform(t *testing.T) {
	reg := &Registry{
		Teams: map[string]db.Team{
			"BOS": {ID: 1, Key: "BOS", Conference: "East", Division: "Atlantic"},
			"NYK": {ID: 2, Key: "NYK", Conference: "East", Division: "Atlantic"},
			"LAL": {ID: 3, Key: "LAL", Conference: "West", Division: "Pacific"},
		},
	}

	type want struct {
		data GameData
		err  bool
	}

	cases := map[string]struct {
		reason string
		raw    gameJSON
		want   want
	}{
		"DivisionGame": {
			reason: "Teams in the same division should produce a conference and division game. A missing state means finished.",
			raw: gameJSON{
				ID: "g1", Matchday: 1, Date: "2024-10-22",
				Home: teamGameJSON{Team: "bos", Score: 110, Players: []lineJSON{{Name: "Alice", Started: true, Minutes: 34, Points: 30, FieldGoalsAttempted: 20, FieldGoalsMade: 11}}},
				Away: teamGameJSON{Team: "NYK", Score: 100},
			},
			want: want{data: GameData{
				Game: db.Game{
					ID: "g1", Season: "2024-2025", Matchday: 1, Date: "2024-10-22",
					HomeTeamID: 1, AwayTeamID: 2, HomeScore: 110, AwayScore: 100,
					State: db.GameFinished, ConferenceGame: true, DivisionGame: true,
				},
				HomeKey: "BOS",
				AwayKey: "NYK",
				Lines: map[string]db.BoxScoreLine{
					"Alice": {Started: true, Minutes: 34, Points: 30, FieldGoalsAttempted: 20, FieldGoalsMade: 11},
				},
			}},
		},
		"InterConference": {
			reason: "Teams in different conferences should produce neither a conference nor a division game.",
			raw: gameJSON{
				ID: "g2", Date: "2024-10-23", State: "scheduled",
				Home: teamGameJSON{Team: "LAL"},
				Away: teamGameJSON{Team: "BOS"},
			},
			want: want{data: GameData{
				Game: db.Game{
					ID: "g2", Season: "2024-2025", Date: "2024-10-23",
					HomeTeamID: 3, AwayTeamID: 1, State: db.GameScheduled,
				},
				HomeKey: "LAL",
				AwayKey: "BOS",
				Lines:   map[string]db.BoxScoreLine{},
			}},
		},
		"UnknownTeam": {
			reason: "Games between unregistered teams should be rejected.",
			raw: gameJSON{
				ID:   "g3",
				Home: teamGameJSON{Team: "XXX"},
				Away: teamGameJSON{Team: "BOS"},
			},
			want: want{err: true},
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			g := Game{raw: tc.raw}
			got, err := g.Transform("2024-2025", reg)
			if (err != nil) != tc.want.err {
				t.Fatalf("\n%s\nTransform(...): want error %t, got %v", tc.reason, tc.want.err, err)
			}
			if diff := cmp.Diff(tc.want.data, got); diff != "" {
				t.Errorf("\n%s\nTransform(...): -want, +got:\n%s", tc.reason, diff)
			}
		})
	}
}

func TestSortGames(t *testing.T) {
	games := []GameData{
		{Game: db.Game{ID: "c", Date: "2024-10-23", Matchday: 2}},
		{Game: db.Game{ID: "b", Date: "2024-10-22", Matchday: 1}},
		{Game: db.Game{ID: "a", Date: "2024-10-22", Matchday: 1}},
		{Game: db.Game{ID: "d", Date: "2024-10-22", Matchday: 0}},
	}
	SortGames(games)

	got := make([]string, 0, len(games))
	for _, g := range games {
		got = append(got, g.Game.ID)
	}
	want := []string{"d", "a", "b", "c"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("SortGames(...): -want, +got:\n%s", diff)
	}
}
