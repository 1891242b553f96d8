package archive

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/negz/hoops/internal/db"
	"github.com/negz/hoops/internal/stats/aggregate"
)

const testLeague = `
teams:
  - key: BOS
    name: Celtics
    city: Boston
    conference: East
    division: Atlantic
  - key: NYK
    name: Knicks
    city: New York
    conference: East
    division: Atlantic
  - key: LAL
    name: Lakers
    city: Los Angeles
    conference: West
    division: Pacific
players:
  - name: Alice
    team: BOS
    position: G
    number: 7
  - name: Bob
    team: NYK
    position: F
    number: 23
`

// Files are named so that directory order differs from application order.
var testGames = map[string]string{
	"a-late.json": `{
		"id": "g2", "matchday": 2, "date": "2024-10-23",
		"home": {"team": "BOS", "score": 100, "players": [{"name": "Alice", "points": 20}]},
		"away": {"team": "LAL", "score": 105}
	}`,
	"b-early.json": `{
		"id": "g1", "matchday": 1, "date": "2024-10-22", "state": "finished",
		"home": {"team": "BOS", "score": 110, "players": [{"name": "Alice", "points": 30}, {"name": "Ghost", "points": 10}]},
		"away": {"team": "NYK", "score": 100, "players": [{"name": "Bob", "points": 25}]}
	}`,
	"c-future.json": `{
		"id": "g3", "matchday": 3, "date": "2024-10-30", "state": "scheduled",
		"home": {"team": "NYK", "score": 0},
		"away": {"team": "LAL", "score": 0}
	}`,
	"d-broken.json": `{"id": `,
	"notes.txt":     `not a game`,
}

func writeArchive(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, LeagueFile), []byte(testLeague), 0o600); err != nil {
		t.Fatal(err)
	}
	games := filepath.Join(dir, "season-2024-2025", "games")
	if err := os.MkdirAll(games, 0o750); err != nil {
		t.Fatal(err)
	}
	for name, content := range testGames {
		if err := os.WriteFile(filepath.Join(games, name), []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestClientLoad(t *testing.T) {
	ctx := context.Background()

	s, err := db.Open(ctx, ":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	if err := s.Init(ctx); err != nil {
		t.Fatalf("Init: %v", err)
	}

	c := NewClient(writeArchive(t), s, aggregate.NewEngine(s))

	got, err := c.Load(ctx)
	if err != nil {
		t.Fatalf("Load(...): %v", err)
	}
	want := &Report{Seasons: []string{"2024-2025"}, Applied: 2, Skipped: 1, Failed: 1, Lines: 3}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Load(...): -want report, +got report:\n%s", diff)
	}

	bos, err := s.GetTeamByKey(ctx, "BOS")
	if err != nil {
		t.Fatalf("GetTeamByKey(BOS): %v", err)
	}
	r, err := s.GetTeamRecord(ctx, bos.ID, "2024-2025")
	if err != nil {
		t.Fatalf("GetTeamRecord(BOS): %v", err)
	}
	if r.GamesPlayed != 2 || r.Wins != 1 || r.Losses != 1 || r.PointsFor != 210 || r.PointsAgainst != 205 {
		t.Errorf("BOS record: want 2 games, 1-1, 210-205, got %d games, %d-%d, %d-%d", r.GamesPlayed, r.Wins, r.Losses, r.PointsFor, r.PointsAgainst)
	}
	if diff := cmp.Diff(db.WinLoss{Wins: 1}, r.DivisionRecord); diff != "" {
		t.Errorf("BOS division record: -want, +got:\n%s", diff)
	}
	if diff := cmp.Diff(db.WinLoss{Wins: 1}, r.ConferenceRecord); diff != "" {
		t.Errorf("BOS conference record: -want, +got:\n%s", diff)
	}
	// The earlier win must be applied before the later loss.
	if got := r.Streak.String(); got != "L1" {
		t.Errorf("BOS streak: want L1, got %s", got)
	}

	alice, err := s.GetPlayerByName(ctx, "Alice")
	if err != nil {
		t.Fatalf("GetPlayerByName(Alice): %v", err)
	}
	pr, err := s.GetPlayerRecord(ctx, alice.ID, "2024-2025")
	if err != nil {
		t.Fatalf("GetPlayerRecord(Alice): %v", err)
	}
	if pr.GamesPlayed != 2 || pr.Points != 50 {
		t.Errorf("Alice record: want 2 games and 50 points, got %d games and %d points", pr.GamesPlayed, pr.Points)
	}

	// Loading again changes nothing.
	got, err = c.Load(ctx)
	if err != nil {
		t.Fatalf("Load(...) again: %v", err)
	}
	want = &Report{Seasons: []string{"2024-2025"}, Skipped: 3, Failed: 1}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Load(...) again: -want report, +got report:\n%s", diff)
	}
	r, err = s.GetTeamRecord(ctx, bos.ID, "2024-2025")
	if err != nil {
		t.Fatalf("GetTeamRecord(BOS): %v", err)
	}
	if r.GamesPlayed != 2 {
		t.Errorf("BOS record after reload: want 2 games, got %d", r.GamesPlayed)
	}
}

func TestClientLoadMissingLeague(t *testing.T) {
	c := NewClient(t.TempDir(), &MockStore{}, aggregate.NewEngine(nil))
	if _, err := c.Load(context.Background()); err == nil {
		t.Errorf("Load(...): want error for archive without %s, got nil", LeagueFile)
	}
}
