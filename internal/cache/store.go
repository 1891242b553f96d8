package cache

import (
	"context"
	"strings"
	"sync"

	"github.com/negz/hoops/internal/db"
	"github.com/negz/hoops/internal/stats/compare"
	"github.com/negz/hoops/internal/stats/leaders"
	"github.com/negz/hoops/internal/stats/standings"
)

// Store is the set of queries needed by the web API. It composes the stats
// package store interfaces with the directory queries.
type Store interface { //nolint:interfacebloat // Composes three stats store interfaces plus directory queries.
	standings.Store
	leaders.Store
	compare.Store

	GetTeam(ctx context.Context, id int64) (db.Team, error)
	GetPlayer(ctx context.Context, id int64) (db.Player, error)
	ListTeams(ctx context.Context, search string) ([]db.TeamSummary, error)
	ListPlayers(ctx context.Context, search string) ([]db.PlayerSummary, error)
	ListSeasons(ctx context.Context) ([]string, error)
}

// An InMemoryStore wraps a Store, caching the team, player, and season
// directories, which only change when teams, players, or seasons are
// registered. Cached methods serve from memory. All other methods pass
// through to the underlying store. Call Refresh after each write to
// repopulate the cache.
type InMemoryStore struct {
	wrapped Store

	mu      sync.RWMutex // Protects everything below.
	teams   []db.TeamSummary
	players []db.PlayerSummary
	seasons []string
}

// NewInMemoryStore returns an InMemoryStore that caches slow-changing data in
// memory.
func NewInMemoryStore(s Store) *InMemoryStore {
	return &InMemoryStore{wrapped: s}
}

// Refresh repopulates the in-memory cache from the underlying store.
func (s *InMemoryStore) Refresh(ctx context.Context) error {
	teams, err := s.wrapped.ListTeams(ctx, "")
	if err != nil {
		return err
	}

	players, err := s.wrapped.ListPlayers(ctx, "")
	if err != nil {
		return err
	}

	seasons, err := s.wrapped.ListSeasons(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.teams = teams
	s.players = players
	s.seasons = seasons

	return nil
}

// Cached methods.

// ListTeams returns teams from the cache, optionally filtered by search term.
func (s *InMemoryStore) ListTeams(_ context.Context, search string) ([]db.TeamSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if search == "" {
		return s.teams, nil
	}

	search = strings.ToLower(search)
	var out []db.TeamSummary
	for _, t := range s.teams {
		if strings.Contains(strings.ToLower(t.Key), search) ||
			strings.Contains(strings.ToLower(t.Name), search) ||
			strings.Contains(strings.ToLower(t.City), search) {
			out = append(out, t)
		}
	}
	return out, nil
}

// ListPlayers returns players from the cache, optionally filtered by search
// term.
func (s *InMemoryStore) ListPlayers(_ context.Context, search string) ([]db.PlayerSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if search == "" {
		return s.players, nil
	}

	search = strings.ToLower(search)
	var out []db.PlayerSummary
	for _, p := range s.players {
		if strings.Contains(strings.ToLower(p.Name), search) ||
			strings.Contains(strings.ToLower(p.TeamKey), search) ||
			strings.Contains(strings.ToLower(p.Team), search) {
			out = append(out, p)
		}
	}
	return out, nil
}

// ListSeasons returns seasons from the cache, newest first.
func (s *InMemoryStore) ListSeasons(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.seasons, nil
}

// Passthrough methods.

// GetTeam passes through to the underlying store.
func (s *InMemoryStore) GetTeam(ctx context.Context, id int64) (db.Team, error) {
	return s.wrapped.GetTeam(ctx, id)
}

// GetPlayer passes through to the underlying store.
func (s *InMemoryStore) GetPlayer(ctx context.Context, id int64) (db.Player, error) {
	return s.wrapped.GetPlayer(ctx, id)
}

// GetTeamRecord passes through to the underlying store.
func (s *InMemoryStore) GetTeamRecord(ctx context.Context, teamID int64, season string) (db.TeamSeasonRecord, error) {
	return s.wrapped.GetTeamRecord(ctx, teamID, season)
}

// GetPlayerRecord passes through to the underlying store.
func (s *InMemoryStore) GetPlayerRecord(ctx context.Context, playerID int64, season string) (db.PlayerSeasonRecord, error) {
	return s.wrapped.GetPlayerRecord(ctx, playerID, season)
}

// ListTeamRecords passes through to the underlying store.
func (s *InMemoryStore) ListTeamRecords(ctx context.Context, season string) ([]db.TeamSeasonRecord, error) {
	return s.wrapped.ListTeamRecords(ctx, season)
}

// ListPlayerRecords passes through to the underlying store.
func (s *InMemoryStore) ListPlayerRecords(ctx context.Context, season string) ([]db.PlayerSeasonRecord, error) {
	return s.wrapped.ListPlayerRecords(ctx, season)
}

// ListGames passes through to the underlying store.
func (s *InMemoryStore) ListGames(ctx context.Context, season string) ([]db.Game, error) {
	return s.wrapped.ListGames(ctx, season)
}

// ListHeadToHead passes through to the underlying store.
func (s *InMemoryStore) ListHeadToHead(ctx context.Context, season string, a, b int64) ([]db.Game, error) {
	return s.wrapped.ListHeadToHead(ctx, season, a, b)
}
