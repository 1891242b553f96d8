package serve

import (
	"context"
	"log/slog"

	"github.com/negz/hoops/internal/cache"
	"github.com/negz/hoops/internal/db"
	"github.com/negz/hoops/internal/web"
)

// refreshingEngine refreshes the in-memory store after each write, so newly
// seen seasons show up in cached listings.
type refreshingEngine struct {
	web.Engine

	store *cache.InMemoryStore
	log   *slog.Logger
}

func (e *refreshingEngine) ApplyFinishedGame(ctx context.Context, g db.Game) error {
	if err := e.Engine.ApplyFinishedGame(ctx, g); err != nil {
		return err
	}
	e.refresh(ctx)
	return nil
}

func (e *refreshingEngine) ReverseGame(ctx context.Context, id string) (db.Game, error) {
	g, err := e.Engine.ReverseGame(ctx, id)
	if err != nil {
		return db.Game{}, err
	}
	e.refresh(ctx)
	return g, nil
}

// The write already committed, so a failed refresh only leaves the cache
// stale until the next sync.
func (e *refreshingEngine) refresh(ctx context.Context) {
	if err := e.store.Refresh(ctx); err != nil {
		e.log.Warn("Cannot refresh cached directory", "err", err)
	}
}
