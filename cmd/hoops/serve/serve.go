// Package serve implements the serve command.
package serve

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/negz/hoops/internal/cache"
	"github.com/negz/hoops/internal/web"
)

// Command starts the hoops API server.
type Command struct {
	Addr         string        `default:":8080" help:"Address to listen on."`
	SyncInterval time.Duration `default:"15m"   help:"How often to sync the league archive. Zero disables syncing."`
}

// Run executes the serve command.
func (c *Command) Run(d *cache.DB, _ *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	d.SetLogger(log)

	dbst, err := d.Store(ctx)
	if err != nil {
		return err
	}
	engine, err := d.Engine(ctx)
	if err != nil {
		return err
	}

	st := cache.NewInMemoryStore(dbst)
	if err := st.Refresh(ctx); err != nil {
		return err
	}

	s := &http.Server{
		Addr:              c.Addr,
		Handler:           web.WithLogging(web.NewServer(st, &refreshingEngine{Engine: engine, store: st, log: log}, log).Handler(), log),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	if c.SyncInterval > 0 {
		g.Go(func() error {
			web.Sync(ctx, func(ctx context.Context) error {
				r, err := d.Sync(ctx)
				if err != nil {
					return err
				}
				log.Info("Synced league archive", "applied", r.Applied, "skipped", r.Skipped, "failed", r.Failed, "lines", r.Lines)
				return st.Refresh(ctx)
			}, c.SyncInterval, log)
			return nil
		})
	}

	g.Go(func() error {
		log.Info("Starting web server", "addr", c.Addr)
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		log.Info("Shutting down web server")
		sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.Shutdown(sctx) //nolint:contextcheck // The parent context is already done.
	})

	return g.Wait()
}
