// Package cache manages the local hoops database and league archive.
package cache

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/redis/go-redis/v9"

	"github.com/negz/hoops/internal/archive"
	"github.com/negz/hoops/internal/db"
	"github.com/negz/hoops/internal/publish"
	"github.com/negz/hoops/internal/stats/aggregate"
)

// Dir returns the hoops cache directory.
//
// It uses os.UserCacheDir, which respects XDG_CACHE_HOME on Linux, uses
// ~/Library/Caches on macOS, and %LocalAppData% on Windows. If the user cache
// directory can't be determined it falls back to the system temp directory.
func Dir() string {
	base, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "hoops")
	}
	return filepath.Join(base, "hoops")
}

// DB provides access to a hoops database.
// It lazily opens the database on first use.
type DB struct {
	Path       string `env:"HOOPS_DB"          help:"Database file. Defaults to hoops.db in the cache directory." type:"path"`
	ArchiveURL string `env:"HOOPS_ARCHIVE_URL" help:"League archive git repo URL. If unset the local archive is loaded as-is."`
	Archive    string `env:"HOOPS_ARCHIVE"     help:"League archive directory. Defaults to league-archive in the cache directory." type:"path"`
	RedisURL    string `env:"HOOPS_REDIS_URL"    help:"Redis URL to publish game events to, e.g. redis://localhost:6379/0."`
	RedisStream string `default:"hoops.games.applied" env:"HOOPS_REDIS_STREAM" help:"Redis stream to publish game events to."`
	RedisMaxLen int64  `default:"10000" env:"HOOPS_REDIS_MAXLEN" help:"Approximate maximum length of the Redis stream. Zero leaves it uncapped." name:"redis-maxlen"`
	ForceSync  bool   `help:"Sync data before running command." name:"sync" short:"s"`

	log    *slog.Logger
	store  *db.SQLiteStore
	redis  *redis.Client
	engine *aggregate.Engine
}

// SetLogger configures the logger for sync progress.
func (d *DB) SetLogger(log *slog.Logger) {
	d.log = log
}

func (d *DB) logger() *slog.Logger {
	if d.log == nil {
		return slog.New(slog.DiscardHandler)
	}
	return d.log
}

// Store returns the database store, opening it if needed. It does not sync
// data from the archive. Use SyncedStore when the caller needs fresh data
// before proceeding.
func (d *DB) Store(ctx context.Context) (*db.SQLiteStore, error) {
	if d.store != nil {
		return d.store, nil
	}

	dbPath := d.Path
	if dbPath == "" {
		cacheDir := Dir()
		if err := os.MkdirAll(cacheDir, 0o750); err != nil {
			return nil, fmt.Errorf("create cache directory: %w", err)
		}
		dbPath = filepath.Join(cacheDir, "hoops.db")
	}

	store, err := db.Open(ctx, dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := store.Init(ctx); err != nil {
		store.Close() //nolint:errcheck // Already returning error.
		return nil, fmt.Errorf("initialize database: %w", err)
	}

	d.store = store
	return d.store, nil
}

// SyncedStore returns the database store, syncing data from the archive
// first if ForceSync is set.
func (d *DB) SyncedStore(ctx context.Context) (*db.SQLiteStore, error) {
	store, err := d.Store(ctx)
	if err != nil {
		return nil, err
	}

	if !d.ForceSync {
		return store, nil
	}

	if _, err := d.Sync(ctx); err != nil {
		d.store.Close() //nolint:errcheck // Already returning error.
		d.store = nil
		return nil, err
	}

	return store, nil
}

// Engine returns an aggregation engine backed by the database store. If a
// Redis URL is configured the engine publishes game events to it.
func (d *DB) Engine(ctx context.Context) (*aggregate.Engine, error) {
	if d.engine != nil {
		return d.engine, nil
	}

	store, err := d.Store(ctx)
	if err != nil {
		return nil, err
	}

	opts := []aggregate.Option{aggregate.WithLogger(d.logger())}
	if d.RedisURL != "" {
		c, err := publish.Dial(ctx, d.RedisURL)
		if err != nil {
			return nil, err
		}
		d.redis = c
		opts = append(opts, aggregate.WithPublisher(publish.New(c, d.publishOptions()...)))
	}

	d.engine = aggregate.NewEngine(store, opts...)
	return d.engine, nil
}

func (d *DB) publishOptions() []publish.Option {
	opts := []publish.Option{publish.WithMaxLen(d.RedisMaxLen)}
	if d.RedisStream != "" {
		opts = append(opts, publish.WithStream(d.RedisStream))
	}
	return opts
}

// Close closes the database and Redis connections.
func (d *DB) Close() error {
	if d.redis != nil {
		d.redis.Close() //nolint:errcheck // Closing the database matters more.
	}
	if d.store == nil {
		return nil
	}
	return d.store.Close()
}

// Sync synchronizes data from the league archive.
func (d *DB) Sync(ctx context.Context) (*archive.Report, error) {
	store, err := d.Store(ctx)
	if err != nil {
		return nil, err
	}
	engine, err := d.Engine(ctx)
	if err != nil {
		return nil, err
	}

	archivePath := d.Archive
	if archivePath == "" {
		archivePath = filepath.Join(Dir(), "league-archive")
	}

	c := archive.NewClient(archivePath, store, engine,
		archive.WithRepoURL(d.ArchiveURL),
		archive.WithLogger(d.logger()),
	)

	return c.Sync(ctx)
}
