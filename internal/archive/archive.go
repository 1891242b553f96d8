// Package archive syncs and loads data from a league data archive.
//
// An archive is a git repository laid out as:
//
//	league.yaml                  Teams and players.
//	season-<name>/games/*.json   Games, with optional box scores.
package archive

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/go-git/go-git/v5"

	"github.com/negz/hoops/internal/db"
	"github.com/negz/hoops/internal/stats/aggregate"
)

// LeagueFile is the archive file describing teams and players.
const LeagueFile = "league.yaml"

const seasonPrefix = "season-"

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithRepoURL sets the git repository URL. Without one the archive is loaded
// from disk as-is.
func WithRepoURL(url string) ClientOption {
	return func(c *Client) {
		c.repoURL = url
	}
}

// WithLogger sets the logger for progress output.
func WithLogger(l *slog.Logger) ClientOption {
	return func(c *Client) {
		c.log = l
	}
}

// Client syncs and loads league archive data.
type Client struct {
	archivePath string
	repoURL     string
	log         *slog.Logger
	store       Store
	applier     Applier
}

// NewClient creates a new archive client that registers league data with
// the supplied store and aggregates games with the supplied applier.
func NewClient(archivePath string, s Store, a Applier, opts ...ClientOption) *Client {
	c := &Client{archivePath: archivePath, store: s, applier: a, log: slog.New(slog.DiscardHandler)}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Report summarizes a load.
type Report struct {
	Seasons []string
	Applied int // Games applied by this load.
	Skipped int // Games already applied, or not finished.
	Failed  int // Games that could not be read or applied.
	Lines   int // Box score lines recorded by this load.
}

// Sync pulls the archive, if a repository URL is configured, then loads it.
func (c *Client) Sync(ctx context.Context) (*Report, error) {
	if c.repoURL != "" {
		if err := c.pull(ctx); err != nil {
			return nil, fmt.Errorf("sync league archive: %w", err)
		}
	}
	return c.Load(ctx)
}

// Load registers the archive's teams and players for every season, then
// applies each season's finished games in date, matchday, and ID order.
// Games that are already applied are skipped, so loading is idempotent.
func (c *Client) Load(ctx context.Context) (*Report, error) {
	seasons, err := findSeasons(c.archivePath)
	if err != nil {
		return nil, fmt.Errorf("find seasons: %w", err)
	}

	var league League
	if err := league.Extract(filepath.Join(c.archivePath, LeagueFile)); err != nil {
		return nil, fmt.Errorf("extract league: %w", err)
	}
	reg, err := league.Load(ctx, c.store, seasons)
	if err != nil {
		return nil, fmt.Errorf("load league: %w", err)
	}

	r := &Report{Seasons: seasons}
	for _, season := range seasons {
		c.log.Info("Loading season", "season", season)
		if err := c.loadSeason(ctx, season, reg, r); err != nil {
			return r, fmt.Errorf("load season %s: %w", season, err)
		}
	}
	return r, nil
}

func (c *Client) loadSeason(ctx context.Context, season string, reg *Registry, r *Report) error {
	paths, err := findGameFiles(filepath.Join(c.archivePath, seasonPrefix+season))
	if err != nil {
		return fmt.Errorf("find games: %w", err)
	}

	games := make([]GameData, 0, len(paths))
	for _, path := range paths {
		var g Game
		if err := g.Extract(path); err != nil {
			c.log.Warn("Failed to extract game", "file", filepath.Base(path), "error", err)
			r.Failed++
			continue
		}
		data, err := g.Transform(season, reg)
		if err != nil {
			c.log.Warn("Failed to transform game", "file", filepath.Base(path), "error", err)
			r.Failed++
			continue
		}
		if data.Game.State != db.GameFinished {
			r.Skipped++
			continue
		}
		games = append(games, data)
	}

	SortGames(games)

	for _, g := range games {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := c.applier.ApplyFinishedGame(ctx, g.Game)
		switch {
		case errors.Is(err, aggregate.ErrDuplicateApplication):
			r.Skipped++
		case err != nil:
			c.log.Warn("Failed to apply game", "game", g.Game.ID, "error", err)
			r.Failed++
			continue
		default:
			r.Applied++
		}

		r.Lines += c.recordLines(ctx, g, reg)
	}
	return nil
}

// recordLines records a game's box score, returning the number of lines
// newly recorded.
func (c *Client) recordLines(ctx context.Context, g GameData, reg *Registry) int {
	names := make([]string, 0, len(g.Lines))
	for name := range g.Lines {
		names = append(names, name)
	}
	slices.Sort(names)

	n := 0
	for _, name := range names {
		id, ok := reg.Players[name]
		if !ok {
			c.log.Warn("Skipping box score line for unknown player", "game", g.Game.ID, "player", name)
			continue
		}
		l := g.Lines[name]
		l.PlayerID = id
		err := c.applier.RecordPlayerGame(ctx, g.Game.ID, g.Game.Season, l)
		switch {
		case errors.Is(err, aggregate.ErrDuplicateApplication):
		case err != nil:
			c.log.Warn("Failed to record box score line", "game", g.Game.ID, "player", name, "error", err)
		default:
			n++
		}
	}
	return n
}

// SortGames sorts games in the order they should be applied: by date, then
// matchday, then ID.
func SortGames(games []GameData) {
	slices.SortFunc(games, func(a, b GameData) int {
		if c := cmp.Compare(a.Game.Date, b.Game.Date); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Game.Matchday, b.Game.Matchday); c != 0 {
			return c
		}
		return cmp.Compare(a.Game.ID, b.Game.ID)
	})
}

// findGameFiles returns paths to all game JSON files in a season directory.
func findGameFiles(seasonPath string) ([]string, error) {
	gamesDir := filepath.Join(seasonPath, "games")
	entries, err := os.ReadDir(gamesDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	paths := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		paths = append(paths, filepath.Join(gamesDir, e.Name()))
	}
	return paths, nil
}

// findSeasons returns the archive's season names, oldest first.
func findSeasons(archivePath string) ([]string, error) {
	entries, err := os.ReadDir(archivePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	seasons := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() || !strings.HasPrefix(e.Name(), seasonPrefix) {
			continue
		}
		if s := strings.TrimPrefix(e.Name(), seasonPrefix); s != "" {
			seasons = append(seasons, s)
		}
	}
	slices.Sort(seasons)
	return seasons, nil
}

// pull clones or updates the league archive.
func (c *Client) pull(ctx context.Context) error {
	if err := os.MkdirAll(filepath.Dir(c.archivePath), 0o750); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	var progress io.Writer
	if c.log.Enabled(ctx, slog.LevelDebug) {
		progress = os.Stderr
	}

	if _, err := os.Stat(filepath.Join(c.archivePath, ".git")); err == nil {
		c.log.Info("Updating league archive")
		r, err := git.PlainOpen(c.archivePath)
		if err != nil {
			return fmt.Errorf("open repo: %w", err)
		}
		w, err := r.Worktree()
		if err != nil {
			return fmt.Errorf("get worktree: %w", err)
		}
		if err := w.Reset(&git.ResetOptions{Mode: git.HardReset}); err != nil {
			return fmt.Errorf("reset worktree: %w", err)
		}
		if err := w.PullContext(ctx, &git.PullOptions{Progress: progress}); err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
			return err
		}
		return nil
	}

	c.log.Info("Cloning league archive", "url", c.repoURL)
	_, err := git.PlainCloneContext(ctx, c.archivePath, false, &git.CloneOptions{
		URL:          c.repoURL,
		Depth:        1,
		SingleBranch: true,
		Progress:     progress,
	})
	return err
}
