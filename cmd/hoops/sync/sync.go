// Package sync implements the sync command.
package sync

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/negz/hoops/internal/cache"
	"github.com/negz/hoops/internal/output"
)

// Command loads the league archive into the local database.
type Command struct{}

// Run executes the sync command.
func (c *Command) Run(d *cache.DB, log *slog.Logger) error {
	ctx := context.Background()

	log.Info("Syncing league archive")
	r, err := d.Sync(ctx)
	if err != nil {
		return fmt.Errorf("sync: %w", err)
	}

	rows := [][]string{{
		strings.Join(r.Seasons, ", "),
		strconv.Itoa(r.Applied),
		strconv.Itoa(r.Skipped),
		strconv.Itoa(r.Failed),
		strconv.Itoa(r.Lines),
	}}
	return output.Table(os.Stdout, []string{"Seasons", "Applied", "Skipped", "Failed", "Box Score Lines"}, rows)
}
