// Package publish announces committed game aggregations on a Redis stream.
package publish

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/negz/hoops/internal/db"
)

// DefaultStream is the stream games are published to.
const DefaultStream = "hoops.games.applied"

// Event types.
const (
	EventApplied  = "applied"
	EventReversed = "reversed"
)

// A StreamAdder appends entries to a Redis stream. *redis.Client satisfies
// this interface.
type StreamAdder interface {
	XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd
}

// Option configures a Publisher.
type Option func(*Publisher)

// WithStream sets the stream to publish to.
func WithStream(name string) Option {
	return func(p *Publisher) {
		p.stream = name
	}
}

// WithMaxLen caps the stream at approximately n entries.
func WithMaxLen(n int64) Option {
	return func(p *Publisher) {
		p.maxLen = n
	}
}

// WithClock sets the function used to timestamp events.
func WithClock(now func() time.Time) Option {
	return func(p *Publisher) {
		p.now = now
	}
}

// Publisher writes game events to a Redis stream.
type Publisher struct {
	client StreamAdder
	stream string
	maxLen int64
	now    func() time.Time
}

// New creates a publisher that writes to the supplied client.
func New(c StreamAdder, opts ...Option) *Publisher {
	p := &Publisher{client: c, stream: DefaultStream, now: time.Now}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Dial connects to the Redis server at the supplied URL, e.g.
// redis://localhost:6379/0, and verifies the connection.
func Dial(ctx context.Context, url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	c := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := c.Ping(ctx).Err(); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return c, nil
}

// GameApplied publishes a game that was applied to its teams' records.
func (p *Publisher) GameApplied(ctx context.Context, g db.Game) error {
	return p.publish(ctx, EventApplied, g)
}

// GameReversed publishes a game that was removed from its teams' records.
func (p *Publisher) GameReversed(ctx context.Context, g db.Game) error {
	return p.publish(ctx, EventReversed, g)
}

func (p *Publisher) publish(ctx context.Context, event string, g db.Game) error {
	data, err := json.Marshal(g)
	if err != nil {
		return fmt.Errorf("marshal game %s: %w", g.ID, err)
	}

	args := &redis.XAddArgs{
		Stream: p.stream,
		Values: map[string]any{
			"event":     event,
			"game":      g.ID,
			"season":    g.Season,
			"data":      string(data),
			"timestamp": p.now().Unix(),
		},
	}
	if p.maxLen > 0 {
		args.MaxLen = p.maxLen
		args.Approx = true
	}

	if err := p.client.XAdd(ctx, args).Err(); err != nil {
		return fmt.Errorf("publish %s game %s to %s: %w", event, g.ID, p.stream, err)
	}
	return nil
}
