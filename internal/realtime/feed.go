// Package realtime turns upstream change notifications into debounced
// refetches. The contract is coarse: a Change only says that something in a
// table changed, never what.
package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Channel is the Postgres NOTIFY channel the change triggers publish on.
const Channel = "logistics_changes"

// Change is one notification: a write happened on Table.
type Change struct {
	Table string `json:"table"`
	Event string `json:"event"` // INSERT, UPDATE or DELETE
}

// Feed delivers changes to fn until ctx is cancelled. Listen returns nil on
// cancellation and an error only when the feed cannot be used at all.
type Feed interface {
	Listen(ctx context.Context, fn func(Change)) error
}

// PGFeed listens on Channel over a dedicated pool connection and reconnects
// with backoff when the connection drops.
type PGFeed struct {
	pool       *pgxpool.Pool
	log        *slog.Logger
	maxBackoff time.Duration
}

// NewPGFeed builds a feed over pool.
func NewPGFeed(pool *pgxpool.Pool, log *slog.Logger) *PGFeed {
	return &PGFeed{pool: pool, log: log, maxBackoff: 30 * time.Second}
}

// Listen implements Feed.
func (f *PGFeed) Listen(ctx context.Context, fn func(Change)) error {
	backoff := time.Second
	for {
		err := f.listenOnce(ctx, fn)
		if ctx.Err() != nil {
			return nil
		}
		f.log.WarnContext(ctx, "realtime feed disconnected; retrying", "error", err, "backoff", backoff)

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(backoff):
		}
		backoff = min(backoff*2, f.maxBackoff)
	}
}

func (f *PGFeed) listenOnce(ctx context.Context, fn func(Change)) error {
	pooled, err := f.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("realtime.PGFeed: acquire: %w", err)
	}
	// A LISTENing session must not go back to the pool.
	conn := pooled.Hijack()
	defer conn.Close(context.Background())

	if _, err := conn.Exec(ctx, "LISTEN "+Channel); err != nil {
		return fmt.Errorf("realtime.PGFeed: listen: %w", err)
	}
	f.log.InfoContext(ctx, "realtime feed listening", "channel", Channel)

	for {
		n, err := conn.WaitForNotification(ctx)
		if err != nil {
			return fmt.Errorf("realtime.PGFeed: wait: %w", err)
		}
		c, err := ParsePayload(n.Payload)
		if err != nil {
			f.log.WarnContext(ctx, "realtime payload ignored", "payload", n.Payload, "error", err)
			continue
		}
		fn(c)
	}
}

// ParsePayload decodes the JSON body sent by the notify trigger.
func ParsePayload(payload string) (Change, error) {
	var c Change
	if err := json.Unmarshal([]byte(payload), &c); err != nil {
		return Change{}, fmt.Errorf("decode change: %w", err)
	}
	if c.Table == "" {
		return Change{}, errors.New("decode change: missing table")
	}
	return c, nil
}
