package gate

import (
	"context"
	"log/slog"
	"time"
)

// Evicter is anything that can drop entries idle for longer than a TTL.
type Evicter interface {
	Evict(ttl time.Duration) int
}

// StartSweeper runs a background goroutine that periodically evicts idle
// entries from each target until ctx is done.
func StartSweeper(ctx context.Context, interval, ttl time.Duration, targets map[string]Evicter) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		slog.Info("Session sweeper started", "interval", interval, "ttl", ttl)

		for {
			select {
			case <-ticker.C:
				sweep(ttl, targets)
			case <-ctx.Done():
				slog.Info("Session sweeper shutting down", "reason", ctx.Err())
				return
			}
		}
	}()
}

func sweep(ttl time.Duration, targets map[string]Evicter) {
	for name, t := range targets {
		if n := t.Evict(ttl); n > 0 {
			slog.Info("Session sweeper evicted idle entries", "target", name, "count", n)
		}
	}
}
