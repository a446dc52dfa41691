// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"
	"time"

	"github.com/soumil/jeeprep/internal/domain"
)

// Repository defines the interface for persisting visitors and key-value settings.
type Repository interface {
	// GetUser retrieves a user by their user ID. Returns nil, nil when absent.
	GetUser(ctx context.Context, userID string) (*domain.User, error)

	// UpsertUser creates or updates a user record.
	UpsertUser(ctx context.Context, user *domain.User) error

	// UpdateLastSeen updates the last_seen_at timestamp for a user.
	UpdateLastSeen(ctx context.Context, userID string, lastSeen time.Time) error

	// Get reads a value from the key-value table.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set writes a value to the key-value table.
	Set(ctx context.Context, key, value string) error

	// Ping verifies database connectivity and returns an error if the database is unreachable.
	Ping(ctx context.Context) error

	// Close closes the database connection.
	Close() error
}
