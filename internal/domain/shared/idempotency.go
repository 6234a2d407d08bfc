package shared

import (
	"context"
	"time"
)

// IdempotencyStore stores processed webhook event IDs so at-least-once
// delivery from the platform does not reprocess the same event.
type IdempotencyStore interface {
	// MarkProcessed marks an event as processed with a TTL.
	// Returns true if the event was newly marked, false if it was already processed.
	MarkProcessed(ctx context.Context, eventID string, ttl time.Duration) (bool, error)

	// IsProcessed checks if an event has already been processed.
	IsProcessed(ctx context.Context, eventID string) (bool, error)

	// Close closes the store and releases resources.
	Close() error
}
