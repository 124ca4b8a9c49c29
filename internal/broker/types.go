package broker

import (
	"context"

	"notifier/pkg/models"
)

// Producer is the queue client adapter. A single Publish call makes a
// single send attempt; retry policy belongs to the caller so both
// trigger paths share one backoff behavior.
type Producer interface {
	// Publish serializes the envelope as UTF-8 JSON and sends it to the
	// configured queue.
	Publish(ctx context.Context, envelope *models.Envelope) error

	// Probe performs a lightweight connectivity check against the
	// configured queue without sending a message.
	Probe(ctx context.Context) error

	Close() error
}
