// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"

	"github.com/sidmandirwala/portafina/internal/domain"
)

// Leads defines the interface for the remote lead store. It is
// insert-only: captured introductions are never read back or deleted by
// this system.
type Leads interface {
	// Insert persists a captured lead.
	Insert(ctx context.Context, lead *domain.Lead) error

	// Ping verifies store connectivity.
	Ping(ctx context.Context) error

	// Close closes the underlying connection pool.
	Close() error
}
