// Package repository keeps generated reports available for later reads.
package repository

import (
	"context"

	"github.com/okian/scorecard/internal/domain/types"
)

// Store provides read/write access to generated reports. Reports are derived
// data; a Store is a cache, never a source of truth.
type Store interface {
	// Put stores a report, evicting older ones if the store is full.
	Put(ctx context.Context, env types.ReportEnvelope) error

	// Get returns the report with id. Returns ErrNotFound if it is unknown or
	// has been evicted.
	Get(ctx context.Context, id string) (types.ReportEnvelope, error)

	// List returns up to limit reports, newest first.
	List(ctx context.Context, limit int) ([]types.ReportInfo, error)

	// Count returns the number of reports held.
	Count(ctx context.Context) int
}
