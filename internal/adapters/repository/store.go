// Package repository holds the published report snapshots, one per year key.
package repository

import (
	"context"
	"time"

	"github.com/okian/mizan/internal/domain/model"
	"github.com/okian/mizan/internal/domain/report"
)

// Snapshot is an immutable computed view of one year selection. Readers
// share it; nobody mutates it after Publish.
type Snapshot struct {
	Key         string
	Settings    model.Settings
	Dataset     *model.Dataset
	Report      *report.Report
	PublishedAt time.Time
}

// Store provides read/write access to the published snapshots.
type Store interface {
	// Publish replaces the snapshot for s.Key wholesale.
	Publish(ctx context.Context, s Snapshot) error

	// Get returns the snapshot for key or ErrNotFound.
	Get(ctx context.Context, key string) (Snapshot, error)

	// Keys lists the published year keys in ascending order.
	Keys(ctx context.Context) []string

	// Count returns the number of published year keys.
	Count(ctx context.Context) int
}
