package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okian/mizan/internal/domain/model"
	"github.com/okian/mizan/internal/domain/report"
)

func snapshotFor(key string) Snapshot {
	return Snapshot{
		Key:     key,
		Dataset: &model.Dataset{Members: []model.Member{{ID: "M1", Active: true}}},
		Report:  &report.Report{Year: key},
	}
}

func TestMemoryStore_PublishAndGet(t *testing.T) {
	ctx := context.Background()
	fixed := time.Date(2025, 9, 1, 8, 0, 0, 0, time.UTC)
	store := NewMemoryStore(ctx, WithClock(func() time.Time { return fixed }))
	defer func() { _ = store.Close() }()

	assert.Equal(t, 0, store.Count(ctx))
	_, err := store.Get(ctx, "2025")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Publish(ctx, snapshotFor("2025")))
	require.NoError(t, store.Publish(ctx, snapshotFor("all")))
	require.NoError(t, store.Publish(ctx, snapshotFor(" 2024 ")))

	got, err := store.Get(ctx, "2025")
	require.NoError(t, err)
	assert.Equal(t, "2025", got.Report.Year)
	assert.True(t, got.PublishedAt.Equal(fixed))

	assert.Equal(t, []string{"2024", "2025", "all"}, store.Keys(ctx))
	assert.Equal(t, 3, store.Count(ctx))
}

func TestMemoryStore_ReplaceWholesale(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(ctx)
	defer func() { _ = store.Close() }()

	first := snapshotFor("2025")
	require.NoError(t, store.Publish(ctx, first))
	before, err := store.Get(ctx, "2025")
	require.NoError(t, err)

	second := snapshotFor("2025")
	second.Report = &report.Report{Year: "2025", Department: "Physics"}
	require.NoError(t, store.Publish(ctx, second))

	after, err := store.Get(ctx, "2025")
	require.NoError(t, err)
	assert.Equal(t, "Physics", after.Report.Department)
	// A reader holding the old snapshot keeps seeing it unchanged.
	assert.Equal(t, "", before.Report.Department)
	assert.Equal(t, 1, store.Count(ctx))
}

func TestMemoryStore_InvalidPublish(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(ctx)
	defer func() { _ = store.Close() }()

	require.ErrorIs(t, store.Publish(ctx, Snapshot{Key: "2025"}), ErrInvalidSnapshot)
	require.ErrorIs(t, store.Publish(ctx, Snapshot{Key: " ", Report: &report.Report{}}), ErrInvalidSnapshot)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	require.ErrorIs(t, store.Publish(cancelled, snapshotFor("2025")), context.Canceled)
	assert.Equal(t, 0, store.Count(ctx))
}

func TestMemoryStore_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(ctx, WithMetricsUpdateInterval(time.Millisecond))
	defer func() { _ = store.Close() }()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				assert.NoError(t, store.Publish(ctx, snapshotFor(fmt.Sprintf("%d", 2000+(i*50+j)%10))))
			}
		}(i)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				_ = store.Keys(ctx)
				_, _ = store.Get(ctx, "2001")
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, store.Count(ctx))
}

func TestMemoryStore_CloseIsIdempotent(t *testing.T) {
	store := NewMemoryStore(context.Background())
	require.NoError(t, store.Close())
	require.NoError(t, store.Close())
}
