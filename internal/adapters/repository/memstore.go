package repository

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/mizan/pkg/metrics"
)

var _ Store = (*MemoryStore)(nil)

// MemoryStore keeps snapshots in a copy-on-write map behind an atomic
// pointer. Reads never lock; Publish swaps in a new map.
type MemoryStore struct {
	mu       sync.Mutex // serialises writers
	snapshot atomic.Pointer[map[string]Snapshot]

	now                   func() time.Time
	metricsUpdateInterval time.Duration

	wg       sync.WaitGroup
	stopChan chan struct{}
	stopOnce sync.Once
}

// NewMemoryStore constructs a store and starts its metrics updater, which
// stops when ctx is done or Close is called.
func NewMemoryStore(ctx context.Context, opts ...Option) *MemoryStore {
	s := &MemoryStore{
		now:                   time.Now,
		metricsUpdateInterval: 5 * time.Second,
		stopChan:              make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	empty := map[string]Snapshot{}
	s.snapshot.Store(&empty)

	s.startMetricsUpdater(ctx)
	return s
}

// Publish implements Store.Publish.
func (s *MemoryStore) Publish(ctx context.Context, snap Snapshot) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("publish cancelled: %w", err)
	}
	snap.Key = strings.TrimSpace(snap.Key)
	if snap.Key == "" || snap.Report == nil {
		return fmt.Errorf("%w: key %q", ErrInvalidSnapshot, snap.Key)
	}
	if snap.PublishedAt.IsZero() {
		snap.PublishedAt = s.now().UTC()
	}

	s.mu.Lock()
	next := maps.Clone(*s.snapshot.Load())
	next[snap.Key] = snap
	s.snapshot.Store(&next)
	s.mu.Unlock()

	metrics.RecordSnapshotPublish(len(next), snap.PublishedAt)
	return nil
}

// Get implements Store.Get.
func (s *MemoryStore) Get(_ context.Context, key string) (Snapshot, error) {
	snap, ok := (*s.snapshot.Load())[strings.TrimSpace(key)]
	if !ok {
		return Snapshot{}, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return snap, nil
}

// Keys implements Store.Keys. Year keys sort before "all".
func (s *MemoryStore) Keys(_ context.Context) []string {
	return slices.Sorted(maps.Keys(*s.snapshot.Load()))
}

// Count implements Store.Count.
func (s *MemoryStore) Count(_ context.Context) int {
	return len(*s.snapshot.Load())
}

// Close stops the background metrics updater.
func (s *MemoryStore) Close() error {
	s.stopOnce.Do(func() { close(s.stopChan) })
	s.wg.Wait()
	return nil
}

func (s *MemoryStore) startMetricsUpdater(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.metricsUpdateInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopChan:
				return
			case <-ticker.C:
				s.updateMetrics()
			}
		}
	}()
}

func (s *MemoryStore) updateMetrics() {
	for key, snap := range *s.snapshot.Load() {
		if snap.Dataset != nil {
			metrics.UpdateActiveMembers(key, len(snap.Dataset.ActiveMembers()))
		}
	}
	metrics.UpdateSystem()
}
