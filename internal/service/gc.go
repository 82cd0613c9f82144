package service

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// OrphanCollector reconciles the object store against the image records.
// Failed move cleanups and interrupted transfers can leave objects no
// record points to; this sweep removes them once they are old enough.
type OrphanCollector struct {
	records   GCStorage
	objects   GCObjectStorage
	safetyAge time.Duration

	mu           sync.Mutex
	lastRunStats GCStats
}

// GCStats tracks the outcome of the last sweep.
type GCStats struct {
	RunAt    time.Time
	Scanned  int
	Orphaned int
	Deleted  int
	Errors   []string
}

type GCStorage interface {
	AllStoragePaths(ctx context.Context) ([]string, error)
}

type GCObjectStorage interface {
	List(ctx context.Context) ([]ObjectInfo, error)
	Delete(ctx context.Context, paths []string) error
}

// ObjectInfo describes one stored object for reconciliation.
type ObjectInfo struct {
	Path         string
	LastModified time.Time
}

// NewOrphanCollector creates a collector. safetyAge is the minimum object
// age before deletion, so objects uploaded by an in-flight transfer that
// has not committed yet are never reaped.
func NewOrphanCollector(records GCStorage, objects GCObjectStorage, safetyAge time.Duration) *OrphanCollector {
	return &OrphanCollector{records: records, objects: objects, safetyAge: safetyAge}
}

// StartBackground runs Run on the given interval until ctx is cancelled.
func (gc *OrphanCollector) StartBackground(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	slog.Info("orphan collector started", "interval", interval, "safety_age", gc.safetyAge)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := gc.Run(ctx); err != nil {
					slog.Error("orphan sweep failed", "err", err)
					continue
				}
				stats := gc.LastRunStats()
				slog.Info("orphan sweep finished",
					"scanned", stats.Scanned,
					"orphaned", stats.Orphaned,
					"deleted", stats.Deleted,
					"errors", len(stats.Errors),
				)
			case <-ctx.Done():
				slog.Info("orphan collector stopped")
				return
			}
		}
	}()
}

// Run executes a single sweep. Callable directly for maintenance.
func (gc *OrphanCollector) Run(ctx context.Context) error {
	stats := GCStats{RunAt: time.Now(), Errors: []string{}}

	recordPaths, err := gc.records.AllStoragePaths(ctx)
	if err != nil {
		return err
	}
	referenced := make(map[string]bool, len(recordPaths))
	for _, p := range recordPaths {
		referenced[p] = true
	}

	objects, err := gc.objects.List(ctx)
	if err != nil {
		return err
	}
	stats.Scanned = len(objects)

	var orphans []string
	for _, obj := range objects {
		if referenced[obj.Path] {
			continue
		}
		if time.Since(obj.LastModified) < gc.safetyAge {
			// Too young, might belong to a transfer that has not committed.
			continue
		}
		orphans = append(orphans, obj.Path)
	}
	stats.Orphaned = len(orphans)

	if len(orphans) > 0 {
		if err := gc.objects.Delete(ctx, orphans); err != nil {
			stats.Errors = append(stats.Errors, err.Error())
		} else {
			stats.Deleted = len(orphans)
		}
	}

	gc.mu.Lock()
	gc.lastRunStats = stats
	gc.mu.Unlock()
	return nil
}

func (gc *OrphanCollector) LastRunStats() GCStats {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.lastRunStats
}
