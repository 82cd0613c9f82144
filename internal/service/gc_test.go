package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MockGCStorage struct {
	AllStoragePathsFunc func(ctx context.Context) ([]string, error)
}

func (m *MockGCStorage) AllStoragePaths(ctx context.Context) ([]string, error) {
	if m.AllStoragePathsFunc != nil {
		return m.AllStoragePathsFunc(ctx)
	}
	return nil, nil
}

type MockGCObjectStorage struct {
	ListFunc   func(ctx context.Context) ([]ObjectInfo, error)
	DeleteFunc func(ctx context.Context, paths []string) error

	deleted []string
}

func (m *MockGCObjectStorage) List(ctx context.Context) ([]ObjectInfo, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return nil, nil
}

func (m *MockGCObjectStorage) Delete(ctx context.Context, paths []string) error {
	m.deleted = append(m.deleted, paths...)
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, paths)
	}
	return nil
}

func TestOrphanCollectorRun(t *testing.T) {
	old := time.Now().Add(-2 * time.Hour)
	fresh := time.Now().Add(-time.Minute)

	records := &MockGCStorage{
		AllStoragePathsFunc: func(ctx context.Context) ([]string, error) {
			return []string{"board-a/img-1.jpg", "board-a/img-2.png"}, nil
		},
	}
	objects := &MockGCObjectStorage{
		ListFunc: func(ctx context.Context) ([]ObjectInfo, error) {
			return []ObjectInfo{
				{Path: "board-a/img-1.jpg", LastModified: old},   // referenced
				{Path: "board-a/img-2.png", LastModified: old},   // referenced
				{Path: "board-b/orphan.jpg", LastModified: old},  // orphan, old enough
				{Path: "board-b/young.jpg", LastModified: fresh}, // orphan, too young
			}, nil
		},
	}

	gc := NewOrphanCollector(records, objects, 30*time.Minute)
	require.NoError(t, gc.Run(context.Background()))

	assert.Equal(t, []string{"board-b/orphan.jpg"}, objects.deleted)

	stats := gc.LastRunStats()
	assert.Equal(t, 4, stats.Scanned)
	assert.Equal(t, 1, stats.Orphaned)
	assert.Equal(t, 1, stats.Deleted)
	assert.Empty(t, stats.Errors)
}

func TestOrphanCollectorRun_NothingToDo(t *testing.T) {
	objects := &MockGCObjectStorage{}
	gc := NewOrphanCollector(&MockGCStorage{}, objects, time.Minute)

	require.NoError(t, gc.Run(context.Background()))

	assert.Empty(t, objects.deleted)
	assert.Zero(t, gc.LastRunStats().Orphaned)
}

func TestOrphanCollectorRun_DeleteFailureRecorded(t *testing.T) {
	objects := &MockGCObjectStorage{
		ListFunc: func(ctx context.Context) ([]ObjectInfo, error) {
			return []ObjectInfo{{Path: "x/orphan.jpg", LastModified: time.Now().Add(-time.Hour)}}, nil
		},
		DeleteFunc: func(ctx context.Context, paths []string) error {
			return errors.New("s3: access denied")
		},
	}
	gc := NewOrphanCollector(&MockGCStorage{}, objects, time.Minute)

	require.NoError(t, gc.Run(context.Background()))

	stats := gc.LastRunStats()
	assert.Equal(t, 1, stats.Orphaned)
	assert.Zero(t, stats.Deleted)
	assert.Len(t, stats.Errors, 1)
}

func TestOrphanCollectorRun_ListFailure(t *testing.T) {
	objects := &MockGCObjectStorage{
		ListFunc: func(ctx context.Context) ([]ObjectInfo, error) {
			return nil, errors.New("s3: timeout")
		},
	}
	gc := NewOrphanCollector(&MockGCStorage{}, objects, time.Minute)

	assert.Error(t, gc.Run(context.Background()))
}
