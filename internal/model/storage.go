package model

import (
	"context"
	"io"
)

// Storage is an object store for migration snapshots.
type Storage interface {
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
}

// SnapshotArchive keeps a copy of a run's dataset before the target is touched.
type SnapshotArchive interface {
	Archive(ctx context.Context, snapshot Snapshot) (string, error)
}
