package service

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/klauspost/compress/zstd"

	"github.com/dtroode/foodtracker-migrator/internal/logger"
	"github.com/dtroode/foodtracker-migrator/internal/model"
)

const snapshotContentType = "application/zstd"

var _ model.SnapshotArchive = (*Archiver)(nil)

// Archiver uploads zstd compressed JSON snapshots of migration datasets.
type Archiver struct {
	storage model.Storage
	encoder *zstd.Encoder
	logger  *logger.Logger
}

func NewArchiver(storage model.Storage, logger *logger.Logger) (*Archiver, error) {
	encoder, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
	}

	return &Archiver{
		storage: storage,
		encoder: encoder,
		logger:  logger,
	}, nil
}

// SnapshotKey is the object key of a run's snapshot.
func SnapshotKey(snapshot model.Snapshot) string {
	return fmt.Sprintf("snapshots/user-%d/%s.json.zst", snapshot.UserID, snapshot.RunID)
}

// Archive stores snapshot and returns its object key.
func (a *Archiver) Archive(ctx context.Context, snapshot model.Snapshot) (string, error) {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return "", fmt.Errorf("%w: failed to encode snapshot: %v", model.ErrArchiveFailed, err)
	}

	compressed := a.encoder.EncodeAll(data, make([]byte, 0, len(data)/2))
	key := SnapshotKey(snapshot)

	if err := a.storage.Upload(ctx, key, bytes.NewReader(compressed), int64(len(compressed)), snapshotContentType); err != nil {
		return "", fmt.Errorf("%w: %v", model.ErrArchiveFailed, err)
	}

	a.logger.Debug("Migration archive: snapshot uploaded",
		"key", key,
		"raw_bytes", len(data),
		"compressed_bytes", len(compressed))

	return key, nil
}

// Close releases the encoder.
func (a *Archiver) Close() error {
	return a.encoder.Close()
}
