package model

import "context"

// SourceStore reads the data to migrate from the source database.
type SourceStore interface {
	ReadUserDiary(ctx context.Context, userID int64) ([]SourceDiaryEntry, error)
	ReadUserWeights(ctx context.Context, userID int64) ([]SourceWeightEntry, error)
	ReadCatalogue(ctx context.Context) ([]CatalogueItem, error)
	ReadSettings(ctx context.Context) ([]SettingsRecord, error)
}

// TargetStore clears and fills the target database. Writes are not
// transactional: rows committed before a failure stay in place.
type TargetStore interface {
	ClearUserDiary(ctx context.Context, userID int64) error
	ClearUserWeights(ctx context.Context, userID int64) error
	ClearCatalogue(ctx context.Context) error
	ClearSettings(ctx context.Context) error

	WriteDiary(ctx context.Context, entries []DiaryEntry) error
	WriteWeights(ctx context.Context, entries []WeightEntry) error
	WriteCatalogue(ctx context.Context, items []CatalogueItem) error
	WriteSettings(ctx context.Context, records []SettingsRecord) error
}
