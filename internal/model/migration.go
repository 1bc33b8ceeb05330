package model

import (
	"time"

	"github.com/google/uuid"
)

// DefaultBaseOffset moves migrated entries ten hours past midnight.
const DefaultBaseOffset int64 = 36000

// State is a step of a migration run.
type State string

const (
	StateReading      State = "reading"
	StateTransforming State = "transforming"
	StateClearing     State = "clearing"
	StateWriting      State = "writing"
	StateSucceeded    State = "succeeded"
	StateFailed       State = "failed"
)

// Destructive reports whether the target may have been modified once a run reached s.
func (s State) Destructive() bool {
	return s == StateClearing || s == StateWriting
}

// Dataset is the transformed data of one run.
type Dataset struct {
	Diary     []DiaryEntry
	Weights   []WeightEntry
	Catalogue []CatalogueItem
	Settings  []SettingsRecord
}

// Snapshot is what gets archived before the target is cleared.
type Snapshot struct {
	RunID     uuid.UUID        `json:"run_id"`
	UserID    int64            `json:"user_id"`
	CreatedAt time.Time        `json:"created_at"`
	Diary     []DiaryEntry     `json:"diary"`
	Weights   []WeightEntry    `json:"weights"`
	Catalogue []SnapshotItem   `json:"catalogue"`
	Settings  []SettingsRecord `json:"settings"`
}

// SnapshotItem is a catalogue item as archived.
type SnapshotItem struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	Kcals float64 `json:"kcals"`
	Owner string  `json:"owner"`
}

// NewSnapshot captures dataset for archiving.
func NewSnapshot(runID uuid.UUID, userID int64, createdAt time.Time, dataset Dataset) Snapshot {
	items := make([]SnapshotItem, 0, len(dataset.Catalogue))
	for _, item := range dataset.Catalogue {
		items = append(items, SnapshotItem{ID: item.ID, Name: item.Name, Kcals: item.Kcals, Owner: item.Owner.String()})
	}

	return Snapshot{
		RunID:     runID,
		UserID:    userID,
		CreatedAt: createdAt,
		Diary:     dataset.Diary,
		Weights:   dataset.Weights,
		Catalogue: items,
		Settings:  dataset.Settings,
	}
}

// Report summarizes a migration run.
type Report struct {
	RunID       uuid.UUID
	UserID      int64
	State       State
	DryRun      bool
	Diary       int
	Weights     int
	Catalogue   int
	Settings    int
	Warnings    []error
	SnapshotKey string
	Duration    time.Duration
}

// MigrationMetrics records run outcomes. ObserveRun gets the terminal state and
// the last stage the run reached.
type MigrationMetrics interface {
	ObserveRun(outcome State, stage State, duration time.Duration)
	AddRecords(table string, count int)
	AddWarnings(count int)
}
