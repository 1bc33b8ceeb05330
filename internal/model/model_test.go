package model

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRoster(t *testing.T) {
	r := NewRoster(5, 3, 5, 9)

	assert.Equal(t, []int64{3, 5, 9}, r.IDs())
	assert.Equal(t, 3, r.Len())
	assert.True(t, r.Contains(5))
	assert.False(t, r.Contains(4))

	ids := r.IDs()
	ids[0] = 100
	assert.True(t, r.Contains(3), "IDs must return a copy")

	empty := NewRoster()
	assert.Zero(t, empty.Len())
	assert.False(t, empty.Contains(0))
}

func TestNewRoster_DoesNotKeepInput(t *testing.T) {
	input := []int64{2, 1}
	r := NewRoster(input...)
	input[0] = 7

	assert.Equal(t, []int64{1, 2}, r.IDs())
}

func TestOwner(t *testing.T) {
	tests := []struct {
		name       string
		owner      Owner
		wantGlobal bool
		wantUser   int64
		wantString string
	}{
		{name: "global", owner: GlobalOwner(), wantGlobal: true, wantString: "global"},
		{name: "user", owner: UserOwner(3), wantUser: 3, wantString: "user:3"},
		{name: "source zero", owner: OwnerFromSourceID(0), wantGlobal: true, wantString: "global"},
		{name: "source user", owner: OwnerFromSourceID(42), wantUser: 42, wantString: "user:42"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantGlobal, tt.owner.IsGlobal())
			assert.Equal(t, tt.wantString, tt.owner.String())

			id, ok := tt.owner.UserID()
			assert.Equal(t, !tt.wantGlobal, ok)
			assert.Equal(t, tt.wantUser, id)
		})
	}

	assert.Equal(t, GlobalOwner(), OwnerFromSourceID(0))
	assert.NotEqual(t, GlobalOwner(), UserOwner(0))
}

func TestState_Destructive(t *testing.T) {
	destructive := map[State]bool{
		StateReading:      false,
		StateTransforming: false,
		StateClearing:     true,
		StateWriting:      true,
		StateSucceeded:    false,
		StateFailed:       false,
	}

	for state, want := range destructive {
		assert.Equal(t, want, state.Destructive(), string(state))
	}
}

func TestMigrationError(t *testing.T) {
	cause := fmt.Errorf("%w: foodDiary row 2 (id 3): constraint failed", ErrWriteFailed)
	var err error = &MigrationError{State: StateWriting, Err: cause}
	wrapped := fmt.Errorf("failed to run: %w", err)

	assert.Equal(t, "migration failed while writing: write failed: foodDiary row 2 (id 3): constraint failed", err.Error())
	assert.ErrorIs(t, wrapped, ErrWriteFailed)
	assert.False(t, errors.Is(wrapped, ErrSourceUnavailable))

	var migrationErr *MigrationError
	require.ErrorAs(t, wrapped, &migrationErr)
	assert.Equal(t, StateWriting, migrationErr.State)
}

func TestNewSnapshot(t *testing.T) {
	runID := uuid.New()
	createdAt := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	dataset := Dataset{
		Diary: []DiaryEntry{{ID: 1, Timestamp: 1704103200, UserID: 3}},
		Catalogue: []CatalogueItem{
			{ID: 1, Name: "Apple", Kcals: 52, Owner: GlobalOwner()},
			{ID: 2, Name: "Porridge", Kcals: 88, Owner: UserOwner(3)},
		},
		Settings: []SettingsRecord{{UserID: 3, SelectedCatalogueIDs: []int64{1, 2}}},
	}

	snapshot := NewSnapshot(runID, 3, createdAt, dataset)

	assert.Equal(t, runID, snapshot.RunID)
	assert.Equal(t, int64(3), snapshot.UserID)
	assert.Equal(t, createdAt, snapshot.CreatedAt)
	assert.Equal(t, dataset.Diary, snapshot.Diary)
	assert.Empty(t, snapshot.Weights)
	assert.Equal(t, dataset.Settings, snapshot.Settings)
	assert.Equal(t, []SnapshotItem{
		{ID: 1, Name: "Apple", Kcals: 52, Owner: "global"},
		{ID: 2, Name: "Porridge", Kcals: 88, Owner: "user:3"},
	}, snapshot.Catalogue)
}
