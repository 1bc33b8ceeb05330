package sqlite

import (
	"context"
	"database/sql/driver"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/foodtracker-migrator/internal/model"
)

func newMockRepository(t *testing.T) (*TargetRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewTargetRepository(&Connection{DB: db}), mock
}

func strPtr(s string) *string {
	return &s
}

func TestNewTargetRepository(t *testing.T) {
	db := &Connection{}
	repo := NewTargetRepository(db)

	assert.NotNil(t, repo)
	assert.Equal(t, db, repo.db)
}

func TestTargetRepository_Clear(t *testing.T) {
	tests := []struct {
		name  string
		query string
		args  []any
		call  func(context.Context, *TargetRepository) error
	}{
		{
			name:  "user diary",
			query: `DELETE FROM foodDiary WHERE usersId = \?`,
			args:  []any{int64(7)},
			call:  func(ctx context.Context, r *TargetRepository) error { return r.ClearUserDiary(ctx, 7) },
		},
		{
			name:  "user weights",
			query: `DELETE FROM foodBodyWeight WHERE usersId = \?`,
			args:  []any{int64(7)},
			call:  func(ctx context.Context, r *TargetRepository) error { return r.ClearUserWeights(ctx, 7) },
		},
		{
			name:  "catalogue",
			query: `DELETE FROM foodCatalogue`,
			call:  func(ctx context.Context, r *TargetRepository) error { return r.ClearCatalogue(ctx) },
		},
		{
			name:  "settings",
			query: `DELETE FROM foodSettings`,
			call:  func(ctx context.Context, r *TargetRepository) error { return r.ClearSettings(ctx) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name+" success", func(t *testing.T) {
			repo, mock := newMockRepository(t)
			exp := mock.ExpectExec(tt.query)
			if len(tt.args) > 0 {
				exp = exp.WithArgs(toDriverValues(tt.args)...)
			}
			exp.WillReturnResult(sqlmock.NewResult(0, 3))

			require.NoError(t, tt.call(context.Background(), repo))
			assert.NoError(t, mock.ExpectationsWereMet())
		})

		t.Run(tt.name+" failure", func(t *testing.T) {
			repo, mock := newMockRepository(t)
			mock.ExpectExec(tt.query).WillReturnError(errors.New("disk I/O error"))

			err := tt.call(context.Background(), repo)
			require.Error(t, err)
			assert.ErrorIs(t, err, model.ErrWriteFailed)
			assert.Contains(t, err.Error(), "disk I/O error")
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func toDriverValues(args []any) []driver.Value {
	out := make([]driver.Value, 0, len(args))
	for _, a := range args {
		out = append(out, a)
	}
	return out
}

func TestTargetRepository_WriteDiary(t *testing.T) {
	repo, mock := newMockRepository(t)

	entries := []model.DiaryEntry{
		{ID: 1, Timestamp: 1704103200, DateISO: "2024-01-01", CatalogueItemID: 10, WeightGrams: 150, History: "[]", UserID: 7},
		{ID: 2, Timestamp: 1704189601, DateISO: "2024-01-02", CatalogueItemID: 11, WeightGrams: 80.5, History: "", UserID: 7},
	}

	for _, e := range entries {
		mock.ExpectExec(`INSERT INTO foodDiary`).
			WithArgs(e.ID, e.Timestamp, e.DateISO, e.CatalogueItemID, e.WeightGrams, e.History, e.UserID).
			WillReturnResult(sqlmock.NewResult(e.ID, 1))
	}

	require.NoError(t, repo.WriteDiary(context.Background(), entries))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTargetRepository_WriteDiary_StopsOnRejectedRow(t *testing.T) {
	repo, mock := newMockRepository(t)

	entries := make([]model.DiaryEntry, 5)
	for i := range entries {
		entries[i] = model.DiaryEntry{ID: int64(i + 1), Timestamp: int64(1704103200 + i), DateISO: "2024-01-01", UserID: 7}
	}

	mock.ExpectExec(`INSERT INTO foodDiary`).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO foodDiary`).WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectExec(`INSERT INTO foodDiary`).WillReturnError(errors.New("UNIQUE constraint failed: foodDiary.id"))

	err := repo.WriteDiary(context.Background(), entries)
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrWriteFailed)
	assert.Contains(t, err.Error(), "row 2 (id 3)")
	// rows four and five are never attempted
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTargetRepository_WriteWeights(t *testing.T) {
	repo, mock := newMockRepository(t)

	entries := []model.WeightEntry{
		{ID: 5, Timestamp: 1704103200, DateISO: "2024-01-01", Weight: 81.2, UserID: 7},
	}

	mock.ExpectExec(`INSERT INTO foodBodyWeight`).
		WithArgs(int64(5), int64(1704103200), "2024-01-01", 81.2, int64(7)).
		WillReturnResult(sqlmock.NewResult(5, 1))

	require.NoError(t, repo.WriteWeights(context.Background(), entries))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTargetRepository_WriteWeights_Error(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectExec(`INSERT INTO foodBodyWeight`).WillReturnError(errors.New("database is locked"))

	err := repo.WriteWeights(context.Background(), []model.WeightEntry{{ID: 5}})
	assert.ErrorIs(t, err, model.ErrWriteFailed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTargetRepository_WriteCatalogue(t *testing.T) {
	repo, mock := newMockRepository(t)

	items := []model.CatalogueItem{
		{ID: 1, Name: "Apple", Kcals: 52, Owner: model.GlobalOwner()},
		{ID: 2, Name: "Porridge", Kcals: 88, Owner: model.UserOwner(3)},
	}

	mock.ExpectExec(`INSERT INTO foodCatalogue`).WithArgs(int64(1), "Apple", float64(52)).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO foodCatalogue`).WithArgs(int64(2), "Porridge", float64(88)).WillReturnResult(sqlmock.NewResult(2, 1))

	require.NoError(t, repo.WriteCatalogue(context.Background(), items))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTargetRepository_WriteSettings(t *testing.T) {
	repo, mock := newMockRepository(t)

	records := []model.SettingsRecord{
		{UserID: 3, SelectedCatalogueIDs: []int64{1, 2}, Coefficients: strPtr(`{"a":1}`), UpToDate: true, Stats: strPtr("{}")},
		{UserID: 5, SelectedCatalogueIDs: nil},
	}

	mock.ExpectExec(`INSERT INTO foodSettings`).
		WithArgs(int64(3), "[1,2]", `{"a":1}`, true, "{}").
		WillReturnResult(sqlmock.NewResult(3, 1))
	mock.ExpectExec(`INSERT INTO foodSettings`).
		WithArgs(int64(5), "[]", nil, false, nil).
		WillReturnResult(sqlmock.NewResult(5, 1))

	require.NoError(t, repo.WriteSettings(context.Background(), records))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTargetRepository_WriteEmpty(t *testing.T) {
	repo, mock := newMockRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.WriteDiary(ctx, nil))
	require.NoError(t, repo.WriteWeights(ctx, nil))
	require.NoError(t, repo.WriteCatalogue(ctx, nil))
	require.NoError(t, repo.WriteSettings(ctx, nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}
