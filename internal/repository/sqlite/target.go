package sqlite

import (
	"context"
	"fmt"

	"github.com/dtroode/foodtracker-migrator/internal/codec"
	"github.com/dtroode/foodtracker-migrator/internal/model"
)

var _ model.TargetStore = (*TargetRepository)(nil)

// TargetRepository clears and writes the target tables. Every statement runs
// on its own, there is no enclosing transaction.
type TargetRepository struct {
	db *Connection
}

func NewTargetRepository(db *Connection) *TargetRepository {
	return &TargetRepository{
		db: db,
	}
}

func (r *TargetRepository) ClearUserDiary(ctx context.Context, userID int64) error {
	return r.clear(ctx, "foodDiary", `DELETE FROM foodDiary WHERE usersId = ?`, userID)
}

func (r *TargetRepository) ClearUserWeights(ctx context.Context, userID int64) error {
	return r.clear(ctx, "foodBodyWeight", `DELETE FROM foodBodyWeight WHERE usersId = ?`, userID)
}

func (r *TargetRepository) ClearCatalogue(ctx context.Context) error {
	return r.clear(ctx, "foodCatalogue", `DELETE FROM foodCatalogue`)
}

func (r *TargetRepository) ClearSettings(ctx context.Context) error {
	return r.clear(ctx, "foodSettings", `DELETE FROM foodSettings`)
}

func (r *TargetRepository) clear(ctx context.Context, table, query string, args ...any) error {
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: failed to clear %s: %v", model.ErrWriteFailed, table, err)
	}
	return nil
}

func (r *TargetRepository) WriteDiary(ctx context.Context, entries []model.DiaryEntry) error {
	query := `
		INSERT INTO foodDiary (id, date, dateISO, foodCatalogueId, foodWeight, history, usersId, ver, del)
		VALUES (?, ?, ?, ?, ?, ?, ?, 0, 0)`

	for i, e := range entries {
		_, err := r.db.ExecContext(ctx, query,
			e.ID, e.Timestamp, e.DateISO, e.CatalogueItemID, e.WeightGrams, e.History, e.UserID,
		)
		if err != nil {
			return rowError("foodDiary", i, e.ID, err)
		}
	}

	return nil
}

func (r *TargetRepository) WriteWeights(ctx context.Context, entries []model.WeightEntry) error {
	query := `
		INSERT INTO foodBodyWeight (id, date, dateISO, weight, usersId)
		VALUES (?, ?, ?, ?, ?)`

	for i, e := range entries {
		_, err := r.db.ExecContext(ctx, query, e.ID, e.Timestamp, e.DateISO, e.Weight, e.UserID)
		if err != nil {
			return rowError("foodBodyWeight", i, e.ID, err)
		}
	}

	return nil
}

func (r *TargetRepository) WriteCatalogue(ctx context.Context, items []model.CatalogueItem) error {
	query := `INSERT INTO foodCatalogue (id, name, kcals) VALUES (?, ?, ?)`

	for i, item := range items {
		if _, err := r.db.ExecContext(ctx, query, item.ID, item.Name, item.Kcals); err != nil {
			return rowError("foodCatalogue", i, item.ID, err)
		}
	}

	return nil
}

func (r *TargetRepository) WriteSettings(ctx context.Context, records []model.SettingsRecord) error {
	query := `
		INSERT INTO foodSettings (usersId, selectedCatalogueIds, coefficients, upToDate, stats)
		VALUES (?, ?, ?, ?, ?)`

	for i, rec := range records {
		ids, err := codec.EncodeIDs(rec.SelectedCatalogueIDs)
		if err != nil {
			return rowError("foodSettings", i, rec.UserID, err)
		}

		_, err = r.db.ExecContext(ctx, query, rec.UserID, ids, rec.Coefficients, rec.UpToDate, rec.Stats)
		if err != nil {
			return rowError("foodSettings", i, rec.UserID, err)
		}
	}

	return nil
}

func rowError(table string, index int, id int64, err error) error {
	return fmt.Errorf("%w: %s row %d (id %d): %v", model.ErrWriteFailed, table, index, id, err)
}
