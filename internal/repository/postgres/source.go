package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/dtroode/foodtracker-migrator/internal/model"
)

var _ model.SourceStore = (*SourceRepository)(nil)

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// SourceRepository reads the legacy food tables. It never writes.
type SourceRepository struct {
	db querier
}

func NewSourceRepository(db *Connection) *SourceRepository {
	return &SourceRepository{
		db: db,
	}
}

func (r *SourceRepository) ReadUserDiary(ctx context.Context, userID int64) ([]model.SourceDiaryEntry, error) {
	query := `
		SELECT d.id, d.date::text, d.food_catalogue_id, d.food_weight, COALESCE(d.history::text, ''), d.users_id
		FROM food_diary d
		WHERE d.users_id = $1
		ORDER BY d.date ASC, d.id ASC`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, sourceError("diary", err)
	}
	defer rows.Close()

	var entries []model.SourceDiaryEntry
	for rows.Next() {
		var e model.SourceDiaryEntry
		if err := rows.Scan(&e.ID, &e.Date, &e.CatalogueItemID, &e.WeightGrams, &e.History, &e.UserID); err != nil {
			return nil, sourceError("diary", err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, sourceError("diary", err)
	}

	return entries, nil
}

func (r *SourceRepository) ReadUserWeights(ctx context.Context, userID int64) ([]model.SourceWeightEntry, error) {
	query := `
		SELECT w.id, w.date::text, w.weight, w.users_id
		FROM food_body_weight w
		WHERE w.users_id = $1
		ORDER BY w.date ASC, w.id ASC`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, sourceError("body weights", err)
	}
	defer rows.Close()

	var entries []model.SourceWeightEntry
	for rows.Next() {
		var e model.SourceWeightEntry
		if err := rows.Scan(&e.ID, &e.Date, &e.Weight, &e.UserID); err != nil {
			return nil, sourceError("body weights", err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, sourceError("body weights", err)
	}

	return entries, nil
}

func (r *SourceRepository) ReadCatalogue(ctx context.Context) ([]model.CatalogueItem, error) {
	query := `
		SELECT c.id, c.name, c.kcals, c.users_id
		FROM food_catalogue c
		ORDER BY c.id ASC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, sourceError("catalogue", err)
	}
	defer rows.Close()

	var items []model.CatalogueItem
	for rows.Next() {
		var item model.CatalogueItem
		var ownerID int64
		if err := rows.Scan(&item.ID, &item.Name, &item.Kcals, &ownerID); err != nil {
			return nil, sourceError("catalogue", err)
		}
		item.Owner = model.OwnerFromSourceID(ownerID)
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, sourceError("catalogue", err)
	}

	return items, nil
}

func (r *SourceRepository) ReadSettings(ctx context.Context) ([]model.SettingsRecord, error) {
	query := `
		SELECT s.user_id, s.coefficients::text, COALESCE(s.up_to_date, false), s.stats::text
		FROM food_settings s
		ORDER BY s.user_id ASC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, sourceError("settings", err)
	}
	defer rows.Close()

	var records []model.SettingsRecord
	for rows.Next() {
		var rec model.SettingsRecord
		if err := rows.Scan(&rec.UserID, &rec.Coefficients, &rec.UpToDate, &rec.Stats); err != nil {
			return nil, sourceError("settings", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, sourceError("settings", err)
	}

	return records, nil
}

func sourceError(what string, err error) error {
	return fmt.Errorf("%w: failed to read %s: %v", model.ErrSourceUnavailable, what, err)
}
