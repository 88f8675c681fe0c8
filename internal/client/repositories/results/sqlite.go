package results

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dzaky3022/wincal/internal/client/models"
	"github.com/dzaky3022/wincal/internal/common"
	"github.com/dzaky3022/wincal/internal/dbx"
)

const resultColumns = `id, owner_id, title, description, room_temp, temp_unit,
	weight, weight_unit, activity_level, drink_amount, water_unit,
	result_value, percentage, gender, image_url, local_image_path,
	delete_image, created_at, updated_at, sync_state, deleted`

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or
// *sql.Tx). Mutations wake every live Watch subscription.
type SQLiteRepository struct {
	db  dbx.DBTX
	hub *notifier
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db, hub: newNotifier()}
}

func fmtTime(t time.Time) string { return t.UTC().Format(time.RFC3339Nano) }

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

const upsertQuery = `INSERT INTO water_results (` + resultColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			owner_id = excluded.owner_id,
			title = excluded.title,
			description = excluded.description,
			room_temp = excluded.room_temp,
			temp_unit = excluded.temp_unit,
			weight = excluded.weight,
			weight_unit = excluded.weight_unit,
			activity_level = excluded.activity_level,
			drink_amount = excluded.drink_amount,
			water_unit = excluded.water_unit,
			result_value = excluded.result_value,
			percentage = excluded.percentage,
			gender = excluded.gender,
			image_url = excluded.image_url,
			local_image_path = excluded.local_image_path,
			delete_image = excluded.delete_image,
			created_at = excluded.created_at,
			updated_at = excluded.updated_at,
			sync_state = excluded.sync_state,
			deleted = excluded.deleted
	`

// InsertOrReplace upserts a record by id. On conflict every column is
// replaced, which is what both local creation and server adoption need.
func (r *SQLiteRepository) InsertOrReplace(ctx context.Context, w *models.WaterResult) error {
	if err := r.upsert(ctx, r.db, w); err != nil {
		return err
	}
	r.hub.broadcast()
	return nil
}

func (r *SQLiteRepository) upsert(ctx context.Context, db dbx.DBTX, w *models.WaterResult) error {
	if _, err := db.ExecContext(ctx, upsertQuery, r.args(w)...); err != nil {
		return fmt.Errorf("failed to upsert water result: %w", err)
	}
	return nil
}

// Adopt atomically replaces the row oldID with w. The two rows differ in
// primary key, so this is a delete plus an insert inside one transaction:
// either both land or neither, and no reader ever sees the record missing
// or doubled.
func (r *SQLiteRepository) Adopt(ctx context.Context, oldID string, w *models.WaterResult) error {
	swap := func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM water_results WHERE id = ?`, oldID); err != nil {
			return fmt.Errorf("failed to drop pre-sync row: %w", err)
		}
		return r.upsert(ctx, tx, w)
	}

	var err error
	if db, ok := r.db.(*sql.DB); ok {
		err = dbx.WithTx(ctx, db, nil, swap)
	} else {
		// Already inside a caller-owned transaction.
		err = swap(ctx, r.db)
	}
	if err != nil {
		return err
	}
	r.hub.broadcast()
	return nil
}

func (r *SQLiteRepository) args(w *models.WaterResult) []any {
	return []any{
		w.ID, w.OwnerID, w.Title, w.Description, w.RoomTemp, string(w.TempUnit),
		w.Weight, string(w.WeightUnit), string(w.ActivityLevel), w.DrinkAmount,
		string(w.WaterUnit), w.ResultValue, w.Percentage, string(w.Gender),
		w.ImageURL, w.LocalImagePath, w.DeleteImage,
		fmtTime(w.CreatedAt), fmtTime(w.UpdatedAt), int(w.State), w.Deleted,
	}
}

// Update rewrites all mutable columns of an existing row.
func (r *SQLiteRepository) Update(ctx context.Context, w *models.WaterResult) (int64, error) {
	query := `UPDATE water_results SET
			title = ?, description = ?, room_temp = ?, temp_unit = ?,
			weight = ?, weight_unit = ?, activity_level = ?, drink_amount = ?,
			water_unit = ?, result_value = ?, percentage = ?, gender = ?,
			image_url = ?, local_image_path = ?, delete_image = ?,
			created_at = ?, updated_at = ?, sync_state = ?, deleted = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		w.Title, w.Description, w.RoomTemp, string(w.TempUnit),
		w.Weight, string(w.WeightUnit), string(w.ActivityLevel), w.DrinkAmount,
		string(w.WaterUnit), w.ResultValue, w.Percentage, string(w.Gender),
		w.ImageURL, w.LocalImagePath, w.DeleteImage,
		fmtTime(w.CreatedAt), fmtTime(w.UpdatedAt), int(w.State), w.Deleted,
		w.ID,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to update water result: %w", err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if ra > 0 {
		r.hub.broadcast()
	}
	return ra, nil
}

// Delete removes the row entirely.
func (r *SQLiteRepository) Delete(ctx context.Context, id string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM water_results WHERE id = ?`, id)
	if err != nil {
		return 0, fmt.Errorf("failed to delete water result: %w", err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if ra > 0 {
		r.hub.broadcast()
	}
	return ra, nil
}

// GetByID returns a single record, tombstoned rows included: the
// reconciler must still see rows that are hidden from the UI.
func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.WaterResult, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+resultColumns+` FROM water_results WHERE id = ?`, id)
	w, err := scanResult(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("query row scan failed: %w", err)
	}
	return w, nil
}

// ListByOwner returns the owner's non-tombstoned records, newest first.
func (r *SQLiteRepository) ListByOwner(ctx context.Context, ownerID string) ([]*models.WaterResult, error) {
	query := `SELECT ` + resultColumns + ` FROM water_results
		WHERE owner_id = ? AND deleted = 0 ORDER BY created_at DESC`
	return r.queryList(ctx, query, ownerID)
}

// ListPending returns every record awaiting the given push operation.
func (r *SQLiteRepository) ListPending(ctx context.Context, state models.SyncState) ([]*models.WaterResult, error) {
	query := `SELECT ` + resultColumns + ` FROM water_results WHERE sync_state = ?`
	return r.queryList(ctx, query, int(state))
}

// DeleteAllByOwner wipes every row of the owner, used on account deletion.
func (r *SQLiteRepository) DeleteAllByOwner(ctx context.Context, ownerID string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM water_results WHERE owner_id = ?`, ownerID)
	if err != nil {
		return 0, fmt.Errorf("failed to wipe water results: %w", err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if ra > 0 {
		r.hub.broadcast()
	}
	return ra, nil
}

func (r *SQLiteRepository) queryList(ctx context.Context, query string, args ...any) ([]*models.WaterResult, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select water results: %w", err)
	}
	defer rows.Close()

	var result []*models.WaterResult
	for rows.Next() {
		w, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, w)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanResult(s scanner) (*models.WaterResult, error) {
	var (
		w                    models.WaterResult
		tempUnit, weightUnit string
		activity, waterUnit  string
		gender               string
		createdAt, updatedAt string
		state                int
	)
	err := s.Scan(
		&w.ID, &w.OwnerID, &w.Title, &w.Description, &w.RoomTemp, &tempUnit,
		&w.Weight, &weightUnit, &activity, &w.DrinkAmount, &waterUnit,
		&w.ResultValue, &w.Percentage, &gender, &w.ImageURL, &w.LocalImagePath,
		&w.DeleteImage, &createdAt, &updatedAt, &state, &w.Deleted,
	)
	if err != nil {
		return nil, err
	}
	w.TempUnit = models.TempUnit(tempUnit)
	w.WeightUnit = models.WeightUnit(weightUnit)
	w.ActivityLevel = models.ActivityLevel(activity)
	w.WaterUnit = models.WaterUnit(waterUnit)
	w.Gender = models.Gender(gender)
	w.CreatedAt = parseTime(createdAt)
	w.UpdatedAt = parseTime(updatedAt)
	w.State = models.SyncState(state)
	return &w, nil
}
