package results

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/dzaky3022/wincal/internal/client/models"
	"github.com/dzaky3022/wincal/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE water_results (
  id TEXT PRIMARY KEY,
  owner_id TEXT NOT NULL,
  title TEXT NOT NULL DEFAULT '',
  description TEXT NOT NULL DEFAULT '',
  room_temp REAL NOT NULL DEFAULT 0,
  temp_unit TEXT NOT NULL DEFAULT 'CELSIUS',
  weight REAL NOT NULL DEFAULT 0,
  weight_unit TEXT NOT NULL DEFAULT 'KILOGRAM',
  activity_level TEXT NOT NULL DEFAULT 'LOW',
  drink_amount REAL NOT NULL DEFAULT 0,
  water_unit TEXT NOT NULL DEFAULT 'ML',
  result_value REAL NOT NULL DEFAULT 0,
  percentage REAL NOT NULL DEFAULT 0,
  gender TEXT NOT NULL DEFAULT 'MALE',
  image_url TEXT NOT NULL DEFAULT '',
  local_image_path TEXT NOT NULL DEFAULT '',
  delete_image INTEGER NOT NULL DEFAULT 0,
  created_at TIMESTAMP NOT NULL,
  updated_at TIMESTAMP NOT NULL,
  sync_state INTEGER NOT NULL DEFAULT 0,
  deleted INTEGER NOT NULL DEFAULT 0
);
`)
	require.NoError(t, err)

	return db
}

func sample(id, owner string, state models.SyncState) *models.WaterResult {
	return &models.WaterResult{
		ID:            id,
		OwnerID:       owner,
		Title:         "Morning Sip",
		RoomTemp:      22,
		TempUnit:      models.TempCelsius,
		Weight:        70,
		WeightUnit:    models.WeightKilogram,
		ActivityLevel: models.ActivityLow,
		DrinkAmount:   500,
		WaterUnit:     models.WaterMl,
		ResultValue:   2695,
		Percentage:    18.5,
		Gender:        models.GenderMale,
		CreatedAt:     time.Now().UTC(),
		UpdatedAt:     time.Now().UTC(),
		State:         state,
	}
}

func TestInsertOrReplace_InsertAndAdopt(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	// insert
	w := sample("local-1", "u1", models.StatePendingCreate)
	require.NoError(t, r.InsertOrReplace(ctx, w))

	got, err := r.GetByID(ctx, "local-1")
	require.NoError(t, err)
	assert.Equal(t, "Morning Sip", got.Title)
	assert.Equal(t, models.StatePendingCreate, got.State)
	assert.Equal(t, models.TempCelsius, got.TempUnit)

	// replace under the same id with the server's version
	w2 := sample("local-1", "u1", models.StateClean)
	w2.Title = "Noon Gulp"
	w2.ImageURL = "https://cdn.example.com/1.jpg"
	require.NoError(t, r.InsertOrReplace(ctx, w2))

	got, err = r.GetByID(ctx, "local-1")
	require.NoError(t, err)
	assert.Equal(t, "Noon Gulp", got.Title)
	assert.Equal(t, models.StateClean, got.State)
	assert.Equal(t, "https://cdn.example.com/1.jpg", got.ImageURL)
}

func TestAdopt_SwapsRowAtomically(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	local := sample("local-1", "u1", models.StatePendingCreate)
	require.NoError(t, r.InsertOrReplace(ctx, local))

	adopted := sample("srv-42", "u1", models.StateClean)
	adopted.Title = "Noon Gulp"
	require.NoError(t, r.Adopt(ctx, "local-1", adopted))

	_, err := r.GetByID(ctx, "local-1")
	assert.ErrorIs(t, err, common.ErrNotFound)

	got, err := r.GetByID(ctx, "srv-42")
	require.NoError(t, err)
	assert.Equal(t, "Noon Gulp", got.Title)
	assert.Equal(t, models.StateClean, got.State)

	// exactly one row survives the swap
	list, err := r.ListByOwner(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestAdopt_RollsBackOnConflict(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.InsertOrReplace(ctx, sample("local-1", "u1", models.StatePendingCreate)))

	// Force the insert half to fail so the delete half must be undone.
	bad := sample("srv-42", "u1", models.StateClean)
	_, err := db.Exec(`CREATE TRIGGER reject_srv BEFORE INSERT ON water_results
		WHEN NEW.id = 'srv-42' BEGIN SELECT RAISE(ABORT, 'rejected'); END`)
	require.NoError(t, err)

	require.Error(t, r.Adopt(ctx, "local-1", bad))

	got, err := r.GetByID(ctx, "local-1")
	require.NoError(t, err)
	assert.Equal(t, models.StatePendingCreate, got.State)
}

func TestGetByID_NotFound(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)

	_, err := r.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestUpdate_ReportsAffectedRows(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	w := sample("id1", "u1", models.StateClean)
	require.NoError(t, r.InsertOrReplace(ctx, w))

	w.Title = "Evening Chug"
	w.State = models.StatePendingUpdate
	n, err := r.Update(ctx, w)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err := r.GetByID(ctx, "id1")
	require.NoError(t, err)
	assert.Equal(t, "Evening Chug", got.Title)
	assert.Equal(t, models.StatePendingUpdate, got.State)

	missing := sample("nope", "u1", models.StateClean)
	n, err = r.Update(ctx, missing)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestDelete(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.InsertOrReplace(ctx, sample("id1", "u1", models.StateClean)))

	n, err := r.Delete(ctx, "id1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = r.GetByID(ctx, "id1")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestListByOwner_ScopesAndHidesTombstones(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	a := sample("a", "u1", models.StateClean)
	a.CreatedAt = time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	b := sample("b", "u1", models.StateClean)
	b.CreatedAt = time.Date(2025, 5, 2, 10, 0, 0, 0, time.UTC)
	tomb := sample("c", "u1", models.StatePendingDelete)
	tomb.Deleted = true
	other := sample("d", "u2", models.StateClean)

	for _, w := range []*models.WaterResult{a, b, tomb, other} {
		require.NoError(t, r.InsertOrReplace(ctx, w))
	}

	got, err := r.ListByOwner(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	// newest first, no cross-owner rows, no tombstones
	assert.Equal(t, "b", got[0].ID)
	assert.Equal(t, "a", got[1].ID)
}

func TestListPending(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.InsertOrReplace(ctx, sample("n", "u1", models.StatePendingCreate)))
	require.NoError(t, r.InsertOrReplace(ctx, sample("u", "u1", models.StatePendingUpdate)))
	tomb := sample("d", "u1", models.StatePendingDelete)
	tomb.Deleted = true
	require.NoError(t, r.InsertOrReplace(ctx, tomb))
	require.NoError(t, r.InsertOrReplace(ctx, sample("c", "u1", models.StateClean)))

	creates, err := r.ListPending(ctx, models.StatePendingCreate)
	require.NoError(t, err)
	require.Len(t, creates, 1)
	assert.Equal(t, "n", creates[0].ID)

	updates, err := r.ListPending(ctx, models.StatePendingUpdate)
	require.NoError(t, err)
	require.Len(t, updates, 1)
	assert.Equal(t, "u", updates[0].ID)

	// tombstoned rows must still be visible to the reconciler
	deletes, err := r.ListPending(ctx, models.StatePendingDelete)
	require.NoError(t, err)
	require.Len(t, deletes, 1)
	assert.Equal(t, "d", deletes[0].ID)
}

func TestDeleteAllByOwner(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.InsertOrReplace(ctx, sample("a", "u1", models.StateClean)))
	require.NoError(t, r.InsertOrReplace(ctx, sample("b", "u1", models.StateClean)))
	require.NoError(t, r.InsertOrReplace(ctx, sample("c", "u2", models.StateClean)))

	n, err := r.DeleteAllByOwner(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	left, err := r.ListByOwner(ctx, "u2")
	require.NoError(t, err)
	assert.Len(t, left, 1)
}
