package export

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/glintfin/glint/internal/model"
	"github.com/glintfin/glint/internal/service"
	"github.com/glintfin/glint/internal/storage"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func testStorage(t *testing.T) service.Storage {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	require.NoError(t, store.Migrate(context.Background()))
	t.Cleanup(func() { _ = store.Close() })

	return store
}

func saveSnapshotAt(t *testing.T, store service.Storage, id string, capturedAt *time.Time) {
	t.Helper()
	require.NoError(t, store.SaveSnapshot(context.Background(), &model.Snapshot{
		ID:         id,
		CapturedAt: capturedAt,
		Image:      []byte("image-" + id),
		CreatedAt:  time.Now(),
	}))
}

func sheetRows(t *testing.T, data []byte) [][]string {
	t.Helper()

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })

	rows, err := f.GetRows("Snapshots")
	require.NoError(t, err)
	return rows
}

func TestXLSX(t *testing.T) {
	store := testStorage(t)
	ctx := context.Background()

	category, err := store.CreateCategory(ctx, "Checking", "#FF6B6B")
	require.NoError(t, err)

	capturedAt := time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)
	saveSnapshotAt(t, store, "snap-1", &capturedAt)

	value := decimal.RequireFromString("1234.56")
	require.NoError(t, store.SetSnapshotValue(ctx, "snap-1", value, "$1,234.56", 0.95))
	require.NoError(t, store.AssignSnapshotCategory(ctx, "snap-1", category.ID))

	data, err := NewService(store).XLSX(ctx, nil, nil)
	require.NoError(t, err)

	rows := sheetRows(t, data)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"Captured", "Value", "Series", "Trust", "Source Text", "Error"}, rows[0])
	assert.Equal(t, "2026-03-15 10:30", rows[1][0])
	assert.Equal(t, "1234.56", rows[1][1])
	assert.Equal(t, "Checking", rows[1][2])
	assert.Equal(t, "automatic", rows[1][3])
	assert.Equal(t, "$1,234.56", rows[1][4])
}

func TestXLSX_DateWindow(t *testing.T) {
	store := testStorage(t)
	ctx := context.Background()

	january := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	june := time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC)
	saveSnapshotAt(t, store, "january", &january)
	saveSnapshotAt(t, store, "june", &june)
	saveSnapshotAt(t, store, "undated", nil)

	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	data, err := NewService(store).XLSX(ctx, &from, nil)
	require.NoError(t, err)

	rows := sheetRows(t, data)
	// Header plus the June snapshot; the January and undated ones fall
	// outside a bounded window.
	require.Len(t, rows, 2)
	assert.Equal(t, "2026-06-10 00:00", rows[1][0])
}

func TestXLSX_EmptyCollection(t *testing.T) {
	store := testStorage(t)

	data, err := NewService(store).XLSX(context.Background(), nil, nil)
	require.NoError(t, err)

	rows := sheetRows(t, data)
	require.Len(t, rows, 1, "header only")
}
