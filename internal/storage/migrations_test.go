package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrate(t *testing.T) {
	store, err := NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	ctx := context.Background()

	version, err := store.SchemaVersion(ctx)
	require.NoError(t, err)
	assert.Zero(t, version, "fresh database starts unversioned")

	require.NoError(t, store.Migrate(ctx))

	version, err = store.SchemaVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, ExpectedSchemaVersion, version)

	// Running again is a no-op.
	require.NoError(t, store.Migrate(ctx))
}

func TestMigrate_FingerprintConsistencyCheck(t *testing.T) {
	store := testStorage(t)

	// Fingerprint bits without a version must be rejected by the schema.
	_, err := store.db.Exec(`
		INSERT INTO snapshots (id, fingerprint) VALUES ('bad', X'01')`)
	assert.Error(t, err)
}
