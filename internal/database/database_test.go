package database

import (
	"path/filepath"
	"testing"

	"github.com/monorkin/hyperview-dit/internal/models"
	"github.com/stretchr/testify/require"
)

func TestOpenAppliesMigrations(t *testing.T) {
	require := require.New(t)

	path := filepath.Join(t.TempDir(), "export.sqlite")

	db, err := Open(path)
	require.NoError(err)
	require.Equal(SchemaVersion(1), CurrentSchemaVersion(db))
	require.True(db.Migrator().HasTable(&models.ExportedRecord{}))

	record := models.ExportedRecord{Kind: "definition", ExternalID: "d1", Name: "CRAH", Payload: `{"id":"d1"}`}
	require.NoError(db.Create(&record).Error)
	require.NoError(Close(db))

	// Reopening must not re-run applied migrations.
	db, err = Open(path)
	require.NoError(err)
	defer Close(db)

	var count int64
	require.NoError(db.Model(&models.ExportedRecord{}).Count(&count).Error)
	require.Equal(int64(1), count)
}

func TestMigrationsNewerThan(t *testing.T) {
	require := require.New(t)

	migrations, err := MigrationsNewerThan(0)
	require.NoError(err)
	require.Len(migrations, 1)
	require.Equal("0001_create_exported_records", migrations[0].DirName())

	migrations, err = MigrationsNewerThan(1)
	require.NoError(err)
	require.Empty(migrations)
}
