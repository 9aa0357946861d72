package migration

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/smallbiznis/retailerp/pkg/db/dbtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	entries, err := fs.ReadDir(embeddedMigrations, migrationsDir)
	require.NoError(t, err)

	ups := map[string]bool{}
	downs := map[string]bool{}
	for _, entry := range entries {
		name := entry.Name()
		switch {
		case strings.HasSuffix(name, ".up.sql"):
			ups[strings.TrimSuffix(name, ".up.sql")] = true
		case strings.HasSuffix(name, ".down.sql"):
			downs[strings.TrimSuffix(name, ".down.sql")] = true
		}
	}
	require.NotEmpty(t, ups)
	assert.Equal(t, ups, downs)
}

func TestEmbeddedMigrationsCoverEveryModelTable(t *testing.T) {
	var all strings.Builder
	entries, err := fs.ReadDir(embeddedMigrations, migrationsDir)
	require.NoError(t, err)
	for _, entry := range entries {
		if !strings.HasSuffix(entry.Name(), ".up.sql") {
			continue
		}
		raw, err := fs.ReadFile(embeddedMigrations, migrationsDir+"/"+entry.Name())
		require.NoError(t, err)
		all.Write(raw)
	}

	db := dbtest.Open(t)
	for _, model := range Models() {
		stmt := db.Model(model).Statement
		require.NoError(t, stmt.Parse(model))
		assert.Contains(t, all.String(), "CREATE TABLE IF NOT EXISTS "+stmt.Schema.Table+" (", stmt.Schema.Table)
	}
}

func TestMigrateAutoMigratesSQLite(t *testing.T) {
	db := dbtest.Open(t)

	require.NoError(t, Migrate(db, "sqlite"))

	for _, model := range Models() {
		assert.True(t, db.Migrator().HasTable(model))
	}
}
