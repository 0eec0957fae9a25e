package main

import (
	"context"
	"path/filepath"
	"testing"

	"weddingsite/db"
	"weddingsite/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func runCLI(t *testing.T, args ...string) error {
	t.Helper()
	cmd := newRootCmd()
	cmd.SetArgs(args)
	return cmd.ExecuteContext(context.Background())
}

func openTestStore(t *testing.T, path string) *db.SQLStore {
	t.Helper()
	gormDB, err := db.OpenGorm("sqlite", path, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := gormDB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db.NewSQLStore(gormDB)
}

func TestMigrateCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "wedding.db")
	require.NoError(t, runCLI(t, "migrate", "--db-path", path))

	store := openTestStore(t, path)
	for _, m := range model.All() {
		assert.True(t, store.DB().Migrator().HasTable(m))
	}
}

func TestSeedCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wedding.db")
	require.NoError(t, runCLI(t, "seed", "--db-path", path, "--sample-rsvps"))

	store := openTestStore(t, path)
	ctx := context.Background()
	c, err := store.GetSiteContent(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.MainContentID, c.ID)

	hu, err := store.GetOrSeedTranslation(ctx, model.Hungarian, nil)
	require.NoError(t, err)
	assert.Equal(t, "Információk", hu["nav.info"])

	list, err := store.ListRSVPs(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	require.NoError(t, runCLI(t, "seed", "--db-path", path, "--reset-translations"))
	list, err = store.ListRSVPs(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2, "seeding without --sample-rsvps adds nothing")
}

func TestInvalidConfigFails(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("WEDDING_DB_DSN", "")
	err := runCLI(t, "migrate", "--db-driver", "postgres", "--db-dsn", "")
	assert.ErrorContains(t, err, "db.dsn")
}
