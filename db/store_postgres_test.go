package db

import (
	"context"
	"testing"
	"time"

	"weddingsite/content"
	"weddingsite/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupPostgresTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres container test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)
	ctx := context.Background()
	container, err := postgres.Run(
		ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("wedding_test"),
		postgres.WithUsername("wedding"),
		postgres.WithPassword("wedding"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = container.Terminate(ctx)
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	var gormDB *gorm.DB
	var lastErr error
	for attempt := 0; attempt < 10; attempt++ {
		gormDB, lastErr = OpenGorm("postgres", dsn, &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		if lastErr != nil {
			time.Sleep(time.Duration(attempt+1) * 200 * time.Millisecond)
			continue
		}
		sqlDB, err := gormDB.DB()
		if err == nil {
			pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
			err = sqlDB.PingContext(pingCtx)
			cancel()
		}
		if err == nil {
			lastErr = nil
			break
		}
		lastErr = err
		time.Sleep(time.Duration(attempt+1) * 200 * time.Millisecond)
	}
	require.NoError(t, lastErr)
	require.NoError(t, Migrate(gormDB))
	return gormDB
}

func TestPostgresStore(t *testing.T) {
	gormDB := setupPostgresTestDB(t)
	store := NewSQLStore(gormDB)
	ctx := context.Background()

	theme := model.ThemeConfig{Primary: "#111111", Secondary: "#222222", Accent: "#333333", FontHeading: "Lora", FontBody: "Lora"}
	_, err := store.UpsertSiteContent(ctx, content.Update{Theme: &theme})
	require.NoError(t, err)
	loaded, err := store.GetSiteContent(ctx)
	require.NoError(t, err)
	assert.Equal(t, theme, loaded.Theme)
	assert.Equal(t, content.DefaultInvitationImage, loaded.Hero.InvitationImage)

	sub := model.RsvpSubmission{GuestName: "Anna", AdditionalGuests: []string{"Béla"}}
	require.NoError(t, store.CreateRSVP(ctx, &sub))
	list, err := store.ListRSVPs(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, []string{"Béla"}, list[0].AdditionalGuests)
	require.NoError(t, store.DeleteRSVP(ctx, sub.ID))

	got, err := store.GetOrSeedTranslation(ctx, model.English, map[string]string{"a": "b"})
	require.NoError(t, err)
	assert.Equal(t, "b", got["a"])
}
