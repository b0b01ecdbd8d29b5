package settingsstore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportStore_Defaults(t *testing.T) {
	repo, cleanup := setupSettingsRepo(t)
	defer cleanup()

	t.Setenv("EXPORT_ENABLED", "")
	t.Setenv("EXPORT_DIR", "")
	t.Setenv("EXPORT_SCHEDULE", "")

	store := NewExportStore(repo)
	config := store.GetConfig()

	assert.False(t, config.Enabled)
	assert.Equal(t, "", config.Dir)
	assert.Equal(t, DefaultExportSchedule, config.Schedule)
}

func TestExportStore_EnvironmentFallback(t *testing.T) {
	repo, cleanup := setupSettingsRepo(t)
	defer cleanup()

	t.Setenv("EXPORT_ENABLED", "true")
	t.Setenv("EXPORT_DIR", "/tmp/journal-export")
	t.Setenv("EXPORT_SCHEDULE", "30 4 * * *")

	store := NewExportStore(repo)
	config := store.GetConfig()

	assert.True(t, config.Enabled)
	assert.Equal(t, "/tmp/journal-export", config.Dir)
	assert.Equal(t, "30 4 * * *", config.Schedule)
}

func TestExportStore_DatabaseOverridesEnvironment(t *testing.T) {
	repo, cleanup := setupSettingsRepo(t)
	defer cleanup()

	t.Setenv("EXPORT_DIR", "/tmp/from-env")

	store := NewExportStore(repo)
	require.NoError(t, store.SetDir("/tmp/from-db"))

	assert.Equal(t, "/tmp/from-db", store.GetConfig().Dir)
	assert.Equal(t, "/tmp/from-db", store.ExportDir())
}

func TestExportStore_SetSchedule_RejectsInvalid(t *testing.T) {
	repo, cleanup := setupSettingsRepo(t)
	defer cleanup()

	store := NewExportStore(repo)
	assert.Error(t, store.SetSchedule("not a cron line"))
	assert.Error(t, store.SetSchedule("* * *"))
	assert.NoError(t, store.SetSchedule("0 3 * * *"))
}

func TestExportStore_StatusRoundTrip(t *testing.T) {
	repo, cleanup := setupSettingsRepo(t)
	defer cleanup()

	store := NewExportStore(repo)

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.Nil(t, status.LastRunAt)
	assert.Equal(t, "", status.Status)

	require.NoError(t, store.SetStatus("exported 3 entries (0 failed)"))

	status, err = store.GetStatus()
	require.NoError(t, err)
	require.NotNil(t, status.LastRunAt)
	assert.WithinDuration(t, time.Now(), *status.LastRunAt, time.Minute)
	assert.Equal(t, "exported 3 entries (0 failed)", status.Status)
}

func TestValidateCronSchedule(t *testing.T) {
	assert.NoError(t, ValidateCronSchedule("0 3 * * *"))
	assert.NoError(t, ValidateCronSchedule("*/15 * * * *"))
	assert.Error(t, ValidateCronSchedule(""))
	assert.Error(t, ValidateCronSchedule("61 3 * * *"))
}

func TestNextRunTime(t *testing.T) {
	next, err := NextRunTime("0 3 * * *")
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.True(t, next.After(time.Now()))
}
