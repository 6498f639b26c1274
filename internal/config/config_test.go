package config_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tiliavir/hourglass/internal/config"
	"github.com/Tiliavir/hourglass/internal/model"
)

func TestFileStoreFirstRunWritesTemplate(t *testing.T) {
	dir := t.TempDir()
	cfg, err := config.NewFileStore(dir).Load()
	require.NoError(t, err)
	assert.Equal(t, config.DefaultListen, cfg.Listen)
	assert.Equal(t, "info", cfg.LogLevel)

	data, err := os.ReadFile(filepath.Join(dir, "config.json"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "// hourglass configuration"))

	// The template itself must parse.
	again, err := config.NewFileStore(dir).Load()
	require.NoError(t, err)
	assert.Equal(t, cfg, again)
}

func TestFileStoreReadsCommentedFile(t *testing.T) {
	dir := t.TempDir()
	body := `// comment
{
  // timezone for day buckets
  "timezone": "America/Santo_Domingo",
  "billing": {"name": "Jane", "hourly_rate": 20, "usd_to_dop_rate": 58}
}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), []byte(body), 0o600))

	cfg, err := config.NewFileStore(dir).Load()
	require.NoError(t, err)
	assert.Equal(t, "America/Santo_Domingo", cfg.Timezone)
	assert.Equal(t, 20.0, cfg.Billing.HourlyRate)
	assert.True(t, cfg.Billing.Complete())
	assert.Equal(t, config.DefaultListen, cfg.Listen)
}

func TestFileStoreRejectsBadJSON(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), []byte("{nope"), 0o600))
	_, err := config.NewFileStore(dir).Load()
	assert.Error(t, err)
}

func TestFileStoreSaveKeepsComments(t *testing.T) {
	dir := t.TempDir()
	store := config.NewFileStore(dir)
	cfg, err := store.Load()
	require.NoError(t, err)

	cfg.APIKey = "secret"
	cfg.WorkspaceID = "ws1"
	require.NoError(t, store.Save(cfg))

	loaded, err := config.NewFileStore(dir).Load()
	require.NoError(t, err)
	assert.Equal(t, "secret", loaded.APIKey)
	assert.Equal(t, "ws1", loaded.WorkspaceID)

	data, err := os.ReadFile(filepath.Join(dir, "config.json"))
	require.NoError(t, err)
	assert.NotContains(t, string(data), "secret")

	// Logging out clears the saved credentials.
	require.NoError(t, store.Save(config.Config{}))
	loaded, err = store.Load()
	require.NoError(t, err)
	assert.Empty(t, loaded.APIKey)
}

func TestFileStoreBillingRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store := config.NewFileStore(dir)
	cfg, err := store.Load()
	require.NoError(t, err)

	cfg.APIKey = "secret"
	cfg.Billing = model.BillingProfile{Name: "Jane Doe", HourlyRate: 22.5, USDToDOPRate: 60.25}
	require.NoError(t, store.Save(cfg))

	loaded, err := config.NewFileStore(dir).Load()
	require.NoError(t, err)
	assert.Equal(t, cfg.Billing, loaded.Billing)
	assert.True(t, loaded.Billing.Complete())

	// Clearing only the credential keeps the profile.
	loaded.APIKey = ""
	require.NoError(t, store.Save(loaded))
	again, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, again.APIKey)
	assert.Equal(t, cfg.Billing, again.Billing)

	// Zero values remove the saved profile.
	require.NoError(t, store.Save(config.Config{}))
	again, err = store.Load()
	require.NoError(t, err)
	assert.Equal(t, model.BillingProfile{}, again.Billing)
}

func TestFileStoreRejectsBadSavedRate(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "profile.json"), []byte(`{"hourly_rate": "lots"}`), 0o600))
	_, err := config.NewFileStore(dir).Load()
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		config.EnvAPIKey:    " key ",
		config.EnvWorkspace: "ws2",
		config.EnvTimezone:  "UTC",
		config.EnvLogLevel:  "debug",
		config.EnvRate:      "25.5",
	}
	lookup := func(k string) (string, bool) { v, ok := env[k]; return v, ok }

	cfg, err := config.ApplyEnv(config.Config{APIKey: "file", Listen: "x"}, lookup)
	require.NoError(t, err)
	assert.Equal(t, "key", cfg.APIKey)
	assert.Equal(t, "ws2", cfg.WorkspaceID)
	assert.Equal(t, "UTC", cfg.Timezone)
	assert.Equal(t, "x", cfg.Listen)
	assert.Equal(t, 25.5, cfg.Billing.HourlyRate)
	assert.Equal(t, slog.LevelDebug, cfg.Level())

	env[config.EnvRate] = "lots"
	_, err = config.ApplyEnv(config.Config{}, lookup)
	assert.Error(t, err)
}

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("HOURGLASS_TEST_VAR=from-dotenv\n"), 0o600))
	t.Setenv("HOURGLASS_TEST_VAR", "")
	os.Unsetenv("HOURGLASS_TEST_VAR")

	require.NoError(t, config.LoadDotEnv(path))
	assert.Equal(t, "from-dotenv", os.Getenv("HOURGLASS_TEST_VAR"))

	require.NoError(t, config.LoadDotEnv(filepath.Join(t.TempDir(), "missing.env")))
}

func TestLocation(t *testing.T) {
	loc, err := config.Config{}.Location()
	require.NoError(t, err)
	assert.Equal(t, "Local", loc.String())

	loc, err = config.Config{Timezone: "UTC"}.Location()
	require.NoError(t, err)
	assert.Equal(t, "UTC", loc.String())

	_, err = config.Config{Timezone: "Mars/Olympus"}.Location()
	assert.Error(t, err)
}

func TestLevelFallsBackToInfo(t *testing.T) {
	assert.Equal(t, slog.LevelInfo, config.Config{LogLevel: "chatty"}.Level())
	assert.Equal(t, slog.LevelWarn, config.Config{LogLevel: "warn"}.Level())
}

func TestMemoryStore(t *testing.T) {
	var s config.Store = &config.MemoryStore{}
	require.NoError(t, s.Save(config.Config{APIKey: "k"}))
	cfg, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, "k", cfg.APIKey)
}
