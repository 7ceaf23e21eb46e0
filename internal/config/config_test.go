package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"BILLBOOK_STORAGE_BACKEND", "BILLBOOK_STORAGE_PATH", "BILLBOOK_LOCALE",
		"BILLBOOK_CURRENCY", "BILLBOOK_UPCOMING_DAYS", "LOG_LEVEL",
	} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Storage.Backend = BackendSQLite
	cfg.Storage.Path = "billbook.db"
	cfg.Display.Locale = "en-US"
	cfg.Display.Currency = "$"

	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Save(path, cfg))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestDefaults(t *testing.T) {
	cfg := Default()

	assert.Equal(t, BackendFile, cfg.Storage.Backend)
	assert.Equal(t, "data", cfg.Storage.Path)
	assert.Equal(t, "tr", cfg.Display.Locale)
	assert.Equal(t, "TL", cfg.Display.Currency)
	assert.Equal(t, 3, cfg.Reminders.UpcomingDays)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.NoError(t, cfg.Validate())
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("display:\n  currency: EUR\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "EUR", cfg.Display.Currency)
	assert.Equal(t, "tr", cfg.Display.Locale)
	assert.Equal(t, BackendFile, cfg.Storage.Backend)
}

func TestYAMLFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Save(path, Default()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	contents := string(data)

	assert.Contains(t, contents, "backend: file")
	assert.Contains(t, contents, "locale: tr")
	assert.Contains(t, contents, "upcoming_days: 3")
}

func TestLoadDir_MissingFileMeansDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := LoadDir(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadDir_DotenvAndEnvOverride(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	require.NoError(t, Save(filepath.Join(dir, FileName), Default()))
	require.NoError(t, os.WriteFile(filepath.Join(dir, EnvFileName),
		[]byte("BILLBOOK_STORAGE_BACKEND=sqlite\nBILLBOOK_STORAGE_PATH=db/billbook.db\nBILLBOOK_UPCOMING_DAYS=7\nBILLBOOK_CURRENCY=EUR\n"), 0o644))
	t.Setenv("BILLBOOK_CURRENCY", "USD")

	cfg, err := LoadDir(dir)
	require.NoError(t, err)
	assert.Equal(t, BackendSQLite, cfg.Storage.Backend)
	assert.Equal(t, "db/billbook.db", cfg.Storage.Path)
	assert.Equal(t, 7, cfg.Reminders.UpcomingDays)
	assert.Equal(t, "USD", cfg.Display.Currency, "process environment wins over .env")
	assert.Equal(t, filepath.Join(dir, "db/billbook.db"), cfg.StoragePath(dir))
}

func TestLoadDir_BadUpcomingDays(t *testing.T) {
	clearEnv(t)
	t.Setenv("BILLBOOK_UPCOMING_DAYS", "soon")
	_, err := LoadDir(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BILLBOOK_UPCOMING_DAYS")
}

func TestValidate_CollectsEverything(t *testing.T) {
	cfg := &Config{
		Storage:   StorageConfig{Backend: "postgres"},
		Display:   DisplayConfig{Locale: "not a locale!"},
		Reminders: RemindersConfig{UpcomingDays: -1},
		Log:       LogConfig{Level: "chatty"},
	}

	err := cfg.Validate()
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "invalid storage backend")
	assert.Contains(t, msg, "storage path cannot be empty")
	assert.Contains(t, msg, "invalid display locale")
	assert.Contains(t, msg, "invalid upcoming_days")
	assert.Contains(t, msg, "invalid log level")
}

func TestStoragePath_Absolute(t *testing.T) {
	cfg := Default()
	cfg.Storage.Path = "/var/lib/billbook"
	assert.Equal(t, "/var/lib/billbook", cfg.StoragePath("/home/me/finance"))
}
