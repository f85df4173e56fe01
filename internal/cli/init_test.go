package cli

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gastos/internal/config"
	"gastos/internal/core"
	"gastos/internal/log"
)

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("GASTOS_TEST_VALUE=from-dotenv\n"), 0o644))
	t.Cleanup(func() { _ = os.Unsetenv("GASTOS_TEST_VALUE") })

	LoadEnvFile(path)
	assert.Equal(t, "from-dotenv", os.Getenv("GASTOS_TEST_VALUE"))

	LoadEnvFile(filepath.Join(t.TempDir(), "missing.env"))
}

func TestLoadConfigValidates(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DATA_BACKEND", "postgres")

	_, err := LoadConfig(config.NewViper(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid data backend")
}

func TestOpenAppCSV(t *testing.T) {
	t.Chdir(t.TempDir())
	dir := filepath.Join(t.TempDir(), "data")
	t.Setenv("DATA_DIR", dir)

	cfg, err := LoadConfig(config.NewViper(), "")
	require.NoError(t, err)

	ctx := context.Background()
	app, err := OpenApp(ctx, cfg, log.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })

	assert.FileExists(t, filepath.Join(dir, "categories.csv"))

	_, err = app.Expenses.Create(ctx, core.ExpenseDraft{Date: "2025-01-02", Description: "Café", Amount: "4,5", Category: "Outros"})
	require.NoError(t, err)
	summary, err := app.Expenses.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, "4.50", core.FormatAmount(summary.Total))
}

func TestSetupLogger(t *testing.T) {
	logger := SetupLogger(&config.Config{LogLevel: "debug", LogFormat: "json"})
	assert.True(t, logger.Enabled(context.Background(), slog.LevelDebug))
	assert.Equal(t, log.ComponentApp, logger.Component())
}
