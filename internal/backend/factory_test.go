package backend

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gastos/internal/config"
	"gastos/internal/events"
	"gastos/internal/storage/csvfile"
	"gastos/internal/storage/sqlite"
)

func TestFromAppConfig(t *testing.T) {
	_, err := FromAppConfig(nil)
	assert.Error(t, err)

	_, err = FromAppConfig(&config.Config{DataBackend: "memory"})
	assert.Error(t, err)

	cfg, err := FromAppConfig(&config.Config{DataBackend: "sqlite", SQLiteDBPath: "x.db", AMQPExchange: "gastos"})
	require.NoError(t, err)
	assert.Equal(t, Config{Type: SQLiteBackend, SQLiteDBPath: "x.db", AMQPExchange: "gastos"}, cfg)
}

func TestConfigValidate(t *testing.T) {
	assert.Error(t, Config{Type: "memory"}.Validate())
	assert.Error(t, Config{Type: CSVBackend}.Validate())
	assert.Error(t, Config{Type: SQLiteBackend}.Validate())
	assert.NoError(t, Config{Type: CSVBackend, DataDir: "data"}.Validate())
	assert.Equal(t, []string{"csv", "sqlite"}, GetBackendTypeStrings())
}

func TestCreateCSVBackend(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	res, err := NewFactory(nil).CreateBackend(context.Background(), Config{Type: CSVBackend, DataDir: dir})
	require.NoError(t, err)
	t.Cleanup(func() { _ = res.Cleanup() })

	assert.IsType(t, &csvfile.Store{}, res.Store)
	assert.IsType(t, events.Nop{}, res.Publisher)
	_, err = os.Stat(filepath.Join(dir, csvfile.CategoriesFile))
	assert.NoError(t, err, "files are created eagerly")
}

func TestCreateSQLiteBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gastos.db")
	res, err := NewFactory(nil).CreateBackend(context.Background(), Config{Type: SQLiteBackend, SQLiteDBPath: path})
	require.NoError(t, err)
	t.Cleanup(func() { _ = res.Cleanup() })

	assert.IsType(t, &sqlite.Repository{}, res.Store)
	categories, err := res.Store.ListCategories(context.Background())
	require.NoError(t, err)
	assert.Len(t, categories, 1)
}
